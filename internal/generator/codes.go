package generator

import "strings"

// codes holds the NATO phonetic alphabet in letter order.
var codes = [...]string{
	"Alfa", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot", "Golf",
	"Hotel", "India", "Juliett", "Kilo", "Lima", "Mike", "November",
	"Oscar", "Papa", "Quebec", "Romeo", "Sierra", "Tango", "Uniform",
	"Victor", "Whiskey", "Xray", "Yankee", "Zulu",
}

// Codes returns a copy of the alphabet in A to Z order.
func Codes() []string {
	out := make([]string, len(codes))
	copy(out, codes[:])
	return out
}

// Letter returns the uppercase prompt letter for a code.
func Letter(code string) string {
	if code == "" {
		return ""
	}
	return strings.ToUpper(code[:1])
}
