// Package generator builds randomized drill queues of phonetic codes.
package generator

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"
)

// Generator produces shuffled code queues.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded from system entropy.
func New() *Generator {
	return NewWithSource(rand.NewSource(entropySeed()))
}

// NewWithSource returns a Generator drawing from src. A fixed seed yields a fixed order.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Shuffled returns every code exactly once in uniformly random order.
func (g *Generator) Shuffled() []string {
	queue := Codes()
	g.rnd.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})
	return queue
}

func entropySeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}
