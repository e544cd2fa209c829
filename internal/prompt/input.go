package prompt

import (
	"errors"
	"io"
	"sync"
)

const (
	keyCtrlC byte = 0x03
	keyCtrlD byte = 0x04
)

// sharedInput reads the source on one goroutine and buffers bytes until a
// prompt gate claims them, so input typed ahead of a prompt is kept.
type sharedInput struct {
	src       io.Reader
	startOnce sync.Once

	mu     sync.Mutex
	cond   *sync.Cond
	buf    []byte
	err    error
	lastCR bool
}

func newSharedInput(src io.Reader) *sharedInput {
	s := &sharedInput{src: src}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// gate returns a reader for a single prompt.
func (s *sharedInput) gate() *inputGate {
	s.startOnce.Do(func() { go s.pump() })
	return &inputGate{in: s}
}

func (s *sharedInput) pump() {
	chunk := make([]byte, 256)
	for {
		n, err := s.src.Read(chunk)
		s.mu.Lock()
		s.buf = append(s.buf, chunk[:n]...)
		if err != nil {
			s.err = err
		}
		s.cond.Broadcast()
		s.mu.Unlock()
		if err != nil {
			return
		}
	}
}

// inputGate hands bytes to one prompt program. A read never crosses a submit
// key, and once closed the gate returns io.EOF without consuming anything.
type inputGate struct {
	in *sharedInput

	// guarded by in.mu
	closed  bool
	typed   bool
	eofSent bool
}

// Read implements io.Reader. A newline is delivered as a carriage return, and
// the newline of a CRLF pair is dropped. When the source is exhausted the gate
// submits pending text once, or sends Ctrl-D when nothing was typed.
func (g *inputGate) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	s := g.in
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		for !g.closed && len(s.buf) == 0 && (s.err == nil || g.eofSent) {
			s.cond.Wait()
		}
		if g.closed {
			return 0, io.EOF
		}
		if len(s.buf) == 0 {
			if !errors.Is(s.err, io.EOF) {
				return 0, s.err
			}
			g.eofSent = true
			if g.typed {
				g.typed = false
				p[0] = '\r'
			} else {
				p[0] = keyCtrlD
			}
			return 1, nil
		}

		n, used := 0, 0
		for used < len(s.buf) && n < len(p) {
			b := s.buf[used]
			used++
			if b == '\n' {
				if s.lastCR {
					s.lastCR = false
					continue
				}
				b = '\r'
			} else {
				s.lastCR = b == '\r'
			}
			p[n] = b
			n++
			if b == '\r' || b == keyCtrlC {
				g.typed = false
				break
			}
			if b == keyCtrlD {
				break
			}
			g.typed = true
		}
		s.buf = s.buf[used:]
		if n > 0 {
			return n, nil
		}
	}
}

func (g *inputGate) close() {
	g.in.mu.Lock()
	g.closed = true
	g.in.cond.Broadcast()
	g.in.mu.Unlock()
}
