package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDGenerator returns "<prefix>-1", "<prefix>-2", ... in order.
//
// Unlike engine.FixedGenerator it never runs out, which suits tests that
// create an unknown number of matches.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequenceIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceIDGenerator creates a generator. An empty prefix means "match".
func NewSequenceIDGenerator(prefix string) *SequenceIDGenerator {
	if prefix == "" {
		prefix = "match"
	}
	return &SequenceIDGenerator{prefix: prefix}
}

// Generate returns the next id. Implements engine.IDGenerator.
func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Reset restarts the sequence at 1.
func (g *SequenceIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
