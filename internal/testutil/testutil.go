// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abreit/rethinkdb/internal/term"
)

// Wire returns the wire JSON of root, failing the test if it cannot be encoded.
func Wire(t testing.TB, root *term.Term) string {
	t.Helper()
	data, err := term.Encode(root)
	require.NoError(t, err)
	return string(data)
}

// ScriptedSource is an identifier source that replays a fixed list.
//
// It lets a test pin the exact identifiers a construction receives, for
// instance to check that non-sequential ids are carried through unchanged.
// Next panics once the script is exhausted.
type ScriptedSource struct {
	mu  sync.Mutex
	ids []int64
	pos int
}

// NewScriptedSource creates a source returning ids in order.
func NewScriptedSource(ids ...int64) *ScriptedSource {
	return &ScriptedSource{ids: ids}
}

// Next returns the next scripted identifier.
func (s *ScriptedSource) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.ids) {
		panic(fmt.Sprintf("testutil: scripted source exhausted after %d ids", len(s.ids)))
	}
	id := s.ids[s.pos]
	s.pos++
	return id
}

// Remaining reports how many scripted identifiers have not been issued.
func (s *ScriptedSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids) - s.pos
}
