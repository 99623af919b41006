package testutil

import (
	"fmt"
	"sync"
)

// SequentialUUIDSource mints deterministic, well-formed UUIDs for tests.
//
// The same submission run against the same SequentialUUIDSource assigns
// byte-identical content UUIDs, which makes ident-hash mappings and golden
// tree snapshots stable across runs.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialUUIDSource struct {
	mu  sync.Mutex
	seq int64
}

// NewSequentialUUIDSource creates a source whose first UUID ends in ...0001.
func NewSequentialUUIDSource() *SequentialUUIDSource {
	return &SequentialUUIDSource{}
}

// NewUUID returns the next UUID in sequence.
//
// Implements publish.UUIDSource.
func (s *SequentialUUIDSource) NewUUID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", s.seq)
}

// Reset rewinds the sequence so the same scenario can run again with
// identical assignments.
func (s *SequentialUUIDSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = 0
}

// FixedUUIDSource returns a preset list of UUIDs in order.
//
// Panics when the list is exhausted; a test that asks for more UUIDs than it
// planned for is broken.
type FixedUUIDSource struct {
	mu    sync.Mutex
	uuids []string
	next  int
}

// NewFixedUUIDSource creates a source that hands out the given UUIDs in order.
func NewFixedUUIDSource(uuids ...string) *FixedUUIDSource {
	return &FixedUUIDSource{uuids: uuids}
}

// NewUUID returns the next preset UUID.
//
// Implements publish.UUIDSource.
func (s *FixedUUIDSource) NewUUID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.uuids) {
		panic(fmt.Sprintf("FixedUUIDSource exhausted after %d uuids", len(s.uuids)))
	}
	u := s.uuids[s.next]
	s.next++
	return u
}
