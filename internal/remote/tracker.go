package remote

import "sync"

// Tracker numbers saves so that only the newest one may report back.
type Tracker struct {
	mu     sync.Mutex
	latest uint64
}

// Begin starts a save and returns its sequence number.
func (t *Tracker) Begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest++
	return t.latest
}

// Finish reports whether seq is still the newest save.
func (t *Tracker) Finish(seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return seq == t.latest
}
