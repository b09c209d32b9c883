// Package history keeps a bounded list of document snapshots for undo and redo.
package history

import (
	"sync"

	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/logger"
)

// DefaultCapacity is the number of snapshots kept when none is configured.
const DefaultCapacity = 20

// Manager is the undo stack. The snapshot at head always matches the
// document on screen after Capture, Undo or Redo.
type Manager struct {
	snapshots []*document.Document
	head      int
	capacity  int
	mutex     sync.Mutex
}

// NewManager creates a manager keeping at most capacity snapshots.
func NewManager(capacity int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Manager{
		snapshots: make([]*document.Document, 0, capacity),
		head:      -1,
		capacity:  capacity,
	}
}

// Capture stores a copy of doc as the newest snapshot, dropping every
// snapshot after head and evicting the oldest when full.
func (m *Manager) Capture(doc *document.Document) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.head+1 < len(m.snapshots) {
		// Clear the tail so dropped snapshots can be collected.
		for i := m.head + 1; i < len(m.snapshots); i++ {
			m.snapshots[i] = nil
		}
		m.snapshots = m.snapshots[:m.head+1]
	}

	m.snapshots = append(m.snapshots, doc.Clone())
	if len(m.snapshots) > m.capacity {
		evicted := len(m.snapshots) - m.capacity
		m.snapshots = append(m.snapshots[:0], m.snapshots[evicted:]...)
	}
	m.head = len(m.snapshots) - 1

	logger.DebugTagf("undo", "captured snapshot, head %d of %d", m.head, len(m.snapshots))
}

// Undo steps head back and returns a copy of that snapshot. At the oldest
// snapshot it returns false and changes nothing.
func (m *Manager) Undo() (*document.Document, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.head <= 0 {
		logger.DebugTagf("undo", "nothing to undo")
		return nil, false
	}
	m.head--
	logger.DebugTagf("undo", "undo to head %d", m.head)
	return m.snapshots[m.head].Clone(), true
}

// Redo steps head forward and returns a copy of that snapshot.
func (m *Manager) Redo() (*document.Document, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.head >= len(m.snapshots)-1 {
		logger.DebugTagf("undo", "nothing to redo")
		return nil, false
	}
	m.head++
	logger.DebugTagf("undo", "redo to head %d", m.head)
	return m.snapshots[m.head].Clone(), true
}

// CanUndo reports whether Undo would succeed.
func (m *Manager) CanUndo() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.head > 0
}

// CanRedo reports whether Redo would succeed.
func (m *Manager) CanRedo() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.head < len(m.snapshots)-1
}

// Len is the number of stored snapshots.
func (m *Manager) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.snapshots)
}

// Head is the index of the current snapshot, -1 when empty.
func (m *Manager) Head() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.head
}

// Capacity is the configured bound.
func (m *Manager) Capacity() int { return m.capacity }

// Current returns a copy of the snapshot at head.
func (m *Manager) Current() (*document.Document, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.head < 0 {
		return nil, false
	}
	return m.snapshots[m.head].Clone(), true
}

// Clear drops every snapshot.
func (m *Manager) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.snapshots = m.snapshots[:0]
	m.head = -1
}
