// Package autosave asks for a save at a fixed interval.
package autosave

import (
	"sync"
	"time"

	"github.com/bethropolis/modsed/internal/logger"
)

// DefaultInterval is used when no positive interval is configured.
const DefaultInterval = time.Minute

// AutoSave calls a notify function on every tick until stopped. The
// function runs on the ticker goroutine; it should only hand the request
// to the event loop.
type AutoSave struct {
	interval time.Duration
	notify   func()

	mu      sync.Mutex
	stop    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// New creates a stopped AutoSave.
func New(interval time.Duration, notify func()) *AutoSave {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &AutoSave{interval: interval, notify: notify}
}

// Interval returns the time between ticks.
func (a *AutoSave) Interval() time.Duration { return a.interval }

// Running reports whether the ticker goroutine is active.
func (a *AutoSave) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Start launches the ticker goroutine. Starting twice is a no-op.
func (a *AutoSave) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return
	}
	a.running = true
	a.stop = make(chan struct{})
	a.wg.Add(1)
	go a.loop(a.stop)
	logger.DebugTagf("autosave", "started, interval %v", a.interval)
}

// Stop ends the goroutine and waits for it.
func (a *AutoSave) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	close(a.stop)
	a.mu.Unlock()
	a.wg.Wait()
	logger.DebugTagf("autosave", "stopped")
}

func (a *AutoSave) loop(stop <-chan struct{}) {
	defer a.wg.Done()
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			a.notify()
		case <-stop:
			return
		}
	}
}
