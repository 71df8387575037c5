package cracker

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Popax21/wepcrack/internal/rmutex"
)

// recoveredPanic wraps a recovered panic value so it can be stored in an
// atomic.Value (which requires a consistent concrete type across Store
// calls).
type recoveredPanic struct {
	value any
}

// Handle runs a Cracker's sample-collection/testing loop on a background
// worker goroutine while letting a foreground observer read consistent
// Snapshots at low latency, through a dominant/recessive lock: the
// worker locks recessively on every step, the observer locks dominantly
// to read, so the observer is never starved by a tight worker loop.
type Handle struct {
	mu      *rmutex.RecessiveMutex
	cracker *Cracker
	cancel  atomic.Bool

	wg   sync.WaitGroup
	done chan struct{}
	pnc  atomic.Value // holds recoveredPanic
}

// Launch constructs a Cracker and starts its worker goroutine.
func Launch(cfg Config, provider SampleProvider, logger *slog.Logger) (*Handle, error) {
	c, err := New(cfg, provider, logger)
	if err != nil {
		return nil, err
	}

	h := &Handle{
		mu:      rmutex.New(),
		cracker: c,
		done:    make(chan struct{}),
	}

	h.wg.Add(1)
	go h.run()

	return h, nil
}

func (h *Handle) run() {
	defer h.wg.Done()
	defer close(h.done)
	defer func() {
		if r := recover(); r != nil {
			h.pnc.Store(recoveredPanic{value: r})
		}
	}()

	for {
		h.mu.LockRecessive()
		if h.cancel.Load() {
			h.mu.Unlock()
			return
		}

		h.cracker.DoWork(&h.cancel)
		terminal := h.cracker.Phase().Terminal()

		h.mu.Unlock()

		if terminal {
			return
		}
	}
}

// Alive reports whether the worker goroutine is still running.
func (h *Handle) Alive() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Snapshot acquires the dominant lock and returns a self-contained copy
// of the cracker's current state.
func (h *Handle) Snapshot() Snapshot {
	h.mu.LockDominant()
	defer h.mu.Unlock()
	return h.cracker.snapshot()
}

// Shutdown signals the worker to exit, waits for it to do so, and
// re-panics on the calling goroutine if the worker panicked. It is safe
// to call Shutdown more than once; subsequent calls are no-ops (aside
// from re-raising an already-captured panic).
func (h *Handle) Shutdown() {
	h.cancel.Store(true)
	h.wg.Wait()

	if p, ok := h.pnc.Load().(recoveredPanic); ok {
		panic(p.value)
	}
}
