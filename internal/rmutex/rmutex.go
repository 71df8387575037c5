// Package rmutex implements a dominant/recessive mutex discipline: two
// roles share one lock, but the "dominant" role (the observer) can assert
// priority over the "recessive" role (the worker) so a tight recessive
// loop never starves it out.
package rmutex

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// RecessiveMutex is a sync.Mutex augmented with a "wants access" flag.
// LockDominant sets the flag before acquiring the lock and clears it once
// held; LockRecessive spins on the flag before attempting to acquire the
// lock at all. The two roles share the same underlying mutex, there is
// no lock upgrade, just an acquisition-order bias in the dominant role's
// favor.
type RecessiveMutex struct {
	wantsAccess atomic.Bool
	mu          sync.Mutex
}

// New returns an unlocked RecessiveMutex.
func New() *RecessiveMutex {
	return &RecessiveMutex{}
}

// LockDominant acquires the lock with priority: it marks intent before
// locking so a concurrent LockRecessive call yields to it.
func (m *RecessiveMutex) LockDominant() {
	m.wantsAccess.Store(true)
	m.mu.Lock()
	m.wantsAccess.Store(false)
}

// Unlock releases the lock. It is used to release a lock acquired by
// either LockDominant or LockRecessive.
func (m *RecessiveMutex) Unlock() {
	m.mu.Unlock()
}

// LockRecessive acquires the lock, first yielding the processor for as
// long as a dominant acquisition is pending so the dominant role is never
// starved by a tight recessive loop.
func (m *RecessiveMutex) LockRecessive() {
	for m.wantsAccess.Load() {
		runtime.Gosched()
	}
	m.mu.Lock()
}
