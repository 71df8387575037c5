package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shogo82148/memoize"

	"github.com/Popax21/wepcrack/cracker"
)

// sessions memoizes in-flight cracker.Handles by target identifier (e.g.
// a BSSID), so concurrent lookups of the same target's session don't
// race the construction of its worker goroutine. Handles never expire on
// their own (the far-future expiry below), so callers are responsible
// for calling Shutdown explicitly; the Group only dedupes concurrent
// starts of the same target, it is not an eviction policy.
type sessions struct {
	group memoize.Group[string, *cracker.Handle]
}

func newSessions() *sessions {
	return &sessions{}
}

// getOrStart returns the existing session for target, starting one with
// start if none is running yet.
func (s *sessions) getOrStart(ctx context.Context, target string, start func() (*cracker.Handle, error)) (*cracker.Handle, error) {
	handle, _, err := s.group.Do(ctx, target, func(ctx context.Context, target string) (*cracker.Handle, time.Time, error) {
		h, err := start()
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("start session for %q: %w", target, err)
		}
		return h, time.Now().AddDate(100, 0, 0), nil
	})
	return handle, err
}
