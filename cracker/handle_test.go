package cracker

import (
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Popax21/wepcrack/internal/rc4"
	"github.com/Popax21/wepcrack/wep"
)

type countingProvider struct {
	key    wep.Key
	rng    *rand.Rand
	mu     sync.Mutex
	issued int64
}

func (p *countingProvider) Next(cancel *atomic.Bool) (wep.Sample, bool) {
	if cancel.Load() {
		return wep.Sample{}, false
	}

	p.mu.Lock()
	var iv wep.IV
	p.rng.Read(iv[:])
	p.mu.Unlock()

	s := rc4.FromKey(p.key.Seed(iv))
	var ks [wep.KeystreamLen]byte
	s.GenKeystream(ks[:])

	atomic.AddInt64(&p.issued, 1)
	return wep.Sample{IV: iv, Keystream: ks}, true
}

func TestHandleSnapshotDuringConcurrentWork(t *testing.T) {
	key := wep.New104([wep.Len104]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13})
	provider := &countingProvider{key: key, rng: rand.New(rand.NewSource(123))}

	cfg := Config{
		NormalThreshold:     0.075,
		StrongThreshold:     0.025,
		NumTestSamples:      2048,
		TestSamplePeriod:    64,
		TestSampleThreshold: 1.0,
	}

	handle, err := Launch(cfg, provider, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer handle.Shutdown()

	const observations = 200
	for i := 0; i < observations; i++ {
		snap := handle.Snapshot()
		require.GreaterOrEqual(t, snap.Progress, 0.0)
		require.LessOrEqual(t, snap.Progress, 1.0+1e-9)
		time.Sleep(time.Millisecond)
	}

	require.True(t, handle.Alive() || handle.Snapshot().Phase.Terminal())
}

func TestHandleShutdownJoinsWorker(t *testing.T) {
	key := wep.New40([wep.Len40]byte{1, 2, 3, 4, 5})
	provider := &countingProvider{key: key, rng: rand.New(rand.NewSource(9))}

	cfg := Config{
		NormalThreshold:     0.5,
		StrongThreshold:     0.35,
		NumTestSamples:      1024,
		TestSamplePeriod:    128,
		TestSampleThreshold: 1.0,
	}

	handle, err := Launch(cfg, provider, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	handle.Shutdown()

	require.False(t, handle.Alive())
}
