package main

import (
	"math/rand"
	"sync/atomic"

	"github.com/Popax21/wepcrack/internal/rc4"
	"github.com/Popax21/wepcrack/wep"
)

// simulatedProvider is a cracker.SampleProvider that manufactures
// keystream samples for a known key under random IVs, standing in for
// the 802.11 capture/ARP-replay transport that is out of scope for this
// module. It never blocks and checks cancel on every call, so it can't
// stall shutdown.
type simulatedProvider struct {
	key wep.Key
	rng *rand.Rand
}

func newSimulatedProvider(key wep.Key, seed int64) *simulatedProvider {
	return &simulatedProvider{key: key, rng: rand.New(rand.NewSource(seed))}
}

func (p *simulatedProvider) Next(cancel *atomic.Bool) (wep.Sample, bool) {
	if cancel.Load() {
		return wep.Sample{}, false
	}

	var iv wep.IV
	p.rng.Read(iv[:])

	s := rc4.FromKey(p.key.Seed(iv))
	var ks [wep.KeystreamLen]byte
	s.GenKeystream(ks[:])

	return wep.Sample{IV: iv, Keystream: ks}, true
}
