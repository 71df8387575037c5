// Package testbuffer retains a periodically-subsampled FIFO of observed
// keystream samples, used to validate candidate WEP keys offline.
package testbuffer

import (
	"math"

	"github.com/Popax21/wepcrack/wep"
)

// Buffer is a bounded FIFO of keystream samples, admitting only every
// Period-th offered sample, used to check candidate keys against real
// observed traffic.
type Buffer struct {
	samples []wep.Sample
	cap     int

	periodTimer int
	period      int

	thresholdFrac float64
}

// New returns an empty Buffer that retains at most capacity samples,
// admitting every period-th sample offered to Accept, and accepting a
// candidate key in TestKey iff at least thresholdFrac of the retained
// samples' keystreams match.
func New(capacity, period int, thresholdFrac float64) *Buffer {
	if capacity <= 0 {
		panic("testbuffer: capacity must be positive")
	}
	if period <= 0 {
		panic("testbuffer: period must be positive")
	}
	return &Buffer{
		samples:       make([]wep.Sample, 0, capacity),
		cap:           capacity,
		period:        period,
		thresholdFrac: thresholdFrac,
	}
}

// Len returns the number of samples currently retained.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Full reports whether the buffer holds as many samples as its capacity.
func (b *Buffer) Full() bool {
	return len(b.samples) >= b.cap
}

// Accept offers a sample to the buffer. Only every Period-th offered
// sample is retained; when the buffer is already full, the oldest
// retained sample is evicted to make room.
func (b *Buffer) Accept(sample wep.Sample) {
	b.periodTimer++
	if b.periodTimer < b.period {
		return
	}
	b.periodTimer = 0

	if len(b.samples) >= b.cap {
		b.samples = append(b.samples[:0], b.samples[1:]...)
	}
	b.samples = append(b.samples, sample)
}

// TestKey checks whether key reproduces the retained samples' keystreams
// closely enough to count as a match: the key is accepted iff at least
// ceil(len(samples)*thresholdFrac) samples match, i.e. at most
// len(samples)-ceil(len(samples)*thresholdFrac) mismatch. Evaluation short
// circuits as soon as the mismatch budget is exceeded.
func (b *Buffer) TestKey(key wep.Key) bool {
	n := len(b.samples)
	if n == 0 {
		return true
	}

	threshold := int(math.Ceil(float64(n) * b.thresholdFrac))
	negThreshold := n - threshold

	negSamples := 0
	for _, sample := range b.samples {
		cipher := key.Cipher(sample.IV)

		var keystream [wep.KeystreamLen]byte
		cipher.GenKeystream(keystream[:])

		if keystream == sample.Keystream {
			continue
		}

		negSamples++
		if negSamples > negThreshold {
			return false
		}
	}

	return true
}
