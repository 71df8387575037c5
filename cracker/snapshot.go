package cracker

import (
	"github.com/Popax21/wepcrack/predictor"
	"github.com/Popax21/wepcrack/wep"
)

// TesterSnapshot is a read-only copy of a Tester's enumeration state, for
// display by an observer. Unlike a live Tester, it holds no reference
// back into the cracker's state.
type TesterSnapshot struct {
	CurrentKeyIndex int
	NumKeys         int
	CurrentKey      [predictor.NumKeyBytes]byte
	LIndices        [predictor.NumKeyBytes]int
	MaybeWep40      bool
}

// Snapshot is a read-only, self-contained copy of a Cracker's state,
// suitable for an observer to inspect without holding any lock and
// without risk of a data race with the worker goroutine that continues
// to mutate the live Cracker.
type Snapshot struct {
	Phase         Phase
	NumSamples    uint64
	TestBufferLen int
	TestBufferCap int

	ByteInfos [predictor.NumKeyBytes]predictor.ByteInfo

	// Tester is non-nil once the cracker has entered
	// PhaseCandidateKeyTesting.
	Tester *TesterSnapshot

	// CrackedKey and HasCrackedKey are set once the cracker reaches
	// PhaseFinishedSuccess.
	CrackedKey    wep.Key
	HasCrackedKey bool

	Progress float64
}

// snapshot builds a Snapshot of the cracker's current state. Callers must
// hold whatever lock protects concurrent access to c.
func (c *Cracker) snapshot() Snapshot {
	s := Snapshot{
		Phase:         c.phase,
		NumSamples:    c.NumSamples(),
		TestBufferLen: c.testBuf.Len(),
		TestBufferCap: c.cfg.NumTestSamples,
		ByteInfos:     c.predictor.ByteInfos(),
		Progress:      c.Progress(),
	}

	if c.tester != nil {
		lIndices := c.tester.LIndices()
		s.Tester = &TesterSnapshot{
			CurrentKeyIndex: c.tester.CurrentKeyIndex(),
			NumKeys:         c.tester.NumKeys(),
			LIndices:        lIndices,
			MaybeWep40:      c.tester.MaybeWep40(),
		}
		if !c.tester.AtEnd() {
			s.Tester.CurrentKey = c.tester.CurrentKey()
		}
	}

	if key, ok := c.CrackedKey(); ok {
		s.CrackedKey = key
		s.HasCrackedKey = true
	}

	return s
}
