// Package cracker drives the end-to-end WEP key recovery as a phased,
// cancellable computation: it sequences the predictor and test buffer
// through sample collection, hands their frozen output to a candidate
// key tester, and exposes progress to an observer through a
// dominant/recessive concurrency handshake (see Handle).
package cracker

import (
	"log/slog"
	"sync/atomic"

	"github.com/Popax21/wepcrack/predictor"
	"github.com/Popax21/wepcrack/testbuffer"
	"github.com/Popax21/wepcrack/tester"
	"github.com/Popax21/wepcrack/wep"
)

// readyCheckPeriod is how many accepted samples pass between checks of
// whether sample collection is done. Checking every sample would waste
// time recomputing byte infos; this amortizes that cost.
const readyCheckPeriod = 2048

// SampleProvider supplies keystream samples to the cracker. It is called
// on exactly one goroutine (the cracker's worker) and does not need to be
// safe for concurrent use. Implementations must observe cancel and
// return promptly (within a bounded time) once it is set.
type SampleProvider interface {
	// Next returns the next available keystream sample, or ok=false if
	// none is currently available (including when cancel is set).
	Next(cancel *atomic.Bool) (sample wep.Sample, ok bool)
}

// Cracker is the core key-recovery state machine. It is not safe for
// concurrent use on its own; Handle provides the synchronized wrapper
// that a worker goroutine and an observer goroutine can share.
type Cracker struct {
	cfg      Config
	provider SampleProvider
	logger   *slog.Logger

	phase      Phase
	predictor  *predictor.Predictor
	testBuf    *testbuffer.Buffer
	delayTimer int

	tester     *tester.Tester
	crackedKey wep.Key
}

// New constructs a Cracker. It returns an error if cfg fails Validate.
func New(cfg Config, provider SampleProvider, logger *slog.Logger) (*Cracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Cracker{
		cfg:      cfg,
		provider: provider,
		logger:   logger,

		phase:     PhaseSampleCollection,
		predictor: predictor.New(),
		testBuf:   testbuffer.New(cfg.NumTestSamples, cfg.TestSamplePeriod, cfg.TestSampleThreshold),
	}, nil
}

// Phase returns the cracker's current phase.
func (c *Cracker) Phase() Phase {
	return c.phase
}

// NumSamples returns the number of samples folded into the predictor so far.
func (c *Cracker) NumSamples() uint64 {
	return c.predictor.NumSamples()
}

// CrackedKey returns the recovered key and true, if the cracker has
// reached PhaseFinishedSuccess.
func (c *Cracker) CrackedKey() (wep.Key, bool) {
	return c.crackedKey, c.phase == PhaseFinishedSuccess
}

// thresholdFor returns the configured confidence bar for a prediction,
// which differs depending on whether the byte was classified Normal or
// Strong.
func (c *Cracker) thresholdFor(pred predictor.Prediction) float64 {
	if pred.Strong {
		return c.cfg.StrongThreshold
	}
	return c.cfg.NormalThreshold
}

// readyForTesting reports whether every key byte's prediction score has
// crossed its configured threshold and the test buffer has filled.
func (c *Cracker) readyForTesting() bool {
	if !c.testBuf.Full() {
		return false
	}
	for _, info := range c.predictor.ByteInfos() {
		if info.Score() < c.thresholdFor(info.Prediction()) {
			return false
		}
	}
	return true
}

// Progress returns the cracker's aggregate progress fraction in [0, 1],
// suitable for a UI progress bar. Its meaning differs by phase: during
// sample collection it is the mean of each byte's score relative to its
// threshold; during candidate testing it is the fraction of the
// candidate space visited; in a terminal phase it is 1.
func (c *Cracker) Progress() float64 {
	switch c.phase {
	case PhaseSampleCollection:
		infos := c.predictor.ByteInfos()
		sum := 0.0
		for _, info := range infos {
			frac := info.Score() / c.thresholdFor(info.Prediction())
			if frac > 1 {
				frac = 1
			}
			sum += frac
		}
		return sum / float64(len(infos))
	case PhaseCandidateKeyTesting:
		return float64(c.tester.CurrentKeyIndex()) / float64(c.tester.NumKeys())
	default:
		return 1
	}
}

// DoWork performs one unit of work for the current phase.
//
// In PhaseSampleCollection it fetches one sample from the provider and
// folds it into the predictor and test buffer; if the provider has no
// sample available, DoWork returns immediately without making progress
// (the caller is expected to call it again, making this a tight retry
// loop until either a sample or cancellation arrives).
//
// In PhaseCandidateKeyTesting it tests the current candidate key and
// advances to the next one.
//
// In a terminal phase it is a no-op.
func (c *Cracker) DoWork(cancel *atomic.Bool) {
	switch c.phase {
	case PhaseSampleCollection:
		c.doSampleCollection(cancel)
	case PhaseCandidateKeyTesting:
		c.doCandidateKeyTesting()
	case PhaseFinishedSuccess, PhaseFinishedFailure:
		// Terminal: nothing to do.
	}
}

func (c *Cracker) doSampleCollection(cancel *atomic.Bool) {
	sample, ok := c.provider.Next(cancel)
	if !ok {
		return
	}

	c.predictor.Accept(sample)
	c.testBuf.Accept(sample)

	c.delayTimer++
	if c.delayTimer < readyCheckPeriod {
		return
	}
	c.delayTimer = 0

	if !c.readyForTesting() {
		return
	}

	var predictions [predictor.NumKeyBytes]predictor.Prediction
	infos := c.predictor.ByteInfos()
	for i, info := range infos {
		predictions[i] = info.Prediction()
	}

	c.tester = tester.New(predictions)
	c.phase = PhaseCandidateKeyTesting
	c.logger.Debug("wepcrack: sample collection complete, moving to candidate key testing",
		"num_samples", c.NumSamples(), "num_candidate_keys", c.tester.NumKeys())
}

func (c *Cracker) doCandidateKeyTesting() {
	if key, ok := c.tester.TestCurrent(c.testBuf); ok {
		c.crackedKey = key
		c.phase = PhaseFinishedSuccess
		c.logger.Debug("wepcrack: key recovered", "kind", key.Kind().String())
		return
	}

	if !c.tester.Advance() {
		c.phase = PhaseFinishedFailure
		c.logger.Debug("wepcrack: candidate key space exhausted without a match")
	}
}
