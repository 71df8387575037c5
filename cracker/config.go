package cracker

import (
	"errors"
	"fmt"
)

// Config holds the tunable thresholds the cracker uses to decide when it
// has collected enough statistical evidence to start testing candidate
// keys, and how the held-back test buffer validates them.
type Config struct {
	// NormalThreshold is the minimum prediction score a key byte
	// classified Normal must reach before sample collection is
	// considered complete for that byte.
	NormalThreshold float64
	// StrongThreshold is the same bar for key bytes classified Strong.
	// It is typically set lower than NormalThreshold: a Strong
	// classification is inherently less confident, so demanding the
	// same score would rarely be satisfied.
	StrongThreshold float64

	// NumTestSamples is the capacity of the held-back test sample
	// buffer used to validate candidate keys.
	NumTestSamples int
	// TestSamplePeriod is how often (in accepted samples) a sample is
	// admitted into the test buffer; 1 admits every sample.
	TestSamplePeriod int
	// TestSampleThreshold is the fraction of retained test samples a
	// candidate key's keystream must reproduce to be accepted.
	TestSampleThreshold float64
}

var (
	// ErrInvalidThreshold is returned when a prediction or test-sample
	// threshold is outside (0, 1].
	ErrInvalidThreshold = errors.New("cracker: threshold must be in (0, 1]")
	// ErrInvalidBufferSize is returned when NumTestSamples or
	// TestSamplePeriod is not positive.
	ErrInvalidBufferSize = errors.New("cracker: buffer size and period must be positive")
)

// Validate reports whether the config's fields are usable, returning a
// wrapped ErrInvalidThreshold or ErrInvalidBufferSize describing the
// first problem found.
func (c Config) Validate() error {
	for _, t := range []struct {
		name string
		v    float64
	}{
		{"NormalThreshold", c.NormalThreshold},
		{"StrongThreshold", c.StrongThreshold},
		{"TestSampleThreshold", c.TestSampleThreshold},
	} {
		if t.v <= 0 || t.v > 1 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidThreshold, t.name, t.v)
		}
	}
	if c.NumTestSamples <= 0 || c.TestSamplePeriod <= 0 {
		return fmt.Errorf("%w: NumTestSamples=%d TestSamplePeriod=%d", ErrInvalidBufferSize, c.NumTestSamples, c.TestSamplePeriod)
	}
	return nil
}
