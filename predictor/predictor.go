// Package predictor implements the statistical half of the Klein/PTW
// attack: it accumulates per-key-byte "sigma sum" votes from observed
// keystream samples and derives, for each key byte, whether the position
// is reliably predictable ("normal") or must be recovered algebraically
// ("strong").
package predictor

import (
	"sync"

	"github.com/Popax21/wepcrack/internal/rc4"
	"github.com/Popax21/wepcrack/wep"
)

// NumKeyBytes is the number of key-byte positions tracked (the WEP-104
// key length; WEP-40 is the first 5 of these).
const NumKeyBytes = wep.Len104

// Prediction classifies a key byte's predictability.
type Prediction struct {
	// Strong is true if the byte's sigma distribution is statistically
	// indistinguishable from uniform and must be recovered algebraically.
	Strong bool
	// Sigma is the predicted running sigma sum for this byte. Only
	// meaningful when Strong is false.
	Sigma byte
}

// ByteInfo is the derived statistical summary for one key-byte position,
// recomputed from SigmaVotes whenever it is read after a new sample.
type ByteInfo struct {
	CandidateSigma byte

	PCandidate float64
	PCorrect   float64
	PEqual     float64

	ErrStrong float64
	ErrNormal float64
}

// Prediction returns Normal (with CandidateSigma) if the normal-byte
// hypothesis fits the observed votes better than the strong-byte
// hypothesis, else Strong.
func (b ByteInfo) Prediction() Prediction {
	if b.ErrNormal < b.ErrStrong {
		return Prediction{Strong: false, Sigma: b.CandidateSigma}
	}
	return Prediction{Strong: true}
}

// Score is a dimensionless confidence ratio: the relative gap between the
// two hypotheses' residuals, normalized by the smaller (winning) one.
func (b ByteInfo) Score() float64 {
	lo, hi := b.ErrNormal, b.ErrStrong
	if lo > hi {
		lo, hi = hi, lo
	}
	return (hi - lo) / lo
}

var (
	pCorrectOnce  sync.Once
	pCorrectTable [NumKeyBytes]float64
)

// pCorrect returns the precomputed, position-indexed probability that the
// dominant sigma vote for key byte i is in fact correct, per the PTW paper
// derivation. It is derived lazily exactly once, the same way
// secp256k1.Curve() lazily derives its curve parameters via sync.Once.
func pCorrect() [NumKeyBytes]float64 {
	pCorrectOnce.Do(func() {
		pNopickI := func(opts int) float64 {
			return 1 - float64(opts)/256
		}
		pNopick := pNopickI(1)
		pNopickKS := pow(pNopick, 254)

		qAccum := 1.0
		for i := 0; i < NumKeyBytes; i++ {
			qI := qAccum * pNopickI(i)
			qAccum *= pNopick * pNopickI(i+1)

			pCorrectTable[i] = qI*pNopickKS*2/256 + (1-qI*pNopickKS)*254/(256*255)
		}
	})
	return pCorrectTable
}

func pow(base float64, exp int) float64 {
	r := 1.0
	for i := 0; i < exp; i++ {
		r *= base
	}
	return r
}

// fromSigmaVotes derives the ByteInfo for key byte keyIdx from its 256
// sigma-sum vote histogram.
func fromSigmaVotes(keyIdx int, votes *[256]uint64, totalVotes uint64) ByteInfo {
	candidateSigma := 0
	for s := 1; s < 256; s++ {
		if votes[s] > votes[candidateSigma] {
			candidateSigma = s
		}
	}

	const pEqual = 1.0 / 256
	pc := pCorrect()[keyIdx]
	pWrong := (1 - pc) / 255

	var errStrong, errNormal float64
	total := float64(totalVotes)
	for sigma, v := range votes {
		frac := float64(v) / total

		d := frac - pEqual
		errStrong += d * d

		if sigma == candidateSigma {
			d = frac - pc
		} else {
			d = frac - pWrong
		}
		errNormal += d * d
	}

	return ByteInfo{
		CandidateSigma: byte(candidateSigma),

		PCandidate: float64(votes[candidateSigma]) / total,
		PCorrect:   pc,
		PEqual:     pEqual,

		ErrStrong: errStrong,
		ErrNormal: errNormal,
	}
}

// SigmaVotes is the 13x256 vote histogram: one row per key-byte position,
// one column per candidate sigma sum.
type SigmaVotes [NumKeyBytes][256]uint64

// Predictor accumulates keystream samples into a SigmaVotes matrix and
// derives per-byte predictions on demand. It is not safe for concurrent
// use; callers that need concurrent access (the cracker's worker and
// observer) must synchronize externally.
type Predictor struct {
	numSamples uint64
	votes      SigmaVotes

	infos    [NumKeyBytes]ByteInfo
	infosSet bool
}

// New returns an empty Predictor.
func New() *Predictor {
	return &Predictor{}
}

// NumSamples returns the number of samples accepted so far.
func (p *Predictor) NumSamples() uint64 {
	return p.numSamples
}

// Accept folds one keystream sample into the vote histogram.
//
// It absorbs the sample's 3-byte IV into a fresh RC4 state to obtain the
// partial schedule (S_3, j_3), inverts S_3, and for each key-byte index i
// computes the sigma vote that the Klein/PTW bias predicts: the index at
// which S_3's inverse places (3+i-keystream[2+i]) mod 256, minus j_3 and
// the running sum S_3[3] + ... + S_3[3+i], mod 256.
func (p *Predictor) Accept(sample wep.Sample) {
	s := rc4.New()
	s.PartialKeySchedule(sample.IV[:])
	sInv := s.Invert()

	s3Sum := 0
	for i := 0; i < NumKeyBytes; i++ {
		s3Sum += int(s.S[3+i])

		idx := mod256(3 + i - int(sample.Keystream[2+i]))
		sigma := mod256(int(sInv[idx]) - (s.J + s3Sum))

		p.votes[i][sigma]++
	}

	p.numSamples++
	p.infosSet = false
}

func mod256(x int) int {
	x %= 256
	if x < 0 {
		x += 256
	}
	return x
}

// ByteInfos returns the per-key-byte prediction info, recomputed from the
// vote histogram if a sample has been accepted since the last call.
func (p *Predictor) ByteInfos() [NumKeyBytes]ByteInfo {
	if !p.infosSet {
		for i := range p.infos {
			p.infos[i] = fromSigmaVotes(i, &p.votes[i], p.numSamples)
		}
		p.infosSet = true
	}
	return p.infos
}

// ByteInfo returns the prediction info for a single key-byte index.
func (p *Predictor) ByteInfo(idx int) ByteInfo {
	return p.ByteInfos()[idx]
}
