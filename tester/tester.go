// Package tester enumerates and validates the candidate keys implied by a
// frozen set of per-byte predictions. Key bytes classified "strong" can't
// be read off directly; instead each admits i possible algebraic
// reconstructions (parameterized by an index l in [1, i]), so the tester
// walks the product of those small option spaces.
package tester

import (
	"github.com/Popax21/wepcrack/predictor"
	"github.com/Popax21/wepcrack/testbuffer"
	"github.com/Popax21/wepcrack/wep"
)

// Tester lazily enumerates candidate keys consistent with a frozen set of
// per-byte predictions and validates each against a testbuffer.Buffer.
//
// A Tester is not safe for concurrent use.
type Tester struct {
	predictions [predictor.NumKeyBytes]predictor.Prediction
	lIndices    [predictor.NumKeyBytes]int

	curKeyIdx int
	numKeys   int

	maybeWep40 bool
}

// New builds a Tester over the given frozen per-byte predictions.
func New(predictions [predictor.NumKeyBytes]predictor.Prediction) *Tester {
	numKeys := 1
	for i, pred := range predictions {
		if pred.Strong {
			numKeys *= i
		}
	}

	maybeWep40 := true
	for i := wep.Len40; i < predictor.NumKeyBytes; i++ {
		if !predictions[i].Strong {
			maybeWep40 = false
			break
		}
	}

	t := &Tester{
		predictions: predictions,
		numKeys:     numKeys,
		maybeWep40:  maybeWep40,
	}
	for i, pred := range predictions {
		if pred.Strong {
			t.lIndices[i] = 1
		}
	}
	return t
}

// NumKeys returns the total number of candidate keys in the space, the
// product of i over every strong key-byte position i.
func (t *Tester) NumKeys() int {
	return t.numKeys
}

// CurrentKeyIndex returns the 0-based index of the key CurrentKey would
// currently return.
func (t *Tester) CurrentKeyIndex() int {
	return t.curKeyIdx
}

// AtEnd reports whether the candidate space has been exhausted.
func (t *Tester) AtEnd() bool {
	return t.curKeyIdx >= t.numKeys
}

// MaybeWep40 reports whether the current tester state is still consistent
// with the key being a WEP-40 key (i.e. every position >= 5 was classified
// strong and none of them has been advanced off its initial l-index yet).
func (t *Tester) MaybeWep40() bool {
	return t.maybeWep40
}

// LIndices returns the current l-index for each key-byte position
// (meaningful only at positions classified strong).
func (t *Tester) LIndices() [predictor.NumKeyBytes]int {
	return t.lIndices
}

// CurrentKey reconstructs the 13-byte candidate key for the tester's
// current state. It is pure: calling it repeatedly without calling
// Advance returns the same key every time. It panics if the tester is at
// the end of its candidate space.
func (t *Tester) CurrentKey() [predictor.NumKeyBytes]byte {
	if t.AtEnd() {
		panic("tester: CurrentKey called on an end-state Tester")
	}

	var key [predictor.NumKeyBytes]byte
	prevSigma := 0
	for i := 0; i < predictor.NumKeyBytes; i++ {
		var sigma int
		if t.predictions[i].Strong {
			invRk := 0
			for k := t.lIndices[i]; k < i; k++ {
				invRk += int(key[k]) + 3 + k
			}
			invRk += 3 + i

			sigma = mod256(prevSigma - invRk)
		} else {
			sigma = int(t.predictions[i].Sigma)
		}

		key[i] = byte(mod256(sigma - prevSigma))
		prevSigma = sigma
	}
	return key
}

// Advance moves to the next candidate key in odometer order over the
// strong positions (scanned ascending). It returns false, and leaves the
// tester in its end state, once the space is exhausted.
func (t *Tester) Advance() bool {
	if t.AtEnd() {
		return false
	}

	for i := 0; i < predictor.NumKeyBytes; i++ {
		if !t.predictions[i].Strong {
			continue
		}

		if i >= wep.Len40 {
			t.maybeWep40 = false
		}

		t.lIndices[i]++
		if t.lIndices[i] > i {
			t.lIndices[i] = 1
		} else {
			t.curKeyIdx++
			return true
		}
	}

	t.curKeyIdx = t.numKeys
	return false
}

// TestCurrent validates the current candidate key against buf, trying it
// as a 13-byte WEP-104 key and, if MaybeWep40 holds, additionally as a
// 5-byte WEP-40 key formed from its first 5 bytes. It returns the first
// key that matches, if any.
func (t *Tester) TestCurrent(buf *testbuffer.Buffer) (wep.Key, bool) {
	key := t.CurrentKey()

	key104 := wep.New104(key)
	if buf.TestKey(key104) {
		return key104, true
	}

	if t.maybeWep40 {
		var key40 [wep.Len40]byte
		copy(key40[:], key[:wep.Len40])

		k40 := wep.New40(key40)
		if buf.TestKey(k40) {
			return k40, true
		}
	}

	return wep.Key{}, false
}

func mod256(x int) int {
	x %= 256
	if x < 0 {
		x += 256
	}
	return x
}
