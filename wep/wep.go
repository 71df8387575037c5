// Package wep models the WEP key material and keystream samples that the
// rest of the cracker operates on.
package wep

import (
	"errors"
	"fmt"

	"github.com/Popax21/wepcrack/internal/rc4"
)

// Kind distinguishes the two WEP key sizes.
type Kind int

const (
	// KindUnknown is the zero value of Kind and is never valid on a constructed Key.
	KindUnknown Kind = iota
	// Kind40 identifies a 40-bit (5 byte) WEP key.
	Kind40
	// Kind104 identifies a 104-bit (13 byte) WEP key.
	Kind104
)

func (k Kind) String() string {
	switch k {
	case Kind40:
		return "WEP-40"
	case Kind104:
		return "WEP-104"
	default:
		return "unknown"
	}
}

const (
	// Len40 is the length in bytes of a WEP-40 key.
	Len40 = 5
	// Len104 is the length in bytes of a WEP-104 key.
	Len104 = 13
	// IVLen is the length in bytes of a WEP initialization vector.
	IVLen = 3
	// KeystreamLen is the number of leading keystream bytes a KeystreamSample retains.
	KeystreamLen = 16
)

var (
	// ErrBadKeyLength is returned when a key is not 5 or 13 bytes long.
	ErrBadKeyLength = errors.New("wep: key must be 5 (WEP-40) or 13 (WEP-104) bytes")
)

// IV is a 3-byte WEP initialization vector, transmitted in the clear with
// every encrypted frame.
type IV [IVLen]byte

// Key is either a WEP-40 or WEP-104 secret key.
//
// The zero Key is not valid; use New40 or New104 (or New, which infers the
// kind from the slice length) to construct one.
type Key struct {
	kind  Kind
	bytes [Len104]byte
}

// New40 builds a WEP-40 key from exactly 5 bytes.
func New40(b [Len40]byte) Key {
	k := Key{kind: Kind40}
	copy(k.bytes[:], b[:])
	return k
}

// New104 builds a WEP-104 key from exactly 13 bytes.
func New104(b [Len104]byte) Key {
	k := Key{kind: Kind104}
	copy(k.bytes[:], b[:])
	return k
}

// New builds a Key from a byte slice, inferring the kind from its length.
// It returns ErrBadKeyLength if the slice is neither 5 nor 13 bytes.
func New(b []byte) (Key, error) {
	switch len(b) {
	case Len40:
		var arr [Len40]byte
		copy(arr[:], b)
		return New40(arr), nil
	case Len104:
		var arr [Len104]byte
		copy(arr[:], b)
		return New104(arr), nil
	default:
		return Key{}, fmt.Errorf("%w: got %d", ErrBadKeyLength, len(b))
	}
}

// Kind reports whether k is a WEP-40 or WEP-104 key.
func (k Key) Kind() Kind {
	return k.kind
}

// Bytes returns the key's secret bytes (5 or 13, matching Kind).
func (k Key) Bytes() []byte {
	switch k.kind {
	case Kind40:
		return append([]byte(nil), k.bytes[:Len40]...)
	case Kind104:
		return append([]byte(nil), k.bytes[:Len104]...)
	default:
		return nil
	}
}

// Seed returns the RC4 seed for this key under the given IV: the IV bytes
// followed by the key bytes.
func (k Key) Seed(iv IV) []byte {
	key := k.Bytes()
	seed := make([]byte, 0, IVLen+len(key))
	seed = append(seed, iv[:]...)
	seed = append(seed, key...)
	return seed
}

// Cipher returns an RC4 state fully keyed with this key's seed under iv.
func (k Key) Cipher(iv IV) *rc4.State {
	return rc4.FromKey(k.Seed(iv))
}

// Sample is a keystream sample extracted from an intercepted WEP frame: the
// XOR of the encrypted payload prefix with its known-structure plaintext
// prefix (typically LLC/SNAP + ARP header constants).
type Sample struct {
	IV        IV
	Keystream [KeystreamLen]byte
}
