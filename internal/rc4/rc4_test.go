package rc4

import (
	"encoding/hex"
	"testing"
)

func decodeHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("decodeHex(%q): %v", s, err)
	}
	return b
}

func TestGenKeystreamByte(t *testing.T) {
	tests := []struct {
		key       string
		keystream string
	}{
		{"Key", "EB9F7781B734CA72A719"},
		{"Secret", "04D46B053CA87B59"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			want := decodeHex(t, tt.keystream)
			s := FromKey([]byte(tt.key))
			got := make([]byte, len(want))
			s.GenKeystream(got)

			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("byte %d: got %#02x, want %#02x", i, got[i], want[i])
				}
			}
		})
	}
}

func TestPartialKeyScheduleMatchesFromKey(t *testing.T) {
	key := []byte{0x01, 0x02, 0x03, 0x04}

	split := New()
	split.PartialKeySchedule(key[:2])
	split.PartialKeySchedule(key[2:])

	whole := New()
	whole.PartialKeySchedule(key)

	if split.S != whole.S {
		t.Fatalf("S mismatch: split=%v whole=%v", split.S, whole.S)
	}
	if split.I != whole.I {
		t.Fatalf("i mismatch: split=%d whole=%d", split.I, whole.I)
	}
	if split.J != whole.J {
		t.Fatalf("j mismatch: split=%d whole=%d", split.J, whole.J)
	}
}

func TestInvertIsInverse(t *testing.T) {
	s := FromKey([]byte("some arbitrary key"))
	inv := s.Invert()
	for i := 0; i < 256; i++ {
		if s.S[inv[i]] != byte(i) {
			t.Fatalf("Invert()[%d] = %d, but S[%d] = %d, want %d", i, inv[i], inv[i], s.S[inv[i]], i)
		}
	}
}

func TestPartialKeyScheduleOverflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when i+len(key) > 256")
		}
	}()

	s := New()
	s.I = 255
	s.PartialKeySchedule([]byte{0x00, 0x01})
}
