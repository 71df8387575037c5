package testbuffer

import (
	"testing"

	"github.com/Popax21/wepcrack/internal/rc4"
	"github.com/Popax21/wepcrack/wep"
)

func sampleFor(t *testing.T, key wep.Key, iv wep.IV) wep.Sample {
	t.Helper()
	s := rc4.FromKey(key.Seed(iv))
	var ks [wep.KeystreamLen]byte
	s.GenKeystream(ks[:])
	return wep.Sample{IV: iv, Keystream: ks}
}

func TestAcceptAdmitsEveryPeriodthSample(t *testing.T) {
	b := New(10, 3, 1.0)
	key := wep.New40([wep.Len40]byte{1, 2, 3, 4, 5})

	for i := 0; i < 9; i++ {
		var iv wep.IV
		iv[0] = byte(i)
		b.Accept(sampleFor(t, key, iv))
	}

	if got := b.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3 (every 3rd of 9 offered samples)", got)
	}
}

func TestFullEvictsOldest(t *testing.T) {
	b := New(2, 1, 1.0)
	key := wep.New40([wep.Len40]byte{1, 2, 3, 4, 5})

	var ivs []wep.IV
	for i := 0; i < 3; i++ {
		var iv wep.IV
		iv[0] = byte(i + 1)
		ivs = append(ivs, iv)
		b.Accept(sampleFor(t, key, iv))
	}

	if !b.Full() {
		t.Fatal("expected buffer to be full")
	}
	if got := b.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if b.samples[0].IV != ivs[1] || b.samples[1].IV != ivs[2] {
		t.Fatal("expected the oldest sample to have been evicted")
	}
}

func TestTestKeyAcceptsCorrectKey(t *testing.T) {
	key := wep.New104([wep.Len104]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13})
	b := New(16, 1, 1.0)
	for i := 0; i < 16; i++ {
		var iv wep.IV
		iv[0] = byte(i)
		b.Accept(sampleFor(t, key, iv))
	}

	if !b.TestKey(key) {
		t.Fatal("TestKey rejected the correct key")
	}
}

func TestTestKeyRejectsWrongKey(t *testing.T) {
	key := wep.New104([wep.Len104]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13})
	wrong := wep.New104([wep.Len104]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 14})
	b := New(16, 1, 1.0)
	for i := 0; i < 16; i++ {
		var iv wep.IV
		iv[0] = byte(i)
		b.Accept(sampleFor(t, key, iv))
	}

	if b.TestKey(wrong) {
		t.Fatal("TestKey accepted an incorrect key")
	}
}

func TestTestKeyToleratesFractionalThreshold(t *testing.T) {
	key := wep.New40([wep.Len40]byte{1, 2, 3, 4, 5})
	wrong := wep.New40([wep.Len40]byte{1, 2, 3, 4, 6})

	b := New(10, 1, 0.5)
	for i := 0; i < 9; i++ {
		var iv wep.IV
		iv[0] = byte(i)
		b.Accept(sampleFor(t, key, iv))
	}
	// One stray frame of a different shape (here: a different key).
	var strayIV wep.IV
	strayIV[0] = 200
	b.Accept(sampleFor(t, wrong, strayIV))

	if !b.TestKey(key) {
		t.Fatal("TestKey rejected a key that matched well past the fractional threshold")
	}
}
