// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package lattice

import (
	"testing"
)

func testSampler(t *testing.T) *Sampler {
	t.Helper()
	s, err := NewKeyedSampler([]byte("lattice-test-seed"))
	if err != nil {
		t.Fatalf("keyed sampler: %v", err)
	}
	return s
}

func TestSampler(t *testing.T) {
	s := testSampler(t)

	bits := make([]Torus, 256)
	s.UniformBits(bits)
	ones := 0
	for _, b := range bits {
		if b != 0 && b != 1 {
			t.Fatalf("non-binary bit %d", b)
		}
		if b == 1 {
			ones++
		}
	}
	if ones == 0 || ones == len(bits) {
		t.Fatalf("degenerate bit sample: %d ones of %d", ones, len(bits))
	}

	if g := s.GaussianTorus(0); g != 0 {
		t.Fatalf("gaussian with zero deviation: %d", g)
	}

	// Same key, same stream.
	a := testSampler(t)
	b := testSampler(t)
	for i := 0; i < 8; i++ {
		if x, y := a.Uniform(), b.Uniform(); x != y {
			t.Fatalf("keyed samplers diverge at word %d: %d vs %d", i, x, y)
		}
	}
}

func TestLWEEncryptPhase(t *testing.T) {
	s := testSampler(t)
	sk := NewLWESecretKey(s, 32)

	mu := Torus(1) << 60
	ct := make([]Torus, 33)
	EncryptLWE(s, sk, mu, 0, ct)

	if phase := PhaseLWE(sk, ct); phase != mu {
		t.Fatalf("noiseless phase = %#x, want %#x", phase, mu)
	}
}

func TestRLWEEncryptPhase(t *testing.T) {
	s := testSampler(t)
	sk := NewRLWESecretKey(s, 16, 2)

	mu := make([]Torus, 16)
	for i := range mu {
		mu[i] = Torus(i) << 58
	}
	ct := make([]Torus, 3*16)
	EncryptRLWE(s, sk, mu, 0, ct)

	phase := PhaseRLWE(sk, ct)
	for i := range mu {
		if phase[i] != mu[i] {
			t.Fatalf("coefficient %d: phase = %#x, want %#x", i, phase[i], mu[i])
		}
	}
}

func TestSampleExtract(t *testing.T) {
	s := testSampler(t)
	sk := NewRLWESecretKey(s, 16, 2)
	skLWE := &LWESecretKey{Bits: sk.FlattenBits()}

	mu := make([]Torus, 16)
	for i := range mu {
		mu[i] = Torus(i+1) << 58
	}
	ct := make([]Torus, 3*16)
	EncryptRLWE(s, sk, mu, 0, ct)

	for c := 0; c < 16; c++ {
		lwe := SampleExtract(ct, 16, 2, c)
		if got := PhaseLWE(skLWE, lwe); got != mu[c] {
			t.Fatalf("coefficient %d: phase = %#x, want %#x", c, got, mu[c])
		}
	}
}

func TestNegacyclicMul(t *testing.T) {
	// (1 + X) * (1 + X) = 1 + 2X + X^2 in Z[X]/(X^4+1).
	acc := make([]Torus, 4)
	a := []Torus{1, 1, 0, 0}
	b := []Torus{1, 1, 0, 0}
	negacyclicMulAdd(acc, a, b)
	want := []Torus{1, 2, 1, 0}
	for i := range want {
		if acc[i] != want[i] {
			t.Fatalf("coefficient %d: %d, want %d", i, acc[i], want[i])
		}
	}

	// X^3 * X^3 = X^6 = -X^2 mod X^4+1.
	acc = make([]Torus, 4)
	negacyclicMulAdd(acc, []Torus{0, 0, 0, 1}, []Torus{0, 0, 0, 1})
	one := Torus(1)
	for i, c := range acc {
		var want Torus
		if i == 2 {
			want = -one
		}
		if c != want {
			t.Fatalf("coefficient %d: %#x, want %#x", i, c, want)
		}
	}
}

func TestRotateNegacyclic(t *testing.T) {
	src := []Torus{1, 2, 3, 4}

	// X^1 rotation shifts up and negates the wrapped coefficient.
	dst := make([]Torus, 4)
	rotateNegacyclic(dst, src, 1)
	wrapped := src[3]
	want := []Torus{-wrapped, 1, 2, 3}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("k=1 coefficient %d: %#x, want %#x", i, dst[i], want[i])
		}
	}

	// X^N = -1: a full half-turn negates everything.
	rotateNegacyclic(dst, src, 4)
	for i := range src {
		if dst[i] != -src[i] {
			t.Fatalf("k=4 coefficient %d: %#x, want %#x", i, dst[i], -src[i])
		}
	}
}

func TestKSKApply(t *testing.T) {
	s := testSampler(t)
	skBefore := NewLWESecretKey(s, 32)
	skAfter := NewLWESecretKey(s, 16)

	ksk := NewKSK(s, skBefore, skAfter, 8, 8, 0)

	mu := Torus(5) << 59
	ct := make([]Torus, 33)
	EncryptLWE(s, skBefore, mu, 0, ct)

	out := ksk.Apply(ct)
	if len(out) != 17 {
		t.Fatalf("switched ciphertext has %d words, want 17", len(out))
	}
	// A full 64-bit decomposition with noiseless rows is exact.
	if got := PhaseLWE(skAfter, out); got != mu {
		t.Fatalf("switched phase = %#x, want %#x", got, mu)
	}
}

func TestModSwitch(t *testing.T) {
	if got := modSwitch(0, 512); got != 0 {
		t.Fatalf("modSwitch(0) = %d", got)
	}
	if got := modSwitch(Torus(1)<<63, 512); got != 256 {
		t.Fatalf("modSwitch(half) = %d, want 256", got)
	}
	// Rounding wraps the top of the torus back to zero.
	if got := modSwitch(^Torus(0), 512); got != 0 {
		t.Fatalf("modSwitch(max) = %d, want 0", got)
	}
}

func TestBlindRotateNoiseless(t *testing.T) {
	s := testSampler(t)
	skIn := NewLWESecretKey(s, 8)
	skOut := NewRLWESecretKey(s, 64, 1)
	skOutLWE := &LWESecretKey{Bits: skOut.FlattenBits()}

	bsk := NewBSK(s, skIn, skOut, 8, 8, 0)

	// Lookup table holding j in slot j, scaled onto the half torus.
	lut := make([]Torus, 64)
	for j := range lut {
		lut[j] = Torus(j) << 57
	}

	// Encrypt a phase pointing at slot 5: 5/128 of the torus.
	mu := Torus(5) << 57
	ct := make([]Torus, 9)
	EncryptLWE(s, skIn, mu, 0, ct)

	out := bsk.BlindRotate(ct, lut)
	if len(out) != 65 {
		t.Fatalf("rotated ciphertext has %d words, want 65", len(out))
	}
	got := PhaseLWE(skOutLWE, out)

	// The mask mod-switch rounds each coefficient, so the selected slot
	// may drift by a few table steps around slot 5.
	lo := Torus(1) << 57
	hi := Torus(9) << 57
	if got < lo || got > hi {
		t.Fatalf("rotated phase = %#x, outside [%#x, %#x]", got, lo, hi)
	}
}
