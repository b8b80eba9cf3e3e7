// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package lattice

// LWESecretKey is a binary LWE secret key: one 0/1 word per mask
// coefficient.
type LWESecretKey struct {
	Bits []Torus
}

// NewLWESecretKey samples a uniform binary key of the given dimension.
func NewLWESecretKey(s *Sampler, dimension int) *LWESecretKey {
	bits := make([]Torus, dimension)
	s.UniformBits(bits)
	return &LWESecretKey{Bits: bits}
}

// Dimension returns the number of mask coefficients.
func (sk *LWESecretKey) Dimension() int { return len(sk.Bits) }

// EncryptLWE encrypts the torus value mu under sk into ct, which must
// have length dimension+1 (mask words then body word). The mask is
// uniform and the body is <a, s> + mu + e with e gaussian of the given
// standard deviation.
func EncryptLWE(s *Sampler, sk *LWESecretKey, mu Torus, stdDev float64, ct []Torus) {
	n := sk.Dimension()
	s.UniformSlice(ct[:n])
	body := mu + s.GaussianTorus(stdDev)
	for i, a := range ct[:n] {
		if sk.Bits[i] == 1 {
			body += a
		}
	}
	ct[n] = body
}

// PhaseLWE computes b - <a, s>, the noisy plaintext of ct under sk.
func PhaseLWE(sk *LWESecretKey, ct []Torus) Torus {
	n := sk.Dimension()
	phase := ct[n]
	for i, a := range ct[:n] {
		if sk.Bits[i] == 1 {
			phase -= a
		}
	}
	return phase
}
