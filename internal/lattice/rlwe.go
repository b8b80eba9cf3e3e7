// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package lattice

// Polynomials are represented as coefficient slices of length N over
// the 64-bit torus, multiplied in Z[X]/(X^N + 1) (negacyclic).

// RLWESecretKey is a binary RLWE secret key: Dimension polynomials of
// PolynomialSize binary coefficients, stored contiguously.
type RLWESecretKey struct {
	PolynomialSize int
	Dimension      int
	Polys          []Torus
}

// NewRLWESecretKey samples a uniform binary RLWE key.
func NewRLWESecretKey(s *Sampler, polynomialSize, dimension int) *RLWESecretKey {
	polys := make([]Torus, polynomialSize*dimension)
	s.UniformBits(polys)
	return &RLWESecretKey{
		PolynomialSize: polynomialSize,
		Dimension:      dimension,
		Polys:          polys,
	}
}

// FlattenBits returns the key coefficients in LWE order: polynomial j
// contributes its coefficients at positions [j*N, (j+1)*N). Sample
// extraction produces ciphertexts decryptable under this flattening.
func (sk *RLWESecretKey) FlattenBits() []Torus {
	out := make([]Torus, len(sk.Polys))
	copy(out, sk.Polys)
	return out
}

// poly returns the j-th key polynomial.
func (sk *RLWESecretKey) poly(j int) []Torus {
	n := sk.PolynomialSize
	return sk.Polys[j*n : (j+1)*n]
}

// EncryptRLWE encrypts the plaintext polynomial mu (length N) under sk
// into ct, which must have length (Dimension+1)*N: Dimension uniform
// mask polynomials followed by the body polynomial
// sum_j a_j*s_j + mu + e.
func EncryptRLWE(s *Sampler, sk *RLWESecretKey, mu []Torus, stdDev float64, ct []Torus) {
	n := sk.PolynomialSize
	k := sk.Dimension
	s.UniformSlice(ct[:k*n])
	body := ct[k*n:]
	for c := range body {
		body[c] = mu[c] + s.GaussianTorus(stdDev)
	}
	for j := 0; j < k; j++ {
		negacyclicMulAddBinary(body, ct[j*n:(j+1)*n], sk.poly(j))
	}
}

// PhaseRLWE computes the noisy plaintext polynomial b - sum_j a_j*s_j.
func PhaseRLWE(sk *RLWESecretKey, ct []Torus) []Torus {
	n := sk.PolynomialSize
	k := sk.Dimension
	phase := make([]Torus, n)
	copy(phase, ct[k*n:])
	tmp := make([]Torus, n)
	for j := 0; j < k; j++ {
		for c := range tmp {
			tmp[c] = 0
		}
		negacyclicMulAddBinary(tmp, ct[j*n:(j+1)*n], sk.poly(j))
		for c := range phase {
			phase[c] -= tmp[c]
		}
	}
	return phase
}

// SampleExtract projects coefficient nCoeff of an RLWE ciphertext into
// an LWE ciphertext of dimension Dimension*PolynomialSize under the
// flattened key.
func SampleExtract(ct []Torus, polynomialSize, dimension, nCoeff int) []Torus {
	n := polynomialSize
	k := dimension
	out := make([]Torus, k*n+1)
	for j := 0; j < k; j++ {
		a := ct[j*n : (j+1)*n]
		for i := 0; i < n; i++ {
			if i <= nCoeff {
				out[j*n+i] = a[nCoeff-i]
			} else {
				out[j*n+i] = -a[n+nCoeff-i]
			}
		}
	}
	out[k*n] = ct[k*n+nCoeff]
	return out
}

// negacyclicMulAddBinary accumulates a*s into acc where s has 0/1
// coefficients, in Z[X]/(X^N + 1).
func negacyclicMulAddBinary(acc, a, s []Torus) {
	n := len(a)
	for j, sj := range s {
		if sj == 0 {
			continue
		}
		for i, ai := range a {
			c := i + j
			if c < n {
				acc[c] += ai
			} else {
				acc[c-n] -= ai
			}
		}
	}
}

// negacyclicMulAdd accumulates a*b into acc in Z[X]/(X^N + 1),
// coefficients mod 2^64. Schoolbook; quadratic in N.
func negacyclicMulAdd(acc, a, b []Torus) {
	n := len(a)
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		for j, bj := range b {
			c := i + j
			if c < n {
				acc[c] += ai * bj
			} else {
				acc[c-n] -= ai * bj
			}
		}
	}
}

// rotateNegacyclic writes src * X^k into dst, k in [0, 2N).
func rotateNegacyclic(dst, src []Torus, k int) {
	n := len(src)
	k %= 2 * n
	if k < 0 {
		k += 2 * n
	}
	for j, v := range src {
		c := j + k
		neg := false
		if c >= 2*n {
			c -= 2 * n
		} else if c >= n {
			c -= n
			neg = true
		}
		if neg {
			dst[c] = -v
		} else {
			dst[c] = v
		}
	}
}
