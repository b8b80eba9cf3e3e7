// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package lattice

import (
	"math"
	"math/bits"
)

// BSK is a bootstrapping key: one RGSW encryption of each input key bit
// under an RLWE key. Blind-rotating a test polynomial through it
// evaluates a lookup table on the encrypted phase and hands back a
// fresh LWE ciphertext under the flattened RLWE key.
type BSK struct {
	InputDimension int
	PolynomialSize int
	Dimension      int
	BaseLog        int
	Level          int
	Variance       float64
	Data           []Torus
}

// NewBSK generates the bootstrapping key for the bits of skIn under
// skOut, with the given gadget decomposition and per-row noise.
func NewBSK(s *Sampler, skIn *LWESecretKey, skOut *RLWESecretKey, baseLog, level int, stdDev float64) *BSK {
	b := NewZeroBSK(skIn.Dimension(), skOut.PolynomialSize, skOut.Dimension, baseLog, level)
	b.Variance = stdDev * stdDev
	mu := make([]Torus, skOut.PolynomialSize)
	for i := 0; i < b.InputDimension; i++ {
		for r := 0; r <= b.Dimension; r++ {
			for l := 0; l < b.Level; l++ {
				row := b.rgswRow(i, r, l)
				EncryptRLWE(s, skOut, mu, stdDev, row)
				if skIn.Bits[i] == 1 {
					row[r*b.PolynomialSize] += gadget(baseLog, l)
				}
			}
		}
	}
	return b
}

// NewZeroBSK allocates an all-zero bootstrapping key of the given shape.
func NewZeroBSK(inputDimension, polynomialSize, dimension, baseLog, level int) *BSK {
	size := inputDimension * (dimension + 1) * level * (dimension + 1) * polynomialSize
	return &BSK{
		InputDimension: inputDimension,
		PolynomialSize: polynomialSize,
		Dimension:      dimension,
		BaseLog:        baseLog,
		Level:          level,
		Data:           make([]Torus, size),
	}
}

// LWEDimension returns the dimension of the ciphertexts the bootstrap
// outputs: Dimension * PolynomialSize.
func (b *BSK) LWEDimension() int {
	return b.Dimension * b.PolynomialSize
}

// PolynomialSizeLog returns log2 of the polynomial size.
func (b *BSK) PolynomialSizeLog() int {
	return bits.TrailingZeros(uint(b.PolynomialSize))
}

// rgswRow returns the RLWE ciphertext at (input bit i, component r,
// level l), of length (Dimension+1)*PolynomialSize.
func (b *BSK) rgswRow(i, r, l int) []Torus {
	w := (b.Dimension + 1) * b.PolynomialSize
	off := ((i*(b.Dimension+1)+r)*b.Level + l) * w
	return b.Data[off : off+w]
}

// externalProduct multiplies the RLWE ciphertext ct by the RGSW
// encryption of input bit i: the result's phase is (approximately)
// bit_i times the phase of ct.
func (b *BSK) externalProduct(i int, ct []Torus) []Torus {
	n := b.PolynomialSize
	k := b.Dimension
	totalBits := b.BaseLog * b.Level
	mask := Torus(1)<<uint(b.BaseLog) - 1
	res := make([]Torus, (k+1)*n)
	rounded := make([]Torus, n)
	digits := make([]Torus, n)
	for r := 0; r <= k; r++ {
		comp := ct[r*n : (r+1)*n]
		for c := range rounded {
			rounded[c] = roundToBits(comp[c], totalBits)
		}
		for l := 0; l < b.Level; l++ {
			shift := uint(TorusBit - b.BaseLog*(l+1))
			for c := range digits {
				digits[c] = (rounded[c] >> shift) & mask
			}
			row := b.rgswRow(i, r, l)
			for q := 0; q <= k; q++ {
				negacyclicMulAdd(res[q*n:(q+1)*n], digits, row[q*n:(q+1)*n])
			}
		}
	}
	return res
}

// BlindRotate evaluates the lookup table lut (one torus value per
// polynomial coefficient) on the phase of ct (length InputDimension+1)
// and extracts coefficient zero as an LWE ciphertext of dimension
// LWEDimension. The phase is first switched to Z_2N; each key bit then
// conditionally rotates the accumulator.
func (b *BSK) BlindRotate(ct []Torus, lut []Torus) []Torus {
	n := b.InputDimension
	N := b.PolynomialSize
	k := b.Dimension
	twoN := 2 * N

	acc := make([]Torus, (k+1)*N)
	bbar := modSwitch(ct[n], twoN)
	rotateNegacyclic(acc[k*N:], lut, twoN-bbar)

	rot := make([]Torus, (k+1)*N)
	for i := 0; i < n; i++ {
		abar := modSwitch(ct[i], twoN)
		if abar == 0 {
			continue
		}
		for r := 0; r <= k; r++ {
			rotateNegacyclic(rot[r*N:(r+1)*N], acc[r*N:(r+1)*N], abar)
		}
		for c := range rot {
			rot[c] -= acc[c]
		}
		prod := b.externalProduct(i, rot)
		for c := range acc {
			acc[c] += prod[c]
		}
	}
	return SampleExtract(acc, N, k, 0)
}

// VarianceOut estimates the noise variance of a bootstrap output:
// external-product noise accumulated over the rotation plus the
// modulus-switch rounding hit by the key bits.
func (b *BSK) VarianceOut() float64 {
	n := float64(b.InputDimension)
	N := float64(b.PolynomialSize)
	k := float64(b.Dimension)
	b2 := math.Exp2(2 * float64(b.BaseLog))
	rem := math.Exp2(-2 * float64(b.BaseLog*b.Level))
	return n*float64(b.Level)*(k+1)*N*b2/12*b.Variance + n*(1+k*N)*rem/24
}

// modSwitch rounds a torus value to Z_2N; twoN must be a power of two.
func modSwitch(t Torus, twoN int) int {
	shift := uint(TorusBit - bits.TrailingZeros(uint(twoN)))
	return int((t+Torus(1)<<(shift-1))>>shift) % twoN
}
