// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"fmt"

	"github.com/concrete-go/concrete/internal/lattice"
)

// LWESecretKey is a binary LWE secret key together with the noise level
// used when encrypting under it.
type LWESecretKey struct {
	dimension int
	stdDev    float64
	key       *lattice.LWESecretKey
}

// NewLWESecretKey samples a fresh secret key for the given parameter
// set.
func NewLWESecretKey(params *LWEParams) (*LWESecretKey, error) {
	return NewLWESecretKeyRaw(params.Dimension, params.StdDev())
}

// NewLWESecretKeyRaw samples a fresh secret key with an explicit
// dimension and noise standard deviation.
func NewLWESecretKeyRaw(dimension int, stdDev float64) (*LWESecretKey, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: lwe dimension %d", ErrDimension, dimension)
	}
	s, err := lattice.DefaultSampler()
	if err != nil {
		return nil, err
	}
	return &LWESecretKey{
		dimension: dimension,
		stdDev:    stdDev,
		key:       lattice.NewLWESecretKey(s, dimension),
	}, nil
}

// Dimension returns the number of mask coefficients.
func (sk *LWESecretKey) Dimension() int { return sk.dimension }

// StdDev returns the encryption noise standard deviation.
func (sk *LWESecretKey) StdDev() float64 { return sk.stdDev }

// Variance returns the encryption noise variance.
func (sk *LWESecretKey) Variance() float64 { return sk.stdDev * sk.stdDev }

// ToRLWESecretKey reinterprets the key bits as an RLWE key of the given
// polynomial size. The dimension must be a multiple of polynomialSize.
func (sk *LWESecretKey) ToRLWESecretKey(polynomialSize int) (*RLWESecretKey, error) {
	if polynomialSize <= 0 || polynomialSize&(polynomialSize-1) != 0 {
		return nil, fmt.Errorf("%w: polynomial size %d", ErrNotPowerOfTwo, polynomialSize)
	}
	if sk.dimension%polynomialSize != 0 {
		return nil, fmt.Errorf("%w: dimension %d not a multiple of polynomial size %d",
			ErrDimension, sk.dimension, polynomialSize)
	}
	bits := make([]Torus, sk.dimension)
	copy(bits, sk.key.Bits)
	return &RLWESecretKey{
		polynomialSize: polynomialSize,
		dimension:      sk.dimension / polynomialSize,
		stdDev:         sk.stdDev,
		key: &lattice.RLWESecretKey{
			PolynomialSize: polynomialSize,
			Dimension:      sk.dimension / polynomialSize,
			Polys:          bits,
		},
	}, nil
}

// String implements fmt.Stringer. The key material is not printed.
func (sk *LWESecretKey) String() string {
	return fmt.Sprintf("LWESecretKey(n=%d, std=%g)", sk.dimension, sk.stdDev)
}

// RLWESecretKey is a binary RLWE secret key together with the noise
// level used when encrypting under it.
type RLWESecretKey struct {
	polynomialSize int
	dimension      int
	stdDev         float64
	key            *lattice.RLWESecretKey
}

// NewRLWESecretKey samples a fresh secret key for the given parameter
// set.
func NewRLWESecretKey(params *RLWEParams) (*RLWESecretKey, error) {
	return NewRLWESecretKeyRaw(params.PolynomialSize, params.Dimension, params.StdDev())
}

// NewRLWESecretKeyRaw samples a fresh secret key with explicit
// parameters.
func NewRLWESecretKeyRaw(polynomialSize, dimension int, stdDev float64) (*RLWESecretKey, error) {
	if polynomialSize <= 0 || polynomialSize&(polynomialSize-1) != 0 {
		return nil, fmt.Errorf("%w: polynomial size %d", ErrNotPowerOfTwo, polynomialSize)
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: rlwe dimension %d", ErrDimension, dimension)
	}
	s, err := lattice.DefaultSampler()
	if err != nil {
		return nil, err
	}
	return &RLWESecretKey{
		polynomialSize: polynomialSize,
		dimension:      dimension,
		stdDev:         stdDev,
		key:            lattice.NewRLWESecretKey(s, polynomialSize, dimension),
	}, nil
}

// PolynomialSize returns the polynomial size.
func (sk *RLWESecretKey) PolynomialSize() int { return sk.polynomialSize }

// Dimension returns the number of mask polynomials.
func (sk *RLWESecretKey) Dimension() int { return sk.dimension }

// StdDev returns the encryption noise standard deviation.
func (sk *RLWESecretKey) StdDev() float64 { return sk.stdDev }

// Variance returns the encryption noise variance.
func (sk *RLWESecretKey) Variance() float64 { return sk.stdDev * sk.stdDev }

// ToLWESecretKey flattens the key coefficients into an LWE key of
// dimension PolynomialSize * Dimension. Ciphertexts produced by sample
// extraction decrypt under this key.
func (sk *RLWESecretKey) ToLWESecretKey() *LWESecretKey {
	return &LWESecretKey{
		dimension: sk.polynomialSize * sk.dimension,
		stdDev:    sk.stdDev,
		key:       &lattice.LWESecretKey{Bits: sk.key.FlattenBits()},
	}
}

// String implements fmt.Stringer. The key material is not printed.
func (sk *RLWESecretKey) String() string {
	return fmt.Sprintf("RLWESecretKey(N=%d, k=%d, std=%g)",
		sk.polynomialSize, sk.dimension, sk.stdDev)
}
