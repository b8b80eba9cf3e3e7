// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"fmt"
	"math"
)

// LWEParams groups the mask dimension and the noise level of fresh LWE
// encryptions. Log2StdDev is the base-2 logarithm of the standard
// deviation of the encryption noise, expressed on the torus.
type LWEParams struct {
	Dimension  int
	Log2StdDev int
}

// NewLWEParams builds an LWE parameter set.
func NewLWEParams(dimension, log2StdDev int) (*LWEParams, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: lwe dimension %d", ErrDimension, dimension)
	}
	return &LWEParams{Dimension: dimension, Log2StdDev: log2StdDev}, nil
}

// StdDev returns the standard deviation 2^Log2StdDev.
func (p *LWEParams) StdDev() float64 {
	return math.Exp2(float64(p.Log2StdDev))
}

// String implements fmt.Stringer.
func (p *LWEParams) String() string {
	return fmt.Sprintf("LWEParams(n=%d, log2_std=%d)", p.Dimension, p.Log2StdDev)
}

// RLWEParams groups the polynomial size, the mask dimension and the
// noise level of fresh RLWE encryptions. PolynomialSize must be a power
// of two.
type RLWEParams struct {
	PolynomialSize int
	Dimension      int
	Log2StdDev     int
}

// NewRLWEParams builds an RLWE parameter set.
func NewRLWEParams(polynomialSize, dimension, log2StdDev int) (*RLWEParams, error) {
	if polynomialSize <= 0 || polynomialSize&(polynomialSize-1) != 0 {
		return nil, fmt.Errorf("%w: polynomial size %d", ErrNotPowerOfTwo, polynomialSize)
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: rlwe dimension %d", ErrDimension, dimension)
	}
	return &RLWEParams{
		PolynomialSize: polynomialSize,
		Dimension:      dimension,
		Log2StdDev:     log2StdDev,
	}, nil
}

// StdDev returns the standard deviation 2^Log2StdDev.
func (p *RLWEParams) StdDev() float64 {
	return math.Exp2(float64(p.Log2StdDev))
}

// String implements fmt.Stringer.
func (p *RLWEParams) String() string {
	return fmt.Sprintf("RLWEParams(N=%d, k=%d, log2_std=%d)",
		p.PolynomialSize, p.Dimension, p.Log2StdDev)
}

// Published LWE parameter sets with at least 128 bits of security.
var (
	LWE128_256  = LWEParams{Dimension: 256, Log2StdDev: -5}
	LWE128_512  = LWEParams{Dimension: 512, Log2StdDev: -11}
	LWE128_630  = LWEParams{Dimension: 630, Log2StdDev: -14}
	LWE128_650  = LWEParams{Dimension: 650, Log2StdDev: -15}
	LWE128_688  = LWEParams{Dimension: 688, Log2StdDev: -16}
	LWE128_710  = LWEParams{Dimension: 710, Log2StdDev: -17}
	LWE128_750  = LWEParams{Dimension: 750, Log2StdDev: -18}
	LWE128_800  = LWEParams{Dimension: 800, Log2StdDev: -19}
	LWE128_830  = LWEParams{Dimension: 830, Log2StdDev: -20}
	LWE128_1024 = LWEParams{Dimension: 1024, Log2StdDev: -25}
	LWE128_2048 = LWEParams{Dimension: 2048, Log2StdDev: -52}
	LWE128_4096 = LWEParams{Dimension: 4096, Log2StdDev: -105}
)

// Published LWE parameter sets with at least 80 bits of security.
var (
	LWE80_256  = LWEParams{Dimension: 256, Log2StdDev: -9}
	LWE80_512  = LWEParams{Dimension: 512, Log2StdDev: -19}
	LWE80_630  = LWEParams{Dimension: 630, Log2StdDev: -24}
	LWE80_650  = LWEParams{Dimension: 650, Log2StdDev: -25}
	LWE80_688  = LWEParams{Dimension: 688, Log2StdDev: -26}
	LWE80_710  = LWEParams{Dimension: 710, Log2StdDev: -27}
	LWE80_750  = LWEParams{Dimension: 750, Log2StdDev: -29}
	LWE80_800  = LWEParams{Dimension: 800, Log2StdDev: -31}
	LWE80_830  = LWEParams{Dimension: 830, Log2StdDev: -32}
	LWE80_1024 = LWEParams{Dimension: 1024, Log2StdDev: -40}
	LWE80_2048 = LWEParams{Dimension: 2048, Log2StdDev: -82}
)

// Published RLWE parameter sets with at least 128 bits of security.
var (
	RLWE128_256_1  = RLWEParams{PolynomialSize: 256, Dimension: 1, Log2StdDev: -5}
	RLWE128_512_1  = RLWEParams{PolynomialSize: 512, Dimension: 1, Log2StdDev: -11}
	RLWE128_1024_1 = RLWEParams{PolynomialSize: 1024, Dimension: 1, Log2StdDev: -25}
	RLWE128_2048_1 = RLWEParams{PolynomialSize: 2048, Dimension: 1, Log2StdDev: -52}
	RLWE128_4096_1 = RLWEParams{PolynomialSize: 4096, Dimension: 1, Log2StdDev: -105}
	RLWE128_256_2  = RLWEParams{PolynomialSize: 256, Dimension: 2, Log2StdDev: -11}
	RLWE128_512_2  = RLWEParams{PolynomialSize: 512, Dimension: 2, Log2StdDev: -25}
	RLWE128_256_4  = RLWEParams{PolynomialSize: 256, Dimension: 4, Log2StdDev: -25}
)

// Published RLWE parameter sets with at least 80 bits of security.
var (
	RLWE80_256_1  = RLWEParams{PolynomialSize: 256, Dimension: 1, Log2StdDev: -9}
	RLWE80_512_1  = RLWEParams{PolynomialSize: 512, Dimension: 1, Log2StdDev: -19}
	RLWE80_1024_1 = RLWEParams{PolynomialSize: 1024, Dimension: 1, Log2StdDev: -40}
	RLWE80_2048_1 = RLWEParams{PolynomialSize: 2048, Dimension: 1, Log2StdDev: -82}
	RLWE80_256_2  = RLWEParams{PolynomialSize: 256, Dimension: 2, Log2StdDev: -19}
	RLWE80_512_2  = RLWEParams{PolynomialSize: 512, Dimension: 2, Log2StdDev: -40}
	RLWE80_256_4  = RLWEParams{PolynomialSize: 256, Dimension: 4, Log2StdDev: -40}
)
