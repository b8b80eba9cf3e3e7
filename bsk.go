// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"fmt"

	"github.com/concrete-go/concrete/internal/lattice"
)

// LWEBSK is a bootstrapping key: RGSW encryptions of an LWE secret
// key's bits under an RLWE secret key. It drives the programmable
// bootstrap and builds the lookup tables the bootstrap evaluates.
type LWEBSK struct {
	bsk *lattice.BSK
}

// NewLWEBSK generates the bootstrapping key for sk under skRLWE with
// the given gadget decomposition. The rows are encrypted with skRLWE's
// noise level.
func NewLWEBSK(sk *LWESecretKey, skRLWE *RLWESecretKey, baseLog, level int) (*LWEBSK, error) {
	if baseLog <= 0 || level <= 0 || baseLog*level > TorusBit {
		return nil, fmt.Errorf("%w: base_log %d level %d", ErrInvalidPrecision, baseLog, level)
	}
	s, err := lattice.DefaultSampler()
	if err != nil {
		return nil, err
	}
	return &LWEBSK{
		bsk: lattice.NewBSK(s, sk.key, skRLWE.key, baseLog, level, skRLWE.stdDev),
	}, nil
}

// NewLWEBSKZero allocates an all-zero bootstrapping key of the given
// shape, for sizing and serialization purposes.
func NewLWEBSKZero(dimension, polynomialSize, rlweDimension, baseLog, level int) *LWEBSK {
	return &LWEBSK{
		bsk: lattice.NewZeroBSK(dimension, polynomialSize, rlweDimension, baseLog, level),
	}
}

// Dimension returns the input LWE dimension.
func (b *LWEBSK) Dimension() int { return b.bsk.InputDimension }

// PolynomialSize returns the RLWE polynomial size.
func (b *LWEBSK) PolynomialSize() int { return b.bsk.PolynomialSize }

// RLWEDimension returns the RLWE mask dimension.
func (b *LWEBSK) RLWEDimension() int { return b.bsk.Dimension }

// BaseLog returns the gadget decomposition base log.
func (b *LWEBSK) BaseLog() int { return b.bsk.BaseLog }

// Level returns the number of gadget decomposition levels.
func (b *LWEBSK) Level() int { return b.bsk.Level }

// Variance returns the per-row encryption noise variance.
func (b *LWEBSK) Variance() float64 { return b.bsk.Variance }

// LWEDimension returns the dimension of bootstrap outputs:
// PolynomialSize * RLWEDimension.
func (b *LWEBSK) LWEDimension() int { return b.bsk.LWEDimension() }

// PolynomialSizeLog returns log2 of the polynomial size.
func (b *LWEBSK) PolynomialSizeLog() int { return b.bsk.PolynomialSizeLog() }

// GenerateFunctionalLookUpTable samples f over the input encoder's
// interval into a test polynomial: coefficient j holds the output
// encoding of f applied to the message whose phase lands on slice j of
// the half torus. The input encoder needs at least one bit of padding
// so that phases stay on the half torus.
func (b *LWEBSK) GenerateFunctionalLookUpTable(encoderInput, encoderOutput *Encoder, f func(float64) float64) ([]Torus, error) {
	if !encoderInput.IsValid() || !encoderOutput.IsValid() {
		return nil, fmt.Errorf("%w: lookup table", ErrInvalidEncoder)
	}
	if encoderInput.NbBitPadding() < 1 {
		return nil, fmt.Errorf("%w: lookup table needs 1 bit of padding", ErrNotEnoughPadding)
	}
	n := b.bsk.PolynomialSize
	shift := uint(TorusBit - 1 - b.bsk.PolynomialSizeLog())
	lut := make([]Torus, n)
	for j := 0; j < n; j++ {
		x, err := encoderInput.DecodeCore(Torus(j) << shift)
		if err != nil {
			return nil, err
		}
		t, err := encoderOutput.EncodeOutsideIntervalOperators(f(x))
		if err != nil {
			return nil, err
		}
		lut[j] = t
	}
	return lut, nil
}

// GenerateIdentityLookUpTable builds the lookup table of the identity
// function over one encoder.
func (b *LWEBSK) GenerateIdentityLookUpTable(encoder *Encoder) ([]Torus, error) {
	return b.GenerateFunctionalLookUpTable(encoder, encoder, func(x float64) float64 { return x })
}

// String implements fmt.Stringer.
func (b *LWEBSK) String() string {
	return fmt.Sprintf("LWEBSK(n=%d, N=%d, k=%d, base_log=%d, level=%d)",
		b.bsk.InputDimension, b.bsk.PolynomialSize, b.bsk.Dimension, b.bsk.BaseLog, b.bsk.Level)
}
