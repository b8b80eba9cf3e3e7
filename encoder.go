// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"fmt"
	"math"
)

// Encoder maps real messages from an interval [o, o+delta) onto the
// 64-bit torus and back. A message is represented on nbBitPrecision bits,
// shifted down by nbBitPadding zeroed most-significant bits that leveled
// operations consume as carry space.
//
// An Encoder built with NewEncoder keeps the raw noisy value at decode
// time (approximate context). An Encoder built with NewRoundingEncoder
// snaps to the precision grid at both encode and decode (exact context).
type Encoder struct {
	o              float64
	delta          float64
	nbBitPrecision int
	nbBitPadding   int
	round          bool
}

// NewEncoder builds an approximate-context encoder over [min, max).
func NewEncoder(min, max float64, nbBitPrecision, nbBitPadding int) (*Encoder, error) {
	return newEncoder(min, max, nbBitPrecision, nbBitPadding, false)
}

// NewRoundingEncoder builds an exact-context encoder over [min, max),
// rounding to the precision grid at encode and at decode.
func NewRoundingEncoder(min, max float64, nbBitPrecision, nbBitPadding int) (*Encoder, error) {
	return newEncoder(min, max, nbBitPrecision, nbBitPadding, true)
}

// NewEncoderCentered builds an approximate-context encoder over
// [center-radius, center+radius).
func NewEncoderCentered(center, radius float64, nbBitPrecision, nbBitPadding int) (*Encoder, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: radius %g", ErrInvalidInterval, radius)
	}
	return newEncoder(center-radius, center+radius, nbBitPrecision, nbBitPadding, false)
}

func newEncoder(min, max float64, nbBitPrecision, nbBitPadding int, round bool) (*Encoder, error) {
	if max <= min {
		return nil, fmt.Errorf("%w: [%g, %g)", ErrInvalidInterval, min, max)
	}
	if nbBitPrecision <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPrecision, nbBitPrecision)
	}
	if nbBitPadding < 0 || nbBitPrecision+nbBitPadding > TorusBit {
		return nil, fmt.Errorf("%w: precision %d + padding %d exceeds %d bits",
			ErrInvalidPrecision, nbBitPrecision, nbBitPadding, TorusBit)
	}
	return &Encoder{
		o:              min,
		delta:          max - min,
		nbBitPrecision: nbBitPrecision,
		nbBitPadding:   nbBitPadding,
		round:          round,
	}, nil
}

// ZeroEncoder returns the all-zero encoder. It is not valid and marks
// padding slots in packed ciphertexts.
func ZeroEncoder() Encoder {
	return Encoder{}
}

// IsValid reports whether the encoder can encode and decode messages.
func (e *Encoder) IsValid() bool {
	return e.nbBitPrecision > 0 && e.delta > 0
}

// O returns the offset (minimum) of the interval.
func (e *Encoder) O() float64 { return e.o }

// Delta returns the size of the interval.
func (e *Encoder) Delta() float64 { return e.delta }

// NbBitPrecision returns the number of precision bits.
func (e *Encoder) NbBitPrecision() int { return e.nbBitPrecision }

// NbBitPadding returns the number of padding bits.
func (e *Encoder) NbBitPadding() int { return e.nbBitPadding }

// Round reports whether the encoder snaps to the precision grid.
func (e *Encoder) Round() bool { return e.round }

// Granularity returns the distance between two representable messages.
func (e *Encoder) Granularity() float64 {
	return e.delta / math.Exp2(float64(e.nbBitPrecision))
}

// Min returns the smallest representable message.
func (e *Encoder) Min() float64 { return e.o }

// Max returns the largest representable message.
func (e *Encoder) Max() float64 {
	return e.o + e.delta - e.Granularity()
}

// Size returns the total number of bits a message occupies, padding
// included.
func (e *Encoder) Size() int {
	return e.nbBitPrecision + e.nbBitPadding
}

// Copy returns a copy of the encoder.
func (e *Encoder) Copy() Encoder {
	return *e
}

// Equals reports whether two encoders describe the same encoding.
func (e *Encoder) Equals(other *Encoder) bool {
	return e.o == other.o &&
		e.delta == other.delta &&
		e.nbBitPrecision == other.nbBitPrecision &&
		e.nbBitPadding == other.nbBitPadding &&
		e.round == other.round
}

// Encode encodes a batch of messages into a Plaintext, all under this
// encoder.
func (e *Encoder) Encode(messages []float64) (*Plaintext, error) {
	pt := newPlaintext(len(messages))
	for i, m := range messages {
		t, err := e.EncodeCore(m)
		if err != nil {
			return nil, err
		}
		pt.plaintexts[i] = t
		pt.encoders[i] = *e
	}
	return pt, nil
}

// EncodeSingle encodes one message into a Plaintext of size one.
func (e *Encoder) EncodeSingle(message float64) (*Plaintext, error) {
	return e.Encode([]float64{message})
}

// DecodeSingle decodes one torus value under this encoder.
func (e *Encoder) DecodeSingle(t Torus) (float64, error) {
	return e.DecodeCore(t)
}

// EncodeCore maps a message to its torus representation, enforcing that
// the message belongs to [o, o+delta).
func (e *Encoder) EncodeCore(m float64) (Torus, error) {
	if !e.IsValid() {
		return 0, fmt.Errorf("%w: encode", ErrInvalidEncoder)
	}
	if m < e.o || m >= e.o+e.delta {
		return 0, fmt.Errorf("%w: %g not in [%g, %g)",
			ErrMessageOutsideInterval, m, e.o, e.o+e.delta)
	}
	return e.EncodeOutsideIntervalOperators(m)
}

// EncodeOutsideIntervalOperators maps a message to its torus
// representation without the interval check, reducing the message modulo
// the interval. Leveled operations use it to build correction terms.
func (e *Encoder) EncodeOutsideIntervalOperators(m float64) (Torus, error) {
	if !e.IsValid() {
		return 0, fmt.Errorf("%w: encode", ErrInvalidEncoder)
	}
	frac := (m - e.o) / e.delta
	frac -= math.Floor(frac)
	steps := frac * math.Exp2(float64(e.nbBitPrecision))
	if e.round {
		steps = math.Round(steps)
	} else {
		steps = math.Floor(steps)
	}
	shift := uint(TorusBit - e.nbBitPrecision - e.nbBitPadding)
	return Torus(steps) << shift, nil
}

// encodeShift maps a message displacement to its torus displacement at
// full resolution. Correction terms of leveled operations use it so that
// grid snapping never biases them; the padding bits they may carry into
// are discarded by DecodeCore.
func (e *Encoder) encodeShift(dm float64) Torus {
	return torusFromDouble(dm/e.delta) >> uint(e.nbBitPadding)
}

// DecodeCore maps a (possibly noisy) torus value back to a real message,
// interpreting it modulo the interval.
func (e *Encoder) DecodeCore(t Torus) (float64, error) {
	if !e.IsValid() {
		return 0, fmt.Errorf("%w: decode", ErrInvalidEncoder)
	}
	v := t << uint(e.nbBitPadding)
	if e.round {
		v = roundToPrecision(v, e.nbBitPrecision)
	}
	return e.o + doubleFromTorus(v)*e.delta, nil
}

// UpdatePrecisionFromVariance returns the number of precision bits
// drowned by a noise of the given variance, using a 4-sigma (99.99%)
// amplitude bound. The encoder itself is left untouched so the caller
// decides whether to act on the estimate.
func (e *Encoder) UpdatePrecisionFromVariance(variance float64) (int, error) {
	if !e.IsValid() {
		return 0, fmt.Errorf("%w: precision update", ErrInvalidEncoder)
	}
	if variance <= 0 {
		return 0, nil
	}
	noiseBits := nbBitFromVariance99(variance)
	overlap := noiseBits - (TorusBit - e.nbBitPadding - e.nbBitPrecision)
	if overlap < 0 {
		overlap = 0
	}
	if overlap > e.nbBitPrecision {
		overlap = e.nbBitPrecision
	}
	return overlap, nil
}

// NewSquareDividedByFour derives the output encoder of the x -> (x/2)^2
// lookup table used by bootstrap-based multiplication: interval
// [0, emax^2/4) where emax bounds the absolute input values.
func (e *Encoder) NewSquareDividedByFour(nbBitPadding int) (*Encoder, error) {
	if !e.IsValid() {
		return nil, fmt.Errorf("%w: square divided by four", ErrInvalidEncoder)
	}
	emax := math.Max(math.Abs(e.Min()), math.Abs(e.Max()))
	return newEncoder(0, emax*emax/4, e.nbBitPrecision, nbBitPadding, e.round)
}

// OppositeInplace flips the interval around zero so that the encoder
// matches the negation of the torus values it decodes.
func (e *Encoder) OppositeInplace() error {
	if !e.IsValid() {
		return fmt.Errorf("%w: opposite", ErrInvalidEncoder)
	}
	e.o = -(e.o + e.delta - e.Granularity())
	return nil
}

// String implements fmt.Stringer.
func (e *Encoder) String() string {
	return fmt.Sprintf("Encoder([%g, %g) precision=%d padding=%d round=%t)",
		e.o, e.o+e.delta, e.nbBitPrecision, e.nbBitPadding, e.round)
}
