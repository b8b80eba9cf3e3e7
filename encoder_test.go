// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncoderConstructors(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		e, err := NewEncoder(0.2, 0.8, 8, 4)
		require.NoError(t, err)
		require.True(t, e.IsValid())
		require.Equal(t, 0.2, e.O())
		require.InDelta(t, 0.6, e.Delta(), 1e-12)
		require.Equal(t, 8, e.NbBitPrecision())
		require.Equal(t, 4, e.NbBitPadding())
		require.False(t, e.Round())
		require.Equal(t, 12, e.Size())
	})

	t.Run("Centered", func(t *testing.T) {
		e, err := NewEncoderCentered(0, 1, 6, 2)
		require.NoError(t, err)
		require.Equal(t, -1.0, e.Min())
		require.InDelta(t, 2.0, e.Delta(), 1e-12)

		_, err = NewEncoderCentered(0, -1, 6, 2)
		require.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("EmptyInterval", func(t *testing.T) {
		_, err := NewEncoder(1, 1, 8, 0)
		require.ErrorIs(t, err, ErrInvalidInterval)
		_, err = NewEncoder(2, 1, 8, 0)
		require.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("BadPrecision", func(t *testing.T) {
		_, err := NewEncoder(0, 1, 0, 0)
		require.ErrorIs(t, err, ErrInvalidPrecision)
		_, err = NewEncoder(0, 1, 40, 30)
		require.ErrorIs(t, err, ErrInvalidPrecision)
		_, err = NewEncoder(0, 1, 8, -1)
		require.ErrorIs(t, err, ErrInvalidPrecision)
	})

	t.Run("ZeroEncoderInvalid", func(t *testing.T) {
		z := ZeroEncoder()
		require.False(t, z.IsValid())
		_, err := z.EncodeCore(0)
		require.ErrorIs(t, err, ErrInvalidEncoder)
		_, err = z.DecodeCore(0)
		require.ErrorIs(t, err, ErrInvalidEncoder)
	})
}

func TestEncoderRoundTrip(t *testing.T) {
	e, err := NewEncoder(0.2, 0.8, 8, 4)
	require.NoError(t, err)

	// A decoded message stays within one granularity step of the input.
	for _, m := range []float64{0.2, 0.3, 0.456, 0.6, 0.75, 0.79} {
		mu, err := e.EncodeCore(m)
		require.NoError(t, err)
		got, err := e.DecodeCore(mu)
		require.NoError(t, err)
		require.InDelta(t, m, got, e.Granularity(), "message %g", m)
	}
}

func TestEncoderRoundingRoundTrip(t *testing.T) {
	e, err := NewRoundingEncoder(-2, 2, 5, 3)
	require.NoError(t, err)
	require.True(t, e.Round())

	// Grid-aligned messages survive exactly in a rounding context.
	g := e.Granularity()
	for k := 0; k < 1<<5; k++ {
		m := e.Min() + float64(k)*g
		mu, err := e.EncodeCore(m)
		require.NoError(t, err)
		got, err := e.DecodeCore(mu)
		require.NoError(t, err)
		require.InDelta(t, m, got, 1e-12, "grid step %d", k)
	}
}

func TestEncoderOutsideInterval(t *testing.T) {
	e, err := NewEncoder(0, 1, 8, 2)
	require.NoError(t, err)

	_, err = e.EncodeCore(1.0)
	require.ErrorIs(t, err, ErrMessageOutsideInterval)
	_, err = e.EncodeCore(-0.1)
	require.ErrorIs(t, err, ErrMessageOutsideInterval)

	// The operator variant wraps instead of failing.
	muWrapped, err := e.EncodeOutsideIntervalOperators(1.25)
	require.NoError(t, err)
	mu, err := e.EncodeCore(0.25)
	require.NoError(t, err)
	require.Equal(t, mu, muWrapped)
}

func TestEncoderMinMaxGranularity(t *testing.T) {
	e, err := NewEncoder(0, 1, 4, 0)
	require.NoError(t, err)
	require.Equal(t, 0.0, e.Min())
	require.InDelta(t, 1.0/16, e.Granularity(), 1e-15)
	require.InDelta(t, 1.0-1.0/16, e.Max(), 1e-15)
}

func TestEncoderOpposite(t *testing.T) {
	e, err := NewRoundingEncoder(1, 3, 4, 0)
	require.NoError(t, err)
	g := e.Granularity()
	require.NoError(t, e.OppositeInplace())
	// [1, 3) flips to the negated representable range.
	require.InDelta(t, -(3 - g), e.Min(), 1e-12)
	require.InDelta(t, -1.0, e.Max(), 1e-12)
}

func TestEncoderCopyEquals(t *testing.T) {
	e, err := NewEncoder(-1, 1, 6, 2)
	require.NoError(t, err)
	c := e.Copy()
	require.True(t, e.Equals(&c))

	c.o = 5
	require.False(t, e.Equals(&c))
}

func TestEncoderSquareDividedByFour(t *testing.T) {
	e, err := NewRoundingEncoder(-2, 2, 5, 2)
	require.NoError(t, err)
	sq, err := e.NewSquareDividedByFour(1)
	require.NoError(t, err)
	require.Equal(t, 0.0, sq.Min())
	emax := math.Max(math.Abs(e.Min()), math.Abs(e.Max()))
	require.InDelta(t, emax*emax/4, sq.Delta(), 1e-12)
	require.Equal(t, 1, sq.NbBitPadding())
}

func TestUpdatePrecisionFromVariance(t *testing.T) {
	e, err := NewEncoder(0, 1, 8, 2)
	require.NoError(t, err)

	// Negligible noise drowns nothing.
	lost, err := e.UpdatePrecisionFromVariance(math.Exp2(-120))
	require.NoError(t, err)
	require.Equal(t, 0, lost)

	// Enormous noise drowns every precision bit, but never more.
	lost, err = e.UpdatePrecisionFromVariance(0.25)
	require.NoError(t, err)
	require.Equal(t, 8, lost)

	// The encoder itself is untouched either way.
	require.Equal(t, 8, e.NbBitPrecision())
}

func TestEncodeBatch(t *testing.T) {
	e, err := NewRoundingEncoder(0, 4, 6, 1)
	require.NoError(t, err)

	messages := []float64{0.5, 1.25, 3.0}
	pt, err := e.Encode(messages)
	require.NoError(t, err)
	require.Equal(t, 3, pt.NbPlaintexts())

	got, err := pt.Decode()
	require.NoError(t, err)
	for i, m := range messages {
		require.InDelta(t, m, got[i], e.Granularity())
	}
}
