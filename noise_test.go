// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNbBitFromVariance(t *testing.T) {
	// std = 2^-20 -> amplitude 2^-18, drowning the bottom 46 bits.
	bits := nbBitFromVariance99(math.Exp2(-40))
	require.Equal(t, 46, bits)

	require.Equal(t, 0, nbBitFromVariance99(math.Exp2(-200)))
	require.Equal(t, TorusBit, nbBitFromVariance99(1))
}

func TestVarianceScalarMul(t *testing.T) {
	require.InDelta(t, 9e-6, varianceScalarMul(1e-6, 3), 1e-18)
	require.InDelta(t, 9e-6, varianceScalarMul(1e-6, -3), 1e-18)
}

func TestMeasuredVariance(t *testing.T) {
	_, err := MeasuredVariance(nil)
	require.ErrorIs(t, err, ErrWrongSize)

	v, err := MeasuredVariance([]float64{1, -1, 1, -1})
	require.NoError(t, err)
	require.InDelta(t, 1.0, v, 1e-12)

	log2, err := MeasuredStdDevLog2([]float64{0.5, -0.5, 0.5, -0.5})
	require.NoError(t, err)
	require.InDelta(t, -1.0, log2, 1e-12)

	log2, err = MeasuredStdDevLog2([]float64{0, 0, 0})
	require.NoError(t, err)
	require.True(t, math.IsInf(log2, -1))
}
