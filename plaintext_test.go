// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlaintextZero(t *testing.T) {
	pt, err := NewPlaintextZero(3)
	require.NoError(t, err)
	require.Equal(t, 3, pt.NbPlaintexts())
	for i := 0; i < 3; i++ {
		enc, err := pt.NthEncoder(i)
		require.NoError(t, err)
		require.False(t, enc.IsValid())
	}

	_, err = NewPlaintextZero(0)
	require.ErrorIs(t, err, ErrZeroCiphertextsInStructure)
}

func TestPlaintextEncodeDecode(t *testing.T) {
	e, err := NewRoundingEncoder(-1, 1, 5, 2)
	require.NoError(t, err)

	messages := []float64{-1, -0.5, 0, 0.5, 0.9375}
	pt, err := NewPlaintext(messages, e)
	require.NoError(t, err)

	got, err := pt.Decode()
	require.NoError(t, err)
	for i, m := range messages {
		require.InDelta(t, m, got[i], e.Granularity())
	}

	m, err := pt.DecodeNth(1)
	require.NoError(t, err)
	require.InDelta(t, -0.5, m, 1e-12)

	_, err = pt.DecodeNth(5)
	require.ErrorIs(t, err, ErrIndex)
}

func TestPlaintextEncoderManagement(t *testing.T) {
	pt, err := NewPlaintextZero(2)
	require.NoError(t, err)

	e, err := NewEncoder(0, 1, 4, 1)
	require.NoError(t, err)

	require.ErrorIs(t, pt.SetNthEncoder(2, e), ErrIndex)
	require.NoError(t, pt.SetNthEncoder(0, e))

	enc, err := pt.NthEncoder(0)
	require.NoError(t, err)
	require.True(t, enc.Equals(e))

	pt.SetEncodersFromOne(e)
	for i := 0; i < 2; i++ {
		enc, err := pt.NthEncoder(i)
		require.NoError(t, err)
		require.True(t, enc.Equals(e))
	}

	e2, err := NewEncoder(-2, 2, 5, 2)
	require.NoError(t, err)

	require.ErrorIs(t, pt.SetEncoders([]Encoder{*e}), ErrWrongSize)
	require.NoError(t, pt.SetEncoders([]Encoder{*e, *e2}))

	enc, err = pt.NthEncoder(0)
	require.NoError(t, err)
	require.True(t, enc.Equals(e))
	enc, err = pt.NthEncoder(1)
	require.NoError(t, err)
	require.True(t, enc.Equals(e2))
}

func TestPlaintextEncodeInplace(t *testing.T) {
	e, err := NewRoundingEncoder(0, 8, 4, 0)
	require.NoError(t, err)

	pt, err := NewPlaintextZero(3)
	require.NoError(t, err)
	pt.SetEncodersFromOne(e)

	require.ErrorIs(t, pt.EncodeInplace([]float64{1}), ErrWrongSize)

	require.NoError(t, pt.EncodeInplace([]float64{1, 2.5, 7.5}))
	got, err := pt.Decode()
	require.NoError(t, err)
	require.InDelta(t, 1.0, got[0], 1e-12)
	require.InDelta(t, 2.5, got[1], 1e-12)
	require.InDelta(t, 7.5, got[2], 1e-12)
}
