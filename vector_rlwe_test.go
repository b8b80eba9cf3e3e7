// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func noiselessRLWEKey(t *testing.T, polynomialSize, dimension int) *RLWESecretKey {
	t.Helper()
	sk, err := NewRLWESecretKeyRaw(polynomialSize, dimension, 0)
	require.NoError(t, err)
	return sk
}

func TestVectorRLWEZero(t *testing.T) {
	v, err := NewVectorRLWEZero(64, 1, 2)
	require.NoError(t, err)
	require.Equal(t, 64, v.PolynomialSize())
	require.Equal(t, 1, v.Dimension())
	require.Equal(t, 2, v.NbCiphertexts())
	require.Equal(t, 0, v.NbValid())
	require.Equal(t, 128, v.CiphertextSize())

	_, err = NewVectorRLWEZero(60, 1, 2)
	require.ErrorIs(t, err, ErrNotPowerOfTwo)
	_, err = NewVectorRLWEZero(64, 0, 2)
	require.ErrorIs(t, err, ErrDimension)
	_, err = NewVectorRLWEZero(64, 1, 0)
	require.ErrorIs(t, err, ErrZeroCiphertextsInStructure)
}

func TestVectorRLWEPackedEncryptDecrypt(t *testing.T) {
	sk := noiselessRLWEKey(t, 64, 1)
	e, err := NewRoundingEncoder(0, 4, 4, 2)
	require.NoError(t, err)

	messages := []float64{0.25, 1.5, 3.75, 2.0, 0.5}
	v, err := EncodeEncryptPackedVectorRLWE(sk, messages, e)
	require.NoError(t, err)
	require.Equal(t, 1, v.NbCiphertexts())
	require.Equal(t, 5, v.NbValid())

	got, err := v.DecryptDecodeRound(sk)
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, m := range messages {
		require.InDelta(t, m, got[i], 1e-9)
	}

	// More messages than one polynomial holds spill into a second
	// ciphertext.
	many := make([]float64, 70)
	for i := range many {
		many[i] = 0.5
	}
	w, err := EncodeEncryptPackedVectorRLWE(sk, many, e)
	require.NoError(t, err)
	require.Equal(t, 2, w.NbCiphertexts())
	require.Equal(t, 70, w.NbValid())
}

func TestVectorRLWEConstantCoefficient(t *testing.T) {
	sk := noiselessRLWEKey(t, 64, 1)
	e, err := NewRoundingEncoder(-1, 1, 4, 2)
	require.NoError(t, err)

	v, err := EncodeEncryptVectorRLWE(sk, []float64{0.5, -0.25}, e)
	require.NoError(t, err)
	require.Equal(t, 2, v.NbCiphertexts())
	require.Equal(t, 2, v.NbValid())

	got, err := v.DecryptDecodeRound(sk)
	require.NoError(t, err)
	require.InDelta(t, 0.5, got[0], 1e-9)
	require.InDelta(t, -0.25, got[1], 1e-9)
}

func TestVectorRLWEPackedRaw(t *testing.T) {
	sk := noiselessRLWEKey(t, 64, 1)

	_, err := EncryptPackedRawVectorRLWE(sk, make([]Torus, 60))
	require.ErrorIs(t, err, ErrWrongSize)

	v, err := EncryptPackedRawVectorRLWE(sk, make([]Torus, 128))
	require.NoError(t, err)
	require.Equal(t, 2, v.NbCiphertexts())
	require.Equal(t, 0, v.NbValid())
}

func TestVectorRLWEExtract(t *testing.T) {
	sk := noiselessRLWEKey(t, 64, 1)
	skLWE := sk.ToLWESecretKey()
	e, err := NewRoundingEncoder(0, 4, 4, 2)
	require.NoError(t, err)

	messages := []float64{0.25, 1.5, 3.75}
	v, err := EncodeEncryptPackedVectorRLWE(sk, messages, e)
	require.NoError(t, err)

	for i, m := range messages {
		one, err := v.Extract1Lwe(i, 0)
		require.NoError(t, err)
		require.Equal(t, 64, one.Dimension())
		got, err := one.DecryptDecodeRound(skLWE)
		require.NoError(t, err)
		require.InDelta(t, m, got[0], 1e-9, "coefficient %d", i)
	}

	_, err = v.Extract1Lwe(64, 0)
	require.ErrorIs(t, err, ErrIndex)
	_, err = v.Extract1Lwe(0, 1)
	require.ErrorIs(t, err, ErrIndex)
}

func TestVectorRLWEConstantOps(t *testing.T) {
	sk := noiselessRLWEKey(t, 64, 1)
	e, err := NewRoundingEncoder(-2, 2, 4, 2)
	require.NoError(t, err)

	v, err := EncodeEncryptPackedVectorRLWE(sk, []float64{0.5, -0.25}, e)
	require.NoError(t, err)

	t.Run("AddStatic", func(t *testing.T) {
		out, err := v.AddConstantStaticEncoder([]float64{0.25, 0.5})
		require.NoError(t, err)
		got, err := out.DecryptDecodeRound(sk)
		require.NoError(t, err)
		require.InDelta(t, 0.75, got[0], 1e-9)
		require.InDelta(t, 0.25, got[1], 1e-9)
	})

	t.Run("AddDynamic", func(t *testing.T) {
		out, err := v.AddConstantDynamicEncoder([]float64{4, -4})
		require.NoError(t, err)
		got, err := out.DecryptDecodeRound(sk)
		require.NoError(t, err)
		require.InDelta(t, 4.5, got[0], 1e-9)
		require.InDelta(t, -4.25, got[1], 1e-9)
	})

	t.Run("TooManyMessages", func(t *testing.T) {
		_, err := v.AddConstantStaticEncoder([]float64{1, 2, 3})
		require.ErrorIs(t, err, ErrNotEnoughValidEncoder)
	})
}

func TestVectorRLWEAddSub(t *testing.T) {
	sk := noiselessRLWEKey(t, 64, 1)
	e, err := NewRoundingEncoder(0, 1, 3, 2)
	require.NoError(t, err)

	a, err := EncodeEncryptPackedVectorRLWE(sk, []float64{0.25, 0.5}, e)
	require.NoError(t, err)
	b, err := EncodeEncryptPackedVectorRLWE(sk, []float64{0.5, 0.25}, e)
	require.NoError(t, err)

	t.Run("Add", func(t *testing.T) {
		sum, err := a.AddWithPadding(b)
		require.NoError(t, err)
		got, err := sum.DecryptDecodeRound(sk)
		require.NoError(t, err)
		require.InDelta(t, 0.75, got[0], 1e-9)
		require.InDelta(t, 0.75, got[1], 1e-9)
	})

	t.Run("Sub", func(t *testing.T) {
		diff, err := a.SubWithPadding(b)
		require.NoError(t, err)
		got, err := diff.DecryptDecodeRound(sk)
		require.NoError(t, err)
		require.InDelta(t, -0.25, got[0], 1e-9)
		require.InDelta(t, 0.25, got[1], 1e-9)
	})

	t.Run("AddCentered", func(t *testing.T) {
		sum, err := a.AddCentered(b)
		require.NoError(t, err)
		got, err := sum.DecryptDecodeRound(sk)
		require.NoError(t, err)
		require.InDelta(t, 0.75, got[0], 1e-9)
		require.InDelta(t, 0.75, got[1], 1e-9)
	})

	t.Run("ValidityMismatch", func(t *testing.T) {
		c, err := EncodeEncryptPackedVectorRLWE(sk, []float64{0.25, 0.5, 0.75}, e)
		require.NoError(t, err)
		_, err = a.AddWithPadding(c)
		require.ErrorIs(t, err, ErrInvalidEncoder)
	})

	t.Run("ShapeMismatch", func(t *testing.T) {
		skWide := noiselessRLWEKey(t, 128, 1)
		c, err := EncodeEncryptPackedVectorRLWE(skWide, []float64{0.25, 0.5}, e)
		require.NoError(t, err)
		_, err = a.AddWithPadding(c)
		require.ErrorIs(t, err, ErrPolynomialSize)
	})
}

func TestVectorRLWEMulConstant(t *testing.T) {
	sk := noiselessRLWEKey(t, 64, 1)

	t.Run("Static", func(t *testing.T) {
		e, err := NewRoundingEncoder(-2, 2, 4, 2)
		require.NoError(t, err)
		v, err := EncodeEncryptPackedVectorRLWE(sk, []float64{0.5, -0.25}, e)
		require.NoError(t, err)

		// One constant per ciphertext: both slots share the single
		// packed ciphertext.
		out, err := v.MulConstantStaticEncoder([]int32{3})
		require.NoError(t, err)
		got, err := out.DecryptDecodeRound(sk)
		require.NoError(t, err)
		require.InDelta(t, 1.5, got[0], 1e-9)
		require.InDelta(t, -0.75, got[1], 1e-9)

		_, err = v.MulConstantStaticEncoder([]int32{3, 4})
		require.ErrorIs(t, err, ErrNbCiphertexts)
	})

	t.Run("WithPadding", func(t *testing.T) {
		e, err := NewRoundingEncoder(-1, 1, 4, 5)
		require.NoError(t, err)
		v, err := EncodeEncryptPackedVectorRLWE(sk, []float64{0.5, -0.5}, e)
		require.NoError(t, err)

		out, err := v.MulConstantWithPadding([]float64{0.5}, 1, 4)
		require.NoError(t, err)
		got, err := out.DecryptDecodeRound(sk)
		require.NoError(t, err)
		require.InDelta(t, 0.25, got[0], 1e-9)
		require.InDelta(t, -0.25, got[1], 1e-9)
	})

	t.Run("WithPaddingMixedEncoders", func(t *testing.T) {
		e1, err := NewRoundingEncoder(-1, 1, 4, 5)
		require.NoError(t, err)
		e2, err := NewRoundingEncoder(-2, 2, 4, 5)
		require.NoError(t, err)

		pt, err := NewPlaintextZero(2)
		require.NoError(t, err)
		require.NoError(t, pt.SetNthEncoder(0, e1))
		require.NoError(t, pt.SetNthEncoder(1, e2))
		require.NoError(t, pt.EncodeInplace([]float64{0.5, -0.5}))

		v, err := EncryptPackedVectorRLWE(sk, pt)
		require.NoError(t, err)
		_, err = v.MulConstantWithPadding([]float64{0.5}, 1, 4)
		require.ErrorIs(t, err, ErrDelta)
	})
}

func TestVectorRLWEDecryptWithEncoders(t *testing.T) {
	sk := noiselessRLWEKey(t, 64, 1)
	e, err := NewRoundingEncoder(0, 4, 4, 2)
	require.NoError(t, err)

	v, err := EncodeEncryptPackedVectorRLWE(sk, []float64{0.25, 1.5}, e)
	require.NoError(t, err)

	values, encoders, err := v.DecryptWithEncoders(sk)
	require.NoError(t, err)
	require.Len(t, values, 2)
	require.Len(t, encoders, 2)
	for _, enc := range encoders {
		require.True(t, enc.Equals(e))
	}

	// Wrong key shape.
	skWide := noiselessRLWEKey(t, 128, 1)
	_, _, err = v.DecryptWithEncoders(skWide)
	require.ErrorIs(t, err, ErrPolynomialSize)
}
