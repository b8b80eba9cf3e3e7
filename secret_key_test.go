// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecretKeyConversions(t *testing.T) {
	sk, err := NewLWESecretKeyRaw(256, 0)
	require.NoError(t, err)

	t.Run("ToRLWE", func(t *testing.T) {
		rlwe, err := sk.ToRLWESecretKey(64)
		require.NoError(t, err)
		require.Equal(t, 64, rlwe.PolynomialSize())
		require.Equal(t, 4, rlwe.Dimension())

		// Flattening back yields a key the original ciphertexts
		// decrypt under.
		back := rlwe.ToLWESecretKey()
		require.Equal(t, 256, back.Dimension())

		e, err := NewRoundingEncoder(0, 1, 3, 1)
		require.NoError(t, err)
		ct, err := EncodeEncryptLWE(sk, 0.5, e)
		require.NoError(t, err)
		got, err := ct.DecryptDecodeRound(back)
		require.NoError(t, err)
		require.InDelta(t, 0.5, got, 1e-9)
	})

	t.Run("BadPolynomialSize", func(t *testing.T) {
		_, err := sk.ToRLWESecretKey(60)
		require.ErrorIs(t, err, ErrNotPowerOfTwo)
		_, err = sk.ToRLWESecretKey(512)
		require.ErrorIs(t, err, ErrDimension)
	})
}

func TestSecretKeyFromParams(t *testing.T) {
	sk, err := NewLWESecretKey(&LWE128_630)
	require.NoError(t, err)
	require.Equal(t, 630, sk.Dimension())
	require.Equal(t, LWE128_630.StdDev(), sk.StdDev())
	require.Equal(t, sk.StdDev()*sk.StdDev(), sk.Variance())

	rlwe, err := NewRLWESecretKey(&RLWE128_1024_1)
	require.NoError(t, err)
	require.Equal(t, 1024, rlwe.PolynomialSize())
	require.Equal(t, 1, rlwe.Dimension())
}

func TestKSKValidation(t *testing.T) {
	skBefore, err := NewLWESecretKeyRaw(128, 0)
	require.NoError(t, err)
	skAfter, err := NewLWESecretKeyRaw(64, 0)
	require.NoError(t, err)

	_, err = NewLWEKSK(skBefore, skAfter, 16, 8)
	require.ErrorIs(t, err, ErrInvalidPrecision)

	ksk, err := NewLWEKSK(skBefore, skAfter, 4, 8)
	require.NoError(t, err)
	require.Equal(t, 128, ksk.DimensionBefore())
	require.Equal(t, 64, ksk.DimensionAfter())
	require.Equal(t, 4, ksk.BaseLog())
	require.Equal(t, 8, ksk.Level())
}

func TestBSKValidation(t *testing.T) {
	sk, err := NewLWESecretKeyRaw(16, 0)
	require.NoError(t, err)
	skRLWE, err := NewRLWESecretKeyRaw(64, 1, 0)
	require.NoError(t, err)

	_, err = NewLWEBSK(sk, skRLWE, 33, 2)
	require.ErrorIs(t, err, ErrInvalidPrecision)

	bsk, err := NewLWEBSK(sk, skRLWE, 8, 4)
	require.NoError(t, err)
	require.Equal(t, 16, bsk.Dimension())
	require.Equal(t, 64, bsk.PolynomialSize())
	require.Equal(t, 1, bsk.RLWEDimension())
	require.Equal(t, 64, bsk.LWEDimension())
	require.Equal(t, 6, bsk.PolynomialSizeLog())
}

func TestLookUpTableGeneration(t *testing.T) {
	sk, err := NewLWESecretKeyRaw(16, 0)
	require.NoError(t, err)
	skRLWE, err := NewRLWESecretKeyRaw(64, 1, 0)
	require.NoError(t, err)
	bsk, err := NewLWEBSK(sk, skRLWE, 8, 4)
	require.NoError(t, err)

	eIn, err := NewRoundingEncoder(0, 1, 2, 1)
	require.NoError(t, err)
	eOut, err := NewRoundingEncoder(0, 2, 2, 1)
	require.NoError(t, err)

	lut, err := bsk.GenerateFunctionalLookUpTable(eIn, eOut, func(x float64) float64 { return 2 * x })
	require.NoError(t, err)
	require.Len(t, lut, 64)

	// An input without padding cannot index the half-torus table.
	flat, err := NewRoundingEncoder(0, 1, 2, 0)
	require.NoError(t, err)
	_, err = bsk.GenerateFunctionalLookUpTable(flat, eOut, func(x float64) float64 { return x })
	require.ErrorIs(t, err, ErrNotEnoughPadding)

	identity, err := bsk.GenerateIdentityLookUpTable(eIn)
	require.NoError(t, err)
	require.Len(t, identity, 64)
}
