// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var serializationCmpOpts = cmp.Options{
	cmp.AllowUnexported(Encoder{}, Plaintext{}, LWE{}, VectorLWE{}, VectorRLWE{}),
}

func TestEncoderSerialization(t *testing.T) {
	e, err := NewRoundingEncoder(-2, 2, 5, 3)
	require.NoError(t, err)

	data, err := e.MarshalBinary()
	require.NoError(t, err)
	back := new(Encoder)
	require.NoError(t, back.UnmarshalBinary(data))
	require.Empty(t, cmp.Diff(e, back, serializationCmpOpts))

	require.Error(t, back.UnmarshalBinary([]byte("not an encoder")))
}

func TestPlaintextSerialization(t *testing.T) {
	e, err := NewEncoder(0, 4, 6, 1)
	require.NoError(t, err)
	pt, err := NewPlaintext([]float64{0.5, 1.25, 3.0}, e)
	require.NoError(t, err)

	data, err := pt.MarshalBinary()
	require.NoError(t, err)
	back := new(Plaintext)
	require.NoError(t, back.UnmarshalBinary(data))
	require.Empty(t, cmp.Diff(pt, back, serializationCmpOpts))
}

func TestParamsSerialization(t *testing.T) {
	data, err := LWE128_630.MarshalBinary()
	require.NoError(t, err)
	back := new(LWEParams)
	require.NoError(t, back.UnmarshalBinary(data))
	require.Equal(t, LWE128_630, *back)

	rdata, err := RLWE128_1024_1.MarshalBinary()
	require.NoError(t, err)
	rback := new(RLWEParams)
	require.NoError(t, rback.UnmarshalBinary(rdata))
	require.Equal(t, RLWE128_1024_1, *rback)

	path := filepath.Join(t.TempDir(), "params.bin")
	require.NoError(t, LWE80_630.Save(path))
	fromFile, err := LoadLWEParams(path)
	require.NoError(t, err)
	require.Equal(t, LWE80_630, *fromFile)
}

func TestSecretKeySerialization(t *testing.T) {
	sk, err := NewLWESecretKeyRaw(64, 0)
	require.NoError(t, err)

	data, err := sk.MarshalBinary()
	require.NoError(t, err)
	back := new(LWESecretKey)
	require.NoError(t, back.UnmarshalBinary(data))

	// The restored key decrypts what the original encrypted.
	e, err := NewRoundingEncoder(0, 1, 3, 1)
	require.NoError(t, err)
	ct, err := EncodeEncryptLWE(sk, 0.5, e)
	require.NoError(t, err)
	got, err := ct.DecryptDecodeRound(back)
	require.NoError(t, err)
	require.InDelta(t, 0.5, got, 1e-9)
}

func TestRLWESecretKeySerialization(t *testing.T) {
	sk, err := NewRLWESecretKeyRaw(64, 1, 0)
	require.NoError(t, err)

	data, err := sk.MarshalBinary()
	require.NoError(t, err)
	back := new(RLWESecretKey)
	require.NoError(t, back.UnmarshalBinary(data))

	e, err := NewRoundingEncoder(0, 1, 3, 1)
	require.NoError(t, err)
	v, err := EncodeEncryptPackedVectorRLWE(sk, []float64{0.25, 0.5}, e)
	require.NoError(t, err)
	got, err := v.DecryptDecodeRound(back)
	require.NoError(t, err)
	require.InDelta(t, 0.25, got[0], 1e-9)
	require.InDelta(t, 0.5, got[1], 1e-9)
}

func TestKSKSerialization(t *testing.T) {
	skBefore, err := NewLWESecretKeyRaw(32, 0)
	require.NoError(t, err)
	skAfter, err := NewLWESecretKeyRaw(16, 0)
	require.NoError(t, err)
	ksk, err := NewLWEKSK(skBefore, skAfter, 8, 8)
	require.NoError(t, err)

	data, err := ksk.MarshalBinary()
	require.NoError(t, err)
	back := new(LWEKSK)
	require.NoError(t, back.UnmarshalBinary(data))

	e, err := NewRoundingEncoder(0, 1, 3, 1)
	require.NoError(t, err)
	ct, err := EncodeEncryptLWE(skBefore, 0.75, e)
	require.NoError(t, err)
	out, err := ct.Keyswitch(back)
	require.NoError(t, err)
	got, err := out.DecryptDecodeRound(skAfter)
	require.NoError(t, err)
	require.InDelta(t, 0.75, got, 1e-9)
}

func TestBSKSerialization(t *testing.T) {
	sk, err := NewLWESecretKeyRaw(8, 0)
	require.NoError(t, err)
	skRLWE, err := NewRLWESecretKeyRaw(64, 1, 0)
	require.NoError(t, err)
	bsk, err := NewLWEBSK(sk, skRLWE, 8, 4)
	require.NoError(t, err)

	data, err := bsk.MarshalBinary()
	require.NoError(t, err)
	back := new(LWEBSK)
	require.NoError(t, back.UnmarshalBinary(data))
	require.Equal(t, bsk.Dimension(), back.Dimension())
	require.Equal(t, bsk.PolynomialSize(), back.PolynomialSize())
	require.Equal(t, bsk.Level(), back.Level())
}

func TestCiphertextSerialization(t *testing.T) {
	sk, err := NewLWESecretKeyRaw(64, 0)
	require.NoError(t, err)
	e, err := NewRoundingEncoder(-1, 1, 4, 2)
	require.NoError(t, err)

	t.Run("LWE", func(t *testing.T) {
		ct, err := EncodeEncryptLWE(sk, 0.5, e)
		require.NoError(t, err)
		data, err := ct.MarshalBinary()
		require.NoError(t, err)
		back := new(LWE)
		require.NoError(t, back.UnmarshalBinary(data))
		require.Empty(t, cmp.Diff(ct, back, serializationCmpOpts))
	})

	t.Run("VectorLWE", func(t *testing.T) {
		v, err := EncodeEncryptVectorLWE(sk, []float64{0.5, -0.25}, e)
		require.NoError(t, err)
		data, err := v.MarshalBinary()
		require.NoError(t, err)
		back := new(VectorLWE)
		require.NoError(t, back.UnmarshalBinary(data))
		require.Empty(t, cmp.Diff(v, back, serializationCmpOpts))
	})

	t.Run("VectorRLWE", func(t *testing.T) {
		skRLWE, err := NewRLWESecretKeyRaw(64, 1, 0)
		require.NoError(t, err)
		v, err := EncodeEncryptPackedVectorRLWE(skRLWE, []float64{0.5, -0.25}, e)
		require.NoError(t, err)
		data, err := v.MarshalBinary()
		require.NoError(t, err)
		back := new(VectorRLWE)
		require.NoError(t, back.UnmarshalBinary(data))
		require.Empty(t, cmp.Diff(v, back, serializationCmpOpts))
	})
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()

	e, err := NewRoundingEncoder(-2, 2, 5, 3)
	require.NoError(t, err)
	path := filepath.Join(dir, "encoder.bin")
	require.NoError(t, e.Save(path))
	back, err := LoadEncoder(path)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(e, back, serializationCmpOpts))

	sk, err := NewLWESecretKeyRaw(32, 0)
	require.NoError(t, err)
	skPath := filepath.Join(dir, "sk.bin")
	require.NoError(t, sk.Save(skPath))
	skBack, err := LoadLWESecretKey(skPath)
	require.NoError(t, err)
	require.Equal(t, 32, skBack.Dimension())

	ct, err := EncodeEncryptLWE(sk, 0.5, e)
	require.NoError(t, err)
	ctPath := filepath.Join(dir, "ct.bin")
	require.NoError(t, ct.Save(ctPath))
	ctBack, err := LoadLWE(ctPath)
	require.NoError(t, err)
	got, err := ctBack.DecryptDecodeRound(skBack)
	require.NoError(t, err)
	require.InDelta(t, 0.5, got, 1e-9)

	_, err = LoadLWE(filepath.Join(dir, "missing.bin"))
	require.Error(t, err)
}
