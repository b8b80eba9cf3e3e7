// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package lattice

import "math"

// KSK is an LWE-to-LWE key-switching key. Row (i, l) encrypts
// s_before[i] * 2^(64-(l+1)*BaseLog) under the output key.
type KSK struct {
	DimensionBefore int
	DimensionAfter  int
	BaseLog         int
	Level           int
	Variance        float64
	Data            []Torus
}

// NewKSK generates a key-switching key from skBefore to skAfter with the
// given gadget decomposition and per-row encryption noise.
func NewKSK(s *Sampler, skBefore, skAfter *LWESecretKey, baseLog, level int, stdDev float64) *KSK {
	k := NewZeroKSK(skBefore.Dimension(), skAfter.Dimension(), baseLog, level)
	k.Variance = stdDev * stdDev
	for i := 0; i < k.DimensionBefore; i++ {
		for l := 0; l < k.Level; l++ {
			var mu Torus
			if skBefore.Bits[i] == 1 {
				mu = gadget(baseLog, l)
			}
			EncryptLWE(s, skAfter, mu, stdDev, k.row(i, l))
		}
	}
	return k
}

// NewZeroKSK allocates an all-zero key-switching key of the given shape.
func NewZeroKSK(dimensionBefore, dimensionAfter, baseLog, level int) *KSK {
	return &KSK{
		DimensionBefore: dimensionBefore,
		DimensionAfter:  dimensionAfter,
		BaseLog:         baseLog,
		Level:           level,
		Data:            make([]Torus, dimensionBefore*level*(dimensionAfter+1)),
	}
}

// gadget returns the decomposition scale of level l: 2^(64-(l+1)*baseLog).
func gadget(baseLog, l int) Torus {
	shift := TorusBit - baseLog*(l+1)
	if shift < 0 || shift >= TorusBit {
		return 0
	}
	return Torus(1) << uint(shift)
}

func (k *KSK) row(i, l int) []Torus {
	w := k.DimensionAfter + 1
	off := (i*k.Level + l) * w
	return k.Data[off : off+w]
}

// Apply switches ct (length DimensionBefore+1) to the output key,
// returning a ciphertext of length DimensionAfter+1. Each input mask
// word is rounded to BaseLog*Level bits and decomposed; the matching
// key rows are subtracted from the trivial embedding of the body.
func (k *KSK) Apply(ct []Torus) []Torus {
	out := make([]Torus, k.DimensionAfter+1)
	out[k.DimensionAfter] = ct[k.DimensionBefore]
	totalBits := k.BaseLog * k.Level
	mask := Torus(1)<<uint(k.BaseLog) - 1
	for i := 0; i < k.DimensionBefore; i++ {
		a := roundToBits(ct[i], totalBits)
		for l := 0; l < k.Level; l++ {
			digit := (a >> uint(TorusBit-k.BaseLog*(l+1))) & mask
			if digit == 0 {
				continue
			}
			row := k.row(i, l)
			for j := range out {
				out[j] -= digit * row[j]
			}
		}
	}
	return out
}

// VarianceAdded estimates the noise variance the switch adds on top of
// the input ciphertext's: the key rows' noise amplified by the digits
// plus the rounding remainder hit by the key bits.
func (k *KSK) VarianceAdded() float64 {
	n := float64(k.DimensionBefore)
	b2 := math.Exp2(2 * float64(k.BaseLog))
	rem := math.Exp2(-2 * float64(k.BaseLog*k.Level))
	return n*float64(k.Level)*k.Variance*b2/12 + n*rem/24
}

// roundToBits rounds t to the closest multiple of 2^(64-bits).
func roundToBits(t Torus, bits int) Torus {
	if bits >= TorusBit {
		return t
	}
	step := Torus(1) << uint(TorusBit-bits)
	return (t + step>>1) &^ (step - 1)
}
