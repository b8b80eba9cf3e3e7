// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"fmt"

	"github.com/concrete-go/concrete/internal/lattice"
)

// LWEKSK is a key-switching key from one LWE secret key to another.
type LWEKSK struct {
	ksk *lattice.KSK
}

// NewLWEKSK generates a key-switching key from skBefore to skAfter with
// the given gadget decomposition. The rows are encrypted with skAfter's
// noise level.
func NewLWEKSK(skBefore, skAfter *LWESecretKey, baseLog, level int) (*LWEKSK, error) {
	if baseLog <= 0 || level <= 0 || baseLog*level > TorusBit {
		return nil, fmt.Errorf("%w: base_log %d level %d", ErrInvalidPrecision, baseLog, level)
	}
	s, err := lattice.DefaultSampler()
	if err != nil {
		return nil, err
	}
	return &LWEKSK{
		ksk: lattice.NewKSK(s, skBefore.key, skAfter.key, baseLog, level, skAfter.stdDev),
	}, nil
}

// NewLWEKSKZero allocates an all-zero key-switching key of the given
// shape, for sizing and serialization purposes.
func NewLWEKSKZero(dimensionBefore, dimensionAfter, baseLog, level int) *LWEKSK {
	return &LWEKSK{
		ksk: lattice.NewZeroKSK(dimensionBefore, dimensionAfter, baseLog, level),
	}
}

// DimensionBefore returns the input key dimension.
func (k *LWEKSK) DimensionBefore() int { return k.ksk.DimensionBefore }

// DimensionAfter returns the output key dimension.
func (k *LWEKSK) DimensionAfter() int { return k.ksk.DimensionAfter }

// BaseLog returns the gadget decomposition base log.
func (k *LWEKSK) BaseLog() int { return k.ksk.BaseLog }

// Level returns the number of gadget decomposition levels.
func (k *LWEKSK) Level() int { return k.ksk.Level }

// Variance returns the per-row encryption noise variance.
func (k *LWEKSK) Variance() float64 { return k.ksk.Variance }

// String implements fmt.Stringer.
func (k *LWEKSK) String() string {
	return fmt.Sprintf("LWEKSK(%d -> %d, base_log=%d, level=%d)",
		k.ksk.DimensionBefore, k.ksk.DimensionAfter, k.ksk.BaseLog, k.ksk.Level)
}
