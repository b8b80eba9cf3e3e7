// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// Noise variances are tracked on the torus scale: the variance of the
// phase error expressed as a fraction of the full torus. Every
// homomorphic operation updates the tracked variance with the formulas
// below; MeasuredVariance turns observed decryption errors into a
// sample variance for checking the tracking empirically.

// nbBitFromVariance99 returns the number of low-order torus bits whose
// content is drowned by a noise of the given variance, bounding the
// amplitude at 4 standard deviations (99.99% confidence).
func nbBitFromVariance99(variance float64) int {
	amplitude := 4 * math.Sqrt(variance)
	bits := int(math.Ceil(math.Log2(amplitude))) + TorusBit
	if bits < 0 {
		return 0
	}
	if bits > TorusBit {
		return TorusBit
	}
	return bits
}

// varianceScalarMul propagates a variance through multiplication by an
// integer constant.
func varianceScalarMul(variance float64, c int64) float64 {
	f := float64(c)
	return variance * f * f
}

// MeasuredVariance computes the sample variance of observed decryption
// errors, each expressed as a fraction of the torus. It pairs with the
// tracked variance estimates for empirical validation.
func MeasuredVariance(errors []float64) (float64, error) {
	v, err := stats.Variance(stats.Float64Data(errors))
	if err != nil {
		return 0, fmt.Errorf("%w: %d samples", ErrWrongSize, len(errors))
	}
	return v, nil
}

// MeasuredStdDevLog2 returns log2 of the sample standard deviation of
// observed decryption errors, the scale used by the parameter tables.
func MeasuredStdDevLog2(errors []float64) (float64, error) {
	v, err := MeasuredVariance(errors)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return math.Inf(-1), nil
	}
	return math.Log2(math.Sqrt(v)), nil
}
