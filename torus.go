// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"math"

	"github.com/concrete-go/concrete/internal/lattice"
)

// Torus is an element of the real torus R/Z discretized on 64 bits: the
// word t represents the fraction t / 2^64. Addition and negation of torus
// elements are plain wrapping uint64 arithmetic.
type Torus = lattice.Torus

// TorusBit is the number of bits of a torus element.
const TorusBit = 64

// torusFromDouble reduces x modulo 1 and discretizes it on the torus.
func torusFromDouble(x float64) Torus {
	x -= math.Floor(x)
	f := x * 0x1p64
	if f >= 0x1p64 {
		return 0
	}
	return Torus(f)
}

// doubleFromTorus maps a torus element back to [0, 1).
func doubleFromTorus(t Torus) float64 {
	return float64(t) * 0x1p-64
}

// roundToPrecision rounds t to the closest multiple of 2^(64-precision),
// wrapping around zero. precision must be in [1, 64].
func roundToPrecision(t Torus, precision int) Torus {
	if precision >= TorusBit {
		return t
	}
	step := Torus(1) << (TorusBit - precision)
	half := step >> 1
	return (t + half) &^ (step - 1)
}
