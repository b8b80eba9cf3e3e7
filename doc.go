// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package concrete implements homomorphic encryption over the 64-bit
// torus with approximate fixed-point arithmetic on real numbers.
//
// An Encoder maps messages from a real interval onto the torus with a
// chosen precision and a number of zeroed padding bits. Encoded
// messages are encrypted into LWE or RLWE ciphertexts under binary
// secret keys, and homomorphic operations act on the ciphertexts while
// the attached encoders and noise variances track what the result
// decodes to and how precise it still is.
//
// Leveled operations (additions, subtractions, multiplications by
// known constants) consume padding bits. Bootstrapping resets the
// noise and the padding by re-encrypting under a bootstrapping key,
// and can apply an arbitrary univariate function at the same time via
// a lookup table. Multiplication of two ciphertexts reduces to two
// function bootstraps through the identity xy = ((x+y)/2)^2 -
// ((x-y)/2)^2.
//
// The parameter sets published in params.go pair lattice dimensions
// with noise levels at the 128-bit and 80-bit security levels.
package concrete
