// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import "errors"

// Every fallible operation in this package returns one of the sentinel
// errors below, usually wrapped with fmt.Errorf("%w: ...") to carry the
// offending values. Match with errors.Is.

var (
	// ErrInvalidInterval is returned when an encoder interval has max <= min.
	ErrInvalidInterval = errors.New("invalid interval: max <= min")

	// ErrInvalidPrecision is returned when an encoder is built with zero
	// bits of precision.
	ErrInvalidPrecision = errors.New("invalid precision: nb_bit_precision == 0")

	// ErrMessageOutsideInterval is returned by strict encoding when the
	// message does not lie in [o, o+delta).
	ErrMessageOutsideInterval = errors.New("message outside of the encoder interval")

	// ErrInvalidEncoder is returned when an operation is applied with an
	// encoder whose IsValid() is false.
	ErrInvalidEncoder = errors.New("invalid encoder")

	// ErrDimension is returned on a mask-dimension mismatch between two
	// ciphertexts or between a ciphertext and a key.
	ErrDimension = errors.New("dimension mismatch")

	// ErrDelta is returned when two encoders disagree on delta.
	ErrDelta = errors.New("delta mismatch")

	// ErrPadding is returned when two encoders disagree on the number of
	// padding bits.
	ErrPadding = errors.New("padding mismatch")

	// ErrNotEnoughPadding is returned when an operation needs more padding
	// bits than the ciphertext has left.
	ErrNotEnoughPadding = errors.New("not enough padding")

	// ErrZeroInInterval is returned by real-constant multiplication when
	// zero does not belong to the encoder interval.
	ErrZeroInInterval = errors.New("zero is not in the encoder interval")

	// ErrConstantMaximum is returned when a scalar constant exceeds the
	// declared maximum.
	ErrConstantMaximum = errors.New("constant bigger than the declared maximum")

	// ErrIndex is returned on an out-of-range slot or coefficient index.
	ErrIndex = errors.New("index out of range")

	// ErrPolynomialSize is returned on a polynomial-size mismatch between
	// two ciphertexts or between a ciphertext and a key.
	ErrPolynomialSize = errors.New("polynomial size mismatch")

	// ErrNotPowerOfTwo is returned when a polynomial size is not a power
	// of two.
	ErrNotPowerOfTwo = errors.New("polynomial size is not a power of two")

	// ErrZeroCiphertextsInStructure is returned when a vector container is
	// built with zero ciphertexts.
	ErrZeroCiphertextsInStructure = errors.New("zero ciphertexts in structure")

	// ErrNotEnoughValidEncoder is returned by packed operations when more
	// messages are supplied than there are valid slots.
	ErrNotEnoughValidEncoder = errors.New("not enough valid encoders")

	// ErrWrongSize is returned when a raw plaintext slice has a length
	// incompatible with the target layout.
	ErrWrongSize = errors.New("wrong size")

	// ErrNbCiphertexts is returned when an operation receives a number of
	// constants or operands different from the number of ciphertexts.
	ErrNbCiphertexts = errors.New("wrong number of ciphertexts")
)
