// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"fmt"
	"math"

	"github.com/concrete-go/concrete/internal/lattice"
)

// LWE is a single LWE ciphertext: dimension mask words followed by one
// body word, the Encoder describing the value it carries and the
// tracked noise variance of its phase.
type LWE struct {
	ciphertext []Torus
	variance   float64
	dimension  int
	encoder    Encoder
}

// ========== Constructors ==========

// NewLWEZero builds a zero ciphertext of the given dimension with an
// invalid encoder. It decrypts to zero under any key of that dimension.
func NewLWEZero(dimension int) (*LWE, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: lwe dimension %d", ErrDimension, dimension)
	}
	return &LWE{
		ciphertext: make([]Torus, dimension+1),
		dimension:  dimension,
	}, nil
}

// EncodeEncryptLWE encodes a message with the encoder and encrypts it
// under sk.
func EncodeEncryptLWE(sk *LWESecretKey, message float64, encoder *Encoder) (*LWE, error) {
	mu, err := encoder.EncodeCore(message)
	if err != nil {
		return nil, err
	}
	l, err := encryptRawLWE(sk, mu)
	if err != nil {
		return nil, err
	}
	l.encoder = *encoder
	return l, nil
}

// EncryptRawLWE encrypts a raw torus value under sk, leaving the
// encoder invalid. The caller interprets the phase itself.
func EncryptRawLWE(sk *LWESecretKey, mu Torus) (*LWE, error) {
	return encryptRawLWE(sk, mu)
}

func encryptRawLWE(sk *LWESecretKey, mu Torus) (*LWE, error) {
	s, err := lattice.DefaultSampler()
	if err != nil {
		return nil, err
	}
	l := &LWE{
		ciphertext: make([]Torus, sk.dimension+1),
		variance:   sk.Variance(),
		dimension:  sk.dimension,
	}
	lattice.EncryptLWE(s, sk.key, mu, sk.stdDev, l.ciphertext)
	return l, nil
}

// ========== Accessors ==========

// Dimension returns the number of mask words.
func (l *LWE) Dimension() int { return l.dimension }

// Variance returns the tracked noise variance of the phase.
func (l *LWE) Variance() float64 { return l.variance }

// Encoder returns a copy of the ciphertext's encoder.
func (l *LWE) Encoder() Encoder { return l.encoder }

// CiphertextSize returns the number of torus words, body included.
func (l *LWE) CiphertextSize() int { return l.dimension + 1 }

// Copy returns a deep copy.
func (l *LWE) Copy() *LWE {
	ct := make([]Torus, len(l.ciphertext))
	copy(ct, l.ciphertext)
	return &LWE{
		ciphertext: ct,
		variance:   l.variance,
		dimension:  l.dimension,
		encoder:    l.encoder,
	}
}

// String implements fmt.Stringer.
func (l *LWE) String() string {
	return fmt.Sprintf("LWE(n=%d, variance=%g, %s)", l.dimension, l.variance, l.encoder.String())
}

func (l *LWE) body() *Torus { return &l.ciphertext[l.dimension] }

// ========== Decryption ==========

// DecryptRaw returns the noisy phase of the ciphertext under sk.
func (l *LWE) DecryptRaw(sk *LWESecretKey) (Torus, error) {
	if sk.dimension != l.dimension {
		return 0, fmt.Errorf("%w: key %d vs ciphertext %d", ErrDimension, sk.dimension, l.dimension)
	}
	return lattice.PhaseLWE(sk.key, l.ciphertext), nil
}

// DecryptDecode decrypts and decodes the message with the ciphertext's
// encoder.
func (l *LWE) DecryptDecode(sk *LWESecretKey) (float64, error) {
	phase, err := l.DecryptRaw(sk)
	if err != nil {
		return 0, err
	}
	return l.encoder.DecodeCore(phase)
}

// DecryptDecodeRound decrypts and decodes, snapping to the precision
// grid regardless of the encoder's context.
func (l *LWE) DecryptDecodeRound(sk *LWESecretKey) (float64, error) {
	phase, err := l.DecryptRaw(sk)
	if err != nil {
		return 0, err
	}
	enc := l.encoder
	enc.round = true
	return enc.DecodeCore(phase)
}

// ========== Constant operations ==========

// AddConstantStaticEncoderInplace adds a small constant to the carried
// value without touching the encoder. The shifted value must stay
// inside the interval; no bound is enforced.
func (l *LWE) AddConstantStaticEncoderInplace(message float64) error {
	if !l.encoder.IsValid() {
		return fmt.Errorf("%w: add constant", ErrInvalidEncoder)
	}
	*l.body() += l.encoder.encodeShift(message)
	return nil
}

// AddConstantStaticEncoder is the value form of
// AddConstantStaticEncoderInplace.
func (l *LWE) AddConstantStaticEncoder(message float64) (*LWE, error) {
	out := l.Copy()
	if err := out.AddConstantStaticEncoderInplace(message); err != nil {
		return nil, err
	}
	return out, nil
}

// AddConstantDynamicEncoderInplace adds a constant by translating the
// encoder interval, leaving the ciphertext words untouched.
func (l *LWE) AddConstantDynamicEncoderInplace(message float64) error {
	if !l.encoder.IsValid() {
		return fmt.Errorf("%w: add constant", ErrInvalidEncoder)
	}
	l.encoder.o += message
	return nil
}

// AddConstantDynamicEncoder is the value form of
// AddConstantDynamicEncoderInplace.
func (l *LWE) AddConstantDynamicEncoder(message float64) (*LWE, error) {
	out := l.Copy()
	if err := out.AddConstantDynamicEncoderInplace(message); err != nil {
		return nil, err
	}
	return out, nil
}

// MulConstantStaticEncoderInplace multiplies the carried value by a
// small signed integer without touching the encoder. The scaled value
// must stay inside the interval; no bound is enforced and overflow
// wraps modulo the interval.
func (l *LWE) MulConstantStaticEncoderInplace(message int32) error {
	if !l.encoder.IsValid() {
		return fmt.Errorf("%w: mul constant", ErrInvalidEncoder)
	}
	c := Torus(int64(message))
	for i := range l.ciphertext {
		l.ciphertext[i] *= c
	}
	// the interval offset scales with the value: re-anchor on o
	*l.body() += l.encoder.encodeShift(float64(message-1) * l.encoder.o)
	l.variance = varianceScalarMul(l.variance, int64(message))
	return nil
}

// MulConstantStaticEncoder is the value form of
// MulConstantStaticEncoderInplace.
func (l *LWE) MulConstantStaticEncoder(message int32) (*LWE, error) {
	out := l.Copy()
	if err := out.MulConstantStaticEncoderInplace(message); err != nil {
		return nil, err
	}
	return out, nil
}

// MulConstantWithPaddingInplace multiplies the carried value by a real
// constant, consuming nbBitPadding bits of padding to hold the widened
// result. Zero must belong to the interval, |constant| must not exceed
// maxConstant, and the output interval becomes
// [-maxConstant*emax, maxConstant*emax) with emax the largest absolute
// representable input.
func (l *LWE) MulConstantWithPaddingInplace(constant, maxConstant float64, nbBitPadding int) error {
	scale, newEnc, err := mulPaddingScale(&l.encoder, constant, maxConstant, nbBitPadding)
	if err != nil {
		return err
	}
	// center on zero, scale, recenter in the widened interval
	*l.body() -= l.encoder.encodeShift(-l.encoder.o)
	mult := scale
	if constant < 0 {
		mult = -mult
	}
	for i := range l.ciphertext {
		l.ciphertext[i] *= mult
	}
	*l.body() += Torus(1) << uint(TorusBit-1-newEnc.nbBitPadding)
	l.encoder = newEnc
	l.variance = varianceScalarMul(l.variance, int64(scale))
	return nil
}

// mulPaddingScale validates a real-constant multiplication and derives
// its discretized scale and output encoder: the constant is quantized
// on nbBitPadding bits relative to maxConstant, and the result interval
// widens to [-maxConstant*emax, maxConstant*emax).
func mulPaddingScale(e *Encoder, constant, maxConstant float64, nbBitPadding int) (Torus, Encoder, error) {
	if !e.IsValid() {
		return 0, Encoder{}, fmt.Errorf("%w: mul constant with padding", ErrInvalidEncoder)
	}
	if maxConstant <= 0 || math.Abs(constant) > maxConstant {
		return 0, Encoder{}, fmt.Errorf("%w: |%g| > %g", ErrConstantMaximum, constant, maxConstant)
	}
	if !(e.o <= 0 && 0 < e.o+e.delta) {
		return 0, Encoder{}, fmt.Errorf("%w: [%g, %g)", ErrZeroInInterval, e.o, e.o+e.delta)
	}
	if nbBitPadding <= 0 || nbBitPadding > e.nbBitPadding {
		return 0, Encoder{}, fmt.Errorf("%w: need %d, have %d", ErrNotEnoughPadding, nbBitPadding, e.nbBitPadding)
	}
	emax := math.Max(math.Abs(e.Min()), math.Abs(e.Max()))
	scale := Torus(math.Round(math.Abs(constant) * e.delta * math.Exp2(float64(nbBitPadding)) /
		(maxConstant * 2 * emax)))
	newEnc := *e
	newEnc.o = -maxConstant * emax
	newEnc.delta = 2 * maxConstant * emax
	newEnc.nbBitPadding -= nbBitPadding
	if nbBitPadding < newEnc.nbBitPrecision {
		newEnc.nbBitPrecision = nbBitPadding
	}
	return scale, newEnc, nil
}

// MulConstantWithPadding is the value form of
// MulConstantWithPaddingInplace.
func (l *LWE) MulConstantWithPadding(constant, maxConstant float64, nbBitPadding int) (*LWE, error) {
	out := l.Copy()
	if err := out.MulConstantWithPaddingInplace(constant, maxConstant, nbBitPadding); err != nil {
		return nil, err
	}
	return out, nil
}

// ========== Ciphertext additions ==========

func (l *LWE) checkBinary(ct *LWE, needPadding int) error {
	if !l.encoder.IsValid() || !ct.encoder.IsValid() {
		return fmt.Errorf("%w: binary operation", ErrInvalidEncoder)
	}
	if l.dimension != ct.dimension {
		return fmt.Errorf("%w: %d vs %d", ErrDimension, l.dimension, ct.dimension)
	}
	if l.encoder.delta != ct.encoder.delta {
		return fmt.Errorf("%w: %g vs %g", ErrDelta, l.encoder.delta, ct.encoder.delta)
	}
	if l.encoder.nbBitPadding != ct.encoder.nbBitPadding {
		return fmt.Errorf("%w: %d vs %d", ErrPadding, l.encoder.nbBitPadding, ct.encoder.nbBitPadding)
	}
	if l.encoder.nbBitPadding < needPadding {
		return fmt.Errorf("%w: need %d, have %d", ErrNotEnoughPadding, needPadding, l.encoder.nbBitPadding)
	}
	return nil
}

// AddWithNewMinInplace adds ct, re-anchoring the result interval on a
// caller-chosen minimum. Both operands need one bit of padding to
// absorb the doubled range before re-anchoring.
func (l *LWE) AddWithNewMinInplace(ct *LWE, newMin float64) error {
	if err := l.checkBinary(ct, 1); err != nil {
		return err
	}
	for i := range l.ciphertext {
		l.ciphertext[i] += ct.ciphertext[i]
	}
	*l.body() += l.encoder.encodeShift(l.encoder.o + ct.encoder.o - newMin)
	l.encoder.o = newMin
	if ct.encoder.nbBitPrecision < l.encoder.nbBitPrecision {
		l.encoder.nbBitPrecision = ct.encoder.nbBitPrecision
	}
	l.variance += ct.variance
	return nil
}

// AddWithNewMin is the value form of AddWithNewMinInplace.
func (l *LWE) AddWithNewMin(ct *LWE, newMin float64) (*LWE, error) {
	out := l.Copy()
	if err := out.AddWithNewMinInplace(ct, newMin); err != nil {
		return nil, err
	}
	return out, nil
}

// AddCenteredInplace adds ct, centering the result interval on the sum
// of the operand centers.
func (l *LWE) AddCenteredInplace(ct *LWE) error {
	return l.AddWithNewMinInplace(ct, l.encoder.o+ct.encoder.o+l.encoder.delta/2)
}

// AddCentered is the value form of AddCenteredInplace.
func (l *LWE) AddCentered(ct *LWE) (*LWE, error) {
	out := l.Copy()
	if err := out.AddCenteredInplace(ct); err != nil {
		return nil, err
	}
	return out, nil
}

// AddWithPaddingInplace adds ct, consuming one bit of padding to hold
// the doubled interval exactly.
func (l *LWE) AddWithPaddingInplace(ct *LWE) error {
	return l.addWithPaddingInplace(ct, false)
}

// AddWithPaddingExactInplace is AddWithPaddingInplace in an exact
// computation context: the result precision grows to keep grid-aligned
// operands exactly representable.
func (l *LWE) AddWithPaddingExactInplace(ct *LWE) error {
	return l.addWithPaddingInplace(ct, true)
}

func (l *LWE) addWithPaddingInplace(ct *LWE, exact bool) error {
	if err := l.checkBinary(ct, 1); err != nil {
		return err
	}
	for i := range l.ciphertext {
		l.ciphertext[i] += ct.ciphertext[i]
	}
	l.encoder.o += ct.encoder.o
	l.combinePaddedEncoders(ct, exact)
	l.variance += ct.variance
	return nil
}

// SubWithPaddingInplace subtracts ct, consuming one bit of padding. The
// body is recentered so the doubled interval starts at o1-o2-delta.
func (l *LWE) SubWithPaddingInplace(ct *LWE) error {
	return l.subWithPaddingInplace(ct, false)
}

// SubWithPaddingExactInplace is SubWithPaddingInplace in an exact
// computation context.
func (l *LWE) SubWithPaddingExactInplace(ct *LWE) error {
	return l.subWithPaddingInplace(ct, true)
}

func (l *LWE) subWithPaddingInplace(ct *LWE, exact bool) error {
	if err := l.checkBinary(ct, 1); err != nil {
		return err
	}
	for i := range l.ciphertext {
		l.ciphertext[i] -= ct.ciphertext[i]
	}
	*l.body() += Torus(1) << uint(TorusBit-l.encoder.nbBitPadding)
	l.encoder.o -= ct.encoder.o + l.encoder.delta
	l.combinePaddedEncoders(ct, exact)
	l.variance += ct.variance
	return nil
}

// combinePaddedEncoders doubles the interval, consumes one padding bit
// and merges the precisions of the two operands.
func (l *LWE) combinePaddedEncoders(ct *LWE, exact bool) {
	e := &l.encoder
	e.delta *= 2
	e.nbBitPadding--
	if exact {
		q := max(e.nbBitPrecision, ct.encoder.nbBitPrecision) + 1
		if q+e.nbBitPadding > TorusBit {
			q = TorusBit - e.nbBitPadding
		}
		e.nbBitPrecision = q
	} else if ct.encoder.nbBitPrecision < e.nbBitPrecision {
		e.nbBitPrecision = ct.encoder.nbBitPrecision
	}
}

// ========== Negation ==========

// OppositeInplace negates the carried value, flipping the encoder
// interval around zero.
func (l *LWE) OppositeInplace() error {
	if !l.encoder.IsValid() {
		return fmt.Errorf("%w: opposite", ErrInvalidEncoder)
	}
	for i := range l.ciphertext {
		l.ciphertext[i] = -l.ciphertext[i]
	}
	e := &l.encoder
	*l.body() += Torus(1)<<uint(TorusBit-e.nbBitPadding) -
		Torus(1)<<uint(TorusBit-e.nbBitPadding-e.nbBitPrecision)
	return e.OppositeInplace()
}

// Opposite is the value form of OppositeInplace.
func (l *LWE) Opposite() (*LWE, error) {
	out := l.Copy()
	if err := out.OppositeInplace(); err != nil {
		return nil, err
	}
	return out, nil
}

// ========== Padding management ==========

// RemovePaddingInplace discards nb bits of padding by shifting the
// whole ciphertext up. The noise is amplified accordingly.
func (l *LWE) RemovePaddingInplace(nb int) error {
	if !l.encoder.IsValid() {
		return fmt.Errorf("%w: remove padding", ErrInvalidEncoder)
	}
	if nb < 0 || nb > l.encoder.nbBitPadding {
		return fmt.Errorf("%w: remove %d of %d", ErrNotEnoughPadding, nb, l.encoder.nbBitPadding)
	}
	for i := range l.ciphertext {
		l.ciphertext[i] <<= uint(nb)
	}
	l.encoder.nbBitPadding -= nb
	l.variance = varianceScalarMul(l.variance, int64(1)<<uint(nb))
	return nil
}

// ========== Key switching and bootstrapping ==========

// Keyswitch switches the ciphertext to the output key of ksk. The
// encoder is preserved; the switch noise adds to the tracked variance.
func (l *LWE) Keyswitch(ksk *LWEKSK) (*LWE, error) {
	if ksk.DimensionBefore() != l.dimension {
		return nil, fmt.Errorf("%w: ksk input %d vs ciphertext %d",
			ErrDimension, ksk.DimensionBefore(), l.dimension)
	}
	return &LWE{
		ciphertext: ksk.ksk.Apply(l.ciphertext),
		variance:   l.variance + ksk.ksk.VarianceAdded(),
		dimension:  ksk.DimensionAfter(),
		encoder:    l.encoder,
	}, nil
}

// Bootstrap refreshes the ciphertext noise through the identity lookup
// table. The output lives under the flattened RLWE key of bsk.
func (l *LWE) Bootstrap(bsk *LWEBSK) (*LWE, error) {
	out := l.encoder
	return l.BootstrapWithFunction(bsk, func(x float64) float64 { return x }, &out)
}

// BootstrapWithFunction homomorphically evaluates f by blind-rotating
// its lookup table, producing a fresh ciphertext carrying f(x) under
// encoderOutput.
func (l *LWE) BootstrapWithFunction(bsk *LWEBSK, f func(float64) float64, encoderOutput *Encoder) (*LWE, error) {
	if bsk.Dimension() != l.dimension {
		return nil, fmt.Errorf("%w: bsk input %d vs ciphertext %d",
			ErrDimension, bsk.Dimension(), l.dimension)
	}
	lut, err := bsk.GenerateFunctionalLookUpTable(&l.encoder, encoderOutput, f)
	if err != nil {
		return nil, err
	}
	return &LWE{
		ciphertext: bsk.bsk.BlindRotate(l.ciphertext, lut),
		variance:   bsk.bsk.VarianceOut(),
		dimension:  bsk.LWEDimension(),
		encoder:    *encoderOutput,
	}, nil
}

// MulFromBootstrap multiplies two ciphertexts through the identity
// x*y = ((x+y)/2)^2 - ((x-y)/2)^2, evaluating the square with two
// functional bootstraps. Both operands need two bits of padding: one
// for the addition, one for the half-torus constraint of the lookup
// tables.
func (l *LWE) MulFromBootstrap(ct *LWE, bsk *LWEBSK) (*LWE, error) {
	if l.encoder.nbBitPadding < 2 || ct.encoder.nbBitPadding < 2 {
		return nil, fmt.Errorf("%w: multiplication needs 2 bits", ErrNotEnoughPadding)
	}
	squareQuarter := func(x float64) float64 { return x * x / 4 }

	sum, err := l.AddWithPadding(ct)
	if err != nil {
		return nil, err
	}
	encSq, err := sum.encoder.NewSquareDividedByFour(sum.encoder.nbBitPadding)
	if err != nil {
		return nil, err
	}
	left, err := sum.BootstrapWithFunction(bsk, squareQuarter, encSq)
	if err != nil {
		return nil, err
	}
	diff, err := l.SubWithPadding(ct)
	if err != nil {
		return nil, err
	}
	right, err := diff.BootstrapWithFunction(bsk, squareQuarter, encSq)
	if err != nil {
		return nil, err
	}
	return left.SubWithPadding(right)
}

// AddWithPadding is the value form of AddWithPaddingInplace.
func (l *LWE) AddWithPadding(ct *LWE) (*LWE, error) {
	out := l.Copy()
	if err := out.AddWithPaddingInplace(ct); err != nil {
		return nil, err
	}
	return out, nil
}

// AddWithPaddingExact is the value form of AddWithPaddingExactInplace.
func (l *LWE) AddWithPaddingExact(ct *LWE) (*LWE, error) {
	out := l.Copy()
	if err := out.AddWithPaddingExactInplace(ct); err != nil {
		return nil, err
	}
	return out, nil
}

// SubWithPadding is the value form of SubWithPaddingInplace.
func (l *LWE) SubWithPadding(ct *LWE) (*LWE, error) {
	out := l.Copy()
	if err := out.SubWithPaddingInplace(ct); err != nil {
		return nil, err
	}
	return out, nil
}

// SubWithPaddingExact is the value form of SubWithPaddingExactInplace.
func (l *LWE) SubWithPaddingExact(ct *LWE) (*LWE, error) {
	out := l.Copy()
	if err := out.SubWithPaddingExactInplace(ct); err != nil {
		return nil, err
	}
	return out, nil
}
