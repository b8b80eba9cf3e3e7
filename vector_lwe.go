// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"fmt"
	"math"
	"strings"

	"github.com/concrete-go/concrete/internal/lattice"
)

// VectorLWE is a list of LWE ciphertexts sharing one mask dimension,
// stored contiguously. Each slot carries its own Encoder and tracked
// noise variance.
type VectorLWE struct {
	ciphertexts   []Torus // nbCiphertexts * (dimension+1)
	variances     []float64
	encoders      []Encoder
	dimension     int
	nbCiphertexts int
}

// ========== Constructors ==========

// NewVectorLWEZero builds nbCiphertexts zero ciphertexts of the given
// dimension with invalid encoders.
func NewVectorLWEZero(dimension, nbCiphertexts int) (*VectorLWE, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: lwe dimension %d", ErrDimension, dimension)
	}
	if nbCiphertexts == 0 {
		return nil, fmt.Errorf("%w: vector lwe", ErrZeroCiphertextsInStructure)
	}
	return &VectorLWE{
		ciphertexts:   make([]Torus, nbCiphertexts*(dimension+1)),
		variances:     make([]float64, nbCiphertexts),
		encoders:      make([]Encoder, nbCiphertexts),
		dimension:     dimension,
		nbCiphertexts: nbCiphertexts,
	}, nil
}

// EncryptVectorLWE encrypts each slot of a Plaintext into its own
// ciphertext under sk.
func EncryptVectorLWE(sk *LWESecretKey, plaintexts *Plaintext) (*VectorLWE, error) {
	v, err := NewVectorLWEZero(sk.dimension, plaintexts.NbPlaintexts())
	if err != nil {
		return nil, err
	}
	if err := v.EncryptInplace(sk, plaintexts); err != nil {
		return nil, err
	}
	return v, nil
}

// EncodeEncryptVectorLWE encodes every message with one shared encoder
// and encrypts them under sk.
func EncodeEncryptVectorLWE(sk *LWESecretKey, messages []float64, encoder *Encoder) (*VectorLWE, error) {
	pt, err := encoder.Encode(messages)
	if err != nil {
		return nil, err
	}
	return EncryptVectorLWE(sk, pt)
}

// EncodeEncryptVectorLWESeveralEncoders encodes message i with encoder
// i and encrypts them under sk.
func EncodeEncryptVectorLWESeveralEncoders(sk *LWESecretKey, messages []float64, encoders []Encoder) (*VectorLWE, error) {
	if len(messages) != len(encoders) {
		return nil, fmt.Errorf("%w: %d messages for %d encoders",
			ErrWrongSize, len(messages), len(encoders))
	}
	pt := newPlaintext(len(messages))
	for i, m := range messages {
		t, err := encoders[i].EncodeCore(m)
		if err != nil {
			return nil, err
		}
		pt.plaintexts[i] = t
		pt.encoders[i] = encoders[i]
	}
	return EncryptVectorLWE(sk, pt)
}

// EncryptRawVectorLWE encrypts raw torus values under sk, one
// ciphertext each, leaving the encoders invalid.
func EncryptRawVectorLWE(sk *LWESecretKey, mus []Torus) (*VectorLWE, error) {
	v, err := NewVectorLWEZero(sk.dimension, len(mus))
	if err != nil {
		return nil, err
	}
	s, err := lattice.DefaultSampler()
	if err != nil {
		return nil, err
	}
	for i, mu := range mus {
		lattice.EncryptLWE(s, sk.key, mu, sk.stdDev, v.ct(i))
		v.variances[i] = sk.Variance()
	}
	return v, nil
}

// EncryptInplace re-encrypts a Plaintext into the existing slots.
func (v *VectorLWE) EncryptInplace(sk *LWESecretKey, plaintexts *Plaintext) error {
	if sk.dimension != v.dimension {
		return fmt.Errorf("%w: key %d vs ciphertext %d", ErrDimension, sk.dimension, v.dimension)
	}
	if plaintexts.NbPlaintexts() != v.nbCiphertexts {
		return fmt.Errorf("%w: %d plaintexts for %d ciphertexts",
			ErrNbCiphertexts, plaintexts.NbPlaintexts(), v.nbCiphertexts)
	}
	s, err := lattice.DefaultSampler()
	if err != nil {
		return err
	}
	for i := 0; i < v.nbCiphertexts; i++ {
		lattice.EncryptLWE(s, sk.key, plaintexts.plaintexts[i], sk.stdDev, v.ct(i))
		v.variances[i] = sk.Variance()
		v.encoders[i] = plaintexts.encoders[i]
	}
	return nil
}

// ========== Accessors ==========

// Dimension returns the shared mask dimension.
func (v *VectorLWE) Dimension() int { return v.dimension }

// NbCiphertexts returns the number of slots.
func (v *VectorLWE) NbCiphertexts() int { return v.nbCiphertexts }

// Variances returns a copy of the tracked per-slot variances.
func (v *VectorLWE) Variances() []float64 {
	out := make([]float64, len(v.variances))
	copy(out, v.variances)
	return out
}

// Encoders returns a copy of the per-slot encoders.
func (v *VectorLWE) Encoders() []Encoder {
	out := make([]Encoder, len(v.encoders))
	copy(out, v.encoders)
	return out
}

// NthEncoder returns a copy of the encoder of slot n.
func (v *VectorLWE) NthEncoder(n int) (Encoder, error) {
	if n < 0 || n >= v.nbCiphertexts {
		return Encoder{}, fmt.Errorf("%w: slot %d of %d", ErrIndex, n, v.nbCiphertexts)
	}
	return v.encoders[n], nil
}

// CiphertextSize returns the number of torus words of one slot, body
// included.
func (v *VectorLWE) CiphertextSize() int { return v.dimension + 1 }

// Copy returns a deep copy.
func (v *VectorLWE) Copy() *VectorLWE {
	out := &VectorLWE{
		ciphertexts:   make([]Torus, len(v.ciphertexts)),
		variances:     make([]float64, len(v.variances)),
		encoders:      make([]Encoder, len(v.encoders)),
		dimension:     v.dimension,
		nbCiphertexts: v.nbCiphertexts,
	}
	copy(out.ciphertexts, v.ciphertexts)
	copy(out.variances, v.variances)
	copy(out.encoders, v.encoders)
	return out
}

// String implements fmt.Stringer.
func (v *VectorLWE) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "VectorLWE(n=%d, nb=%d)[", v.dimension, v.nbCiphertexts)
	for i := 0; i < v.nbCiphertexts; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "variance=%g %s", v.variances[i], v.encoders[i].String())
	}
	b.WriteString("]")
	return b.String()
}

// ct returns the words of slot i (mask then body), aliasing the
// underlying storage.
func (v *VectorLWE) ct(i int) []Torus {
	w := v.dimension + 1
	return v.ciphertexts[i*w : (i+1)*w]
}

// view wraps slot i as an LWE sharing the underlying words, so the
// single-ciphertext algebra applies slot-wise. store writes the
// metadata the operation changed back into the vector.
func (v *VectorLWE) view(i int) *LWE {
	return &LWE{
		ciphertext: v.ct(i),
		variance:   v.variances[i],
		dimension:  v.dimension,
		encoder:    v.encoders[i],
	}
}

func (v *VectorLWE) store(i int, l *LWE) {
	v.variances[i] = l.variance
	v.encoders[i] = l.encoder
}

func (v *VectorLWE) checkIndex(n int) error {
	if n < 0 || n >= v.nbCiphertexts {
		return fmt.Errorf("%w: slot %d of %d", ErrIndex, n, v.nbCiphertexts)
	}
	return nil
}

func (v *VectorLWE) checkNb(nb int) error {
	if nb != v.nbCiphertexts {
		return fmt.Errorf("%w: %d for %d ciphertexts", ErrNbCiphertexts, nb, v.nbCiphertexts)
	}
	return nil
}

func (v *VectorLWE) checkSameVector(ct *VectorLWE) error {
	if v.dimension != ct.dimension {
		return fmt.Errorf("%w: %d vs %d", ErrDimension, v.dimension, ct.dimension)
	}
	if v.nbCiphertexts != ct.nbCiphertexts {
		return fmt.Errorf("%w: %d vs %d", ErrNbCiphertexts, v.nbCiphertexts, ct.nbCiphertexts)
	}
	return nil
}

// ========== Structural operations ==========

// ExtractNth isolates slot n into a one-slot vector.
func (v *VectorLWE) ExtractNth(n int) (*VectorLWE, error) {
	if err := v.checkIndex(n); err != nil {
		return nil, err
	}
	out, _ := NewVectorLWEZero(v.dimension, 1)
	copy(out.ct(0), v.ct(n))
	out.variances[0] = v.variances[n]
	out.encoders[0] = v.encoders[n]
	return out, nil
}

// CopyInNthNthInplace overwrites slot nSelf with slot nCt of ct.
func (v *VectorLWE) CopyInNthNthInplace(nSelf int, ct *VectorLWE, nCt int) error {
	if v.dimension != ct.dimension {
		return fmt.Errorf("%w: %d vs %d", ErrDimension, v.dimension, ct.dimension)
	}
	if err := v.checkIndex(nSelf); err != nil {
		return err
	}
	if err := ct.checkIndex(nCt); err != nil {
		return err
	}
	copy(v.ct(nSelf), ct.ct(nCt))
	v.variances[nSelf] = ct.variances[nCt]
	v.encoders[nSelf] = ct.encoders[nCt]
	return nil
}

// ========== Decryption ==========

// DecryptRaw returns the noisy phase of every slot under sk.
func (v *VectorLWE) DecryptRaw(sk *LWESecretKey) ([]Torus, error) {
	if sk.dimension != v.dimension {
		return nil, fmt.Errorf("%w: key %d vs ciphertext %d", ErrDimension, sk.dimension, v.dimension)
	}
	out := make([]Torus, v.nbCiphertexts)
	for i := range out {
		out[i] = lattice.PhaseLWE(sk.key, v.ct(i))
	}
	return out, nil
}

// DecryptDecode decrypts and decodes every slot with its encoder.
func (v *VectorLWE) DecryptDecode(sk *LWESecretKey) ([]float64, error) {
	phases, err := v.DecryptRaw(sk)
	if err != nil {
		return nil, err
	}
	out := make([]float64, v.nbCiphertexts)
	for i, phase := range phases {
		m, err := v.encoders[i].DecodeCore(phase)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

// DecryptDecodeRound decrypts and decodes every slot, snapping to the
// precision grid.
func (v *VectorLWE) DecryptDecodeRound(sk *LWESecretKey) ([]float64, error) {
	phases, err := v.DecryptRaw(sk)
	if err != nil {
		return nil, err
	}
	out := make([]float64, v.nbCiphertexts)
	for i, phase := range phases {
		enc := v.encoders[i]
		enc.round = true
		m, err := enc.DecodeCore(phase)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

// ========== Slot-wise operations ==========

// AddConstantStaticEncoderInplace adds message i to slot i without
// touching the encoders.
func (v *VectorLWE) AddConstantStaticEncoderInplace(messages []float64) error {
	if err := v.checkNb(len(messages)); err != nil {
		return err
	}
	for i, m := range messages {
		l := v.view(i)
		if err := l.AddConstantStaticEncoderInplace(m); err != nil {
			return err
		}
		v.store(i, l)
	}
	return nil
}

// AddConstantStaticEncoder is the value form of
// AddConstantStaticEncoderInplace.
func (v *VectorLWE) AddConstantStaticEncoder(messages []float64) (*VectorLWE, error) {
	out := v.Copy()
	if err := out.AddConstantStaticEncoderInplace(messages); err != nil {
		return nil, err
	}
	return out, nil
}

// AddConstantDynamicEncoderInplace adds message i to slot i by
// translating its encoder interval.
func (v *VectorLWE) AddConstantDynamicEncoderInplace(messages []float64) error {
	if err := v.checkNb(len(messages)); err != nil {
		return err
	}
	for i, m := range messages {
		l := v.view(i)
		if err := l.AddConstantDynamicEncoderInplace(m); err != nil {
			return err
		}
		v.store(i, l)
	}
	return nil
}

// AddConstantDynamicEncoder is the value form of
// AddConstantDynamicEncoderInplace.
func (v *VectorLWE) AddConstantDynamicEncoder(messages []float64) (*VectorLWE, error) {
	out := v.Copy()
	if err := out.AddConstantDynamicEncoderInplace(messages); err != nil {
		return nil, err
	}
	return out, nil
}

// AddWithNewMinInplace adds ct slot-wise, re-anchoring slot i on
// newMins[i].
func (v *VectorLWE) AddWithNewMinInplace(ct *VectorLWE, newMins []float64) error {
	if err := v.checkSameVector(ct); err != nil {
		return err
	}
	if err := v.checkNb(len(newMins)); err != nil {
		return err
	}
	for i := range newMins {
		a, b := v.view(i), ct.view(i)
		if err := a.AddWithNewMinInplace(b, newMins[i]); err != nil {
			return err
		}
		v.store(i, a)
	}
	return nil
}

// AddWithNewMin is the value form of AddWithNewMinInplace.
func (v *VectorLWE) AddWithNewMin(ct *VectorLWE, newMins []float64) (*VectorLWE, error) {
	out := v.Copy()
	if err := out.AddWithNewMinInplace(ct, newMins); err != nil {
		return nil, err
	}
	return out, nil
}

// AddCenteredInplace adds ct slot-wise, centering each result interval.
func (v *VectorLWE) AddCenteredInplace(ct *VectorLWE) error {
	if err := v.checkSameVector(ct); err != nil {
		return err
	}
	for i := 0; i < v.nbCiphertexts; i++ {
		a, b := v.view(i), ct.view(i)
		if err := a.AddCenteredInplace(b); err != nil {
			return err
		}
		v.store(i, a)
	}
	return nil
}

// AddCentered is the value form of AddCenteredInplace.
func (v *VectorLWE) AddCentered(ct *VectorLWE) (*VectorLWE, error) {
	out := v.Copy()
	if err := out.AddCenteredInplace(ct); err != nil {
		return nil, err
	}
	return out, nil
}

// AddWithPaddingInplace adds ct slot-wise, consuming one bit of
// padding per slot.
func (v *VectorLWE) AddWithPaddingInplace(ct *VectorLWE) error {
	if err := v.checkSameVector(ct); err != nil {
		return err
	}
	for i := 0; i < v.nbCiphertexts; i++ {
		a, b := v.view(i), ct.view(i)
		if err := a.AddWithPaddingInplace(b); err != nil {
			return err
		}
		v.store(i, a)
	}
	return nil
}

// AddWithPadding is the value form of AddWithPaddingInplace.
func (v *VectorLWE) AddWithPadding(ct *VectorLWE) (*VectorLWE, error) {
	out := v.Copy()
	if err := out.AddWithPaddingInplace(ct); err != nil {
		return nil, err
	}
	return out, nil
}

// SubWithPaddingInplace subtracts ct slot-wise, consuming one bit of
// padding per slot.
func (v *VectorLWE) SubWithPaddingInplace(ct *VectorLWE) error {
	if err := v.checkSameVector(ct); err != nil {
		return err
	}
	for i := 0; i < v.nbCiphertexts; i++ {
		a, b := v.view(i), ct.view(i)
		if err := a.SubWithPaddingInplace(b); err != nil {
			return err
		}
		v.store(i, a)
	}
	return nil
}

// SubWithPadding is the value form of SubWithPaddingInplace.
func (v *VectorLWE) SubWithPadding(ct *VectorLWE) (*VectorLWE, error) {
	out := v.Copy()
	if err := out.SubWithPaddingInplace(ct); err != nil {
		return nil, err
	}
	return out, nil
}

// MulConstantStaticEncoderInplace multiplies slot i by the small
// integer messages[i] without touching the encoders.
func (v *VectorLWE) MulConstantStaticEncoderInplace(messages []int32) error {
	if err := v.checkNb(len(messages)); err != nil {
		return err
	}
	for i, m := range messages {
		l := v.view(i)
		if err := l.MulConstantStaticEncoderInplace(m); err != nil {
			return err
		}
		v.store(i, l)
	}
	return nil
}

// MulConstantStaticEncoder is the value form of
// MulConstantStaticEncoderInplace.
func (v *VectorLWE) MulConstantStaticEncoder(messages []int32) (*VectorLWE, error) {
	out := v.Copy()
	if err := out.MulConstantStaticEncoderInplace(messages); err != nil {
		return nil, err
	}
	return out, nil
}

// MulConstantWithPaddingInplace multiplies slot i by the real constant
// constants[i], consuming nbBitPadding bits of padding per slot.
func (v *VectorLWE) MulConstantWithPaddingInplace(constants []float64, maxConstant float64, nbBitPadding int) error {
	if err := v.checkNb(len(constants)); err != nil {
		return err
	}
	for i, c := range constants {
		l := v.view(i)
		if err := l.MulConstantWithPaddingInplace(c, maxConstant, nbBitPadding); err != nil {
			return err
		}
		v.store(i, l)
	}
	return nil
}

// MulConstantWithPadding is the value form of
// MulConstantWithPaddingInplace.
func (v *VectorLWE) MulConstantWithPadding(constants []float64, maxConstant float64, nbBitPadding int) (*VectorLWE, error) {
	out := v.Copy()
	if err := out.MulConstantWithPaddingInplace(constants, maxConstant, nbBitPadding); err != nil {
		return nil, err
	}
	return out, nil
}

// OppositeNthInplace negates slot n.
func (v *VectorLWE) OppositeNthInplace(n int) error {
	if err := v.checkIndex(n); err != nil {
		return err
	}
	l := v.view(n)
	if err := l.OppositeInplace(); err != nil {
		return err
	}
	v.store(n, l)
	return nil
}

// OppositeNth is the value form of OppositeNthInplace.
func (v *VectorLWE) OppositeNth(n int) (*VectorLWE, error) {
	out := v.Copy()
	if err := out.OppositeNthInplace(n); err != nil {
		return nil, err
	}
	return out, nil
}

// ========== Folds ==========

func (v *VectorLWE) checkFold() error {
	first := &v.encoders[0]
	if !first.IsValid() {
		return fmt.Errorf("%w: sum", ErrInvalidEncoder)
	}
	for i := 1; i < v.nbCiphertexts; i++ {
		e := &v.encoders[i]
		if !e.IsValid() {
			return fmt.Errorf("%w: sum", ErrInvalidEncoder)
		}
		if e.delta != first.delta {
			return fmt.Errorf("%w: %g vs %g", ErrDelta, e.delta, first.delta)
		}
		if e.nbBitPadding != first.nbBitPadding {
			return fmt.Errorf("%w: %d vs %d", ErrPadding, e.nbBitPadding, first.nbBitPadding)
		}
	}
	return nil
}

// SumWithPadding folds every slot into one ciphertext, consuming
// ceil(log2(nb)) bits of padding to hold the widened interval.
func (v *VectorLWE) SumWithPadding() (*VectorLWE, error) {
	if err := v.checkFold(); err != nil {
		return nil, err
	}
	consumed := int(math.Ceil(math.Log2(float64(v.nbCiphertexts))))
	if v.encoders[0].nbBitPadding < consumed {
		return nil, fmt.Errorf("%w: need %d, have %d",
			ErrNotEnoughPadding, consumed, v.encoders[0].nbBitPadding)
	}
	out, _ := NewVectorLWEZero(v.dimension, 1)
	words := out.ct(0)
	enc := v.encoders[0]
	enc.o = 0
	var variance float64
	var minPrecision = v.encoders[0].nbBitPrecision
	for i := 0; i < v.nbCiphertexts; i++ {
		for j, w := range v.ct(i) {
			words[j] += w
		}
		enc.o += v.encoders[i].o
		variance += v.variances[i]
		if v.encoders[i].nbBitPrecision < minPrecision {
			minPrecision = v.encoders[i].nbBitPrecision
		}
	}
	enc.delta *= math.Exp2(float64(consumed))
	enc.nbBitPadding -= consumed
	enc.nbBitPrecision = minPrecision
	out.encoders[0] = enc
	out.variances[0] = variance
	return out, nil
}

// SumWithNewMin folds every slot into one ciphertext whose interval is
// re-anchored on newMin, without consuming padding.
func (v *VectorLWE) SumWithNewMin(newMin float64) (*VectorLWE, error) {
	if err := v.checkFold(); err != nil {
		return nil, err
	}
	if v.encoders[0].nbBitPadding < 1 {
		return nil, fmt.Errorf("%w: sum with new min", ErrNotEnoughPadding)
	}
	out, _ := NewVectorLWEZero(v.dimension, 1)
	words := out.ct(0)
	enc := v.encoders[0]
	sumO := 0.0
	var variance float64
	var minPrecision = v.encoders[0].nbBitPrecision
	for i := 0; i < v.nbCiphertexts; i++ {
		for j, w := range v.ct(i) {
			words[j] += w
		}
		sumO += v.encoders[i].o
		variance += v.variances[i]
		if v.encoders[i].nbBitPrecision < minPrecision {
			minPrecision = v.encoders[i].nbBitPrecision
		}
	}
	words[v.dimension] += enc.encodeShift(sumO - newMin)
	enc.o = newMin
	enc.nbBitPrecision = minPrecision
	out.encoders[0] = enc
	out.variances[0] = variance
	return out, nil
}

// ========== Key switching and bootstrapping ==========

// Keyswitch switches every slot to the output key of ksk.
func (v *VectorLWE) Keyswitch(ksk *LWEKSK) (*VectorLWE, error) {
	if ksk.DimensionBefore() != v.dimension {
		return nil, fmt.Errorf("%w: ksk input %d vs ciphertext %d",
			ErrDimension, ksk.DimensionBefore(), v.dimension)
	}
	out, err := NewVectorLWEZero(ksk.DimensionAfter(), v.nbCiphertexts)
	if err != nil {
		return nil, err
	}
	for i := 0; i < v.nbCiphertexts; i++ {
		copy(out.ct(i), ksk.ksk.Apply(v.ct(i)))
		out.variances[i] = v.variances[i] + ksk.ksk.VarianceAdded()
		out.encoders[i] = v.encoders[i]
	}
	return out, nil
}

// BootstrapNth refreshes slot n through the identity lookup table,
// returning a one-slot vector.
func (v *VectorLWE) BootstrapNth(bsk *LWEBSK, n int) (*VectorLWE, error) {
	if err := v.checkIndex(n); err != nil {
		return nil, err
	}
	enc := v.encoders[n]
	return v.BootstrapNthWithFunction(bsk, func(x float64) float64 { return x }, &enc, n)
}

// BootstrapNthWithFunction evaluates f on slot n through a functional
// bootstrap, returning a one-slot vector under encoderOutput.
func (v *VectorLWE) BootstrapNthWithFunction(bsk *LWEBSK, f func(float64) float64, encoderOutput *Encoder, n int) (*VectorLWE, error) {
	if err := v.checkIndex(n); err != nil {
		return nil, err
	}
	l, err := v.view(n).BootstrapWithFunction(bsk, f, encoderOutput)
	if err != nil {
		return nil, err
	}
	return vectorFromLWE(l), nil
}

// MulFromBootstrapNth multiplies slot nSelf with slot nCt of ct through
// two functional bootstraps, returning a one-slot vector.
func (v *VectorLWE) MulFromBootstrapNth(ct *VectorLWE, bsk *LWEBSK, nSelf, nCt int) (*VectorLWE, error) {
	if err := v.checkIndex(nSelf); err != nil {
		return nil, err
	}
	if err := ct.checkIndex(nCt); err != nil {
		return nil, err
	}
	l, err := v.view(nSelf).MulFromBootstrap(ct.view(nCt), bsk)
	if err != nil {
		return nil, err
	}
	return vectorFromLWE(l), nil
}

func vectorFromLWE(l *LWE) *VectorLWE {
	out, _ := NewVectorLWEZero(l.dimension, 1)
	copy(out.ct(0), l.ciphertext)
	out.variances[0] = l.variance
	out.encoders[0] = l.encoder
	return out
}
