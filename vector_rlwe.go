// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"fmt"
	"strings"

	"github.com/concrete-go/concrete/internal/lattice"
)

// VectorRLWE is a list of RLWE ciphertexts sharing one polynomial size
// and mask dimension. Each polynomial coefficient is a slot with its
// own Encoder; slots whose encoder is invalid are padding and carry no
// message. Noise variances are tracked per ciphertext.
type VectorRLWE struct {
	ciphertexts    []Torus   // nb * (dimension+1) * polynomialSize
	variances      []float64 // per ciphertext
	encoders       []Encoder // nb * polynomialSize, one per slot
	polynomialSize int
	dimension      int
	nbCiphertexts  int
}

// ========== Constructors ==========

// NewVectorRLWEZero builds nbCiphertexts zero RLWE ciphertexts with
// invalid encoders in every slot.
func NewVectorRLWEZero(polynomialSize, dimension, nbCiphertexts int) (*VectorRLWE, error) {
	if polynomialSize <= 0 || polynomialSize&(polynomialSize-1) != 0 {
		return nil, fmt.Errorf("%w: polynomial size %d", ErrNotPowerOfTwo, polynomialSize)
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: rlwe dimension %d", ErrDimension, dimension)
	}
	if nbCiphertexts == 0 {
		return nil, fmt.Errorf("%w: vector rlwe", ErrZeroCiphertextsInStructure)
	}
	return &VectorRLWE{
		ciphertexts:    make([]Torus, nbCiphertexts*(dimension+1)*polynomialSize),
		variances:      make([]float64, nbCiphertexts),
		encoders:       make([]Encoder, nbCiphertexts*polynomialSize),
		polynomialSize: polynomialSize,
		dimension:      dimension,
		nbCiphertexts:  nbCiphertexts,
	}, nil
}

// EncryptPackedVectorRLWE packs the Plaintext slots into polynomial
// coefficients, polynomialSize values per ciphertext, and encrypts them
// under sk. Leftover coefficients are zero-padded with invalid
// encoders.
func EncryptPackedVectorRLWE(sk *RLWESecretKey, plaintexts *Plaintext) (*VectorRLWE, error) {
	n := sk.polynomialSize
	nb := plaintexts.NbPlaintexts()
	nbCt := (nb + n - 1) / n
	v, err := NewVectorRLWEZero(sk.polynomialSize, sk.dimension, nbCt)
	if err != nil {
		return nil, err
	}
	s, err := lattice.DefaultSampler()
	if err != nil {
		return nil, err
	}
	mu := make([]Torus, n)
	for i := 0; i < nbCt; i++ {
		for j := range mu {
			slot := i*n + j
			if slot < nb {
				mu[j] = plaintexts.plaintexts[slot]
				v.encoders[slot] = plaintexts.encoders[slot]
			} else {
				mu[j] = 0
			}
		}
		lattice.EncryptRLWE(s, sk.key, mu, sk.stdDev, v.ct(i))
		v.variances[i] = sk.Variance()
	}
	return v, nil
}

// EncodeEncryptPackedVectorRLWE encodes the messages with one shared
// encoder and packs them into RLWE ciphertexts under sk.
func EncodeEncryptPackedVectorRLWE(sk *RLWESecretKey, messages []float64, encoder *Encoder) (*VectorRLWE, error) {
	pt, err := encoder.Encode(messages)
	if err != nil {
		return nil, err
	}
	return EncryptPackedVectorRLWE(sk, pt)
}

// EncryptVectorRLWE encrypts each Plaintext slot into the constant
// coefficient of its own RLWE ciphertext under sk.
func EncryptVectorRLWE(sk *RLWESecretKey, plaintexts *Plaintext) (*VectorRLWE, error) {
	n := sk.polynomialSize
	nb := plaintexts.NbPlaintexts()
	v, err := NewVectorRLWEZero(sk.polynomialSize, sk.dimension, nb)
	if err != nil {
		return nil, err
	}
	s, err := lattice.DefaultSampler()
	if err != nil {
		return nil, err
	}
	mu := make([]Torus, n)
	for i := 0; i < nb; i++ {
		mu[0] = plaintexts.plaintexts[i]
		lattice.EncryptRLWE(s, sk.key, mu, sk.stdDev, v.ct(i))
		v.variances[i] = sk.Variance()
		v.encoders[i*n] = plaintexts.encoders[i]
	}
	return v, nil
}

// EncodeEncryptVectorRLWE encodes the messages with one shared encoder
// and encrypts them one per ciphertext under sk.
func EncodeEncryptVectorRLWE(sk *RLWESecretKey, messages []float64, encoder *Encoder) (*VectorRLWE, error) {
	pt, err := encoder.Encode(messages)
	if err != nil {
		return nil, err
	}
	return EncryptVectorRLWE(sk, pt)
}

// EncryptPackedRawVectorRLWE encrypts raw torus values packed into
// polynomial coefficients, leaving every encoder invalid. The number of
// values must be a multiple of the polynomial size.
func EncryptPackedRawVectorRLWE(sk *RLWESecretKey, mus []Torus) (*VectorRLWE, error) {
	n := sk.polynomialSize
	if len(mus) == 0 || len(mus)%n != 0 {
		return nil, fmt.Errorf("%w: %d raw plaintexts for polynomial size %d",
			ErrWrongSize, len(mus), n)
	}
	nbCt := len(mus) / n
	v, err := NewVectorRLWEZero(sk.polynomialSize, sk.dimension, nbCt)
	if err != nil {
		return nil, err
	}
	s, err := lattice.DefaultSampler()
	if err != nil {
		return nil, err
	}
	for i := 0; i < nbCt; i++ {
		lattice.EncryptRLWE(s, sk.key, mus[i*n:(i+1)*n], sk.stdDev, v.ct(i))
		v.variances[i] = sk.Variance()
	}
	return v, nil
}

// ========== Accessors ==========

// PolynomialSize returns the shared polynomial size.
func (v *VectorRLWE) PolynomialSize() int { return v.polynomialSize }

// Dimension returns the shared mask dimension.
func (v *VectorRLWE) Dimension() int { return v.dimension }

// NbCiphertexts returns the number of ciphertexts.
func (v *VectorRLWE) NbCiphertexts() int { return v.nbCiphertexts }

// Variances returns a copy of the tracked per-ciphertext variances.
func (v *VectorRLWE) Variances() []float64 {
	out := make([]float64, len(v.variances))
	copy(out, v.variances)
	return out
}

// Encoders returns a copy of the per-slot encoders.
func (v *VectorRLWE) Encoders() []Encoder {
	out := make([]Encoder, len(v.encoders))
	copy(out, v.encoders)
	return out
}

// NbValid returns how many slots carry a genuine message.
func (v *VectorRLWE) NbValid() int {
	count := 0
	for i := range v.encoders {
		if v.encoders[i].IsValid() {
			count++
		}
	}
	return count
}

// CiphertextSize returns the number of torus words of one ciphertext.
func (v *VectorRLWE) CiphertextSize() int {
	return (v.dimension + 1) * v.polynomialSize
}

// Copy returns a deep copy.
func (v *VectorRLWE) Copy() *VectorRLWE {
	out := &VectorRLWE{
		ciphertexts:    make([]Torus, len(v.ciphertexts)),
		variances:      make([]float64, len(v.variances)),
		encoders:       make([]Encoder, len(v.encoders)),
		polynomialSize: v.polynomialSize,
		dimension:      v.dimension,
		nbCiphertexts:  v.nbCiphertexts,
	}
	copy(out.ciphertexts, v.ciphertexts)
	copy(out.variances, v.variances)
	copy(out.encoders, v.encoders)
	return out
}

// String implements fmt.Stringer.
func (v *VectorRLWE) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "VectorRLWE(N=%d, k=%d, nb=%d, valid=%d)",
		v.polynomialSize, v.dimension, v.nbCiphertexts, v.NbValid())
	return b.String()
}

// ct returns the words of ciphertext i, aliasing the underlying
// storage.
func (v *VectorRLWE) ct(i int) []Torus {
	w := (v.dimension + 1) * v.polynomialSize
	return v.ciphertexts[i*w : (i+1)*w]
}

// bodyPoly returns the body polynomial of ciphertext i.
func (v *VectorRLWE) bodyPoly(i int) []Torus {
	ct := v.ct(i)
	return ct[v.dimension*v.polynomialSize:]
}

func (v *VectorRLWE) checkSameVector(ct *VectorRLWE) error {
	if v.polynomialSize != ct.polynomialSize {
		return fmt.Errorf("%w: %d vs %d", ErrPolynomialSize, v.polynomialSize, ct.polynomialSize)
	}
	if v.dimension != ct.dimension {
		return fmt.Errorf("%w: %d vs %d", ErrDimension, v.dimension, ct.dimension)
	}
	if v.nbCiphertexts != ct.nbCiphertexts {
		return fmt.Errorf("%w: %d vs %d", ErrNbCiphertexts, v.nbCiphertexts, ct.nbCiphertexts)
	}
	return nil
}

func (v *VectorRLWE) checkKey(sk *RLWESecretKey) error {
	if sk.polynomialSize != v.polynomialSize {
		return fmt.Errorf("%w: key %d vs ciphertext %d",
			ErrPolynomialSize, sk.polynomialSize, v.polynomialSize)
	}
	if sk.dimension != v.dimension {
		return fmt.Errorf("%w: key %d vs ciphertext %d", ErrDimension, sk.dimension, v.dimension)
	}
	return nil
}

// ========== Decryption ==========

// DecryptDecode decrypts every ciphertext and decodes the slots that
// carry a message, in slot order.
func (v *VectorRLWE) DecryptDecode(sk *RLWESecretKey) ([]float64, error) {
	values, _, err := v.decryptValid(sk, false)
	return values, err
}

// DecryptDecodeRound is DecryptDecode with grid snapping forced on.
func (v *VectorRLWE) DecryptDecodeRound(sk *RLWESecretKey) ([]float64, error) {
	values, _, err := v.decryptValid(sk, true)
	return values, err
}

// DecryptWithEncoders decrypts the valid slots and also returns a copy
// of their encoders, in the same order.
func (v *VectorRLWE) DecryptWithEncoders(sk *RLWESecretKey) ([]float64, []Encoder, error) {
	return v.decryptValid(sk, false)
}

func (v *VectorRLWE) decryptValid(sk *RLWESecretKey, forceRound bool) ([]float64, []Encoder, error) {
	if err := v.checkKey(sk); err != nil {
		return nil, nil, err
	}
	var values []float64
	var encoders []Encoder
	n := v.polynomialSize
	for i := 0; i < v.nbCiphertexts; i++ {
		phase := lattice.PhaseRLWE(sk.key, v.ct(i))
		for j := 0; j < n; j++ {
			enc := v.encoders[i*n+j]
			if !enc.IsValid() {
				continue
			}
			if forceRound {
				enc.round = true
			}
			m, err := enc.DecodeCore(phase[j])
			if err != nil {
				return nil, nil, err
			}
			values = append(values, m)
			encoders = append(encoders, enc)
		}
	}
	return values, encoders, nil
}

// ========== Extraction ==========

// Extract1Lwe projects coefficient nCoeff of ciphertext nCiphertext
// into a one-slot VectorLWE of dimension Dimension*PolynomialSize,
// decryptable under the flattened RLWE key.
func (v *VectorRLWE) Extract1Lwe(nCoeff, nCiphertext int) (*VectorLWE, error) {
	if nCiphertext < 0 || nCiphertext >= v.nbCiphertexts {
		return nil, fmt.Errorf("%w: ciphertext %d of %d", ErrIndex, nCiphertext, v.nbCiphertexts)
	}
	if nCoeff < 0 || nCoeff >= v.polynomialSize {
		return nil, fmt.Errorf("%w: coefficient %d of %d", ErrIndex, nCoeff, v.polynomialSize)
	}
	words := lattice.SampleExtract(v.ct(nCiphertext), v.polynomialSize, v.dimension, nCoeff)
	out, err := NewVectorLWEZero(v.dimension*v.polynomialSize, 1)
	if err != nil {
		return nil, err
	}
	copy(out.ct(0), words)
	out.variances[0] = v.variances[nCiphertext]
	out.encoders[0] = v.encoders[nCiphertext*v.polynomialSize+nCoeff]
	return out, nil
}

// ========== Constant operations ==========

// validSlots returns the (ciphertext, coefficient) position of every
// valid slot, in slot order.
func (v *VectorRLWE) validSlots() [][2]int {
	var out [][2]int
	n := v.polynomialSize
	for i := 0; i < v.nbCiphertexts; i++ {
		for j := 0; j < n; j++ {
			if v.encoders[i*n+j].IsValid() {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}

// AddConstantStaticEncoderInplace adds message k to the k-th valid
// slot without touching the encoders.
func (v *VectorRLWE) AddConstantStaticEncoderInplace(messages []float64) error {
	slots := v.validSlots()
	if len(messages) > len(slots) {
		return fmt.Errorf("%w: %d messages for %d valid slots",
			ErrNotEnoughValidEncoder, len(messages), len(slots))
	}
	for k, m := range messages {
		i, j := slots[k][0], slots[k][1]
		v.bodyPoly(i)[j] += v.encoders[i*v.polynomialSize+j].encodeShift(m)
	}
	return nil
}

// AddConstantStaticEncoder is the value form of
// AddConstantStaticEncoderInplace.
func (v *VectorRLWE) AddConstantStaticEncoder(messages []float64) (*VectorRLWE, error) {
	out := v.Copy()
	if err := out.AddConstantStaticEncoderInplace(messages); err != nil {
		return nil, err
	}
	return out, nil
}

// AddConstantDynamicEncoderInplace adds message k to the k-th valid
// slot by translating its encoder interval.
func (v *VectorRLWE) AddConstantDynamicEncoderInplace(messages []float64) error {
	slots := v.validSlots()
	if len(messages) > len(slots) {
		return fmt.Errorf("%w: %d messages for %d valid slots",
			ErrNotEnoughValidEncoder, len(messages), len(slots))
	}
	for k, m := range messages {
		i, j := slots[k][0], slots[k][1]
		v.encoders[i*v.polynomialSize+j].o += m
	}
	return nil
}

// AddConstantDynamicEncoder is the value form of
// AddConstantDynamicEncoderInplace.
func (v *VectorRLWE) AddConstantDynamicEncoder(messages []float64) (*VectorRLWE, error) {
	out := v.Copy()
	if err := out.AddConstantDynamicEncoderInplace(messages); err != nil {
		return nil, err
	}
	return out, nil
}

// ========== Ciphertext additions ==========

// checkSlotPair verifies that the two operands agree slot-wise: same
// validity pattern and, on valid slots, same delta and padding with at
// least needPadding bits left.
func (v *VectorRLWE) checkSlotPair(ct *VectorRLWE, needPadding int) error {
	for s := range v.encoders {
		a, b := &v.encoders[s], &ct.encoders[s]
		if a.IsValid() != b.IsValid() {
			return fmt.Errorf("%w: packing mismatch at slot %d", ErrInvalidEncoder, s)
		}
		if !a.IsValid() {
			continue
		}
		if a.delta != b.delta {
			return fmt.Errorf("%w: %g vs %g", ErrDelta, a.delta, b.delta)
		}
		if a.nbBitPadding != b.nbBitPadding {
			return fmt.Errorf("%w: %d vs %d", ErrPadding, a.nbBitPadding, b.nbBitPadding)
		}
		if a.nbBitPadding < needPadding {
			return fmt.Errorf("%w: need %d, have %d", ErrNotEnoughPadding, needPadding, a.nbBitPadding)
		}
	}
	return nil
}

// AddCenteredInplace adds ct slot-wise, centering each valid slot's
// result interval on the sum of the operand centers.
func (v *VectorRLWE) AddCenteredInplace(ct *VectorRLWE) error {
	if err := v.checkSameVector(ct); err != nil {
		return err
	}
	if err := v.checkSlotPair(ct, 1); err != nil {
		return err
	}
	for c := range v.ciphertexts {
		v.ciphertexts[c] += ct.ciphertexts[c]
	}
	n := v.polynomialSize
	for s := range v.encoders {
		a := &v.encoders[s]
		if !a.IsValid() {
			continue
		}
		b := &ct.encoders[s]
		// recenter: new minimum is o1+o2+delta/2
		v.bodyPoly(s/n)[s%n] += a.encodeShift(-a.delta / 2)
		a.o += b.o + a.delta/2
		if b.nbBitPrecision < a.nbBitPrecision {
			a.nbBitPrecision = b.nbBitPrecision
		}
	}
	for i := range v.variances {
		v.variances[i] += ct.variances[i]
	}
	return nil
}

// AddCentered is the value form of AddCenteredInplace.
func (v *VectorRLWE) AddCentered(ct *VectorRLWE) (*VectorRLWE, error) {
	out := v.Copy()
	if err := out.AddCenteredInplace(ct); err != nil {
		return nil, err
	}
	return out, nil
}

// AddWithPaddingInplace adds ct slot-wise, consuming one bit of
// padding per valid slot.
func (v *VectorRLWE) AddWithPaddingInplace(ct *VectorRLWE) error {
	if err := v.checkSameVector(ct); err != nil {
		return err
	}
	if err := v.checkSlotPair(ct, 1); err != nil {
		return err
	}
	for c := range v.ciphertexts {
		v.ciphertexts[c] += ct.ciphertexts[c]
	}
	for s := range v.encoders {
		a := &v.encoders[s]
		if !a.IsValid() {
			continue
		}
		b := &ct.encoders[s]
		a.o += b.o
		a.delta *= 2
		a.nbBitPadding--
		if b.nbBitPrecision < a.nbBitPrecision {
			a.nbBitPrecision = b.nbBitPrecision
		}
	}
	for i := range v.variances {
		v.variances[i] += ct.variances[i]
	}
	return nil
}

// AddWithPadding is the value form of AddWithPaddingInplace.
func (v *VectorRLWE) AddWithPadding(ct *VectorRLWE) (*VectorRLWE, error) {
	out := v.Copy()
	if err := out.AddWithPaddingInplace(ct); err != nil {
		return nil, err
	}
	return out, nil
}

// SubWithPaddingInplace subtracts ct slot-wise, consuming one bit of
// padding per valid slot.
func (v *VectorRLWE) SubWithPaddingInplace(ct *VectorRLWE) error {
	if err := v.checkSameVector(ct); err != nil {
		return err
	}
	if err := v.checkSlotPair(ct, 1); err != nil {
		return err
	}
	for c := range v.ciphertexts {
		v.ciphertexts[c] -= ct.ciphertexts[c]
	}
	n := v.polynomialSize
	for s := range v.encoders {
		a := &v.encoders[s]
		if !a.IsValid() {
			continue
		}
		b := &ct.encoders[s]
		v.bodyPoly(s/n)[s%n] += Torus(1) << uint(TorusBit-a.nbBitPadding)
		a.o -= b.o + a.delta
		a.delta *= 2
		a.nbBitPadding--
		if b.nbBitPrecision < a.nbBitPrecision {
			a.nbBitPrecision = b.nbBitPrecision
		}
	}
	for i := range v.variances {
		v.variances[i] += ct.variances[i]
	}
	return nil
}

// SubWithPadding is the value form of SubWithPaddingInplace.
func (v *VectorRLWE) SubWithPadding(ct *VectorRLWE) (*VectorRLWE, error) {
	out := v.Copy()
	if err := out.SubWithPaddingInplace(ct); err != nil {
		return nil, err
	}
	return out, nil
}

// ========== Constant multiplications ==========

// MulConstantStaticEncoderInplace multiplies ciphertext i by the small
// integer messages[i] without touching the encoders. One constant per
// ciphertext: a packed polynomial can only be scaled as a whole.
func (v *VectorRLWE) MulConstantStaticEncoderInplace(messages []int32) error {
	if len(messages) != v.nbCiphertexts {
		return fmt.Errorf("%w: %d constants for %d ciphertexts",
			ErrNbCiphertexts, len(messages), v.nbCiphertexts)
	}
	n := v.polynomialSize
	for i, m := range messages {
		c := Torus(int64(m))
		words := v.ct(i)
		for w := range words {
			words[w] *= c
		}
		body := v.bodyPoly(i)
		for j := 0; j < n; j++ {
			enc := &v.encoders[i*n+j]
			if !enc.IsValid() {
				continue
			}
			body[j] += enc.encodeShift(float64(m-1) * enc.o)
		}
		v.variances[i] = varianceScalarMul(v.variances[i], int64(m))
	}
	return nil
}

// MulConstantStaticEncoder is the value form of
// MulConstantStaticEncoderInplace.
func (v *VectorRLWE) MulConstantStaticEncoder(messages []int32) (*VectorRLWE, error) {
	out := v.Copy()
	if err := out.MulConstantStaticEncoderInplace(messages); err != nil {
		return nil, err
	}
	return out, nil
}

// MulConstantWithPaddingInplace multiplies ciphertext i by the real
// constant constants[i], consuming nbBitPadding bits of padding. One
// constant per ciphertext; the valid slots of a ciphertext must share
// one encoder so a single scale applies to the whole polynomial.
func (v *VectorRLWE) MulConstantWithPaddingInplace(constants []float64, maxConstant float64, nbBitPadding int) error {
	if len(constants) != v.nbCiphertexts {
		return fmt.Errorf("%w: %d constants for %d ciphertexts",
			ErrNbCiphertexts, len(constants), v.nbCiphertexts)
	}
	n := v.polynomialSize
	for i, constant := range constants {
		var ref *Encoder
		for j := 0; j < n; j++ {
			enc := &v.encoders[i*n+j]
			if !enc.IsValid() {
				continue
			}
			if ref == nil {
				ref = enc
			} else if enc.o != ref.o || enc.delta != ref.delta || enc.nbBitPadding != ref.nbBitPadding {
				return fmt.Errorf("%w: slots of ciphertext %d differ", ErrDelta, i)
			}
		}
		if ref == nil {
			continue
		}
		old := *ref
		scale, newEnc, err := mulPaddingScale(&old, constant, maxConstant, nbBitPadding)
		if err != nil {
			return err
		}

		t0 := old.encodeShift(-old.o)
		body := v.bodyPoly(i)
		for j := 0; j < n; j++ {
			if v.encoders[i*n+j].IsValid() {
				body[j] -= t0
			}
		}
		mult := scale
		if constant < 0 {
			mult = -mult
		}
		words := v.ct(i)
		for w := range words {
			words[w] *= mult
		}
		recenter := Torus(1) << uint(TorusBit-1-newEnc.nbBitPadding)
		for j := 0; j < n; j++ {
			enc := &v.encoders[i*n+j]
			if !enc.IsValid() {
				continue
			}
			body[j] += recenter
			*enc = newEnc
		}
		v.variances[i] = varianceScalarMul(v.variances[i], int64(scale))
	}
	return nil
}

// MulConstantWithPadding is the value form of
// MulConstantWithPaddingInplace.
func (v *VectorRLWE) MulConstantWithPadding(constants []float64, maxConstant float64, nbBitPadding int) (*VectorRLWE, error) {
	out := v.Copy()
	if err := out.MulConstantWithPaddingInplace(constants, maxConstant, nbBitPadding); err != nil {
		return nil, err
	}
	return out, nil
}
