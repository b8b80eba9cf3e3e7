// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"bytes"
	"encoding"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/concrete-go/concrete/internal/lattice"
)

// Every public entity marshals to a self-contained binary blob and back
// with an exact round trip. Save and the Load functions pair the blobs
// with files.

func saveEntity(path string, m encoding.BinaryMarshaler) error {
	data, err := m.MarshalBinary()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func loadEntity(path string, u encoding.BinaryUnmarshaler) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return u.UnmarshalBinary(data)
}

func gobMarshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gobUnmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// ========== Encoder Serialization ==========

type encoderData struct {
	O         float64
	Delta     float64
	Precision int
	Padding   int
	Round     bool
}

func (e *Encoder) toData() encoderData {
	return encoderData{
		O:         e.o,
		Delta:     e.delta,
		Precision: e.nbBitPrecision,
		Padding:   e.nbBitPadding,
		Round:     e.round,
	}
}

func encoderFromData(d encoderData) Encoder {
	return Encoder{
		o:              d.O,
		delta:          d.Delta,
		nbBitPrecision: d.Precision,
		nbBitPadding:   d.Padding,
		round:          d.Round,
	}
}

func encodersToData(encoders []Encoder) []encoderData {
	out := make([]encoderData, len(encoders))
	for i := range encoders {
		out[i] = encoders[i].toData()
	}
	return out
}

func encodersFromData(data []encoderData) []Encoder {
	out := make([]Encoder, len(data))
	for i := range data {
		out[i] = encoderFromData(data[i])
	}
	return out
}

// MarshalBinary serializes the encoder to binary format
func (e *Encoder) MarshalBinary() ([]byte, error) {
	return gobMarshal(e.toData())
}

// UnmarshalBinary deserializes the encoder from binary format
func (e *Encoder) UnmarshalBinary(data []byte) error {
	var d encoderData
	if err := gobUnmarshal(data, &d); err != nil {
		return fmt.Errorf("deserialize encoder: %w", err)
	}
	*e = encoderFromData(d)
	return nil
}

// Save writes the encoder to a file.
func (e *Encoder) Save(path string) error { return saveEntity(path, e) }

// LoadEncoder reads an encoder back from a file.
func LoadEncoder(path string) (*Encoder, error) {
	e := new(Encoder)
	if err := loadEntity(path, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ========== Plaintext Serialization ==========

type plaintextData struct {
	Encoders   []encoderData
	Plaintexts []Torus
}

// MarshalBinary serializes the plaintext to binary format
func (p *Plaintext) MarshalBinary() ([]byte, error) {
	return gobMarshal(plaintextData{
		Encoders:   encodersToData(p.encoders),
		Plaintexts: p.plaintexts,
	})
}

// UnmarshalBinary deserializes the plaintext from binary format
func (p *Plaintext) UnmarshalBinary(data []byte) error {
	var d plaintextData
	if err := gobUnmarshal(data, &d); err != nil {
		return fmt.Errorf("deserialize plaintext: %w", err)
	}
	if len(d.Encoders) != len(d.Plaintexts) {
		return fmt.Errorf("%w: %d encoders for %d plaintexts",
			ErrWrongSize, len(d.Encoders), len(d.Plaintexts))
	}
	p.encoders = encodersFromData(d.Encoders)
	p.plaintexts = d.Plaintexts
	return nil
}

// Save writes the plaintext to a file.
func (p *Plaintext) Save(path string) error { return saveEntity(path, p) }

// LoadPlaintext reads a plaintext back from a file.
func LoadPlaintext(path string) (*Plaintext, error) {
	p := new(Plaintext)
	if err := loadEntity(path, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ========== Parameter Serialization ==========

// The params types implement encoding.BinaryMarshaler themselves, so
// they must go through mirror structs: encoding them directly would make
// gob call MarshalBinary back recursively.

type lweParamsData struct {
	Dimension  int
	Log2StdDev int
}

type rlweParamsData struct {
	PolynomialSize int
	Dimension      int
	Log2StdDev     int
}

// MarshalBinary serializes the parameters to binary format
func (p *LWEParams) MarshalBinary() ([]byte, error) {
	return gobMarshal(lweParamsData{
		Dimension:  p.Dimension,
		Log2StdDev: p.Log2StdDev,
	})
}

// UnmarshalBinary deserializes the parameters from binary format
func (p *LWEParams) UnmarshalBinary(data []byte) error {
	var d lweParamsData
	if err := gobUnmarshal(data, &d); err != nil {
		return fmt.Errorf("deserialize lwe params: %w", err)
	}
	p.Dimension = d.Dimension
	p.Log2StdDev = d.Log2StdDev
	return nil
}

// Save writes the parameters to a file.
func (p *LWEParams) Save(path string) error { return saveEntity(path, p) }

// LoadLWEParams reads LWE parameters back from a file.
func LoadLWEParams(path string) (*LWEParams, error) {
	p := new(LWEParams)
	if err := loadEntity(path, p); err != nil {
		return nil, err
	}
	return p, nil
}

// MarshalBinary serializes the parameters to binary format
func (p *RLWEParams) MarshalBinary() ([]byte, error) {
	return gobMarshal(rlweParamsData{
		PolynomialSize: p.PolynomialSize,
		Dimension:      p.Dimension,
		Log2StdDev:     p.Log2StdDev,
	})
}

// UnmarshalBinary deserializes the parameters from binary format
func (p *RLWEParams) UnmarshalBinary(data []byte) error {
	var d rlweParamsData
	if err := gobUnmarshal(data, &d); err != nil {
		return fmt.Errorf("deserialize rlwe params: %w", err)
	}
	p.PolynomialSize = d.PolynomialSize
	p.Dimension = d.Dimension
	p.Log2StdDev = d.Log2StdDev
	return nil
}

// Save writes the parameters to a file.
func (p *RLWEParams) Save(path string) error { return saveEntity(path, p) }

// LoadRLWEParams reads RLWE parameters back from a file.
func LoadRLWEParams(path string) (*RLWEParams, error) {
	p := new(RLWEParams)
	if err := loadEntity(path, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ========== Secret Key Serialization ==========

type lweSecretKeyData struct {
	Dimension int
	StdDev    float64
	Bits      []Torus
}

// MarshalBinary serializes the secret key to binary format
func (sk *LWESecretKey) MarshalBinary() ([]byte, error) {
	return gobMarshal(lweSecretKeyData{
		Dimension: sk.dimension,
		StdDev:    sk.stdDev,
		Bits:      sk.key.Bits,
	})
}

// UnmarshalBinary deserializes the secret key from binary format
func (sk *LWESecretKey) UnmarshalBinary(data []byte) error {
	var d lweSecretKeyData
	if err := gobUnmarshal(data, &d); err != nil {
		return fmt.Errorf("deserialize lwe secret key: %w", err)
	}
	if len(d.Bits) != d.Dimension {
		return fmt.Errorf("%w: %d key bits for dimension %d",
			ErrWrongSize, len(d.Bits), d.Dimension)
	}
	sk.dimension = d.Dimension
	sk.stdDev = d.StdDev
	sk.key = &lattice.LWESecretKey{Bits: d.Bits}
	return nil
}

// Save writes the secret key to a file.
func (sk *LWESecretKey) Save(path string) error { return saveEntity(path, sk) }

// LoadLWESecretKey reads an LWE secret key back from a file.
func LoadLWESecretKey(path string) (*LWESecretKey, error) {
	sk := new(LWESecretKey)
	if err := loadEntity(path, sk); err != nil {
		return nil, err
	}
	return sk, nil
}

type rlweSecretKeyData struct {
	PolynomialSize int
	Dimension      int
	StdDev         float64
	Polys          []Torus
}

// MarshalBinary serializes the secret key to binary format
func (sk *RLWESecretKey) MarshalBinary() ([]byte, error) {
	return gobMarshal(rlweSecretKeyData{
		PolynomialSize: sk.polynomialSize,
		Dimension:      sk.dimension,
		StdDev:         sk.stdDev,
		Polys:          sk.key.Polys,
	})
}

// UnmarshalBinary deserializes the secret key from binary format
func (sk *RLWESecretKey) UnmarshalBinary(data []byte) error {
	var d rlweSecretKeyData
	if err := gobUnmarshal(data, &d); err != nil {
		return fmt.Errorf("deserialize rlwe secret key: %w", err)
	}
	if len(d.Polys) != d.PolynomialSize*d.Dimension {
		return fmt.Errorf("%w: %d key coefficients for shape (%d, %d)",
			ErrWrongSize, len(d.Polys), d.PolynomialSize, d.Dimension)
	}
	sk.polynomialSize = d.PolynomialSize
	sk.dimension = d.Dimension
	sk.stdDev = d.StdDev
	sk.key = &lattice.RLWESecretKey{
		PolynomialSize: d.PolynomialSize,
		Dimension:      d.Dimension,
		Polys:          d.Polys,
	}
	return nil
}

// Save writes the secret key to a file.
func (sk *RLWESecretKey) Save(path string) error { return saveEntity(path, sk) }

// LoadRLWESecretKey reads an RLWE secret key back from a file.
func LoadRLWESecretKey(path string) (*RLWESecretKey, error) {
	sk := new(RLWESecretKey)
	if err := loadEntity(path, sk); err != nil {
		return nil, err
	}
	return sk, nil
}

// ========== Key-Switching Key Serialization ==========

type kskData struct {
	DimensionBefore int
	DimensionAfter  int
	BaseLog         int
	Level           int
	Variance        float64
	Data            []Torus
}

// MarshalBinary serializes the key-switching key to binary format
func (k *LWEKSK) MarshalBinary() ([]byte, error) {
	return gobMarshal(kskData{
		DimensionBefore: k.ksk.DimensionBefore,
		DimensionAfter:  k.ksk.DimensionAfter,
		BaseLog:         k.ksk.BaseLog,
		Level:           k.ksk.Level,
		Variance:        k.ksk.Variance,
		Data:            k.ksk.Data,
	})
}

// UnmarshalBinary deserializes the key-switching key from binary format
func (k *LWEKSK) UnmarshalBinary(data []byte) error {
	var d kskData
	if err := gobUnmarshal(data, &d); err != nil {
		return fmt.Errorf("deserialize ksk: %w", err)
	}
	if len(d.Data) != d.DimensionBefore*d.Level*(d.DimensionAfter+1) {
		return fmt.Errorf("%w: ksk payload has %d words", ErrWrongSize, len(d.Data))
	}
	k.ksk = &lattice.KSK{
		DimensionBefore: d.DimensionBefore,
		DimensionAfter:  d.DimensionAfter,
		BaseLog:         d.BaseLog,
		Level:           d.Level,
		Variance:        d.Variance,
		Data:            d.Data,
	}
	return nil
}

// Save writes the key-switching key to a file.
func (k *LWEKSK) Save(path string) error { return saveEntity(path, k) }

// LoadLWEKSK reads a key-switching key back from a file.
func LoadLWEKSK(path string) (*LWEKSK, error) {
	k := new(LWEKSK)
	if err := loadEntity(path, k); err != nil {
		return nil, err
	}
	return k, nil
}

// ========== Bootstrapping Key Serialization ==========

type bskData struct {
	InputDimension int
	PolynomialSize int
	Dimension      int
	BaseLog        int
	Level          int
	Variance       float64
	Data           []Torus
}

// MarshalBinary serializes the bootstrapping key to binary format
func (b *LWEBSK) MarshalBinary() ([]byte, error) {
	return gobMarshal(bskData{
		InputDimension: b.bsk.InputDimension,
		PolynomialSize: b.bsk.PolynomialSize,
		Dimension:      b.bsk.Dimension,
		BaseLog:        b.bsk.BaseLog,
		Level:          b.bsk.Level,
		Variance:       b.bsk.Variance,
		Data:           b.bsk.Data,
	})
}

// UnmarshalBinary deserializes the bootstrapping key from binary format
func (b *LWEBSK) UnmarshalBinary(data []byte) error {
	var d bskData
	if err := gobUnmarshal(data, &d); err != nil {
		return fmt.Errorf("deserialize bsk: %w", err)
	}
	want := d.InputDimension * (d.Dimension + 1) * d.Level * (d.Dimension + 1) * d.PolynomialSize
	if len(d.Data) != want {
		return fmt.Errorf("%w: bsk payload has %d words, want %d", ErrWrongSize, len(d.Data), want)
	}
	b.bsk = &lattice.BSK{
		InputDimension: d.InputDimension,
		PolynomialSize: d.PolynomialSize,
		Dimension:      d.Dimension,
		BaseLog:        d.BaseLog,
		Level:          d.Level,
		Variance:       d.Variance,
		Data:           d.Data,
	}
	return nil
}

// Save writes the bootstrapping key to a file.
func (b *LWEBSK) Save(path string) error { return saveEntity(path, b) }

// LoadLWEBSK reads a bootstrapping key back from a file.
func LoadLWEBSK(path string) (*LWEBSK, error) {
	b := new(LWEBSK)
	if err := loadEntity(path, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ========== Ciphertext Serialization ==========

type lweData struct {
	Ciphertext []Torus
	Variance   float64
	Dimension  int
	Encoder    encoderData
}

// MarshalBinary serializes the ciphertext to binary format
func (l *LWE) MarshalBinary() ([]byte, error) {
	return gobMarshal(lweData{
		Ciphertext: l.ciphertext,
		Variance:   l.variance,
		Dimension:  l.dimension,
		Encoder:    l.encoder.toData(),
	})
}

// UnmarshalBinary deserializes the ciphertext from binary format
func (l *LWE) UnmarshalBinary(data []byte) error {
	var d lweData
	if err := gobUnmarshal(data, &d); err != nil {
		return fmt.Errorf("deserialize lwe: %w", err)
	}
	if len(d.Ciphertext) != d.Dimension+1 {
		return fmt.Errorf("%w: %d words for dimension %d",
			ErrWrongSize, len(d.Ciphertext), d.Dimension)
	}
	l.ciphertext = d.Ciphertext
	l.variance = d.Variance
	l.dimension = d.Dimension
	l.encoder = encoderFromData(d.Encoder)
	return nil
}

// Save writes the ciphertext to a file.
func (l *LWE) Save(path string) error { return saveEntity(path, l) }

// LoadLWE reads an LWE ciphertext back from a file.
func LoadLWE(path string) (*LWE, error) {
	l := new(LWE)
	if err := loadEntity(path, l); err != nil {
		return nil, err
	}
	return l, nil
}

type vectorLWEData struct {
	Ciphertexts   []Torus
	Variances     []float64
	Encoders      []encoderData
	Dimension     int
	NbCiphertexts int
}

// MarshalBinary serializes the ciphertext vector to binary format
func (v *VectorLWE) MarshalBinary() ([]byte, error) {
	return gobMarshal(vectorLWEData{
		Ciphertexts:   v.ciphertexts,
		Variances:     v.variances,
		Encoders:      encodersToData(v.encoders),
		Dimension:     v.dimension,
		NbCiphertexts: v.nbCiphertexts,
	})
}

// UnmarshalBinary deserializes the ciphertext vector from binary format
func (v *VectorLWE) UnmarshalBinary(data []byte) error {
	var d vectorLWEData
	if err := gobUnmarshal(data, &d); err != nil {
		return fmt.Errorf("deserialize vector lwe: %w", err)
	}
	if len(d.Ciphertexts) != d.NbCiphertexts*(d.Dimension+1) ||
		len(d.Variances) != d.NbCiphertexts ||
		len(d.Encoders) != d.NbCiphertexts {
		return fmt.Errorf("%w: vector lwe payload", ErrWrongSize)
	}
	v.ciphertexts = d.Ciphertexts
	v.variances = d.Variances
	v.encoders = encodersFromData(d.Encoders)
	v.dimension = d.Dimension
	v.nbCiphertexts = d.NbCiphertexts
	return nil
}

// Save writes the ciphertext vector to a file.
func (v *VectorLWE) Save(path string) error { return saveEntity(path, v) }

// LoadVectorLWE reads a VectorLWE back from a file.
func LoadVectorLWE(path string) (*VectorLWE, error) {
	v := new(VectorLWE)
	if err := loadEntity(path, v); err != nil {
		return nil, err
	}
	return v, nil
}

type vectorRLWEData struct {
	Ciphertexts    []Torus
	Variances      []float64
	Encoders       []encoderData
	PolynomialSize int
	Dimension      int
	NbCiphertexts  int
}

// MarshalBinary serializes the ciphertext vector to binary format
func (v *VectorRLWE) MarshalBinary() ([]byte, error) {
	return gobMarshal(vectorRLWEData{
		Ciphertexts:    v.ciphertexts,
		Variances:      v.variances,
		Encoders:       encodersToData(v.encoders),
		PolynomialSize: v.polynomialSize,
		Dimension:      v.dimension,
		NbCiphertexts:  v.nbCiphertexts,
	})
}

// UnmarshalBinary deserializes the ciphertext vector from binary format
func (v *VectorRLWE) UnmarshalBinary(data []byte) error {
	var d vectorRLWEData
	if err := gobUnmarshal(data, &d); err != nil {
		return fmt.Errorf("deserialize vector rlwe: %w", err)
	}
	if len(d.Ciphertexts) != d.NbCiphertexts*(d.Dimension+1)*d.PolynomialSize ||
		len(d.Variances) != d.NbCiphertexts ||
		len(d.Encoders) != d.NbCiphertexts*d.PolynomialSize {
		return fmt.Errorf("%w: vector rlwe payload", ErrWrongSize)
	}
	v.ciphertexts = d.Ciphertexts
	v.variances = d.Variances
	v.encoders = encodersFromData(d.Encoders)
	v.polynomialSize = d.PolynomialSize
	v.dimension = d.Dimension
	v.nbCiphertexts = d.NbCiphertexts
	return nil
}

// Save writes the ciphertext vector to a file.
func (v *VectorRLWE) Save(path string) error { return saveEntity(path, v) }

// LoadVectorRLWE reads a VectorRLWE back from a file.
func LoadVectorRLWE(path string) (*VectorRLWE, error) {
	v := new(VectorRLWE)
	if err := loadEntity(path, v); err != nil {
		return nil, err
	}
	return v, nil
}
