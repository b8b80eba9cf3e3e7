// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"fmt"
	"strings"
)

// Plaintext is a list of torus values, each paired with the Encoder that
// produced it. It is the unencrypted counterpart of a ciphertext vector.
type Plaintext struct {
	encoders   []Encoder
	plaintexts []Torus
}

func newPlaintext(nb int) *Plaintext {
	return &Plaintext{
		encoders:   make([]Encoder, nb),
		plaintexts: make([]Torus, nb),
	}
}

// NewPlaintextZero builds a Plaintext of nb zero torus values with
// invalid (zero) encoders.
func NewPlaintextZero(nb int) (*Plaintext, error) {
	if nb <= 0 {
		return nil, fmt.Errorf("%w: plaintext", ErrZeroCiphertextsInStructure)
	}
	return newPlaintext(nb), nil
}

// NewPlaintext encodes messages with a single encoder shared by every
// slot.
func NewPlaintext(messages []float64, encoder *Encoder) (*Plaintext, error) {
	return encoder.Encode(messages)
}

// NbPlaintexts returns the number of slots.
func (p *Plaintext) NbPlaintexts() int { return len(p.plaintexts) }

// Plaintexts returns a copy of the raw torus values.
func (p *Plaintext) Plaintexts() []Torus {
	out := make([]Torus, len(p.plaintexts))
	copy(out, p.plaintexts)
	return out
}

// NthEncoder returns a copy of the encoder of the nth slot.
func (p *Plaintext) NthEncoder(nth int) (Encoder, error) {
	if nth < 0 || nth >= len(p.encoders) {
		return Encoder{}, fmt.Errorf("%w: encoder %d of %d", ErrIndex, nth, len(p.encoders))
	}
	return p.encoders[nth], nil
}

// SetNthEncoder overrides the encoder of the nth slot.
func (p *Plaintext) SetNthEncoder(nth int, encoder *Encoder) error {
	if nth < 0 || nth >= len(p.encoders) {
		return fmt.Errorf("%w: encoder %d of %d", ErrIndex, nth, len(p.encoders))
	}
	p.encoders[nth] = *encoder
	return nil
}

// SetEncoders assigns one encoder per slot, copying each value.
func (p *Plaintext) SetEncoders(encoders []Encoder) error {
	if len(encoders) != len(p.encoders) {
		return fmt.Errorf("%w: %d encoders for %d slots", ErrWrongSize, len(encoders), len(p.encoders))
	}
	copy(p.encoders, encoders)
	return nil
}

// SetEncodersFromOne assigns the same encoder to every slot.
func (p *Plaintext) SetEncodersFromOne(encoder *Encoder) {
	for i := range p.encoders {
		p.encoders[i] = *encoder
	}
}

// EncodeInplace re-encodes messages into the existing slots, one message
// per slot. The slot encoders must already be set and valid.
func (p *Plaintext) EncodeInplace(messages []float64) error {
	if len(messages) != len(p.plaintexts) {
		return fmt.Errorf("%w: %d messages for %d slots", ErrWrongSize, len(messages), len(p.plaintexts))
	}
	for i, m := range messages {
		t, err := p.encoders[i].EncodeCore(m)
		if err != nil {
			return err
		}
		p.plaintexts[i] = t
	}
	return nil
}

// DecodeNth decodes a single slot.
func (p *Plaintext) DecodeNth(nth int) (float64, error) {
	if nth < 0 || nth >= len(p.plaintexts) {
		return 0, fmt.Errorf("%w: plaintext %d of %d", ErrIndex, nth, len(p.plaintexts))
	}
	return p.encoders[nth].DecodeCore(p.plaintexts[nth])
}

// Decode decodes every slot.
func (p *Plaintext) Decode() ([]float64, error) {
	out := make([]float64, len(p.plaintexts))
	for i := range p.plaintexts {
		m, err := p.encoders[i].DecodeCore(p.plaintexts[i])
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

// String implements fmt.Stringer.
func (p *Plaintext) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plaintext(%d)[", len(p.plaintexts))
	for i, t := range p.plaintexts {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%#x", t)
	}
	b.WriteString("]")
	return b.String()
}
