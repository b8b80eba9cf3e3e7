// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package lattice implements the torus-2^64 primitives the scheme layer
// builds on: binary secret keys, (R)LWE encryption, gadget-decomposed
// key switching and RGSW blind rotation. All randomness used during key
// generation and encryption is drawn here; the scheme layer never
// samples on its own.
package lattice

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/luxfi/lattice/v7/utils/sampling"
)

// Torus is a 64-bit discretized torus element.
type Torus = uint64

// TorusBit is the number of bits of a torus element.
const TorusBit = 64

// Sampler draws uniform torus words and discrete gaussian noise from a
// crypto-grade PRNG. It is safe for concurrent use.
type Sampler struct {
	mu   sync.Mutex
	prng sampling.PRNG
	buf  [8]byte
}

// NewSampler builds a sampler seeded from the system entropy source.
func NewSampler() (*Sampler, error) {
	prng, err := sampling.NewPRNG()
	if err != nil {
		return nil, err
	}
	return &Sampler{prng: prng}, nil
}

// NewKeyedSampler builds a deterministic sampler from a key, for
// reproducible key generation in tests.
func NewKeyedSampler(key []byte) (*Sampler, error) {
	prng, err := sampling.NewKeyedPRNG(key)
	if err != nil {
		return nil, err
	}
	return &Sampler{prng: prng}, nil
}

var (
	defaultOnce    sync.Once
	defaultSampler *Sampler
	defaultErr     error
)

// DefaultSampler returns the process-wide sampler, created on first use.
func DefaultSampler() (*Sampler, error) {
	defaultOnce.Do(func() {
		defaultSampler, defaultErr = NewSampler()
	})
	return defaultSampler, defaultErr
}

// Uniform draws one uniform torus word.
func (s *Sampler) Uniform() Torus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uniform()
}

// UniformSlice fills dst with uniform torus words.
func (s *Sampler) UniformSlice(dst []Torus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range dst {
		dst[i] = s.uniform()
	}
}

func (s *Sampler) uniform() Torus {
	_, _ = s.prng.Read(s.buf[:])
	return binary.LittleEndian.Uint64(s.buf[:])
}

// UniformBits fills dst with uniform bits, one per word.
func (s *Sampler) UniformBits(dst []Torus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range dst {
		dst[i] = s.uniform() & 1
	}
}

// GaussianTorus draws a centered gaussian torus element of the given
// standard deviation (expressed as a fraction of the torus).
func (s *Sampler) GaussianTorus(stdDev float64) Torus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gaussianTorus(stdDev)
}

func (s *Sampler) gaussianTorus(stdDev float64) Torus {
	if stdDev <= 0 {
		return 0
	}
	z := s.normal()
	return Torus(int64(math.Round(z * stdDev * 0x1p64)))
}

// normal draws a standard normal via Box-Muller.
func (s *Sampler) normal() float64 {
	u1 := (float64(s.uniform()>>11) + 1) * 0x1p-53
	u2 := float64(s.uniform()>>11) * 0x1p-53
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
