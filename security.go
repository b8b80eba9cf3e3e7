// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

// SecurityLevel tags a published parameter set with the bit-security it was
// derived for. The catalog below only names the constant tables; it performs
// no parameter derivation of its own.
type SecurityLevel int

const (
	// Security80 marks 80-bit classical security parameter sets.
	Security80 SecurityLevel = 80
	// Security128 marks 128-bit classical security parameter sets.
	Security128 SecurityLevel = 128
)

// NamedLWEParams pairs a published LWE parameter set with its name and
// security level, for lookup by configuration strings.
type NamedLWEParams struct {
	Name     string
	Security SecurityLevel
	Params   *LWEParams
}

// NamedRLWEParams pairs a published RLWE parameter set with its name and
// security level.
type NamedRLWEParams struct {
	Name     string
	Security SecurityLevel
	Params   *RLWEParams
}

var lweCatalog = []NamedLWEParams{
	{"LWE128_256", Security128, &LWE128_256},
	{"LWE128_512", Security128, &LWE128_512},
	{"LWE128_630", Security128, &LWE128_630},
	{"LWE128_650", Security128, &LWE128_650},
	{"LWE128_688", Security128, &LWE128_688},
	{"LWE128_710", Security128, &LWE128_710},
	{"LWE128_750", Security128, &LWE128_750},
	{"LWE128_800", Security128, &LWE128_800},
	{"LWE128_830", Security128, &LWE128_830},
	{"LWE128_1024", Security128, &LWE128_1024},
	{"LWE128_2048", Security128, &LWE128_2048},
	{"LWE128_4096", Security128, &LWE128_4096},
	{"LWE80_256", Security80, &LWE80_256},
	{"LWE80_512", Security80, &LWE80_512},
	{"LWE80_630", Security80, &LWE80_630},
	{"LWE80_650", Security80, &LWE80_650},
	{"LWE80_688", Security80, &LWE80_688},
	{"LWE80_710", Security80, &LWE80_710},
	{"LWE80_750", Security80, &LWE80_750},
	{"LWE80_800", Security80, &LWE80_800},
	{"LWE80_830", Security80, &LWE80_830},
	{"LWE80_1024", Security80, &LWE80_1024},
	{"LWE80_2048", Security80, &LWE80_2048},
}

var rlweCatalog = []NamedRLWEParams{
	{"RLWE128_256_1", Security128, &RLWE128_256_1},
	{"RLWE128_512_1", Security128, &RLWE128_512_1},
	{"RLWE128_1024_1", Security128, &RLWE128_1024_1},
	{"RLWE128_2048_1", Security128, &RLWE128_2048_1},
	{"RLWE128_4096_1", Security128, &RLWE128_4096_1},
	{"RLWE128_256_2", Security128, &RLWE128_256_2},
	{"RLWE128_512_2", Security128, &RLWE128_512_2},
	{"RLWE128_256_4", Security128, &RLWE128_256_4},
	{"RLWE80_256_1", Security80, &RLWE80_256_1},
	{"RLWE80_512_1", Security80, &RLWE80_512_1},
	{"RLWE80_1024_1", Security80, &RLWE80_1024_1},
	{"RLWE80_2048_1", Security80, &RLWE80_2048_1},
	{"RLWE80_256_2", Security80, &RLWE80_256_2},
	{"RLWE80_512_2", Security80, &RLWE80_512_2},
	{"RLWE80_256_4", Security80, &RLWE80_256_4},
}

// AllLWEParams returns every published LWE parameter set with its name and
// security level.
func AllLWEParams() []NamedLWEParams {
	out := make([]NamedLWEParams, len(lweCatalog))
	copy(out, lweCatalog)
	return out
}

// AllRLWEParams returns every published RLWE parameter set.
func AllRLWEParams() []NamedRLWEParams {
	out := make([]NamedRLWEParams, len(rlweCatalog))
	copy(out, rlweCatalog)
	return out
}

// LWEParamsByName looks up a published LWE parameter set by its catalog name.
func LWEParamsByName(name string) (NamedLWEParams, bool) {
	for _, p := range lweCatalog {
		if p.Name == name {
			return p, true
		}
	}
	return NamedLWEParams{}, false
}

// RLWEParamsByName looks up a published RLWE parameter set by name.
func RLWEParamsByName(name string) (NamedRLWEParams, bool) {
	for _, p := range rlweCatalog {
		if p.Name == name {
			return p, true
		}
	}
	return NamedRLWEParams{}, false
}
