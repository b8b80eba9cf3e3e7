// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build profile

// Command profile runs performance profiling on the ciphertext algebra.
//
// Usage:
//
//	go build -tags profile -o profile ./cmd/profile
//	./profile -cpu=cpu.prof -mem=mem.prof -iterations=100
//
// Analyze profiles:
//
//	go tool pprof -http=:8080 cpu.prof
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/concrete-go/concrete"
)

var (
	cpuProfile = flag.String("cpu", "", "write cpu profile to file")
	memProfile = flag.String("mem", "", "write memory profile to file")
	iterations = flag.Int("iterations", 100, "number of iterations for each operation")
	operation  = flag.String("op", "all", "operation to profile: all, keygen, encrypt, leveled, bootstrap")
	paramsName = flag.String("params", "LWE128_630", "LWE parameter set name")
)

func main() {
	flag.Parse()

	profiler := concrete.NewProfiler(concrete.ProfileConfig{
		CPUProfile: *cpuProfile,
		MemProfile: *memProfile,
	})
	if err := profiler.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start profiler: %v\n", err)
		os.Exit(1)
	}
	defer profiler.Stop()

	fmt.Printf("running %d iterations of '%s' on %s\n", *iterations, *operation, *paramsName)
	fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))

	switch *operation {
	case "all":
		profileKeyGen()
		profileEncrypt()
		profileLeveled()
		profileBootstrap()
	case "keygen":
		profileKeyGen()
	case "encrypt":
		profileEncrypt()
	case "leveled":
		profileLeveled()
	case "bootstrap":
		profileBootstrap()
	default:
		fmt.Fprintf(os.Stderr, "unknown operation: %s\n", *operation)
		os.Exit(1)
	}

	concrete.PrintMemStats()
}

func lweParams() *concrete.LWEParams {
	named, ok := concrete.LWEParamsByName(*paramsName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown parameter set: %s\n", *paramsName)
		os.Exit(1)
	}
	return named.Params
}

func average(name string, n int, op func()) {
	timer := concrete.NewTimer(name)
	for i := 0; i < n; i++ {
		op()
	}
	d := timer.Stop()
	fmt.Printf("  average: %v/op\n", d/time.Duration(n))
}

func profileKeyGen() {
	fmt.Println("\n=== key generation ===")
	params := lweParams()

	average("LWE secret key", *iterations, func() {
		if _, err := concrete.NewLWESecretKey(params); err != nil {
			panic(err)
		}
	})

	average("RLWE secret key", *iterations, func() {
		if _, err := concrete.NewRLWESecretKey(&concrete.RLWE128_1024_1); err != nil {
			panic(err)
		}
	})

	// Switching keys are expensive; run fewer iterations.
	kskIter := max(*iterations/10, 1)
	skBefore, err := concrete.NewLWESecretKey(params)
	if err != nil {
		panic(err)
	}
	skAfter, err := concrete.NewLWESecretKey(&concrete.LWE128_512)
	if err != nil {
		panic(err)
	}
	average(fmt.Sprintf("keyswitching key (%d iter)", kskIter), kskIter, func() {
		if _, err := concrete.NewLWEKSK(skBefore, skAfter, 4, 8); err != nil {
			panic(err)
		}
	})
}

func profileEncrypt() {
	fmt.Println("\n=== encryption / decryption ===")
	params := lweParams()

	sk, err := concrete.NewLWESecretKey(params)
	if err != nil {
		panic(err)
	}
	encoder, err := concrete.NewEncoder(0, 8, 6, 2)
	if err != nil {
		panic(err)
	}

	average("encode+encrypt", *iterations, func() {
		if _, err := concrete.EncodeEncryptLWE(sk, 4.25, encoder); err != nil {
			panic(err)
		}
	})

	ct, err := concrete.EncodeEncryptLWE(sk, 4.25, encoder)
	if err != nil {
		panic(err)
	}
	average("decrypt+decode", *iterations, func() {
		if _, err := ct.DecryptDecode(sk); err != nil {
			panic(err)
		}
	})
}

func profileLeveled() {
	fmt.Println("\n=== leveled operations ===")
	params := lweParams()

	sk, err := concrete.NewLWESecretKey(params)
	if err != nil {
		panic(err)
	}
	encoder, err := concrete.NewEncoder(0, 8, 6, 4)
	if err != nil {
		panic(err)
	}
	a, err := concrete.EncodeEncryptLWE(sk, 1.5, encoder)
	if err != nil {
		panic(err)
	}
	b, err := concrete.EncodeEncryptLWE(sk, 2.25, encoder)
	if err != nil {
		panic(err)
	}

	average("add with padding", *iterations, func() {
		if _, err := a.AddWithPadding(b); err != nil {
			panic(err)
		}
	})
	average("mul constant", *iterations, func() {
		if _, err := a.MulConstantStaticEncoder(3); err != nil {
			panic(err)
		}
	})
	average("opposite", *iterations, func() {
		if _, err := a.Opposite(); err != nil {
			panic(err)
		}
	})
}

func profileBootstrap() {
	fmt.Println("\n=== bootstrapping ===")

	// Small dimensions: the backend uses schoolbook polynomial arithmetic,
	// so production-size bootstrapping is minutes per operation.
	skIn, err := concrete.NewLWESecretKeyRaw(64, 0.0000001)
	if err != nil {
		panic(err)
	}
	skRLWE, err := concrete.NewRLWESecretKeyRaw(512, 1, 0.0000001)
	if err != nil {
		panic(err)
	}

	timer := concrete.NewTimer("bootstrapping key")
	bsk, err := concrete.NewLWEBSK(skIn, skRLWE, 8, 4)
	if err != nil {
		panic(err)
	}
	timer.Stop()

	encoder, err := concrete.NewEncoder(0, 1, 3, 1)
	if err != nil {
		panic(err)
	}
	ct, err := concrete.EncodeEncryptLWE(skIn, 0.5, encoder)
	if err != nil {
		panic(err)
	}

	bootIter := max(*iterations/10, 1)
	average(fmt.Sprintf("bootstrap (%d iter)", bootIter), bootIter, func() {
		if _, err := ct.Bootstrap(bsk); err != nil {
			panic(err)
		}
	})
}
