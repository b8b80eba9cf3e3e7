// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build profile

package concrete

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"
)

// ProfileConfig holds profiling output paths. Empty fields disable the
// corresponding profile.
type ProfileConfig struct {
	CPUProfile string
	MemProfile string
}

// Profiler wraps pprof CPU and heap profiling around a workload.
type Profiler struct {
	config    ProfileConfig
	cpuFile   *os.File
	startTime time.Time
}

// NewProfiler creates a profiler with the given configuration.
func NewProfiler(config ProfileConfig) *Profiler {
	return &Profiler{config: config}
}

// Start begins profiling.
func (p *Profiler) Start() error {
	p.startTime = time.Now()

	if p.config.CPUProfile != "" {
		f, err := os.Create(p.config.CPUProfile)
		if err != nil {
			return fmt.Errorf("create CPU profile: %w", err)
		}
		p.cpuFile = f
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("start CPU profile: %w", err)
		}
	}
	return nil
}

// Stop ends profiling and writes the profile files.
func (p *Profiler) Stop() error {
	fmt.Printf("profiling duration: %v\n", time.Since(p.startTime))

	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		p.cpuFile.Close()
		fmt.Printf("CPU profile written to %s\n", p.config.CPUProfile)
	}

	if p.config.MemProfile != "" {
		f, err := os.Create(p.config.MemProfile)
		if err != nil {
			return fmt.Errorf("create memory profile: %w", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("write memory profile: %w", err)
		}
		fmt.Printf("memory profile written to %s\n", p.config.MemProfile)
	}
	return nil
}

// PrintMemStats prints heap statistics for the current process.
func PrintMemStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Printf("memory statistics:\n")
	fmt.Printf("  alloc:        %d MB\n", m.Alloc/1024/1024)
	fmt.Printf("  total alloc:  %d MB\n", m.TotalAlloc/1024/1024)
	fmt.Printf("  sys:          %d MB\n", m.Sys/1024/1024)
	fmt.Printf("  num GC:       %d\n", m.NumGC)
	fmt.Printf("  heap objects: %d\n", m.HeapObjects)
}

// Timer is a simple operation timer that prints its duration on Stop.
type Timer struct {
	name  string
	start time.Time
}

// NewTimer starts a named timer.
func NewTimer(name string) *Timer {
	return &Timer{name: name, start: time.Now()}
}

// Stop prints and returns the elapsed time.
func (t *Timer) Stop() time.Duration {
	d := time.Since(t.start)
	fmt.Printf("%s: %v\n", t.name, d)
	return d
}
