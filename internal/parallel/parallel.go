// Package parallel provides the parallel loops used by the statevector kernels.
package parallel

import (
	"runtime"
	"sort"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns defaults based on CPU count. Statevectors below
// 2^12 amplitudes stay sequential.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 1 << 12,
	}
}

// Sequential returns a configuration that never spawns goroutines.
func Sequential() Config {
	return Config{}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForMasked visits every basis index of an n-bit register whose bits at
// the given positions are all zero. Position 0 is the least significant bit.
// The visits are independent, so f may run concurrently.
func ForMasked(n int, positions []int, f func(base int), cfg Config) {
	sorted := append([]int(nil), positions...)
	sort.Ints(sorted)
	count := (1 << n) >> len(sorted)
	For(count, func(i int) {
		f(insertZeros(i, sorted))
	}, cfg)
}

// insertZeros spreads the bits of i around zero bits at the sorted positions.
func insertZeros(i int, sorted []int) int {
	for _, p := range sorted {
		low := i & (1<<p - 1)
		i = (i>>p)<<(p+1) | low
	}
	return i
}
