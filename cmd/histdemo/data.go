package main

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/gogpu/chart"
	"github.com/gogpu/chart/internal/parallel"
)

// normalSamples returns n samples drawn from N(mean, stddev²).
func normalSamples(rng *rand.Rand, n int, mean, stddev float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + stddev*rng.NormFloat64()
	}
	return out
}

// binSamples counts samples into nbins equal-width bins over [lo, hi).
// Samples outside the range are dropped.
func binSamples(samples []float64, nbins int, lo, hi float64) []uint32 {
	counts := make([]uint32, nbins)
	if nbins == 0 || hi <= lo {
		return counts
	}
	width := (hi - lo) / float64(nbins)
	for _, s := range samples {
		if s < lo || s >= hi || math.IsNaN(s) {
			continue
		}
		i := int((s - lo) / width)
		if i >= nbins {
			i = nbins - 1
		}
		counts[i]++
	}
	return counts
}

// binSamplesParallel bins samples on pool, one shard per worker, and merges
// the partial counts.
func binSamplesParallel(pool *parallel.WorkerPool, samples []float64, nbins int, lo, hi float64) []uint32 {
	shards := parallel.Shards(len(samples), pool.Workers())
	partial := make([][]uint32, len(shards))
	work := make([]func(), len(shards))
	for i, s := range shards {
		work[i] = func() {
			partial[i] = binSamples(samples[s[0]:s[1]], nbins, lo, hi)
		}
	}
	pool.ExecuteAll(work)

	counts := make([]uint32, nbins)
	for _, p := range partial {
		for j, c := range p {
			counts[j] += c
		}
	}
	return counts
}

// uploadCounts stores counts in h using its element type and returns the
// largest stored value. Uint8 histograms are rescaled so the tallest bin is
// 255.
func uploadCounts(h *chart.Histogram, counts []uint32) (float32, error) {
	var peak uint32
	for _, c := range counts {
		peak = max(peak, c)
	}

	switch h.DataType() {
	case chart.Float32:
		vals := make([]float32, len(counts))
		for i, c := range counts {
			vals[i] = float32(c)
		}
		return float32(peak), chart.SetFrequencies(h, vals)
	case chart.Int32:
		vals := make([]int32, len(counts))
		for i, c := range counts {
			vals[i] = int32(min(c, math.MaxInt32)) //nolint:gosec // clamped
		}
		return float32(peak), chart.SetFrequencies(h, vals)
	case chart.Uint32:
		return float32(peak), chart.SetFrequencies(h, counts)
	case chart.Uint8:
		vals := make([]uint8, len(counts))
		if peak == 0 {
			return 0, chart.SetFrequencies(h, vals)
		}
		for i, c := range counts {
			vals[i] = uint8(uint64(c) * 255 / uint64(peak)) //nolint:gosec // at most 255
		}
		return 255, chart.SetFrequencies(h, vals)
	}
	return 0, fmt.Errorf("unsupported histogram type %s", h.DataType())
}

// niceCeil rounds v up to 1, 2 or 5 times a power of ten.
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	exp := math.Floor(math.Log10(v))
	base := math.Pow(10, exp)
	for _, m := range []float64{1, 2, 5, 10} {
		if m*base >= v {
			return m * base
		}
	}
	return 10 * base
}
