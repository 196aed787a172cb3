// Command fitting benchmarks the spline fitting pipeline across knot
// strategies, smoothing modes and evaluation workloads.
package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/splinefit/bspline"
	"github.com/ezoic/splinefit/dataset"
	"github.com/ezoic/splinefit/metrics"
)

// BenchmarkResult holds one measured scenario.
type BenchmarkResult struct {
	Scenario    string
	DatasetSize int
	Variables   int
	Duration    time.Duration
	Throughput  float64 // samples/second
	MemoryUsage float64 // MB
	R2          float64
}

func main() {
	fmt.Println("=== splinefit Fitting Benchmarks ===")

	var m1, m2 runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m1)

	results := []BenchmarkResult{}

	fmt.Println("1. Knot Strategy Benchmarks")
	fmt.Println("-" + strings.Repeat("=", 49))
	results = append(results, benchmarkKnotStrategies()...)

	fmt.Println("\n2. Smoothing Mode Benchmarks")
	fmt.Println("-" + strings.Repeat("=", 49))
	results = append(results, benchmarkSmoothingModes()...)

	fmt.Println("\n3. Evaluation Benchmarks")
	fmt.Println("-" + strings.Repeat("=", 49))
	results = append(results, benchmarkEvaluation()...)

	fmt.Println("\n4. Surface Fitting Benchmarks")
	fmt.Println("-" + strings.Repeat("=", 49))
	results = append(results, benchmarkSurfaces()...)

	runtime.GC()
	runtime.ReadMemStats(&m2)

	fmt.Println("\n" + strings.Repeat("=", 100))
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println(strings.Repeat("=", 100))

	printResults(results)

	fmt.Printf("\nTotal Memory Used: %.2f MB\n", float64(m2.Alloc-m1.Alloc)/(1024*1024))
	fmt.Printf("System Memory Usage: %.2f MB\n", float64(m2.Sys)/(1024*1024))
}

func benchmarkKnotStrategies() []BenchmarkResult {
	results := []BenchmarkResult{}

	datasets := []struct {
		samples int
		name    string
	}{
		{1_000, "Small"},
		{10_000, "Medium"},
		{100_000, "Large"},
	}

	strategies := []bspline.KnotSpacing{
		bspline.KnotSpacingSample,
		bspline.KnotSpacingEquidistant,
		bspline.KnotSpacingExperimental,
	}

	for _, ds := range datasets {
		fmt.Printf("Dataset: %s (%d samples)\n", ds.name, ds.samples)

		table := generateCurveTable(ds.samples, 42)

		for _, spacing := range strategies {
			result := benchmarkBuild(table, spacing)
			results = append(results, result)
			fmt.Printf("  %-13s %.0f samples/sec, R² %.4f\n",
				spacing.String()+":", result.Throughput, result.R2)
		}
		fmt.Println()
	}

	return results
}

func benchmarkBuild(table *dataset.Table, spacing bspline.KnotSpacing) BenchmarkResult {
	var m1, m2 runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m1)

	start := time.Now()
	spline, err := bspline.NewBuilder(table).
		Degree(3).
		NumBasisFunctions(30).
		KnotSpacing(spacing).
		Build()
	duration := time.Since(start)

	runtime.GC()
	runtime.ReadMemStats(&m2)

	r2 := 0.0
	if err == nil {
		r2 = trainingR2(spline, table)
	}

	return BenchmarkResult{
		Scenario:    "Build (" + spacing.String() + ")",
		DatasetSize: table.Len(),
		Variables:   table.NumVariables(),
		Duration:    duration,
		Throughput:  float64(table.Len()) / duration.Seconds(),
		MemoryUsage: float64(m2.Alloc-m1.Alloc) / (1024 * 1024),
		R2:          r2,
	}
}

func benchmarkSmoothingModes() []BenchmarkResult {
	results := []BenchmarkResult{}

	table := generateCurveTable(10_000, 42)

	modes := []struct {
		smoothing bspline.Smoothing
		alpha     float64
	}{
		{bspline.SmoothingNone, 0},
		{bspline.SmoothingRegularization, 0.1},
		{bspline.SmoothingPSpline, 0.1},
	}

	for _, mode := range modes {
		var m1, m2 runtime.MemStats
		runtime.GC()
		runtime.ReadMemStats(&m1)

		start := time.Now()
		spline, err := bspline.NewBuilder(table).
			Degree(3).
			NumBasisFunctions(50).
			KnotSpacing(bspline.KnotSpacingEquidistant).
			Smoothing(mode.smoothing).
			Alpha(mode.alpha).
			Build()
		duration := time.Since(start)

		runtime.GC()
		runtime.ReadMemStats(&m2)

		r2 := 0.0
		if err == nil {
			r2 = trainingR2(spline, table)
		}

		result := BenchmarkResult{
			Scenario:    "Smoothing (" + mode.smoothing.String() + ")",
			DatasetSize: table.Len(),
			Variables:   table.NumVariables(),
			Duration:    duration,
			Throughput:  float64(table.Len()) / duration.Seconds(),
			MemoryUsage: float64(m2.Alloc-m1.Alloc) / (1024 * 1024),
			R2:          r2,
		}
		results = append(results, result)
		fmt.Printf("  %-15s %s, R² %.4f\n", mode.smoothing.String()+":",
			duration.Truncate(time.Microsecond), result.R2)
	}

	return results
}

func benchmarkEvaluation() []BenchmarkResult {
	results := []BenchmarkResult{}

	table := generateCurveTable(5_000, 42)
	spline, err := bspline.NewBuilder(table).
		Degree(3).
		NumBasisFunctions(40).
		KnotSpacing(bspline.KnotSpacingEquidistant).
		Build()
	if err != nil {
		fmt.Printf("  build failed: %v\n", err)
		return results
	}

	batches := []int{10_000, 1_000_000}
	for _, size := range batches {
		points := make([][]float64, size)
		for i := range points {
			points[i] = []float64{10 * float64(i) / float64(size-1)}
		}

		start := time.Now()
		if _, err := spline.EvalAll(points); err != nil {
			fmt.Printf("  eval failed: %v\n", err)
			continue
		}
		duration := time.Since(start)

		result := BenchmarkResult{
			Scenario:    "EvalAll",
			DatasetSize: size,
			Variables:   1,
			Duration:    duration,
			Throughput:  float64(size) / duration.Seconds(),
			R2:          1,
		}
		results = append(results, result)
		fmt.Printf("  EvalAll %8d points: %.0f evals/sec\n", size, result.Throughput)
	}

	return results
}

func benchmarkSurfaces() []BenchmarkResult {
	results := []BenchmarkResult{}

	sides := []int{20, 50, 100}
	for _, side := range sides {
		table := generateSurfaceTable(side, 7)

		var m1, m2 runtime.MemStats
		runtime.GC()
		runtime.ReadMemStats(&m1)

		start := time.Now()
		spline, err := bspline.NewBuilder(table).
			Degree(3).
			NumBasisFunctions(12).
			KnotSpacing(bspline.KnotSpacingEquidistant).
			Smoothing(bspline.SmoothingPSpline).
			Alpha(0.01).
			Build()
		duration := time.Since(start)

		runtime.GC()
		runtime.ReadMemStats(&m2)

		r2 := 0.0
		if err == nil {
			r2 = trainingR2(spline, table)
		}

		result := BenchmarkResult{
			Scenario:    fmt.Sprintf("Surface %dx%d", side, side),
			DatasetSize: table.Len(),
			Variables:   2,
			Duration:    duration,
			Throughput:  float64(table.Len()) / duration.Seconds(),
			MemoryUsage: float64(m2.Alloc-m1.Alloc) / (1024 * 1024),
			R2:          r2,
		}
		results = append(results, result)
		fmt.Printf("  %dx%d grid: %s, R² %.4f\n", side, side,
			duration.Truncate(time.Microsecond), result.R2)
	}

	return results
}

// Data generation

func generateCurveTable(samples int, seed int64) *dataset.Table {
	seedBytes := [32]byte{}
	seedBytes[0] = byte(seed)
	rng := rand.New(rand.NewChaCha8(seedBytes))

	table, err := dataset.NewTable(1)
	if err != nil {
		panic(err)
	}
	for i := 0; i < samples; i++ {
		x := 10 * float64(i) / float64(samples-1)
		y := math.Sin(3*x) + 0.2*x + rng.NormFloat64()*0.1
		if err := table.AddSample([]float64{x}, y); err != nil {
			panic(err)
		}
	}
	return table
}

func generateSurfaceTable(side int, seed int64) *dataset.Table {
	seedBytes := [32]byte{}
	seedBytes[0] = byte(seed)
	rng := rand.New(rand.NewChaCha8(seedBytes))

	table, err := dataset.NewTable(2)
	if err != nil {
		panic(err)
	}
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			x := 3 * float64(i) / float64(side-1)
			y := 3 * float64(j) / float64(side-1)
			z := math.Sin(x)*math.Cos(y) + rng.NormFloat64()*0.05
			if err := table.AddSample([]float64{x, y}, z); err != nil {
				panic(err)
			}
		}
	}
	return table
}

// trainingR2 scores the fitted spline against its own training targets.
func trainingR2(spline *bspline.BSpline, table *dataset.Table) float64 {
	points := make([][]float64, table.Len())
	yTrue := mat.NewVecDense(table.Len(), nil)
	for i := 0; i < table.Len(); i++ {
		points[i] = table.Sample(i)
		yTrue.SetVec(i, table.Y(i))
	}

	preds, err := spline.EvalAll(points)
	if err != nil {
		return 0
	}

	r2, err := metrics.R2Score(yTrue, mat.NewVecDense(len(preds), preds))
	if err != nil {
		return 0
	}
	return r2
}

func printResults(results []BenchmarkResult) {
	fmt.Printf("%-28s %10s %6s %12s %15s %10s %10s\n",
		"Scenario", "Samples", "Vars", "Duration", "Throughput", "Memory", "R²")
	fmt.Println(strings.Repeat("-", 100))

	for _, result := range results {
		fmt.Printf("%-28s %10d %6d %12s %15.0f %10.2f %10.4f\n",
			result.Scenario,
			result.DatasetSize,
			result.Variables,
			result.Duration.Truncate(time.Millisecond),
			result.Throughput,
			result.MemoryUsage,
			result.R2)
	}
}
