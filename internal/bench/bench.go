// Package bench provides benchmarking primitives for the blasbridge bench
// command.
package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/example/go-blasbridge/internal/kernel"
)

// Op names a benchmarkable kernel operation.
type Op string

const (
	OpDot   Op = "dot"
	OpAxpy  Op = "axpy"
	OpScal  Op = "scal"
	OpGemm  Op = "gemm"
	OpPotrf Op = "potrf"
)

// Ops lists the supported operations in display order.
var Ops = []Op{OpDot, OpAxpy, OpScal, OpGemm, OpPotrf}

// ParseOp validates an operation name.
func ParseOp(raw string) (Op, error) {
	op := Op(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Ops {
		if op == known {
			return op, nil
		}
	}

	return "", fmt.Errorf("unknown op %q (expected dot|axpy|scal|gemm|potrf)", raw)
}

// Spec describes one benchmark: an operation at a given problem size,
// repeated Runs times. Vector ops use Size elements; gemm and potrf use
// Size×Size matrices.
type Spec struct {
	Op   Op
	Size int
	Runs int
}

// RunResult holds the timing for a single run.
type RunResult struct {
	Index    int
	Cold     bool // true for the first run (cold-start)
	Duration time.Duration
	GFLOPS   float64
}

// Stats holds aggregate timing statistics across all runs.
type Stats struct {
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// ComputeStats calculates min, max and mean over a slice of durations.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}
	mn, mx := durations[0], durations[0]
	var sum time.Duration
	for _, d := range durations {
		if d < mn {
			mn = d
		}
		if d > mx {
			mx = d
		}
		sum += d
	}
	return Stats{
		Min:  mn,
		Max:  mx,
		Mean: sum / time.Duration(len(durations)),
	}
}

// flops approximates the floating-point operation count of one run.
func flops(op Op, n int) float64 {
	fn := float64(n)
	switch op {
	case OpDot, OpAxpy:
		return 2 * fn
	case OpScal:
		return fn
	case OpGemm:
		return 2 * fn * fn * fn
	case OpPotrf:
		return fn * fn * fn / 3
	default:
		return 0
	}
}

// Run executes spec against the float64 kernels of the given backend.
func Run(b *kernel.Backend, spec Spec) ([]RunResult, Stats, error) {
	if spec.Size < 1 {
		return nil, Stats{}, fmt.Errorf("size must be >= 1, got %d", spec.Size)
	}
	if spec.Runs < 1 {
		return nil, Stats{}, fmt.Errorf("runs must be >= 1, got %d", spec.Runs)
	}

	step, err := newStep(b, spec)
	if err != nil {
		return nil, Stats{}, err
	}

	results := make([]RunResult, 0, spec.Runs)
	durations := make([]time.Duration, 0, spec.Runs)
	work := flops(spec.Op, spec.Size)

	for i := 0; i < spec.Runs; i++ {
		start := time.Now()
		if err := step(); err != nil {
			return nil, Stats{}, fmt.Errorf("run %d: %w", i+1, err)
		}
		elapsed := time.Since(start)

		gflops := 0.0
		if elapsed > 0 {
			gflops = work / elapsed.Seconds() / 1e9
		}

		results = append(results, RunResult{
			Index:    i,
			Cold:     i == 0,
			Duration: elapsed,
			GFLOPS:   gflops,
		})
		durations = append(durations, elapsed)
	}

	return results, ComputeStats(durations), nil
}

// newStep builds the per-run closure, allocating inputs once up front so
// the timed section covers only the kernel call (plus, for potrf, the copy
// that restores the factored matrix).
func newStep(b *kernel.Backend, spec Spec) (func() error, error) {
	rng := rand.New(rand.NewSource(1))
	k := b.Float64
	n := spec.Size

	randSlice := func(size int) []float64 {
		s := make([]float64, size)
		for i := range s {
			s[i] = rng.Float64() - 0.5
		}
		return s
	}

	switch spec.Op {
	case OpDot:
		x, y := randSlice(n), randSlice(n)
		return func() error {
			_ = k.Dot(n, x, y)
			return nil
		}, nil

	case OpAxpy:
		x, y := randSlice(n), randSlice(n)
		return func() error {
			k.Axpy(n, 1.000001, x, y)
			return nil
		}, nil

	case OpScal:
		x := randSlice(n)
		return func() error {
			k.Scal(n, 1.000001, x)
			return nil
		}, nil

	case OpGemm:
		a, bb, c := randSlice(n*n), randSlice(n*n), make([]float64, n*n)
		return func() error {
			k.Gemm(kernel.NoTrans, kernel.NoTrans, n, n, n, 1, a, n, bb, n, 0, c, n)
			return nil
		}, nil

	case OpPotrf:
		spd := spdMatrix(k, n, rng)
		scratch := make([]float64, len(spd))
		return func() error {
			copy(scratch, spd)
			return k.Potrf(kernel.Lower, n, scratch, n)
		}, nil

	default:
		return nil, fmt.Errorf("unknown op %q", spec.Op)
	}
}

// spdMatrix builds a symmetric positive-definite n×n matrix as B*Bᵀ + n*I.
func spdMatrix(k kernel.Kernels[float64], n int, rng *rand.Rand) []float64 {
	b := make([]float64, n*n)
	for i := range b {
		b[i] = rng.Float64() - 0.5
	}

	a := make([]float64, n*n)
	k.Gemm(kernel.NoTrans, kernel.Trans, n, n, n, 1, b, n, b, n, 0, a, n)
	for i := 0; i < n; i++ {
		a[i*n+i] += float64(n)
	}

	return a
}

// ---------------------------------------------------------------------------
// Output formatters
// ---------------------------------------------------------------------------

// FormatTable writes a human-readable ASCII table of bench results to w.
func FormatTable(spec Spec, runs []RunResult, stats Stats, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "op=%s size=%d runs=%d\n", spec.Op, spec.Size, spec.Runs)
	fmt.Fprintf(sb, "%-5s  %-5s  %12s  %10s\n", "Run", "Cold", "MS", "GFLOPS")
	fmt.Fprintln(sb, strings.Repeat("-", 40))

	for _, r := range runs {
		cold := ""
		if r.Cold {
			cold = "yes"
		}
		fmt.Fprintf(sb, "%-5d  %-5s  %12.3f  %10.3f\n",
			r.Index+1,
			cold,
			float64(r.Duration.Microseconds())/1000,
			r.GFLOPS,
		)
	}

	fmt.Fprintln(sb, strings.Repeat("-", 40))
	fmt.Fprintf(sb, "%-5s  %-5s  %12.3f  (min)\n", "", "", float64(stats.Min.Microseconds())/1000)
	fmt.Fprintf(sb, "%-5s  %-5s  %12.3f  (mean)\n", "", "", float64(stats.Mean.Microseconds())/1000)
	fmt.Fprintf(sb, "%-5s  %-5s  %12.3f  (max)\n", "", "", float64(stats.Max.Microseconds())/1000)

	fmt.Fprint(w, sb.String())
}

// jsonReport is the top-level JSON structure emitted by FormatJSON.
type jsonReport struct {
	Op    string    `json:"op"`
	Size  int       `json:"size"`
	Runs  []jsonRun `json:"runs"`
	Stats jsonStats `json:"stats"`
}

type jsonRun struct {
	Index      int     `json:"index"`
	Cold       bool    `json:"cold"`
	DurationMS float64 `json:"duration_ms"`
	GFLOPS     float64 `json:"gflops"`
}

type jsonStats struct {
	MinMS  float64 `json:"min_ms"`
	MeanMS float64 `json:"mean_ms"`
	MaxMS  float64 `json:"max_ms"`
}

// FormatJSON writes a JSON report of bench results to w.
func FormatJSON(spec Spec, runs []RunResult, stats Stats, w io.Writer) error {
	report := jsonReport{
		Op:   string(spec.Op),
		Size: spec.Size,
		Runs: make([]jsonRun, 0, len(runs)),
		Stats: jsonStats{
			MinMS:  float64(stats.Min.Microseconds()) / 1000,
			MeanMS: float64(stats.Mean.Microseconds()) / 1000,
			MaxMS:  float64(stats.Max.Microseconds()) / 1000,
		},
	}

	for _, r := range runs {
		report.Runs = append(report.Runs, jsonRun{
			Index:      r.Index,
			Cold:       r.Cold,
			DurationMS: float64(r.Duration.Microseconds()) / 1000,
			GFLOPS:     r.GFLOPS,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(report)
}
