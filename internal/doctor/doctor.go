// Package doctor provides environment preflight checks for blasbridge.
package doctor

import (
	"fmt"
	"io"
	"math"

	"github.com/example/go-blasbridge/internal/kernel"
	"github.com/example/go-blasbridge/internal/parallel"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// OpenBackend opens the configured kernel backend.
	OpenBackend func() (*kernel.Backend, error)
	// LocateLibrary resolves the shared-library path the backend binds to.
	LocateLibrary func() (string, error)
	// SkipLibrary skips the shared-library check (pure-Go backend mode).
	SkipLibrary bool
	// Parallel is the loop scheduling configuration to verify.
	Parallel parallel.Config
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- shared library ---------------------------------------------------
	if cfg.SkipLibrary {
		fmt.Fprintf(w, "%s blas library: skipped\n", PassMark)
	} else {
		path, err := cfg.LocateLibrary()
		if err != nil {
			res.fail(fmt.Sprintf("blas library: %v", err))
			fmt.Fprintf(w, "%s blas library: not found (%v)\n", FailMark, err)
		} else {
			fmt.Fprintf(w, "%s blas library: %s\n", PassMark, path)
		}
	}

	// ---- backend ----------------------------------------------------------
	backend, err := cfg.OpenBackend()
	if err != nil {
		res.fail(fmt.Sprintf("kernel backend: %v", err))
		fmt.Fprintf(w, "%s kernel backend: cannot open (%v)\n", FailMark, err)
	} else {
		fmt.Fprintf(w, "%s kernel backend: %s (%s)\n", PassMark, backend.Info.Name, backend.Info.Version)

		if err := smokeTest(backend); err != nil {
			res.fail(fmt.Sprintf("kernel smoke test: %v", err))
			fmt.Fprintf(w, "%s kernel smoke test: %v\n", FailMark, err)
		} else {
			fmt.Fprintf(w, "%s kernel smoke test: dot/axpy/scal/gemm/potrf ok\n", PassMark)
		}

		if closeErr := backend.Close(); closeErr != nil {
			res.fail(fmt.Sprintf("kernel backend close: %v", closeErr))
			fmt.Fprintf(w, "%s kernel backend close: %v\n", FailMark, closeErr)
		}
	}

	// ---- parallel loops ---------------------------------------------------
	if err := parallelCheck(cfg.Parallel); err != nil {
		res.fail(fmt.Sprintf("parallel loops: %v", err))
		fmt.Fprintf(w, "%s parallel loops: %v\n", FailMark, err)
	} else {
		mode := "parallel"
		if cfg.Parallel.Sequential || cfg.Parallel.Workers < 2 {
			mode = "sequential"
		}
		fmt.Fprintf(w, "%s parallel loops: %s, workers=%d\n", PassMark, mode, cfg.Parallel.Workers)
	}

	return res
}

// smokeTest runs each float64 kernel on a tiny known input and verifies the
// result, so a misbound symbol fails loudly here instead of corrupting a
// caller's data later.
func smokeTest(b *kernel.Backend) error {
	const tol = 1e-10
	k := b.Float64

	if got := k.Dot(3, []float64{1, 2, 3}, []float64{4, 5, 6}); math.Abs(got-32) > tol {
		return fmt.Errorf("dot([1 2 3],[4 5 6]) = %v, want 32", got)
	}

	y := []float64{10, 20, 30}
	k.Axpy(3, 2, []float64{1, 2, 3}, y)
	if y[0] != 12 || y[1] != 24 || y[2] != 36 {
		return fmt.Errorf("axpy(2,[1 2 3],[10 20 30]) = %v, want [12 24 36]", y)
	}

	x := []float64{2, 4, 6}
	k.Scal(3, 0.5, x)
	if x[0] != 1 || x[1] != 2 || x[2] != 3 {
		return fmt.Errorf("scal(0.5,[2 4 6]) = %v, want [1 2 3]", x)
	}

	// [1 0; 0 1] * [5 6; 7 8] must reproduce the right operand.
	c := make([]float64, 4)
	k.Gemm(kernel.NoTrans, kernel.NoTrans, 2, 2, 2, 1, []float64{1, 0, 0, 1}, 2, []float64{5, 6, 7, 8}, 2, 0, c, 2)
	if c[0] != 5 || c[1] != 6 || c[2] != 7 || c[3] != 8 {
		return fmt.Errorf("gemm(I, [5 6; 7 8]) = %v, want [5 6 7 8]", c)
	}

	// potrf([4 2; 2 3]) lower factor is [2 0; 1 sqrt(2)].
	a := []float64{4, 2, 2, 3}
	if err := k.Potrf(kernel.Lower, 2, a, 2); err != nil {
		return fmt.Errorf("potrf([4 2; 2 3]): %w", err)
	}
	if math.Abs(a[0]-2) > tol || math.Abs(a[2]-1) > tol || math.Abs(a[3]-math.Sqrt2) > tol {
		return fmt.Errorf("potrf([4 2; 2 3]) = %v, want [2 _ 1 %v]", a, math.Sqrt2)
	}

	return nil
}

// parallelCheck sums [0, 1000) under the configured scheduling policy and
// compares against the closed form.
func parallelCheck(cfg parallel.Config) error {
	const n = 1000

	sum, err := parallel.Aggregate(cfg, 0, n, func(i int) (int, error) {
		return i, nil
	})
	if err != nil {
		return err
	}

	if want := n * (n - 1) / 2; sum != want {
		return fmt.Errorf("aggregate sum = %d, want %d", sum, want)
	}

	return nil
}
