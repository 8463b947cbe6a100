// Package parallel provides fork-join helpers for fanning out independent
// CPU-bound work over a contiguous index range, with an optional numeric
// reduction. Scheduling policy is carried explicitly in a Config rather
// than process-wide state so callers can pick it per call site.
package parallel

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/multierr"
)

// Number constrains Aggregate contributions.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64 | ~complex64 | ~complex128
}

// Config controls scheduling for a single call. The zero value runs
// everything sequentially.
type Config struct {
	// Sequential forces single-threaded execution in ascending index
	// order regardless of Workers.
	Sequential bool
	// Workers caps the number of goroutines. Values below 2 imply
	// sequential execution.
	Workers int
}

// DefaultConfig enables parallelism over all CPUs.
func DefaultConfig() Config {
	return Config{Workers: runtime.NumCPU()}
}

// ErrNilBody reports a nil work function passed to a loop entry point.
var ErrNilBody = errors.New("parallel: nil work function")

func (c Config) runSequential(n int) bool {
	return c.Sequential || c.Workers < 2 || n <= 1
}

type span struct {
	lo, hi int
}

// partition splits [from, to) into at most workers contiguous chunks of
// near-equal size.
func partition(from, to, workers int) []span {
	n := to - from
	if workers > n {
		workers = n
	}

	chunk := (n + workers - 1) / workers
	spans := make([]span, 0, workers)

	for lo := from; lo < to; lo += chunk {
		hi := min(lo+chunk, to)
		spans = append(spans, span{lo: lo, hi: hi})
	}

	return spans
}

// callIndex runs body(i), converting a panic into an error so one bad index
// cannot take down the whole batch.
func callIndex(body func(int) error, i int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parallel: work item %d panicked: %v", i, r)
		}
	}()

	return body(i)
}

// For invokes body(i) exactly once for every i in [from, to). An inverted
// range is an empty range, not an error. Failed indices never abort the
// batch: every index runs, and all errors come back combined into one
// (unpack with multierr.Errors).
func For(cfg Config, from, to int, body func(i int) error) error {
	if body == nil {
		return ErrNilBody
	}

	n := to - from
	if n <= 0 {
		return nil
	}

	if cfg.runSequential(n) {
		var errs error
		for i := from; i < to; i++ {
			errs = multierr.Append(errs, callIndex(body, i))
		}

		return errs
	}

	var (
		mu   sync.Mutex
		errs error
		wg   sync.WaitGroup
	)

	for _, sp := range partition(from, to, cfg.Workers) {
		wg.Add(1)

		go func(sp span) {
			defer wg.Done()

			var local error
			for i := sp.lo; i < sp.hi; i++ {
				local = multierr.Append(local, callIndex(body, i))
			}

			if local != nil {
				mu.Lock()
				errs = multierr.Append(errs, local)
				mu.Unlock()
			}
		}(sp)
	}

	wg.Wait()

	return errs
}

// Aggregate invokes body(i) for every i in [from, to) and returns the sum of
// the contributions. Each chunk keeps a local subtotal merged under a single
// mutex entry per chunk, so the combination order across chunks is
// unspecified; callers accept floating-point non-associativity. An empty
// range returns the zero value. On failure the partial sum is returned
// together with the combined error.
func Aggregate[T Number](cfg Config, from, to int, body func(i int) (T, error)) (T, error) {
	var total T

	if body == nil {
		return total, ErrNilBody
	}

	n := to - from
	if n <= 0 {
		return total, nil
	}

	call := func(i int) (T, error) {
		var contribution T
		err := callIndex(func(i int) error {
			var bodyErr error
			contribution, bodyErr = body(i)
			return bodyErr
		}, i)

		return contribution, err
	}

	if cfg.runSequential(n) {
		var errs error
		for i := from; i < to; i++ {
			v, err := call(i)
			total += v
			errs = multierr.Append(errs, err)
		}

		return total, errs
	}

	var (
		mu   sync.Mutex
		errs error
		wg   sync.WaitGroup
	)

	for _, sp := range partition(from, to, cfg.Workers) {
		wg.Add(1)

		go func(sp span) {
			defer wg.Done()

			var (
				subtotal T
				local    error
			)

			for i := sp.lo; i < sp.hi; i++ {
				v, err := call(i)
				subtotal += v
				local = multierr.Append(local, err)
			}

			mu.Lock()
			total += subtotal
			errs = multierr.Append(errs, local)
			mu.Unlock()
		}(sp)
	}

	wg.Wait()

	return total, errs
}

// InvokeAll runs the given zero-argument actions, one task per action, and
// returns once all have completed or failed. A nil action fails immediately
// before any work starts. All action errors come back combined into one.
func InvokeAll(cfg Config, actions ...func() error) error {
	for i, action := range actions {
		if action == nil {
			return fmt.Errorf("%w (action %d)", ErrNilBody, i)
		}
	}

	if len(actions) == 0 {
		return nil
	}

	run := func(i int) error {
		return callIndex(func(int) error { return actions[i]() }, i)
	}

	if cfg.runSequential(len(actions)) {
		var errs error
		for i := range actions {
			errs = multierr.Append(errs, run(i))
		}

		return errs
	}

	var (
		mu   sync.Mutex
		errs error
		wg   sync.WaitGroup
	)

	for i := range actions {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			if err := run(i); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		}(i)
	}

	wg.Wait()

	return errs
}
