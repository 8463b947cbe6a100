// Package testutil provides shared skip helpers for integration tests.
//
// Each helper calls t.Skip with a clear human-readable reason when the named
// prerequisite is absent, so integration tests remain runnable in partial
// environments without failing noisily.
package testutil

import (
	"os"
	"testing"
)

// RequireOpenBLAS skips the test if no OpenBLAS shared library can be
// located. It checks (in order): the BLASBRIDGE_BLAS_LIB env var, the
// BLAS_LIBRARY_PATH env var, then common system library paths.
func RequireOpenBLAS(tb testing.TB) string {
	tb.Helper()

	for _, env := range []string{"BLASBRIDGE_BLAS_LIB", "BLAS_LIBRARY_PATH"} {
		if p := os.Getenv(env); p != "" {
			_, err := os.Stat(p)
			if err == nil {
				return p
			}

			tb.Skipf("OpenBLAS library not found at %s=%q", env, p)
		}
	}

	// Fall back to common system locations.
	candidates := []string{
		"/usr/lib/libopenblas.so",
		"/usr/lib/x86_64-linux-gnu/libopenblas.so.0",
		"/usr/lib/aarch64-linux-gnu/libopenblas.so.0",
		"/usr/local/lib/libopenblas.so",
		"/opt/homebrew/opt/openblas/lib/libopenblas.dylib",
	}
	for _, p := range candidates {
		_, err := os.Stat(p)
		if err == nil {
			return p
		}
	}

	tb.Skip("OpenBLAS shared library not found; set BLASBRIDGE_BLAS_LIB or BLAS_LIBRARY_PATH")

	return ""
}
