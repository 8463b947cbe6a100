// Package openblas binds the kernel surface to an OpenBLAS (or any
// CBLAS/LAPACKE compatible) shared library loaded at runtime via purego.
// No cgo is required; the library is resolved when the backend opens.
//
// The binding assumes the LP64 interface: 32-bit blasint, as built by
// default OpenBLAS packages. ILP64 builds (SUFFIX64 / libopenblas64_) are
// not supported.
package openblas

import (
	"errors"
	"fmt"
	"os"
)

// Name is the backend identifier reported in Info.
const Name = "openblas"

// Library describes a resolved shared library before binding.
type Library struct {
	Path    string
	Version string

	handle uintptr
}

var defaultCandidates = []string{
	"/usr/lib/libopenblas.so",
	"/usr/lib/x86_64-linux-gnu/libopenblas.so.0",
	"/usr/lib/aarch64-linux-gnu/libopenblas.so.0",
	"/usr/local/lib/libopenblas.so",
	"/usr/local/lib/libopenblas.dylib",
	"/opt/homebrew/opt/openblas/lib/libopenblas.dylib",
	"C:/OpenBLAS/bin/libopenblas.dll",
}

// Locate resolves the shared-library path without loading it: explicit path
// first, then environment variables, then well-known install locations.
func Locate(explicit string) (string, error) {
	path := explicit
	if path == "" {
		path = os.Getenv("BLASBRIDGE_BLAS_LIB")
	}

	if path == "" {
		path = os.Getenv("BLAS_LIBRARY_PATH")
	}

	if path == "" {
		for _, c := range defaultCandidates {
			_, err := os.Stat(c)
			if err == nil {
				path = c
				break
			}
		}
	}

	if path == "" {
		return "", errors.New("unable to locate an OpenBLAS shared library")
	}

	_, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("blas library path check failed: %w", err)
	}

	return path, nil
}

// Load locates and opens the shared library.
func Load(explicit string) (*Library, error) {
	path, err := Locate(explicit)
	if err != nil {
		return nil, err
	}

	handle, err := openLibrary(path)
	if err != nil {
		return nil, fmt.Errorf("load blas library %s: %w", path, err)
	}

	return &Library{Path: path, handle: handle}, nil
}

// Close releases the library handle. Safe to call multiple times.
func (l *Library) Close() error {
	if l.handle == 0 {
		return nil
	}

	handle := l.handle
	l.handle = 0

	return closeLibrary(handle)
}
