//go:build netlib && cgo

// Package netlib binds the kernel surface to the system BLAS/LAPACK through
// gonum's netlib cgo wrappers (Accelerate on macOS, OpenBLAS or reference
// LAPACK on Linux). Build with -tags netlib; the default backends avoid cgo.
package netlib

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	blasnetlib "gonum.org/v1/netlib/blas/netlib"
	lapacknetlib "gonum.org/v1/netlib/lapack/netlib"

	"github.com/example/go-blasbridge/internal/kernel"
)

// Name is the backend identifier reported in Info.
const Name = "netlib"

// New returns a backend over the link-time system BLAS/LAPACK.
func New() *kernel.Backend {
	info := kernel.Info{
		Name:    Name,
		Version: "gonum.org/v1/netlib",
	}

	return kernel.NewBackend(info, f32{}, f64{}, c64{}, c128{}, nil)
}

func blasTranspose(t kernel.Transpose) blas.Transpose {
	switch t {
	case kernel.Trans:
		return blas.Trans
	case kernel.ConjTrans:
		return blas.ConjTrans
	default:
		return blas.NoTrans
	}
}

func blasUplo(u kernel.Uplo) blas.Uplo {
	if u == kernel.Lower {
		return blas.Lower
	}

	return blas.Upper
}

var (
	impl   blasnetlib.Implementation
	lapack lapacknetlib.Implementation
)

type f32 struct{}

func (f32) Scal(n int, alpha float32, x []float32) {
	impl.Sscal(n, alpha, x, 1)
}

func (f32) Axpy(n int, alpha float32, x, y []float32) {
	impl.Saxpy(n, alpha, x, 1, y, 1)
}

func (f32) Dot(n int, x, y []float32) float32 {
	return impl.Sdot(n, x, 1, y, 1)
}

func (f32) Gemm(tA, tB kernel.Transpose, m, n, k int, alpha float32, a []float32, lda int, b []float32, ldb int, beta float32, c []float32, ldc int) {
	impl.Sgemm(blasTranspose(tA), blasTranspose(tB), m, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}

// Potrf promotes to float64; the netlib lapack wrapper exposes the float64
// interface only. Single-precision callers needing a native spotrf should
// use the openblas backend.
func (f32) Potrf(uplo kernel.Uplo, n int, a []float32, lda int) error {
	if n == 0 {
		return nil
	}

	wide := make([]float64, len(a))
	for i, v := range a {
		wide[i] = float64(v)
	}

	if err := (f64{}).Potrf(uplo, n, wide, lda); err != nil {
		return err
	}

	for i, v := range wide {
		a[i] = float32(v)
	}

	return nil
}

type f64 struct{}

func (f64) Scal(n int, alpha float64, x []float64) {
	impl.Dscal(n, alpha, x, 1)
}

func (f64) Axpy(n int, alpha float64, x, y []float64) {
	impl.Daxpy(n, alpha, x, 1, y, 1)
}

func (f64) Dot(n int, x, y []float64) float64 {
	return impl.Ddot(n, x, 1, y, 1)
}

func (f64) Gemm(tA, tB kernel.Transpose, m, n, k int, alpha float64, a []float64, lda int, b []float64, ldb int, beta float64, c []float64, ldc int) {
	impl.Dgemm(blasTranspose(tA), blasTranspose(tB), m, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}

func (f64) Potrf(uplo kernel.Uplo, n int, a []float64, lda int) error {
	if n == 0 {
		return nil
	}

	if ok := lapack.Dpotrf(blasUplo(uplo), n, a, lda); !ok {
		return &kernel.NotPositiveDefiniteError{Minor: 0}
	}

	return nil
}

type c64 struct{}

func (c64) Scal(n int, alpha complex64, x []complex64) {
	impl.Cscal(n, alpha, x, 1)
}

func (c64) Axpy(n int, alpha complex64, x, y []complex64) {
	impl.Caxpy(n, alpha, x, 1, y, 1)
}

func (c64) Dot(n int, x, y []complex64) complex64 {
	return impl.Cdotc(n, x, 1, y, 1)
}

func (c64) Gemm(tA, tB kernel.Transpose, m, n, k int, alpha complex64, a []complex64, lda int, b []complex64, ldb int, beta complex64, c []complex64, ldc int) {
	impl.Cgemm(blasTranspose(tA), blasTranspose(tB), m, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}

func (c64) Potrf(uplo kernel.Uplo, n int, a []complex64, lda int) error {
	return fmt.Errorf("cpotrf: %w", kernel.ErrUnsupported)
}

type c128 struct{}

func (c128) Scal(n int, alpha complex128, x []complex128) {
	impl.Zscal(n, alpha, x, 1)
}

func (c128) Axpy(n int, alpha complex128, x, y []complex128) {
	impl.Zaxpy(n, alpha, x, 1, y, 1)
}

func (c128) Dot(n int, x, y []complex128) complex128 {
	return impl.Zdotc(n, x, 1, y, 1)
}

func (c128) Gemm(tA, tB kernel.Transpose, m, n, k int, alpha complex128, a []complex128, lda int, b []complex128, ldb int, beta complex128, c []complex128, ldc int) {
	impl.Zgemm(blasTranspose(tA), blasTranspose(tB), m, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}

func (c128) Potrf(uplo kernel.Uplo, n int, a []complex128, lda int) error {
	return fmt.Errorf("zpotrf: %w", kernel.ErrUnsupported)
}
