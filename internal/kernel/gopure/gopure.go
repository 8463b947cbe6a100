// Package gopure binds the kernel surface to gonum's pure-Go BLAS and LAPACK
// implementations. It is the default backend: always available, no shared
// library required.
package gopure

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	blasgonum "gonum.org/v1/gonum/blas/gonum"
	lapackgonum "gonum.org/v1/gonum/lapack/gonum"

	"github.com/example/go-blasbridge/internal/kernel"
)

// Name is the backend identifier reported in Info.
const Name = "gopure"

// New returns a backend over gonum's native routines.
func New() *kernel.Backend {
	info := kernel.Info{
		Name:        Name,
		LibraryPath: "",
		Version:     "gonum.org/v1/gonum",
	}

	return kernel.NewBackend(info, float32Kernels{}, float64Kernels{}, complex64Kernels{}, complex128Kernels{}, nil)
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
	impl   blasgonum.Implementation
	lapack lapackgonum.Implementation
)

type float32Kernels struct{}

func (float32Kernels) Scal(n int, alpha float32, x []float32) {
	impl.Sscal(n, alpha, x, 1)
}

func (float32Kernels) Axpy(n int, alpha float32, x, y []float32) {
	impl.Saxpy(n, alpha, x, 1, y, 1)
}

func (float32Kernels) Dot(n int, x, y []float32) float32 {
	return impl.Sdot(n, x, 1, y, 1)
}

func (float32Kernels) Gemm(tA, tB kernel.Transpose, m, n, k int, alpha float32, a []float32, lda int, b []float32, ldb int, beta float32, c []float32, ldc int) {
	impl.Sgemm(blasTranspose(tA), blasTranspose(tB), m, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}

// Potrf promotes to float64, factors with gonum's Dpotrf and demotes the
// result. gonum ships no float32 LAPACK.
func (float32Kernels) Potrf(uplo kernel.Uplo, n int, a []float32, lda int) error {
	if n == 0 {
		return nil
	}

	wide := make([]float64, len(a))
	for i, v := range a {
		wide[i] = float64(v)
	}

	if err := (float64Kernels{}).Potrf(uplo, n, wide, lda); err != nil {
		return err
	}

	for i, v := range wide {
		a[i] = float32(v)
	}

	return nil
}

type float64Kernels struct{}

func (float64Kernels) Scal(n int, alpha float64, x []float64) {
	impl.Dscal(n, alpha, x, 1)
}

func (float64Kernels) Axpy(n int, alpha float64, x, y []float64) {
	impl.Daxpy(n, alpha, x, 1, y, 1)
}

func (float64Kernels) Dot(n int, x, y []float64) float64 {
	return impl.Ddot(n, x, 1, y, 1)
}

func (float64Kernels) Gemm(tA, tB kernel.Transpose, m, n, k int, alpha float64, a []float64, lda int, b []float64, ldb int, beta float64, c []float64, ldc int) {
	impl.Dgemm(blasTranspose(tA), blasTranspose(tB), m, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}

func (float64Kernels) Potrf(uplo kernel.Uplo, n int, a []float64, lda int) error {
	if n == 0 {
		return nil
	}

	if ok := lapack.Dpotrf(blasUplo(uplo), n, a, lda); !ok {
		// gonum reports failure without the minor index; LAPACKE-backed
		// backends fill it in.
		return &kernel.NotPositiveDefiniteError{Minor: 0}
	}

	return nil
}

type complex64Kernels struct{}

func (complex64Kernels) Scal(n int, alpha complex64, x []complex64) {
	impl.Cscal(n, alpha, x, 1)
}

func (complex64Kernels) Axpy(n int, alpha complex64, x, y []complex64) {
	impl.Caxpy(n, alpha, x, 1, y, 1)
}

func (complex64Kernels) Dot(n int, x, y []complex64) complex64 {
	return impl.Cdotc(n, x, 1, y, 1)
}

func (complex64Kernels) Gemm(tA, tB kernel.Transpose, m, n, k int, alpha complex64, a []complex64, lda int, b []complex64, ldb int, beta complex64, c []complex64, ldc int) {
	impl.Cgemm(blasTranspose(tA), blasTranspose(tB), m, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}

func (complex64Kernels) Potrf(uplo kernel.Uplo, n int, a []complex64, lda int) error {
	return fmt.Errorf("cpotrf: %w", kernel.ErrUnsupported)
}

type complex128Kernels struct{}

func (complex128Kernels) Scal(n int, alpha complex128, x []complex128) {
	impl.Zscal(n, alpha, x, 1)
}

func (complex128Kernels) Axpy(n int, alpha complex128, x, y []complex128) {
	impl.Zaxpy(n, alpha, x, 1, y, 1)
}

func (complex128Kernels) Dot(n int, x, y []complex128) complex128 {
	return impl.Zdotc(n, x, 1, y, 1)
}

func (complex128Kernels) Gemm(tA, tB kernel.Transpose, m, n, k int, alpha complex128, a []complex128, lda int, b []complex128, ldb int, beta complex128, c []complex128, ldc int) {
	impl.Zgemm(blasTranspose(tA), blasTranspose(tB), m, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}

func (complex128Kernels) Potrf(uplo kernel.Uplo, n int, a []complex128, lda int) error {
	return fmt.Errorf("zpotrf: %w", kernel.ErrUnsupported)
}
