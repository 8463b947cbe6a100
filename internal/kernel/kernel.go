// Package kernel defines the linear-algebra kernel surface shared by all
// backends. It is a pass-through boundary: implementations delegate to an
// external numeric library (or gonum's pure-Go routines) and perform no
// argument validation of their own. Buffers are caller-owned and mutated in
// place; concurrent calls on disjoint buffers are safe, concurrent calls on
// the same buffer are the caller's responsibility.
package kernel

import (
	"errors"
	"fmt"
)

// Scalar enumerates the element types every backend supports.
type Scalar interface {
	~float32 | ~float64 | ~complex64 | ~complex128
}

// Transpose selects the op() applied to a gemm operand.
type Transpose byte

const (
	NoTrans Transpose = iota
	Trans
	ConjTrans
)

func (t Transpose) String() string {
	switch t {
	case NoTrans:
		return "n"
	case Trans:
		return "t"
	case ConjTrans:
		return "c"
	default:
		return fmt.Sprintf("Transpose(%d)", byte(t))
	}
}

// Uplo selects which triangle of a symmetric/Hermitian matrix is stored.
type Uplo byte

const (
	Upper Uplo = iota
	Lower
)

func (u Uplo) String() string {
	switch u {
	case Upper:
		return "upper"
	case Lower:
		return "lower"
	default:
		return fmt.Sprintf("Uplo(%d)", byte(u))
	}
}

// Kernels is the per-element-type kernel set. One method per operation;
// semantics follow the BLAS/LAPACK routines the backends bind to.
type Kernels[T Scalar] interface {
	// Scal computes x[i] *= alpha for i in [0, n).
	Scal(n int, alpha T, x []T)

	// Axpy computes y[i] += alpha * x[i] for i in [0, n).
	Axpy(n int, alpha T, x, y []T)

	// Dot returns the sum over [0, n) of x[i]*y[i]. For complex element
	// types x is conjugated (dotc convention).
	Dot(n int, x, y []T) T

	// Gemm computes c = alpha*op(a)*op(b) + beta*c with the standard BLAS
	// dimensions: op(a) is m×k, op(b) is k×n, c is m×n, row-major with
	// leading dimensions lda, ldb, ldc.
	Gemm(tA, tB Transpose, m, n, k int, alpha T, a []T, lda int, b []T, ldb int, beta T, c []T, ldc int)

	// Potrf factors the n×n matrix a in place into its Cholesky triangle.
	// A non-positive-definite input surfaces as a *NotPositiveDefiniteError.
	Potrf(uplo Uplo, n int, a []T, lda int) error
}

// ErrUnsupported reports an operation the selected backend cannot perform.
var ErrUnsupported = errors.New("kernel: operation not supported by backend")

// NotPositiveDefiniteError reports a failed Cholesky factorization. Minor is
// the one-based order of the leading minor that is not positive definite,
// mirroring the LAPACK info convention.
type NotPositiveDefiniteError struct {
	Minor int
}

func (e *NotPositiveDefiniteError) Error() string {
	return fmt.Sprintf("kernel: matrix is not positive definite (leading minor %d)", e.Minor)
}
