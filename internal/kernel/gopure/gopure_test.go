package gopure

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/example/go-blasbridge/internal/kernel"
)

const tol = 1e-6

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= tol
}

func TestFloat64_VectorOps(t *testing.T) {
	b := New()
	k := b.Float64

	y := []float64{10, 20, 30}
	k.Axpy(3, 2, []float64{1, 2, 3}, y)
	for i, want := range []float64{12, 24, 36} {
		if !approxEqual(y[i], want) {
			t.Fatalf("axpy y = %v; want [12 24 36]", y)
		}
	}

	x := []float64{2, 4, 6}
	k.Scal(3, 0.5, x)
	for i, want := range []float64{1, 2, 3} {
		if !approxEqual(x[i], want) {
			t.Fatalf("scal x = %v; want [1 2 3]", x)
		}
	}

	if got := k.Dot(3, []float64{1, 2, 3}, []float64{4, 5, 6}); !approxEqual(got, 32) {
		t.Fatalf("dot = %v; want 32", got)
	}
}

func TestFloat32_VectorOps(t *testing.T) {
	k := New().Float32

	y := []float32{10, 20, 30}
	k.Axpy(3, 2, []float32{1, 2, 3}, y)
	if y[0] != 12 || y[1] != 24 || y[2] != 36 {
		t.Fatalf("axpy y = %v; want [12 24 36]", y)
	}

	if got := k.Dot(3, []float32{1, 2, 3}, []float32{4, 5, 6}); got != 32 {
		t.Fatalf("dot = %v; want 32", got)
	}
}

func TestComplex_DotConjugatesLeftOperand(t *testing.T) {
	// conj(1+2i) * (3+4i) = 11 - 2i
	want := complex(11, -2)

	c64 := New().Complex64
	if got := c64.Dot(1, []complex64{complex(1, 2)}, []complex64{complex(3, 4)}); got != complex64(want) {
		t.Fatalf("complex64 dot = %v; want %v", got, want)
	}

	c128 := New().Complex128
	if got := c128.Dot(1, []complex128{complex(1, 2)}, []complex128{complex(3, 4)}); got != want {
		t.Fatalf("complex128 dot = %v; want %v", got, want)
	}
}

func TestComplex_ScalAxpy(t *testing.T) {
	k := New().Complex128

	x := []complex128{complex(1, 1), complex(2, -1)}
	k.Scal(2, complex(0, 1), x)
	if x[0] != complex(-1, 1) || x[1] != complex(1, 2) {
		t.Fatalf("scal x = %v; want [(-1+1i) (1+2i)]", x)
	}

	y := []complex128{complex(1, 0), complex(0, 1)}
	k.Axpy(2, complex(2, 0), []complex128{complex(0, 1), complex(1, 0)}, y)
	if y[0] != complex(1, 2) || y[1] != complex(2, 1) {
		t.Fatalf("axpy y = %v; want [(1+2i) (2+1i)]", y)
	}
}

func TestFloat64_Gemm(t *testing.T) {
	k := New().Float64

	// [1 2; 3 4] * [5 6; 7 8] = [19 22; 43 50], row-major.
	c := make([]float64, 4)
	k.Gemm(kernel.NoTrans, kernel.NoTrans, 2, 2, 2, 1,
		[]float64{1, 2, 3, 4}, 2,
		[]float64{5, 6, 7, 8}, 2,
		0, c, 2)

	for i, want := range []float64{19, 22, 43, 50} {
		if !approxEqual(c[i], want) {
			t.Fatalf("gemm c = %v; want [19 22 43 50]", c)
		}
	}

	// aᵀ*a for a = [1 2; 3 4] is [10 14; 14 20].
	a := []float64{1, 2, 3, 4}
	c2 := make([]float64, 4)
	k.Gemm(kernel.Trans, kernel.NoTrans, 2, 2, 2, 1, a, 2, a, 2, 0, c2, 2)

	for i, want := range []float64{10, 14, 14, 20} {
		if !approxEqual(c2[i], want) {
			t.Fatalf("gemm aᵀa = %v; want [10 14 14 20]", c2)
		}
	}

	// beta scaling: c = 1*I*I + 2*c.
	c3 := []float64{1, 1, 1, 1}
	k.Gemm(kernel.NoTrans, kernel.NoTrans, 2, 2, 2, 1,
		[]float64{1, 0, 0, 1}, 2,
		[]float64{1, 0, 0, 1}, 2,
		2, c3, 2)

	for i, want := range []float64{3, 2, 2, 3} {
		if !approxEqual(c3[i], want) {
			t.Fatalf("gemm with beta c = %v; want [3 2 2 3]", c3)
		}
	}
}

func TestPotrf_Float64(t *testing.T) {
	k := New().Float64

	// [[4 2] [2 3]] factors to L = [[2 0] [1 sqrt2]].
	a := []float64{4, 2, 2, 3}
	if err := k.Potrf(kernel.Lower, 2, a, 2); err != nil {
		t.Fatalf("Potrf returned error: %v", err)
	}

	if !approxEqual(a[0], 2) || !approxEqual(a[2], 1) || !approxEqual(a[3], math.Sqrt2) {
		t.Fatalf("Potrf a = %v; want lower [2 _ 1 %v]", a, math.Sqrt2)
	}
}

func TestPotrf_Float64NotPositiveDefinite(t *testing.T) {
	k := New().Float64

	a := []float64{1, 2, 2, 1}
	err := k.Potrf(kernel.Lower, 2, a, 2)

	var npd *kernel.NotPositiveDefiniteError
	if !errors.As(err, &npd) {
		t.Fatalf("err = %v; want NotPositiveDefiniteError", err)
	}
}

func TestPotrf_Float32PromotesAndDemotes(t *testing.T) {
	k := New().Float32

	a := []float32{4, 2, 2, 3}
	if err := k.Potrf(kernel.Lower, 2, a, 2); err != nil {
		t.Fatalf("Potrf returned error: %v", err)
	}

	if math.Abs(float64(a[0])-2) > 1e-5 || math.Abs(float64(a[2])-1) > 1e-5 || math.Abs(float64(a[3])-math.Sqrt2) > 1e-5 {
		t.Fatalf("Potrf a = %v; want lower [2 _ 1 sqrt2]", a)
	}
}

func TestPotrf_ComplexUnsupported(t *testing.T) {
	b := New()

	err := b.Complex64.Potrf(kernel.Lower, 1, []complex64{1}, 1)
	if !errors.Is(err, kernel.ErrUnsupported) {
		t.Fatalf("complex64 Potrf err = %v; want ErrUnsupported", err)
	}
	if !strings.Contains(err.Error(), "cpotrf") {
		t.Errorf("complex64 Potrf err = %q; want routine name cpotrf", err)
	}

	err = b.Complex128.Potrf(kernel.Lower, 1, []complex128{1}, 1)
	if !errors.Is(err, kernel.ErrUnsupported) {
		t.Fatalf("complex128 Potrf err = %v; want ErrUnsupported", err)
	}
	if !strings.Contains(err.Error(), "zpotrf") {
		t.Errorf("complex128 Potrf err = %q; want routine name zpotrf", err)
	}
}

func TestPotrf_EmptyMatrixIsNoop(t *testing.T) {
	if err := New().Float64.Potrf(kernel.Lower, 0, nil, 1); err != nil {
		t.Fatalf("Potrf(n=0) returned error: %v", err)
	}
}

func TestBackendInfo(t *testing.T) {
	b := New()

	if b.Info.Name != Name {
		t.Errorf("Info.Name = %q; want %q", b.Info.Name, Name)
	}

	if err := b.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
}
