package openblas

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/example/go-blasbridge/internal/kernel"
)

// CBLAS/LAPACKE row-major layout and transpose encodings.
const (
	cblasRowMajor   uint32 = 101
	cblasNoTrans    uint32 = 111
	cblasTrans      uint32 = 112
	cblasConjTrans  uint32 = 113
	lapackRowMajor  int32  = 101
	lapackUploUpper byte   = 'U'
	lapackUploLower byte   = 'L'
)

// symbols holds every registered entry point. Complex scalars travel by
// reference per the CBLAS ABI, so those slots take unsafe pointers.
type symbols struct {
	sscal func(n int32, alpha float32, x *float32, incX int32)
	dscal func(n int32, alpha float64, x *float64, incX int32)
	cscal func(n int32, alpha, x unsafe.Pointer, incX int32)
	zscal func(n int32, alpha, x unsafe.Pointer, incX int32)

	saxpy func(n int32, alpha float32, x *float32, incX int32, y *float32, incY int32)
	daxpy func(n int32, alpha float64, x *float64, incX int32, y *float64, incY int32)
	caxpy func(n int32, alpha, x unsafe.Pointer, incX int32, y unsafe.Pointer, incY int32)
	zaxpy func(n int32, alpha, x unsafe.Pointer, incX int32, y unsafe.Pointer, incY int32)

	sdot     func(n int32, x *float32, incX int32, y *float32, incY int32) float32
	ddot     func(n int32, x *float64, incX int32, y *float64, incY int32) float64
	cdotcSub func(n int32, x unsafe.Pointer, incX int32, y unsafe.Pointer, incY int32, ret unsafe.Pointer)
	zdotcSub func(n int32, x unsafe.Pointer, incX int32, y unsafe.Pointer, incY int32, ret unsafe.Pointer)

	sgemm func(order, tA, tB uint32, m, n, k int32, alpha float32, a *float32, lda int32, b *float32, ldb int32, beta float32, c *float32, ldc int32)
	dgemm func(order, tA, tB uint32, m, n, k int32, alpha float64, a *float64, lda int32, b *float64, ldb int32, beta float64, c *float64, ldc int32)
	cgemm func(order, tA, tB uint32, m, n, k int32, alpha, a unsafe.Pointer, lda int32, b unsafe.Pointer, ldb int32, beta, c unsafe.Pointer, ldc int32)
	zgemm func(order, tA, tB uint32, m, n, k int32, alpha, a unsafe.Pointer, lda int32, b unsafe.Pointer, ldb int32, beta, c unsafe.Pointer, ldc int32)

	spotrf func(layout int32, uplo byte, n int32, a *float32, lda int32) int32
	dpotrf func(layout int32, uplo byte, n int32, a *float64, lda int32) int32
	cpotrf func(layout int32, uplo byte, n int32, a unsafe.Pointer, lda int32) int32
	zpotrf func(layout int32, uplo byte, n int32, a unsafe.Pointer, lda int32) int32

	getConfig func() string
}

// register resolves one symbol, converting purego's panic on a missing
// symbol into an error.
func register(fptr any, handle uintptr, name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("resolve %s: %v", name, r)
		}
	}()

	purego.RegisterLibFunc(fptr, handle, name)

	return nil
}

// RequiredSymbols lists every symbol the backend binds, in registration
// order. Exposed for doctor preflight reporting.
func RequiredSymbols() []string {
	return []string{
		"cblas_sscal", "cblas_dscal", "cblas_cscal", "cblas_zscal",
		"cblas_saxpy", "cblas_daxpy", "cblas_caxpy", "cblas_zaxpy",
		"cblas_sdot", "cblas_ddot", "cblas_cdotc_sub", "cblas_zdotc_sub",
		"cblas_sgemm", "cblas_dgemm", "cblas_cgemm", "cblas_zgemm",
		"LAPACKE_spotrf", "LAPACKE_dpotrf", "LAPACKE_cpotrf", "LAPACKE_zpotrf",
	}
}

func bind(lib *Library) (*symbols, error) {
	s := &symbols{}

	targets := []struct {
		fptr any
		name string
	}{
		{&s.sscal, "cblas_sscal"},
		{&s.dscal, "cblas_dscal"},
		{&s.cscal, "cblas_cscal"},
		{&s.zscal, "cblas_zscal"},
		{&s.saxpy, "cblas_saxpy"},
		{&s.daxpy, "cblas_daxpy"},
		{&s.caxpy, "cblas_caxpy"},
		{&s.zaxpy, "cblas_zaxpy"},
		{&s.sdot, "cblas_sdot"},
		{&s.ddot, "cblas_ddot"},
		{&s.cdotcSub, "cblas_cdotc_sub"},
		{&s.zdotcSub, "cblas_zdotc_sub"},
		{&s.sgemm, "cblas_sgemm"},
		{&s.dgemm, "cblas_dgemm"},
		{&s.cgemm, "cblas_cgemm"},
		{&s.zgemm, "cblas_zgemm"},
		{&s.spotrf, "LAPACKE_spotrf"},
		{&s.dpotrf, "LAPACKE_dpotrf"},
		{&s.cpotrf, "LAPACKE_cpotrf"},
		{&s.zpotrf, "LAPACKE_zpotrf"},
	}

	for _, t := range targets {
		if err := register(t.fptr, lib.handle, t.name); err != nil {
			return nil, err
		}
	}

	// Version string is informational only; not all CBLAS providers
	// export it.
	if err := register(&s.getConfig, lib.handle, "openblas_get_config"); err != nil {
		s.getConfig = nil
	}

	return s, nil
}

// New loads the shared library (explicit path may be empty for discovery)
// and returns a fully bound backend.
func New(explicitPath string) (*kernel.Backend, error) {
	lib, err := Load(explicitPath)
	if err != nil {
		return nil, err
	}

	s, err := bind(lib)
	if err != nil {
		closeErr := lib.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("%w (additionally: %v)", err, closeErr)
		}

		return nil, err
	}

	version := ""
	if s.getConfig != nil {
		version = s.getConfig()
	}

	info := kernel.Info{
		Name:        Name,
		LibraryPath: lib.Path,
		Version:     version,
	}

	return kernel.NewBackend(info,
		f32{s}, f64{s}, c64{s}, c128{s},
		lib.Close,
	), nil
}

func cblasTranspose(t kernel.Transpose) uint32 {
	switch t {
	case kernel.Trans:
		return cblasTrans
	case kernel.ConjTrans:
		return cblasConjTrans
	default:
		return cblasNoTrans
	}
}

func lapackUplo(u kernel.Uplo) byte {
	if u == kernel.Lower {
		return lapackUploLower
	}

	return lapackUploUpper
}

// scaleMatrix applies the gemm quick return for k = 0: c = beta*c, with a
// beta of zero clearing c outright per the BLAS contract. The a and b
// operands are empty in that case and must not be dereferenced.
func scaleMatrix[T kernel.Scalar](m, n int, beta T, c []T, ldc int) {
	if beta == 1 {
		return
	}

	for i := 0; i < m; i++ {
		row := c[i*ldc : i*ldc+n]
		if beta == 0 {
			for j := range row {
				row[j] = 0
			}
			continue
		}

		for j := range row {
			row[j] *= beta
		}
	}
}

func potrfError(info int32) error {
	if info == 0 {
		return nil
	}

	if info < 0 {
		return fmt.Errorf("lapacke potrf: illegal value in argument %d", -info)
	}

	return &kernel.NotPositiveDefiniteError{Minor: int(info)}
}

type f32 struct{ s *symbols }

func (k f32) Scal(n int, alpha float32, x []float32) {
	if n <= 0 {
		return
	}

	k.s.sscal(int32(n), alpha, &x[0], 1)
}

func (k f32) Axpy(n int, alpha float32, x, y []float32) {
	if n <= 0 {
		return
	}

	k.s.saxpy(int32(n), alpha, &x[0], 1, &y[0], 1)
}

func (k f32) Dot(n int, x, y []float32) float32 {
	if n <= 0 {
		return 0
	}

	return k.s.sdot(int32(n), &x[0], 1, &y[0], 1)
}

func (k f32) Gemm(tA, tB kernel.Transpose, m, n, kk int, alpha float32, a []float32, lda int, b []float32, ldb int, beta float32, c []float32, ldc int) {
	if m <= 0 || n <= 0 {
		return
	}

	if kk <= 0 {
		scaleMatrix(m, n, beta, c, ldc)
		return
	}

	k.s.sgemm(cblasRowMajor, cblasTranspose(tA), cblasTranspose(tB),
		int32(m), int32(n), int32(kk),
		alpha, &a[0], int32(lda), &b[0], int32(ldb), beta, &c[0], int32(ldc))
}

func (k f32) Potrf(uplo kernel.Uplo, n int, a []float32, lda int) error {
	if n <= 0 {
		return nil
	}

	return potrfError(k.s.spotrf(lapackRowMajor, lapackUplo(uplo), int32(n), &a[0], int32(lda)))
}

type f64 struct{ s *symbols }

func (k f64) Scal(n int, alpha float64, x []float64) {
	if n <= 0 {
		return
	}

	k.s.dscal(int32(n), alpha, &x[0], 1)
}

func (k f64) Axpy(n int, alpha float64, x, y []float64) {
	if n <= 0 {
		return
	}

	k.s.daxpy(int32(n), alpha, &x[0], 1, &y[0], 1)
}

func (k f64) Dot(n int, x, y []float64) float64 {
	if n <= 0 {
		return 0
	}

	return k.s.ddot(int32(n), &x[0], 1, &y[0], 1)
}

func (k f64) Gemm(tA, tB kernel.Transpose, m, n, kk int, alpha float64, a []float64, lda int, b []float64, ldb int, beta float64, c []float64, ldc int) {
	if m <= 0 || n <= 0 {
		return
	}

	if kk <= 0 {
		scaleMatrix(m, n, beta, c, ldc)
		return
	}

	k.s.dgemm(cblasRowMajor, cblasTranspose(tA), cblasTranspose(tB),
		int32(m), int32(n), int32(kk),
		alpha, &a[0], int32(lda), &b[0], int32(ldb), beta, &c[0], int32(ldc))
}

func (k f64) Potrf(uplo kernel.Uplo, n int, a []float64, lda int) error {
	if n <= 0 {
		return nil
	}

	return potrfError(k.s.dpotrf(lapackRowMajor, lapackUplo(uplo), int32(n), &a[0], int32(lda)))
}

type c64 struct{ s *symbols }

func (k c64) Scal(n int, alpha complex64, x []complex64) {
	if n <= 0 {
		return
	}

	k.s.cscal(int32(n), unsafe.Pointer(&alpha), unsafe.Pointer(&x[0]), 1)
}

func (k c64) Axpy(n int, alpha complex64, x, y []complex64) {
	if n <= 0 {
		return
	}

	k.s.caxpy(int32(n), unsafe.Pointer(&alpha), unsafe.Pointer(&x[0]), 1, unsafe.Pointer(&y[0]), 1)
}

func (k c64) Dot(n int, x, y []complex64) complex64 {
	if n <= 0 {
		return 0
	}

	var ret complex64
	k.s.cdotcSub(int32(n), unsafe.Pointer(&x[0]), 1, unsafe.Pointer(&y[0]), 1, unsafe.Pointer(&ret))

	return ret
}

func (k c64) Gemm(tA, tB kernel.Transpose, m, n, kk int, alpha complex64, a []complex64, lda int, b []complex64, ldb int, beta complex64, c []complex64, ldc int) {
	if m <= 0 || n <= 0 {
		return
	}

	if kk <= 0 {
		scaleMatrix(m, n, beta, c, ldc)
		return
	}

	k.s.cgemm(cblasRowMajor, cblasTranspose(tA), cblasTranspose(tB),
		int32(m), int32(n), int32(kk),
		unsafe.Pointer(&alpha), unsafe.Pointer(&a[0]), int32(lda),
		unsafe.Pointer(&b[0]), int32(ldb),
		unsafe.Pointer(&beta), unsafe.Pointer(&c[0]), int32(ldc))
}

func (k c64) Potrf(uplo kernel.Uplo, n int, a []complex64, lda int) error {
	if n <= 0 {
		return nil
	}

	return potrfError(k.s.cpotrf(lapackRowMajor, lapackUplo(uplo), int32(n), unsafe.Pointer(&a[0]), int32(lda)))
}

type c128 struct{ s *symbols }

func (k c128) Scal(n int, alpha complex128, x []complex128) {
	if n <= 0 {
		return
	}

	k.s.zscal(int32(n), unsafe.Pointer(&alpha), unsafe.Pointer(&x[0]), 1)
}

func (k c128) Axpy(n int, alpha complex128, x, y []complex128) {
	if n <= 0 {
		return
	}

	k.s.zaxpy(int32(n), unsafe.Pointer(&alpha), unsafe.Pointer(&x[0]), 1, unsafe.Pointer(&y[0]), 1)
}

func (k c128) Dot(n int, x, y []complex128) complex128 {
	if n <= 0 {
		return 0
	}

	var ret complex128
	k.s.zdotcSub(int32(n), unsafe.Pointer(&x[0]), 1, unsafe.Pointer(&y[0]), 1, unsafe.Pointer(&ret))

	return ret
}

func (k c128) Gemm(tA, tB kernel.Transpose, m, n, kk int, alpha complex128, a []complex128, lda int, b []complex128, ldb int, beta complex128, c []complex128, ldc int) {
	if m <= 0 || n <= 0 {
		return
	}

	if kk <= 0 {
		scaleMatrix(m, n, beta, c, ldc)
		return
	}

	k.s.zgemm(cblasRowMajor, cblasTranspose(tA), cblasTranspose(tB),
		int32(m), int32(n), int32(kk),
		unsafe.Pointer(&alpha), unsafe.Pointer(&a[0]), int32(lda),
		unsafe.Pointer(&b[0]), int32(ldb),
		unsafe.Pointer(&beta), unsafe.Pointer(&c[0]), int32(ldc))
}

func (k c128) Potrf(uplo kernel.Uplo, n int, a []complex128, lda int) error {
	if n <= 0 {
		return nil
	}

	return potrfError(k.s.zpotrf(lapackRowMajor, lapackUplo(uplo), int32(n), unsafe.Pointer(&a[0]), int32(lda)))
}
