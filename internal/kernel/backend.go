package kernel

// Info describes the concrete library a backend is bound to.
type Info struct {
	Name        string
	LibraryPath string
	Version     string
}

// Backend bundles the four typed kernel sets of one concrete binding.
type Backend struct {
	Info Info

	Float32    Kernels[float32]
	Float64    Kernels[float64]
	Complex64  Kernels[complex64]
	Complex128 Kernels[complex128]

	closeFn func() error
}

// NewBackend wires a backend from its typed kernel sets. closeFn may be nil
// for backends with no resources to release.
func NewBackend(info Info, f32 Kernels[float32], f64 Kernels[float64], c64 Kernels[complex64], c128 Kernels[complex128], closeFn func() error) *Backend {
	return &Backend{
		Info:       info,
		Float32:    f32,
		Float64:    f64,
		Complex64:  c64,
		Complex128: c128,
		closeFn:    closeFn,
	}
}

// Close releases backend resources. Safe to call multiple times.
func (b *Backend) Close() error {
	if b.closeFn == nil {
		return nil
	}

	fn := b.closeFn
	b.closeFn = nil

	return fn()
}
