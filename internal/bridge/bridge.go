// Package bridge selects and opens a concrete kernel backend from
// configuration.
package bridge

import (
	"fmt"
	"log/slog"

	"github.com/example/go-blasbridge/internal/config"
	"github.com/example/go-blasbridge/internal/kernel"
	"github.com/example/go-blasbridge/internal/kernel/gopure"
	"github.com/example/go-blasbridge/internal/kernel/openblas"
)

// Open returns the backend named by cfg. Callers own the returned backend
// and must Close it when done.
func Open(cfg config.KernelConfig) (*kernel.Backend, error) {
	backend, err := config.NormalizeBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}

	var b *kernel.Backend

	switch backend {
	case config.BackendGoPure:
		b = gopure.New()
	case config.BackendOpenBLAS:
		b, err = openblas.New(cfg.LibraryPath)
	case config.BackendNetlib:
		b, err = openNetlib()
	default:
		err = fmt.Errorf("unknown backend %q", backend)
	}

	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", backend, err)
	}

	slog.Info(
		"opened kernel backend",
		"backend", b.Info.Name,
		"library", b.Info.LibraryPath,
		"version", b.Info.Version,
	)

	return b, nil
}
