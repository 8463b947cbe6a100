//go:build !netlib || !cgo

package bridge

import (
	"errors"

	"github.com/example/go-blasbridge/internal/kernel"
)

func openNetlib() (*kernel.Backend, error) {
	return nil, errors.New("binary built without netlib support (rebuild with -tags netlib)")
}
