//go:build netlib && cgo

package bridge

import (
	"github.com/example/go-blasbridge/internal/kernel"
	"github.com/example/go-blasbridge/internal/kernel/netlib"
)

func openNetlib() (*kernel.Backend, error) {
	return netlib.New(), nil
}
