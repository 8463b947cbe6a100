package config

import (
	"fmt"
	"strings"
)

const (
	BackendGoPure   = "gopure"
	BackendOpenBLAS = "openblas"
	BackendNetlib   = "netlib"
)

func NormalizeBackend(raw string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(raw))
	if backend == "" {
		backend = BackendGoPure
	}
	switch backend {
	case BackendGoPure, BackendOpenBLAS, BackendNetlib:
		return backend, nil
	case "gonum", "pure":
		return BackendGoPure, nil
	case "blas", "cblas":
		return BackendOpenBLAS, nil
	default:
		return "", fmt.Errorf(
			"invalid backend %q (expected %s|%s|%s)",
			raw,
			BackendGoPure,
			BackendOpenBLAS,
			BackendNetlib,
		)
	}
}
