package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/example/go-blasbridge/internal/bridge"
	"github.com/example/go-blasbridge/internal/config"
	"github.com/example/go-blasbridge/internal/doctor"
	"github.com/example/go-blasbridge/internal/kernel"
	"github.com/example/go-blasbridge/internal/kernel/openblas"
	"github.com/example/go-blasbridge/internal/parallel"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run local backend and library checks",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			backend, err := config.NormalizeBackend(cfg.Kernel.Backend)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "backend: %s\n", backend)

			dcfg := doctor.Config{
				OpenBackend: func() (*kernel.Backend, error) {
					return bridge.Open(cfg.Kernel)
				},
				LocateLibrary: func() (string, error) {
					return openblas.Locate(cfg.Kernel.LibraryPath)
				},
				SkipLibrary: backend != config.BackendOpenBLAS,
				Parallel: parallel.Config{
					Sequential: cfg.Parallel.Sequential,
					Workers:    cfg.Parallel.Workers,
				},
			}

			result := doctor.Run(dcfg, os.Stdout)

			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(os.Stderr, "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(os.Stdout, "doctor checks passed")

			return nil
		},
	}

	return cmd
}
