package main

import (
	"fmt"
	"os"

	"github.com/example/go-blasbridge/internal/bridge"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Report the selected kernel backend and its library",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			backend, err := bridge.Open(cfg.Kernel)
			if err != nil {
				return err
			}
			defer func() { _ = backend.Close() }()

			fmt.Fprintf(os.Stdout, "backend: %s\n", backend.Info.Name)
			if backend.Info.LibraryPath != "" {
				fmt.Fprintf(os.Stdout, "library: %s\n", backend.Info.LibraryPath)
			}
			if backend.Info.Version != "" {
				fmt.Fprintf(os.Stdout, "version: %s\n", backend.Info.Version)
			}
			fmt.Fprintf(os.Stdout, "workers: %d\n", cfg.Parallel.Workers)
			fmt.Fprintf(os.Stdout, "sequential: %v\n", cfg.Parallel.Sequential)

			return nil
		},
	}

	return cmd
}
