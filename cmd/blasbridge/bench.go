package main

import (
	"fmt"
	"os"

	"github.com/example/go-blasbridge/internal/bench"
	"github.com/example/go-blasbridge/internal/bridge"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		opName string
		size   int
		runs   int
		format string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark kernel operations against the selected backend",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			op, err := bench.ParseOp(opName)
			if err != nil {
				return err
			}
			if runs < 1 {
				return fmt.Errorf("--runs must be at least 1")
			}
			if size < 1 {
				return fmt.Errorf("--size must be at least 1")
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be 'table' or 'json'")
			}

			backend, err := bridge.Open(cfg.Kernel)
			if err != nil {
				return err
			}
			defer func() { _ = backend.Close() }()

			spec := bench.Spec{Op: op, Size: size, Runs: runs}

			results, stats, err := bench.Run(backend, spec)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return bench.FormatJSON(spec, results, stats, os.Stdout)
			default:
				bench.FormatTable(spec, results, stats, os.Stdout)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&opName, "op", "gemm", "Operation to benchmark: dot|axpy|scal|gemm|potrf")
	cmd.Flags().IntVar(&size, "size", 512, "Problem size (vector length or matrix dimension)")
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of timed runs")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")

	return cmd
}
