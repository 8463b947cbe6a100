package bench

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/example/go-blasbridge/internal/kernel/gopure"
)

func TestParseOp(t *testing.T) {
	tests := []struct {
		raw     string
		want    Op
		wantErr bool
	}{
		{raw: "dot", want: OpDot},
		{raw: " GEMM ", want: OpGemm},
		{raw: "potrf", want: OpPotrf},
		{raw: "axpy", want: OpAxpy},
		{raw: "scal", want: OpScal},
		{raw: "cholesky", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseOp(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseOp(%q) succeeded; want error", tt.raw)
			}
			continue
		}

		if err != nil {
			t.Errorf("ParseOp(%q) returned error: %v", tt.raw, err)
			continue
		}

		if got != tt.want {
			t.Errorf("ParseOp(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestComputeStats(t *testing.T) {
	durations := []time.Duration{
		30 * time.Millisecond,
		10 * time.Millisecond,
		20 * time.Millisecond,
	}

	stats := ComputeStats(durations)

	if stats.Min != 10*time.Millisecond {
		t.Errorf("Min = %v; want 10ms", stats.Min)
	}
	if stats.Max != 30*time.Millisecond {
		t.Errorf("Max = %v; want 30ms", stats.Max)
	}
	if stats.Mean != 20*time.Millisecond {
		t.Errorf("Mean = %v; want 20ms", stats.Mean)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	if got := ComputeStats(nil); got != (Stats{}) {
		t.Errorf("ComputeStats(nil) = %+v; want zero", got)
	}
}

func TestRun_AllOps(t *testing.T) {
	b := gopure.New()
	defer func() { _ = b.Close() }()

	for _, op := range Ops {
		spec := Spec{Op: op, Size: 16, Runs: 3}

		results, stats, err := Run(b, spec)
		if err != nil {
			t.Fatalf("Run(%s) returned error: %v", op, err)
		}

		if len(results) != 3 {
			t.Fatalf("Run(%s) produced %d results; want 3", op, len(results))
		}

		if !results[0].Cold {
			t.Errorf("Run(%s): first run not marked cold", op)
		}
		if results[1].Cold || results[2].Cold {
			t.Errorf("Run(%s): warm runs marked cold", op)
		}

		if stats.Min > stats.Mean || stats.Mean > stats.Max {
			t.Errorf("Run(%s): inconsistent stats %+v", op, stats)
		}
	}
}

func TestRun_RejectsBadSpec(t *testing.T) {
	b := gopure.New()
	defer func() { _ = b.Close() }()

	if _, _, err := Run(b, Spec{Op: OpDot, Size: 0, Runs: 3}); err == nil {
		t.Error("expected error for size 0")
	}

	if _, _, err := Run(b, Spec{Op: OpDot, Size: 8, Runs: 0}); err == nil {
		t.Error("expected error for runs 0")
	}

	if _, _, err := Run(b, Spec{Op: Op("qr"), Size: 8, Runs: 1}); err == nil {
		t.Error("expected error for unknown op")
	}
}

func TestFormatTable(t *testing.T) {
	spec := Spec{Op: OpGemm, Size: 64, Runs: 2}
	runs := []RunResult{
		{Index: 0, Cold: true, Duration: 2 * time.Millisecond, GFLOPS: 0.25},
		{Index: 1, Duration: time.Millisecond, GFLOPS: 0.5},
	}
	stats := ComputeStats([]time.Duration{2 * time.Millisecond, time.Millisecond})

	var buf bytes.Buffer
	FormatTable(spec, runs, stats, &buf)

	out := buf.String()
	for _, want := range []string{"op=gemm size=64 runs=2", "GFLOPS", "yes", "(mean)"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	spec := Spec{Op: OpDot, Size: 128, Runs: 1}
	runs := []RunResult{{Index: 0, Cold: true, Duration: time.Millisecond, GFLOPS: 0.256}}
	stats := ComputeStats([]time.Duration{time.Millisecond})

	var buf bytes.Buffer
	if err := FormatJSON(spec, runs, stats, &buf); err != nil {
		t.Fatalf("FormatJSON returned error: %v", err)
	}

	var report struct {
		Op   string `json:"op"`
		Size int    `json:"size"`
		Runs []struct {
			Cold       bool    `json:"cold"`
			DurationMS float64 `json:"duration_ms"`
		} `json:"runs"`
	}

	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if report.Op != "dot" || report.Size != 128 || len(report.Runs) != 1 || !report.Runs[0].Cold {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestSPDMatrixFactors(t *testing.T) {
	b := gopure.New()
	defer func() { _ = b.Close() }()

	// The generated matrix must be positive definite for every benchmark
	// run, so potrf on it must never fail.
	_, _, err := Run(b, Spec{Op: OpPotrf, Size: 32, Runs: 2})
	if err != nil {
		t.Fatalf("potrf bench failed: %v", err)
	}
}
