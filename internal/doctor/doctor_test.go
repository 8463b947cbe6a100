package doctor

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/example/go-blasbridge/internal/kernel"
	"github.com/example/go-blasbridge/internal/kernel/gopure"
	"github.com/example/go-blasbridge/internal/parallel"
)

func passingConfig() Config {
	return Config{
		OpenBackend: func() (*kernel.Backend, error) {
			return gopure.New(), nil
		},
		SkipLibrary: true,
		Parallel:    parallel.Config{Workers: 4},
	}
}

func TestRun_AllChecksPass(t *testing.T) {
	var buf bytes.Buffer

	res := Run(passingConfig(), &buf)

	if res.Failed() {
		t.Fatalf("checks failed: %v\n%s", res.Failures(), buf.String())
	}

	out := buf.String()
	for _, want := range []string{
		PassMark + " blas library: skipped",
		PassMark + " kernel backend: gopure",
		PassMark + " kernel smoke test",
		PassMark + " parallel loops: parallel, workers=4",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_BackendOpenFailure(t *testing.T) {
	cfg := passingConfig()
	cfg.OpenBackend = func() (*kernel.Backend, error) {
		return nil, errors.New("no such library")
	}

	var buf bytes.Buffer
	res := Run(cfg, &buf)

	if !res.Failed() {
		t.Fatal("expected failure when backend cannot open")
	}

	if !strings.Contains(buf.String(), FailMark+" kernel backend") {
		t.Errorf("output missing backend failure line:\n%s", buf.String())
	}
}

func TestRun_LibraryMissing(t *testing.T) {
	cfg := passingConfig()
	cfg.SkipLibrary = false
	cfg.LocateLibrary = func() (string, error) {
		return "", errors.New("not found")
	}

	var buf bytes.Buffer
	res := Run(cfg, &buf)

	if !res.Failed() {
		t.Fatal("expected failure when library is missing")
	}

	failures := res.Failures()
	found := false
	for _, f := range failures {
		if strings.Contains(f, "blas library") {
			found = true
		}
	}
	if !found {
		t.Errorf("failures %v missing blas library entry", failures)
	}
}

func TestRun_LibraryFound(t *testing.T) {
	cfg := passingConfig()
	cfg.SkipLibrary = false
	cfg.LocateLibrary = func() (string, error) {
		return "/usr/lib/libopenblas.so", nil
	}

	var buf bytes.Buffer
	res := Run(cfg, &buf)

	if res.Failed() {
		t.Fatalf("checks failed: %v", res.Failures())
	}

	if !strings.Contains(buf.String(), "/usr/lib/libopenblas.so") {
		t.Errorf("output missing library path:\n%s", buf.String())
	}
}

func TestRun_SequentialModeReported(t *testing.T) {
	cfg := passingConfig()
	cfg.Parallel = parallel.Config{Sequential: true, Workers: 8}

	var buf bytes.Buffer
	res := Run(cfg, &buf)

	if res.Failed() {
		t.Fatalf("checks failed: %v", res.Failures())
	}

	if !strings.Contains(buf.String(), "sequential, workers=8") {
		t.Errorf("output missing sequential mode line:\n%s", buf.String())
	}
}

func TestAddFailure(t *testing.T) {
	var res Result

	res.AddFailure("external check failed")

	if !res.Failed() {
		t.Fatal("expected Failed() after AddFailure")
	}

	if got := res.Failures(); len(got) != 1 || got[0] != "external check failed" {
		t.Errorf("Failures() = %v", got)
	}
}
