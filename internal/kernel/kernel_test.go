package kernel

import (
	"strings"
	"testing"
)

func TestTransposeString(t *testing.T) {
	tests := []struct {
		tr   Transpose
		want string
	}{
		{NoTrans, "n"},
		{Trans, "t"},
		{ConjTrans, "c"},
		{Transpose(42), "Transpose(42)"},
	}

	for _, tt := range tests {
		if got := tt.tr.String(); got != tt.want {
			t.Errorf("Transpose(%d).String() = %q; want %q", byte(tt.tr), got, tt.want)
		}
	}
}

func TestUploString(t *testing.T) {
	if got := Upper.String(); got != "upper" {
		t.Errorf("Upper.String() = %q; want %q", got, "upper")
	}
	if got := Lower.String(); got != "lower" {
		t.Errorf("Lower.String() = %q; want %q", got, "lower")
	}
}

func TestNotPositiveDefiniteError(t *testing.T) {
	err := &NotPositiveDefiniteError{Minor: 3}

	if !strings.Contains(err.Error(), "leading minor 3") {
		t.Errorf("unexpected error text: %q", err.Error())
	}
}

func TestBackendCloseIsIdempotent(t *testing.T) {
	calls := 0
	b := NewBackend(Info{Name: "test"}, nil, nil, nil, nil, func() error {
		calls++
		return nil
	})

	if err := b.Close(); err != nil {
		t.Fatalf("first Close returned error: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}

	if calls != 1 {
		t.Fatalf("close function called %d times; want 1", calls)
	}
}

func TestBackendCloseWithoutCloser(t *testing.T) {
	b := NewBackend(Info{Name: "test"}, nil, nil, nil, nil, nil)

	if err := b.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}
