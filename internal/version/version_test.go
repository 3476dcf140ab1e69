package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	v, c, d := Info()
	if v == "" || c == "" || d == "" {
		t.Fatalf("expected non-empty build info, got version=%q commit=%q date=%q", v, c, d)
	}
}

func TestString(t *testing.T) {
	s := String()
	for _, field := range []string{"version=", "commit=", "date="} {
		if !strings.Contains(s, field) {
			t.Fatalf("expected %q in %q", field, s)
		}
	}

	v, c, d := Info()
	if !strings.Contains(s, v) || !strings.Contains(s, c) || !strings.Contains(s, d) {
		t.Fatalf("String() should render Info values, got %q", s)
	}
}
