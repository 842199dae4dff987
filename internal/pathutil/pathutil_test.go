package pathutil

import (
	"path/filepath"
	"testing"
)

func TestExpand_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := Expand("  ~/a/b ")
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if want := filepath.Join(home, "a/b"); got != want {
		t.Fatalf("Expand = %q, want %q", got, want)
	}
}

func TestExpand_EmptyErrors(t *testing.T) {
	if _, err := Expand("   "); err == nil {
		t.Fatalf("Expand returned nil error, want error")
	}
}

func TestExpandOr_UsesFallbackWhenBlank(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandOr("", "~/fallback.toml")
	if err != nil {
		t.Fatalf("ExpandOr returned error: %v", err)
	}
	if want := filepath.Join(home, "fallback.toml"); got != want {
		t.Fatalf("ExpandOr = %q, want %q", got, want)
	}

	abs := filepath.Join(home, "given.toml")
	if got, _ := ExpandOr(abs, "~/fallback.toml"); got != abs {
		t.Fatalf("ExpandOr(abs) = %q, want %q", got, abs)
	}
}
