package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/five82/roster/internal/userapi"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"  short  ", 10, "short"},
		{"exactly", 7, "exactly"},
		{"longer text", 6, "longe…"},
		{"abc", 1, "a"},
		{"abc", 0, "abc"},
		{"日本語テキスト", 4, "日本語…"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestFieldLabel(t *testing.T) {
	cases := map[string]string{
		"catchPhrase": "Catch Phrase",
		"zip_code":    "Zip Code",
		"last-login":  "Last Login",
		"nickname":    "Nickname",
		"  ":          "",
	}
	for in, want := range cases {
		if got := fieldLabel(in); got != want {
			t.Fatalf("fieldLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPadRightAndOrDash(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q, want %q", got, "ab  ")
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Fatalf("padRight longer = %q, want unchanged", got)
	}
	if got := orDash("  "); got != "-" {
		t.Fatalf("orDash blank = %q, want -", got)
	}
	if got := orDash("x"); got != "x" {
		t.Fatalf("orDash = %q, want x", got)
	}
}

func TestScrollStart(t *testing.T) {
	cases := []struct {
		selected, total, visible int
		want                     int
	}{
		{0, 5, 10, 0},
		{0, 50, 10, 0},
		{20, 50, 10, 15},
		{49, 50, 10, 40},
	}
	for _, tc := range cases {
		if got := scrollStart(tc.selected, tc.total, tc.visible); got != tc.want {
			t.Fatalf("scrollStart(%d, %d, %d) = %d, want %d", tc.selected, tc.total, tc.visible, got, tc.want)
		}
	}
}

func TestFormatUpdated(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	cases := []struct {
		at   time.Time
		want string
	}{
		{time.Time{}, ""},
		{now.Add(-2 * time.Second), "updated just now"},
		{now.Add(-30 * time.Second), "updated 30s ago"},
		{now.Add(-5 * time.Minute), "updated 5m ago"},
		{now.Add(-3 * time.Hour), "updated 09:00"},
	}
	for _, tc := range cases {
		if got := formatUpdated(tc.at, now); got != tc.want {
			t.Fatalf("formatUpdated(%v) = %q, want %q", tc.at, got, tc.want)
		}
	}
}

func TestValidationMessage(t *testing.T) {
	err := fmt.Errorf("%w: check email, username", userapi.ErrInvalidPatch)
	if got := validationMessage(err); got != "Invalid Email, Username" {
		t.Fatalf("validationMessage = %q, want %q", got, "Invalid Email, Username")
	}
	if got := validationMessage(errors.New("boom")); got != "boom" {
		t.Fatalf("validationMessage other = %q, want boom", got)
	}
}

func TestExtraRows(t *testing.T) {
	if rows := extraRows(nil); rows != nil {
		t.Fatalf("extraRows(nil) = %#v, want nil", rows)
	}
	rows := extraRows(map[string]json.RawMessage{
		"nickname": json.RawMessage(`"Lee"`),
		"age":      json.RawMessage(`41`),
		"tags":     json.RawMessage(`["a","b"]`),
	})
	want := [][2]string{
		{"Age", "41"},
		{"Nickname", "Lee"},
		{"Tags", `["a","b"]`},
	}
	if len(rows) != len(want) {
		t.Fatalf("extraRows len = %d, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("extraRows[%d] = %q, want %q", i, rows[i], want[i])
		}
	}
}
