package bsl

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gogpu/beans/ir"
)

func TestSourceError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *SourceError
		expected string
	}{
		{
			name:     "with position",
			err:      &SourceError{Message: "expected toplevel", Pos: Position{Line: 5, Column: 10}},
			expected: "5:10: expected toplevel",
		},
		{
			name:     "without position",
			err:      &SourceError{Message: "generic error"},
			expected: "generic error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSourceError_FormatWithContext(t *testing.T) {
	source := "procedure main() -> void\n    y;\nend"
	err := &SourceError{
		Message: "couldn't find variable 'y' in scope",
		Pos:     Position{Line: 2, Column: 5},
		Source:  source,
	}

	got := err.FormatWithContext()
	want := "error: couldn't find variable 'y' in scope\n" +
		"  --> line 2:5\n" +
		"   |\n" +
		"  2|     y;\n" +
		"   |     ^\n"
	if got != want {
		t.Errorf("FormatWithContext() =\n%s\nwant:\n%s", got, want)
	}
}

func TestSourceError_FormatWithContextWide(t *testing.T) {
	// Each of the two CJK characters occupies two terminal cells.
	source := "// 日本\n\t$"
	err := &SourceError{Message: "x", Pos: Position{Line: 1, Column: len("// 日本") + 1}, Source: source}
	lines := strings.Split(err.FormatWithContext(), "\n")
	caret := lines[len(lines)-2]
	if want := "   | " + strings.Repeat(" ", 7) + "^"; caret != want {
		t.Errorf("caret line = %q, want %q", caret, want)
	}

	err = &SourceError{Message: "x", Pos: Position{Line: 2, Column: 2}, Source: source}
	lines = strings.Split(err.FormatWithContext(), "\n")
	if got := lines[3]; got != "  2|  $" {
		t.Errorf("source line = %q, want tabs replaced", got)
	}
	if got := lines[4]; got != "   |  ^" {
		t.Errorf("caret line = %q", got)
	}
}

func TestSourceError_FormatWithContextFallback(t *testing.T) {
	err := &SourceError{Message: "m", Pos: Position{Line: 9, Column: 1}, Source: "one line"}
	if got := err.FormatWithContext(); got != "9:1: m" {
		t.Errorf("got %q", got)
	}
}

func TestNewSourceErrorfTruncates(t *testing.T) {
	long := strings.Repeat("é", MaxErrorLength)
	err := NewSourceErrorf(Position{Line: 1, Column: 1}, "", "%s", long)
	if len(err.Message) > MaxErrorLength {
		t.Errorf("message length %d exceeds %d", len(err.Message), MaxErrorLength)
	}
	if !utf8.ValidString(err.Message) {
		t.Error("message was cut inside a rune")
	}

	short := NewSourceErrorf(Position{}, "", "expected '%s', not '%s'", TokenEnd, TokenEOF)
	if short.Message != "expected 'End', not 'EOF'" {
		t.Errorf("got %q", short.Message)
	}
}

func TestSourceError_Unwrap(t *testing.T) {
	limit := &ir.LimitError{What: "procedures", Limit: 1}
	err := error(&SourceError{Message: limit.Error(), Err: limit})
	var le *ir.LimitError
	if !errors.As(err, &le) || le != limit {
		t.Error("errors.As did not reach the limit error")
	}
}
