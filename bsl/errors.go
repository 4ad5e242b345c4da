package bsl

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// MaxErrorLength bounds the length of an error message in bytes.
const MaxErrorLength = 512

// SourceError represents an error with source location information.
type SourceError struct {
	Message string
	Pos     Position
	Source  string // Original source code (for context display)
	// Err is the underlying cause, such as an *ir.LimitError.
	Err error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Pos.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Unwrap returns the underlying cause.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// FormatWithContext returns the error message with source context.
// Shows the problematic line with a caret pointing to the error location.
// The caret is aligned by display width, so wide characters before the
// error position do not shift it.
func (e *SourceError) FormatWithContext() string {
	if e.Source == "" || e.Pos.Line == 0 {
		return e.Error()
	}

	lines := strings.Split(e.Source, "\n")
	lineNum := e.Pos.Line
	if lineNum < 1 || lineNum > len(lines) {
		return e.Error()
	}

	line := strings.TrimRight(lines[lineNum-1], "\r")
	col := e.Pos.Column
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}
	pad := runewidth.StringWidth(strings.ReplaceAll(line[:col-1], "\t", " "))

	// Build the error message with context
	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\n", e.Message)
	fmt.Fprintf(&sb, "  --> line %d:%d\n", lineNum, col)
	sb.WriteString("   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", lineNum, strings.ReplaceAll(line, "\t", " "))
	fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", pad))

	return sb.String()
}

// NewSourceErrorf creates a new SourceError with formatted message.
func NewSourceErrorf(pos Position, source string, format string, args ...any) *SourceError {
	return &SourceError{
		Message: truncateMessage(fmt.Sprintf(format, args...)),
		Pos:     pos,
		Source:  source,
	}
}

// truncateMessage cuts msg to MaxErrorLength bytes on a rune boundary.
func truncateMessage(msg string) string {
	if len(msg) <= MaxErrorLength {
		return msg
	}
	cut := MaxErrorLength
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}
