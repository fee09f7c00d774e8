package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// ────────────────────────────────────────────────────────────
// Log-level helpers (colored prefixes for CLI output)
// ────────────────────────────────────────────────────────────

// ErrorMsg prints a red error message to stderr.
func ErrorMsg(msg string) {
	FprintError(os.Stderr, msg)
}

// FprintError prints a red error message to w.
func FprintError(w io.Writer, msg string) {
	fmt.Fprintf(w, "  %s%s✗%s %s%s%s\n", c(brightRed), c(bold), c(reset), c(red), msg, c(reset))
}

// Usage prints a usage line followed by a dimmed hint.
func Usage(w io.Writer, usage, hint string) {
	fmt.Fprintf(w, "%s%s%s%s\n", c(bold), c(brightCyan), usage, c(reset))
	if hint != "" {
		fmt.Fprintf(w, "  %s%s%s%s\n", c(dim), c(white), hint, c(reset))
	}
}

// KeyValue prints a labeled value.
func KeyValue(w io.Writer, key string, value interface{}) {
	fmt.Fprintf(w, "    %s%s%s  %s%v%s\n", c(dim), padRight(key, 18), c(reset), c(cyan), value, c(reset))
}

// FormatDuration renders d compactly: μs below a millisecond, ms below a
// second, tenths of a second above.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dμs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
