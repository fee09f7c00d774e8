package display

import "os"

// ANSI color codes
const (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	red   = "\033[31m"
	cyan  = "\033[36m"
	white = "\033[37m"

	brightRed  = "\033[91m"
	brightCyan = "\033[96m"
)

// Color reports whether helpers emit ANSI codes. It is off when NO_COLOR is
// set or TERM is dumb.
var Color = colorEnabled()

func colorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// c returns code, or nothing when color is disabled.
func c(code string) string {
	if !Color {
		return ""
	}
	return code
}
