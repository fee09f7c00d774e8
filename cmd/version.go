package cmd

import (
	"bytes"
	"runtime"

	"github.com/akashicode/weather/internal/display"
)

// These are set at build time via -ldflags.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// versionText is printed by --version.
func versionText() string {
	var buf bytes.Buffer
	buf.WriteString("weather " + version + "\n")
	display.KeyValue(&buf, "commit", commit)
	display.KeyValue(&buf, "built", buildDate)
	display.KeyValue(&buf, "go version", runtime.Version())
	display.KeyValue(&buf, "os/arch", runtime.GOOS+"/"+runtime.GOARCH)
	return buf.String()
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionText())
}
