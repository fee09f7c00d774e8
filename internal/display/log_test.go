package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{250 * time.Microsecond, "250μs"},
		{42 * time.Millisecond, "42ms"},
		{1500 * time.Millisecond, "1.5s"},
		{10 * time.Second, "10.0s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.in))
		})
	}
}

func TestUsage_NoColor(t *testing.T) {
	prev := Color
	Color = false
	t.Cleanup(func() { Color = prev })

	var buf bytes.Buffer
	Usage(&buf, "Usage: weather <MESSAGE> <REGION>", "both are required")
	FprintError(&buf, "missing region")
	KeyValue(&buf, "Model", "gpt-5-nano")

	out := buf.String()
	assert.NotContains(t, out, "\033[")
	assert.Contains(t, out, "Usage: weather <MESSAGE> <REGION>\n")
	assert.Contains(t, out, "  both are required\n")
	assert.Contains(t, out, "✗ missing region")
	assert.Contains(t, out, "Model"+strings.Repeat(" ", 15)+"gpt-5-nano")
}

func TestUsage_Color(t *testing.T) {
	prev := Color
	Color = true
	t.Cleanup(func() { Color = prev })

	var buf bytes.Buffer
	Usage(&buf, "usage", "")
	assert.Contains(t, buf.String(), bold+brightCyan+"usage"+reset)
}
