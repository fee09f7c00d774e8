package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/cli/go-gh/v2/pkg/markdown"
)

// TerminalRenderer prints replies, as markdown on a terminal or verbatim
// otherwise.
type TerminalRenderer struct {
	out       io.Writer
	markdown  *glamour.TermRenderer
	plainText bool
}

// NewTerminalRenderer returns a renderer writing to out. If the markdown
// renderer cannot be built it falls back to plain text.
func NewTerminalRenderer(out io.Writer, usePlainText bool) *TerminalRenderer {
	var md *glamour.TermRenderer
	if !usePlainText {
		var err error
		md, err = glamour.NewTermRenderer(
			markdown.WithWrap(120),
			glamour.WithAutoStyle(),
		)
		if err != nil {
			usePlainText = true
		}
	}

	return &TerminalRenderer{
		out:       out,
		markdown:  md,
		plainText: usePlainText,
	}
}

// Render writes content followed by a newline.
func (t *TerminalRenderer) Render(content string) error {
	if t.plainText {
		_, err := fmt.Fprintln(t.out, content)
		return err
	}

	mdContent, err := t.markdown.Render(content)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = fmt.Fprintln(t.out, strings.TrimSpace(mdContent))
	return err
}

// ShouldUsePlainText reports whether output to out should skip markdown
// rendering: when forced, when out is not a terminal, or when NO_COLOR or
// TERM=dumb is set.
func ShouldUsePlainText(out io.Writer, force bool) bool {
	if force {
		return true
	}

	f, ok := out.(*os.File)
	if !ok {
		return true
	}
	if fileInfo, _ := f.Stat(); fileInfo == nil || (fileInfo.Mode()&os.ModeCharDevice) == 0 {
		return true
	}

	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	if term := os.Getenv("TERM"); term == "dumb" {
		return true
	}
	return false
}
