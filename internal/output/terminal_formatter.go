package output

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/rpgo/lifeplan-simulator/internal/domain"
)

// TerminalFormatter renders the markdown report with ANSI styling.
type TerminalFormatter struct {
	// Style is a glamour standard style name; empty selects "auto".
	Style string
	// Width wraps text at this many columns; zero selects 120.
	Width int
}

func (t TerminalFormatter) Name() string { return "terminal" }

func (t TerminalFormatter) Format(doc *domain.Document) ([]byte, error) {
	md, err := MarkdownFormatter{}.Format(doc)
	if err != nil {
		return nil, err
	}
	style := t.Style
	if style == "" {
		style = "auto"
	}
	width := t.Width
	if width == 0 {
		width = 120
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("terminal renderer: %w", err)
	}
	out, err := r.Render(string(md))
	if err != nil {
		return nil, fmt.Errorf("terminal render: %w", err)
	}
	return []byte(out), nil
}
