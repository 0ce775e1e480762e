package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

const DefaultWrapWidth = 100

// RenderTerminal styles Markdown for an ANSI terminal.
func RenderTerminal(markdown string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
