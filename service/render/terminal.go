package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

const defaultWordWrap = 120

// Terminal renders markdown with ANSI styling for the current terminal background
func Terminal(markdown string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(defaultWordWrap),
	)
	if err != nil {
		return "", fmt.Errorf("error creating terminal renderer: %w", err)
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("error rendering markdown: %w", err)
	}
	return out, nil
}
