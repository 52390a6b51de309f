package review

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-postcast/internal/domain"
)

var (
	previewTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	previewMeta = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
	previewBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// RenderPreview renders an item the way the console shows it before a
// decision.
func RenderPreview(item domain.Item) string {
	format := item.Format.Label
	if format == "" {
		format = "-"
	}
	meta := []string{
		fmt.Sprintf("Topic: %s", item.Topic),
		fmt.Sprintf("Type: %s", format),
	}
	if item.UsedFallback {
		meta = append(meta, "Source: fallback template")
	}

	content := strings.Join([]string{
		previewTitle.Render("Post Preview"),
		previewMeta.Render(strings.Join(meta, "\n")),
		"",
		item.Body,
	}, "\n")
	return previewBox.Render(content)
}
