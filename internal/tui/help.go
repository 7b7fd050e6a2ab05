package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/toasty/internal/core/styles"
)

const helpMarkdown = `# toasty

| Key | Action |
|-----|--------|
| s / i / w / e | success, info, warning, error notification |
| p | upload with progress |
| f | send a file (cancelable) |
| c | toggle connection loss |
| t / T | start / cancel maintenance countdown |
| a | press the newest notification's action |
| x | close the newest notification |
| d | dismiss all |
| ? | toggle help |
| q | quit |
`

// renderHelp renders the key reference as markdown. Rendering errors fall
// back to the raw text.
func renderHelp(width int) string {
	style := styles.GlamourStyle()
	noMargin := uint(0)
	style.Document.Margin = &noMargin

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw help")
		return helpMarkdown
	}

	rendered, err := renderer.Render(helpMarkdown)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render help, showing raw help")
		return helpMarkdown
	}
	return strings.TrimSpace(rendered)
}
