package tui

import (
	"fmt"
	"math"
	"strings"

	"charm.land/bubbles/v2/progress"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/toasty/internal/core/styles"
	"github.com/colonyops/toasty/internal/host"
)

const (
	// offsetPerRow converts a visual's vertical offset into terminal rows.
	offsetPerRow = 20.0
	// minOpacity is the opacity below which a panel is not drawn.
	minOpacity    = 0.05
	minToastWidth = 16
)

// ToastView renders surface panels and composites them over a background.
type ToastView struct {
	width  int
	anchor host.Anchor
}

func NewToastView(width int, anchor host.Anchor) *ToastView {
	return &ToastView{width: max(width, minToastWidth), anchor: anchor}
}

func (v *ToastView) SetWidth(width int) {
	v.width = max(width, minToastWidth)
}

// RenderPanel renders one panel at its current opacity and scale.
func (v *ToastView) RenderPanel(p PanelState, spinnerFrame string) string {
	opacity := min(max(p.Opacity, 0), 1)
	scale := min(max(p.Scale, 0.5), 1)

	page := styles.ColorBackground
	bg := styles.Fade(styles.MaterialBackground(p.Material), page, opacity)
	fg := styles.Fade(styles.ColorForeground, bg, opacity)
	muted := styles.Fade(styles.ColorMuted, bg, opacity)
	accent := styles.Fade(styles.LevelColor(p.Level), bg, opacity)

	width := max(int(math.Round(float64(v.width)*scale)), minToastWidth)
	// left border + horizontal padding
	inner := width - 3

	accentStyle := lipgloss.NewStyle().Foreground(accent).Background(bg)
	textStyle := lipgloss.NewStyle().Foreground(fg).Background(bg)
	mutedStyle := lipgloss.NewStyle().Foreground(muted).Background(bg)

	icon := styles.LevelIcon(p.Level)
	closeMark := ""
	if p.Closable {
		closeMark = " " + styles.IconClose
	}
	msgWidth := max(inner-ansi.StringWidth(icon)-1-ansi.StringWidth(closeMark), 1)
	message := ansi.Truncate(p.Message, msgWidth, "…")
	pad := max(msgWidth-ansi.StringWidth(message), 0)

	header := accentStyle.Render(icon+" ") +
		textStyle.Render(message+strings.Repeat(" ", pad)) +
		mutedStyle.Render(closeMark)

	lines := []string{header}

	if p.InProgress {
		lines = append(lines, v.renderProgress(p.Progress, inner, spinnerFrame, accentStyle, mutedStyle))
	}

	if p.ActionText != "" {
		button := lipgloss.NewStyle().
			Foreground(bg).
			Background(accent).
			Padding(0, 1).
			Render(p.ActionText + " (a)")
		lines = append(lines, button)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(accent).
		Background(bg).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

func (v *ToastView) renderProgress(value float64, width int, spinnerFrame string, accent, muted lipgloss.Style) string {
	if value < 0 {
		return accent.Render(spinnerFrame) + muted.Render(" working…")
	}

	label := fmt.Sprintf(" %3.0f%%", value)
	bar := progress.New(
		progress.WithWidth(max(width-len(label), 1)),
		progress.WithoutPercentage(),
	)
	return bar.ViewAs(value/100) + muted.Render(label)
}

// Overlay composites panels over background against the anchor edge,
// right-aligned. Panels slid past the screen edge are clipped.
func (v *ToastView) Overlay(background string, panels []PanelState, spinnerFrame string, width, height int) string {
	if len(panels) == 0 {
		return background
	}

	layers := []*lipgloss.Layer{lipgloss.NewLayer(background)}

	place := func(p PanelState) (string, int) {
		rendered := v.RenderPanel(p, spinnerFrame)
		return rendered, lipgloss.Height(rendered)
	}

	if v.anchor == host.AnchorTop {
		cursor := 0
		for _, p := range panels {
			rendered, h := place(p)
			y := cursor - offsetRows(p.OffsetY)
			if layer := clippedLayer(rendered, y, height, p.Opacity); layer != nil {
				layers = append(layers, layer.X(max(width-lipgloss.Width(rendered)-1, 0)).Z(2))
			}
			cursor += h
		}
	} else {
		cursor := height
		for i := len(panels) - 1; i >= 0; i-- {
			p := panels[i]
			rendered, h := place(p)
			cursor -= h
			y := cursor + offsetRows(p.OffsetY)
			if layer := clippedLayer(rendered, y, height, p.Opacity); layer != nil {
				layers = append(layers, layer.X(max(width-lipgloss.Width(rendered)-1, 0)).Z(2))
			}
		}
	}

	return lipgloss.NewCompositor(layers...).Render()
}

func offsetRows(offset float64) int {
	return int(math.Round(offset / offsetPerRow))
}

// clippedLayer positions rendered at row y, dropping the rows that fall
// outside [0, height). It returns nil when nothing remains visible.
func clippedLayer(rendered string, y, height int, opacity float64) *lipgloss.Layer {
	if opacity < minOpacity {
		return nil
	}

	lines := strings.Split(rendered, "\n")
	if y < 0 {
		if -y >= len(lines) {
			return nil
		}
		lines = lines[-y:]
		y = 0
	}
	if y+len(lines) > height {
		keep := height - y
		if keep <= 0 {
			return nil
		}
		lines = lines[:keep]
	}

	return lipgloss.NewLayer(strings.Join(lines, "\n")).Y(y)
}
