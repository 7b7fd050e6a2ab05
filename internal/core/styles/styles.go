// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/colonyops/toasty/internal/core/notify"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	SuccessStyle       lipgloss.Style
	InfoStyle          lipgloss.Style
	WarningStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style

	// TUI styles.
	TitleStyle               lipgloss.Style
	HintStyle                lipgloss.Style
	KeyStyle                 lipgloss.Style
	ModalStyle               lipgloss.Style
	ModalTitleStyle          lipgloss.Style
	ModalHelpStyle           lipgloss.Style
	ModalButtonStyle         lipgloss.Style
	ModalButtonSelectedStyle lipgloss.Style
)

// SetTheme applies a palette to all exported colors and styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	CommandHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	InfoStyle = lipgloss.NewStyle().Foreground(ColorPrimary)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorError)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)
	HintStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	KeyStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
	ModalButtonStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted)
	ModalButtonSelectedStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

// LevelColor returns the accent color of a severity level.
func LevelColor(level notify.Level) color.Color {
	switch level {
	case notify.LevelSuccess:
		return ColorSuccess
	case notify.LevelWarning:
		return ColorWarning
	case notify.LevelError:
		return ColorError
	default:
		return ColorSecondary
	}
}

// LevelIcon returns the glyph shown before a notification message.
func LevelIcon(level notify.Level) string {
	switch level {
	case notify.LevelSuccess:
		return IconSuccess
	case notify.LevelWarning:
		return IconWarning
	case notify.LevelError:
		return IconError
	default:
		return IconInfo
	}
}

// MaterialBackground returns the panel background of a material. Solid is
// the surface color, acrylic blends it toward the page background and mica
// tints the page background with the primary color.
func MaterialBackground(m notify.Material) color.Color {
	switch m {
	case notify.MaterialSolid:
		return ColorSurface
	case notify.MaterialMica:
		return Blend(ColorBackground, ColorPrimary, 0.08)
	default:
		return Blend(ColorSurface, ColorBackground, 0.45)
	}
}

// Blend mixes a toward b by t in [0,1] in Lab space.
func Blend(a, b color.Color, t float64) color.Color {
	ca, okA := colorful.MakeColor(a)
	cb, okB := colorful.MakeColor(b)
	if !okA || !okB {
		return a
	}
	t = min(max(t, 0), 1)
	return ca.BlendLab(cb, t).Clamped()
}

// Fade renders fg at the given opacity over bg.
func Fade(fg, bg color.Color, opacity float64) color.Color {
	return Blend(bg, fg, opacity)
}

func colorHexPtr(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := colorHexPtr(ColorForeground)
	primary := colorHexPtr(ColorPrimary)
	secondary := colorHexPtr(ColorSecondary)
	muted := colorHexPtr(ColorMuted)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = primary
	cfg.H2.Color = primary
	cfg.H3.Color = secondary

	cfg.Code.Color = secondary
	cfg.Table.Color = fg
	cfg.HorizontalRule.Color = muted

	return cfg
}
