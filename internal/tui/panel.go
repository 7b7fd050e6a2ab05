package tui

import (
	"time"

	"github.com/colonyops/toasty/internal/core/notify"
)

// panel is one toast on the terminal surface. Its state is guarded by the
// surface lock.
type panel struct {
	surface *Surface
	state   PanelState
	action  func()
	anims   []*animation
}

func (p *panel) SetSeverity(level notify.Level) {
	p.surface.update(func() { p.state.Level = level })
}

func (p *panel) SetBackground(material notify.Material) {
	p.surface.update(func() { p.state.Material = material })
}

func (p *panel) SetMessage(message string) {
	p.surface.update(func() { p.state.Message = message })
}

func (p *panel) SetProgress(visible bool, value float64) {
	p.surface.update(func() {
		p.state.InProgress = visible
		p.state.Progress = value
	})
}

func (p *panel) SetClosable(closable bool) {
	p.surface.update(func() { p.state.Closable = closable })
}

func (p *panel) SetAction(text string, fn func()) {
	p.surface.update(func() {
		p.state.ActionText = text
		p.action = fn
		if text == "" {
			p.action = nil
		}
	})
}

func (p *panel) SetOpen(open bool) {
	p.surface.update(func() { p.state.Open = open })
}

func (p *panel) SetOpacity(v float64) {
	p.surface.update(func() { p.set(propOpacity, v) })
}

func (p *panel) SetOffsetY(v float64) {
	p.surface.update(func() { p.set(propOffsetY, v) })
}

func (p *panel) SetScale(v float64) {
	p.surface.update(func() { p.set(propScale, v) })
}

func (p *panel) Fade(to float64, d time.Duration) <-chan struct{} {
	return p.surface.animate(p, propOpacity, to, d)
}

func (p *panel) Scale(to float64, d time.Duration) <-chan struct{} {
	return p.surface.animate(p, propScale, to, d)
}

func (p *panel) TranslateY(to float64, d time.Duration) <-chan struct{} {
	return p.surface.animate(p, propOffsetY, to, d)
}

func (p *panel) get(prop property) float64 {
	switch prop {
	case propOpacity:
		return p.state.Opacity
	case propOffsetY:
		return p.state.OffsetY
	default:
		return p.state.Scale
	}
}

func (p *panel) set(prop property, v float64) {
	switch prop {
	case propOpacity:
		p.state.Opacity = v
	case propOffsetY:
		p.state.OffsetY = v
	default:
		p.state.Scale = v
	}
}
