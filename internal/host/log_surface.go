package host

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/toasty/internal/core/notify"
)

// LogSurface renders notifications as log lines. Animations complete after
// their duration without drawing anything.
type LogSurface struct {
	log zerolog.Logger

	mu      sync.Mutex
	order   []*logVisual
	hitTest bool
}

func NewLogSurface(log zerolog.Logger) *LogSurface {
	return &LogSurface{log: log}
}

func (s *LogSurface) CreateVisual(id uuid.UUID) Visual {
	return &logVisual{
		id:    id,
		log:   s.log.With().Str("toast", shortID(id)).Logger(),
		scale: 1,
	}
}

func (s *LogSurface) Insert(v Visual, atHead bool) {
	lv := v.(*logVisual)

	s.mu.Lock()
	if atHead {
		s.order = append([]*logVisual{lv}, s.order...)
	} else {
		s.order = append(s.order, lv)
	}
	n := len(s.order)
	s.mu.Unlock()

	lv.log.Debug().Bool("head", atHead).Int("visible", n).Msg("inserted")
}

func (s *LogSurface) Remove(v Visual) {
	lv := v.(*logVisual)

	s.mu.Lock()
	for i, o := range s.order {
		if o == lv {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	n := len(s.order)
	s.mu.Unlock()

	lv.log.Info().Int("visible", n).Msg("dismissed")
}

func (s *LogSurface) SetHitTestVisible(visible bool) {
	s.mu.Lock()
	s.hitTest = visible
	s.mu.Unlock()
}

// Len returns the number of inserted visuals.
func (s *LogSurface) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

type logVisual struct {
	id  uuid.UUID
	log zerolog.Logger

	mu         sync.Mutex
	level      notify.Level
	message    string
	inProgress bool
	progress   float64
	actionText string
	action     func()
	open       bool
	opacity    float64
	offsetY    float64
	scale      float64
}

func (v *logVisual) SetSeverity(level notify.Level) {
	v.mu.Lock()
	v.level = level
	v.mu.Unlock()
}

func (v *logVisual) SetBackground(material notify.Material) {
	v.log.Debug().Str("material", string(material)).Msg("background")
}

func (v *logVisual) SetMessage(message string) {
	v.mu.Lock()
	v.message = message
	level := v.level
	v.mu.Unlock()

	v.log.Info().Str("level", string(level)).Msg(message)
}

func (v *logVisual) SetProgress(visible bool, value float64) {
	v.mu.Lock()
	changed := visible != v.inProgress || value != v.progress
	v.inProgress = visible
	v.progress = value
	v.mu.Unlock()

	if !changed || !visible {
		return
	}
	if value < 0 {
		v.log.Info().Msg("progress: working")
		return
	}
	v.log.Info().Float64("progress", value).Msg("progress")
}

func (v *logVisual) SetClosable(bool) {}

func (v *logVisual) SetAction(text string, fn func()) {
	v.mu.Lock()
	v.actionText = text
	v.action = fn
	v.mu.Unlock()
}

func (v *logVisual) SetOpen(open bool) {
	v.mu.Lock()
	v.open = open
	v.mu.Unlock()
}

func (v *logVisual) SetOpacity(x float64) {
	v.mu.Lock()
	v.opacity = x
	v.mu.Unlock()
}

func (v *logVisual) SetOffsetY(x float64) {
	v.mu.Lock()
	v.offsetY = x
	v.mu.Unlock()
}

func (v *logVisual) SetScale(x float64) {
	v.mu.Lock()
	v.scale = x
	v.mu.Unlock()
}

func (v *logVisual) Fade(to float64, d time.Duration) <-chan struct{} {
	return v.after(d, func() { v.opacity = to })
}

func (v *logVisual) Scale(to float64, d time.Duration) <-chan struct{} {
	return v.after(d, func() { v.scale = to })
}

func (v *logVisual) TranslateY(to float64, d time.Duration) <-chan struct{} {
	return v.after(d, func() { v.offsetY = to })
}

// after applies set once d has elapsed and closes the returned channel.
func (v *logVisual) after(d time.Duration, set func()) <-chan struct{} {
	done := make(chan struct{})
	time.AfterFunc(max(d, 0), func() {
		v.mu.Lock()
		set()
		v.mu.Unlock()
		close(done)
	})
	return done
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

// InvokeAction runs the side action of the visual for id, as if its action
// button were pressed. It reports whether an action ran.
func (s *LogSurface) InvokeAction(id uuid.UUID) bool {
	s.mu.Lock()
	var target *logVisual
	for _, v := range s.order {
		if v.id == id {
			target = v
			break
		}
	}
	s.mu.Unlock()

	if target == nil {
		return false
	}

	target.mu.Lock()
	fn, text := target.action, target.actionText
	target.mu.Unlock()

	if fn == nil {
		return false
	}
	target.log.Info().Str("action", text).Msg("action invoked")
	fn()
	return true
}
