package host

import (
	"time"

	"github.com/google/uuid"

	"github.com/colonyops/toasty/internal/core/notify"
)

// Visual is one rendered notification panel. Only the host mutates it.
type Visual interface {
	SetSeverity(level notify.Level)
	SetBackground(material notify.Material)
	SetMessage(message string)
	// SetProgress shows or hides the progress indicator. A negative value
	// renders an indeterminate indicator.
	SetProgress(visible bool, value float64)
	SetClosable(closable bool)
	// SetAction installs the side action. An empty text removes it.
	SetAction(text string, fn func())
	SetOpen(open bool)

	SetOpacity(v float64)
	SetOffsetY(v float64)
	SetScale(v float64)

	// Fade, Scale and TranslateY animate a property to the target value.
	// The returned channel is closed exactly once when the animation ends.
	Fade(to float64, d time.Duration) <-chan struct{}
	Scale(to float64, d time.Duration) <-chan struct{}
	TranslateY(to float64, d time.Duration) <-chan struct{}
}

// Surface owns the display order of visuals.
type Surface interface {
	CreateVisual(id uuid.UUID) Visual
	// Insert adds v to the display order, at the head or the tail.
	Insert(v Visual, atHead bool)
	Remove(v Visual)
	SetHitTestVisible(visible bool)
}

// Anchor is the screen edge notifications stack against.
type Anchor string

const (
	AnchorBottom Anchor = "bottom"
	AnchorTop    Anchor = "top"
)

func (a Anchor) IsValid() bool {
	return a == AnchorBottom || a == AnchorTop
}
