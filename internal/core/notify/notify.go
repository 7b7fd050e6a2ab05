// Package notify defines the notification request model shared by the
// service, queue, and host.
package notify

import (
	"time"

	"github.com/google/uuid"
)

// Level represents the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// IsValid reports whether l is a known level.
func (l Level) IsValid() bool {
	switch l {
	case LevelSuccess, LevelInfo, LevelWarning, LevelError:
		return true
	default:
		return false
	}
}

// Transition selects the animation pair used to show and dismiss a notification.
type Transition string

const (
	TransitionSlideUp      Transition = "slide-up"
	TransitionFade         Transition = "fade"
	TransitionScale        Transition = "scale"
	TransitionSlideAndFade Transition = "slide-and-fade"
)

// IsValid reports whether t is a known transition.
func (t Transition) IsValid() bool {
	switch t {
	case TransitionSlideUp, TransitionFade, TransitionScale, TransitionSlideAndFade:
		return true
	default:
		return false
	}
}

// Material is the background treatment of a notification panel.
type Material string

const (
	MaterialSolid   Material = "solid"
	MaterialAcrylic Material = "acrylic"
	MaterialMica    Material = "mica"
)

// IsValid reports whether m is a known material.
func (m Material) IsValid() bool {
	switch m {
	case MaterialSolid, MaterialAcrylic, MaterialMica:
		return true
	default:
		return false
	}
}

// Indeterminate is the progress sentinel for "no known percentage".
const Indeterminate = -1.0

// AllID addresses every visible notification. It is only meaningful on a
// dismiss request.
var AllID = uuid.Nil

// NewID returns a fresh notification id.
func NewID() uuid.UUID {
	return uuid.New()
}

// Request is an instruction to create, update, or dismiss one notification.
type Request struct {
	ID      uuid.UUID
	Message string
	Level   Level

	// Duration <= 0 keeps the notification visible until it is updated or
	// dismissed. A positive value (re)starts the dismiss timer when the
	// request is applied.
	Duration time.Duration
	Closable bool

	ActionText string
	Action     func()

	// InProgress shows the progress indicator. Progress is 0..100, or
	// Indeterminate.
	InProgress bool
	Progress   float64

	Transition Transition
	Material   Material

	// IsUpdate mutates an existing notification instead of creating one.
	IsUpdate bool
	// DismissRequested tears the notification down immediately.
	DismissRequested bool
}

// IsDismissAll reports whether r dismisses every visible notification.
func (r Request) IsDismissAll() bool {
	return r.DismissRequested && r.ID == AllID
}

// Indeterminate reports whether the progress indicator has no known value.
func (r Request) Indeterminate() bool {
	return r.Progress < 0
}
