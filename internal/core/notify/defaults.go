package notify

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDuration is the auto-dismiss delay used by the convenience calls.
const DefaultDuration = 3 * time.Second

// Defaults are the values a request takes when a field is not set.
type Defaults struct {
	Duration   time.Duration
	Closable   bool
	Transition Transition
	Material   Material
}

// DefaultDefaults returns the built-in request defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		Duration:   DefaultDuration,
		Closable:   true,
		Transition: TransitionSlideAndFade,
		Material:   MaterialAcrylic,
	}
}

// NewRequest returns a request with a fresh id populated from d.
func (d Defaults) NewRequest() Request {
	return Request{
		ID:         NewID(),
		Level:      LevelInfo,
		Duration:   d.Duration,
		Closable:   d.Closable,
		Progress:   Indeterminate,
		Transition: d.Transition,
		Material:   d.Material,
	}
}

// UpdateRequest returns an update of id carrying the default duration and
// closability. Level, transition and material are left unset so the
// notification keeps its current ones.
func (d Defaults) UpdateRequest(id uuid.UUID) Request {
	return Request{
		ID:       id,
		IsUpdate: true,
		Duration: d.Duration,
		Closable: d.Closable,
		Progress: Indeterminate,
	}
}
