package notifier

import (
	"time"

	"github.com/google/uuid"

	"github.com/colonyops/toasty/internal/core/notify"
)

// Enqueuer accepts requests for delivery. *Queue satisfies it.
type Enqueuer interface {
	Enqueue(req notify.Request)
}

// Service is the producer-facing façade. Every call builds one request and
// enqueues it; none of them block.
type Service struct {
	queue    Enqueuer
	defaults notify.Defaults
}

// NewService creates a service that enqueues into q using the built-in
// request defaults.
func NewService(q Enqueuer) *Service {
	return NewServiceWithDefaults(q, notify.DefaultDefaults())
}

// NewServiceWithDefaults creates a service with explicit request defaults.
func NewServiceWithDefaults(q Enqueuer, d notify.Defaults) *Service {
	return &Service{queue: q, defaults: d}
}

// Defaults returns the request defaults used by the service.
func (s *Service) Defaults() notify.Defaults {
	return s.defaults
}

// Show enqueues req as given. A request without an id gets a fresh one.
func (s *Service) Show(req notify.Request) uuid.UUID {
	if req.ID == uuid.Nil && !req.DismissRequested {
		req.ID = notify.NewID()
	}
	s.queue.Enqueue(req)
	return req.ID
}

// Update enqueues req as a mutation of the notification with the same id.
// Fields are applied as given: a zero duration makes the notification
// persistent and Closable false hides its close affordance. Unset level,
// transition and material keep the current ones. Start partial edits from
// Defaults().UpdateRequest.
func (s *Service) Update(req notify.Request) {
	req.IsUpdate = true
	s.queue.Enqueue(req)
}

// Info shows an info-level notification.
func (s *Service) Info(message string, duration time.Duration) uuid.UUID {
	return s.showLevel(notify.LevelInfo, message, duration)
}

// Success shows a success-level notification.
func (s *Service) Success(message string, duration time.Duration) uuid.UUID {
	return s.showLevel(notify.LevelSuccess, message, duration)
}

// Warning shows a warning-level notification.
func (s *Service) Warning(message string, duration time.Duration) uuid.UUID {
	return s.showLevel(notify.LevelWarning, message, duration)
}

// Error shows an error-level notification.
func (s *Service) Error(message string, duration time.Duration) uuid.UUID {
	return s.showLevel(notify.LevelError, message, duration)
}

func (s *Service) showLevel(level notify.Level, message string, duration time.Duration) uuid.UUID {
	req := s.defaults.NewRequest()
	req.Level = level
	req.Message = message
	req.Duration = duration
	return s.Show(req)
}

// ShowProgress shows a notification with a progress indicator. Pass
// notify.Indeterminate for an indicator without a known value.
func (s *Service) ShowProgress(message string, duration time.Duration, progress float64) *ProgressNotification {
	req := s.defaults.NewRequest()
	req.Message = message
	req.InProgress = true
	req.Progress = progress
	req.Duration = duration
	s.Show(req)

	return &ProgressNotification{id: req.ID, service: s, duration: duration}
}

// ShowPersistent shows a notification without an auto-dismiss timer.
func (s *Service) ShowPersistent(message string, level notify.Level, closable bool) *PersistentNotification {
	req := s.defaults.NewRequest()
	req.Message = message
	req.Level = level
	req.Duration = 0
	req.Closable = closable
	s.Show(req)

	return &PersistentNotification{
		id:       req.ID,
		service:  s,
		message:  message,
		level:    level,
		closable: closable,
	}
}

// Dismiss tears down the notification with the given id.
func (s *Service) Dismiss(id uuid.UUID) {
	s.queue.Enqueue(notify.Request{
		ID:               id,
		IsUpdate:         true,
		DismissRequested: true,
	})
}

// DismissAll tears down every visible notification.
func (s *Service) DismissAll() {
	s.Dismiss(notify.AllID)
}
