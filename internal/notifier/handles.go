package notifier

import (
	"time"

	"github.com/google/uuid"

	"github.com/colonyops/toasty/internal/core/notify"
)

// ProgressNotification reports progress for a notification created by
// Service.ShowProgress.
type ProgressNotification struct {
	id       uuid.UUID
	service  *Service
	duration time.Duration
}

func (p *ProgressNotification) ID() uuid.UUID {
	return p.id
}

// Report updates the progress value. Each report restarts the dismiss timer.
// A blank message keeps the current text.
func (p *ProgressNotification) Report(progress float64, message string) {
	req := p.service.defaults.UpdateRequest(p.id)
	req.Message = message
	req.Level = notify.LevelInfo
	req.InProgress = true
	req.Progress = progress
	req.Duration = p.duration
	p.service.Update(req)
}

// Complete marks the operation as finished and hides the progress indicator.
func (p *ProgressNotification) Complete(message string) {
	req := p.service.defaults.UpdateRequest(p.id)
	req.Message = message
	req.Level = notify.LevelSuccess
	req.Progress = 100
	req.Duration = p.duration
	p.service.Update(req)
}

// PersistentNotification controls a notification created by
// Service.ShowPersistent. It stays visible until dismissed.
type PersistentNotification struct {
	id       uuid.UUID
	service  *Service
	message  string
	level    notify.Level
	closable bool
}

func (p *PersistentNotification) ID() uuid.UUID {
	return p.id
}

// Update changes the message, level, or duration. A blank message or empty
// level keeps the previous value; a zero duration keeps it persistent.
func (p *PersistentNotification) Update(message string, level notify.Level, duration time.Duration) {
	if message != "" {
		p.message = message
	}
	if level != "" {
		p.level = level
	}

	req := p.service.defaults.UpdateRequest(p.id)
	req.Message = p.message
	req.Level = p.level
	req.Closable = p.closable
	req.Duration = duration
	p.service.Update(req)
}

// Dismiss removes the notification.
func (p *PersistentNotification) Dismiss() {
	p.service.Dismiss(p.id)
}
