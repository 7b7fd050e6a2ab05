// Package scenarios contains sample producers that drive the notification
// service the way an application would.
package scenarios

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/colonyops/toasty/internal/core/notify"
	"github.com/colonyops/toasty/internal/notifier"
)

var ErrSendCanceled = errors.New("send canceled")

// Notifier is the part of notifier.Service the scenarios use.
type Notifier interface {
	Defaults() notify.Defaults
	Show(req notify.Request) uuid.UUID
	Update(req notify.Request)
	Success(message string, duration time.Duration) uuid.UUID
	Dismiss(id uuid.UUID)
	ShowProgress(message string, duration time.Duration, progress float64) *notifier.ProgressNotification
	ShowPersistent(message string, level notify.Level, closable bool) *notifier.PersistentNotification
	ShowCountdown(title string, duration time.Duration, level notify.Level, completionMessage string, interval time.Duration) (*notifier.CountdownNotification, error)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, title, description string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, title, description string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, title, description string) (bool, error) {
	return f(ctx, title, description)
}

// Timing controls scenario pacing.
type Timing struct {
	UploadStep        time.Duration // Delay between upload reports
	SendStep          time.Duration // Delay between send-file reports
	ConnectDelay      time.Duration // "Establishing connection" phase of send-file
	PausePoll         time.Duration // Poll interval while send-file is paused
	ResultDuration    time.Duration // Display time of send-file results
	CountdownLength   time.Duration // Maintenance window countdown
	CountdownInterval time.Duration // Maintenance window tick
}

func DefaultTiming() Timing {
	return Timing{
		UploadStep:        500 * time.Millisecond,
		SendStep:          150 * time.Millisecond,
		ConnectDelay:      2 * time.Second,
		PausePoll:         100 * time.Millisecond,
		ResultDuration:    2 * time.Second,
		CountdownLength:   15 * time.Second,
		CountdownInterval: notifier.DefaultCountdownInterval,
	}
}

// Name identifies a scenario on the command line.
type Name string

const (
	NameUpload     Name = "upload"
	NameSendFile   Name = "send-file"
	NameConnection Name = "connection"
	NameCountdown  Name = "countdown"
)

// Info describes a scenario for pickers and help text.
type Info struct {
	Name        Name
	Description string
}

// All lists every scenario in display order.
func All() []Info {
	return []Info{
		{NameUpload, "Progress notification reporting an upload in steps of 10%"},
		{NameSendFile, "Cancelable file transfer with a confirmation prompt"},
		{NameConnection, "Persistent warning while a connection is lost, then restored"},
		{NameCountdown, "Maintenance window countdown"},
	}
}

// Lookup finds a scenario by name.
func Lookup(name string) (Info, bool) {
	for _, info := range All() {
		if string(info.Name) == name {
			return info, true
		}
	}
	return Info{}, false
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
