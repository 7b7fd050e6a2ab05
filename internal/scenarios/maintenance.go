package scenarios

import (
	"sync"

	"github.com/colonyops/toasty/internal/core/notify"
	"github.com/colonyops/toasty/internal/notifier"
)

const (
	maintenanceTitle    = "Synchronous maintenance window"
	maintenanceStarted  = "Synchronous maintenance window started."
	maintenanceCanceled = "Synchronous maintenance window canceled."
	maintenanceReplaced = "Countdown replaced."
)

// Maintenance runs at most one maintenance window countdown at a time.
type Maintenance struct {
	n      Notifier
	timing Timing

	mu      sync.Mutex
	current *notifier.CountdownNotification
}

func NewMaintenance(n Notifier, timing Timing) *Maintenance {
	return &Maintenance{n: n, timing: timing}
}

// Start begins a countdown, replacing any running one.
func (m *Maintenance) Start() (*notifier.CountdownNotification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		m.current.Cancel(maintenanceReplaced)
		m.current = nil
	}

	c, err := m.n.ShowCountdown(maintenanceTitle, m.timing.CountdownLength, notify.LevelInfo, maintenanceStarted, m.timing.CountdownInterval)
	if err != nil {
		return nil, err
	}
	m.current = c
	return c, nil
}

// Cancel stops the running countdown. It reports whether one was running.
func (m *Maintenance) Cancel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return false
	}

	select {
	case <-m.current.Done():
		m.current = nil
		return false
	default:
	}

	m.current.Cancel(maintenanceCanceled)
	m.current = nil
	return true
}
