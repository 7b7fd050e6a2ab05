package scenarios

import (
	"sync"

	"github.com/colonyops/toasty/internal/core/notify"
	"github.com/colonyops/toasty/internal/notifier"
)

// Connection shows a persistent warning while a connection is down.
type Connection struct {
	n Notifier

	mu      sync.Mutex
	warning *notifier.PersistentNotification
}

func NewConnection(n Notifier) *Connection {
	return &Connection{n: n}
}

// Lost shows the warning. It does nothing while the warning is visible.
func (c *Connection) Lost() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.warning != nil {
		return
	}
	c.warning = c.n.ShowPersistent("Connection not found. Retrying...", notify.LevelWarning, false)
}

// Restored dismisses the warning and reports success. It does nothing when
// the connection is not down.
func (c *Connection) Restored() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.warning == nil {
		return
	}
	c.warning.Dismiss()
	c.warning = nil
	c.n.Success("Connection restored!", c.n.Defaults().Duration)
}

// Toggle flips between Lost and Restored and reports whether the
// connection is now down.
func (c *Connection) Toggle() bool {
	if c.Down() {
		c.Restored()
		return false
	}
	c.Lost()
	return true
}

func (c *Connection) Down() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.warning != nil
}
