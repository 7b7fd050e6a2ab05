package tui

import (
	"context"

	tea "charm.land/bubbletea/v2"
)

type confirmRequest struct {
	title       string
	description string
	reply       chan bool
}

type confirmRequestMsg confirmRequest

// ModalConfirmer asks confirmation questions through the TUI. It satisfies
// scenarios.Confirmer.
type ModalConfirmer struct {
	requests chan confirmRequest
}

func NewModalConfirmer() *ModalConfirmer {
	return &ModalConfirmer{requests: make(chan confirmRequest)}
}

// Confirm opens a modal and blocks until it is answered or ctx is done.
func (c *ModalConfirmer) Confirm(ctx context.Context, title, description string) (bool, error) {
	req := confirmRequest{
		title:       title,
		description: description,
		reply:       make(chan bool, 1),
	}

	select {
	case c.requests <- req:
	case <-ctx.Done():
		return false, ctx.Err()
	}

	select {
	case ok := <-req.reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// WaitForRequest blocks until a caller asks a question.
func (c *ModalConfirmer) WaitForRequest() tea.Cmd {
	return func() tea.Msg {
		return confirmRequestMsg(<-c.requests)
	}
}
