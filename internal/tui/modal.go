package tui

import (
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/toasty/internal/core/styles"
)

// Modal is a yes/no confirmation dialog answering one confirm request.
type Modal struct {
	req             confirmRequest
	confirmSelected bool // true = confirm button selected, false = cancel button selected
}

func NewModal(req confirmRequest) *Modal {
	return &Modal{req: req, confirmSelected: true}
}

// ToggleSelection switches the selected button.
func (m *Modal) ToggleSelection() {
	m.confirmSelected = !m.confirmSelected
}

// ConfirmSelected returns true if the confirm button is selected.
func (m *Modal) ConfirmSelected() bool {
	return m.confirmSelected
}

// Answer delivers the decision to the waiting caller.
func (m *Modal) Answer(ok bool) {
	select {
	case m.req.reply <- ok:
	default:
	}
}

// Overlay renders the modal centered over background.
func (m *Modal) Overlay(background string, width, height int) string {
	var confirmBtn, cancelBtn string
	if m.confirmSelected {
		confirmBtn = styles.ModalButtonSelectedStyle.Render("Yes")
		cancelBtn = styles.ModalButtonStyle.Render("No")
	} else {
		confirmBtn = styles.ModalButtonStyle.Render("Yes")
		cancelBtn = styles.ModalButtonSelectedStyle.Render("No")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, confirmBtn, "  ", cancelBtn)
	buttonRow := lipgloss.NewStyle().MarginTop(1).Render(buttons)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(m.req.title),
		"",
		m.req.description,
		buttonRow,
		styles.ModalHelpStyle.Render("←/→ select  enter confirm  y/n answer  esc cancel"),
	)

	modal := styles.ModalStyle.Render(content)

	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)
	modalLayer.X(max((width-lipgloss.Width(modal))/2, 0)).Y(max((height-lipgloss.Height(modal))/2, 0)).Z(3)

	return lipgloss.NewCompositor(bgLayer, modalLayer).Render()
}
