// Package tui hosts notifications in a bubbletea terminal UI.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/toasty/internal/core/config"
	"github.com/colonyops/toasty/internal/core/styles"
	"github.com/colonyops/toasty/internal/host"
	"github.com/colonyops/toasty/internal/notifier"
	"github.com/colonyops/toasty/internal/scenarios"
)

// Key constants for event handling.
const (
	keyEnter = "enter"
	keyEsc   = "esc"
	keyCtrlC = "ctrl+c"
)

type (
	scenarioDoneMsg struct {
		name scenarios.Name
		err  error
	}
	configReloadedMsg struct {
		cfg *config.Config
		err error
	}
)

// Options configures the TUI.
type Options struct {
	Config    *config.Config
	Service   *notifier.Service
	Host      *host.Host
	Surface   *Surface
	Confirmer *ModalConfirmer
	Logger    zerolog.Logger
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	cfg       *config.Config
	service   *notifier.Service
	host      *host.Host
	surface   *Surface
	confirmer *ModalConfirmer
	log       zerolog.Logger

	toastView   *ToastView
	connection  *scenarios.Connection
	maintenance *scenarios.Maintenance
	reloads     chan configReloadedMsg

	ctx    context.Context
	cancel context.CancelFunc

	width    int
	height   int
	spinner  spinner.Model
	modal    *Modal
	showHelp bool
	status   string
	quitting bool
}

func New(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		cfg:         opts.Config,
		service:     opts.Service,
		host:        opts.Host,
		surface:     opts.Surface,
		confirmer:   opts.Confirmer,
		log:         opts.Logger,
		toastView:   NewToastView(opts.Config.TUI.Width, opts.Config.Host.Anchor),
		connection:  scenarios.NewConnection(opts.Service),
		maintenance: scenarios.NewMaintenance(opts.Service, opts.Config.Timing()),
		reloads:     make(chan configReloadedMsg, 1),
		ctx:         ctx,
		cancel:      cancel,
		spinner:     s,
	}
}

// ConfigReloaded forwards the result of a config reload into the program.
// It never blocks; a reload arriving while another is pending is dropped.
func (m Model) ConfigReloaded(cfg *config.Config, err error) {
	select {
	case m.reloads <- configReloadedMsg{cfg: cfg, err: err}:
	default:
	}
}

func (m Model) waitForReload() tea.Cmd {
	return func() tea.Msg {
		return <-m.reloads
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.surface.WaitForRedraw(),
		m.confirmer.WaitForRequest(),
		m.waitForReload(),
		m.spinner.Tick,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case surfaceRedrawMsg:
		return m, m.surface.WaitForRedraw()
	case confirmRequestMsg:
		m.modal = NewModal(confirmRequest(msg))
		return m, m.confirmer.WaitForRequest()
	case configReloadedMsg:
		m.applyConfig(msg)
		return m, m.waitForReload()
	case scenarioDoneMsg:
		m.handleScenarioDone(msg)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) applyConfig(msg configReloadedMsg) {
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("config reload failed")
		m.service.Error("Config reload failed: "+msg.err.Error(), m.service.Defaults().Duration)
		return
	}

	if err := styles.UseTheme(msg.cfg.TUI.Theme); err != nil {
		m.log.Warn().Err(err).Msg("theme not applied")
	}
	m.toastView.SetWidth(msg.cfg.TUI.Width)
	m.cfg = msg.cfg
	m.service.Info("Configuration reloaded.", m.service.Defaults().Duration)
}

func (m *Model) handleScenarioDone(msg scenarioDoneMsg) {
	switch {
	case msg.err == nil:
		m.status = fmt.Sprintf("%s finished", msg.name)
	case errors.Is(msg.err, scenarios.ErrSendCanceled):
		m.status = fmt.Sprintf("%s canceled", msg.name)
	case errors.Is(msg.err, context.Canceled):
	default:
		m.log.Error().Err(msg.err).Str("scenario", string(msg.name)).Msg("scenario failed")
		m.status = fmt.Sprintf("%s failed: %v", msg.name, msg.err)
	}
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if m.modal != nil {
		return m.handleModalKey(keyStr)
	}

	if m.showHelp {
		switch keyStr {
		case "?", keyEsc, "q":
			m.showHelp = false
		}
		return m, nil
	}

	d := m.service.Defaults().Duration

	switch keyStr {
	case "q", keyCtrlC:
		m.quitting = true
		m.cancel()
		return m, tea.Quit
	case "s":
		m.service.Success("Operation completed successfully.", d)
	case "i":
		m.service.Info("A new version is available.", d)
	case "w":
		m.service.Warning("Disk space is running low.", d)
	case "e":
		m.service.Error("Something went wrong.", d)
	case "p":
		return m, m.runScenario(scenarios.NameUpload, func(ctx context.Context) error {
			return scenarios.Upload(ctx, m.service, m.cfg.Timing())
		})
	case "f":
		send := scenarios.NewSendFile(m.service, m.confirmer, m.cfg.Timing(), m.log)
		return m, m.runScenario(scenarios.NameSendFile, send.Run)
	case "c":
		m.connection.Toggle()
	case "t":
		if _, err := m.maintenance.Start(); err != nil {
			m.status = fmt.Sprintf("countdown: %v", err)
		}
	case "T":
		m.maintenance.Cancel()
	case "a":
		if id, ok := m.newest(); ok {
			return m, func() tea.Msg {
				m.surface.InvokeAction(id)
				return nil
			}
		}
	case "x":
		if id, ok := m.newest(); ok {
			m.host.Close(id)
		}
	case "d":
		m.service.DismissAll()
	case "?":
		m.showHelp = true
	}

	return m, nil
}

func (m Model) handleModalKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "left", "right", "h", "l", "tab":
		m.modal.ToggleSelection()
		return m, nil
	case "y":
		m.modal.Answer(true)
	case "n", keyEsc:
		m.modal.Answer(false)
	case keyEnter:
		m.modal.Answer(m.modal.ConfirmSelected())
	case keyCtrlC:
		m.modal.Answer(false)
		m.quitting = true
		m.cancel()
		m.modal = nil
		return m, tea.Quit
	default:
		return m, nil
	}

	m.modal = nil
	return m, nil
}

// newest returns the most recently stacked notification.
func (m Model) newest() (uuid.UUID, bool) {
	ids := m.host.IDs()
	if len(ids) == 0 {
		return uuid.Nil, false
	}
	if m.cfg.Host.Anchor == host.AnchorTop {
		return ids[0], true
	}
	return ids[len(ids)-1], true
}

func (m Model) runScenario(name scenarios.Name, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return scenarioDoneMsg{name: name, err: fn(ctx)}
	}
}

// View renders the TUI.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render composes the main screen with help, toasts and modal overlays.
func (m Model) render() string {
	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	content := m.renderMain(w, h)

	if m.showHelp {
		help := styles.ModalStyle.Render(renderHelp(min(w-8, 72)))
		bg := lipgloss.NewLayer(content)
		layer := lipgloss.NewLayer(help)
		layer.X(max((w-lipgloss.Width(help))/2, 0)).Y(max((h-lipgloss.Height(help))/2, 0)).Z(1)
		content = lipgloss.NewCompositor(bg, layer).Render()
	}

	content = m.toastView.Overlay(content, m.surface.Panels(), m.spinner.View(), w, h)

	if m.modal != nil {
		content = m.modal.Overlay(content, w, h)
	}

	return content
}

func (m Model) renderMain(w, h int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("toasty"))
	b.WriteString(styles.HintStyle.Render("  in-app notifications"))
	b.WriteString("\n\n")

	keys := []struct{ key, desc string }{
		{"s i w e", "notify by level"},
		{"p", "upload"},
		{"f", "send file"},
		{"c", "connection"},
		{"t T", "countdown start/cancel"},
		{"a", "action"},
		{"x", "close newest"},
		{"d", "dismiss all"},
		{"?", "help"},
		{"q", "quit"},
	}
	for _, k := range keys {
		b.WriteString(styles.KeyStyle.Render(fmt.Sprintf("%-8s", k.key)))
		b.WriteString(styles.HintStyle.Render(k.desc))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HintStyle.Render(fmt.Sprintf("visible: %d", m.host.Len())))
	if m.connection.Down() {
		b.WriteString(styles.ErrorStyle.Render("  connection down"))
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(styles.HintStyle.Render(m.status))
	}

	return lipgloss.NewStyle().Width(w).Height(h).Padding(1, 2).Render(b.String())
}
