package tui

import (
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/colonyops/toasty/internal/core/notify"
	"github.com/colonyops/toasty/internal/host"
)

const frameInterval = 16 * time.Millisecond

type surfaceRedrawMsg struct{}

// Surface is the terminal implementation of host.Surface. The host mutates
// panels from its own goroutines; the bubbletea program renders snapshots
// after each coalesced redraw signal.
type Surface struct {
	mu        sync.Mutex
	order     []*panel
	animated  map[*panel]struct{}
	animating bool
	hitTest   bool

	signal chan struct{}
	now    func() time.Time
}

func NewSurface() *Surface {
	return &Surface{
		animated: make(map[*panel]struct{}),
		signal:   make(chan struct{}, 1),
		now:      time.Now,
	}
}

// PanelState is a render snapshot of one panel.
type PanelState struct {
	ID         uuid.UUID
	Level      notify.Level
	Material   notify.Material
	Message    string
	InProgress bool
	Progress   float64
	Closable   bool
	ActionText string
	Open       bool
	Opacity    float64
	OffsetY    float64
	Scale      float64
}

func (s *Surface) CreateVisual(id uuid.UUID) host.Visual {
	return &panel{
		surface: s,
		state: PanelState{
			ID:    id,
			Scale: 1,
		},
	}
}

func (s *Surface) Insert(v host.Visual, atHead bool) {
	p := v.(*panel)

	s.mu.Lock()
	if atHead {
		s.order = append([]*panel{p}, s.order...)
	} else {
		s.order = append(s.order, p)
	}
	s.mu.Unlock()

	s.redraw()
}

func (s *Surface) Remove(v host.Visual) {
	p := v.(*panel)

	s.mu.Lock()
	for i, o := range s.order {
		if o == p {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.redraw()
}

func (s *Surface) SetHitTestVisible(visible bool) {
	s.mu.Lock()
	s.hitTest = visible
	s.mu.Unlock()
}

// HitTestVisible reports whether the toast layer accepts input.
func (s *Surface) HitTestVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hitTest
}

// Panels returns render snapshots in display order.
func (s *Surface) Panels() []PanelState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]PanelState, len(s.order))
	for i, p := range s.order {
		out[i] = p.state
	}
	return out
}

// InvokeAction runs the side action of panel id. It reports whether the
// panel had one.
func (s *Surface) InvokeAction(id uuid.UUID) bool {
	s.mu.Lock()
	var fn func()
	for _, p := range s.order {
		if p.state.ID == id {
			fn = p.action
			break
		}
	}
	s.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// WaitForRedraw blocks until the surface changed.
func (s *Surface) WaitForRedraw() tea.Cmd {
	return func() tea.Msg {
		<-s.signal
		return surfaceRedrawMsg{}
	}
}

func (s *Surface) redraw() {
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// update mutates p under the surface lock and requests a redraw.
func (s *Surface) update(fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
	s.redraw()
}

type property int

const (
	propOpacity property = iota
	propOffsetY
	propScale
)

type animation struct {
	prop     property
	from, to float64
	start    time.Time
	duration time.Duration
	done     chan struct{}
}

// animate starts moving prop of p to the target value. A running animation
// of the same property is finished where it stands.
func (s *Surface) animate(p *panel, prop property, to float64, d time.Duration) <-chan struct{} {
	done := make(chan struct{})

	s.mu.Lock()
	if d <= 0 {
		p.set(prop, to)
		s.mu.Unlock()
		close(done)
		s.redraw()
		return done
	}

	var superseded []chan struct{}
	kept := p.anims[:0]
	for _, a := range p.anims {
		if a.prop == prop {
			superseded = append(superseded, a.done)
			continue
		}
		kept = append(kept, a)
	}
	p.anims = append(kept, &animation{
		prop:     prop,
		from:     p.get(prop),
		to:       to,
		start:    s.now(),
		duration: d,
		done:     done,
	})
	s.animated[p] = struct{}{}

	start := !s.animating
	s.animating = true
	s.mu.Unlock()

	for _, ch := range superseded {
		close(ch)
	}
	if start {
		go s.runAnimations()
	}
	return done
}

func (s *Surface) runAnimations() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for range ticker.C {
		if !s.step() {
			return
		}
	}
}

// step advances every running animation by one frame. It reports whether
// any animation is still running.
func (s *Surface) step() bool {
	s.mu.Lock()
	now := s.now()

	var finished []chan struct{}
	for p := range s.animated {
		kept := p.anims[:0]
		for _, a := range p.anims {
			t := float64(now.Sub(a.start)) / float64(a.duration)
			if t >= 1 {
				p.set(a.prop, a.to)
				finished = append(finished, a.done)
				continue
			}
			p.set(a.prop, a.from+(a.to-a.from)*easeOutCubic(t))
			kept = append(kept, a)
		}
		p.anims = kept
		if len(kept) == 0 {
			delete(s.animated, p)
		}
	}

	running := len(s.animated) > 0
	s.animating = running
	s.mu.Unlock()

	for _, ch := range finished {
		close(ch)
	}
	s.redraw()
	return running
}

func easeOutCubic(t float64) float64 {
	t = min(max(t, 0), 1)
	inv := 1 - t
	return 1 - inv*inv*inv
}
