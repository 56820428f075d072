// Package console holds the page model: the input controls, the output
// panel, the root coordinator that talks to the assistant, and Session,
// which composes them with the task list, gauge and graph panel for one
// mounted page.
package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"agi-console/internal/gauge"
	"agi-console/internal/graph"
	"agi-console/internal/tasks"
)

// Event types sent by the page.
const (
	EventInput       = "input"
	EventKey         = "key"
	EventSubmit      = "submit"
	EventClear       = "clear"
	EventTaskInput   = "task.input"
	EventTaskKey     = "task.key"
	EventTaskAdd     = "task.add"
	EventTaskToggle  = "task.toggle"
	EventTaskClear   = "task.clear"
	EventGraphRender = "graph.render"
)

var (
	// ErrUnknownEvent is returned for event types the session does not handle.
	ErrUnknownEvent = errors.New("unknown event type")
	// ErrSessionClosed is returned when a closed session receives an event.
	ErrSessionClosed = errors.New("session closed")
)

// Event is one interaction forwarded from the page.
type Event struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Seq   uint64 `json:"seq,omitempty"`
	Key   string `json:"key,omitempty"`
	Shift bool   `json:"shift,omitempty"`
	ID    string `json:"id,omitempty"`
}

// TasksView is the task panel contents.
type TasksView struct {
	Items     []tasks.Task `json:"items"`
	Draft     InputView    `json:"draft"`
	Completed int          `json:"completed"`
	Total     int          `json:"total"`
	Percent   int          `json:"percent"`
}

// ChartView is the gauge under the task list.
type ChartView struct {
	ID      uint64 `json:"id"`
	Percent int    `json:"percent"`
	Label   string `json:"label"`
	SVG     string `json:"svg"`
}

// View is a point-in-time copy of the page for the browser.
type View struct {
	Session string       `json:"session"`
	Prompt  InputView    `json:"prompt"`
	Output  OutputView   `json:"output"`
	Tasks   TasksView    `json:"tasks"`
	Chart   ChartView    `json:"chart"`
	Graph   graph.Layout `json:"graph"`
}

// Options configures a Session.
type Options struct {
	ID     string
	Asker  Asker
	Charts *gauge.Registry
	// Rand drives graph placement; nil uses the global source.
	Rand graph.Rand
	// Context bounds outbound requests. Defaults to context.Background.
	Context context.Context
}

// Session is the state of one mounted page.
type Session struct {
	id    string
	ctx   context.Context
	rng   graph.Rand
	coord *Coordinator

	mu     sync.Mutex
	prompt *Input
	draft  *Input
	list   *tasks.List
	chart  *gauge.Gauge
	layout graph.Layout
	closed bool

	changeCh chan struct{}
}

// NewSession mounts a page: it acquires the gauge and renders the graph.
func NewSession(opts Options) (*Session, error) {
	if opts.Charts == nil {
		return nil, fmt.Errorf("session %s: chart registry is required", opts.ID)
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	chart, err := opts.Charts.Acquire(opts.ID)
	if err != nil {
		return nil, fmt.Errorf("mounting session %s: %w", opts.ID, err)
	}

	s := &Session{
		id:       opts.ID,
		ctx:      ctx,
		rng:      opts.Rand,
		coord:    NewCoordinator(opts.Asker),
		prompt:   NewInput(FieldPrompt),
		draft:    NewInput(FieldTask),
		list:     tasks.New(),
		chart:    chart,
		layout:   graph.Render(opts.Rand),
		changeCh: make(chan struct{}, 1),
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Coordinator exposes the session's coordinator.
func (s *Session) Coordinator() *Coordinator { return s.coord }

// ChangeCh receives a value whenever the view may have changed.
func (s *Session) ChangeCh() <-chan struct{} { return s.changeCh }

// notifyChange does a non-blocking send on changeCh.
// Must be called while NOT holding mu.
func (s *Session) notifyChange() {
	select {
	case s.changeCh <- struct{}{}:
	default:
	}
}

// Handle applies one page event.
func (s *Session) Handle(ev Event) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	changed, err := s.apply(ev)
	s.mu.Unlock()

	if changed {
		s.notifyChange()
	}
	return err
}

// apply mutates state for ev. Caller holds mu.
func (s *Session) apply(ev Event) (bool, error) {
	switch ev.Type {
	case EventInput:
		return s.prompt.SetText(ev.Text, ev.Seq), nil
	case EventKey:
		if text, ok := s.prompt.Key(KeyEvent{Key: ev.Key, Shift: ev.Shift}); ok {
			s.submit(text)
			return true, nil
		}
		return false, nil
	case EventSubmit:
		if text, ok := s.prompt.Submit(); ok {
			s.submit(text)
			return true, nil
		}
		return false, nil
	case EventClear:
		return s.prompt.Clear(), nil
	case EventTaskInput:
		return s.draft.SetText(ev.Text, ev.Seq), nil
	case EventTaskKey:
		if text, ok := s.draft.Key(KeyEvent{Key: ev.Key, Shift: ev.Shift}); ok {
			return s.addTask(text), nil
		}
		return false, nil
	case EventTaskAdd:
		if text, ok := s.draft.Submit(); ok {
			return s.addTask(text), nil
		}
		return false, nil
	case EventTaskToggle:
		if !s.list.Toggle(ev.ID) {
			return false, nil
		}
		s.syncChart()
		return true, nil
	case EventTaskClear:
		if s.list.ClearCompleted() == 0 {
			return false, nil
		}
		s.syncChart()
		return true, nil
	case EventGraphRender:
		s.layout = graph.Render(s.rng)
		return true, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
}

// submit hands text to the coordinator and disables the prompt until the
// request resolves. Caller holds mu.
func (s *Session) submit(text string) {
	done, ok := s.coord.Submit(s.ctx, text)
	if !ok {
		return
	}
	s.prompt.SetBusy(true)
	slog.Debug("Prompt submitted", "component", "Session", "session", s.id, "length", len(text))

	go func() {
		<-done
		s.mu.Lock()
		s.prompt.SetBusy(false)
		s.mu.Unlock()
		s.notifyChange()
	}()
}

// addTask appends a task and refreshes the gauge. Caller holds mu.
func (s *Session) addTask(label string) bool {
	if _, ok := s.list.Add(label); !ok {
		return false
	}
	s.syncChart()
	return true
}

// syncChart pushes the current percentage into the gauge. Caller holds mu.
func (s *Session) syncChart() {
	if err := s.chart.Update(s.list.Percent()); err != nil {
		slog.Warn("Chart update failed", "component", "Session", "session", s.id, "error", err)
	}
}

// View returns a snapshot of the page.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	completed, total := s.list.Counts()
	v := View{
		Session: s.id,
		Prompt:  s.prompt.view(),
		Output:  RenderOutput(s.coord.Output()),
		Tasks: TasksView{
			Items:     s.list.Items(),
			Draft:     s.draft.view(),
			Completed: completed,
			Total:     total,
			Percent:   tasks.Percent(completed, total),
		},
		Chart: ChartView{
			ID:      s.chart.ID(),
			Percent: s.chart.Percent(),
			Label:   s.chart.Label(),
		},
		Graph: s.layout,
	}

	if !s.closed {
		svg, err := s.chart.SVG()
		if err != nil {
			slog.Warn("Chart render failed", "component", "Session", "session", s.id, "error", err)
		}
		v.Chart.SVG = svg
	}
	return v
}

// Close unmounts the page and releases its chart. An in-flight request is
// left to finish on its own.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.chart.Close()
}
