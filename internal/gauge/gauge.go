// Package gauge draws the single-bar completion chart that sits under the
// task list. A Gauge is a scoped drawing resource: a session acquires one
// when it mounts, updates it in place, and closes it when it unmounts.
package gauge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Default drawing surface size in pixels.
const (
	DefaultWidth  = 320
	DefaultHeight = 48
)

var (
	// ErrAlreadyMounted is returned when an owner asks for a second live gauge.
	ErrAlreadyMounted = errors.New("gauge already mounted for owner")
	// ErrClosed is returned when a released gauge is used.
	ErrClosed = errors.New("gauge closed")
)

var (
	trackColor = drawing.ColorFromHex("27272a")
	barColor   = drawing.ColorFromHex("FB326E")
	labelColor = drawing.ColorFromHex("e4e4e7")
)

var (
	fontOnce sync.Once
	fontVal  *truetype.Font
	fontErr  error
)

func defaultFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		fontVal, fontErr = chart.GetDefaultFont()
	})
	return fontVal, fontErr
}

// Registry hands out gauges and tracks the live ones, at most one per owner.
type Registry struct {
	mu     sync.Mutex
	live   map[string]*Gauge
	nextID uint64
	width  int
	height int
}

// NewRegistry creates a registry whose gauges draw on a width x height surface.
// Non-positive sizes fall back to the defaults.
func NewRegistry(width, height int) *Registry {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Registry{
		live:   make(map[string]*Gauge),
		width:  width,
		height: height,
	}
}

// Acquire creates the gauge for owner. It fails if owner already holds a
// live gauge.
func (r *Registry) Acquire(owner string) (*Gauge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live[owner]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyMounted, owner)
	}

	r.nextID++
	g := &Gauge{
		id:     r.nextID,
		owner:  owner,
		reg:    r,
		width:  r.width,
		height: r.height,
	}
	r.live[owner] = g
	return g, nil
}

// Live returns the number of gauges that have not been closed.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

func (r *Registry) release(g *Gauge) {
	r.mu.Lock()
	if cur, ok := r.live[g.owner]; ok && cur == g {
		delete(r.live, g.owner)
	}
	r.mu.Unlock()
}

// Gauge is one chart instance bound to its owner.
type Gauge struct {
	id     uint64
	owner  string
	reg    *Registry
	width  int
	height int

	mu      sync.Mutex
	percent int
	closed  bool
}

// ID identifies the chart instance; it changes only when a new gauge is acquired.
func (g *Gauge) ID() uint64 {
	return g.id
}

// Update sets the displayed percentage in place, clamped to 0..100.
func (g *Gauge) Update(percent int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}
	g.percent = clamp(percent)
	return nil
}

// Percent returns the current value.
func (g *Gauge) Percent() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.percent
}

// Label is the literal percentage shown on and beside the bar.
func (g *Gauge) Label() string {
	return fmt.Sprintf("%d%%", g.Percent())
}

// Render draws the bar as SVG into w.
func (g *Gauge) Render(w io.Writer) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrClosed
	}
	percent := g.percent
	g.mu.Unlock()

	font, err := defaultFont()
	if err != nil {
		return fmt.Errorf("loading chart font: %w", err)
	}

	r, err := chart.SVG(g.width, g.height)
	if err != nil {
		return fmt.Errorf("creating drawing surface: %w", err)
	}

	const pad = 4
	const labelWidth = 48
	track := chart.Box{
		Top:    pad,
		Left:   pad,
		Right:  g.width - labelWidth - pad,
		Bottom: g.height - pad,
	}

	fillRect(r, track, trackColor)
	if percent > 0 {
		bar := track
		bar.Right = track.Left + track.Width()*percent/100
		fillRect(r, bar, barColor)
	}

	label := fmt.Sprintf("%d%%", percent)
	r.SetFont(font)
	r.SetFontSize(12)
	r.SetFontColor(labelColor)
	size := r.MeasureText(label)
	r.Text(label, track.Right+pad*2, track.Top+(track.Height()+size.Height())/2)

	return r.Save(w)
}

// SVG returns the rendered chart markup.
func (g *Gauge) SVG() (string, error) {
	var buf bytes.Buffer
	if err := g.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Close releases the gauge. Closing twice is a no-op.
func (g *Gauge) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.mu.Unlock()
	g.reg.release(g)
}

func fillRect(r chart.Renderer, b chart.Box, c drawing.Color) {
	r.SetFillColor(c)
	r.SetStrokeColor(c)
	r.SetStrokeWidth(0)
	r.MoveTo(b.Left, b.Top)
	r.LineTo(b.Right, b.Top)
	r.LineTo(b.Right, b.Bottom)
	r.LineTo(b.Left, b.Bottom)
	r.Close()
	r.Fill()
}

func clamp(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
