// Package chipshost is an in-memory plotting host implementing the
// chips.Toolkit surface: an object tree of windows, frames, plots and
// their children, ChIPS style identifiers, focus state, undo blocks
// and the free-text status reports interactive tools parse.
package chipshost

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/openchips/legend/pkg/chips"
	"github.com/openchips/legend/pkg/eventbus"
)

const (
	defaultWidth  = 800
	defaultHeight = 600

	// SceneTopic is the eventbus topic scene revisions are published on.
	SceneTopic = "scene"
)

var stems = map[chips.ObjectKind]string{
	chips.KindWindow: "win",
	chips.KindFrame:  "frm",
	chips.KindPlot:   "plot",
	chips.KindAxis:   "ax",
	chips.KindRegion: "reg",
	chips.KindCurve:  "crv",
	chips.KindPoint:  "pnt",
	chips.KindLabel:  "lbl",
}

type Host struct {
	mu     sync.Mutex
	scene  *Scene
	serial map[string]int

	blockDepth int
	blockDirty bool
	undo       []*Scene
	redo       []*Scene

	picks chan chips.Pick

	events *eventbus.Controller
	rev    float64
}

type Option func(*Host)

// WithEvents publishes a scene revision on bus after every committed
// undo block.
func WithEvents(bus *eventbus.Controller) Option {
	return func(h *Host) {
		h.events = bus
	}
}

// WithWindowSize overrides the initial window's pixel size.
func WithWindowSize(w, h int) Option {
	return func(host *Host) {
		host.scene.Windows[0].Width = w
		host.scene.Windows[0].Height = h
	}
}

// New returns a host with one open window and nothing plotted.
func New(opts ...Option) *Host {
	h := &Host{
		scene:  &Scene{},
		serial: make(map[string]int),
		picks:  make(chan chips.Pick, 64),
	}
	win := &Window{ID: h.nextID(stems[chips.KindWindow]), Width: defaultWidth, Height: defaultHeight}
	h.scene.Windows = append(h.scene.Windows, win)
	h.scene.CurWindow = win.ID
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Host) nextID(stem string) string {
	h.serial[stem]++
	return stem + strconv.Itoa(h.serial[stem])
}

// mutate wraps a scene mutation in an implicit single-op undo block
// unless an explicit block is open. Every successful mutation announces
// a new scene revision, even mid-block, so views redraw as interactive
// tools work; undo grouping is unaffected. The publish happens after
// the lock is released so a stalled bus cannot wedge the host.
func (h *Host) mutate(fn func() error) error {
	h.mu.Lock()
	implicit := h.blockDepth == 0
	if implicit {
		h.openBlock()
	}
	err := fn()
	if err == nil {
		h.blockDirty = true
		h.redo = nil
	}
	if implicit {
		h.closeBlock()
	}
	var rev float64
	announce := err == nil && h.events != nil
	if announce {
		h.rev++
		rev = h.rev
	}
	h.mu.Unlock()
	if announce {
		if perr := h.events.Publish(SceneTopic, rev); perr != nil {
			log.Println("publish scene revision:", perr)
		}
	}
	return err
}

func (h *Host) openBlock() {
	if h.blockDepth == 0 {
		h.undo = append(h.undo, h.scene.clone())
		h.blockDirty = false
	}
	h.blockDepth++
}

// closeBlock commits the outermost block. A block in which no mutation
// succeeded changed nothing, so its snapshot is discarded rather than
// left behind as a no-op undo step.
func (h *Host) closeBlock() {
	if h.blockDepth == 0 {
		return
	}
	h.blockDepth--
	if h.blockDepth == 0 && !h.blockDirty {
		h.undo = h.undo[:len(h.undo)-1]
	}
}

// OpenUndoBlock groups the following mutations into one undo step.
// Nested opens coalesce into the outermost block.
func (h *Host) OpenUndoBlock() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.openBlock()
}

func (h *Host) CloseUndoBlock() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closeBlock()
}

// Undo restores the scene as it was before the most recent undo block.
func (h *Host) Undo() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undo) == 0 {
		return fmt.Errorf("nothing to undo")
	}
	h.redo = append(h.redo, h.scene)
	h.scene = h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	return nil
}

// Redo reverses the most recent Undo.
func (h *Host) Redo() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redo) == 0 {
		return fmt.Errorf("nothing to redo")
	}
	h.undo = append(h.undo, h.scene)
	h.scene = h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	return nil
}

// Snapshot returns a deep copy of the current scene.
func (h *Host) Snapshot() *Scene {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scene.clone()
}

func (h *Host) curWindow() *Window {
	return h.scene.window(h.scene.CurWindow)
}

// ensureFrame returns the current frame, creating a full-window frame
// first if none exists. Mirrors the host toolkit's auto-creation when
// plotting into an empty window.
func (h *Host) ensureFrame() (*Frame, error) {
	win := h.curWindow()
	if win == nil {
		return nil, fmt.Errorf("no current window: %w", chips.ErrNotFound)
	}
	if f := h.scene.frame(h.scene.CurFrame); f != nil {
		return f, nil
	}
	f := &Frame{
		ID: h.nextID(stems[chips.KindFrame]),
		X1: 0, Y1: 0, X2: 1, Y2: 1,
	}
	win.Frames = append(win.Frames, f)
	h.scene.CurFrame = f.ID
	return f, nil
}

func (h *Host) ensurePlot() (*Plot, error) {
	frame, err := h.ensureFrame()
	if err != nil {
		return nil, err
	}
	if p := h.scene.plot(h.scene.CurPlot); p != nil {
		return p, nil
	}
	p := &Plot{
		ID: h.nextID(stems[chips.KindPlot]),
		Style: chips.PlotStyle{
			BottomMargin: 0.15,
			TopMargin:    0.1,
			LeftMargin:   0.15,
			RightMargin:  0.1,
		},
	}
	frame.Plots = append(frame.Plots, p)
	h.scene.CurPlot = p.ID
	return p, nil
}

func (h *Host) AddFrame(style chips.FrameStyle, x1, y1, x2, y2 float64) error {
	return h.mutate(func() error {
		win := h.curWindow()
		if win == nil {
			return fmt.Errorf("no current window: %w", chips.ErrNotFound)
		}
		if x2 <= x1 || y2 <= y1 {
			return fmt.Errorf("invalid frame rectangle (%g,%g)-(%g,%g)", x1, y1, x2, y2)
		}
		stem := stems[chips.KindFrame]
		if style.Stem != "" {
			stem = style.Stem
		}
		f := &Frame{
			ID:    h.nextID(stem),
			Style: style,
			X1:    x1, Y1: y1, X2: x2, Y2: y2,
		}
		win.Frames = append(win.Frames, f)
		h.scene.CurFrame = f.ID
		h.scene.CurPlot = ""
		return nil
	})
}

func (h *Host) AddPlot(style chips.PlotStyle) error {
	return h.mutate(func() error {
		frame, err := h.ensureFrame()
		if err != nil {
			return err
		}
		p := &Plot{ID: h.nextID(stems[chips.KindPlot]), Style: style}
		frame.Plots = append(frame.Plots, p)
		h.scene.CurPlot = p.ID
		return nil
	})
}

func (h *Host) AddAxis(ax chips.Axis, cross, lo, hi float64, style chips.AxisStyle) error {
	return h.mutate(func() error {
		plot, err := h.ensurePlot()
		if err != nil {
			return err
		}
		if hi <= lo {
			return fmt.Errorf("invalid axis range [%g,%g]", lo, hi)
		}
		a := &AxisObject{
			ID:    h.nextID(stems[chips.KindAxis]),
			Axis:  ax,
			Cross: cross,
			Lo:    lo,
			Hi:    hi,
			Style: style,
		}
		plot.Axes = append(plot.Axes, a)
		h.scene.CurAxis = a.ID
		return nil
	})
}

// HideAxis hides the current axis.
func (h *Host) HideAxis() error {
	return h.mutate(func() error {
		plot := h.scene.plot(h.scene.CurPlot)
		if plot == nil {
			return fmt.Errorf("no current plot: %w", chips.ErrNotFound)
		}
		for _, a := range plot.Axes {
			if a.ID == h.scene.CurAxis {
				a.Hidden = true
				return nil
			}
		}
		return fmt.Errorf("no current axis: %w", chips.ErrNotFound)
	})
}

func (h *Host) AddRegion(xs, ys []float64, style chips.RegionStyle) error {
	return h.mutate(func() error {
		plot, err := h.ensurePlot()
		if err != nil {
			return err
		}
		if len(xs) != len(ys) || len(xs) < 3 {
			return fmt.Errorf("region needs matching x/y vertex lists of at least 3 points")
		}
		r := &Region{
			ID:    h.nextID(stems[chips.KindRegion]),
			Xs:    append([]float64(nil), xs...),
			Ys:    append([]float64(nil), ys...),
			Style: style,
		}
		plot.Regions = append(plot.Regions, r)
		h.scene.CurRegion = r.ID
		return nil
	})
}

func (h *Host) AddCurve(xs, ys []float64, style chips.CurveStyle) error {
	return h.mutate(func() error {
		plot, err := h.ensurePlot()
		if err != nil {
			return err
		}
		if len(xs) != len(ys) || len(xs) < 2 {
			return fmt.Errorf("curve needs matching x/y lists of at least 2 points")
		}
		c := &Curve{
			ID:    h.nextID(stems[chips.KindCurve]),
			Xs:    append([]float64(nil), xs...),
			Ys:    append([]float64(nil), ys...),
			Style: style,
		}
		plot.Curves = append(plot.Curves, c)
		h.scene.CurCurve = c.ID
		return nil
	})
}

func (h *Host) AddPoint(x, y float64, style chips.SymbolStyle) error {
	return h.mutate(func() error {
		plot, err := h.ensurePlot()
		if err != nil {
			return err
		}
		p := &Point{ID: h.nextID(stems[chips.KindPoint]), X: x, Y: y, Style: style}
		plot.Points = append(plot.Points, p)
		h.scene.CurPoint = p.ID
		return nil
	})
}

func (h *Host) AddLabel(x, y float64, text string, style chips.LabelStyle) error {
	return h.mutate(func() error {
		plot, err := h.ensurePlot()
		if err != nil {
			return err
		}
		l := &Label{ID: h.nextID(stems[chips.KindLabel]), X: x, Y: y, Text: text, Style: style}
		plot.Labels = append(plot.Labels, l)
		h.scene.CurLabel = l.ID
		return nil
	})
}

func (h *Host) GetCurve(id string) (chips.CurveStyle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := h.scene.curve(id)
	if c == nil {
		return chips.CurveStyle{}, fmt.Errorf("curve %q: %w", id, chips.ErrNotFound)
	}
	return c.Style, nil
}

func (h *Host) SetCurve(id string, style chips.CurveStyle) error {
	return h.mutate(func() error {
		c := h.scene.curve(id)
		if c == nil {
			return fmt.Errorf("curve %q: %w", id, chips.ErrNotFound)
		}
		c.Style = style
		h.scene.CurCurve = id
		return nil
	})
}

func (h *Host) SetPoint(id string, style chips.SymbolStyle) error {
	return h.mutate(func() error {
		p := h.scene.point(id)
		if p == nil {
			return fmt.Errorf("point %q: %w", id, chips.ErrNotFound)
		}
		p.Style = style
		h.scene.CurPoint = id
		return nil
	})
}

func (h *Host) SetLabelText(id, text string) error {
	return h.mutate(func() error {
		l := h.scene.label(id)
		if l == nil {
			return fmt.Errorf("label %q: %w", id, chips.ErrNotFound)
		}
		l.Text = text
		h.scene.CurLabel = id
		return nil
	})
}

func (h *Host) SetCurrentWindow(id string) error {
	return h.mutate(func() error {
		w := h.scene.window(id)
		if w == nil {
			return fmt.Errorf("window %q: %w", id, chips.ErrNotFound)
		}
		h.scene.CurWindow = id
		return nil
	})
}

// SetCurrentFrame focuses the frame and retargets the current plot to
// the frame's most recent plot.
func (h *Host) SetCurrentFrame(id string) error {
	return h.mutate(func() error {
		f := h.scene.frame(id)
		if f == nil {
			return fmt.Errorf("frame %q: %w", id, chips.ErrNotFound)
		}
		h.scene.CurFrame = id
		h.scene.CurPlot = ""
		if len(f.Plots) > 0 {
			h.scene.CurPlot = f.Plots[len(f.Plots)-1].ID
		}
		return nil
	})
}

func (h *Host) SetCurrentPlot(id string) error {
	return h.mutate(func() error {
		p := h.scene.plot(id)
		if p == nil {
			return fmt.Errorf("plot %q: %w", id, chips.ErrNotFound)
		}
		h.scene.CurPlot = id
		return nil
	})
}

// MoveFrame translates the current frame. Pixel deltas are converted
// through the window size. Moves that would push the frame outside the
// window are rejected.
func (h *Host) MoveFrame(sys chips.CoordSys, dx, dy float64, relative bool) error {
	return h.mutate(func() error {
		f := h.scene.frame(h.scene.CurFrame)
		if f == nil {
			return fmt.Errorf("no current frame: %w", chips.ErrNotFound)
		}
		win := h.curWindow()
		if win == nil {
			return fmt.Errorf("no current window: %w", chips.ErrNotFound)
		}
		if sys == chips.CoordPixel {
			dx /= float64(win.Width)
			dy /= float64(win.Height)
		}
		if !relative {
			dx -= f.X1
			dy -= f.Y1
		}
		nx1, ny1 := f.X1+dx, f.Y1+dy
		nx2, ny2 := f.X2+dx, f.Y2+dy
		if nx1 < 0 || ny1 < 0 || nx2 > 1 || ny2 > 1 {
			return fmt.Errorf("move rejected: frame %s would leave the window", f.ID)
		}
		f.X1, f.Y1, f.X2, f.Y2 = nx1, ny1, nx2, ny2
		return nil
	})
}

// PushKey feeds one key press into the pick queue. Keys are dropped
// when nothing is draining the queue fast enough.
func (h *Host) PushKey(r rune) {
	select {
	case h.picks <- chips.Pick{Key: r}:
	default:
		log.Println("pick queue full, dropping key", strconv.QuoteRune(r))
	}
}

// FlushPicks discards queued key presses. Interactive loops call it on
// entry so keys typed before the session do not replay as commands.
func (h *Host) FlushPicks() {
	for {
		select {
		case <-h.picks:
		default:
			return
		}
	}
}

func (h *Host) GetPick(ctx context.Context) (chips.Pick, error) {
	select {
	case <-ctx.Done():
		return chips.Pick{}, ctx.Err()
	case p := <-h.picks:
		return p, nil
	}
}

// SetRegionStyle restyles a region by id. Not part of the scripting
// surface; this is the host-side edit path a GUI exposes.
func (h *Host) SetRegionStyle(id string, style chips.RegionStyle) error {
	return h.mutate(func() error {
		var reg *Region
		h.scene.eachPlot(func(_ *Window, _ *Frame, p *Plot) bool {
			for _, r := range p.Regions {
				if r.ID == id {
					reg = r
					return false
				}
			}
			return true
		})
		if reg == nil {
			return fmt.Errorf("region %q: %w", id, chips.ErrNotFound)
		}
		reg.Style = style
		h.scene.CurRegion = id
		return nil
	})
}

// AddWindow opens another window and focuses it.
func (h *Host) AddWindow(width, height int) error {
	return h.mutate(func() error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("invalid window size %dx%d", width, height)
		}
		win := &Window{ID: h.nextID(stems[chips.KindWindow]), Width: width, Height: height}
		h.scene.Windows = append(h.scene.Windows, win)
		h.scene.CurWindow = win.ID
		h.scene.CurFrame = ""
		h.scene.CurPlot = ""
		return nil
	})
}
