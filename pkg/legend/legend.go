// Package legend builds a legend overlay for the active plot of a
// ChIPS style host. The legend lives in its own frame so it can be
// shown, hidden and repositioned independently of the data plot, and
// carries one sample line, symbol and label per plotted curve.
package legend

import (
	"context"
	"errors"
	"fmt"
	"log"
	"unicode"

	"github.com/openchips/legend/pkg/chips"
	"github.com/openchips/legend/pkg/chips/report"
	"github.com/openchips/legend/pkg/debug"
)

// Layout of the overlay drawing area. The plot spans x [0,3] and
// y [-1,N] so that each curve gets one integer slot.
const (
	sampleX0 = 0.25
	sampleX1 = 1.0
	symbolX  = 0.625
	labelX   = 1.25

	frameRight = 0.9
	frameTop   = 0.9
	frameLeft  = 0.5

	// Room for up to 7 entries before the frame height stops growing
	// and entries start to squish.
	slotHeight  = 0.075
	maxHeight   = 0.4
	comfortable = 7

	moveStep = 5 // pixels per key press
)

// Legend is a legend overlay for the single active plot. Construct it
// with New once the curves are plotted; the sample styles are cloned
// at construction and only follow later style edits after Resync.
type Legend struct {
	tk  chips.Toolkit
	ins chips.Inspector

	reverse bool

	origWin   string
	origFrame string
	origPlot  string

	frame  string
	srcIDs []string
	styles []chips.CurveStyle

	curves []string
	points []string
	labels []string
}

type Option func(*Legend)

// WithReverse stacks the entries bottom-to-top instead of the default
// top-to-bottom. Entry order still follows the captured curve order.
func WithReverse() Option {
	return func(l *Legend) {
		l.reverse = true
	}
}

// New creates the legend overlay in the upper right part of the
// current plot, one entry per curve, labeled "0".."N-1". The whole
// construction is a single undo block. It fails unless exactly one
// window, frame and plot exist and at least one curve is plotted.
func New(tk chips.Toolkit, opts ...Option) (*Legend, error) {
	l := &Legend{
		tk:  tk,
		ins: report.InspectorFor(tk),
	}
	for _, opt := range opts {
		opt(l)
	}

	if err := l.checkPreconditions(); err != nil {
		return nil, err
	}

	tk.OpenUndoBlock()
	defer tk.CloseUndoBlock()

	if err := l.captureCurves(); err != nil {
		return nil, err
	}
	if err := l.makeFrame(); err != nil {
		return nil, err
	}
	if err := l.makeDrawingArea(); err != nil {
		return nil, err
	}
	if err := l.background(); err != nil {
		return nil, err
	}
	if err := l.draw(); err != nil {
		return nil, err
	}

	if err := l.restoreOrigin(); err != nil {
		return nil, err
	}
	return l, nil
}

// Frame returns the identifier of the overlay frame.
func (l *Legend) Frame() string {
	return l.frame
}

// Entries returns the number of legend entries.
func (l *Legend) Entries() int {
	return len(l.srcIDs)
}

func (l *Legend) checkPreconditions() error {
	for _, kind := range []chips.ObjectKind{chips.KindWindow, chips.KindFrame, chips.KindPlot} {
		ids, err := l.ins.ListObjects(kind)
		if err != nil && !errors.Is(err, chips.ErrNotFound) {
			return err
		}
		if len(ids) != 1 {
			return chips.Preconditionf("must have one and only one %s, found %d", kind, len(ids))
		}
	}
	curves, err := l.ins.ListObjects(chips.KindCurve)
	if err != nil && !errors.Is(err, chips.ErrNotFound) {
		return err
	}
	if len(curves) == 0 {
		return chips.Preconditionf("must have at least one curve")
	}
	if len(curves) >= comfortable {
		log.Printf("warning: %d curves found, the legend works best with fewer than %d", len(curves), comfortable)
	}
	return nil
}

// captureCurves records the focus to restore afterwards and clones the
// style of every plotted curve, in the host's object order.
func (l *Legend) captureCurves() error {
	var err error
	if l.origWin, err = l.ins.CurrentObject(chips.KindWindow); err != nil {
		return err
	}
	if l.origFrame, err = l.ins.CurrentObject(chips.KindFrame); err != nil {
		return err
	}
	if l.origPlot, err = l.ins.CurrentObject(chips.KindPlot); err != nil {
		return err
	}
	if l.srcIDs, err = l.ins.ListObjects(chips.KindCurve); err != nil {
		return err
	}
	l.styles = make([]chips.CurveStyle, 0, len(l.srcIDs))
	for _, id := range l.srcIDs {
		st, err := l.tk.GetCurve(id)
		if err != nil {
			return err
		}
		l.styles = append(l.styles, st)
	}
	return nil
}

func (l *Legend) makeFrame() error {
	style := chips.FrameStyle{
		BorderVisible: true,
		BorderColor:   "red",
		Stem:          "Legend",
		Transparency:  true,
		Scale:         false,
	}
	h := min(float64(len(l.srcIDs))*slotHeight, maxHeight)
	if err := l.tk.AddFrame(style, frameLeft, frameTop-h, frameRight, frameTop); err != nil {
		return err
	}
	var err error
	l.frame, err = l.ins.CurrentObject(chips.KindFrame)
	return err
}

func (l *Legend) makeDrawingArea() error {
	plt := chips.PlotStyle{
		BottomMargin: 0.01,
		TopMargin:    0.01,
		LeftMargin:   0.01,
		RightMargin:  0.01,
		Style:        "open",
	}
	if err := l.tk.AddPlot(plt); err != nil {
		return err
	}

	ax := chips.AxisStyle{}
	if err := l.tk.AddAxis(chips.XAxis, 0, 0, 3, ax); err != nil {
		return err
	}
	if err := l.tk.HideAxis(); err != nil {
		return err
	}
	if err := l.tk.AddAxis(chips.YAxis, 0, -1, float64(len(l.srcIDs)), ax); err != nil {
		return err
	}
	return l.tk.HideAxis()
}

func (l *Legend) background() error {
	n := float64(len(l.srcIDs))
	bg := chips.RegionStyle{
		EdgeColor: "forest",
		FillColor: "forest",
		FillStyle: "solid",
		Opacity:   0.5,
	}
	return l.tk.AddRegion([]float64{0, 3, 3, 0}, []float64{-1, -1, n, n}, bg)
}

func (l *Legend) slot(i int) float64 {
	if l.reverse {
		return float64(i)
	}
	return float64(len(l.srcIDs) - i - 1)
}

func (l *Legend) draw() error {
	n := len(l.srcIDs)
	l.curves = make([]string, 0, n)
	l.points = make([]string, 0, n)
	l.labels = make([]string, 0, n)

	for i, st := range l.styles {
		yy := l.slot(i)

		// The sample line carries the curve's style with the symbol
		// disabled; the symbol is drawn separately as a point so its
		// placement does not depend on the sample line's vertices.
		sample := st
		sample.Symbol.Style = chips.SymbolNone
		if err := l.tk.AddCurve([]float64{sampleX0, sampleX1}, []float64{yy, yy}, sample); err != nil {
			return err
		}
		id, err := l.ins.CurrentObject(chips.KindCurve)
		if err != nil {
			return err
		}
		l.curves = append(l.curves, id)

		if err := l.tk.AddPoint(symbolX, yy, st.Symbol); err != nil {
			return err
		}
		if id, err = l.ins.CurrentObject(chips.KindPoint); err != nil {
			return err
		}
		l.points = append(l.points, id)

		if err := l.tk.AddLabel(labelX, yy, fmt.Sprintf("%d", i), chips.LabelStyle{VAlign: 0.5}); err != nil {
			return err
		}
		if id, err = l.ins.CurrentObject(chips.KindLabel); err != nil {
			return err
		}
		l.labels = append(l.labels, id)
	}
	return nil
}

func (l *Legend) restoreOrigin() error {
	if err := l.tk.SetCurrentWindow(l.origWin); err != nil {
		return err
	}
	if err := l.tk.SetCurrentFrame(l.origFrame); err != nil {
		return err
	}
	return l.tk.SetCurrentPlot(l.origPlot)
}

// Relabel replaces the entry labels, in the captured curve order. The
// number of values must match the number of entries.
func (l *Legend) Relabel(vals []string) error {
	if len(vals) != len(l.labels) {
		return fmt.Errorf("%w: got %d labels for %d curves", chips.ErrLabelCount, len(vals), len(l.labels))
	}

	l.tk.OpenUndoBlock()
	defer l.tk.CloseUndoBlock()

	oldFrame, err := l.ins.CurrentObject(chips.KindFrame)
	if err != nil {
		return err
	}
	if err := l.tk.SetCurrentFrame(l.frame); err != nil {
		return err
	}
	for i, id := range l.labels {
		if err := l.tk.SetLabelText(id, vals[i]); err != nil {
			return err
		}
	}
	return l.tk.SetCurrentFrame(oldFrame)
}

// Resync re-reads every source curve's current style and applies it to
// the matching sample line and symbol. Labels are left alone. Call it
// after changing line or symbol properties on the plotted curves.
func (l *Legend) Resync() error {
	l.tk.OpenUndoBlock()
	defer l.tk.CloseUndoBlock()

	oldFrame, err := l.ins.CurrentObject(chips.KindFrame)
	if err != nil {
		return err
	}

	for i, src := range l.srcIDs {
		// Style lookups only see the focused plot, so flip back to the
		// data plot for each read and to the overlay for each write.
		if err := l.tk.SetCurrentWindow(l.origWin); err != nil {
			return err
		}
		if err := l.tk.SetCurrentFrame(l.origFrame); err != nil {
			return err
		}
		if err := l.tk.SetCurrentPlot(l.origPlot); err != nil {
			return err
		}
		st, err := l.tk.GetCurve(src)
		if err != nil {
			return err
		}
		if err := l.tk.SetCurrentFrame(l.frame); err != nil {
			return err
		}
		sample := st
		sample.Symbol.Style = chips.SymbolNone
		if err := l.tk.SetCurve(l.curves[i], sample); err != nil {
			return err
		}
		if err := l.tk.SetPoint(l.points[i], st.Symbol); err != nil {
			return err
		}
		l.styles[i] = st
	}

	if err := l.tk.SetCurrentFrame(oldFrame); err != nil {
		return err
	}
	return nil
}

// Move runs an interactive reposition loop: w/a/s/d nudge the overlay
// frame by a few pixels, q ends the loop, every other key is ignored.
// A rejected move is logged and the loop keeps going. The whole
// session is one undo block.
func (l *Legend) Move(ctx context.Context) error {
	fmt.Println("Make sure the plot window has focus. Use the following keys to move the legend:")
	fmt.Println("  w : Up")
	fmt.Println("  s : Down")
	fmt.Println("  a : Left")
	fmt.Println("  d : Right")
	fmt.Println("  q : Quit")

	l.tk.OpenUndoBlock()
	defer l.tk.CloseUndoBlock()

	oldFrame, err := l.ins.CurrentObject(chips.KindFrame)
	if err != nil {
		return err
	}
	if err := l.tk.SetCurrentFrame(l.frame); err != nil {
		return err
	}

	// Keys typed before the session started are not move commands.
	l.tk.FlushPicks()

	var loopErr error
loop:
	for {
		pick, err := l.tk.GetPick(ctx)
		if err != nil {
			loopErr = err
			break
		}
		debug.Log("move key " + string(pick.Key))
		switch unicode.ToLower(pick.Key) {
		case 'w':
			l.nudge(0, moveStep)
		case 's':
			l.nudge(0, -moveStep)
		case 'a':
			l.nudge(-moveStep, 0)
		case 'd':
			l.nudge(moveStep, 0)
		case 'q':
			break loop
		default:
			// Unrecognized keys are ignored on purpose.
		}
	}

	if err := l.tk.SetCurrentFrame(oldFrame); err != nil && loopErr == nil {
		loopErr = err
	}
	return loopErr
}

func (l *Legend) nudge(dx, dy float64) {
	if err := l.tk.MoveFrame(chips.CoordPixel, dx, dy, true); err != nil {
		log.Println("move frame:", err)
	}
}
