package legend_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/openchips/legend/pkg/chips"
	"github.com/openchips/legend/pkg/chipshost"
	"github.com/openchips/legend/pkg/legend"
)

var demoStyles = []chips.CurveStyle{
	{
		Line: chips.LineStyle{Style: chips.LineSolid, Color: "blue", Thickness: 2},
	},
	{
		Line:   chips.LineStyle{Style: chips.LineDash, Color: "red"},
		Symbol: chips.SymbolStyle{Style: chips.SymbolSquare, Color: "red", Fill: true, Size: 8},
	},
	{
		Line:   chips.LineStyle{Style: chips.LineDot, Color: "forest"},
		Symbol: chips.SymbolStyle{Style: chips.SymbolCircle, Color: "forest", Size: 6, Angle: 45},
	},
	{
		Line: chips.LineStyle{Style: chips.LineSolid, Color: "gold"},
	},
	{
		Line:   chips.LineStyle{Style: chips.LineDashDot, Color: "navy"},
		Symbol: chips.SymbolStyle{Style: chips.SymbolCross, Color: "navy", Size: 10},
	},
	{
		Line: chips.LineStyle{Style: chips.LineSolid, Color: "purple"},
	},
}

// plotCurves sets up a host with n plotted curves.
func plotCurves(t *testing.T, n int) *chipshost.Host {
	t.Helper()
	h := chipshost.New()
	for i := 0; i < n; i++ {
		st := demoStyles[i%len(demoStyles)]
		if err := h.AddCurve([]float64{0, 1, 2}, []float64{float64(i), float64(i), float64(i)}, st); err != nil {
			t.Fatal(err)
		}
	}
	return h
}

// moveSession runs Move in the background and feeds it keys once the
// loop is listening; anything queued earlier is discarded on entry.
func moveSession(t *testing.T, h *chipshost.Host, l *legend.Legend, keys string) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- l.Move(context.Background()) }()
	// Give the loop a moment to start listening.
	time.Sleep(20 * time.Millisecond)
	for _, r := range keys {
		h.PushKey(r)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Move() failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Move() did not return")
	}
}

// overlay returns the legend frame's plot from a snapshot.
func overlay(t *testing.T, h *chipshost.Host, l *legend.Legend) *chipshost.Plot {
	t.Helper()
	f := h.Snapshot().FindFrame(l.Frame())
	if f == nil {
		t.Fatalf("legend frame %q not in scene", l.Frame())
	}
	if len(f.Plots) != 1 {
		t.Fatalf("legend frame has %d plots, want 1", len(f.Plots))
	}
	return f.Plots[0]
}

func TestNew(t *testing.T) {
	for n := 1; n <= 6; n++ {
		t.Run(fmt.Sprintf("%d curves", n), func(t *testing.T) {
			h := plotCurves(t, n)
			l, err := legend.New(h)
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}
			p := overlay(t, h, l)

			if len(p.Curves) != n || len(p.Points) != n || len(p.Labels) != n {
				t.Fatalf("overlay has %d curves, %d points, %d labels, want %d each",
					len(p.Curves), len(p.Points), len(p.Labels), n)
			}
			for i, lbl := range p.Labels {
				if want := fmt.Sprintf("%d", i); lbl.Text != want {
					t.Errorf("label %d = %q, want %q", i, lbl.Text, want)
				}
				if lbl.Style.VAlign != 0.5 {
					t.Errorf("label %d valign = %v, want 0.5", i, lbl.Style.VAlign)
				}
			}
			for i, c := range p.Curves {
				want := demoStyles[i%len(demoStyles)]
				if c.Style.Line != want.Line {
					t.Errorf("sample %d line style = %+v, want %+v", i, c.Style.Line, want.Line)
				}
				if c.Style.Symbol.Style != chips.SymbolNone {
					t.Errorf("sample %d should have its symbol disabled", i)
				}
			}
			for i, pt := range p.Points {
				if want := demoStyles[i%len(demoStyles)].Symbol; pt.Style != want {
					t.Errorf("point %d style = %+v, want %+v", i, pt.Style, want)
				}
			}
		})
	}
}

func TestNewPlacement(t *testing.T) {
	// Entry 0 sits in the top slot by default and in the bottom slot
	// with reverse; the entry order itself never changes.
	tests := []struct {
		name  string
		opts  []legend.Option
		slots []float64
	}{
		{
			name:  "default is top to bottom",
			slots: []float64{2, 1, 0},
		},
		{
			name:  "reverse is bottom to top",
			opts:  []legend.Option{legend.WithReverse()},
			slots: []float64{0, 1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := plotCurves(t, 3)
			l, err := legend.New(h, tt.opts...)
			if err != nil {
				t.Fatal(err)
			}
			p := overlay(t, h, l)
			for i, c := range p.Curves {
				if got := c.Ys[0]; got != tt.slots[i] {
					t.Errorf("sample %d slot = %v, want %v", i, got, tt.slots[i])
				}
				if p.Points[i].Y != tt.slots[i] {
					t.Errorf("point %d slot = %v, want %v", i, p.Points[i].Y, tt.slots[i])
				}
				if p.Labels[i].Y != tt.slots[i] {
					t.Errorf("label %d slot = %v, want %v", i, p.Labels[i].Y, tt.slots[i])
				}
			}
		})
	}
}

func TestNewPreconditions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) *chipshost.Host
	}{
		{
			name: "no frames",
			setup: func(t *testing.T) *chipshost.Host {
				return chipshost.New()
			},
		},
		{
			name: "no plots",
			setup: func(t *testing.T) *chipshost.Host {
				h := chipshost.New()
				if err := h.AddFrame(chips.FrameStyle{}, 0, 0, 1, 1); err != nil {
					t.Fatal(err)
				}
				return h
			},
		},
		{
			name: "no curves",
			setup: func(t *testing.T) *chipshost.Host {
				h := chipshost.New()
				if err := h.AddPlot(chips.PlotStyle{}); err != nil {
					t.Fatal(err)
				}
				return h
			},
		},
		{
			name: "two windows",
			setup: func(t *testing.T) *chipshost.Host {
				h := plotCurves(t, 2)
				if err := h.AddWindow(800, 600); err != nil {
					t.Fatal(err)
				}
				return h
			},
		},
		{
			name: "two frames",
			setup: func(t *testing.T) *chipshost.Host {
				h := plotCurves(t, 2)
				if err := h.AddFrame(chips.FrameStyle{}, 0.1, 0.1, 0.4, 0.4); err != nil {
					t.Fatal(err)
				}
				return h
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.setup(t)
			_, err := legend.New(h)
			if err == nil {
				t.Fatal("New() succeeded unexpectedly")
			}
			var pe *chips.PreconditionError
			if !errors.As(err, &pe) {
				t.Errorf("New() error = %v, want a PreconditionError", err)
			}
		})
	}
}

func TestNewIsOneUndoStep(t *testing.T) {
	h := plotCurves(t, 3)
	l, err := legend.New(h)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if f := h.Snapshot().FindFrame(l.Frame()); f != nil {
		t.Error("one Undo() should remove the whole legend overlay")
	}
	if err := h.Redo(); err != nil {
		t.Fatal(err)
	}
	if f := h.Snapshot().FindFrame(l.Frame()); f == nil {
		t.Error("Redo() should bring the legend overlay back")
	}
}

func TestFocusRestored(t *testing.T) {
	h := plotCurves(t, 3)

	before := h.Snapshot()
	l, err := legend.New(h)
	if err != nil {
		t.Fatal(err)
	}

	check := func(t *testing.T, op string) {
		t.Helper()
		after := h.Snapshot()
		if after.CurWindow != before.CurWindow || after.CurFrame != before.CurFrame || after.CurPlot != before.CurPlot {
			t.Errorf("%s left focus at %s/%s/%s, want %s/%s/%s", op,
				after.CurWindow, after.CurFrame, after.CurPlot,
				before.CurWindow, before.CurFrame, before.CurPlot)
		}
	}
	check(t, "New")

	if err := l.Relabel([]string{"a", "b", "c"}); err != nil {
		t.Fatal(err)
	}
	check(t, "Relabel")

	if err := l.Resync(); err != nil {
		t.Fatal(err)
	}
	check(t, "Resync")

	moveSession(t, h, l, "q")
	check(t, "Move")
}

func TestRelabel(t *testing.T) {
	h := plotCurves(t, 3)
	l, err := legend.New(h)
	if err != nil {
		t.Fatal(err)
	}

	if err := l.Relabel([]string{"too", "few"}); err == nil {
		t.Fatal("Relabel() with a short list succeeded unexpectedly")
	} else if !errors.Is(err, chips.ErrLabelCount) {
		t.Errorf("Relabel() error = %v, want ErrLabelCount", err)
	}
	for i, lbl := range overlay(t, h, l).Labels {
		if want := fmt.Sprintf("%d", i); lbl.Text != want {
			t.Errorf("failed Relabel() changed label %d to %q", i, lbl.Text)
		}
	}

	want := []string{"Below", "Normal", "Above"}
	if err := l.Relabel(want); err != nil {
		t.Fatal(err)
	}
	for i, lbl := range overlay(t, h, l).Labels {
		if lbl.Text != want[i] {
			t.Errorf("label %d = %q, want %q", i, lbl.Text, want[i])
		}
	}
}

func TestResync(t *testing.T) {
	h := plotCurves(t, 2)
	l, err := legend.New(h)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Relabel([]string{"first", "second"}); err != nil {
		t.Fatal(err)
	}

	// Restyle the first plotted curve after the legend was built.
	restyled := chips.CurveStyle{
		Line:   chips.LineStyle{Style: chips.LineDash, Color: "magenta", Thickness: 3},
		Symbol: chips.SymbolStyle{Style: chips.SymbolDiamond, Color: "magenta", Fill: true, Size: 12},
	}
	if err := h.SetCurve("crv1", restyled); err != nil {
		t.Fatal(err)
	}

	// The overlay still shows the construction-time style.
	p := overlay(t, h, l)
	if p.Curves[0].Style.Line == restyled.Line {
		t.Fatal("overlay should not track style edits before Resync()")
	}

	if err := l.Resync(); err != nil {
		t.Fatal(err)
	}

	p = overlay(t, h, l)
	if p.Curves[0].Style.Line != restyled.Line {
		t.Errorf("sample line = %+v, want %+v", p.Curves[0].Style.Line, restyled.Line)
	}
	if p.Curves[0].Style.Symbol.Style != chips.SymbolNone {
		t.Error("sample symbol should stay disabled after Resync()")
	}
	if p.Points[0].Style != restyled.Symbol {
		t.Errorf("point style = %+v, want %+v", p.Points[0].Style, restyled.Symbol)
	}
	// The second entry still matches its unchanged source curve.
	if p.Points[1].Style != demoStyles[1].Symbol {
		t.Errorf("point 1 style = %+v, want %+v", p.Points[1].Style, demoStyles[1].Symbol)
	}
	// Labels are not Resync's business.
	if p.Labels[0].Text != "first" || p.Labels[1].Text != "second" {
		t.Errorf("Resync() changed labels: %q, %q", p.Labels[0].Text, p.Labels[1].Text)
	}
}

func TestMoveKeys(t *testing.T) {
	h := plotCurves(t, 2)
	l, err := legend.New(h)
	if err != nil {
		t.Fatal(err)
	}
	before := h.Snapshot().FindFrame(l.Frame())

	// Up, left, an ignored key, an uppercase quit.
	moveSession(t, h, l, "wa.Q")

	after := h.Snapshot().FindFrame(l.Frame())
	if got, want := after.Y1, before.Y1+5.0/600.0; !almost(got, want) {
		t.Errorf("Y1 = %v, want %v", got, want)
	}
	if got, want := after.X1, before.X1-5.0/800.0; !almost(got, want) {
		t.Errorf("X1 = %v, want %v", got, want)
	}
}

func TestMoveSwallowsRejectedMoves(t *testing.T) {
	h := plotCurves(t, 2)
	l, err := legend.New(h)
	if err != nil {
		t.Fatal(err)
	}

	// Way more right-moves than there is room for; the loop must keep
	// accepting keys and still exit cleanly on q.
	moveSession(t, h, l, strings.Repeat("d", 40)+"q")

	f := h.Snapshot().FindFrame(l.Frame())
	if f.X2 > 1 {
		t.Errorf("frame pushed outside the window: X2 = %v", f.X2)
	}
}

func TestMoveIgnoresStaleKeys(t *testing.T) {
	h := plotCurves(t, 2)
	l, err := legend.New(h)
	if err != nil {
		t.Fatal(err)
	}
	before := h.Snapshot().FindFrame(l.Frame())

	// Keys typed before the session starts must not replay as moves.
	for _, r := range "wwdd" {
		h.PushKey(r)
	}
	moveSession(t, h, l, "q")

	after := h.Snapshot().FindFrame(l.Frame())
	if after.X1 != before.X1 || after.Y1 != before.Y1 {
		t.Errorf("stale keys moved the frame: (%v,%v) -> (%v,%v)",
			before.X1, before.Y1, after.X1, after.Y1)
	}
}

func TestMoveCancelled(t *testing.T) {
	h := plotCurves(t, 1)
	l, err := legend.New(h)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Move(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Move() error = %v, want context.Canceled", err)
	}
}

func TestManyCurvesStillWork(t *testing.T) {
	// Seven and more curves only warn; everything still gets an entry.
	h := plotCurves(t, 8)
	l, err := legend.New(h)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(overlay(t, h, l).Labels); got != 8 {
		t.Errorf("overlay has %d labels, want 8", got)
	}
}

func almost(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
