package chipshost_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/openchips/legend/pkg/chips"
	"github.com/openchips/legend/pkg/chipshost"
	"github.com/openchips/legend/pkg/eventbus"
)

func addCurve(t *testing.T, h *chipshost.Host, style chips.CurveStyle) {
	t.Helper()
	if err := h.AddCurve([]float64{0, 1}, []float64{0, 1}, style); err != nil {
		t.Fatal(err)
	}
}

func TestIdentifiers(t *testing.T) {
	h := chipshost.New()
	addCurve(t, h, chips.CurveStyle{})
	addCurve(t, h, chips.CurveStyle{})

	snap := h.Snapshot()
	if snap.CurWindow != "win1" {
		t.Errorf("current window = %q, want win1", snap.CurWindow)
	}
	if snap.CurCurve != "crv2" {
		t.Errorf("current curve = %q, want crv2", snap.CurCurve)
	}

	// A frame stem overrides the identifier prefix.
	if err := h.AddFrame(chips.FrameStyle{Stem: "Legend"}, 0.5, 0.5, 0.9, 0.9); err != nil {
		t.Fatal(err)
	}
	if got := h.Snapshot().CurFrame; got != "Legend1" {
		t.Errorf("current frame = %q, want Legend1", got)
	}
}

func TestAutoCreate(t *testing.T) {
	h := chipshost.New()
	addCurve(t, h, chips.CurveStyle{})

	rep, err := h.Info()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Window [win1]", "Frame [frm1]", "Plot [plot1]", "Curve [crv1]"} {
		if !strings.Contains(rep, want) {
			t.Errorf("Info() missing %q:\n%s", want, rep)
		}
	}
}

func TestInfoCurrentLastWins(t *testing.T) {
	h := chipshost.New()
	addCurve(t, h, chips.CurveStyle{})
	addCurve(t, h, chips.CurveStyle{})

	rep, err := h.InfoCurrent()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(rep, "Curve [crv2]") {
		t.Errorf("InfoCurrent() should report crv2 as current:\n%s", rep)
	}
	if strings.Contains(rep, "Curve [crv1]") {
		t.Errorf("InfoCurrent() should not report crv1:\n%s", rep)
	}
}

func TestUndoBlockGroupsMutations(t *testing.T) {
	h := chipshost.New()
	addCurve(t, h, chips.CurveStyle{})

	h.OpenUndoBlock()
	if err := h.AddFrame(chips.FrameStyle{}, 0.5, 0.5, 0.9, 0.9); err != nil {
		t.Fatal(err)
	}
	if err := h.AddPlot(chips.PlotStyle{}); err != nil {
		t.Fatal(err)
	}
	addCurve(t, h, chips.CurveStyle{})
	h.CloseUndoBlock()

	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	rep, _ := h.Info()
	if strings.Contains(rep, "frm2") || strings.Contains(rep, "crv2") {
		t.Errorf("Undo() should remove the whole block:\n%s", rep)
	}

	if err := h.Redo(); err != nil {
		t.Fatal(err)
	}
	rep, _ = h.Info()
	if !strings.Contains(rep, "crv2") {
		t.Errorf("Redo() should restore the block:\n%s", rep)
	}
}

func TestRevisionPerMutation(t *testing.T) {
	bus := eventbus.New(nil)
	defer bus.Close()
	h := chipshost.New(chipshost.WithEvents(bus))

	ch := bus.Subscribe(chipshost.SceneTopic)
	// Let the pump register the subscription before publishing.
	time.Sleep(10 * time.Millisecond)

	// Views redraw per mutation, so revisions arrive while the block is
	// still open, not just at its close.
	h.OpenUndoBlock()
	addCurve(t, h, chips.CurveStyle{})
	first := recvRev(t, ch)
	addCurve(t, h, chips.CurveStyle{})
	if got := recvRev(t, ch); got != first+1 {
		t.Errorf("second revision = %v, want %v", got, first+1)
	}
	h.CloseUndoBlock()

	// A rejected mutation changes nothing and publishes nothing: the
	// next committed revision follows on directly.
	if err := h.MoveFrame(chips.CoordWindowNorm, 5, 0, true); err == nil {
		t.Fatal("MoveFrame() past the edge succeeded unexpectedly")
	}
	addCurve(t, h, chips.CurveStyle{})
	if got := recvRev(t, ch); got != first+2 {
		t.Errorf("revision after failed move = %v, want %v", got, first+2)
	}
}

func recvRev(t *testing.T, ch chan float64) float64 {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a scene revision")
		return 0
	}
}

func TestFailedMutationLeavesNoUndoStep(t *testing.T) {
	h := chipshost.New()
	addCurve(t, h, chips.CurveStyle{})

	if err := h.MoveFrame(chips.CoordWindowNorm, 5, 0, true); err == nil {
		t.Fatal("MoveFrame() past the edge succeeded unexpectedly")
	}

	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := h.Undo(); err == nil {
		t.Error("failed mutation left a no-op undo step behind")
	}
}

func TestMoveFrameBounds(t *testing.T) {
	h := chipshost.New()
	if err := h.AddFrame(chips.FrameStyle{}, 0.5, 0.5, 0.9, 0.9); err != nil {
		t.Fatal(err)
	}

	if err := h.MoveFrame(chips.CoordPixel, 0, 40, true); err != nil {
		t.Fatalf("MoveFrame() failed: %v", err)
	}
	f := h.Snapshot().FindFrame("frm1")
	if f == nil {
		t.Fatal("frame not found")
	}
	// 40px up in a 600px window is a 1/15 shift.
	if got, want := f.Y1, 0.5+40.0/600.0; !almost(got, want) {
		t.Errorf("Y1 = %v, want %v", got, want)
	}

	// Pushing past the window edge is rejected and leaves the frame put.
	if err := h.MoveFrame(chips.CoordPixel, 200, 0, true); err == nil {
		t.Fatal("MoveFrame() past the edge succeeded unexpectedly")
	}
	f2 := h.Snapshot().FindFrame("frm1")
	if f2.X1 != f.X1 {
		t.Errorf("rejected move changed X1: %v -> %v", f.X1, f2.X1)
	}
}

func TestPicks(t *testing.T) {
	h := chipshost.New()
	h.PushKey('w')

	p, err := h.GetPick(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if p.Key != 'w' {
		t.Errorf("pick = %q, want w", p.Key)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := h.GetPick(ctx); err == nil {
		t.Fatal("GetPick() with empty queue succeeded unexpectedly")
	}
}

func almost(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
