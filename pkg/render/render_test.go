package render_test

import (
	"image/color"
	"testing"

	"github.com/openchips/legend/pkg/chips"
	"github.com/openchips/legend/pkg/chipshost"
	"github.com/openchips/legend/pkg/render"
)

func TestRenderEmptyScene(t *testing.T) {
	h := chipshost.New()
	img := render.Render(h.Snapshot(), 100, 80)
	if got := img.Bounds().Dx(); got != 100 {
		t.Fatalf("width = %d, want 100", got)
	}
	if got := img.RGBAAt(50, 40); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("empty scene pixel = %v, want white", got)
	}
}

func TestRenderCurve(t *testing.T) {
	h := chipshost.New()
	// A horizontal red line across the middle of a margin-less plot.
	if err := h.AddPlot(chips.PlotStyle{}); err != nil {
		t.Fatal(err)
	}
	if err := h.AddAxis(chips.XAxis, 0, 0, 1, chips.AxisStyle{}); err != nil {
		t.Fatal(err)
	}
	if err := h.AddAxis(chips.YAxis, 0, 0, 1, chips.AxisStyle{}); err != nil {
		t.Fatal(err)
	}
	style := chips.CurveStyle{Line: chips.LineStyle{Style: chips.LineSolid, Color: "red"}}
	if err := h.AddCurve([]float64{0, 1}, []float64{0.5, 0.5}, style); err != nil {
		t.Fatal(err)
	}

	img := render.Render(h.Snapshot(), 100, 100)
	red := color.RGBA{255, 0, 0, 255}
	found := false
	for x := 0; x < 100 && !found; x++ {
		for y := 0; y < 100; y++ {
			if img.RGBAAt(x, y) == red {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no red pixel drawn for the curve")
	}
}

func TestRenderRegionBlends(t *testing.T) {
	h := chipshost.New()
	if err := h.AddPlot(chips.PlotStyle{}); err != nil {
		t.Fatal(err)
	}
	if err := h.AddAxis(chips.XAxis, 0, 0, 1, chips.AxisStyle{}); err != nil {
		t.Fatal(err)
	}
	if err := h.AddAxis(chips.YAxis, 0, 0, 1, chips.AxisStyle{}); err != nil {
		t.Fatal(err)
	}
	reg := chips.RegionStyle{EdgeColor: "forest", FillColor: "forest", FillStyle: "solid", Opacity: 0.5}
	if err := h.AddRegion([]float64{0, 1, 1, 0}, []float64{0, 0, 1, 1}, reg); err != nil {
		t.Fatal(err)
	}

	img := render.Render(h.Snapshot(), 100, 100)
	got := img.RGBAAt(50, 50)
	// Half forest (34,139,34) over white.
	want := color.RGBA{144, 197, 144, 255}
	if got != want {
		t.Errorf("blended pixel = %v, want %v", got, want)
	}
}

func TestRenderLabel(t *testing.T) {
	h := chipshost.New()
	if err := h.AddPlot(chips.PlotStyle{}); err != nil {
		t.Fatal(err)
	}
	if err := h.AddAxis(chips.XAxis, 0, 0, 1, chips.AxisStyle{}); err != nil {
		t.Fatal(err)
	}
	if err := h.AddAxis(chips.YAxis, 0, 0, 1, chips.AxisStyle{}); err != nil {
		t.Fatal(err)
	}
	if err := h.AddLabel(0.5, 0.5, "0", chips.LabelStyle{Color: "black", VAlign: 0.5}); err != nil {
		t.Fatal(err)
	}

	img := render.Render(h.Snapshot(), 100, 100)
	black := color.RGBA{0, 0, 0, 255}
	found := 0
	for x := 30; x < 70; x++ {
		for y := 30; y < 70; y++ {
			if img.RGBAAt(x, y) == black {
				found++
			}
		}
	}
	if found == 0 {
		t.Error("no glyph pixels drawn for the label")
	}
}
