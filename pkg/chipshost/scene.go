package chipshost

import "github.com/openchips/legend/pkg/chips"

// Scene is the host's object tree. Snapshots of it drive both the
// undo stack and the renderer, so everything here is plain data and
// deep-copyable.
type Scene struct {
	Windows []*Window

	CurWindow string
	CurFrame  string
	CurPlot   string
	CurAxis   string
	CurRegion string
	CurCurve  string
	CurPoint  string
	CurLabel  string
}

type Window struct {
	ID     string
	Width  int
	Height int
	Frames []*Frame
}

// Frame is a sub-region of its window, with corners in window
// normalized coordinates, origin bottom-left.
type Frame struct {
	ID             string
	Style          chips.FrameStyle
	X1, Y1, X2, Y2 float64
	Plots          []*Plot
}

type Plot struct {
	ID      string
	Style   chips.PlotStyle
	Axes    []*AxisObject
	Regions []*Region
	Curves  []*Curve
	Points  []*Point
	Labels  []*Label
}

type AxisObject struct {
	ID     string
	Axis   chips.Axis
	Cross  float64
	Lo, Hi float64
	Style  chips.AxisStyle
	Hidden bool
}

type Region struct {
	ID    string
	Xs    []float64
	Ys    []float64
	Style chips.RegionStyle
}

type Curve struct {
	ID    string
	Xs    []float64
	Ys    []float64
	Style chips.CurveStyle
}

type Point struct {
	ID    string
	X, Y  float64
	Style chips.SymbolStyle
}

type Label struct {
	ID    string
	X, Y  float64
	Text  string
	Style chips.LabelStyle
}

func (s *Scene) clone() *Scene {
	out := *s
	out.Windows = make([]*Window, len(s.Windows))
	for i, w := range s.Windows {
		out.Windows[i] = w.clone()
	}
	return &out
}

func (w *Window) clone() *Window {
	out := *w
	out.Frames = make([]*Frame, len(w.Frames))
	for i, f := range w.Frames {
		out.Frames[i] = f.clone()
	}
	return &out
}

func (f *Frame) clone() *Frame {
	out := *f
	out.Plots = make([]*Plot, len(f.Plots))
	for i, p := range f.Plots {
		out.Plots[i] = p.clone()
	}
	return &out
}

func (p *Plot) clone() *Plot {
	out := *p
	out.Axes = make([]*AxisObject, len(p.Axes))
	for i, a := range p.Axes {
		c := *a
		out.Axes[i] = &c
	}
	out.Regions = make([]*Region, len(p.Regions))
	for i, r := range p.Regions {
		c := *r
		c.Xs = append([]float64(nil), r.Xs...)
		c.Ys = append([]float64(nil), r.Ys...)
		out.Regions[i] = &c
	}
	out.Curves = make([]*Curve, len(p.Curves))
	for i, cv := range p.Curves {
		c := *cv
		c.Xs = append([]float64(nil), cv.Xs...)
		c.Ys = append([]float64(nil), cv.Ys...)
		out.Curves[i] = &c
	}
	out.Points = make([]*Point, len(p.Points))
	for i, pt := range p.Points {
		c := *pt
		out.Points[i] = &c
	}
	out.Labels = make([]*Label, len(p.Labels))
	for i, l := range p.Labels {
		c := *l
		out.Labels[i] = &c
	}
	return &out
}

func (s *Scene) window(id string) *Window {
	for _, w := range s.Windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (s *Scene) frame(id string) *Frame {
	for _, w := range s.Windows {
		for _, f := range w.Frames {
			if f.ID == id {
				return f
			}
		}
	}
	return nil
}

func (s *Scene) plot(id string) *Plot {
	for _, w := range s.Windows {
		for _, f := range w.Frames {
			for _, p := range f.Plots {
				if p.ID == id {
					return p
				}
			}
		}
	}
	return nil
}

func (s *Scene) eachPlot(fn func(*Window, *Frame, *Plot) bool) {
	for _, w := range s.Windows {
		for _, f := range w.Frames {
			for _, p := range f.Plots {
				if !fn(w, f, p) {
					return
				}
			}
		}
	}
}

func (s *Scene) curve(id string) *Curve {
	var out *Curve
	s.eachPlot(func(_ *Window, _ *Frame, p *Plot) bool {
		for _, c := range p.Curves {
			if c.ID == id {
				out = c
				return false
			}
		}
		return true
	})
	return out
}

func (s *Scene) point(id string) *Point {
	var out *Point
	s.eachPlot(func(_ *Window, _ *Frame, p *Plot) bool {
		for _, pt := range p.Points {
			if pt.ID == id {
				out = pt
				return false
			}
		}
		return true
	})
	return out
}

func (s *Scene) label(id string) *Label {
	var out *Label
	s.eachPlot(func(_ *Window, _ *Frame, p *Plot) bool {
		for _, l := range p.Labels {
			if l.ID == id {
				out = l
				return false
			}
		}
		return true
	})
	return out
}

// FindFrame returns the frame with the given identifier, or nil. Meant
// for inspection of snapshots.
func (s *Scene) FindFrame(id string) *Frame {
	return s.frame(id)
}

// FindCurve returns the curve with the given identifier, or nil.
func (s *Scene) FindCurve(id string) *Curve {
	return s.curve(id)
}

// FindPoint returns the point with the given identifier, or nil.
func (s *Scene) FindPoint(id string) *Point {
	return s.point(id)
}

// FindLabel returns the label with the given identifier, or nil.
func (s *Scene) FindLabel(id string) *Label {
	return s.label(id)
}
