// Package chips models the scripting surface of a ChIPS style plotting
// host: frames, plots, axes, regions, curves, points and labels, plus
// focus control, undo blocks and the blocking key pick used by
// interactive tools.
package chips

import "context"

type ObjectKind string

const (
	KindWindow ObjectKind = "Window"
	KindFrame  ObjectKind = "Frame"
	KindPlot   ObjectKind = "Plot"
	KindAxis   ObjectKind = "Axis"
	KindRegion ObjectKind = "Region"
	KindCurve  ObjectKind = "Curve"
	KindPoint  ObjectKind = "Point"
	KindLabel  ObjectKind = "Label"
)

type Axis int

const (
	XAxis Axis = iota
	YAxis
)

type CoordSys int

const (
	// CoordWindowNorm is the default frame coordinate system, [0..1] over
	// the window with origin bottom-left.
	CoordWindowNorm CoordSys = iota
	CoordPixel
)

type LineKind int

const (
	LineNone LineKind = iota
	LineSolid
	LineDash
	LineDot
	LineDashDot
)

type SymbolKind int

const (
	SymbolNone SymbolKind = iota
	SymbolCircle
	SymbolCross
	SymbolDiamond
	SymbolPlus
	SymbolSquare
	SymbolPoint
	SymbolUpTriangle
	SymbolDownTriangle
)

type LineStyle struct {
	Style     LineKind
	Color     string
	Thickness float64
}

type SymbolStyle struct {
	Style SymbolKind
	Color string
	Fill  bool
	Size  int
	Angle float64
}

// CurveStyle is the full appearance of a curve. It is a value type on
// purpose: callers that capture one hold a clone, not a live reference
// into the host.
type CurveStyle struct {
	Line   LineStyle
	Symbol SymbolStyle
}

type FrameStyle struct {
	BorderVisible bool
	BorderColor   string
	// Stem overrides the identifier stem the host assigns to the frame.
	Stem         string
	Transparency bool
	Scale        bool
}

type PlotStyle struct {
	BottomMargin float64
	TopMargin    float64
	LeftMargin   float64
	RightMargin  float64
	Style        string
}

type AxisStyle struct {
	AutoMin             bool
	AutoMax             bool
	MajorTickVisible    bool
	MinorTickVisible    bool
	OffsetParallel      float64
	OffsetPerpendicular float64
	Pad                 float64
}

type RegionStyle struct {
	EdgeColor string
	FillColor string
	FillStyle string
	Opacity   float64
}

type LabelStyle struct {
	Size   int
	Color  string
	HAlign float64
	VAlign float64
}

// Pick is one key event from the host's interactive pick facility.
type Pick struct {
	Key rune
}

// Toolkit is the host's object-creation and mutation surface. New
// objects are created in the currently focused container and become
// the current object of their kind.
type Toolkit interface {
	AddFrame(style FrameStyle, x1, y1, x2, y2 float64) error
	AddPlot(style PlotStyle) error
	AddAxis(ax Axis, cross, lo, hi float64, style AxisStyle) error
	HideAxis() error
	AddRegion(xs, ys []float64, style RegionStyle) error
	AddCurve(xs, ys []float64, style CurveStyle) error
	AddPoint(x, y float64, style SymbolStyle) error
	AddLabel(x, y float64, text string, style LabelStyle) error

	GetCurve(id string) (CurveStyle, error)
	SetCurve(id string, style CurveStyle) error
	SetPoint(id string, style SymbolStyle) error
	SetLabelText(id, text string) error

	SetCurrentWindow(id string) error
	SetCurrentFrame(id string) error
	SetCurrentPlot(id string) error

	MoveFrame(sys CoordSys, dx, dy float64, relative bool) error

	OpenUndoBlock()
	CloseUndoBlock()

	// GetPick blocks until the next key press or context cancellation.
	// FlushPicks discards any keys already queued.
	GetPick(ctx context.Context) (Pick, error)
	FlushPicks()

	// Info and InfoCurrent return the host's free-text status reports,
	// one object per line with the identifier in square brackets.
	Info() (string, error)
	InfoCurrent() (string, error)
}

// Inspector is the typed object-query surface. Hosts that only expose
// the free-text reports can be wrapped with report.InspectorFor.
type Inspector interface {
	ListObjects(kind ObjectKind) ([]string, error)
	CurrentObject(kind ObjectKind) (string, error)
}
