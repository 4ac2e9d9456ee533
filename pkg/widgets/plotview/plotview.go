// Package plotview is a Fyne widget presenting a rendered chipshost
// scene. It redraws on scene revisions from the event bus and feeds
// typed keys into the host's pick queue, which is what drives the
// legend's interactive move loop.
package plotview

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/openchips/legend/pkg/chipshost"
	"github.com/openchips/legend/pkg/eventbus"
	"github.com/openchips/legend/pkg/render"
)

type PlotView struct {
	widget.BaseWidget

	host *chipshost.Host
	bus  *eventbus.Controller
	img  *canvas.Image

	width  int
	height int

	sub       chan float64
	closeOnce sync.Once
	quit      chan struct{}
}

func New(host *chipshost.Host, bus *eventbus.Controller, width, height int) *PlotView {
	pv := &PlotView{
		host:   host,
		bus:    bus,
		width:  width,
		height: height,
		quit:   make(chan struct{}),
	}
	pv.ExtendBaseWidget(pv)

	pv.img = canvas.NewImageFromImage(render.Render(host.Snapshot(), width, height))
	pv.img.FillMode = canvas.ImageFillOriginal
	pv.img.ScaleMode = canvas.ImageScaleFastest

	if bus != nil {
		pv.sub = bus.Subscribe(chipshost.SceneTopic)
		go pv.watch()
	}
	return pv
}

func (pv *PlotView) watch() {
	for {
		select {
		case <-pv.quit:
			return
		case _, ok := <-pv.sub:
			if !ok {
				return
			}
			pv.Redraw()
		}
	}
}

// Redraw re-renders the scene and refreshes the canvas image.
func (pv *PlotView) Redraw() {
	pv.img.Image = render.Render(pv.host.Snapshot(), pv.width, pv.height)
	pv.img.Refresh()
}

// Close stops the revision watcher.
func (pv *PlotView) Close() {
	pv.closeOnce.Do(func() {
		close(pv.quit)
		if pv.bus != nil && pv.sub != nil {
			pv.bus.Unsubscribe(pv.sub)
		}
	})
}

// Tapped moves keyboard focus to the view so move keys reach the host.
func (pv *PlotView) Tapped(*fyne.PointEvent) {
	if c := fyne.CurrentApp().Driver().CanvasForObject(pv); c != nil {
		c.Focus(pv)
	}
}

func (pv *PlotView) FocusGained() {}

func (pv *PlotView) FocusLost() {}

func (pv *PlotView) TypedRune(r rune) {
	pv.host.PushKey(r)
}

func (pv *PlotView) TypedKey(*fyne.KeyEvent) {}

func (pv *PlotView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pv.img)
}
