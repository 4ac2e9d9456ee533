package main

import (
	"context"
	"fmt"
	"image/color"
	"image/png"
	"log"
	"math"
	"net/url"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	xwidget "fyne.io/x/fyne/widget"
	"github.com/lusingander/colorpicker"
	"github.com/skratchdot/open-golang/open"
	sdialog "github.com/sqweek/dialog"

	"github.com/openchips/legend/pkg/chips"
	"github.com/openchips/legend/pkg/chipshost"
	"github.com/openchips/legend/pkg/debug"
	"github.com/openchips/legend/pkg/eventbus"
	"github.com/openchips/legend/pkg/legend"
	"github.com/openchips/legend/pkg/render"
	"github.com/openchips/legend/pkg/update"
	"github.com/openchips/legend/pkg/widgets/plotview"
)

const (
	sceneWidth  = 800
	sceneHeight = 600
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds)
}

func main() {
	a := app.NewWithID("com.openchips.legend-demo")
	defer debug.Close()

	bus := eventbus.New(nil)
	defer bus.Close()

	host := chipshost.New(chipshost.WithEvents(bus))
	addDemoCurves(host)

	lgnd, err := legend.New(host)
	if err != nil {
		log.Fatal(err)
	}

	pv := plotview.New(host, bus, sceneWidth, sceneHeight)
	defer pv.Close()

	w := a.NewWindow("legend demo")
	w.SetMainMenu(mainMenu(a, w, host, lgnd, pv))
	w.SetContent(container.NewStack(pv))
	w.Resize(fyne.NewSize(sceneWidth, sceneHeight))

	go updateCheck(a, w)
	w.ShowAndRun()
}

// addDemoCurves plots three series with distinct styles so the legend
// has something to describe.
func addDemoCurves(host *chipshost.Host) {
	const n = 60
	xs := make([]float64, n)
	low := make([]float64, n)
	mid := make([]float64, n)
	high := make([]float64, n)
	for i := range n {
		x := float64(i) / float64(n-1) * 10
		xs[i] = x
		low[i] = math.Sin(x) - 2
		mid[i] = 0.5 * math.Cos(x)
		high[i] = 2 + 0.2*x
	}

	styles := []chips.CurveStyle{
		{
			Line: chips.LineStyle{Style: chips.LineSolid, Color: "blue", Thickness: 2},
		},
		{
			Line:   chips.LineStyle{Style: chips.LineDash, Color: "red"},
			Symbol: chips.SymbolStyle{Style: chips.SymbolSquare, Color: "red", Fill: true, Size: 8},
		},
		{
			Line:   chips.LineStyle{Style: chips.LineDot, Color: "forest"},
			Symbol: chips.SymbolStyle{Style: chips.SymbolCircle, Color: "forest", Size: 8},
		},
	}

	for i, ys := range [][]float64{low, mid, high} {
		if err := host.AddCurve(xs, ys, styles[i]); err != nil {
			log.Fatal(err)
		}
	}
}

func mainMenu(a fyne.App, w fyne.Window, host *chipshost.Host, lgnd *legend.Legend, pv *plotview.PlotView) *fyne.MainMenu {
	return fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Export PNG", func() {
				exportPNG(w, host)
			}),
		),
		fyne.NewMenu("Edit",
			fyne.NewMenuItem("Undo", func() {
				if err := host.Undo(); err != nil {
					log.Println(err)
					return
				}
				pv.Redraw()
			}),
			fyne.NewMenuItem("Redo", func() {
				if err := host.Redo(); err != nil {
					log.Println(err)
					return
				}
				pv.Redraw()
			}),
		),
		fyne.NewMenu("Legend",
			fyne.NewMenuItem("Move (w/a/s/d, q to stop)", func() {
				if c := w.Canvas(); c != nil {
					c.Focus(pv)
				}
				go func() {
					if err := lgnd.Move(context.Background()); err != nil {
						log.Println("move loop:", err)
					}
				}()
			}),
			fyne.NewMenuItem("Resync styles", func() {
				if err := lgnd.Resync(); err != nil {
					dialog.ShowError(err, w)
				}
			}),
			fyne.NewMenuItem("Relabel...", func() {
				relabelDialog(w, lgnd)
			}),
			fyne.NewMenuItem("Background color...", func() {
				backgroundDialog(w, host, lgnd)
			}),
		),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("Check for updates", func() {
				go updateCheck(a, w)
			}),
		),
	)
}

func exportPNG(w fyne.Window, host *chipshost.Host) {
	filename, err := sdialog.File().Filter("PNG image", "png").Title("Export plot").Save()
	if err != nil {
		if err.Error() == "Cancelled" {
			return
		}
		dialog.ShowError(err, w)
		return
	}
	f, err := os.Create(filename)
	if err != nil {
		dialog.ShowError(err, w)
		return
	}
	defer f.Close()
	if err := png.Encode(f, render.Render(host.Snapshot(), sceneWidth, sceneHeight)); err != nil {
		dialog.ShowError(err, w)
		return
	}
	if err := open.Start(filename); err != nil {
		log.Println("open exported image:", err)
	}
}

func relabelDialog(w fyne.Window, lgnd *legend.Legend) {
	suggestions := []string{"Below", "Normal", "Above", "Data", "Model", "Residuals"}
	entries := make([]*xwidget.CompletionEntry, lgnd.Entries())
	items := make([]*widget.FormItem, lgnd.Entries())
	for i := range entries {
		entry := xwidget.NewCompletionEntry(suggestions)
		entry.OnChanged = func(string) {
			entry.SetOptions(suggestions)
			entry.ShowCompletion()
		}
		entries[i] = entry
		items[i] = widget.NewFormItem(fmt.Sprintf("Entry %d", i), entry)
	}
	dialog.ShowForm("Relabel legend", "Apply", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		vals := make([]string, len(entries))
		for i, e := range entries {
			vals[i] = e.Text
		}
		if err := lgnd.Relabel(vals); err != nil {
			dialog.ShowError(err, w)
		}
	}, w)
}

func backgroundDialog(w fyne.Window, host *chipshost.Host, lgnd *legend.Legend) {
	snap := host.Snapshot()
	frame := snap.FindFrame(lgnd.Frame())
	if frame == nil || len(frame.Plots) == 0 || len(frame.Plots[0].Regions) == 0 {
		dialog.ShowError(fmt.Errorf("legend background region not found"), w)
		return
	}
	region := frame.Plots[0].Regions[0]

	picker := colorpicker.New(250, colorpicker.StyleHueCircle)
	picker.SetOnChanged(func(c color.Color) {
		r, g, b, _ := c.RGBA()
		hex := fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
		style := region.Style
		style.EdgeColor = hex
		style.FillColor = hex
		if err := host.SetRegionStyle(region.ID, style); err != nil {
			log.Println("set region style:", err)
		}
	})

	var modal *widget.PopUp
	modal = widget.NewModalPopUp(container.NewVBox(
		picker,
		widget.NewButton("Close", func() {
			modal.Hide()
		}),
	), w.Canvas())
	modal.Show()
}

func updateCheck(a fyne.App, w fyne.Window) {
	if isLatest, latestVersion := update.IsLatest("v" + a.Metadata().Version); !isLatest {
		u, err := url.Parse("https://github.com/openchips/legend/releases")
		if err != nil {
			panic(err)
		}
		link := widget.NewHyperlink("Releases", u)
		link.Alignment = fyne.TextAlignCenter
		link.TextStyle = fyne.TextStyle{Bold: true}
		dialog.ShowCustom(
			"Update available",
			"Close",
			container.NewVBox(
				widget.NewLabel("Version "+latestVersion+" is available"),
				link,
			),
			w,
		)
	}
}
