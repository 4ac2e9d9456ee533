package chipshost

import (
	"fmt"
	"strings"
)

// Info returns the full object tree as a free-text report, one object
// per line with the identifier in square brackets. An empty scene
// yields an empty report.
func (h *Host) Info() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var b strings.Builder
	for _, w := range h.scene.Windows {
		fmt.Fprintf(&b, "Window [%s]  (%dx%d)\n", w.ID, w.Width, w.Height)
		for _, f := range w.Frames {
			fmt.Fprintf(&b, "  Frame [%s]\n", f.ID)
			for _, p := range f.Plots {
				fmt.Fprintf(&b, "    Plot [%s]\n", p.ID)
				for _, a := range p.Axes {
					fmt.Fprintf(&b, "      Axis [%s]\n", a.ID)
				}
				for _, r := range p.Regions {
					fmt.Fprintf(&b, "      Region [%s]\n", r.ID)
				}
				for _, c := range p.Curves {
					fmt.Fprintf(&b, "      Curve [%s]\n", c.ID)
				}
				for _, pt := range p.Points {
					fmt.Fprintf(&b, "      Point [%s]\n", pt.ID)
				}
				for _, l := range p.Labels {
					fmt.Fprintf(&b, "      Label [%s]\n", l.ID)
				}
			}
		}
	}
	return b.String(), nil
}

// InfoCurrent reports the focused window/frame/plot chain and the
// current object of each child kind, most recently touched last.
func (h *Host) InfoCurrent() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var b strings.Builder
	if h.scene.CurWindow != "" {
		fmt.Fprintf(&b, "Window [%s]\n", h.scene.CurWindow)
	}
	if h.scene.CurFrame != "" {
		fmt.Fprintf(&b, "  Frame [%s]\n", h.scene.CurFrame)
	}
	if h.scene.CurPlot != "" {
		fmt.Fprintf(&b, "    Plot [%s]\n", h.scene.CurPlot)
	}
	for _, cur := range []struct {
		kind string
		id   string
	}{
		{"Axis", h.scene.CurAxis},
		{"Region", h.scene.CurRegion},
		{"Curve", h.scene.CurCurve},
		{"Point", h.scene.CurPoint},
		{"Label", h.scene.CurLabel},
	} {
		if cur.id != "" {
			fmt.Fprintf(&b, "      %s [%s]\n", cur.kind, cur.id)
		}
	}
	return b.String(), nil
}
