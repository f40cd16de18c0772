// Package render draws a call-timeline SVG from a decoded trace, as
// served by the HTTP viewer's /api/timeline.svg endpoint.
package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/mysticbob/apitrace/trace"
)

const rowHeight = 16

// Timeline renders one rectangle per call, one horizontal lane per
// distinct function name, ordered by each function's first call.
type Timeline struct {
	Calls   []*trace.Call
	Width   int
	Colors  Colors
}

// Render writes the SVG document to w.
func (t *Timeline) Render(w io.Writer) {
	lanes := laneIndex(t.Calls)
	height := (len(lanes) + 1) * rowHeight

	canv := svg.New(w)
	canv.Start(t.Width, height)
	canv.Rect(0, 0, t.Width, height, `fill="#ffffff"`)

	for _, call := range t.Calls {
		lane := lanes[call.Name()]
		x := int(call.No)
		y := lane * rowHeight
		width := 1
		fill := t.Colors.ForCall(call.Name())
		canv.Rect(x, y, width, rowHeight-2,
			fmt.Sprintf(`fill="%s"`, fill))
	}

	for name, lane := range lanes {
		canv.Text(2, lane*rowHeight+rowHeight-4, name, `font-size="10"`)
	}

	canv.End()
}

// laneIndex assigns each distinct function name a lane number in order
// of first appearance.
func laneIndex(calls []*trace.Call) map[string]int {
	lanes := map[string]int{}
	for _, call := range calls {
		name := call.Name()
		if _, ok := lanes[name]; !ok {
			lanes[name] = len(lanes)
		}
	}
	return lanes
}
