// Package browse implements a terminal call browser: a scrollable
// table of calls with a detail line for the current selection, adapted
// from the log viewer's table/status-bar layout.
package browse

import (
	"strconv"

	"github.com/marcusolsson/tui-go"
	"github.com/pkg/errors"

	"github.com/mysticbob/apitrace/trace"
)

// Run displays calls in an interactive full-screen table until the
// user presses q or Ctrl-C.
func Run(calls []*trace.Call) error {
	table := tui.NewTable(0, 0)
	table.AppendRow(tui.NewLabel("no"), tui.NewLabel("call"))
	for _, c := range calls {
		table.AppendRow(tui.NewLabel(strconv.Itoa(int(c.No))), tui.NewLabel(c.String()))
	}

	status := tui.NewStatusBar("apitrace browse: up/down to move, q to quit")
	status.SetPermanentText("apitrace")

	root := tui.NewVBox(table, tui.NewSpacer(), status)

	ui, err := tui.New(root)
	if err != nil {
		return errors.Wrap(err, "initialize terminal UI")
	}

	table.OnItemActivated(func(t *tui.Table) {
		row := t.Selected()
		if row < 1 || row > len(calls) {
			return
		}
		status.SetText(calls[row-1].String())
	})

	ui.SetKeybinding("q", func() { ui.Quit() })
	ui.SetKeybinding("Ctrl+c", func() { ui.Quit() })

	if err := ui.Run(); err != nil {
		return errors.Wrap(err, "run terminal UI")
	}
	return nil
}
