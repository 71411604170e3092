// Package tui renders a running simulation in the terminal with tcell.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/sprout/components"
	"github.com/pthm-cable/sprout/sim"
	"github.com/pthm-cable/sprout/systems"
)

const (
	redrawInterval = 100 * time.Millisecond
	footerRows     = 3
	legend         = "space start/stop  s step  r reset  +/- speed  f field  q quit"
)

// Action is what a key press asks the view to do.
type Action uint8

const (
	ActionNone Action = iota
	ActionToggle
	ActionStep
	ActionReset
	ActionFaster
	ActionSlower
	ActionField
	ActionQuit
)

// KeyAction maps a key event to an action.
func KeyAction(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyRune:
	default:
		return ActionNone
	}
	switch ev.Rune() {
	case ' ':
		return ActionToggle
	case 's', 'S':
		return ActionStep
	case 'r', 'R':
		return ActionReset
	case '+', '=':
		return ActionFaster
	case '-', '_':
		return ActionSlower
	case 'f', 'F':
		return ActionField
	case 'q', 'Q':
		return ActionQuit
	}
	return ActionNone
}

// Project maps a world position onto a cols x rows character grid.
// ok is false when the grid is empty.
func Project(pos components.Vector2D, dom systems.Domain, cols, rows int) (col, row int, ok bool) {
	if cols <= 0 || rows <= 0 || dom.Width <= 0 || dom.Height <= 0 {
		return 0, 0, false
	}
	col = int(pos.X / dom.Width * float64(cols))
	row = int(pos.Y / dom.Height * float64(rows))
	col = max(0, min(col, cols-1))
	row = max(0, min(row, rows-1))
	return col, row, true
}

// NodeStyle returns the style for a node of the given state.
func NodeStyle(s components.NodeState) tcell.Style {
	switch s {
	case components.StateIncoherent:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	case components.StateDistorted:
		return tcell.StyleDefault.Foreground(tcell.ColorPurple)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	}
}

// View draws controller snapshots on a tcell screen and turns key presses
// into controller commands.
type View struct {
	screen tcell.Screen
	ctl    *sim.Controller

	status    sim.Status
	finished  bool
	showField bool

	field      systems.EnergyGrid
	fieldStale bool
}

// New creates a view. The screen must already be initialised.
func New(screen tcell.Screen, ctl *sim.Controller) *View {
	return &View{screen: screen, ctl: ctl, fieldStale: true}
}

// Run handles input and redraws until the user quits or ctx is cancelled.
// The controller must be running on another goroutine.
func (v *View) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := v.send(ctx, sim.CmdStatus); err != nil {
		return err
	}

	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()

	done := v.ctl.Done()
	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-done:
			done = nil
			v.finished = true
			v.status.Running = false
			v.Draw()

		case ev := <-events:
			quit, err := v.handleEvent(ctx, ev)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
			v.Draw()

		case <-ticker.C:
			v.Draw()
		}
	}
}

func (v *View) handleEvent(ctx context.Context, ev tcell.Event) (quit bool, err error) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
		v.fieldStale = true
	case *tcell.EventKey:
		return v.apply(ctx, KeyAction(ev))
	}
	return false, nil
}

// apply performs a key action.
func (v *View) apply(ctx context.Context, a Action) (quit bool, err error) {
	switch a {
	case ActionQuit:
		return true, nil
	case ActionField:
		v.showField = !v.showField
	case ActionToggle:
		cmd := sim.CmdStart
		if v.status.Running {
			cmd = sim.CmdStop
		}
		err = v.send(ctx, cmd)
	case ActionStep:
		err = v.send(ctx, sim.CmdStep)
	case ActionReset:
		err = v.send(ctx, sim.CmdReset)
		v.fieldStale = true
	case ActionFaster:
		err = v.send(ctx, sim.CmdFaster)
	case ActionSlower:
		err = v.send(ctx, sim.CmdSlower)
	}
	return false, err
}

// send applies cmd and records the reply. A finished controller is not an error.
func (v *View) send(ctx context.Context, cmd sim.Command) error {
	st, err := v.ctl.Send(ctx, cmd)
	if errors.Is(err, sim.ErrControllerDone) {
		v.finished = true
		return nil
	}
	if err != nil {
		return err
	}
	v.status = st
	return nil
}

// Draw renders the latest snapshot and the footer.
func (v *View) Draw() {
	v.screen.Clear()
	width, height := v.screen.Size()
	rows := height - footerRows
	snap := v.ctl.Snapshot()

	if rows > 0 && snap != nil {
		if v.showField {
			v.drawField(snap, width, rows)
		}
		v.drawResources(snap, width, rows)
		v.drawNodes(snap, width, rows)
	}
	v.drawFooter(snap, width, height)
	v.screen.Show()
}

func (v *View) drawField(snap *systems.Snapshot, cols, rows int) {
	if v.fieldStale || v.field.Cols != cols || v.field.Rows != rows {
		v.field = systems.SampleEnergy(snap.Resources, snap.Params.MaxEnergyDistance, snap.Domain, cols, rows)
		v.fieldStale = false
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			shade := int32(20 + 60*systems.Fraction(v.field.At(col, row)))
			style := tcell.StyleDefault.Background(tcell.NewRGBColor(shade, shade, shade/3))
			v.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (v *View) drawResources(snap *systems.Snapshot, cols, rows int) {
	for _, r := range snap.Resources {
		col, row, ok := Project(r.Position, snap.Domain, cols, rows)
		if !ok {
			continue
		}
		glyph, color := '*', tcell.ColorYellow
		if r.Kind == components.KindWater {
			glyph, color = '~', tcell.ColorBlue
		}
		v.setRune(col, row, glyph, color)
	}
}

func (v *View) drawNodes(snap *systems.Snapshot, cols, rows int) {
	for i := range snap.Nodes {
		n := &snap.Nodes[i]
		col, row, ok := Project(n.Position, snap.Domain, cols, rows)
		if !ok {
			continue
		}
		glyph := 'o'
		if n.IsSeed() {
			glyph = '@'
		}
		_, _, bg, _ := v.screen.GetContent(col, row)
		_, bgColor, _ := bg.Decompose()
		v.screen.SetContent(col, row, glyph, nil, NodeStyle(n.State()).Background(bgColor))
	}
}

// setRune draws r in fg, keeping the cell background.
func (v *View) setRune(col, row int, r rune, fg tcell.Color) {
	_, _, style, _ := v.screen.GetContent(col, row)
	v.screen.SetContent(col, row, r, nil, style.Foreground(fg))
}

func (v *View) drawFooter(snap *systems.Snapshot, width, height int) {
	status := v.status.String()
	if v.finished {
		status = "Simulation finished."
	}
	if snap != nil {
		status += fmt.Sprintf("  depth %d", snap.Depth())
	}

	var last string
	if logs := v.ctl.Logs(); len(logs) > 0 {
		last = logs[len(logs)-1].String()
	}

	v.drawText(0, height-3, width, status, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	v.drawText(0, height-2, width, last, tcell.StyleDefault)
	v.drawText(0, height-1, width, legend, tcell.StyleDefault.Foreground(tcell.ColorGray))
}

func (v *View) drawText(x, y, width int, text string, style tcell.Style) {
	if y < 0 {
		return
	}
	for _, r := range text {
		if x >= width {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
