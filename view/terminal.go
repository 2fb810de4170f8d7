// Package view is a terminal front end for a running simulation.
package view

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/game"
)

const (
	viewHeader  = "header"
	viewStatus  = "status"
	viewCell    = "cell"
	viewField   = "field"
	viewHelp    = "help"
	leftColumn  = 30
	minHeight   = 16
	headerTitle = "Rabbits and foxes"
)

type keyBinding struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

// Terminal draws snapshots in a terminal and forwards key presses to a
// Runner. Two characters per cell.
type Terminal struct {
	runner *game.Runner
	au     aurora.Aurora
	g      *gocui.Gui
	keys   []keyBinding

	mu       sync.Mutex
	status   game.Status
	selected *[2]int
}

// NewTerminal creates a terminal viewer for r.
func NewTerminal(r *game.Runner, colors bool) *Terminal {
	t := &Terminal{runner: r, au: aurora.NewAurora(colors)}
	t.keys = []keyBinding{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'q', "Q", "Exit", t.cmdQuit, ""},
		{'n', "N", "Next step", t.cmdStep, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{gocui.MouseLeft, "MOUSE", "Inspect cell", t.cmdSelect, viewField},
	}
	return t
}

// Run shows the viewer until the user quits or ctx is done. The runner is
// closed on return.
func (t *Terminal) Run(ctx context.Context) error {
	defer t.runner.Close()

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	defer g.Close()
	t.g = g
	g.Mouse = true
	g.SetManagerFunc(t.layout)
	for _, kb := range t.keys {
		h := kb.handler
		if err := g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(_ *gocui.Gui, v *gocui.View) error { return h(v) }); err != nil {
			return fmt.Errorf("binding %s: %w", kb.name, err)
		}
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		t.follow(ctx, stop)
	}()

	err = g.MainLoop()
	close(stop)
	wg.Wait()
	if err != nil && !errors.Is(err, gocui.ErrQuit) {
		return err
	}
	return nil
}

// follow copies published statuses into the viewer until stop closes.
func (t *Terminal) follow(ctx context.Context, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			t.g.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
			return
		case st, ok := <-t.runner.Status():
			if !ok {
				return
			}
			t.mu.Lock()
			t.status = st
			t.mu.Unlock()
			t.g.Update(t.render)
		}
	}
}

func (t *Terminal) current() (game.Status, *[2]int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status, t.selected
}

func (t *Terminal) render(g *gocui.Gui) error {
	st, sel := t.current()
	if v, err := g.View(viewStatus); err == nil {
		v.Clear()
		_, _ = fmt.Fprint(v, t.statusText(st))
	}
	if v, err := g.View(viewField); err == nil && st.Snapshot != nil {
		v.Clear()
		w, h := v.Size()
		_, _ = fmt.Fprint(v, t.fieldText(st.Snapshot, w, h))
	}
	if v, err := g.View(viewCell); err == nil {
		v.Clear()
		if sel != nil && st.Snapshot != nil {
			_, _ = fmt.Fprint(v, t.cellText(st.Snapshot, sel[0], sel[1]))
		}
	}
	return nil
}

func (t *Terminal) prop(name, format string, values ...interface{}) string {
	return fmt.Sprintf(" "+t.au.Green(name).String()+": "+format+"\n", values...)
}

func (t *Terminal) modeText(m game.RunningState) string {
	switch m {
	case game.RunningStateManual:
		return t.au.Blue(m.String()).String()
	case game.RunningStateRun:
		return t.au.Cyan(m.String()).String()
	case game.RunningStateFinished:
		return t.au.Red(m.String()).String()
	}
	return m.String()
}

func (t *Terminal) statusText(st game.Status) string {
	var b bytes.Buffer
	b.WriteString(t.prop("Tick", "%d", st.Tick))
	b.WriteString(t.prop("Rabbits", "%d", st.Prey))
	b.WriteString(t.prop("Foxes", "%d", st.Predators))
	b.WriteString(t.prop("Vegetation", "%d", st.Vegetation))
	b.WriteString(t.prop("Mode", "%s", t.modeText(st.RunningMode)))
	if st.Perf != nil {
		b.WriteString(t.prop("Tick time", "%v", st.Perf.AvgTickDuration))
	}
	return b.String()
}

// fieldText renders as much of the grid as fits in w×h characters.
func (t *Terminal) fieldText(snap *game.Snapshot, w, h int) string {
	cols := w / 2
	crop := snap.Size > cols || snap.Size > h
	var b bytes.Buffer
	for y := 0; y < snap.Size && y < h; y++ {
		if y != 0 {
			b.WriteByte('\n')
		}
		if crop && y == h-1 {
			b.WriteString(t.au.Red("The grid is larger than the viewing area").String())
			break
		}
		for x := 0; x < snap.Size && x < cols; x++ {
			b.WriteString(t.glyph(snap.At(x, y)))
		}
	}
	return b.String()
}

// glyph is the two-character picture of a cell.
func (t *Terminal) glyph(v game.CellView) string {
	if v.HasAnimal {
		a := components.Animal{Species: v.Species, Sex: v.Sex, Age: v.Age, Alive: v.Alive}
		s := string(a.Glyph())
		if v.Sex == components.SexFemale {
			s += "+"
		} else {
			s += " "
		}
		switch {
		case !v.Alive:
			return t.au.Gray(12, s).String()
		case v.Species == components.SpeciesPredator:
			return t.au.Red(s).String()
		default:
			return t.au.White(s).String()
		}
	}
	switch v.Kind {
	case game.CellShelter:
		if v.ShelterSpecies == components.SpeciesPredator {
			return t.au.Yellow("[]").String()
		}
		return t.au.Magenta("()").String()
	case game.CellThick:
		return t.au.Green("##").String()
	case game.CellGrass:
		return t.au.BrightGreen(",,").String()
	}
	return ". "
}

func (t *Terminal) cellText(snap *game.Snapshot, x, y int) string {
	v := snap.At(x, y)
	var b bytes.Buffer
	b.WriteString(t.prop("Cell", "(%d, %d)", x+1, y+1))
	switch v.Kind {
	case game.CellGrass, game.CellThick:
		b.WriteString(t.prop("Vegetation", "%d", v.Quantity))
	case game.CellShelter:
		b.WriteString(t.prop("Shelter", "%d/%d", v.ShelterLive, v.ShelterCapacity))
	}
	if v.HasAnimal {
		name := "rabbit"
		if v.Species == components.SpeciesPredator {
			name = "fox"
		}
		b.WriteString(t.prop("Animal", "%s %s %s", v.Age, v.Sex, name))
		if !v.Alive {
			b.WriteString(t.prop("State", "dead"))
		}
	}
	return b.String()
}

func (t *Terminal) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if maxY < minHeight {
		if err := t.header(g, maxY, "Terminal height too small"); err != nil {
			return err
		}
		for _, name := range []string{viewStatus, viewCell, viewField, viewHelp} {
			_ = g.DeleteView(name)
		}
		return nil
	}
	if err := t.header(g, 2, headerTitle); err != nil {
		return err
	}

	mid := 2 + (maxY-4-2)/2
	if err := t.panel(g, viewStatus, "Status", 0, 2, leftColumn, mid); err != nil {
		return err
	}
	if err := t.panel(g, viewCell, "Cell", 0, mid+1, leftColumn, maxY-4); err != nil {
		return err
	}
	if err := t.panel(g, viewField, "Grid", leftColumn+1, 2, maxX-1, maxY-4); err != nil {
		return err
	}

	if v, err := g.SetView(viewHelp, -1, maxY-4, maxX, maxY-2); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
		var b bytes.Buffer
		b.WriteString("KEYS: ")
		for i, k := range t.keys {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(t.au.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprint(v, b.String())
	}
	return t.render(g)
}

func (t *Terminal) panel(g *gocui.Gui, name, title string, x0, y0, x1, y1 int) error {
	v, err := g.SetView(name, x0, y0, x1, y1)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = title
		v.Frame = true
	}
	return nil
}

func (t *Terminal) header(g *gocui.Gui, height int, text string) error {
	maxX, _ := g.Size()
	v, err := g.SetView(viewHeader, -1, -1, maxX+1, height)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
		v.BgColor = gocui.ColorCyan
		v.FgColor = gocui.ColorBlack
	}
	v.Clear()
	pad := (maxX - len(text)) / 2
	if pad < 0 {
		pad = 0
	}
	_, _ = fmt.Fprintf(v, "%*s%s", pad, "", text)
	return nil
}

func (t *Terminal) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *Terminal) cmdStep(_ *gocui.View) error {
	t.runner.Step()
	return nil
}

func (t *Terminal) cmdRun(_ *gocui.View) error {
	t.runner.Resume()
	return nil
}

func (t *Terminal) cmdStop(_ *gocui.View) error {
	t.runner.Pause()
	return nil
}

func (t *Terminal) cmdSelect(v *gocui.View) error {
	cx, cy := v.Cursor()
	st, _ := t.current()
	if st.Snapshot == nil || cx/2 >= st.Snapshot.Size || cy >= st.Snapshot.Size {
		return nil
	}
	t.mu.Lock()
	t.selected = &[2]int{cx / 2, cy}
	t.mu.Unlock()
	return t.render(t.g)
}
