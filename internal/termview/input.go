package termview

import (
	"github.com/gdamore/tcell/v2"

	"vipers/internal/earth"
)

// Action is a non-scroll command read from the keyboard.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionPause
	ActionReset
	ActionComplete
)

// DefaultHoldTicks is how long one key press keeps scrolling.
const DefaultHoldTicks = 8

// Controls turns key presses into per-tick scroll input. Terminals report
// presses and auto-repeat but no releases, so each press holds its direction
// for a number of ticks.
type Controls struct {
	HoldTicks int

	left  int
	right int
}

// NewControls returns controls with the default hold.
func NewControls() *Controls {
	return &Controls{HoldTicks: DefaultHoldTicks}
}

// HandleKey records a key press and reports any command it carries.
func (c *Controls) HandleKey(ev *tcell.EventKey) Action {
	return c.handle(ev.Key(), ev.Rune())
}

func (c *Controls) handle(key tcell.Key, r rune) Action {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyLeft:
		c.pressLeft()
		return ActionNone
	case tcell.KeyRight:
		c.pressRight()
		return ActionNone
	case tcell.KeyRune:
	default:
		return ActionNone
	}
	switch r {
	case 'a', 'A':
		c.pressLeft()
	case 'd', 'D':
		c.pressRight()
	case 'q':
		return ActionQuit
	case ' ':
		return ActionPause
	case 'r', 'R':
		return ActionReset
	case 'c', 'C':
		return ActionComplete
	}
	return ActionNone
}

func (c *Controls) pressLeft() {
	c.left = c.HoldTicks
	c.right = 0
}

func (c *Controls) pressRight() {
	c.right = c.HoldTicks
	c.left = 0
}

// Next returns the scroll input for one tick and runs down the hold.
func (c *Controls) Next() earth.Input {
	in := earth.Input{Left: c.left > 0, Right: c.right > 0}
	c.left = max(c.left-1, 0)
	c.right = max(c.right-1, 0)
	return in
}
