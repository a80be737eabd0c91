package ui

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/uber/lspterm/src/lspterm/controller/editor"
)

// Surface is the drawing target of a render pass. tcell.Screen satisfies it.
type Surface interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

// Rect is a region of the surface.
type Rect struct {
	X, Y, Width, Height int
}

// Context carries the editor into event handling and rendering.
type Context struct {
	Editor *editor.Editor

	ctx     context.Context
	suspend func()
}

// NewContext returns a context for one dispatch. suspend backgrounds the process and may be nil.
func NewContext(ctx context.Context, ed *editor.Editor, suspend func()) *Context {
	return &Context{Editor: ed, ctx: ctx, suspend: suspend}
}

// Ctx returns the context blocking operations run under.
func (c *Context) Ctx() context.Context {
	return c.ctx
}

// Suspend sends the process to the background.
func (c *Context) Suspend() {
	if c.suspend != nil {
		c.suspend()
	}
}

// EventResult reports how a component handled an event.
// Callback runs after the event has been dispatched and may change the compositor.
type EventResult struct {
	Consumed bool
	Callback func(*Compositor, *Context)
}

// Component is one layer of the compositor.
type Component interface {
	HandleEvent(ev tcell.Event, cx *Context) EventResult
	Render(area Rect, surface Surface, cx *Context)
}

// drawText writes s at (x, y) clipped to width cells and returns the number of cells used.
func drawText(surface Surface, x, y, width int, s string, style tcell.Style) int {
	used := 0
	for _, r := range s {
		if r == '\t' {
			r = ' '
		}
		w := runeWidth(r)
		if used+w > width {
			break
		}
		surface.SetContent(x+used, y, r, nil, style)
		used += w
	}
	return used
}

func fill(surface Surface, area Rect, style tcell.Style) {
	for y := area.Y; y < area.Y+area.Height; y++ {
		for x := area.X; x < area.X+area.Width; x++ {
			surface.SetContent(x, y, ' ', nil, style)
		}
	}
}
