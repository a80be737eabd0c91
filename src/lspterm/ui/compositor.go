package ui

import "github.com/gdamore/tcell/v2"

// Handle identifies a layer pushed onto the compositor.
type Handle int

// Compositor stacks components. Events go top-down until one consumes them; rendering goes bottom-up.
type Compositor struct {
	layers []Component
	order  []Handle
	area   Rect
}

// NewCompositor returns an empty compositor covering width by height cells.
func NewCompositor(width, height int) *Compositor {
	return &Compositor{area: Rect{Width: width, Height: height}}
}

// Push adds c on top and returns its handle.
func (c *Compositor) Push(component Component) Handle {
	h := Handle(len(c.layers))
	c.layers = append(c.layers, component)
	c.order = append(c.order, h)
	return h
}

// Remove takes the layer off the stack. Its handle is never reused.
func (c *Compositor) Remove(h Handle) Component {
	component := c.Get(h)
	if component == nil {
		return nil
	}
	c.layers[h] = nil
	for i, candidate := range c.order {
		if candidate == h {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return component
}

// Get returns the component behind h, nil if it was removed.
func (c *Compositor) Get(h Handle) Component {
	if h < 0 || int(h) >= len(c.layers) {
		return nil
	}
	return c.layers[h]
}

// Len returns the number of layers on the stack.
func (c *Compositor) Len() int {
	return len(c.order)
}

// Resize sets the area the layers render into.
func (c *Compositor) Resize(width, height int) {
	c.area = Rect{Width: width, Height: height}
}

// Area returns the area the layers render into.
func (c *Compositor) Area() Rect {
	return c.area
}

// HandleEvent offers ev to the layers from the top and reports whether one consumed it.
func (c *Compositor) HandleEvent(ev tcell.Event, cx *Context) bool {
	var (
		callbacks []func(*Compositor, *Context)
		consumed  bool
	)
	for i := len(c.order) - 1; i >= 0; i-- {
		result := c.layers[c.order[i]].HandleEvent(ev, cx)
		if result.Callback != nil {
			callbacks = append(callbacks, result.Callback)
		}
		if result.Consumed {
			consumed = true
			break
		}
	}

	for _, callback := range callbacks {
		callback(c, cx)
	}
	return consumed
}

// Render draws every layer from the bottom.
func (c *Compositor) Render(surface Surface, cx *Context) {
	for _, h := range c.order {
		c.layers[h].Render(c.area, surface, cx)
	}
}
