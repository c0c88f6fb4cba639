// Package interact resolves pointer events against the entity store:
// hover tracking with change-only notification, and click versus drag
// disambiguation so camera orbiting never selects.
package interact

import (
	"math"

	"github.com/oddscape/oddscape/components"
)

// Picker resolves a ray to an entity index. Satisfied by the store; kept
// as an interface so a spatial index can slot in later and so the
// controller tests run without a scene.
type Picker interface {
	PickEntity(ray components.Ray) (int, bool)
}

// Callbacks receive resolved interaction results. Nil callbacks are
// skipped. HoverChanged fires only when the hovered index changes, with
// -1 meaning "nothing hovered".
type Callbacks struct {
	HoverChanged func(index int)
	Clicked      func(index int)
	ClickedEmpty func()
}

// Controller is the pointer interaction state machine. All methods run on
// the caller's frame tick; nothing here may fail.
type Controller struct {
	picker        Picker
	callbacks     Callbacks
	dragThreshold float32

	hovered int

	downX, downY float32
	downActive   bool
}

// NewController creates a controller with the given pixel drag threshold.
func NewController(picker Picker, dragThreshold float32, cb Callbacks) *Controller {
	return &Controller{
		picker:        picker,
		callbacks:     cb,
		dragThreshold: dragThreshold,
		hovered:       -1,
	}
}

// Hovered returns the currently hovered entity index, or -1.
func (c *Controller) Hovered() int {
	return c.hovered
}

// PointerMove casts the ray and updates hover state. The hover callback
// fires on index change only, not on every move event.
func (c *Controller) PointerMove(ray components.Ray) {
	index := -1
	if i, ok := c.picker.PickEntity(ray); ok {
		index = i
	}
	c.setHovered(index)
}

// PointerDown records the press position for drag disambiguation.
func (c *Controller) PointerDown(x, y float32) {
	c.downX = x
	c.downY = y
	c.downActive = true
}

// PointerUp completes a press. Below the drag threshold the gesture is a
// click: the ray is cast again and either an entity or empty space is
// reported. At or above the threshold it was a camera drag and produces
// no selection side effect.
func (c *Controller) PointerUp(x, y float32, ray components.Ray) {
	if !c.downActive {
		return
	}
	c.downActive = false

	dx := float64(x - c.downX)
	dy := float64(y - c.downY)
	if float32(math.Sqrt(dx*dx+dy*dy)) >= c.dragThreshold {
		return
	}

	if i, ok := c.picker.PickEntity(ray); ok {
		if c.callbacks.Clicked != nil {
			c.callbacks.Clicked(i)
		}
		return
	}
	if c.callbacks.ClickedEmpty != nil {
		c.callbacks.ClickedEmpty()
	}
}

// PointerLeave clears hover state unconditionally.
func (c *Controller) PointerLeave() {
	c.downActive = false
	c.setHovered(-1)
}

// Reset drops hover and press state, for load/dispose transitions.
func (c *Controller) Reset() {
	c.downActive = false
	c.hovered = -1
}

func (c *Controller) setHovered(index int) {
	if index == c.hovered {
		return
	}
	c.hovered = index
	if c.callbacks.HoverChanged != nil {
		c.callbacks.HoverChanged(index)
	}
}
