package interact

import (
	"testing"

	"github.com/oddscape/oddscape/components"
)

// fakePicker returns a scripted index regardless of the ray.
type fakePicker struct {
	index int
	ok    bool
}

func (f *fakePicker) PickEntity(components.Ray) (int, bool) {
	return f.index, f.ok
}

type recorder struct {
	hoverEvents []int
	clicks      []int
	emptyClicks int
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		HoverChanged: func(i int) { r.hoverEvents = append(r.hoverEvents, i) },
		Clicked:      func(i int) { r.clicks = append(r.clicks, i) },
		ClickedEmpty: func() { r.emptyClicks++ },
	}
}

func testRay() components.Ray {
	return components.Ray{Dir: components.Vec3{Z: 1}}
}

func TestHoverFiresOnChangeOnly(t *testing.T) {
	picker := &fakePicker{index: 3, ok: true}
	rec := &recorder{}
	c := NewController(picker, 5, rec.callbacks())

	c.PointerMove(testRay())
	c.PointerMove(testRay())
	c.PointerMove(testRay())

	if len(rec.hoverEvents) != 1 || rec.hoverEvents[0] != 3 {
		t.Fatalf("hover events = %v, want [3]", rec.hoverEvents)
	}

	picker.index = 7
	c.PointerMove(testRay())
	if len(rec.hoverEvents) != 2 || rec.hoverEvents[1] != 7 {
		t.Fatalf("hover events = %v, want [3 7]", rec.hoverEvents)
	}

	picker.ok = false
	c.PointerMove(testRay())
	if len(rec.hoverEvents) != 3 || rec.hoverEvents[2] != -1 {
		t.Fatalf("hover events = %v, want trailing -1", rec.hoverEvents)
	}
}

func TestClickBelowThreshold(t *testing.T) {
	picker := &fakePicker{index: 2, ok: true}
	rec := &recorder{}
	c := NewController(picker, 5, rec.callbacks())

	c.PointerDown(100, 100)
	c.PointerUp(102, 102, testRay()) // ~2.8px of travel

	if len(rec.clicks) != 1 || rec.clicks[0] != 2 {
		t.Errorf("clicks = %v, want [2]", rec.clicks)
	}
	if rec.emptyClicks != 0 {
		t.Errorf("empty clicks = %d, want 0", rec.emptyClicks)
	}
}

func TestDragSuppressesClick(t *testing.T) {
	picker := &fakePicker{index: 2, ok: true}
	rec := &recorder{}
	c := NewController(picker, 5, rec.callbacks())

	c.PointerDown(100, 100)
	c.PointerUp(110, 100, testRay()) // 10px, a camera drag

	if len(rec.clicks) != 0 || rec.emptyClicks != 0 {
		t.Errorf("drag produced selection side effects: clicks=%v empty=%d", rec.clicks, rec.emptyClicks)
	}
}

func TestClickThresholdBoundary(t *testing.T) {
	picker := &fakePicker{index: 2, ok: true}
	rec := &recorder{}
	c := NewController(picker, 5, rec.callbacks())

	// Exactly at the threshold counts as a drag.
	c.PointerDown(100, 100)
	c.PointerUp(105, 100, testRay())

	if len(rec.clicks) != 0 {
		t.Errorf("threshold-distance release must be a drag, got clicks %v", rec.clicks)
	}
}

func TestClickEmptySpace(t *testing.T) {
	picker := &fakePicker{ok: false}
	rec := &recorder{}
	c := NewController(picker, 5, rec.callbacks())

	c.PointerDown(100, 100)
	c.PointerUp(100, 100, testRay())

	if rec.emptyClicks != 1 {
		t.Errorf("empty clicks = %d, want 1", rec.emptyClicks)
	}
}

func TestPointerUpWithoutDown(t *testing.T) {
	picker := &fakePicker{index: 1, ok: true}
	rec := &recorder{}
	c := NewController(picker, 5, rec.callbacks())

	c.PointerUp(100, 100, testRay())

	if len(rec.clicks) != 0 || rec.emptyClicks != 0 {
		t.Error("release without press must be ignored")
	}
}

func TestPointerLeaveClearsHover(t *testing.T) {
	picker := &fakePicker{index: 4, ok: true}
	rec := &recorder{}
	c := NewController(picker, 5, rec.callbacks())

	c.PointerMove(testRay())
	if c.Hovered() != 4 {
		t.Fatalf("hovered = %d, want 4", c.Hovered())
	}

	c.PointerLeave()
	if c.Hovered() != -1 {
		t.Errorf("hovered = %d after leave, want -1", c.Hovered())
	}
	if rec.hoverEvents[len(rec.hoverEvents)-1] != -1 {
		t.Errorf("hover events = %v, want trailing -1", rec.hoverEvents)
	}

	// Leave also cancels a pending press.
	c.PointerDown(10, 10)
	c.PointerLeave()
	c.PointerUp(10, 10, testRay())
	if len(rec.clicks) != 0 {
		t.Errorf("press across a leave produced clicks %v", rec.clicks)
	}
}

func TestResetDropsStateSilently(t *testing.T) {
	picker := &fakePicker{index: 4, ok: true}
	rec := &recorder{}
	c := NewController(picker, 5, rec.callbacks())
	c.PointerMove(testRay())

	events := len(rec.hoverEvents)
	c.Reset()

	if c.Hovered() != -1 {
		t.Errorf("hovered = %d after reset, want -1", c.Hovered())
	}
	if len(rec.hoverEvents) != events {
		t.Error("reset must not fire hover callbacks")
	}
}
