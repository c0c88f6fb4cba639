package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput polls the window and feeds the camera and the interaction
// controller. The panel owns the pointer while it is over it; keyboard
// shortcuts apply everywhere except while the query box is editing.
func (s *Scene) handleInput() {
	if rl.IsWindowResized() {
		s.width = float32(rl.GetScreenWidth())
		s.height = float32(rl.GetScreenHeight())
	}

	mouse := rl.GetMousePosition()
	s.lastMouse = mouse

	overPanel := s.panel.WantsPointer(mouse.X, mouse.Y)
	onScreen := mouse.X >= 0 && mouse.Y >= 0 && mouse.X < s.width && mouse.Y < s.height

	if overPanel || !onScreen {
		s.ctl.PointerLeave()
	} else {
		ray := s.cam.ScreenRay(mouse.X, mouse.Y, s.width, s.height)
		s.ctl.PointerMove(ray)

		if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
			s.ctl.PointerDown(mouse.X, mouse.Y)
		}
		if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
			s.ctl.PointerUp(mouse.X, mouse.Y, ray)
		}
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			s.cam.Dolly(-wheel)
		}
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) && !overPanel {
		delta := rl.GetMouseDelta()
		s.cam.Orbit(delta.X, delta.Y)
	}

	if s.panel.Editing() {
		return
	}
	if rl.IsKeyPressed(rl.KeyF) {
		s.frameAll()
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		s.ClearFocus()
	}
}
