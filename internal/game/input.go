package game

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Input tracks edge-triggered key and mouse state for the desktop
// frontend and maps pointer coordinates into world space.
type Input struct {
	prevMouse map[glfw.MouseButton]bool
	prevKeys  map[glfw.Key]bool
}

func NewInput() *Input {
	return &Input{
		prevMouse: make(map[glfw.MouseButton]bool),
		prevKeys:  make(map[glfw.Key]bool),
	}
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

func (in *Input) JustClicked(window *glfw.Window, btn glfw.MouseButton) bool {
	down := window.GetMouseButton(btn) == glfw.Press
	jp := down && !in.prevMouse[btn]
	in.prevMouse[btn] = down
	return jp
}

// CursorWorldPos converts the cursor position to world coordinates
// using the current camera offset. This is the entire input-mapping
// layer: the result feeds Session.HandleTap, which owns hit-testing.
func CursorWorldPos(window *glfw.Window, cameraX float64, fbW, fbH int) (float64, float64) {
	cx, cy := window.GetCursorPos()
	winW, winH := window.GetSize()
	if winW <= 0 || winH <= 0 {
		return cameraX, 0
	}
	fx := cx * float64(fbW) / float64(winW)
	fy := cy * float64(fbH) / float64(winH)
	zoom := math.Min(float64(fbW)/ViewWidth, float64(fbH)/ViewHeight)
	wx := (cameraX + ViewWidth/2) + (fx-float64(fbW)/2)/zoom
	wy := ViewHeight/2 + (fy-float64(fbH)/2)/zoom
	return wx, wy
}
