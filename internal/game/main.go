package game

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func initWindow() (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err := glfw.CreateWindow(WindowWidth, WindowHeight, "Herbie's Hike", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	return window, nil
}

// GameSeed reads the seed from the environment or the clock.
func GameSeed() uint64 {
	seed := uint64(time.Now().UnixNano())
	if s := os.Getenv("CARAVAN_SEED"); s != "" {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			seed = v
		}
	}
	return seed
}

// RunDesktop drives the GLFW/OpenGL frontend: one simulation tick plus
// one render pass per display frame. The simulation itself never sees
// the window.
func RunDesktop() {
	runtime.LockOSThread()

	window, err := initWindow()
	if err != nil {
		panic(err)
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		panic(fmt.Errorf("gl init: %w", err))
	}

	audio := NewAudio()
	if err := audio.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "audio init failed (continuing without sound): %v\n", err)
	}

	rend, err := NewRenderer()
	if err != nil {
		panic(fmt.Errorf("renderer: %w", err))
	}
	defer rend.Destroy()

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.PROGRAM_POINT_SIZE)

	store := NewFileStore()
	hud := &titleHUD{window: window}
	session := NewSession(GameSeed(), audio, hud, store)

	// One-time help prompt; the timer is fire-and-forget and only flips
	// a display flag, never simulation state.
	var hintDone atomic.Bool
	var hintArmed bool

	input := NewInput()
	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > MaxTickDelta {
			dt = MaxTickDelta
		}

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}

		switch session.State {
		case StateTitle:
			if input.JustPressed(window, glfw.KeySpace) {
				session.Start()
				if !hintArmed {
					hintArmed = true
					hud.setHint("tap obstacles to clear them, tap a hiker to offload onto Herbie")
					time.AfterFunc(6*time.Second, func() { hintDone.Store(true) })
				}
			}

		case StatePlaying:
			if input.JustPressed(window, glfw.KeyP) {
				session.Pause()
			}
			if input.JustClicked(window, glfw.MouseButtonLeft) {
				wx, wy := CursorWorldPos(window, session.Terrain.CameraX, fbW, fbH)
				session.HandleTap(wx, wy)
			}
			session.Tick(dt)

		case StatePaused:
			if input.JustPressed(window, glfw.KeyP) || input.JustPressed(window, glfw.KeySpace) {
				session.Resume()
			}

		case StateGameOver:
			if input.JustPressed(window, glfw.KeySpace) {
				session.Start()
			}
			if input.JustPressed(window, glfw.KeyM) {
				session.ReturnToTitle()
			}
		}

		if input.JustPressed(window, glfw.KeyC) {
			session.ToggleContrast()
		}
		if hintDone.Load() {
			hintDone.Store(false)
			hud.setHint("")
		}

		rend.RenderFrame(session.Snapshot(), fbW, fbH)
		hud.refresh(session.State)
		window.SwapBuffers()
	}
}

// titleHUD is the desktop HUD collaborator. With no font assets, the
// numeric readout lives in the window title; meters and overlays are
// drawn by the renderer.
type titleHUD struct {
	window *glfw.Window
	line   string
	hint   string
	dirty  bool
}

func (h *titleHUD) Stats(score, flow float64, cleared int) {
	h.line = fmt.Sprintf("Herbie's Hike - %.0f ft  x%.1f  cleared %d", score, flow, cleared)
	h.dirty = true
}

func (h *titleHUD) RunEnded(finalScore, bestScore float64) {
	h.line = fmt.Sprintf("Herbie's Hike - run over: %.0f ft (best %.0f) - SPACE retry, M menu", finalScore, bestScore)
	h.dirty = true
}

func (h *titleHUD) setHint(s string) {
	h.hint = s
	h.dirty = true
}

// refresh applies pending title changes on the main thread (glfw calls
// must not run on AfterFunc goroutines).
func (h *titleHUD) refresh(state State) {
	if !h.dirty {
		return
	}
	h.dirty = false
	switch {
	case state == StateTitle:
		h.window.SetTitle("Herbie's Hike - SPACE to start")
	case h.hint != "":
		h.window.SetTitle(h.line + "  |  " + h.hint)
	default:
		h.window.SetTitle(h.line)
	}
}
