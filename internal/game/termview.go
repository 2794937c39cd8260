package game

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
)

const termFrameRate = 30

// RunTerminal drives the tcell frontend against the same headless core
// as the desktop build. One character cell covers a fixed block of
// world pixels so the whole view fits a normal terminal.
func RunTerminal() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("new screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	// A failed init leaves the audio sink inert; nothing to log on a
	// fullscreen terminal.
	audio := NewAudio()
	_ = audio.Init()

	store := NewFileStore()
	hud := &termHUD{}
	session := NewSession(GameSeed(), audio, hud, store)

	var hintUntil atomic.Int64
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(time.Second / termFrameRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				switch {
				case e.Key() == tcell.KeyEscape || e.Rune() == 'q':
					close(quit)
					return nil
				case e.Rune() == ' ':
					switch session.State {
					case StateTitle, StateGameOver:
						if session.Start() && hintUntil.Load() == 0 {
							hintUntil.Store(time.Now().Add(6 * time.Second).UnixNano())
						}
					case StatePaused:
						session.Resume()
					}
				case e.Rune() == 'p':
					if !session.Pause() {
						session.Resume()
					}
				case e.Rune() == 'm':
					session.ReturnToTitle()
				case e.Rune() == 'c':
					session.ToggleContrast()
				}
			case *tcell.EventMouse:
				if e.Buttons()&tcell.Button1 != 0 && session.State == StatePlaying {
					cx, cy := e.Position()
					w, h := screen.Size()
					wx, wy := termToWorld(cx, cy, w, h, session.Terrain.CameraX)
					session.HandleTap(wx, wy)
				}
			}

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			session.Tick(dt)
			hint := hintUntil.Load() != 0 && time.Now().UnixNano() < hintUntil.Load()
			drawTerminal(screen, session.Snapshot(), hud, hint)
		}
	}
}

// termToWorld maps a terminal cell to world coordinates, inverse of the
// cell mapping in drawTerminal.
func termToWorld(cx, cy, termW, termH int, cameraX float64) (float64, float64) {
	cellW := ViewWidth / float64(maxI(termW, 1))
	cellH := ViewHeight / float64(maxI(termH-1, 1)) // top row is the HUD
	return cameraX + (float64(cx)+0.5)*cellW, (float64(cy-1) + 0.5) * cellH
}

func maxI(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func tcolor(c RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func obstacleRune(k ObstacleKind) rune {
	switch k {
	case KindWall:
		return '█'
	case KindBarrier:
		return '▄'
	case KindPlatform:
		return '▀'
	}
	return '╳'
}

func drawTerminal(screen tcell.Screen, snap FrameSnapshot, hud *termHUD, hint bool) {
	w, h := screen.Size()
	if w <= 0 || h <= 1 {
		return
	}
	pal := snap.Palette
	bg := tcell.StyleDefault.Background(tcolor(pal.Sky))
	screen.Fill(' ', bg)

	cellW := ViewWidth / float64(w)
	cellH := ViewHeight / float64(h-1)
	toCell := func(wx, wy float64) (int, int) {
		return int((wx - snap.CameraX) / cellW), 1 + int(wy/cellH)
	}

	// Ground line and fill per column.
	for col := 0; col < w; col++ {
		wx := snap.CameraX + (float64(col)+0.5)*cellW
		var height float64
		found := false
		gap := false
		for _, s := range snap.Segments {
			if wx >= s.X && wx < s.X+s.Width {
				height, found, gap = s.Height, true, s.HasGap
				break
			}
		}
		if !found {
			continue
		}
		top := 1 + int(height/cellH)
		if gap {
			st := tcell.StyleDefault.Foreground(tcolor(pal.Tension)).Background(tcolor(pal.GapMark))
			for row := top; row < h; row++ {
				screen.SetContent(col, row, '░', nil, st)
			}
			continue
		}
		surf := tcell.StyleDefault.Foreground(tcolor(pal.Ground)).Background(tcolor(pal.Sky))
		screen.SetContent(col, top, '▀', nil, surf)
		deep := tcell.StyleDefault.Background(tcolor(pal.GroundDeep))
		for row := top + 1; row < h; row++ {
			screen.SetContent(col, row, ' ', nil, deep)
		}
	}

	for _, ob := range snap.Obstacles {
		if ob.Kind == KindGap {
			continue // drawn with the ground columns
		}
		st := tcell.StyleDefault.Foreground(tcolor(obstacleColor(ob.Kind, pal))).Background(tcolor(pal.Sky))
		if ob.Clearing {
			st = st.Dim(true)
		}
		x0, y0 := toCell(ob.X, ob.Y)
		x1, y1 := toCell(ob.X+ob.W, ob.Y+ob.H)
		for cy := y0; cy <= y1 && cy < h; cy++ {
			for cx := x0; cx <= x1 && cx < w; cx++ {
				if cx >= 0 && cy >= 1 {
					screen.SetContent(cx, cy, obstacleRune(ob.Kind), nil, st)
				}
			}
		}
	}

	for _, ag := range snap.Agents {
		cx, cy := toCell(ag.X, ag.Y-AgentSize/2)
		if cx < 0 || cx >= w || cy < 1 || cy >= h {
			continue
		}
		col := pal.Agent
		r := 'o'
		if ag.Index == 0 {
			col, r = pal.Leader, '@'
		}
		st := tcell.StyleDefault.Foreground(tcolor(col)).Background(tcolor(pal.Sky)).Bold(ag.Pulse > 0)
		screen.SetContent(cx, cy, r, nil, st)
	}

	// HUD row.
	line := hud.line()
	switch snap.State {
	case StateTitle:
		line = "HERBIE'S HIKE - space: start  q: quit  c: contrast"
	case StatePaused:
		line = "paused - space/p: resume"
	case StateGameOver:
		line = fmt.Sprintf("%s - %.0f ft (best %.0f) - space: retry  m: menu", snap.FailCause, snap.Score, snap.Best)
	default:
		if hint {
			line += "  |  tap obstacles to clear, tap a hiker to offload"
		}
	}
	hudStyle := tcell.StyleDefault.Foreground(tcolor(pal.HUD)).Background(tcolor(pal.GapMark))
	for i := 0; i < w; i++ {
		r := ' '
		if i < len(line) {
			r = rune(line[i])
		}
		screen.SetContent(i, 0, r, nil, hudStyle)
	}

	screen.Show()
}

// termHUD buffers the stat line the session pushes on its throttled
// cadence; the draw loop reads it.
type termHUD struct {
	text atomic.Value // string
}

func (t *termHUD) Stats(score, flow float64, cleared int) {
	t.text.Store(fmt.Sprintf("%.0f ft  x%.1f  cleared %d", score, flow, cleared))
}

func (t *termHUD) RunEnded(finalScore, bestScore float64) {
	t.text.Store(fmt.Sprintf("run over: %.0f ft (best %.0f)", finalScore, bestScore))
}

func (t *termHUD) line() string {
	if s, ok := t.text.Load().(string); ok {
		return s
	}
	return ""
}
