package game

import "math"

type State int

const (
	StateTitle State = iota
	StatePlaying
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateTitle:
		return "title"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "gameover"
	}
	return "unknown"
}

// FailCause records why a run ended. Checked in fixed priority order.
type FailCause int

const (
	FailNone FailCause = iota
	FailCollision
	FailOffGround
	FailOverstretched
)

func (f FailCause) String() string {
	switch f {
	case FailCollision:
		return "hit an obstacle"
	case FailOffGround:
		return "Herbie fell"
	case FailOverstretched:
		return "caravan snapped"
	}
	return ""
}

const runStartX = 200.0

// Session owns the state machine, the per-tick pipeline, and the
// run-scoped scalars (distance, score, flow). The three core systems
// never touch these directly; they answer queries and take commands.
type Session struct {
	State     State
	FailCause FailCause

	Distance float64
	Score    float64
	Flow     float64
	Best     float64
	Contrast bool

	Caravan   *Caravan
	Terrain   *Terrain
	Obstacles *Obstacles

	audio AudioSink
	hud   HUDSink
	store ScoreStore
	bus   *EventBus

	seed        uint64
	runSeq      uint64
	notifyAccum float64
}

// NewSession wires the collaborators (any may be nil) and loads the
// persisted preferences. The simulation itself starts on Start.
func NewSession(seed uint64, audio AudioSink, hud HUDSink, store ScoreStore) *Session {
	s := &Session{
		State: StateTitle,
		Flow:  FlowMin,
		audio: audio,
		hud:   hud,
		store: store,
		seed:  seed,
		bus:   NewEventBus(),
	}
	if store != nil {
		s.Best = store.LoadBest()
		s.Contrast = store.LoadContrast()
	}
	return s
}

// Events exposes the presentation event bus. Handlers run synchronously
// on the tick thread.
func (s *Session) Events() *EventBus { return s.bus }

// Start begins a fresh run. Legal from the title screen and from the
// game-over screen (retry re-runs the same fresh initialization).
func (s *Session) Start() bool {
	if s.State != StateTitle && s.State != StateGameOver {
		return false
	}
	s.runSeq++
	runSeed := splitmix64(s.seed ^ s.runSeq*0x9E3779B185EBCA87)

	s.Terrain = NewTerrain(runSeed, runStartX-CameraLead*ViewWidth)
	startY := GroundBaseY
	if h, ok := s.Terrain.GroundHeightAt(runStartX); ok {
		startY = h
	}
	s.Caravan = NewCaravan(AgentCount, runStartX, startY)
	s.Obstacles = NewObstacles(runSeed)

	s.Distance = 0
	s.Score = 0
	s.Flow = s.Caravan.FlowMultiplier()
	s.FailCause = FailNone
	s.notifyAccum = 0
	s.setState(StatePlaying)
	if s.audio != nil {
		s.audio.MenuSelect()
	}
	return true
}

// Pause freezes the run. All three systems advance only on delivered
// dt, so simply not ticking them freezes every internal clock.
func (s *Session) Pause() bool {
	if s.State != StatePlaying {
		return false
	}
	s.setState(StatePaused)
	return true
}

func (s *Session) Resume() bool {
	if s.State != StatePaused {
		return false
	}
	s.setState(StatePlaying)
	return true
}

// ReturnToTitle leaves the game-over screen for the menu.
func (s *Session) ReturnToTitle() bool {
	if s.State != StateGameOver {
		return false
	}
	s.setState(StateTitle)
	return true
}

// ToggleContrast flips and persists the display preference. Legal in
// any state; it never touches the simulation.
func (s *Session) ToggleContrast() {
	s.Contrast = !s.Contrast
	if s.store != nil {
		s.store.SaveContrast(s.Contrast)
	}
}

func (s *Session) setState(st State) {
	s.State = st
	s.bus.Emit(Event{Type: EventStateChanged, Value: float64(st)})
}

// Tick runs one simulation step. Only the playing state simulates; the
// time step is clamped so a stalled frame (tab in background, debugger)
// cannot teleport the caravan past an unchecked collision.
func (s *Session) Tick(dt float64) {
	if s.State != StatePlaying || dt <= 0 {
		return
	}
	if dt > MaxTickDelta {
		dt = MaxTickDelta
	}

	s.Caravan.Advance(dt, s.Terrain.GroundHeightAt)
	lead := s.Caravan.Leader()

	s.Distance = math.Max(0, lead.X-runStartX)
	s.Score = s.Distance / ScoreDivisor

	s.Terrain.Update(dt, lead.X, true)
	s.Obstacles.Update(dt, s.Distance, s.Terrain)
	s.Flow = s.Caravan.FlowMultiplier()

	// Presentation pushes are throttled; the simulation is not.
	s.notifyAccum += dt
	if s.notifyAccum >= NotifyInterval {
		s.notifyAccum = 0
		if s.hud != nil {
			s.hud.Stats(s.Score, s.Flow, s.Obstacles.ClearedCount)
		}
		if s.audio != nil {
			s.audio.FlowLevel(s.Flow)
		}
	}

	// Failure checks in fixed priority order; first match ends the run.
	switch {
	case s.Obstacles.CheckCollision(lead.X, lead.Y, AgentSize) != nil:
		s.endRun(FailCollision)
	case !s.Terrain.IsOnGround(lead.X, lead.Y):
		s.endRun(FailOffGround)
	case s.Caravan.IsOverstretched():
		s.endRun(FailOverstretched)
	}
}

func (s *Session) endRun(cause FailCause) {
	s.FailCause = cause
	s.setState(StateGameOver)
	if s.Score > s.Best {
		s.Best = s.Score
		if s.store != nil {
			s.store.SaveBest(s.Best)
		}
	}
	if s.audio != nil {
		s.audio.RunFailed()
	}
	if s.hud != nil {
		s.hud.RunEnded(s.Score, s.Best)
	}
	lead := s.Caravan.Leader()
	s.bus.Emit(Event{Type: EventRunFailed, X: lead.X, Y: lead.Y, Value: float64(cause)})
}

// HandleTap is the core's single input mutation point: world-space tap
// coordinates go to obstacle clearing first, then to hiker offloading.
// Returns false if the tap hit nothing actionable.
func (s *Session) HandleTap(wx, wy float64) bool {
	if s.State != StatePlaying {
		return false
	}
	if ob := s.Obstacles.HitTest(wx, wy); ob != nil {
		if s.Obstacles.Clear(ob) {
			if s.audio != nil {
				s.audio.ObstacleCleared()
			}
			s.bus.Emit(Event{
				Type:  EventObstacleCleared,
				X:     ob.X + ob.W/2,
				Y:     ob.Y + ob.H/2,
				Value: s.Flow,
			})
			return true
		}
		return false
	}
	if i := s.Caravan.HitTestAgent(wx, wy); i >= 0 {
		if s.Caravan.Offload(i) {
			ag := &s.Caravan.Agents[i]
			s.bus.Emit(Event{Type: EventOffload, X: ag.X, Y: ag.Y, Value: float64(i)})
			return true
		}
	}
	return false
}

// Snapshot copies the presentation-relevant state for this frame.
func (s *Session) Snapshot() FrameSnapshot {
	snap := FrameSnapshot{
		State:     s.State,
		FailCause: s.FailCause,
		Distance:  s.Distance,
		Score:     s.Score,
		Best:      s.Best,
		Flow:      s.Flow,
		Palette:   PaletteFor(s.Flow, s.Contrast),
	}
	if s.Terrain == nil {
		return snap
	}
	snap.CameraX = s.Terrain.CameraX
	snap.Cleared = s.Obstacles.ClearedCount
	snap.Segments = append(snap.Segments, s.Terrain.Segments()...)
	for l := 0; l < ParallaxLayers; l++ {
		snap.Decor[l] = append(snap.Decor[l], s.Terrain.Decor(l)...)
	}
	for _, ob := range s.Obstacles.All() {
		snap.Obstacles = append(snap.Obstacles, ObstacleView{
			Kind:          ob.Kind,
			X:             ob.X,
			Y:             ob.Y,
			W:             ob.W,
			H:             ob.H,
			Clearing:      ob.Clearing,
			ClearProgress: ob.ClearProgress,
		})
	}
	for i := range s.Caravan.Agents {
		ag := &s.Caravan.Agents[i]
		snap.Agents = append(snap.Agents, AgentView{
			Index:    ag.Index,
			X:        ag.X,
			Y:        ag.Y,
			Waiting:  ag.Waiting,
			BobPhase: ag.BobPhase,
			Pulse:    ag.PulseTimer / PulseDuration,
		})
	}
	snap.Tension = s.Caravan.TensionPairs()
	return snap
}
