package game

// Collaborator contracts. The core never reaches into a display, audio
// device, or persisted store directly. It calls these, and nil
// collaborators are tolerated everywhere so the core runs headless.

// AudioSink receives the continuous flow level plus discrete events.
// Implementations must survive being uninitialized (no-op).
type AudioSink interface {
	FlowLevel(flow float64)
	ObstacleCleared()
	RunFailed()
	MenuSelect()
}

// HUDSink receives throttled stats while playing and a single final
// report on run end.
type HUDSink interface {
	Stats(score, flow float64, cleared int)
	RunEnded(finalScore, bestScore float64)
}

// ScoreStore owns the two persisted scalars: best score and the
// high-contrast display preference.
type ScoreStore interface {
	LoadBest() float64
	SaveBest(v float64)
	LoadContrast() bool
	SaveContrast(v bool)
}

// ObstacleView is a read-only copy of one obstacle for presentation.
type ObstacleView struct {
	Kind          ObstacleKind
	X, Y, W, H    float64
	Clearing      bool
	ClearProgress float64
}

// AgentView is a read-only copy of one hiker for presentation.
type AgentView struct {
	Index    int
	X, Y     float64
	Waiting  bool
	BobPhase float64
	Pulse    float64 // 0..1 offload flash intensity
}

// FrameSnapshot is the immutable per-frame state handed to renderers.
// Everything in it is copied; renderers must not feed anything back.
type FrameSnapshot struct {
	State     State
	FailCause FailCause

	CameraX  float64
	Distance float64
	Score    float64
	Best     float64
	Flow     float64
	Cleared  int

	Segments  []Segment
	Decor     [ParallaxLayers][]Decoration
	Obstacles []ObstacleView
	Agents    []AgentView
	Tension   []TensionPair

	Palette ScenePalette
}
