package game

// Logical view size (world pixels). Frontends scale to their output.
const (
	ViewWidth  = 800
	ViewHeight = 450
)

// Window defaults for the desktop frontend.
const (
	WindowWidth  = 1024
	WindowHeight = 576
)

// Caravan tuning. These four plus DistanceScale are the core tuning
// surface; changing them changes game feel, not just presentation.
const (
	AgentCount        = 5
	LeaderBaseSpeed   = 1.0
	BaseSpeedStep     = 0.15 // per-agent speed ramp behind the leader
	TargetSpacing     = 60.0
	MaxStretch        = 220.0
	DistanceScale     = 100.0 // world pixels per speed unit per second
	WaitThreshold     = 0.8   // fraction of TargetSpacing where a follower starts waiting
	CatchUpThreshold  = 1.5   // fraction of TargetSpacing where a follower breaks the leader cap
	CatchUpFactor     = 1.2   // catch-up speed multiplier on base speed
	BoostDecayRate    = 0.5   // offload boost decay per second
	YSmoothRate       = 5.0   // vertical easing factor (yDiff * rate * dt)
	OffloadLeaderGain = 0.4
	OffloadFollowCost = -0.2
	AgentSize         = 16.0
	PulseDuration     = 0.45 // seconds of offload flash, presentation only
	BobRate           = 7.0  // walk-bob phase advance per travelled speed unit
)

// Flow multiplier bounds (spacing-derived score multiplier).
const (
	FlowMin = 1.0
	FlowMax = 3.0
)

// Terrain layout.
const (
	SegmentWidth    = 80.0
	GroundBaseY     = 330.0
	GroundMinY      = 290.0
	GroundMaxY      = 370.0
	GroundStep      = 4.0 // max height delta between adjacent segments
	GroundTolerance = 5.0 // |y - ground| below this counts as on-ground
	CameraEaseRate  = 4.0 // camera follow easing factor per second
	CameraLead      = 0.3 // leader sits this fraction from the view's left edge
	AutoScrollSpeed = 120.0
	GenMargin       = 300.0 // generation look-ahead; must exceed SpawnLead so spawns find ground
	PruneMargin     = 200.0
)

// Parallax decoration layers (no gameplay effect).
const (
	ParallaxLayers = 2
	ParallaxNear   = 0.6
	ParallaxFar    = 0.3
)

// Obstacle spawning and interaction.
const (
	SpawnLead       = 200.0 // spawn this far past the view's right edge
	SpawnBaseRate   = 180.0 // distance between spawns at difficulty 0
	SpawnMinRate    = 120.0 // distance between spawns at difficulty 1
	SpawnJitter     = 80.0
	DifficultyRamp  = 0.0002 // difficulty per unit of distance, capped at 1
	ClearRate       = 2.0    // clearProgress per second
	CollisionInset  = 5.0    // inward padding on the agent's collision box
	HitPadding      = 20.0   // outward padding on obstacle boxes for taps
	AgentHitPadding = 20.0   // added to AgentSize for tap radius on hikers
)

// Orchestrator timing.
const (
	MaxTickDelta   = 0.1 // seconds; larger frame gaps are clamped, not simulated
	NotifyInterval = 0.1 // seconds between HUD/audio stat pushes
	ScoreDivisor   = 10.0
)
