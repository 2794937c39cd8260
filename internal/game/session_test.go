package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Collaborator fakes in the style of the core interfaces: counters
// only, no behavior.
type fakeAudio struct {
	flowCalls, cleared, failed, selected int
	lastFlow                             float64
}

func (f *fakeAudio) FlowLevel(flow float64) { f.flowCalls++; f.lastFlow = flow }
func (f *fakeAudio) ObstacleCleared()       { f.cleared++ }
func (f *fakeAudio) RunFailed()             { f.failed++ }
func (f *fakeAudio) MenuSelect()            { f.selected++ }

type fakeHUD struct {
	statCalls  int
	endCalls   int
	finalScore float64
	bestScore  float64
}

func (f *fakeHUD) Stats(score, flow float64, cleared int) { f.statCalls++ }
func (f *fakeHUD) RunEnded(finalScore, bestScore float64) {
	f.endCalls++
	f.finalScore = finalScore
	f.bestScore = bestScore
}

type fakeStore struct {
	best      float64
	contrast  bool
	saveCalls int
}

func (f *fakeStore) LoadBest() float64   { return f.best }
func (f *fakeStore) SaveBest(v float64)  { f.best = v; f.saveCalls++ }
func (f *fakeStore) LoadContrast() bool  { return f.contrast }
func (f *fakeStore) SaveContrast(v bool) { f.contrast = v }

func newTestSession() (*Session, *fakeAudio, *fakeHUD, *fakeStore) {
	audio := &fakeAudio{}
	hud := &fakeHUD{}
	store := &fakeStore{}
	return NewSession(12345, audio, hud, store), audio, hud, store
}

func TestStateMachineLegalTransitions(t *testing.T) {
	s, audio, _, _ := newTestSession()
	require.Equal(t, StateTitle, s.State)

	// Invalid from title.
	assert.False(t, s.Pause())
	assert.False(t, s.Resume())
	assert.False(t, s.ReturnToTitle())
	assert.Equal(t, StateTitle, s.State)

	require.True(t, s.Start())
	assert.Equal(t, StatePlaying, s.State)
	assert.Equal(t, 1, audio.selected)
	assert.False(t, s.Start(), "starting mid-run is a no-op")

	require.True(t, s.Pause())
	assert.Equal(t, StatePaused, s.State)
	assert.False(t, s.Pause(), "double pause is a no-op")
	assert.False(t, s.Start(), "no start from pause")

	require.True(t, s.Resume())
	assert.Equal(t, StatePlaying, s.State)

	// Force a run end, then both exits work.
	s.endRun(FailOverstretched)
	assert.Equal(t, StateGameOver, s.State)
	assert.False(t, s.Pause())
	require.True(t, s.Start(), "retry re-enters via a fresh run")
	assert.Equal(t, StatePlaying, s.State)

	s.endRun(FailOverstretched)
	require.True(t, s.ReturnToTitle())
	assert.Equal(t, StateTitle, s.State)
}

func TestTickOnlyWhilePlaying(t *testing.T) {
	s, _, _, _ := newTestSession()
	s.Tick(0.016) // no run yet; must not panic or move anything
	assert.Equal(t, 0.0, s.Distance)

	require.True(t, s.Start())
	s.Tick(0.016)
	assert.Greater(t, s.Distance, 0.0)

	require.True(t, s.Pause())
	before := s.Snapshot()
	s.Tick(0.016)
	after := s.Snapshot()
	assert.Equal(t, before.Distance, after.Distance, "paused ticks must freeze the run")
	assert.Equal(t, before.Agents, after.Agents)
}

func TestTimeStepClamp(t *testing.T) {
	s, _, _, _ := newTestSession()
	require.True(t, s.Start())

	// A stalled frame delivers a huge dt; the leader may only move one
	// clamped step (base speed 1.0 * scale 100 * 0.1s = 10 units).
	startX := s.Caravan.Leader().X
	s.Tick(7.5)
	assert.InDelta(t, startX+10, s.Caravan.Leader().X, 1e-6)
}

func TestClampedTickStillDetectsCollision(t *testing.T) {
	s, _, _, _ := newTestSession()
	require.True(t, s.Start())
	lead := s.Caravan.Leader()

	// A wall just ahead, inside the clamped step's reach.
	s.Obstacles.list = append(s.Obstacles.list, &Obstacle{
		Kind: KindWall, X: lead.X + 5, Y: lead.Y - 20, W: 18, H: 46,
	})
	s.Tick(100)
	assert.Equal(t, StateGameOver, s.State)
	assert.Equal(t, FailCollision, s.FailCause)
}

func TestScoreDerivedFromLeaderDisplacement(t *testing.T) {
	s, _, _, _ := newTestSession()
	require.True(t, s.Start())
	startX := s.Caravan.Leader().X

	for i := 0; i < 10 && s.State == StatePlaying; i++ {
		s.Tick(0.016)
	}
	require.Equal(t, StatePlaying, s.State)
	assert.InDelta(t, s.Caravan.Leader().X-startX, s.Distance, 1e-9)
	assert.InDelta(t, s.Distance/ScoreDivisor, s.Score, 1e-9)
}

func TestFailurePriorityCollisionFirst(t *testing.T) {
	s, audio, hud, _ := newTestSession()
	require.True(t, s.Start())
	lead := s.Caravan.Leader()

	// Collision and overstretch at once: collision wins.
	s.Obstacles.list = append(s.Obstacles.list, &Obstacle{
		Kind: KindWall, X: lead.X - 10, Y: lead.Y - 20, W: 120, H: 46,
	})
	s.Caravan.Agents[4].X -= 300

	s.Tick(0.001)
	assert.Equal(t, StateGameOver, s.State)
	assert.Equal(t, FailCollision, s.FailCause)
	assert.Equal(t, 1, audio.failed)
	assert.Equal(t, 1, hud.endCalls)
}

func TestLeaderFallsIntoGap(t *testing.T) {
	s, _, _, _ := newTestSession()
	require.True(t, s.Start())
	lead := s.Caravan.Leader()

	require.True(t, s.Terrain.SetGapAt(lead.X+5, true))
	s.Tick(0.05)
	assert.Equal(t, StateGameOver, s.State)
	assert.Equal(t, FailOffGround, s.FailCause)
}

func TestOverstretchEndsRun(t *testing.T) {
	s, _, _, _ := newTestSession()
	require.True(t, s.Start())

	s.Caravan.Agents[4].X -= 300
	s.Tick(0.001)
	assert.Equal(t, StateGameOver, s.State)
	assert.Equal(t, FailOverstretched, s.FailCause)
}

func TestBestScorePersistsOnlyOnImprovement(t *testing.T) {
	hud := &fakeHUD{}
	store := &fakeStore{best: 1000}
	s := NewSession(12345, &fakeAudio{}, hud, store)
	require.Equal(t, 1000.0, s.Best)

	require.True(t, s.Start())
	s.Tick(0.016)
	s.endRun(FailOverstretched)

	assert.Equal(t, 0, store.saveCalls, "a worse run must not touch the store")
	assert.Equal(t, 1000.0, hud.bestScore)

	// An improved run saves once.
	require.True(t, s.Start())
	s.Tick(0.016)
	s.Score = 2000
	s.endRun(FailOverstretched)
	assert.Equal(t, 1, store.saveCalls)
	assert.Equal(t, 2000.0, store.best)
	assert.Equal(t, 2000.0, hud.bestScore)
}

func TestStatsThrottledToNotifyInterval(t *testing.T) {
	s, audio, hud, _ := newTestSession()
	require.True(t, s.Start())

	s.Tick(0.04)
	s.Tick(0.04)
	assert.Equal(t, 0, hud.statCalls, "below the interval nothing is pushed")

	s.Tick(0.04) // accumulates past 100ms
	assert.Equal(t, 1, hud.statCalls)
	assert.Equal(t, 1, audio.flowCalls)
	assert.InDelta(t, s.Flow, audio.lastFlow, 1e-9)
}

func TestHandleTapClearsObstacleThenOffloads(t *testing.T) {
	s, audio, _, _ := newTestSession()
	assert.False(t, s.HandleTap(0, 0), "taps outside a run do nothing")

	require.True(t, s.Start())
	lead := s.Caravan.Leader()

	wall := &Obstacle{Kind: KindWall, X: lead.X + 300, Y: lead.Y - 46, W: 18, H: 46}
	s.Obstacles.list = append(s.Obstacles.list, wall)

	var clearedEvents, offloadEvents int
	s.Events().Subscribe(EventObstacleCleared, func(Event) { clearedEvents++ })
	s.Events().Subscribe(EventOffload, func(Event) { offloadEvents++ })

	// Tap the wall: cleared once, second tap fails.
	require.True(t, s.HandleTap(wall.X+5, wall.Y+5))
	assert.True(t, wall.Clearing)
	assert.Equal(t, 1, audio.cleared)
	assert.Equal(t, 1, clearedEvents)
	assert.False(t, s.HandleTap(wall.X+5, wall.Y+5))
	assert.Equal(t, 1, s.Obstacles.ClearedCount)

	// Tap a follower: offload fires; tapping the leader does nothing.
	follower := &s.Caravan.Agents[2]
	require.True(t, s.HandleTap(follower.X, follower.Y))
	assert.Equal(t, 1, offloadEvents)
	assert.Equal(t, OffloadLeaderGain, s.Caravan.Agents[0].OffloadBoost)

	assert.False(t, s.HandleTap(lead.X, lead.Y), "offloading the leader is a no-op")
}

func TestSnapshotIsDetachedCopy(t *testing.T) {
	s, _, _, _ := newTestSession()
	require.True(t, s.Start())
	s.Tick(0.016)

	snap := s.Snapshot()
	require.NotEmpty(t, snap.Segments)
	require.Len(t, snap.Agents, AgentCount)

	// Mutating the snapshot must not leak into the simulation.
	snap.Segments[0].HasGap = true
	snap.Agents[0].X += 1000
	_, ok := s.Terrain.GroundHeightAt(snap.Segments[0].X + 1)
	assert.True(t, ok)
	assert.NotEqual(t, snap.Agents[0].X, s.Caravan.Leader().X)

	assert.GreaterOrEqual(t, snap.Flow, FlowMin)
	assert.LessOrEqual(t, snap.Flow, FlowMax)
}

func TestContrastToggleIsPersisted(t *testing.T) {
	s, _, _, store := newTestSession()
	assert.False(t, s.Contrast)
	s.ToggleContrast()
	assert.True(t, s.Contrast)
	assert.True(t, store.contrast)
	s.ToggleContrast()
	assert.False(t, store.contrast)
}

func TestHeadlessSessionToleratesNilCollaborators(t *testing.T) {
	s := NewSession(1, nil, nil, nil)
	require.True(t, s.Start())
	for i := 0; i < 100 && s.State == StatePlaying; i++ {
		s.Tick(0.05)
	}
	s.endRun(FailOverstretched) // must not panic without collaborators
}
