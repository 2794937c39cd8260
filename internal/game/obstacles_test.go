package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifficultyRamp(t *testing.T) {
	assert.Equal(t, 0.0, Difficulty(0))
	assert.InDelta(t, 0.2, Difficulty(1000), 1e-9)
	assert.InDelta(t, 1.0, Difficulty(5000), 1e-9)
	assert.Equal(t, 1.0, Difficulty(50000), "difficulty caps at 1")
}

func TestPickKindDifficultyBands(t *testing.T) {
	// At difficulty 0 only walls and barriers are reachable.
	r := NewRand(123)
	for i := 0; i < 2000; i++ {
		k := pickKind(0, r)
		assert.Contains(t, []ObstacleKind{KindWall, KindBarrier}, k)
	}

	// At difficulty 1 every type appears.
	seen := map[ObstacleKind]int{}
	for i := 0; i < 2000; i++ {
		seen[pickKind(1, r)]++
	}
	for _, k := range []ObstacleKind{KindGap, KindWall, KindBarrier, KindPlatform} {
		assert.Greater(t, seen[k], 0, "kind %v unreachable at difficulty 1", k)
	}

	// Mid band is uniform: every type lands near a quarter of draws.
	seen = map[ObstacleKind]int{}
	n := 8000
	for i := 0; i < n; i++ {
		seen[pickKind(0.3, r)]++
	}
	for k, count := range seen {
		assert.InDelta(t, n/4, count, float64(n)*0.05, "kind %v share off in mid band", k)
	}
}

func TestSpawnAtThresholdAheadOfCamera(t *testing.T) {
	tr := NewTerrain(1, 0)
	o := NewObstacles(1)

	// Below the first threshold nothing spawns.
	o.Update(0.016, SpawnBaseRate-1, tr)
	assert.Empty(t, o.All())

	// Crossing it spawns exactly one obstacle at the lead point.
	o.Update(0.016, SpawnBaseRate+1, tr)
	require.Len(t, o.All(), 1)
	ob := o.All()[0]
	spawnX := tr.CameraX + ViewWidth + SpawnLead
	assert.InDelta(t, spawnX, ob.X+ob.W/2, SegmentWidth,
		"obstacle must sit on the segment covering the lead point")

	// Next threshold advanced by the rate window plus jitter.
	d := SpawnBaseRate + 1.0
	diff := Difficulty(d)
	lo := d + lerpF(SpawnBaseRate, SpawnMinRate, diff)
	assert.GreaterOrEqual(t, o.nextSpawnAt, lo)
	assert.LessOrEqual(t, o.nextSpawnAt, lo+SpawnJitter)
}

func TestSpawnSkippedWithoutCoveringSegment(t *testing.T) {
	tr := NewTerrain(1, 0)
	o := NewObstacles(1)

	// Strand the camera far past the generated strip without updating
	// the terrain, so nothing covers the spawn point.
	tr.CameraX = 1e6
	before := o.nextSpawnAt
	o.Update(0.016, before+1, tr)
	assert.Empty(t, o.All())
	assert.Equal(t, before, o.nextSpawnAt, "skipped spawn keeps the threshold for a retry")
}

func TestGapSpawnFlipsSegmentFlag(t *testing.T) {
	tr := NewTerrain(1, 0)
	o := NewObstacles(1)
	seg, ok := tr.SegmentAt(400)
	require.True(t, ok)
	require.False(t, seg.HasGap)

	o.spawn(400, seg, 1.0, tr)
	for o.All()[len(o.All())-1].Kind != KindGap {
		require.Less(t, len(o.All()), 100, "no gap drawn in 100 spawns at difficulty 1")
		o.spawn(400, mustSegmentAt(t, tr, 400), 1.0, tr)
	}

	seg, ok = tr.SegmentAt(400)
	require.True(t, ok)
	assert.True(t, seg.HasGap)
	_, ground := tr.GroundHeightAt(400)
	assert.False(t, ground, "open gap removes ground coverage")

	// Clearing the gap restores the segment.
	gap := o.All()[len(o.All())-1]
	require.True(t, o.Clear(gap))
	for i := 0; i < 10; i++ {
		o.Update(0.1, 0, tr) // 1s total at 2.0/s finishes the clear
	}
	_, ground = tr.GroundHeightAt(400)
	assert.True(t, ground)
}

func mustSegmentAt(t *testing.T, tr *Terrain, x float64) Segment {
	t.Helper()
	seg, ok := tr.SegmentAt(x)
	require.True(t, ok)
	return seg
}

func TestSecondGapOnSameSegmentBecomesWall(t *testing.T) {
	tr := NewTerrain(1, 0)
	o := NewObstacles(1)
	seg := mustSegmentAt(t, tr, 400)
	tr.SetGapAt(400, true)
	seg.HasGap = true

	// Force many spawns; none may open a second gap on the segment.
	for i := 0; i < 50; i++ {
		o.spawn(400, seg, 1.0, tr)
	}
	for _, ob := range o.All() {
		assert.NotEqual(t, KindGap, ob.Kind)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	o := NewObstacles(1)
	ob := &Obstacle{Kind: KindWall, X: 0, Y: 0, W: 10, H: 10}
	o.list = append(o.list, ob)

	require.True(t, o.Clear(ob))
	assert.Equal(t, 1, o.ClearedCount)
	assert.True(t, ob.Clearing)

	assert.False(t, o.Clear(ob), "clearing an in-progress obstacle must fail")
	assert.Equal(t, 1, o.ClearedCount, "double clear must count once")

	assert.False(t, o.Clear(nil))
}

func TestClearProgressRate(t *testing.T) {
	tr := NewTerrain(1, 0)
	o := NewObstacles(1)
	ob := &Obstacle{Kind: KindWall, X: tr.CameraX, Y: 0, W: 10, H: 10}
	o.list = append(o.list, ob)
	require.True(t, o.Clear(ob))

	o.Update(0.25, 0, tr)
	assert.InDelta(t, 0.5, ob.ClearProgress, 1e-9)
	assert.False(t, ob.Cleared)

	o.Update(0.25, 0, tr)
	assert.Equal(t, 1.0, ob.ClearProgress)
	assert.True(t, ob.Cleared)
	assert.False(t, ob.Clearing)

	// Cleared obstacles are pruned on the next pass.
	o.Update(0.016, 0, tr)
	assert.Empty(t, o.All())
}

func TestCheckCollisionPaddingAndGapExclusion(t *testing.T) {
	o := NewObstacles(1)
	wall := &Obstacle{Kind: KindWall, X: 100, Y: 100, W: 20, H: 40}
	gap := &Obstacle{Kind: KindGap, X: 100, Y: 100, W: 80, H: 24}
	o.list = append(o.list, wall, gap)

	// Agent box is size 16 padded 5 inward: effective half-extent 3.
	assert.Equal(t, wall, o.CheckCollision(102, 102, 16))
	assert.Nil(t, o.CheckCollision(96, 102, 16), "grazing pass outside the padded box")
	assert.Nil(t, o.CheckCollision(150, 110, 16), "gaps never collide")

	// Clearing and cleared obstacles are inert.
	wall.Clearing = true
	assert.Nil(t, o.CheckCollision(102, 102, 16))
	wall.Clearing = false
	wall.Cleared = true
	assert.Nil(t, o.CheckCollision(102, 102, 16))
}

func TestHitTestPaddingIncludesGaps(t *testing.T) {
	o := NewObstacles(1)
	wall := &Obstacle{Kind: KindWall, X: 100, Y: 100, W: 20, H: 40}
	gap := &Obstacle{Kind: KindGap, X: 300, Y: 330, W: 80, H: 24}
	o.list = append(o.list, wall, gap)

	assert.Equal(t, wall, o.HitTest(100-HitPadding+1, 100))
	assert.Nil(t, o.HitTest(100-HitPadding-1, 100))
	assert.Equal(t, gap, o.HitTest(340, 340), "gaps must be tappable")

	wall.Clearing = true
	assert.Nil(t, o.HitTest(105, 105), "clearing obstacles stop responding to taps")
}

func TestPruneBehindCameraRestoresGap(t *testing.T) {
	tr := NewTerrain(1, 0)
	o := NewObstacles(1)
	seg := mustSegmentAt(t, tr, 80)

	gap := &Obstacle{Kind: KindGap, X: seg.X, Y: seg.Height, W: seg.Width, H: 24, gapX: 80}
	o.list = append(o.list, gap)
	tr.SetGapAt(80, true)

	// Move the camera far enough that the gap falls behind the margin
	// but its segment is still generated.
	tr.CameraX = seg.X + seg.Width + PruneMargin + 1
	o.Update(0.016, 0, tr)
	assert.Empty(t, o.All())

	_, ground := tr.GroundHeightAt(80)
	assert.True(t, ground, "pruning an open gap must give the ground back")
}
