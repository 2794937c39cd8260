package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerrainSegmentsContiguous(t *testing.T) {
	tr := NewTerrain(1, 0)
	for i := 0; i < 500; i++ {
		tr.Update(0.016, float64(i)*4, true)
	}
	segs := tr.Segments()
	require.NotEmpty(t, segs)
	for i := 1; i < len(segs); i++ {
		assert.Equal(t, segs[i-1].X+segs[i-1].Width, segs[i].X,
			"segments must tile with no overlap or hole")
	}
	last := segs[len(segs)-1]
	assert.GreaterOrEqual(t, last.X+last.Width, tr.CameraX+ViewWidth+GenMargin,
		"strip must stay generated ahead of the view")
}

func TestTerrainHeightsStayGentle(t *testing.T) {
	tr := NewTerrain(99, 0)
	for i := 0; i < 300; i++ {
		tr.Update(0.016, float64(i)*8, true)
	}
	for _, s := range tr.Segments() {
		assert.GreaterOrEqual(t, s.Height, float64(GroundMinY))
		assert.LessOrEqual(t, s.Height, float64(GroundMaxY))
	}
	segs := tr.Segments()
	for i := 1; i < len(segs); i++ {
		step := segs[i].Height - segs[i-1].Height
		if step < 0 {
			step = -step
		}
		assert.LessOrEqual(t, step, float64(GroundStep)+1e-9,
			"adjacent heights must stay within the on-ground tolerance")
	}
}

func TestGroundHeightAtGapSentinel(t *testing.T) {
	tr := NewTerrain(5, 0)
	seg, ok := tr.SegmentAt(100)
	require.True(t, ok)

	h, ok := tr.GroundHeightAt(100)
	require.True(t, ok)
	assert.Equal(t, seg.Height, h)

	// Opening the gap turns the query into "no ground", not height 0.
	require.True(t, tr.SetGapAt(100, true))
	_, ok = tr.GroundHeightAt(100)
	assert.False(t, ok)

	require.True(t, tr.SetGapAt(100, false))
	h, ok = tr.GroundHeightAt(100)
	require.True(t, ok)
	assert.Equal(t, seg.Height, h)

	// Off the generated strip is also "no ground".
	_, ok = tr.GroundHeightAt(1e7)
	assert.False(t, ok)
}

func TestIsOnGroundTolerance(t *testing.T) {
	tr := NewTerrain(5, 0)
	h, ok := tr.GroundHeightAt(50)
	require.True(t, ok)

	assert.True(t, tr.IsOnGround(50, h))
	assert.True(t, tr.IsOnGround(50, h+GroundTolerance-0.1))
	assert.True(t, tr.IsOnGround(50, h-GroundTolerance+0.1))
	assert.False(t, tr.IsOnGround(50, h+GroundTolerance))
	assert.False(t, tr.IsOnGround(50, h-GroundTolerance))

	tr.SetGapAt(50, true)
	assert.False(t, tr.IsOnGround(50, h), "a gapped segment is never ground")
}

func TestTerrainPrunesBehindCamera(t *testing.T) {
	tr := NewTerrain(11, 0)
	for i := 0; i < 2000; i++ {
		tr.Update(0.016, float64(i)*10, true)
	}
	for _, s := range tr.Segments() {
		assert.GreaterOrEqual(t, s.X+s.Width, tr.CameraX-PruneMargin,
			"segments fully behind the margin must be pruned")
	}
	for l := 0; l < ParallaxLayers; l++ {
		for _, d := range tr.Decor(l) {
			assert.GreaterOrEqual(t, d.X+d.Size, tr.CameraX*ParallaxFactor(l)-PruneMargin)
		}
	}
}

func TestCameraFollowsLeaderWithEasing(t *testing.T) {
	tr := NewTerrain(3, 0)
	leaderX := 1000.0
	target := leaderX - CameraLead*ViewWidth

	// dt*rate >= 1 clamps to an exact snap.
	tr.Update(0.25, leaderX, true)
	assert.InDelta(t, target, tr.CameraX, 1e-9)

	// Smaller steps cover the configured fraction of the remaining gap.
	tr2 := NewTerrain(3, 0)
	tr2.Update(0.125, leaderX, true)
	assert.InDelta(t, target*0.5, tr2.CameraX, 1e-9)
}

func TestCameraAutoScrollsWithoutLeader(t *testing.T) {
	tr := NewTerrain(3, 0)
	tr.Update(0.5, 0, false)
	assert.InDelta(t, AutoScrollSpeed*0.5, tr.CameraX, 1e-9)
}
