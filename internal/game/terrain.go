package game

// Segment is one contiguous strip of walkable ground. Segments tile the
// x axis with no overlap; Height is the y of the walking surface.
// HasGap is flipped by the obstacle manager while a gap obstacle is
// open on this strip, which turns ground queries into "no ground".
type Segment struct {
	X, Width float64
	Height   float64
	HasGap   bool
}

// Decoration is a parallax background prop (ridge, shrub). Purely
// visual; positions live in layer space and scroll slower than the
// ground.
type Decoration struct {
	X, Y  float64
	Size  float64
	Shade int // palette shade index, 0..2
}

// Terrain owns the camera and the procedurally extended ground strip
// plus two parallax decoration layers. It generates ahead of the view,
// prunes behind it, and answers the ground queries the caravan and the
// orchestrator branch on.
type Terrain struct {
	CameraX float64

	segments   []Segment
	nextX      float64
	lastHeight float64

	decor     [ParallaxLayers][]Decoration
	nextDecor [ParallaxLayers]float64

	rng *Rand
}

var parallaxFactor = [ParallaxLayers]float64{ParallaxFar, ParallaxNear}

// NewTerrain seeds the generator and lays down the initial strip around
// cameraX so the caravan starts on solid ground.
func NewTerrain(seed uint64, cameraX float64) *Terrain {
	t := &Terrain{
		CameraX:    cameraX,
		nextX:      cameraX - PruneMargin,
		lastHeight: GroundBaseY,
		rng:        NewRand(splitmix64(seed ^ 0x7E22A14)),
	}
	for l := 0; l < ParallaxLayers; l++ {
		t.nextDecor[l] = cameraX*parallaxFactor[l] - PruneMargin
	}
	t.extend()
	return t
}

// Update eases the camera toward the leader (or auto-scrolls without
// one), then extends and prunes the strip and decoration layers.
func (t *Terrain) Update(dt float64, leaderX float64, hasLeader bool) {
	if hasLeader {
		target := leaderX - CameraLead*ViewWidth
		// Frame-rate-sensitive easing kept as-is; see caravan.Advance.
		t.CameraX += (target - t.CameraX) * minF(1, dt*CameraEaseRate)
	} else {
		t.CameraX += AutoScrollSpeed * dt
	}
	t.extend()
	t.prune()
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// extend generates fixed-width segments from the last edge until the
// strip covers the view plus margin, with a gentle height random walk.
// Height steps stay below the on-ground tolerance so the leader's eased
// y never reads as airborne while crossing a seam.
func (t *Terrain) extend() {
	limit := t.CameraX + ViewWidth + GenMargin
	for t.nextX < limit {
		h := clampF(t.lastHeight+t.rng.RangeF(-GroundStep, GroundStep), GroundMinY, GroundMaxY)
		t.segments = append(t.segments, Segment{
			X:      t.nextX,
			Width:  SegmentWidth,
			Height: h,
		})
		t.lastHeight = h
		t.nextX += SegmentWidth
	}
	for l := 0; l < ParallaxLayers; l++ {
		lim := t.CameraX*parallaxFactor[l] + ViewWidth + GenMargin
		for t.nextDecor[l] < lim {
			size := t.rng.RangeF(18, 60)
			if l == 0 {
				size *= 2.2 // far ridges are larger and sparser
			}
			t.decor[l] = append(t.decor[l], Decoration{
				X:     t.nextDecor[l],
				Y:     GroundMinY - t.rng.RangeF(10, 90),
				Size:  size,
				Shade: t.rng.Intn(3),
			})
			t.nextDecor[l] += t.rng.RangeF(60, 220) * (1 + float64(1-l))
		}
	}
}

func (t *Terrain) prune() {
	cut := t.CameraX - PruneMargin
	keep := t.segments[:0]
	for _, s := range t.segments {
		if s.X+s.Width >= cut {
			keep = append(keep, s)
		}
	}
	t.segments = keep
	for l := 0; l < ParallaxLayers; l++ {
		dcut := t.CameraX*parallaxFactor[l] - PruneMargin
		dk := t.decor[l][:0]
		for _, d := range t.decor[l] {
			if d.X+d.Size >= dcut {
				dk = append(dk, d)
			}
		}
		t.decor[l] = dk
	}
}

// GroundHeightAt returns the walking height at x. ok=false is the
// legitimate "no ground" signal: x is over an open gap or off the
// generated strip.
func (t *Terrain) GroundHeightAt(x float64) (float64, bool) {
	for i := range t.segments {
		s := &t.segments[i]
		if x >= s.X && x < s.X+s.Width {
			if s.HasGap {
				return 0, false
			}
			return s.Height, true
		}
	}
	return 0, false
}

// IsOnGround reports whether (x, y) stands on solid ground: a covering
// non-gapped segment whose surface is within GroundTolerance of y.
func (t *Terrain) IsOnGround(x, y float64) bool {
	h, ok := t.GroundHeightAt(x)
	if !ok {
		return false
	}
	d := y - h
	if d < 0 {
		d = -d
	}
	return d < GroundTolerance
}

// SegmentAt returns a copy of the segment covering x.
func (t *Terrain) SegmentAt(x float64) (Segment, bool) {
	for i := range t.segments {
		s := &t.segments[i]
		if x >= s.X && x < s.X+s.Width {
			return *s, true
		}
	}
	return Segment{}, false
}

// SetGapAt opens or closes the gap flag on the segment covering x.
// Returns false if no segment covers x (e.g. it was already pruned).
func (t *Terrain) SetGapAt(x float64, open bool) bool {
	for i := range t.segments {
		s := &t.segments[i]
		if x >= s.X && x < s.X+s.Width {
			s.HasGap = open
			return true
		}
	}
	return false
}

// Segments exposes the live strip for snapshotting.
func (t *Terrain) Segments() []Segment { return t.segments }

// Decor exposes one parallax layer for snapshotting.
func (t *Terrain) Decor(layer int) []Decoration { return t.decor[layer] }

// ParallaxFactor returns the scroll factor for a decoration layer.
func ParallaxFactor(layer int) float64 { return parallaxFactor[layer] }
