package game

// ObstacleKind tags the obstacle variant. Shared fields live on
// Obstacle; per-kind behavior is the gap's segment linkage.
type ObstacleKind int

const (
	KindGap ObstacleKind = iota
	KindWall
	KindBarrier
	KindPlatform
)

func (k ObstacleKind) String() string {
	switch k {
	case KindGap:
		return "gap"
	case KindWall:
		return "wall"
	case KindBarrier:
		return "barrier"
	case KindPlatform:
		return "platform"
	}
	return "unknown"
}

// Obstacle lifecycle: spawned -> clearing -> cleared -> pruned.
// Clearing is entered exactly once (Clear refuses re-entry) and
// ClearProgress only advances. A cleared obstacle is inert.
type Obstacle struct {
	Kind          ObstacleKind
	X, Y, W, H    float64
	Clearing      bool
	Cleared       bool
	ClearProgress float64 // 0..1 while clearing
	ClearedAt     float64 // manager-elapsed seconds when Clear was accepted

	gapX float64 // any x covered by the owning segment (gaps only)
}

// Fixed per-kind geometry relative to the host segment's surface.
// Sizes are layout constants: walls and barriers stand on the ground,
// platforms hang low enough to overlap a hiker's padded box, and a gap
// covers its whole segment.
const (
	wallW     = 18.0
	wallH     = 46.0
	barrierW  = 34.0
	barrierH  = 16.0
	platformW = 64.0
	platformH = 32.0
	platformY = 34.0 // top sits this far above the ground surface
	gapDepth  = 24.0 // visual depth only
)

// Obstacles spawns typed obstacles ahead of the camera at
// distance-scaled intervals, advances clearing animations, and answers
// collision and tap queries.
type Obstacles struct {
	ClearedCount int

	list        []*Obstacle
	nextSpawnAt float64
	elapsed     float64
	rng         *Rand
}

func NewObstacles(seed uint64) *Obstacles {
	return &Obstacles{
		rng:         NewRand(splitmix64(seed ^ 0x0B57AC1E)),
		nextSpawnAt: SpawnBaseRate,
	}
}

// Difficulty ramps from 0 to 1 over the first 5000 distance units.
func Difficulty(distance float64) float64 {
	return clampF(distance*DifficultyRamp, 0, 1)
}

// typeWeights returns cumulative-selection weights per difficulty band.
// Band weights below 0.2 sum to 0.7; draws past the table fall back to
// wall, so early runs only ever see walls and barriers.
func typeWeights(difficulty float64) [4]float64 {
	switch {
	case difficulty < 0.2:
		return [4]float64{0, 0.4, 0.3, 0} // gap, wall, barrier, platform
	case difficulty < 0.5:
		return [4]float64{0.25, 0.25, 0.25, 0.25}
	default:
		return [4]float64{0.2, 0.25, 0.25, 0.3}
	}
}

func pickKind(difficulty float64, r *Rand) ObstacleKind {
	w := typeWeights(difficulty)
	roll := r.Float64()
	acc := 0.0
	for k := 0; k < 4; k++ {
		acc += w[k]
		if roll < acc {
			return ObstacleKind(k)
		}
	}
	return KindWall
}

// Update advances clearing animations, spawns when the caravan's
// cumulative distance crosses the running threshold, and prunes
// obstacles that are cleared or fully behind the camera.
func (o *Obstacles) Update(dt, distance float64, t *Terrain) {
	o.elapsed += dt

	for _, ob := range o.list {
		if !ob.Clearing || ob.Cleared {
			continue
		}
		ob.ClearProgress += ClearRate * dt
		if ob.ClearProgress >= 1 {
			ob.ClearProgress = 1
			ob.Cleared = true
			ob.Clearing = false
			if ob.Kind == KindGap {
				t.SetGapAt(ob.gapX, false)
			}
		}
	}

	if distance >= o.nextSpawnAt {
		spawnX := t.CameraX + ViewWidth + SpawnLead
		if seg, ok := t.SegmentAt(spawnX); ok {
			o.spawn(spawnX, seg, Difficulty(distance), t)
			o.nextSpawnAt = distance +
				lerpF(SpawnBaseRate, SpawnMinRate, Difficulty(distance)) +
				o.rng.Float64()*SpawnJitter
		}
		// No covering segment: skip this tick and retry, keeping the
		// threshold so the spawn isn't lost.
	}

	cut := t.CameraX - PruneMargin
	keep := o.list[:0]
	for _, ob := range o.list {
		if ob.Cleared || ob.X+ob.W < cut {
			if ob.Kind == KindGap && !ob.Cleared {
				// Pruned while still open: give the segment its ground back.
				t.SetGapAt(ob.gapX, false)
			}
			continue
		}
		keep = append(keep, ob)
	}
	o.list = keep
}

func (o *Obstacles) spawn(x float64, seg Segment, difficulty float64, t *Terrain) {
	kind := pickKind(difficulty, o.rng)
	if kind == KindGap && seg.HasGap {
		// At most one open gap per segment.
		kind = KindWall
	}

	ob := &Obstacle{Kind: kind}
	switch kind {
	case KindGap:
		ob.X = seg.X
		ob.W = seg.Width
		ob.Y = seg.Height
		ob.H = gapDepth
		ob.gapX = x
		t.SetGapAt(x, true)
	case KindWall:
		ob.W, ob.H = wallW, wallH
		ob.X = x - wallW/2
		ob.Y = seg.Height - wallH
	case KindBarrier:
		ob.W, ob.H = barrierW, barrierH
		ob.X = x - barrierW/2
		ob.Y = seg.Height - barrierH
	case KindPlatform:
		ob.W, ob.H = platformW, platformH
		ob.X = x - platformW/2
		ob.Y = seg.Height - platformY
	}
	o.list = append(o.list, ob)
}

// Clear begins the clearing transition. Fails (no state change, no
// count) if the obstacle is already clearing or cleared, so double taps
// only score once.
func (o *Obstacles) Clear(ob *Obstacle) bool {
	if ob == nil || ob.Cleared || ob.Clearing {
		return false
	}
	ob.Clearing = true
	ob.ClearedAt = o.elapsed
	o.ClearedCount++
	return true
}

// CheckCollision box-tests the leader against every active solid
// obstacle. The agent box is padded 5px inward so grazing passes don't
// kill. Gaps are excluded: falling into one is detected by the ground
// query, never double-counted here.
func (o *Obstacles) CheckCollision(x, y, size float64) *Obstacle {
	half := size/2 - CollisionInset
	if half < 0 {
		half = 0
	}
	for _, ob := range o.list {
		if ob.Cleared || ob.Clearing || ob.Kind == KindGap {
			continue
		}
		if x+half > ob.X && x-half < ob.X+ob.W &&
			y+half > ob.Y && y-half < ob.Y+ob.H {
			return ob
		}
	}
	return nil
}

// HitTest returns the first active obstacle under a tap, with boxes
// grown 20px outward for forgiving input. Gaps are included here;
// tapping a gap is the only way to close it.
func (o *Obstacles) HitTest(wx, wy float64) *Obstacle {
	for _, ob := range o.list {
		if ob.Cleared || ob.Clearing {
			continue
		}
		if wx >= ob.X-HitPadding && wx <= ob.X+ob.W+HitPadding &&
			wy >= ob.Y-HitPadding && wy <= ob.Y+ob.H+HitPadding {
			return ob
		}
	}
	return nil
}

// All exposes the live obstacle list for snapshotting.
func (o *Obstacles) All() []*Obstacle { return o.list }
