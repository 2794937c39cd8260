package game

import "math"

// GroundFunc reports the walkable ground height at x. ok=false means
// there is no ground there (a gap or ungenerated terrain); callers hold
// their last vertical position rather than easing toward anything.
type GroundFunc func(x float64) (height float64, ok bool)

// Agent is one hiker. Index 0 is the leader ("Herbie"), the slowest
// hiker, whose effective speed caps everyone behind.
type Agent struct {
	Index        int
	BaseSpeed    float64
	CurrentSpeed float64
	X, Y         float64
	TargetY      float64
	OffloadBoost float64 // transient speed delta, decays linearly to 0
	Waiting      bool    // bunched up against the hiker ahead

	// Presentation-only scalars; the core owns them so renderers stay
	// read-only, but nothing below reads them back.
	BobPhase   float64
	PulseTimer float64
}

// Caravan advances a line of hikers under the leader-follower speed
// constraint: no follower may outrun the leader, bunched followers slow
// down smoothly, and stragglers get a capped catch-up burst.
type Caravan struct {
	Agents []Agent
}

// NewCaravan creates count hikers in a trailing line behind startX,
// spaced TargetSpacing apart, with an ascending base-speed ramp so the
// leader is the slowest.
func NewCaravan(count int, startX, startY float64) *Caravan {
	c := &Caravan{Agents: make([]Agent, count)}
	for i := range c.Agents {
		c.Agents[i] = Agent{
			Index:     i,
			BaseSpeed: LeaderBaseSpeed + BaseSpeedStep*float64(i),
			X:         startX - float64(i)*TargetSpacing,
			Y:         startY,
			TargetY:   startY,
		}
	}
	return c
}

func (c *Caravan) Leader() *Agent {
	if len(c.Agents) == 0 {
		return nil
	}
	return &c.Agents[0]
}

// Advance moves every hiker by one tick. Speeds are resolved in index
// order against pre-move positions, then all hikers move together; a
// final clamp guarantees no follower ever passes the hiker ahead, even
// during a catch-up burst that ignores the leader cap.
func (c *Caravan) Advance(dt float64, ground GroundFunc) {
	if len(c.Agents) == 0 || dt <= 0 {
		return
	}

	lead := &c.Agents[0]
	lead.CurrentSpeed = lead.BaseSpeed + lead.OffloadBoost
	lead.Waiting = false

	for i := 1; i < len(c.Agents); i++ {
		ag := &c.Agents[i]
		gap := c.Agents[i-1].X - ag.X
		target := math.Min(ag.BaseSpeed+ag.OffloadBoost, lead.CurrentSpeed)
		switch {
		case gap < WaitThreshold*TargetSpacing:
			// Bunched: speed fades to zero as the gap closes.
			ag.Waiting = true
			ag.CurrentSpeed = math.Max(0, target*gap/TargetSpacing)
		case gap > CatchUpThreshold*TargetSpacing:
			// Straggling: recover above the leader cap.
			ag.Waiting = false
			ag.CurrentSpeed = ag.BaseSpeed * CatchUpFactor
		default:
			ag.Waiting = false
			ag.CurrentSpeed = target
		}
	}

	for i := range c.Agents {
		ag := &c.Agents[i]
		ag.X += ag.CurrentSpeed * DistanceScale * dt
		if i > 0 && ag.X > c.Agents[i-1].X {
			// Hard no-overtake invariant.
			ag.X = c.Agents[i-1].X
		}

		if h, ok := ground(ag.X); ok {
			ag.TargetY = h
			// Frame-rate-sensitive easing kept on purpose: an exact
			// exponential would change the visible settle timing.
			ag.Y += (ag.TargetY - ag.Y) * YSmoothRate * dt
		}

		ag.OffloadBoost = approach(ag.OffloadBoost, 0, BoostDecayRate*dt)
		ag.BobPhase += ag.CurrentSpeed * BobRate * dt
		if ag.PulseTimer > 0 {
			ag.PulseTimer = math.Max(0, ag.PulseTimer-dt)
		}
	}
}

// Offload shifts load from follower i onto the leader: the follower
// gets a fixed speed penalty and the leader a fixed boost. The boost is
// a cap, not a sum, so repeated taps cannot stack it. Offloading the
// leader onto itself is a no-op.
func (c *Caravan) Offload(i int) bool {
	if i <= 0 || i >= len(c.Agents) {
		return false
	}
	c.Agents[i].OffloadBoost = OffloadFollowCost
	lead := &c.Agents[0]
	lead.OffloadBoost = math.Max(lead.OffloadBoost, OffloadLeaderGain)
	for j := range c.Agents {
		c.Agents[j].PulseTimer = PulseDuration
	}
	return true
}

// FlowMultiplier maps average adjacent spacing to a score multiplier:
// 3.0 at perfect spacing, falling toward 1.0 as the caravan bunches or
// stretches. Degenerate caravans flow at 1.0.
func (c *Caravan) FlowMultiplier() float64 {
	if len(c.Agents) < 2 {
		return FlowMin
	}
	total := 0.0
	for i := 1; i < len(c.Agents); i++ {
		total += c.Agents[i-1].X - c.Agents[i].X
	}
	avg := total / float64(len(c.Agents)-1)
	return clampF(FlowMax-math.Abs(avg-TargetSpacing)/TargetSpacing, FlowMin, FlowMax)
}

// IsOverstretched reports whether any adjacent pair has pulled apart
// beyond MaxStretch. The orchestrator treats this as a run failure.
func (c *Caravan) IsOverstretched() bool {
	for i := 1; i < len(c.Agents); i++ {
		if c.Agents[i-1].X-c.Agents[i].X > MaxStretch {
			return true
		}
	}
	return false
}

// TensionPair marks an adjacent pair under visible strain. Tension runs
// 0 at twice the target spacing up to 1 at the failure threshold.
type TensionPair struct {
	Ahead, Behind int
	Tension       float64
}

// TensionPairs lists strained pairs for presentation only.
func (c *Caravan) TensionPairs() []TensionPair {
	var out []TensionPair
	lo := 2 * TargetSpacing
	for i := 1; i < len(c.Agents); i++ {
		gap := c.Agents[i-1].X - c.Agents[i].X
		if gap > lo {
			out = append(out, TensionPair{
				Ahead:   i - 1,
				Behind:  i,
				Tension: clampF((gap-lo)/(MaxStretch-lo), 0, 1),
			})
		}
	}
	return out
}

// HitTestAgent returns the index of the hiker closest to (wx, wy)
// within the forgiving tap radius, or -1.
func (c *Caravan) HitTestAgent(wx, wy float64) int {
	radius := AgentSize + AgentHitPadding
	best := -1
	bestD := radius
	for i := range c.Agents {
		d := math.Hypot(c.Agents[i].X-wx, c.Agents[i].Y-wy)
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}
