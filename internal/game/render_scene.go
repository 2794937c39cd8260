package game

import "math"

// appendRect pushes an axis-aligned rectangle as two triangles.
func appendRect(buf []float32, x, y, w, h float64, col RGB, alpha float32) []float32 {
	r := float32(col.R) / 255
	g := float32(col.G) / 255
	b := float32(col.B) / 255
	x0, y0 := float32(x), float32(y)
	x1, y1 := float32(x+w), float32(y+h)
	return append(buf,
		x0, y0, r, g, b, alpha,
		x1, y0, r, g, b, alpha,
		x1, y1, r, g, b, alpha,
		x0, y0, r, g, b, alpha,
		x1, y1, r, g, b, alpha,
		x0, y1, r, g, b, alpha,
	)
}

// appendLine pushes a thin quad from (x0,y0) to (x1,y1).
func appendLine(buf []float32, x0, y0, x1, y1, thick float64, col RGB, alpha float32) []float32 {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		return buf
	}
	nx := -dy / l * thick / 2
	ny := dx / l * thick / 2
	r := float32(col.R) / 255
	g := float32(col.G) / 255
	b := float32(col.B) / 255
	ax, ay := float32(x0+nx), float32(y0+ny)
	bx, by := float32(x1+nx), float32(y1+ny)
	cx, cy := float32(x1-nx), float32(y1-ny)
	ex, ey := float32(x0-nx), float32(y0-ny)
	return append(buf,
		ax, ay, r, g, b, alpha,
		bx, by, r, g, b, alpha,
		cx, cy, r, g, b, alpha,
		ax, ay, r, g, b, alpha,
		cx, cy, r, g, b, alpha,
		ex, ey, r, g, b, alpha,
	)
}

func appendSprite(buf []float32, x, y, size float64, col RGB, alpha float32) []float32 {
	return append(buf,
		float32(x), float32(y), float32(size),
		float32(col.R)/255, float32(col.G)/255, float32(col.B)/255, alpha,
	)
}

func appendGlowSprite(buf []float32, x, y, size float64, col RGB, brightness float64) []float32 {
	return append(buf,
		float32(x), float32(y), float32(size),
		float32(col.R)/255*float32(brightness),
		float32(col.G)/255*float32(brightness),
		float32(col.B)/255*float32(brightness),
		1, // unused by the glow shader
	)
}

func obstacleColor(k ObstacleKind, p ScenePalette) RGB {
	switch k {
	case KindWall:
		return p.Wall
	case KindBarrier:
		return p.Barrier
	case KindPlatform:
		return p.Platform
	}
	return p.GapMark
}

// RenderFrame draws one snapshot. The world camera centres on the view
// window; HUD and overlays draw in screen space (zoom 1, centre cam).
func (r *Renderer) RenderFrame(snap FrameSnapshot, fbW, fbH int) {
	pal := snap.Palette
	zoom := minF(float64(fbW)/ViewWidth, float64(fbH)/ViewHeight)
	camX := snap.CameraX + ViewWidth/2
	camY := float64(ViewHeight) / 2

	r.BeginFrame(pal.Sky, fbW, fbH)

	// Parallax decorations, far layer first. Decor x lives in layer
	// space; shifting by cam*(1-factor) makes the world transform
	// scroll it at the layer's factor.
	r.spriteBuf = r.spriteBuf[:0]
	for l := 0; l < ParallaxLayers; l++ {
		shift := snap.CameraX * (1 - ParallaxFactor(l))
		for _, d := range snap.Decor[l] {
			r.spriteBuf = appendSprite(r.spriteBuf, d.X+shift, d.Y, d.Size, pal.Ridge[d.Shade], 0.9)
		}
	}
	r.DrawSprites(r.spriteBuf, camX, camY, zoom, fbW, fbH)

	// Ground strip: surface band plus deep fill; open gaps show a dark
	// pit instead of ground.
	r.quadBuf = r.quadBuf[:0]
	for _, s := range snap.Segments {
		if s.HasGap {
			r.quadBuf = appendRect(r.quadBuf, s.X, s.Height, s.Width, ViewHeight-s.Height, pal.GapMark, 1)
			continue
		}
		r.quadBuf = appendRect(r.quadBuf, s.X, s.Height, s.Width, 8, pal.Ground, 1)
		r.quadBuf = appendRect(r.quadBuf, s.X, s.Height+8, s.Width, ViewHeight-s.Height-8, pal.GroundDeep, 1)
	}

	// Obstacles fade out while clearing.
	for _, ob := range snap.Obstacles {
		alpha := float32(1.0)
		if ob.Clearing {
			alpha = float32(1 - ob.ClearProgress)
		}
		col := obstacleColor(ob.Kind, pal)
		if ob.Kind == KindGap {
			// Rim marks make the hole readable (and tappable).
			r.quadBuf = appendRect(r.quadBuf, ob.X, ob.Y-3, 6, 3, pal.Tension, alpha)
			r.quadBuf = appendRect(r.quadBuf, ob.X+ob.W-6, ob.Y-3, 6, 3, pal.Tension, alpha)
			continue
		}
		r.quadBuf = appendRect(r.quadBuf, ob.X, ob.Y, ob.W, ob.H, col, alpha)
	}

	// Tension lines between strained pairs.
	for _, tp := range snap.Tension {
		a := snap.Agents[tp.Ahead]
		b := snap.Agents[tp.Behind]
		r.quadBuf = appendLine(r.quadBuf, a.X, a.Y-AgentSize/2, b.X, b.Y-AgentSize/2,
			2, pal.Tension, float32(0.3+0.7*tp.Tension))
	}
	r.DrawQuads(r.quadBuf, camX, camY, zoom, fbW, fbH)

	// Hikers: bobbing body dot plus a smaller head; leader tinted.
	r.spriteBuf = r.spriteBuf[:0]
	r.glowBuf = r.glowBuf[:0]
	for _, ag := range snap.Agents {
		col := pal.Agent
		if ag.Index == 0 {
			col = pal.Leader
		}
		alpha := float32(1.0)
		if ag.Waiting {
			alpha = 0.75
		}
		bob := math.Sin(ag.BobPhase) * 1.5
		bodyY := ag.Y - AgentSize/2 + bob
		r.spriteBuf = appendSprite(r.spriteBuf, ag.X, bodyY, AgentSize, col, alpha)
		r.spriteBuf = appendSprite(r.spriteBuf, ag.X, bodyY-AgentSize*0.65, AgentSize*0.55, col, alpha)
		if ag.Pulse > 0 {
			r.glowBuf = appendGlowSprite(r.glowBuf, ag.X, bodyY, AgentSize*3, col, 0.8*ag.Pulse)
		}
	}
	for _, tp := range snap.Tension {
		a := snap.Agents[tp.Ahead]
		b := snap.Agents[tp.Behind]
		mx := (a.X + b.X) / 2
		my := (a.Y+b.Y)/2 - AgentSize/2
		r.glowBuf = appendGlowSprite(r.glowBuf, mx, my, 40+40*tp.Tension, pal.Tension, 0.5*tp.Tension)
	}
	r.DrawSprites(r.spriteBuf, camX, camY, zoom, fbW, fbH)
	r.DrawGlow(r.glowBuf, camX, camY, zoom, fbW, fbH)

	r.renderHUD(snap, fbW, fbH)
}

// renderHUD draws the glyphless meters and state overlays in screen
// space. Numeric readouts live in the window title (no font assets).
func (r *Renderer) renderHUD(snap FrameSnapshot, fbW, fbH int) {
	pal := snap.Palette
	scrCamX := float64(fbW) / 2
	scrCamY := float64(fbH) / 2
	r.hudBuf = r.hudBuf[:0]

	if snap.State == StatePlaying || snap.State == StatePaused {
		// Flow meter, bottom left: frame plus fill.
		const mw, mh = 180.0, 10.0
		mx, my := 16.0, float64(fbH)-26
		r.hudBuf = appendRect(r.hudBuf, mx-2, my-2, mw+4, mh+4, pal.GapMark, 0.7)
		frac := (snap.Flow - FlowMin) / (FlowMax - FlowMin)
		r.hudBuf = appendRect(r.hudBuf, mx, my, mw*frac, mh, pal.Leader, 1)

		// One tick per cleared obstacle, capped at a row of 24.
		ticks := snap.Cleared
		if ticks > 24 {
			ticks = 24
		}
		for i := 0; i < ticks; i++ {
			r.hudBuf = appendRect(r.hudBuf, 16+float64(i)*10, 16, 6, 12, pal.HUD, 0.9)
		}

		// Stretch warning vignette when any pair is under tension.
		maxT := 0.0
		for _, tp := range snap.Tension {
			if tp.Tension > maxT {
				maxT = tp.Tension
			}
		}
		if maxT > 0 {
			a := float32(0.25 * maxT)
			r.hudBuf = appendRect(r.hudBuf, 0, 0, 8, float64(fbH), pal.Tension, a)
			r.hudBuf = appendRect(r.hudBuf, float64(fbW)-8, 0, 8, float64(fbH), pal.Tension, a)
		}
	}

	switch snap.State {
	case StateTitle:
		r.hudBuf = appendRect(r.hudBuf, 0, 0, float64(fbW), float64(fbH), pal.GapMark, 0.45)
		// Play triangle.
		cx, cy := float64(fbW)/2, float64(fbH)/2
		r.hudBuf = appendTriangle(r.hudBuf, cx-20, cy-28, cx-20, cy+28, cx+30, cy, pal.HUD, 1)
	case StatePaused:
		r.hudBuf = appendRect(r.hudBuf, 0, 0, float64(fbW), float64(fbH), pal.GapMark, 0.35)
		cx, cy := float64(fbW)/2, float64(fbH)/2
		r.hudBuf = appendRect(r.hudBuf, cx-22, cy-28, 14, 56, pal.HUD, 1)
		r.hudBuf = appendRect(r.hudBuf, cx+8, cy-28, 14, 56, pal.HUD, 1)
	case StateGameOver:
		r.hudBuf = appendRect(r.hudBuf, 0, 0, float64(fbW), float64(fbH), pal.GapMark, 0.55)
		cx, cy := float64(fbW)/2, float64(fbH)/2
		r.hudBuf = appendLine(r.hudBuf, cx-26, cy-26, cx+26, cy+26, 10, pal.Tension, 1)
		r.hudBuf = appendLine(r.hudBuf, cx-26, cy+26, cx+26, cy-26, 10, pal.Tension, 1)
	}

	r.DrawQuads(r.hudBuf, scrCamX, scrCamY, 1, fbW, fbH)
}

func appendTriangle(buf []float32, x0, y0, x1, y1, x2, y2 float64, col RGB, alpha float32) []float32 {
	r := float32(col.R) / 255
	g := float32(col.G) / 255
	b := float32(col.B) / 255
	return append(buf,
		float32(x0), float32(y0), r, g, b, alpha,
		float32(x1), float32(y1), r, g, b, alpha,
		float32(x2), float32(y2), r, g, b, alpha,
	)
}
