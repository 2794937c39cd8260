package game

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Streaming buffer capacities (vertices / sprites per draw).
const (
	MaxQuadVerts  = 6 * 4096
	MaxSpriteDraw = 4096
)

// glOffset converts a byte offset to unsafe.Pointer for VBO offsets.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// Renderer is the OpenGL presentation collaborator. It consumes frame
// snapshots and never writes back into the simulation.
type Renderer struct {
	quadProg uint32
	quadVAO  uint32
	quadVBO  uint32
	qUCamera int32
	qUZoom   int32
	qURes    int32

	spriteProg uint32
	spriteVAO  uint32
	spriteVBO  uint32
	spUCamera  int32
	spUZoom    int32
	spURes     int32

	glowProg  uint32
	glUCamera int32
	glUZoom   int32
	glURes    int32

	// Reusable per-frame buffers to avoid heap churn.
	quadBuf   []float32
	spriteBuf []float32
	glowBuf   []float32
	hudBuf    []float32
}

func NewRenderer() (*Renderer, error) {
	quadProg, err := linkProgram(quadVertSrc, quadFragSrc)
	if err != nil {
		return nil, fmt.Errorf("quad program: %w", err)
	}
	spriteProg, err := linkProgram(spriteVertSrc, spriteFragSrc)
	if err != nil {
		gl.DeleteProgram(quadProg)
		return nil, fmt.Errorf("sprite program: %w", err)
	}
	glowProg, err := linkProgram(spriteVertSrc, glowFragSrc)
	if err != nil {
		gl.DeleteProgram(quadProg)
		gl.DeleteProgram(spriteProg)
		return nil, fmt.Errorf("glow program: %w", err)
	}

	r := &Renderer{quadProg: quadProg, spriteProg: spriteProg, glowProg: glowProg}

	// Quad VAO/VBO: streaming triangles, 6 floats per vertex (x, y, rgba).
	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, MaxQuadVerts*6*4, nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 6*4, glOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, 6*4, glOffset(2*4))

	gl.UseProgram(quadProg)
	r.qUCamera = gl.GetUniformLocation(quadProg, gl.Str("uCamera\x00"))
	r.qUZoom = gl.GetUniformLocation(quadProg, gl.Str("uZoom\x00"))
	r.qURes = gl.GetUniformLocation(quadProg, gl.Str("uResolution\x00"))

	// Sprite VAO/VBO: streaming point sprites, 7 floats (x, y, size, rgba).
	gl.GenVertexArrays(1, &r.spriteVAO)
	gl.GenBuffers(1, &r.spriteVBO)
	gl.BindVertexArray(r.spriteVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.spriteVBO)
	gl.BufferData(gl.ARRAY_BUFFER, MaxSpriteDraw*7*4, nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 7*4, glOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, 7*4, glOffset(2*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, 7*4, glOffset(3*4))

	gl.UseProgram(spriteProg)
	r.spUCamera = gl.GetUniformLocation(spriteProg, gl.Str("uCamera\x00"))
	r.spUZoom = gl.GetUniformLocation(spriteProg, gl.Str("uZoom\x00"))
	r.spURes = gl.GetUniformLocation(spriteProg, gl.Str("uResolution\x00"))

	gl.UseProgram(glowProg)
	r.glUCamera = gl.GetUniformLocation(glowProg, gl.Str("uCamera\x00"))
	r.glUZoom = gl.GetUniformLocation(glowProg, gl.Str("uZoom\x00"))
	r.glURes = gl.GetUniformLocation(glowProg, gl.Str("uResolution\x00"))

	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) Destroy() {
	for _, id := range []uint32{r.quadVBO, r.spriteVBO} {
		if id != 0 {
			gl.DeleteBuffers(1, &id)
		}
	}
	for _, id := range []uint32{r.quadVAO, r.spriteVAO} {
		if id != 0 {
			gl.DeleteVertexArrays(1, &id)
		}
	}
	for _, id := range []uint32{r.quadProg, r.spriteProg, r.glowProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
}

// BeginFrame clears to the sky colour for this frame's palette.
func (r *Renderer) BeginFrame(sky RGB, fbW, fbH int) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.ClearColor(float32(sky.R)/255, float32(sky.G)/255, float32(sky.B)/255, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// DrawQuads renders streamed triangles. buf: [x, y, r, g, b, a] per
// vertex. camX/camY/zoom map world to screen; pass the framebuffer
// centre with zoom 1 for screen-space (HUD) geometry.
func (r *Renderer) DrawQuads(buf []float32, camX, camY, zoom float64, fbW, fbH int) {
	if len(buf) == 0 {
		return
	}
	count := len(buf) / 6
	if count > MaxQuadVerts {
		count = MaxQuadVerts
	}
	gl.UseProgram(r.quadProg)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.Uniform2f(r.qUCamera, float32(camX), float32(camY))
	gl.Uniform1f(r.qUZoom, float32(zoom))
	gl.Uniform2f(r.qURes, float32(fbW), float32(fbH))
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.BufferData(gl.ARRAY_BUFFER, count*6*4, gl.Ptr(buf), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(count))
	gl.Disable(gl.BLEND)
}

// DrawSprites renders point sprites. buf: [x, y, size, r, g, b, a] per
// sprite, alpha blended.
func (r *Renderer) DrawSprites(buf []float32, camX, camY, zoom float64, fbW, fbH int) {
	r.drawPoints(r.spriteProg, r.spUCamera, r.spUZoom, r.spURes, buf, camX, camY, zoom, fbW, fbH, false)
}

// DrawGlow renders additive radial light sprites; RGB pre-multiplied by
// brightness.
func (r *Renderer) DrawGlow(buf []float32, camX, camY, zoom float64, fbW, fbH int) {
	r.drawPoints(r.glowProg, r.glUCamera, r.glUZoom, r.glURes, buf, camX, camY, zoom, fbW, fbH, true)
}

func (r *Renderer) drawPoints(prog uint32, uCam, uZoom, uRes int32, buf []float32, camX, camY, zoom float64, fbW, fbH int, additive bool) {
	if len(buf) == 0 {
		return
	}
	count := len(buf) / 7
	if count > MaxSpriteDraw {
		count = MaxSpriteDraw
	}
	gl.UseProgram(prog)
	gl.BindVertexArray(r.spriteVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.spriteVBO)
	gl.Uniform2f(uCam, float32(camX), float32(camY))
	gl.Uniform1f(uZoom, float32(zoom))
	gl.Uniform2f(uRes, float32(fbW), float32(fbH))
	gl.Enable(gl.BLEND)
	if additive {
		gl.BlendFunc(gl.ONE, gl.ONE)
	} else {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
	gl.BufferData(gl.ARRAY_BUFFER, count*7*4, gl.Ptr(buf), gl.STREAM_DRAW)
	gl.DrawArrays(gl.POINTS, 0, int32(count))
	gl.Disable(gl.BLEND)
}
