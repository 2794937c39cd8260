package game

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

func (c RGB) Mul(k uint8) RGB {
	return RGB{
		R: uint8((uint16(c.R) * uint16(k)) / 255),
		G: uint8((uint16(c.G) * uint16(k)) / 255),
		B: uint8((uint16(c.B) * uint16(k)) / 255),
	}
}

func lerpRGB(a, b RGB, t float64) RGB {
	return RGB{R: lerpU8(a.R, b.R, t), G: lerpU8(a.G, b.G, t), B: lerpU8(a.B, b.B, t)}
}

// ScenePalette is the colour set handed to renderers each frame. It
// shifts with the flow multiplier: dull at flow 1, saturated at flow 3.
type ScenePalette struct {
	Sky        RGB
	Ridge      [3]RGB // parallax decoration shades
	Ground     RGB
	GroundDeep RGB
	GapMark    RGB
	Agent      RGB
	Leader     RGB
	Wall       RGB
	Barrier    RGB
	Platform   RGB
	Tension    RGB
	HUD        RGB
}

var paletteCalm = ScenePalette{
	Sky:        RGB{38, 44, 58},
	Ridge:      [3]RGB{{52, 58, 74}, {62, 70, 88}, {72, 82, 100}},
	Ground:     RGB{86, 110, 72},
	GroundDeep: RGB{56, 72, 48},
	GapMark:    RGB{24, 26, 30},
	Agent:      RGB{196, 186, 160},
	Leader:     RGB{232, 170, 86},
	Wall:       RGB{140, 96, 78},
	Barrier:    RGB{170, 70, 64},
	Platform:   RGB{96, 120, 152},
	Tension:    RGB{220, 80, 60},
	HUD:        RGB{200, 204, 212},
}

var paletteFlowing = ScenePalette{
	Sky:        RGB{46, 66, 96},
	Ridge:      [3]RGB{{62, 86, 120}, {76, 104, 140}, {92, 124, 160}},
	Ground:     RGB{104, 150, 84},
	GroundDeep: RGB{66, 100, 56},
	GapMark:    RGB{22, 28, 36},
	Agent:      RGB{230, 222, 196},
	Leader:     RGB{255, 198, 100},
	Wall:       RGB{166, 116, 92},
	Barrier:    RGB{210, 86, 76},
	Platform:   RGB{118, 152, 198},
	Tension:    RGB{255, 96, 70},
	HUD:        RGB{236, 240, 246},
}

// paletteContrast is the display-preference variant: near-black
// backdrop, saturated foreground, no flow shifting.
var paletteContrast = ScenePalette{
	Sky:        RGB{0, 0, 0},
	Ridge:      [3]RGB{{40, 40, 40}, {60, 60, 60}, {80, 80, 80}},
	Ground:     RGB{0, 200, 0},
	GroundDeep: RGB{0, 110, 0},
	GapMark:    RGB{30, 30, 30},
	Agent:      RGB{255, 255, 255},
	Leader:     RGB{255, 220, 0},
	Wall:       RGB{255, 140, 0},
	Barrier:    RGB{255, 40, 40},
	Platform:   RGB{0, 170, 255},
	Tension:    RGB{255, 0, 0},
	HUD:        RGB{255, 255, 255},
}

// PaletteFor blends calm and flowing palettes by the flow multiplier.
func PaletteFor(flow float64, contrast bool) ScenePalette {
	if contrast {
		return paletteContrast
	}
	t := clampF((flow-FlowMin)/(FlowMax-FlowMin), 0, 1)
	p := ScenePalette{
		Sky:        lerpRGB(paletteCalm.Sky, paletteFlowing.Sky, t),
		Ground:     lerpRGB(paletteCalm.Ground, paletteFlowing.Ground, t),
		GroundDeep: lerpRGB(paletteCalm.GroundDeep, paletteFlowing.GroundDeep, t),
		GapMark:    lerpRGB(paletteCalm.GapMark, paletteFlowing.GapMark, t),
		Agent:      lerpRGB(paletteCalm.Agent, paletteFlowing.Agent, t),
		Leader:     lerpRGB(paletteCalm.Leader, paletteFlowing.Leader, t),
		Wall:       lerpRGB(paletteCalm.Wall, paletteFlowing.Wall, t),
		Barrier:    lerpRGB(paletteCalm.Barrier, paletteFlowing.Barrier, t),
		Platform:   lerpRGB(paletteCalm.Platform, paletteFlowing.Platform, t),
		Tension:    lerpRGB(paletteCalm.Tension, paletteFlowing.Tension, t),
		HUD:        lerpRGB(paletteCalm.HUD, paletteFlowing.HUD, t),
	}
	for i := range p.Ridge {
		p.Ridge[i] = lerpRGB(paletteCalm.Ridge[i], paletteFlowing.Ridge[i], t)
	}
	return p
}
