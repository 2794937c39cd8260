package game

import (
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)
)

const sfxVolume = 0.6

// Audio synthesizes every effect procedurally, without assets. It
// implements AudioSink; an Audio that failed to initialize (or was
// never initialized, since audio needs a user gesture on some
// platforms) is permanently inert and every call is a no-op.
type Audio struct {
	ctx   *oto.Context
	ready chan struct{}

	// Last reported flow multiplier as millis, read by the clear blip
	// to pitch itself. Atomic: players run on their own goroutines.
	flowMilli atomic.Int64
}

// NewAudio returns an inert sink; call Init to bring up the device.
func NewAudio() *Audio {
	a := &Audio{}
	a.flowMilli.Store(int64(FlowMin * 1000))
	return a
}

// Init opens the audio context. On failure the Audio stays inert and
// the error is returned for logging only; the game continues without
// sound.
func (a *Audio) Init() error {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		return err
	}
	a.ctx = ctx
	a.ready = ready
	return nil
}

func (a *Audio) usable() bool {
	if a == nil || a.ctx == nil {
		return false
	}
	select {
	case <-a.ready:
		return true
	default:
		return false
	}
}

// FlowLevel records the continuous flow multiplier for pitch scaling.
func (a *Audio) FlowLevel(flow float64) {
	if a == nil {
		return
	}
	a.flowMilli.Store(int64(clampF(flow, FlowMin, FlowMax) * 1000))
}

// ObstacleCleared plays a short blip whose pitch rises with flow.
func (a *Audio) ObstacleCleared() {
	if !a.usable() {
		return
	}
	flow := float64(a.flowMilli.Load()) / 1000
	a.play(genBlip(flow))
}

// RunFailed plays a falling two-tone sting.
func (a *Audio) RunFailed() {
	if !a.usable() {
		return
	}
	a.play(genFail())
}

// MenuSelect plays the run-start chirp.
func (a *Audio) MenuSelect() {
	if !a.usable() {
		return
	}
	a.play(genSelect())
}

func (a *Audio) play(samples []byte) {
	if len(samples) == 0 {
		return
	}
	go func() {
		player := a.ctx.NewPlayer(&soundReader{data: samples})
		player.SetVolume(sfxVolume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}

type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both channels.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[i*8] = byte(v)
	buf[i*8+1] = byte(v >> 8)
	buf[i*8+2] = byte(v >> 16)
	buf[i*8+3] = byte(v >> 24)
	buf[i*8+4] = byte(v)
	buf[i*8+5] = byte(v >> 8)
	buf[i*8+6] = byte(v >> 16)
	buf[i*8+7] = byte(v >> 24)
}

// adsr returns an envelope at normalized progress [0,1].
// attack/decay/release are fractions of the total duration.
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		return 1.0 - (progress-attack)/decay*(1.0-sustain)
	case progress < 1.0-release:
		return sustain
	default:
		return sustain * (1.0 - (progress-(1.0-release))/release)
	}
}

// fm returns an FM-synthesized sample.
func fm(t, carrier, modRatio, modIdx float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * modRatio * t)
	return math.Sin(2*math.Pi*carrier*t + modIdx*mod)
}

func makeBuf(n int) []byte { return make([]byte, n*8) }

// genBlip: bright tap-cleared pip. Base 520 Hz, scaled up to ~1.5x as
// the flow multiplier climbs; clearing while flowing sounds sharper.
func genBlip(flow float64) []byte {
	dur := 0.09
	n := int(dur * SampleRate)
	buf := makeBuf(n)
	freq := 520.0 * (1 + 0.25*(flow-FlowMin))
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.05, 0.25, 0.5, 0.5)
		s := fm(t, freq, 2.0, 1.2+p*2) * env * 0.7
		putStereoF32(buf, i, s)
	}
	return buf
}

// genFail: falling minor third, then a low thud.
func genFail() []byte {
	dur := 0.8
	n := int(dur * SampleRate)
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		freq := 330.0 - 160.0*p
		env := adsr(p, 0.02, 0.2, 0.6, 0.4)
		s := fm(t, freq, 0.5, 2.5) * env * 0.6
		if p > 0.55 {
			tp := (p - 0.55) / 0.45
			s += math.Sin(2*math.Pi*62*t) * (1 - tp) * 0.5
		}
		putStereoF32(buf, i, s)
	}
	return buf
}

// genSelect: quick rising chirp on run start.
func genSelect() []byte {
	dur := 0.16
	n := int(dur * SampleRate)
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		freq := 380.0 + 320.0*p
		env := adsr(p, 0.1, 0.3, 0.5, 0.4)
		putStereoF32(buf, i, math.Sin(2*math.Pi*freq*t)*env*0.6)
	}
	return buf
}
