// Package audio synthesises the snap sound and plays it through ebiten.
package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SampleRate is shared by synthesis and the ebiten audio context.
const SampleRate = 44100

const (
	snapDuration = 90 * time.Millisecond
	snapAttack   = 2 * time.Millisecond
	snapRelease  = 70 * time.Millisecond
	clickLength  = 12 * time.Millisecond
)

type wave int

const (
	waveSine wave = iota
	waveNoise
)

// oscillator generates a raw wave for a fixed number of samples.
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     wave
	rate     beep.SampleRate
	rng      *rand.Rand
}

func newOscillator(freq float64, d time.Duration, w wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(d),
		wave:     w,
		rate:     rate,
		rng:      rand.New(rand.NewSource(1)), // #nosec G404 -- audio noise
	}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}
		var v float64
		switch o.wave {
		case waveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case waveNoise:
			v = o.rng.Float64()*2 - 1
		}
		samples[i][0], samples[i][1] = v, v
		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		vol := 1.0
		if e.position < e.attack && e.attack > 0 {
			vol = float64(e.position) / float64(e.attack)
		}
		if start := e.total - e.release; e.position >= start && e.release > 0 {
			vol = math.Max(0, float64(e.total-e.position)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

// SnapSound is a short wooden click with a bright tone on top.
func SnapSound(gain float64) beep.Streamer {
	rate := beep.SampleRate(SampleRate)
	tone := newEnvelope(newOscillator(1320, snapDuration, waveSine, rate), snapDuration, snapAttack, snapRelease, rate)
	click := newEnvelope(newOscillator(0, clickLength, waveNoise, rate), clickLength, 0, clickLength, rate)
	return volume(beep.Mix(volume(tone, 0.6), volume(click, 0.4)), gain)
}

// Render drains s into 16-bit little-endian stereo PCM.
func Render(s beep.Streamer) []byte {
	var out []byte
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			for _, ch := range smp {
				v := int16(math.Max(-1, math.Min(1, ch)) * math.MaxInt16)
				out = append(out, byte(v), byte(v>>8))
			}
		}
		if !ok || n == 0 {
			return out
		}
	}
}
