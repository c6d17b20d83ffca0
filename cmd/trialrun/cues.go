package main

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/milk9111/roomtrials/trial"
)

const sampleRate = beep.SampleRate(44100)

// cuePlayer plays short synthesized tones for phase changes and outcomes.
// It is inert until Init succeeds.
type cuePlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func newCuePlayer() *cuePlayer {
	return &cuePlayer{mixer: &beep.Mixer{}}
}

func (c *cuePlayer) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

func (c *cuePlayer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	c.initialized = false
}

// Phase plays the cue for entering p.
func (c *cuePlayer) Phase(p trial.Phase) {
	switch p {
	case trial.PhaseGoWaiting:
		c.tone(660, 120*time.Millisecond)
	case trial.PhaseWaitingDone:
		c.tone(880, 120*time.Millisecond)
	}
}

// Outcome plays a rising chime on success and a low buzz on failure.
func (c *cuePlayer) Outcome(o trial.Outcome) {
	if o.Success {
		c.play(beep.Seq(
			beep.Take(sampleRate.N(120*time.Millisecond), newTone(sampleRate, 523.25)),
			beep.Take(sampleRate.N(120*time.Millisecond), newTone(sampleRate, 659.25)),
			beep.Take(sampleRate.N(240*time.Millisecond), newTone(sampleRate, 783.99)),
		))
		return
	}
	c.tone(180, 250*time.Millisecond)
}

func (c *cuePlayer) tone(freq float64, d time.Duration) {
	c.play(beep.Take(sampleRate.N(d), newTone(sampleRate, freq)))
}

func (c *cuePlayer) play(s beep.Streamer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

// toneGenerator is a sine wave with a short attack so cues do not click.
type toneGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

func newTone(sr beep.SampleRate, freq float64) *toneGenerator {
	return &toneGenerator{sr: sr, freq: freq}
}

func (g *toneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	attack := float64(g.sr.N(10 * time.Millisecond))
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		env := math.Min(float64(g.pos)/attack, 1)
		v := 0.2 * env * math.Sin(2*math.Pi*g.freq*t)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *toneGenerator) Err() error { return nil }
