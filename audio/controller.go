package audio

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const (
	SampleRate = beep.SampleRate(48000)

	// Silence threshold for linear gain
	minGain = 1e-3
)

// Format is the buffer format every clip is stored in
var Format = beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}

// Controller is the shared audio singleton: named clips played through one mixer
// Every operation is safe before Start; playback is dropped until the speaker runs
type Controller struct {
	mu      sync.Mutex
	clips   map[string]*beep.Buffer
	mixer   *beep.Mixer
	volume  float64
	muted   bool
	started bool
}

// NewController creates a controller with a linear master volume in [0, 1]
func NewController(volume float64) *Controller {
	return &Controller{
		clips:  make(map[string]*beep.Buffer),
		mixer:  &beep.Mixer{},
		volume: clampGain(volume),
	}
}

// Start initializes the speaker and begins draining the mixer
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Millisecond*100)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(c.mixer)
	c.started = true
	return nil
}

// Stop drops every playing stream
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.started = false
}

// SetMuted toggles output without touching the master volume
func (c *Controller) SetMuted(muted bool) {
	c.mu.Lock()
	c.muted = muted
	c.mu.Unlock()
}

// Volume returns the linear master volume
func (c *Controller) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

// AddClip registers or replaces a named clip
func (c *Controller) AddClip(name string, clip *beep.Buffer) {
	c.mu.Lock()
	c.clips[name] = clip
	c.mu.Unlock()
}

// Clip looks up a clip by name
func (c *Controller) Clip(name string) (*beep.Buffer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	clip, ok := c.clips[name]
	return clip, ok
}

// LoadOrGet returns the named clip, decoding it from path and caching it when absent
func (c *Controller) LoadOrGet(name, path string) (*beep.Buffer, error) {
	if clip, ok := c.Clip(name); ok {
		return clip, nil
	}
	clip, err := LoadClip(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.clips[name]; ok {
		return existing, nil
	}
	c.clips[name] = clip
	return clip, nil
}

// Names returns the clip names in sorted order
func (c *Controller) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.clips))
	for n := range c.clips {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Play queues the named clip at a linear volume scaled by the master volume
func (c *Controller) Play(name string, volume float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	clip, ok := c.clips[name]
	if !ok {
		return fmt.Errorf("unknown clip %q", name)
	}
	c.play(clip, volume)
	return nil
}

// PlayClip queues a clip that may not be registered by name
func (c *Controller) PlayClip(clip *beep.Buffer, volume float64) error {
	if clip == nil {
		return errors.New("nil clip")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.play(clip, volume)
	return nil
}

// play requires c.mu
func (c *Controller) play(clip *beep.Buffer, volume float64) {
	if !c.started || c.muted {
		return
	}

	gain := clampGain(volume) * c.volume
	stream := &effects.Volume{
		Streamer: clip.Streamer(0, clip.Len()),
		Base:     2,
		Volume:   math.Log2(math.Max(gain, minGain)),
		Silent:   gain < minGain,
	}

	speaker.Lock()
	c.mixer.Add(stream)
	speaker.Unlock()
}

// Playing returns the number of streams in the mixer
func (c *Controller) Playing() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mixer.Len()
}

func clampGain(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
