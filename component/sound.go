package component

import (
	"errors"
	"fmt"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/scenery/audio"
	"github.com/lixenwraith/scenery/engine"
	"github.com/lixenwraith/scenery/load"
	"github.com/lixenwraith/scenery/render"
)

const SoundID = "sound"

type soundJSON struct {
	Clip   string   `json:"clip"`
	Path   string   `json:"path"`
	Volume *float64 `json:"volume"`
}

// SoundComponent is a clip an entity plays on demand
// A nil Buffer is looked up by Clip in the audio controller
type SoundComponent struct {
	Clip   string
	Buffer *beep.Buffer
	Volume float64
}

func validateSound(j soundJSON) error {
	if j.Clip == "" {
		return errors.New("clip is empty")
	}
	if j.Volume != nil && (*j.Volume < 0 || *j.Volume > 1) {
		return fmt.Errorf("volume %v outside 0..1", *j.Volume)
	}
	return nil
}

// SoundLoader resolves its clip through the shared audio controller at attach time
type SoundLoader struct {
	payload *cached[soundJSON]
}

// NewSoundLoader validates a sound envelope
func NewSoundLoader(env load.Envelope) (Loader, error) {
	payload, err := newCachedLoose(SoundID, env, validateSound)
	if err != nil {
		return nil, err
	}
	return &SoundLoader{payload: payload}, nil
}

// Attach uses the controller's clip when one is published, else decodes path
// With neither, the clip is left to be resolved by name at playback
func (l *SoundLoader) Attach(eb *engine.EntityBuilder, w *engine.World, _ render.Window) (*engine.EntityBuilder, error) {
	j := l.payload.get()
	paths, _ := engine.GetResource[load.Paths](w.Resources)

	var (
		buf *beep.Buffer
		err error
	)
	if ctrl, ok := engine.GetResource[*audio.Controller](w.Resources); ok {
		ref := j.Path
		if ref == "" {
			ref = j.Clip
		}
		buf, err = ctrl.LoadOrGet(j.Clip, paths.Resolve(ref))
	} else if j.Path != "" {
		buf, err = audio.LoadClip(paths.Resolve(j.Path))
	}
	if err != nil {
		return eb, fmt.Errorf("sound clip %q: %w", j.Clip, err)
	}

	volume := 1.0
	if j.Volume != nil {
		volume = *j.Volume
	}
	eb = engine.With(eb, SoundComponent{Clip: j.Clip, Buffer: buf, Volume: volume})
	return eb, eb.Err()
}

func (l *SoundLoader) Update(env load.Envelope) error {
	return l.payload.update(env)
}

func (l *SoundLoader) Envelope() load.Envelope {
	return l.payload.envelope()
}

func (l *SoundLoader) Name() string {
	return "Sound"
}
