package audio

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/lixenwraith/scenery/ctxlog"
	"github.com/lixenwraith/scenery/load"
)

const ControllerID = "audio_controller"

// clipSpec names either a WAV file or a synthesized tone
type clipSpec struct {
	Path       string  `json:"path"`
	Tone       float64 `json:"tone"`
	DurationMS int     `json:"duration_ms"`
}

type controllerFile struct {
	Volume *float64            `json:"volume"`
	Clips  map[string]clipSpec `json:"clips"`
}

// ControllerLoader reads an audio_controller file and builds every clip it lists
type ControllerLoader struct {
	path  string
	paths load.Paths
}

// NewControllerLoader prepares a loader for the file at path
func NewControllerLoader(path string, paths load.Paths) *ControllerLoader {
	return &ControllerLoader{path: path, paths: paths}
}

// Load builds the controller; the speaker is not started
func (l *ControllerLoader) Load(ctx context.Context) (*Controller, error) {
	log := ctxlog.FromContext(ctx)

	env, err := load.ReadEnvelope(l.path)
	if err != nil {
		return nil, err
	}
	if err := load.CheckID(ControllerID, env); err != nil {
		return nil, &load.FileError{Path: l.path, Err: err}
	}
	file, err := load.DecodeLoose[controllerFile](env.ActualValue)
	if err != nil {
		return nil, &load.FileError{Path: l.path, Err: err}
	}

	volume := 1.0
	if file.Volume != nil {
		volume = *file.Volume
	}
	ctrl := NewController(volume)

	names := make([]string, 0, len(file.Clips))
	for n := range file.Clips {
		names = append(names, n)
	}
	slices.Sort(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := l.loadClip(ctrl, name, file.Clips[name]); err != nil {
			return nil, fmt.Errorf("clip %q: %w", name, err)
		}
		log.Debug("clip loaded", "name", name)
	}

	log.Info("audio controller loaded", "clips", len(names), "volume", ctrl.Volume())
	return ctrl, nil
}

func (l *ControllerLoader) loadClip(ctrl *Controller, name string, spec clipSpec) error {
	switch {
	case spec.Path != "" && spec.Tone != 0:
		return errors.New("clip sets both path and tone")
	case spec.Path != "":
		clip, err := LoadClip(l.paths.Resolve(spec.Path))
		if err != nil {
			return err
		}
		ctrl.AddClip(name, clip)
	case spec.Tone > 0:
		clip, err := ToneClip(spec.Tone, time.Duration(spec.DurationMS)*time.Millisecond)
		if err != nil {
			return err
		}
		ctrl.AddClip(name, clip)
	default:
		return errors.New("clip needs a path or a positive tone")
	}
	return nil
}
