package audio

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"

	"github.com/lixenwraith/scenery/load"
)

const resampleQuality = 4

// LoadClip decodes a WAV file into a buffer at SampleRate
func LoadClip(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &load.FileError{Path: path, Err: err}
	}

	stream, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, &load.FileError{Path: path, Err: err}
	}
	defer stream.Close()

	var src beep.Streamer = stream
	if format.SampleRate != SampleRate {
		src = beep.Resample(resampleQuality, format.SampleRate, SampleRate, stream)
	}

	buf := beep.NewBuffer(Format)
	buf.Append(src)
	if err := stream.Err(); err != nil {
		return nil, &load.FileError{Path: path, Err: err}
	}
	return buf, nil
}

// ToneClip synthesizes a sine tone of the given frequency and duration
func ToneClip(freq float64, duration time.Duration) (*beep.Buffer, error) {
	if duration <= 0 {
		return nil, errors.New("tone duration must be positive")
	}
	sine, err := generators.SineTone(SampleRate, freq)
	if err != nil {
		return nil, fmt.Errorf("tone %.1fHz: %w", freq, err)
	}

	buf := beep.NewBuffer(Format)
	buf.Append(beep.Take(SampleRate.N(duration), sine))
	return buf, nil
}
