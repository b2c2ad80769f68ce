package load

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// ReadEnvelope reads a file holding exactly one envelope
func ReadEnvelope(path string) (Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Envelope{}, &FileError{Path: path, Err: err}
	}

	env, err := ParseEnvelope(data)
	if err != nil {
		return Envelope{}, &FileError{Path: path, Err: err}
	}
	return env, nil
}

// ReadEnvelopeList reads a file holding an ordered array of envelopes
func ReadEnvelopeList(path string) ([]Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}

	envs, err := ParseEnvelopeList(data)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	return envs, nil
}

// ParseEnvelope decodes one envelope from raw JSON
func ParseEnvelope(data []byte) (Envelope, error) {
	if !gjson.ValidBytes(data) {
		return Envelope{}, fmt.Errorf("%w: invalid json", ErrMalformedEnvelope)
	}
	return envelopeFrom(gjson.ParseBytes(data))
}

// ParseEnvelopeList decodes an array of envelopes, preserving order
func ParseEnvelopeList(data []byte) ([]Envelope, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedEnvelope)
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected an array of envelopes, got %s", ErrMalformedEnvelope, root.Type)
	}

	items := root.Array()
	envs := make([]Envelope, 0, len(items))
	for i, item := range items {
		env, err := envelopeFrom(item)
		if err != nil {
			return nil, fmt.Errorf("envelope %d: %w", i, err)
		}
		envs = append(envs, env)
	}
	return envs, nil
}

func envelopeFrom(r gjson.Result) (Envelope, error) {
	if !r.IsObject() {
		return Envelope{}, fmt.Errorf("%w: expected an object, got %s", ErrMalformedEnvelope, r.Type)
	}

	id := r.Get("load_type_id")
	if id.Type != gjson.String {
		return Envelope{}, fmt.Errorf("%w: load_type_id missing or not a string", ErrMalformedEnvelope)
	}

	value := r.Get("actual_value")
	if !value.Exists() {
		return Envelope{}, fmt.Errorf("%w: %s has no actual_value", ErrMalformedEnvelope, id.String())
	}

	return Envelope{LoadTypeID: id.String(), ActualValue: value.Value()}, nil
}
