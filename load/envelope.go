package load

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Envelope pairs a load type id with an untyped payload
// The payload shape only means something once matched against a loader declaring the same id
type Envelope struct {
	LoadTypeID  string `json:"load_type_id"`
	ActualValue any    `json:"actual_value"`
}

// New wraps a payload under the given load type id
func New(loadTypeID string, value any) Envelope {
	return Envelope{LoadTypeID: loadTypeID, ActualValue: value}
}

// Patch returns a new envelope whose payload has the field at path replaced
// Path uses dotted gjson/sjson syntax, e.g. "number" or "content.0"
// The receiver is left untouched
func (e Envelope) Patch(path string, value any) (Envelope, error) {
	raw := []byte("{}")
	if e.ActualValue != nil {
		var err error
		if raw, err = json.Marshal(e.ActualValue); err != nil {
			return Envelope{}, fmt.Errorf("encode payload of %s: %w", e.LoadTypeID, err)
		}
	}

	patched, err := sjson.SetBytes(raw, path, value)
	if err != nil {
		return Envelope{}, fmt.Errorf("patch %s of %s: %w", path, e.LoadTypeID, err)
	}

	return Envelope{
		LoadTypeID:  e.LoadTypeID,
		ActualValue: gjson.ParseBytes(patched).Value(),
	}, nil
}

// String renders the envelope as compact JSON for diagnostics
func (e Envelope) String() string {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf("{%s %v}", e.LoadTypeID, e.ActualValue)
	}
	return string(data)
}

// CheckID fails with IDMismatchError unless env carries the expected id
func CheckID(expected string, env Envelope) error {
	if env.LoadTypeID != expected {
		return &IDMismatchError{Expected: expected, Actual: env.LoadTypeID}
	}
	return nil
}
