package load

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedEnvelope is returned when a file does not hold a well-formed envelope
var ErrMalformedEnvelope = errors.New("malformed load envelope")

// IDMismatchError reports an envelope handed to a consumer expecting a different tag
type IDMismatchError struct {
	Expected string
	Actual   string
}

func (e *IDMismatchError) Error() string {
	return fmt.Sprintf("load id mismatch: expected %q, got %q", e.Expected, e.Actual)
}

// UnknownIDError reports a tag no registry entry accepts
type UnknownIDError struct {
	ID    string
	Known []string
}

func (e *UnknownIDError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown load type id %q: registry is empty", e.ID)
	}
	return fmt.Sprintf("unknown load type id %q, expected one of: %s", e.ID, strings.Join(e.Known, ", "))
}

// ConversionError reports a matched payload that failed to decode into its target type
type ConversionError struct {
	Value    any
	IntoType string
	Err      error
}

func (e *ConversionError) Error() string {
	rendered, err := json.Marshal(e.Value)
	if err != nil {
		rendered = []byte(fmt.Sprintf("%v", e.Value))
	}
	return fmt.Sprintf("cannot convert %s into %s: %v", rendered, e.IntoType, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ResourceAccessError reports a shared resource that could not be acquired
type ResourceAccessError struct {
	Resource string
	Err      error
}

func (e *ResourceAccessError) Error() string {
	return fmt.Sprintf("cannot access %s: %v", e.Resource, e.Err)
}

func (e *ResourceAccessError) Unwrap() error { return e.Err }

// FileError names the asset file a load failure originated from
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }
