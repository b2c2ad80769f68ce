package load

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/tidwall/gjson"
)

// Decode converts an untyped payload into T by json field name
// Every field of T must be present in the payload
func Decode[T any](value any) (T, error) {
	return decode[T](value, true)
}

// DecodeLoose converts an untyped payload into T, leaving absent fields at their zero value
func DecodeLoose[T any](value any) (T, error) {
	return decode[T](value, false)
}

func decode[T any](value any, strict bool) (T, error) {
	var out T
	into := reflect.TypeFor[T]().String()

	if value == nil {
		return out, &ConversionError{Value: value, IntoType: into, Err: errors.New("payload is null")}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		ErrorUnset: strict,
		DecodeHook: mapstructure.DecodeHookFuncType(integralHook),
		Result:     &out,
	})
	if err != nil {
		return out, &ConversionError{Value: value, IntoType: into, Err: err}
	}

	if err := dec.Decode(value); err != nil {
		var zero T
		return zero, &ConversionError{Value: value, IntoType: into, Err: err}
	}
	return out, nil
}

// Encode renders a typed value into the same untyped shape ReadEnvelope produces
func Encode(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return gjson.ParseBytes(data).Value(), nil
}

// integralHook rejects JSON numbers that would be truncated or wrapped by an integer field
func integralHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	f, ok := data.(float64)
	if !ok {
		return data, nil
	}

	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("%v is not an integer", f)
		}
		if f < math.MinInt64 || f > math.MaxInt64 || reflect.New(to).Elem().OverflowInt(int64(f)) {
			return nil, fmt.Errorf("%v overflows %s", f, to)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if f != math.Trunc(f) || f < 0 {
			return nil, fmt.Errorf("%v is not an unsigned integer", f)
		}
		if f > math.MaxUint64 || reflect.New(to).Elem().OverflowUint(uint64(f)) {
			return nil, fmt.Errorf("%v overflows %s", f, to)
		}
	}
	return data, nil
}
