package job

import (
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// DecodeJobPosting converts the structured payload returned by the model
// into a validated JobPosting. Field names follow the json tags, so the wire
// contract and the JSON representation stay identical.
func DecodeJobPosting(data map[string]any) (*JobPosting, error) {
	var posting JobPosting

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &posting,
		TagName:    "json",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(decodeDateHook, decodeIntHook),
	})
	if err != nil {
		return nil, fmt.Errorf("building decoder: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return nil, err
	}

	posting.applyDefaults()

	if err := posting.Validate(); err != nil {
		return nil, err
	}

	return &posting, nil
}

var dateType = reflect.TypeOf(Date{})

func decodeDateHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != dateType || from.Kind() != reflect.String {
		return data, nil
	}
	return ParseDate(data.(string))
}

// decodeIntHook accepts whole JSON numbers for integer fields. The model
// payload arrives as map[string]any, where every number is a float64.
func decodeIntHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Int || from.Kind() != reflect.Float64 {
		return data, nil
	}
	f := data.(float64)
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("expected an integer, got %v", f)
	}
	return int(f), nil
}
