package domain

import (
	"fmt"
	"reflect"

	"github.com/aretw0/blueprint/pkg/normalize"
	"github.com/mitchellh/mapstructure"
)

// DecodeClientContext turns a loosely typed record (database row, YAML map,
// JSON body) into a ClientContext with defaults applied.
// Unknown columns are ignored; type mismatches are a ValidationError.
func DecodeClientContext(raw map[string]any) (ClientContext, error) {
	var c ClientContext
	if err := decode(raw, &c); err != nil {
		return ClientContext{}, &ValidationError{Key: "client", Reason: err.Error(), Value: raw["client_id"]}
	}
	c = c.WithDefaults()
	if c.ClientID == "" {
		return ClientContext{}, &ValidationError{Key: "client_id", Reason: "required"}
	}
	return c, nil
}

// DecodeExercise turns a loosely typed catalog row into a validated Exercise.
func DecodeExercise(raw map[string]any) (Exercise, error) {
	var e Exercise
	if err := decode(raw, &e); err != nil {
		return Exercise{}, &ValidationError{Key: "exercise", Reason: err.Error(), Value: raw["id"]}
	}
	if err := e.Validate(); err != nil {
		return Exercise{}, err
	}
	return e, nil
}

// DecodePreferences decodes a preference update payload.
func DecodePreferences(raw map[string]any) (Preferences, error) {
	var p Preferences
	if err := decode(raw, &p); err != nil {
		return Preferences{}, &ValidationError{Key: "preferences", Reason: err.Error()}
	}
	return p, p.Validate()
}

func decode(raw map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			enumHook,
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	return dec.Decode(raw)
}

var (
	levelType     = reflect.TypeOf(Level(""))
	intensityType = reflect.TypeOf(Intensity(""))
	fatigueType   = reflect.TypeOf(FatigueProfile(""))
)

// enumHook canonicalizes enum spellings. Unknown values pass through
// unchanged so validation can name them.
func enumHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	s, ok := data.(string)
	if !ok || from.Kind() != reflect.String {
		return data, nil
	}
	switch to {
	case levelType:
		if l, err := ParseLevel(s); err == nil {
			return l, nil
		}
	case intensityType:
		if i, err := ParseIntensity(s); err == nil {
			return i, nil
		}
	case fatigueType:
		return FatigueProfile(normalize.Token(s)), nil
	}
	return data, nil
}
