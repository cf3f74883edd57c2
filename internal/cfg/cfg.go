// Package cfg provides generic map-to-struct config decoding, shared by
// transportcfg for the free-form proxy/route override tables a TOML file
// can carry alongside its typed fields.
package cfg

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// Setter lets a decoded config apply its own defaults after the mapstructure
// pass fills in whatever the input provided.
type Setter interface {
	ApplyDefaults()
}

// Decode decodes input into c via mapstructure, then calls ApplyDefaults if
// c implements Setter.
func Decode(input map[string]any, c any) error {
	decoderConfig := &mapstructure.DecoderConfig{
		Result:  c,
		TagName: "mapstructure",
	}
	decoder, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return err
	}
	if err := decoder.Decode(input); err != nil {
		return err
	}
	if s, ok := c.(Setter); ok {
		s.ApplyDefaults()
	}
	return nil
}

// DecodeWithUnused behaves like Decode but also returns the sorted list of
// input keys that matched no field in c.
func DecodeWithUnused(input map[string]any, c any) ([]string, error) {
	var md mapstructure.Metadata
	decoderConfig := &mapstructure.DecoderConfig{
		Metadata: &md,
		Result:   c,
		TagName:  "mapstructure",
	}
	decoder, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(input); err != nil {
		return nil, err
	}
	if s, ok := c.(Setter); ok {
		s.ApplyDefaults()
	}
	unused := md.Unused
	sort.Strings(unused)
	return unused, nil
}

// MustDecodeStrict decodes input into c and fails if any key went unused.
func MustDecodeStrict(input map[string]any, c any) error {
	unused, err := DecodeWithUnused(input, c)
	if err != nil {
		return err
	}
	if len(unused) > 0 {
		return fmt.Errorf("cfg: unused config keys: %v", unused)
	}
	return nil
}
