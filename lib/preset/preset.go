// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package preset loads named layout presets from JSONC files. A preset
// is a saved starting point for the viewer: a layout key, the channels
// for the first slots, and optional per-slot chat flags. Presets are
// authored by hand, so the file format is JSON extended with comments
// and trailing commas:
//
//	{
//	  "presets": {
//	    // Weekend tournament wall.
//	    "finals": {
//	      "description": "Both casters plus the two team POVs",
//	      "layout": "2x2",
//	      "channels": ["caster_a", "caster_b", "team_red", "team_blue"],
//	      "chat": [true, false, false, false],
//	    },
//	  },
//	}
//
// Applying a preset produces a tiles.State that the viewer restores
// through the tile store, so the usual clamping rules apply.
package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/streammesh/lib/layout"
	"github.com/bureau-foundation/streammesh/lib/tiles"
)

// Preset is one named starting layout.
type Preset struct {
	Name        string   `json:"-"`
	Description string   `json:"description,omitempty"`
	Layout      string   `json:"layout"`
	Channels    []string `json:"channels,omitempty"`

	// Count overrides the number of visible tiles. Zero means "as many
	// as there are channels", bounded by the layout.
	Count int `json:"count,omitempty"`

	// Chat holds per-slot chat flags. Slots past the end of Chat keep
	// chat shown.
	Chat []bool `json:"chat,omitempty"`
}

// File is the parsed content of a presets file.
type File struct {
	Presets map[string]Preset `json:"presets"`
}

// Parse strips JSONC comments and trailing commas from data, then
// unmarshals the result. Each preset's Name is filled from its map key.
func Parse(data []byte) (*File, error) {
	var file File
	if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
		return nil, fmt.Errorf("parsing presets: %w", err)
	}
	for name, preset := range file.Presets {
		preset.Name = name
		file.Presets[name] = preset
	}
	return &file, nil
}

// ReadFile reads and parses a JSONC presets file.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	file, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// NameFromPath strips the directory and extension from a preset file
// path: "presets/finals.jsonc" returns "finals".
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Names returns the preset names in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Presets))
	for name := range f.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named preset.
func (f *File) Lookup(name string) (Preset, bool) {
	preset, ok := f.Presets[name]
	return preset, ok
}

// Validate checks every preset against catalog and returns all
// problems joined.
func (f *File) Validate(catalog *layout.Catalog) error {
	var problems []error
	for _, name := range f.Names() {
		if err := f.Presets[name].Validate(catalog); err != nil {
			problems = append(problems, err)
		}
	}
	return errors.Join(problems...)
}

// Validate reports layout keys missing from catalog, more channels
// than tiles, and counts outside the layout's bounds.
func (p Preset) Validate(catalog *layout.Catalog) error {
	var problems []error
	if !catalog.Has(p.Layout) {
		problems = append(problems, fmt.Errorf("unknown layout %q (have %s)", p.Layout, strings.Join(catalog.Keys(), ", ")))
	}
	if len(p.Channels) > tiles.Count {
		problems = append(problems, fmt.Errorf("%d channels, at most %d allowed", len(p.Channels), tiles.Count))
	}
	if len(p.Chat) > tiles.Count {
		problems = append(problems, fmt.Errorf("%d chat flags, at most %d allowed", len(p.Chat), tiles.Count))
	}
	if p.Count != 0 && catalog.Has(p.Layout) {
		descriptor := catalog.Lookup(p.Layout)
		if p.Count < descriptor.MinTiles || p.Count > descriptor.MaxTiles {
			problems = append(problems, fmt.Errorf("count %d outside %d..%d for layout %s",
				p.Count, descriptor.MinTiles, descriptor.MaxTiles, p.Layout))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("preset %q: %w", p.Name, errors.Join(problems...))
}

// State converts the preset to tile state clamped to catalog. Channels
// past the ninth slot are dropped.
func (p Preset) State(catalog *layout.Catalog) tiles.State {
	state := tiles.Default()
	state.Layout = p.Layout
	for index := range min(len(p.Channels), tiles.Count) {
		state.Tiles[index].Channel = p.Channels[index]
	}
	for index := range min(len(p.Chat), tiles.Count) {
		state.Tiles[index].ShowChat = p.Chat[index]
	}
	state.ActiveCount = p.Count
	if state.ActiveCount == 0 {
		state.ActiveCount = len(p.Channels)
	}
	return state.Clamped(catalog)
}
