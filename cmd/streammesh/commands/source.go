// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/bureau-foundation/streammesh/cmd/streammesh/cli"
	"github.com/bureau-foundation/streammesh/lib/codec"
	"github.com/bureau-foundation/streammesh/lib/config"
	"github.com/bureau-foundation/streammesh/lib/embed"
	"github.com/bureau-foundation/streammesh/lib/layout"
	"github.com/bureau-foundation/streammesh/lib/preset"
	"github.com/bureau-foundation/streammesh/lib/sharelink"
	"github.com/bureau-foundation/streammesh/lib/tiles"
)

// ConfigParams selects the configuration file. The params types shared
// between commands are exported because BindFlags cannot set fields
// reached through an unexported embedded struct.
type ConfigParams struct {
	ConfigPath string `json:"-" flag:"config" desc:"config file (default: $STREAMMESH_CONFIG, else built-in defaults)"`
}

// load resolves and validates the configuration.
func (p ConfigParams) load() (*config.Config, error) {
	cfg, err := config.Resolve(p.ConfigPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &cli.ToolError{Category: cli.CategoryNotFound, Err: err}
		}
		return nil, &cli.ToolError{Category: cli.CategoryValidation, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid config: %w", err)
	}
	return cfg, nil
}

// parentHost is the configured embed parent, derived from the base URL
// when unset.
func parentHost(cfg *config.Config) string {
	if cfg.ParentHost != "" {
		return cfg.ParentHost
	}
	return embed.ParentHost(cfg.BaseURL)
}

// SourceParams describe a tile state. Sources apply in order: the
// --url share link, the preset, --layout, the positional channel names,
// and last --count and --chat.
type SourceParams struct {
	URL        string `json:"url"         flag:"url"         desc:"start from an existing share link"`
	PresetFile string `json:"preset_file" flag:"preset"      desc:"JSONC presets file"`
	PresetName string `json:"preset_name" flag:"preset-name" desc:"preset to apply (default: the file's base name, or its only preset)"`
	Layout     string `json:"layout"      flag:"layout"      desc:"layout key, e.g. 2x2 (see 'streammesh layouts')"`
	Count      int    `json:"count"       flag:"count"       desc:"number of visible tiles (default: number of channels)"`
	Chat       string `json:"chat"        flag:"chat"        desc:"chat mask, one 0 or 1 per slot, e.g. 1010"`
}

// state builds the tile state described by the params and channels.
// The result is clamped against the grid catalog.
func (p SourceParams) state(channels []string) (tiles.State, error) {
	state := tiles.Default()
	if p.URL != "" {
		state = sharelink.Decode(p.URL)
	}

	if p.PresetFile != "" {
		chosen, err := p.preset()
		if err != nil {
			return tiles.State{}, err
		}
		state = chosen.State(layout.Grid)
	}

	if p.Layout != "" {
		if !layout.Grid.Has(p.Layout) {
			return tiles.State{}, cli.Validation("unknown layout %q (have %s)", p.Layout, strings.Join(layout.Grid.Keys(), ", "))
		}
		state.Layout = p.Layout
		state.ActiveCount = layout.Grid.Lookup(p.Layout).MaxTiles
	}

	if len(channels) > tiles.Count {
		return tiles.State{}, cli.Validation("%d channels given, at most %d fit", len(channels), tiles.Count)
	}
	if len(channels) > 0 {
		for index := range state.Tiles {
			state.Tiles[index].Channel = ""
		}
		for index, name := range channels {
			state.Tiles[index].Channel = name
		}
		state.ActiveCount = len(channels)
	}

	if p.Count != 0 {
		if p.Count < 0 || p.Count > tiles.Count {
			return tiles.State{}, cli.Validation("--count %d outside 1..%d", p.Count, tiles.Count)
		}
		state.ActiveCount = p.Count
	}

	if p.Chat != "" {
		if err := applyChatMask(&state, p.Chat); err != nil {
			return tiles.State{}, err
		}
	}

	return state.Clamped(layout.Grid), nil
}

// preset loads the selected preset from PresetFile.
func (p SourceParams) preset() (preset.Preset, error) {
	file, err := preset.ReadFile(p.PresetFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return preset.Preset{}, &cli.ToolError{Category: cli.CategoryNotFound, Err: err}
		}
		return preset.Preset{}, &cli.ToolError{Category: cli.CategoryValidation, Err: err}
	}

	name := p.PresetName
	if name == "" {
		name = preset.NameFromPath(p.PresetFile)
		if _, ok := file.Lookup(name); !ok && len(file.Presets) == 1 {
			name = file.Names()[0]
		}
	}
	chosen, ok := file.Lookup(name)
	if !ok {
		return preset.Preset{}, cli.NotFound("preset %q not in %s (have %s)", name, p.PresetFile, strings.Join(file.Names(), ", "))
	}
	if err := chosen.Validate(layout.Grid); err != nil {
		return preset.Preset{}, cli.Validation("%s: %w", p.PresetFile, err)
	}
	return chosen, nil
}

// applyChatMask sets ShowChat from a mask of '0' and '1'. Slots past
// the end of the mask keep their current flag.
func applyChatMask(state *tiles.State, mask string) error {
	if len(mask) > tiles.Count {
		return cli.Validation("--chat mask %q longer than %d slots", mask, tiles.Count)
	}
	for index, flag := range mask {
		switch flag {
		case '0':
			state.Tiles[index].ShowChat = false
		case '1':
			state.Tiles[index].ShowChat = true
		default:
			return cli.Validation("--chat mask %q: want only 0 and 1", mask)
		}
	}
	return nil
}

// stateReport is the JSON form of a tile state shared by share and
// decode.
type stateReport struct {
	Layout      string                 `json:"layout"`
	Label       string                 `json:"label"`
	ActiveCount int                    `json:"active_count"`
	MaxTiles    int                    `json:"max_tiles"`
	Tiles       []tiles.Tile           `json:"tiles"`
	Visible     []tiles.VisibleChannel `json:"visible"`
	Chat        string                 `json:"chat"`
	Fingerprint string                 `json:"fingerprint"`
}

func newStateReport(state tiles.State) (stateReport, error) {
	descriptor := layout.Grid.Lookup(state.Layout)
	fingerprint, err := codec.Fingerprint(codec.DomainLayoutState, state)
	if err != nil {
		return stateReport{}, cli.Internal("fingerprinting state: %w", err)
	}
	return stateReport{
		Layout:      descriptor.Key,
		Label:       descriptor.Label,
		ActiveCount: state.ActiveCount,
		MaxTiles:    descriptor.MaxTiles,
		Tiles:       state.Tiles[:],
		Visible:     state.Visible(),
		Chat:        state.ChatMask(),
		Fingerprint: fingerprint,
	}, nil
}

// writeStateText prints a state as a short human-readable block.
func writeStateText(w io.Writer, state tiles.State) {
	descriptor := layout.Grid.Lookup(state.Layout)
	fmt.Fprintf(w, "Layout: %s (%s)\n", descriptor.Key, descriptor.Label)
	fmt.Fprintf(w, "Tiles:  %d/%d\n", state.ActiveCount, descriptor.MaxTiles)
	for index, tile := range state.Tiles[:state.ActiveCount] {
		name := strings.TrimSpace(tile.Channel)
		if name == "" {
			name = "(empty)"
		}
		chat := "chat off"
		if tile.ShowChat {
			chat = "chat on"
		}
		fmt.Fprintf(w, "  #%d  %-24s %s\n", index+1, name, chat)
	}
}
