// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sharelink converts viewer state to and from a shareable URL.
//
// The query string carries four parameters, always in this order:
//
//	layout   catalog key
//	streams  comma-joined trimmed channel names (omitted when empty)
//	count    active tile count, clamped to the grid catalog
//	chat     nine '0'/'1' characters, one per slot
//
// Encoding always clamps against [layout.Grid], never the stacked
// catalog, so a link made on a narrow screen opens identically on a
// wide one.
//
// Decoding never fails. Missing or malformed parameters resolve to
// documented defaults. The chat parameter is deliberately asymmetric:
// absent means every slot shows chat, while present-but-short is padded
// with '0'. That keeps "all chat hidden" distinguishable from "no
// preference".
package sharelink

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/bureau-foundation/streammesh/lib/layout"
	"github.com/bureau-foundation/streammesh/lib/tiles"
)

// Query parameter names.
const (
	ParamLayout  = "layout"
	ParamStreams = "streams"
	ParamCount   = "count"
	ParamChat    = "chat"
)

// Encode returns base's origin and path followed by the query string for
// state. base may be a full URL; its query and fragment are dropped. An
// unparseable base is used verbatim as the prefix.
func Encode(base string, state tiles.State) string {
	return baseOf(base) + "?" + EncodeQuery(state)
}

// EncodeQuery returns only the query string (without '?') for state.
// An unknown layout is written as the default key, so layout and count
// always come from the same catalog entry.
func EncodeQuery(state tiles.State) string {
	descriptor := layout.Grid.Lookup(state.Layout)
	count := descriptor.Clamp(state.ActiveCount)

	// Only the slots that will be visible after decoding contribute
	// channels. Channels parked beyond count would otherwise shift
	// into view once empties are compacted.
	var streams []string
	for _, tile := range state.Tiles[:count] {
		if name := strings.TrimSpace(tile.Channel); name != "" {
			streams = append(streams, name)
		}
	}

	var builder strings.Builder
	writeParam(&builder, ParamLayout, descriptor.Key)
	if len(streams) > 0 {
		writeParam(&builder, ParamStreams, strings.Join(streams, ","))
	}
	writeParam(&builder, ParamCount, strconv.Itoa(count))
	writeParam(&builder, ParamChat, state.ChatMask())
	return builder.String()
}

func writeParam(builder *strings.Builder, name, value string) {
	if builder.Len() > 0 {
		builder.WriteByte('&')
	}
	builder.WriteString(url.QueryEscape(name))
	builder.WriteByte('=')
	builder.WriteString(url.QueryEscape(value))
}

// baseOf strips query and fragment from raw, keeping scheme, host, and
// path.
func baseOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		if index := strings.IndexAny(raw, "?#"); index >= 0 {
			return raw[:index]
		}
		return raw
	}
	parsed.RawQuery = ""
	parsed.ForceQuery = false
	parsed.Fragment = ""
	parsed.RawFragment = ""
	return parsed.String()
}

// Decode restores state from a URL. Only the query component matters;
// a bare query string ("layout=2x2&count=3") is also accepted. Decode
// never fails: anything it cannot parse falls back to defaults.
func Decode(raw string) tiles.State {
	query := raw
	if index := strings.IndexByte(raw, '?'); index >= 0 {
		query = raw[index+1:]
	}
	if index := strings.IndexByte(query, '#'); index >= 0 {
		query = query[:index]
	}
	values, _ := url.ParseQuery(query) // partial results are still usable
	return DecodeQuery(values)
}

// DecodeQuery restores state from already-parsed query values.
func DecodeQuery(values url.Values) tiles.State {
	state := tiles.Default()

	descriptor := layout.Grid.Lookup(values.Get(ParamLayout))
	state.Layout = descriptor.Key
	state.ActiveCount = decodeCount(values, descriptor)

	slot := 0
	for _, entry := range strings.Split(values.Get(ParamStreams), ",") {
		name := strings.TrimSpace(entry)
		if name == "" {
			continue
		}
		if slot >= tiles.Count {
			break
		}
		state.Tiles[slot].Channel = name
		slot++
	}

	if values.Has(ParamChat) {
		mask := values.Get(ParamChat)
		for index := range state.Tiles {
			state.Tiles[index].ShowChat = index < len(mask) && mask[index] == '1'
		}
	}

	return state
}

func decodeCount(values url.Values, descriptor layout.Descriptor) int {
	if !values.Has(ParamCount) {
		return descriptor.MinTiles
	}
	raw := strings.TrimSpace(values.Get(ParamCount))
	if raw == "" {
		// An empty number parses as zero, which clamps to the minimum.
		return descriptor.MinTiles
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return descriptor.MinTiles
	}
	clamped := math.Min(math.Max(parsed, float64(descriptor.MinTiles)), float64(descriptor.MaxTiles))
	return int(math.Trunc(clamped))
}
