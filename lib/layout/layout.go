// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import "fmt"

// Kind distinguishes grid arrangements from single-column stacks.
type Kind int

const (
	// KindGrid places tiles in Rows × Cols cells.
	KindGrid Kind = iota
	// KindStacked places tiles in one column, one tile per row.
	KindStacked
)

func (k Kind) String() string {
	switch k {
	case KindGrid:
		return "grid"
	case KindStacked:
		return "stacked"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler so that JSON and YAML
// output carry "grid"/"stacked" instead of an integer.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// DefaultKey is the layout used when a key is absent or unknown.
const DefaultKey = "2x1"

// MaxTiles is the fixed slot capacity shared by every layout.
const MaxTiles = 9

// MaxStackedTiles caps how many tiles a stacked layout shows at once.
const MaxStackedTiles = 4

// Descriptor is one catalog entry. MinTiles <= MaxTiles always holds,
// and for KindGrid Rows*Cols >= MaxTiles.
type Descriptor struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
	MinTiles int    `json:"min_tiles"`
	MaxTiles int    `json:"max_tiles"`
	Kind     Kind   `json:"kind"`
}

// Clamp bounds count to [MinTiles, MaxTiles].
func (d Descriptor) Clamp(count int) int {
	if count < d.MinTiles {
		return d.MinTiles
	}
	if count > d.MaxTiles {
		return d.MaxTiles
	}
	return count
}

// Cells is the number of cells the layout renders, including empty ones.
func (d Descriptor) Cells() int {
	return d.Rows * d.Cols
}

// Catalog is an ordered, read-only set of descriptors.
type Catalog struct {
	name    string
	order   []string
	entries map[string]Descriptor
}

func newCatalog(name string, descriptors ...Descriptor) *Catalog {
	catalog := &Catalog{
		name:    name,
		entries: make(map[string]Descriptor, len(descriptors)),
	}
	for _, descriptor := range descriptors {
		catalog.order = append(catalog.order, descriptor.Key)
		catalog.entries[descriptor.Key] = descriptor
	}
	if _, ok := catalog.entries[DefaultKey]; !ok {
		panic(fmt.Sprintf("layout: catalog %q has no default key %q", name, DefaultKey))
	}
	return catalog
}

// Name identifies the catalog ("grid" or "stacked").
func (c *Catalog) Name() string { return c.name }

// Lookup returns the descriptor for key, or the DefaultKey descriptor
// when key is unknown.
func (c *Catalog) Lookup(key string) Descriptor {
	if descriptor, ok := c.entries[key]; ok {
		return descriptor
	}
	return c.entries[DefaultKey]
}

// Has reports whether key is a known layout.
func (c *Catalog) Has(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// Resolve returns key if it is known and DefaultKey otherwise.
func (c *Catalog) Resolve(key string) string {
	if c.Has(key) {
		return key
	}
	return DefaultKey
}

// Keys returns the layout keys in display order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return keys
}

// Descriptors returns every entry in display order.
func (c *Catalog) Descriptors() []Descriptor {
	descriptors := make([]Descriptor, 0, len(c.order))
	for _, key := range c.order {
		descriptors = append(descriptors, c.entries[key])
	}
	return descriptors
}

// gridEntries is the wide-screen table. Keys read cols×rows, matching
// the labels shown to the user.
var gridEntries = []Descriptor{
	{Key: "1x1", Label: "1×1", Rows: 1, Cols: 1, MinTiles: 1, MaxTiles: 1},
	{Key: "2x1", Label: "2×1", Rows: 1, Cols: 2, MinTiles: 2, MaxTiles: 2},
	{Key: "1x2", Label: "1×2", Rows: 2, Cols: 1, MinTiles: 2, MaxTiles: 2},
	{Key: "2x2", Label: "2×2", Rows: 2, Cols: 2, MinTiles: 2, MaxTiles: 4},
	{Key: "3x2", Label: "3×2", Rows: 2, Cols: 3, MinTiles: 2, MaxTiles: 6},
	{Key: "2x3", Label: "2×3", Rows: 3, Cols: 2, MinTiles: 2, MaxTiles: 6},
	{Key: "3x3", Label: "3×3", Rows: 3, Cols: 3, MinTiles: 2, MaxTiles: 9},
}

// Grid is the wide-screen catalog. Share links are always encoded
// against its bounds.
var Grid = newCatalog("grid", gridEntries...)

// Stacked is the narrow-screen catalog: the grid keys rearranged into a
// single column and capped at MaxStackedTiles.
var Stacked = newCatalog("stacked", stackedEntries()...)

func stackedEntries() []Descriptor {
	entries := make([]Descriptor, 0, len(gridEntries))
	for _, grid := range gridEntries {
		maxTiles := min(grid.MaxTiles, MaxStackedTiles)
		entries = append(entries, Descriptor{
			Key:      grid.Key,
			Label:    grid.Label,
			Rows:     maxTiles,
			Cols:     1,
			MinTiles: min(grid.MinTiles, maxTiles),
			MaxTiles: maxTiles,
			Kind:     KindStacked,
		})
	}
	return entries
}

// DefaultBreakpoint is the viewport width (CSS pixels or terminal
// columns, whichever the caller measures) below which the stacked
// catalog is used.
const DefaultBreakpoint = 768

// ForWidth returns Stacked when width is below breakpoint and Grid
// otherwise. A non-positive breakpoint disables stacking.
func ForWidth(width, breakpoint int) *Catalog {
	return ForCompact(breakpoint > 0 && width < breakpoint)
}

// ForCompact returns Stacked for compact presentation and Grid otherwise.
func ForCompact(compact bool) *Catalog {
	if compact {
		return Stacked
	}
	return Grid
}
