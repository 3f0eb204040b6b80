// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import "testing"

func TestLookupUnknownKeyFallsBackToDefault(t *testing.T) {
	for _, catalog := range []*Catalog{Grid, Stacked} {
		for _, key := range []string{"", "4x4", "garbage", "2X2"} {
			got := catalog.Lookup(key)
			if got.Key != DefaultKey {
				t.Errorf("%s.Lookup(%q).Key = %q, want %q", catalog.Name(), key, got.Key, DefaultKey)
			}
		}
	}
}

func TestCatalogInvariants(t *testing.T) {
	for _, catalog := range []*Catalog{Grid, Stacked} {
		for _, descriptor := range catalog.Descriptors() {
			if descriptor.MinTiles > descriptor.MaxTiles {
				t.Errorf("%s %s: MinTiles %d > MaxTiles %d",
					catalog.Name(), descriptor.Key, descriptor.MinTiles, descriptor.MaxTiles)
			}
			if descriptor.MaxTiles > MaxTiles {
				t.Errorf("%s %s: MaxTiles %d exceeds slot capacity %d",
					catalog.Name(), descriptor.Key, descriptor.MaxTiles, MaxTiles)
			}
			if descriptor.Kind == KindGrid && descriptor.Cells() < descriptor.MaxTiles {
				t.Errorf("%s %s: %d cells cannot hold %d tiles",
					catalog.Name(), descriptor.Key, descriptor.Cells(), descriptor.MaxTiles)
			}
		}
	}
}

func TestCatalogsShareKeys(t *testing.T) {
	gridKeys := Grid.Keys()
	stackedKeys := Stacked.Keys()
	if len(gridKeys) != len(stackedKeys) {
		t.Fatalf("grid has %d keys, stacked has %d", len(gridKeys), len(stackedKeys))
	}
	for index := range gridKeys {
		if gridKeys[index] != stackedKeys[index] {
			t.Errorf("key %d: grid %q, stacked %q", index, gridKeys[index], stackedKeys[index])
		}
	}
}

func TestStackedIsSingleColumn(t *testing.T) {
	for _, descriptor := range Stacked.Descriptors() {
		if descriptor.Cols != 1 {
			t.Errorf("%s: Cols = %d, want 1", descriptor.Key, descriptor.Cols)
		}
		if descriptor.Kind != KindStacked {
			t.Errorf("%s: Kind = %v, want stacked", descriptor.Key, descriptor.Kind)
		}
		if descriptor.MaxTiles > MaxStackedTiles {
			t.Errorf("%s: MaxTiles = %d, want <= %d", descriptor.Key, descriptor.MaxTiles, MaxStackedTiles)
		}
	}
	if got := Stacked.Lookup("3x3").MaxTiles; got != MaxStackedTiles {
		t.Errorf("Stacked 3x3 MaxTiles = %d, want %d", got, MaxStackedTiles)
	}
}

func TestGridBounds(t *testing.T) {
	tests := []struct {
		key      string
		rows     int
		cols     int
		minTiles int
		maxTiles int
	}{
		{"1x1", 1, 1, 1, 1},
		{"2x1", 1, 2, 2, 2},
		{"1x2", 2, 1, 2, 2},
		{"2x2", 2, 2, 2, 4},
		{"3x2", 2, 3, 2, 6},
		{"2x3", 3, 2, 2, 6},
		{"3x3", 3, 3, 2, 9},
	}
	for _, tt := range tests {
		got := Grid.Lookup(tt.key)
		if got.Rows != tt.rows || got.Cols != tt.cols || got.MinTiles != tt.minTiles || got.MaxTiles != tt.maxTiles {
			t.Errorf("Grid.Lookup(%q) = %+v, want rows=%d cols=%d min=%d max=%d",
				tt.key, got, tt.rows, tt.cols, tt.minTiles, tt.maxTiles)
		}
	}
}

func TestClamp(t *testing.T) {
	descriptor := Grid.Lookup("2x2")
	tests := []struct{ in, want int }{
		{-5, 2}, {0, 2}, {2, 2}, {3, 3}, {4, 4}, {9, 4},
	}
	for _, tt := range tests {
		if got := descriptor.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestForWidth(t *testing.T) {
	tests := []struct {
		width      int
		breakpoint int
		want       *Catalog
	}{
		{320, DefaultBreakpoint, Stacked},
		{767, DefaultBreakpoint, Stacked},
		{768, DefaultBreakpoint, Grid},
		{1920, DefaultBreakpoint, Grid},
		{10, 0, Grid},
	}
	for _, tt := range tests {
		if got := ForWidth(tt.width, tt.breakpoint); got != tt.want {
			t.Errorf("ForWidth(%d, %d) = %s, want %s", tt.width, tt.breakpoint, got.Name(), tt.want.Name())
		}
	}
}

func TestResolve(t *testing.T) {
	if got := Grid.Resolve("3x2"); got != "3x2" {
		t.Errorf("Resolve(3x2) = %q", got)
	}
	if got := Grid.Resolve("nope"); got != DefaultKey {
		t.Errorf("Resolve(nope) = %q, want %q", got, DefaultKey)
	}
}

func TestSolve(t *testing.T) {
	tests := []struct {
		count int
		want  GridSize
	}{
		{-1, GridSize{1, 1}},
		{0, GridSize{1, 1}},
		{1, GridSize{1, 1}},
		{2, GridSize{1, 2}},
		{3, GridSize{2, 2}},
		{4, GridSize{2, 2}},
		{5, GridSize{2, 3}},
		{6, GridSize{2, 3}},
		{7, GridSize{3, 3}},
		{9, GridSize{3, 3}},
		{10, GridSize{3, 4}},
		{12, GridSize{3, 4}},
		{13, GridSize{4, 4}},
		{16, GridSize{4, 4}},
		{20, GridSize{4, 4}},
	}
	for _, tt := range tests {
		if got := Solve(tt.count); got != tt.want {
			t.Errorf("Solve(%d) = %dx%d, want %dx%d", tt.count, got.Rows, got.Cols, tt.want.Rows, tt.want.Cols)
		}
	}
}

func TestSolveNeverExceedsCap(t *testing.T) {
	for count := 0; count <= 64; count++ {
		if cells := Solve(count).Cells(); cells > MaxMultiviewChannels {
			t.Fatalf("Solve(%d) has %d cells, cap is %d", count, cells, MaxMultiviewChannels)
		}
	}
}
