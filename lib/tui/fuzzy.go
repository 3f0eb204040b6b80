// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"sync"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching one pattern against one text.
// Score is zero when the pattern does not match. Positions holds the
// rune indexes of the matched characters in the text.
type FuzzyResult struct {
	Score     int
	Positions []int
}

var fuzzyInitOnce sync.Once

// FuzzyMatch scores text against pattern using fzf's V2 algorithm.
// Matching is case-insensitive: both sides are lowercased before the
// comparison. An empty pattern never matches. The slab may be nil; a
// caller matching many candidates in a loop should pass one from
// NewFuzzySlab to avoid per-call allocation.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 || text == "" {
		return FuzzyResult{}
	}
	fuzzyInitOnce.Do(func() { algo.Init("default") })

	lowered := make([]rune, len(pattern))
	for index, r := range pattern {
		lowered[index] = unicode.ToLower(r)
	}
	chars := util.ToChars([]byte(strings.ToLower(text)))

	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Start < 0 || result.Score <= 0 {
		return FuzzyResult{}
	}
	matched := FuzzyResult{Score: result.Score}
	if positions != nil {
		matched.Positions = append([]int(nil), (*positions)...)
	}
	return matched
}

// NewFuzzySlab allocates a scratch buffer for repeated FuzzyMatch
// calls. Not safe for concurrent use.
func NewFuzzySlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}
