package kotoba

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnknownWordHandlerGroupedCategory(t *testing.T) {
	h := NewUnknownWordHandler([]UnkEntry{
		{Category: CategoryAlpha, Param: WordParam{LeftID: 1, RightID: 1, WordCost: 100}},
	})
	cp := DefaultCharPropertyTable()
	scalars := []rune("abc!")
	dedup := newDedupSet(8)

	cands := h.Generate(cp, scalars, 0, false, 0, dedup, nil)
	// ALPHA is group=true, length=1: one grouped candidate spanning the
	// whole run (3) plus one length-1 candidate.
	require.Len(t, cands, 2)
	lens := map[int]bool{}
	for _, c := range cands {
		lens[c.RunLen] = true
	}
	require.True(t, lens[3])
	require.True(t, lens[1])
}

func TestUnknownWordHandlerInvokeFalseSkippedWhenMatched(t *testing.T) {
	h := NewUnknownWordHandler([]UnkEntry{
		{Category: CategoryKanji, Param: WordParam{LeftID: 1, RightID: 1, WordCost: 100}},
	})
	cp := DefaultCharPropertyTable()
	scalars := []rune("漢字")
	dedup := newDedupSet(8)

	cands := h.Generate(cp, scalars, 0, true, 0, dedup, nil)
	require.Empty(t, cands, "KANJI has invoke=false; a lexicon match must suppress unknown generation")

	cands = h.Generate(cp, scalars, 0, false, 0, dedup, nil)
	require.NotEmpty(t, cands, "without a lexicon match, invoke=false categories must still fire")
}

func TestUnknownWordHandlerMaxGroupingLenOverride(t *testing.T) {
	h := NewUnknownWordHandler([]UnkEntry{
		{Category: CategoryAlpha, Param: WordParam{LeftID: 1, RightID: 1, WordCost: 1}},
	})
	cp := DefaultCharPropertyTable()
	scalars := []rune("abcdef")
	dedup := newDedupSet(8)

	cands := h.Generate(cp, scalars, 0, false, 2, dedup, nil)
	var maxLen int
	for _, c := range cands {
		if c.RunLen > maxLen {
			maxLen = c.RunLen
		}
	}
	require.LessOrEqual(t, maxLen, 2)
}

func TestUnknownWordHandlerRepeatedGenerateDoesNotLeakDedupState(t *testing.T) {
	// Repeated Generate calls on the same handler and dedup set must give
	// the same candidates: Generate resets the set on every call.
	h := NewUnknownWordHandler([]UnkEntry{
		{Category: CategoryNumeric, Param: WordParam{LeftID: 1, RightID: 1, WordCost: 1}},
	})
	cp := DefaultCharPropertyTable()
	scalars := []rune("123")
	dedup := newDedupSet(8)

	first := h.Generate(cp, scalars, 0, false, 0, dedup, nil)
	second := h.Generate(cp, scalars, 0, false, 0, dedup, nil)
	require.Equal(t, len(first), len(second))
}
