package kotoba

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCharPropertyTableDefaultFallback(t *testing.T) {
	cp := DefaultCharPropertyTable()

	// A scalar with no explicit entry anywhere in the table (e.g. a Hangul
	// syllable) must still resolve to DEFAULT alone.
	bits := cp.Categories(0xAC00) // HANGUL SYLLABLE GA
	require.True(t, bits.Has(CategoryDefault))

	require.True(t, cp.Param(CategoryDefault).Invoke, "DEFAULT must always be invokable")
}

func TestCharPropertyTableCategories(t *testing.T) {
	cp := DefaultCharPropertyTable()

	require.True(t, cp.Categories('a').Has(CategoryAlpha))
	require.True(t, cp.Categories('5').Has(CategoryNumeric))
	require.True(t, cp.Categories(' ').Has(CategorySpace))
	require.True(t, cp.Categories(0x3042).Has(CategoryHiragana)) // あ
	require.True(t, cp.Categories(0x30A2).Has(CategoryKatakana)) // ア
	require.True(t, cp.Categories(0x6F22).Has(CategoryKanji))    // 漢
}

func TestCategoryBits(t *testing.T) {
	var b CategoryBits
	b = b.with(CategoryKanji)
	b = b.with(CategoryNumeric)
	require.True(t, b.Has(CategoryKanji))
	require.True(t, b.Has(CategoryNumeric))
	require.False(t, b.Has(CategoryAlpha))
}
