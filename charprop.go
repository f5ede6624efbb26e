package kotoba

// CharCategory names one of the char.def-style character categories a
// Unicode scalar can belong to. A scalar may belong to several categories at
// once (e.g. a kanji digit is both KANJI and NUMERIC); DEFAULT is always a
// legal member and is the only category guaranteed to have Invoke=true in a
// well-formed dictionary (see Dictionary.Validate).
type CharCategory uint8

const (
	CategoryDefault CharCategory = iota
	CategorySpace
	CategoryKanji
	CategorySymbol
	CategoryNumeric
	CategoryAlpha
	CategoryHiragana
	CategoryKatakana
	CategoryKanjiNumeric
	CategoryGreek
	CategoryCyrillic
	numCategories
)

func (c CharCategory) String() string {
	switch c {
	case CategoryDefault:
		return "DEFAULT"
	case CategorySpace:
		return "SPACE"
	case CategoryKanji:
		return "KANJI"
	case CategorySymbol:
		return "SYMBOL"
	case CategoryNumeric:
		return "NUMERIC"
	case CategoryAlpha:
		return "ALPHA"
	case CategoryHiragana:
		return "HIRAGANA"
	case CategoryKatakana:
		return "KATAKANA"
	case CategoryKanjiNumeric:
		return "KANJINUMERIC"
	case CategoryGreek:
		return "GREEK"
	case CategoryCyrillic:
		return "CYRILLIC"
	default:
		return "UNKNOWN"
	}
}

// CategoryBits is a bitmap of CharCategory membership for one scalar.
type CategoryBits uint32

// Has reports whether c is a member of the bitmap.
func (b CategoryBits) Has(c CharCategory) bool { return b&(1<<uint(c)) != 0 }

func (b CategoryBits) with(c CharCategory) CategoryBits { return b | (1 << uint(c)) }

// CategoryParam is the per-category {invoke, group, length} triple that
// drives unknown-word generation (spec §4.4).
type CategoryParam struct {
	// Invoke, when true, means the unknown-word handler runs for scalars in
	// this category even when a lexicon hit already starts at the same
	// position.
	Invoke bool
	// Group, when true, means the whole run of consecutive scalars of this
	// category also yields one grouped candidate surface.
	Group bool
	// Length is the longest of the candidates of 1..Length scalars emitted in
	// addition to any grouped one; 0 means lengths up to the whole run.
	Length uint16
}

// CharPropertyTable maps Unicode scalars to a CharCategory bitmap and each
// category to its unknown-word generation parameters. Scalars below the
// table's dense limit are resolved via a flat array; scalars at or above it
// fall back to a sparse map. A scalar with no explicit entry anywhere always
// resolves to the DEFAULT category alone, which is what makes every possible
// byte sequence — including invalid UTF-8 — classifiable.
type CharPropertyTable struct {
	dense  []CategoryBits
	sparse map[rune]CategoryBits
	params [numCategories]CategoryParam
}

// NewCharPropertyTable builds a CharPropertyTable from already-decoded
// components, as a dictionary loader (FromBytes) or an embedder
// (FromInner) would construct one.
func NewCharPropertyTable(dense []CategoryBits, sparse map[rune]CategoryBits, params [numCategories]CategoryParam) *CharPropertyTable {
	if sparse == nil {
		sparse = map[rune]CategoryBits{}
	}
	return &CharPropertyTable{dense: dense, sparse: sparse, params: params}
}

func newMutableCharPropertyTable(denseLimit int, params [numCategories]CategoryParam) *CharPropertyTable {
	return &CharPropertyTable{
		dense:  make([]CategoryBits, denseLimit),
		sparse: map[rune]CategoryBits{},
		params: params,
	}
}

func (t *CharPropertyTable) set(r rune, cats ...CharCategory) {
	if r < 0 {
		return
	}
	var b CategoryBits
	dense := int(r) < len(t.dense)
	if dense {
		b = t.dense[r]
	} else {
		b = t.sparse[r]
	}
	for _, c := range cats {
		b = b.with(c)
	}
	if dense {
		t.dense[r] = b
	} else {
		t.sparse[r] = b
	}
}

func (t *CharPropertyTable) setRange(lo, hi rune, cats ...CharCategory) {
	for r := lo; r <= hi; r++ {
		t.set(r, cats...)
	}
}

// Categories returns the category bitmap for r. A scalar with no explicit
// entry resolves to DEFAULT alone.
func (t *CharPropertyTable) Categories(r rune) CategoryBits {
	var b CategoryBits
	switch {
	case r < 0:
		b = 0
	case int(r) < len(t.dense):
		b = t.dense[r]
	default:
		b = t.sparse[r]
	}
	if b == 0 {
		return CategoryBits(0).with(CategoryDefault)
	}
	return b
}

// Param returns the unknown-word generation parameters for c.
func (t *CharPropertyTable) Param(c CharCategory) CategoryParam { return t.params[c] }

// defaultDenseLimit must cover the CJK Unified Ideographs block
// (0x4E00-0x9FFF) set below, since Kanji is the dominant category in real
// Japanese input and every scalar lookup during lattice building and
// unknown-word generation goes through this table.
const defaultDenseLimit = 0xA000

// DefaultCharPropertyTable builds a char.def-equivalent table covering
// ASCII, full-width Latin, Hiragana, Katakana, common CJK punctuation,
// Greek, Cyrillic and the main CJK Unified Ideographs block — enough to
// exercise every category's unknown-word behavior without requiring an
// externally compiled dictionary image.
func DefaultCharPropertyTable() *CharPropertyTable {
	params := [numCategories]CategoryParam{
		CategoryDefault:      {Invoke: true, Group: true, Length: 0},
		CategorySpace:        {Invoke: true, Group: true, Length: 0},
		CategoryKanji:        {Invoke: false, Group: false, Length: 2},
		CategorySymbol:       {Invoke: true, Group: true, Length: 1},
		CategoryNumeric:      {Invoke: true, Group: true, Length: 1},
		CategoryAlpha:        {Invoke: true, Group: true, Length: 1},
		CategoryHiragana:     {Invoke: false, Group: false, Length: 2},
		CategoryKatakana:     {Invoke: true, Group: true, Length: 1},
		CategoryKanjiNumeric: {Invoke: false, Group: false, Length: 1},
		CategoryGreek:        {Invoke: true, Group: true, Length: 1},
		CategoryCyrillic:     {Invoke: true, Group: true, Length: 1},
	}
	t := newMutableCharPropertyTable(defaultDenseLimit, params)
	t.setRange(0x0009, 0x000D, CategorySpace)
	t.set(0x0020, CategorySpace)
	t.set(0x3000, CategorySpace)
	t.setRange(0x0030, 0x0039, CategoryNumeric)
	t.setRange(0xFF10, 0xFF19, CategoryNumeric)
	t.setRange(0x0041, 0x005A, CategoryAlpha)
	t.setRange(0x0061, 0x007A, CategoryAlpha)
	t.setRange(0xFF21, 0xFF3A, CategoryAlpha)
	t.setRange(0xFF41, 0xFF5A, CategoryAlpha)
	t.setRange(0x3041, 0x309F, CategoryHiragana)
	t.setRange(0x30A0, 0x30FF, CategoryKatakana)
	t.setRange(0x0391, 0x03A9, CategoryGreek)
	t.setRange(0x03B1, 0x03C9, CategoryGreek)
	t.setRange(0x0410, 0x044F, CategoryCyrillic)
	for _, r := range []rune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~。、・「」『』【】〜") {
		t.set(r, CategorySymbol)
	}
	t.setRange(0x4E00, 0x9FFF, CategoryKanji)
	t.set(0x3005, CategoryKanji)
	return t
}
