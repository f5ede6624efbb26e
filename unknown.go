package kotoba

// maxGrouping is the hard cap on how many consecutive same-category scalars
// UnknownWordHandler.Generate will ever fold into one candidate run, applied
// before TokenizerOption.MaxGroupingLen narrows it further. It matches the
// Tokenizer's own hard upper bound on max_grouping_len (values >= 64 are
// rejected at construction), so a caller can never configure a run longer
// than the handler is prepared to scan.
const maxGrouping = 63

// UnkEntry is one unknown-word template: the cost/context parameters and
// feature string instantiated for every synthesized candidate of its
// category.
type UnkEntry struct {
	Category   CharCategory
	Param      WordParam
	FeatureRef FeatureRef
}

// UnknownWordHandler synthesizes lattice candidates for scalar runs that
// either have no lexicon hit, or whose category demands unknown-word
// candidates regardless (CategoryParam.Invoke). Entries live in one flat
// table so a synthesized candidate's entry index can serve directly as a
// WordIdx.ID, the same way Lexicon word IDs do.
type UnknownWordHandler struct {
	entries    []UnkEntry
	byCategory [numCategories][]uint32 // indices into entries
}

// NewUnknownWordHandler assembles a handler from a flat entry list.
func NewUnknownWordHandler(entries []UnkEntry) *UnknownWordHandler {
	h := &UnknownWordHandler{entries: entries}
	for i, e := range entries {
		h.byCategory[e.Category] = append(h.byCategory[e.Category], uint32(i))
	}
	return h
}

// HasCategory reports whether cat has at least one registered entry.
func (h *UnknownWordHandler) HasCategory(cat CharCategory) bool {
	return len(h.byCategory[cat]) > 0
}

// Entry returns the UnkEntry a WordIdx of type LexUnknown refers to.
func (h *UnknownWordHandler) Entry(id uint32) UnkEntry { return h.entries[id] }

// FeatureRef returns the location of idx's feature string. idx.Type must be
// LexUnknown.
func (h *UnknownWordHandler) FeatureRef(idx WordIdx) FeatureRef {
	return h.entries[idx.ID].FeatureRef
}

// UnkCandidate is one synthesized candidate: a run length in scalars and
// the flat entry index it instantiates.
type UnkCandidate struct {
	RunLen  int
	EntryID uint32
}

// Generate appends to dst one UnkCandidate per (length, entry) pair implied
// by the category rules at scalars[pos], per the char.def-compatible
// algorithm: for every category c0 belongs to whose invoke flag is set (or
// whose invoke flag is clear but the position had no lexicon hit), scan the
// run of consecutive scalars sharing that category (capped at maxGrouping,
// and at optMaxLen when it is positive), emit one grouped candidate spanning
// that whole run if the category groups, then emit one candidate per length
// 1..min(effectiveLength, runLen) where effectiveLength is optMaxLen if
// positive, else the category's own Length (the whole run when Length is 0),
// each instantiated once per registered entry for that category. dedup
// suppresses a repeated (length, entry) pair, which occurs when the grouped
// candidate has the same length as one of the per-length candidates.
func (h *UnknownWordHandler) Generate(chars *CharPropertyTable, scalars []rune, pos int, matchedByLexicon bool, optMaxLen int, dedup *dedupSet, dst []UnkCandidate) []UnkCandidate {
	if pos >= len(scalars) {
		return dst
	}
	c0 := scalars[pos]
	bits := chars.Categories(c0)
	dedup.Reset()
	for cat := CharCategory(0); cat < numCategories; cat++ {
		if !bits.Has(cat) {
			continue
		}
		param := chars.Param(cat)
		if !param.Invoke && matchedByLexicon {
			continue
		}
		ids := h.byCategory[cat]
		if len(ids) == 0 {
			continue
		}
		runLen := runLength(chars, scalars, pos, cat)
		if runLen > maxGrouping {
			runLen = maxGrouping
		}
		if optMaxLen > 0 && runLen > optMaxLen {
			runLen = optMaxLen
		}
		effLen := runLen // Length == 0 means "no fixed cap beyond the run itself"
		if optMaxLen > 0 {
			effLen = optMaxLen
		} else if param.Length > 0 {
			effLen = int(param.Length)
		}
		maxLen := effLen
		if maxLen > runLen {
			maxLen = runLen
		}

		emit := func(length int, id uint32) {
			key := uint64(length)<<32 | uint64(id)
			if dedup.Add(key) {
				dst = append(dst, UnkCandidate{RunLen: length, EntryID: id})
			}
		}
		if param.Group {
			for _, id := range ids {
				emit(runLen, id)
			}
		}
		for length := 1; length <= maxLen; length++ {
			for _, id := range ids {
				emit(length, id)
			}
		}
	}
	return dst
}

func runLength(chars *CharPropertyTable, scalars []rune, pos int, cat CharCategory) int {
	n := 0
	for i := pos; i < len(scalars) && n <= maxGrouping; i++ {
		if !chars.Categories(scalars[i]).Has(cat) {
			break
		}
		n++
	}
	if n == 0 {
		n = 1
	}
	return n
}
