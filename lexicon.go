package kotoba

import "github.com/axiomhq/fsst"

// WordEntry is one lexicon entry's cost and feature-location data. Several
// WordEntry values can share the same surface form (homographs with
// distinct part-of-speech/reading), which is why the trie payload is a
// range into wordIDs rather than a WordEntry index directly.
type WordEntry struct {
	Param      WordParam
	Type       LexType
	FeatureRef FeatureRef
}

type wordRange struct {
	Start uint32
	End   uint32
}

// Lexicon is the double-array trie plus the cost/feature tables it indexes
// into. CommonPrefixLookup is the sole query operation the lattice builder
// needs.
type Lexicon struct {
	trie    *DoubleArray
	ranges  []wordRange // indexed by the trie's payload id
	wordIDs []uint32    // indexed by [range.Start, range.End), values index words
	words   []WordEntry
}

// NewLexicon assembles a Lexicon from already-decoded components, as a
// dictionary loader or FromInner caller would.
func NewLexicon(trie *DoubleArray, ranges []wordRange, wordIDs []uint32, words []WordEntry) (*Lexicon, error) {
	for _, r := range ranges {
		if r.Start > r.End || int(r.End) > len(wordIDs) {
			return nil, &DictionaryFormatError{Msg: "lexicon range out of bounds"}
		}
	}
	for _, id := range wordIDs {
		if int(id) >= len(words) {
			return nil, &DictionaryFormatError{Msg: "lexicon word id out of bounds"}
		}
	}
	return &Lexicon{trie: trie, ranges: ranges, wordIDs: wordIDs, words: words}, nil
}

// LexiconHit is one matched word at a particular surface length, returned
// by CommonPrefixLookup.
type LexiconHit struct {
	Len   int
	Idx   WordIdx
	Param WordParam
}

// CommonPrefixLookup finds every lexicon entry whose surface form is a
// prefix of text, appending results to dst in increasing length order (and,
// within a length, in the lexicon's own homograph order) so callers that
// insert lattice nodes in this order get first-inserted-wins ties for free.
func (lx *Lexicon) CommonPrefixLookup(text []byte, hits []PrefixHit, dst []LexiconHit) ([]PrefixHit, []LexiconHit) {
	hits = lx.trie.CommonPrefixSearch(text, hits[:0])
	for _, h := range hits {
		r := lx.ranges[h.WordID]
		for _, wid := range lx.wordIDs[r.Start:r.End] {
			w := lx.words[wid]
			dst = append(dst, LexiconHit{
				Len:   h.Len,
				Idx:   WordIdx{Type: w.Type, ID: wid},
				Param: w.Param,
			})
		}
	}
	return hits, dst
}

// FeatureRef returns the location of idx's feature string within the
// Lexicon's shared FeatureStore. idx.Type must be LexSystem or LexUser.
func (lx *Lexicon) FeatureRef(idx WordIdx) FeatureRef {
	return lx.words[idx.ID].FeatureRef
}

// FeatureStore holds FSST-compressed feature strings shared by the lexicon
// and the unknown-word handler. MeCab feature strings are highly repetitive
// ("名詞,一般,*,*,*,*,*" recurs across tens of thousands of entries), which
// is FSST's target profile.
type FeatureStore struct {
	table   *fsst.Table
	encoded []byte
}

// BuildFeatureStore trains an fsst.Table over raw and encodes each entry,
// returning the store and a FeatureRef per input in the same order.
func BuildFeatureStore(raw [][]byte) (*FeatureStore, []FeatureRef) {
	table := fsst.Train(raw)
	var buf []byte
	refs := make([]FeatureRef, len(raw))
	for i, r := range raw {
		enc := table.Encode(nil, r)
		start := len(buf)
		buf = append(buf, enc...)
		refs[i] = FeatureRef{Offset: uint32(start), Length: uint32(len(enc))}
	}
	return &FeatureStore{table: table, encoded: buf}, refs
}

// NewFeatureStoreFromImage reconstructs a FeatureStore from an already
// serialized table and an already-populated encoded blob, as the binary
// image loader does.
func NewFeatureStoreFromImage(table *fsst.Table, encoded []byte) *FeatureStore {
	return &FeatureStore{table: table, encoded: encoded}
}

// Decode materializes ref's feature string. FSST decompression necessarily
// allocates (it cannot decode in place into a borrowed buffer smaller than
// the decoded length), so this is the one place word_feature resolution
// costs more than a slice: the guarantee is that no feature is decoded
// until the word it belongs to actually survives onto the Viterbi path.
func (fs *FeatureStore) Decode(ref FeatureRef) []byte {
	src := fs.encoded[ref.Offset : ref.Offset+ref.Length]
	return fs.table.DecodeAll(src)
}
