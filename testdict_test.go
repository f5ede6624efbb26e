package kotoba

import "testing"

// testLexWord is one entry in the tiny lexicon newTestDictionary builds.
type testLexWord struct {
	Surface string
	Cost    int16
	Feature string
}

var testLexWords = []testLexWord{
	{"cat", 10, "NOUN,cat"},
	{"cats", 15, "NOUN,cats"},
	{"sat", 10, "VERB,sat"},
	{"on", 5, "PREP,on"},
	{"mat", 10, "NOUN,mat"},
}

type testUnkEntryDef struct {
	Category CharCategory
	Cost     int16
	Feature  string
}

var testUnkEntries = []testUnkEntryDef{
	{CategoryDefault, 5000, "UNK,default"},
	{CategoryAlpha, 3000, "UNK,alpha"},
	{CategorySpace, 0, "UNK,space"},
}

// newTestDictionary assembles a small, fully deterministic Dictionary via
// FromInner: a single connection context (cost always 0, so total path cost
// is exactly the sum of word costs) and a handful of English-alphabet
// lexicon entries, enough to exercise the lattice builder, Viterbi solver
// and Worker end to end without needing a real compiled dictionary image.
func newTestDictionary(t *testing.T) *Dictionary {
	t.Helper()

	var raw [][]byte
	for _, w := range testLexWords {
		raw = append(raw, []byte(w.Feature))
	}
	for _, u := range testUnkEntries {
		raw = append(raw, []byte(u.Feature))
	}
	fs, refs := BuildFeatureStore(raw)

	trieEntries := map[string]uint32{}
	ranges := make([]wordRange, len(testLexWords))
	wordIDs := make([]uint32, len(testLexWords))
	words := make([]WordEntry, len(testLexWords))
	for i, w := range testLexWords {
		trieEntries[w.Surface] = uint32(i)
		ranges[i] = wordRange{Start: uint32(i), End: uint32(i + 1)}
		wordIDs[i] = uint32(i)
		words[i] = WordEntry{
			Param:      WordParam{LeftID: 0, RightID: 0, WordCost: w.Cost},
			Type:       LexSystem,
			FeatureRef: refs[i],
		}
	}
	trie := buildDoubleArray(t, trieEntries)
	lx, err := NewLexicon(trie, ranges, wordIDs, words)
	if err != nil {
		t.Fatalf("NewLexicon: %v", err)
	}

	var unkEntries []UnkEntry
	for i, u := range testUnkEntries {
		unkEntries = append(unkEntries, UnkEntry{
			Category:   u.Category,
			Param:      WordParam{LeftID: 0, RightID: 0, WordCost: u.Cost},
			FeatureRef: refs[len(testLexWords)+i],
		})
	}
	uh := NewUnknownWordHandler(unkEntries)

	cm, err := NewConnectionMatrix(1, 1, []int16{0})
	if err != nil {
		t.Fatalf("NewConnectionMatrix: %v", err)
	}

	dict, err := FromInner(DictionaryParts{
		Chars:      DefaultCharPropertyTable(),
		Connection: cm,
		Lexicon:    lx,
		Unknown:    uh,
		Features:   fs,
		BosEosID:   0,
	})
	if err != nil {
		t.Fatalf("FromInner: %v", err)
	}
	return dict
}
