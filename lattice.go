package kotoba

// NodeKind distinguishes the lattice sentinels from real candidates.
type NodeKind uint8

const (
	NodeBOS NodeKind = iota
	NodeEOS
	NodeLex
	NodeUnknown
)

// Node is one lattice element: a candidate word (or a BOS/EOS sentinel)
// spanning byte range [Start, End). MinCost and BackPtr are filled in by the
// Viterbi solver; they are meaningless before a solve pass runs.
type Node struct {
	Start, End int
	Idx        WordIdx
	LeftID     uint16
	RightID    uint16
	WordCost   int16
	Kind       NodeKind
	MinCost    int32
	BackPtr    int // index into Lattice.nodes, -1 for BOS
}

// Lattice is the pooled per-sentence graph: a flat node array plus, for
// every byte position, the indices of nodes ending there and starting
// there. Both index lists are sized to the input length and reused across
// calls to Build without releasing their backing arrays.
type Lattice struct {
	nodes    []Node
	endsAt   [][]int32
	startsAt [][]int32
	eosIdx   int
}

func newLattice() *Lattice {
	return &Lattice{}
}

func (lat *Lattice) reset(textLen int) {
	lat.nodes = lat.nodes[:0]
	need := textLen + 1
	if cap(lat.endsAt) < need {
		lat.endsAt = make([][]int32, need)
		lat.startsAt = make([][]int32, need)
	} else {
		lat.endsAt = lat.endsAt[:need]
		lat.startsAt = lat.startsAt[:need]
	}
	for i := 0; i < need; i++ {
		lat.endsAt[i] = lat.endsAt[i][:0]
		lat.startsAt[i] = lat.startsAt[i][:0]
	}
	lat.eosIdx = -1
}

func (lat *Lattice) addNode(n Node) int {
	lat.nodes = append(lat.nodes, n)
	return len(lat.nodes) - 1
}

func (lat *Lattice) markEnd(pos, idx int) {
	lat.endsAt[pos] = append(lat.endsAt[pos], int32(idx))
}

func (lat *Lattice) markStart(pos, idx int) {
	lat.startsAt[pos] = append(lat.startsAt[pos], int32(idx))
}

// propagateReachability extends every node ending at `from` to also be
// considered ending at `to`, used to absorb an ignored space run: the nodes
// that justified reachability before the run still justify it after, without
// materializing a node for the space itself. Copying (not moving) the
// indices is required when from == to would otherwise be a no-op and when a
// later space run starting at `to` needs `from`'s entries intact too.
func (lat *Lattice) propagateReachability(from, to int) {
	if from == to {
		return
	}
	lat.endsAt[to] = append(lat.endsAt[to], lat.endsAt[from]...)
}

// buildScratch holds the reusable buffers Build needs so a Worker can call
// it repeatedly with zero per-sentence allocation once the buffers have
// grown to the largest sentence seen so far.
type buildScratch struct {
	prefixHits []PrefixHit
	lexHits    []LexiconHit
	unkCands   []UnkCandidate
	dedup      *dedupSet
}

func newBuildScratch() *buildScratch {
	return &buildScratch{dedup: newDedupSet(16)}
}

// Build runs the lattice-construction algorithm: BOS at byte 0, a node per
// lexicon common-prefix hit and per unknown-word candidate at every
// reachable scalar position (absorbing ignored space runs as cost-free
// prefixes rather than nodes), and EOS at the end of text.
func (lat *Lattice) Build(dict *Dictionary, opt TokenizerOption, text []byte, scalars []rune, offsets []int, scratch *buildScratch) {
	n := len(scalars)
	lat.reset(len(text))

	bos := lat.addNode(Node{LeftID: dict.BosEosID, RightID: dict.BosEosID, Kind: NodeBOS, BackPtr: -1})
	lat.markEnd(0, bos)
	lat.markStart(0, bos)

	optMaxLen := int(opt.MaxGroupingLen)
	p := 0
	for p < n {
		byteOff := offsets[p]
		if len(lat.endsAt[byteOff]) == 0 {
			p++
			continue
		}
		if opt.IgnoreSpace && dict.Chars.Categories(scalars[p]).Has(CategorySpace) {
			q := p
			for q < n && dict.Chars.Categories(scalars[q]).Has(CategorySpace) {
				q++
			}
			lat.propagateReachability(byteOff, offsets[q])
			p = q
			continue
		}

		scratch.prefixHits, scratch.lexHits = dict.Lexicon.CommonPrefixLookup(text[byteOff:], scratch.prefixHits, scratch.lexHits[:0])
		matched := len(scratch.lexHits) > 0
		for _, h := range scratch.lexHits {
			end := byteOff + h.Len
			idx := lat.addNode(Node{
				Start: byteOff, End: end,
				Idx: h.Idx, LeftID: h.Param.LeftID, RightID: h.Param.RightID, WordCost: h.Param.WordCost,
				Kind: NodeLex, BackPtr: -1,
			})
			lat.markStart(byteOff, idx)
			lat.markEnd(end, idx)
		}

		scratch.unkCands = dict.Unknown.Generate(dict.Chars, scalars, p, matched, optMaxLen, scratch.dedup, scratch.unkCands[:0])
		for _, c := range scratch.unkCands {
			endScalar := p + c.RunLen
			end := len(text)
			if endScalar < n {
				end = offsets[endScalar]
			}
			entry := dict.Unknown.Entry(c.EntryID)
			idx := lat.addNode(Node{
				Start: byteOff, End: end,
				Idx:      WordIdx{Type: LexUnknown, ID: c.EntryID},
				LeftID:   entry.Param.LeftID,
				RightID:  entry.Param.RightID,
				WordCost: entry.Param.WordCost,
				Kind:     NodeUnknown, BackPtr: -1,
			})
			lat.markStart(byteOff, idx)
			lat.markEnd(end, idx)
		}
		p++
	}

	eos := lat.addNode(Node{Start: len(text), End: len(text), LeftID: dict.BosEosID, RightID: dict.BosEosID, Kind: NodeEOS, BackPtr: -1})
	lat.markStart(len(text), eos)
	lat.eosIdx = eos
}
