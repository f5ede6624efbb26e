package kotoba

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestViterbiTieBreakPrefersFirstInsertedNode builds a tiny hand-assembled
// lattice where two predecessor nodes tie exactly on cost, and checks that
// the one inserted first into the node array wins the back-pointer, per the
// documented MeCab-compatible "smallest node index" rule.
func TestViterbiTieBreakPrefersFirstInsertedNode(t *testing.T) {
	dict := newTestDictionary(t)
	lat := newLattice()
	lat.reset(4)

	bos := lat.addNode(Node{Kind: NodeBOS, BackPtr: -1})
	lat.markEnd(0, bos)

	// Two nodes, "first" and "second", both span [0,2) with identical cost.
	first := lat.addNode(Node{Start: 0, End: 2, LeftID: 0, RightID: 0, WordCost: 10, Kind: NodeLex, BackPtr: -1})
	lat.markEnd(2, first)
	second := lat.addNode(Node{Start: 0, End: 2, LeftID: 0, RightID: 0, WordCost: 10, Kind: NodeLex, BackPtr: -1})
	lat.markEnd(2, second)

	eos := lat.addNode(Node{Start: 2, End: 2, LeftID: 0, RightID: 0, Kind: NodeEOS, BackPtr: -1})
	lat.startsAt[2] = append(lat.startsAt[2], int32(eos))
	lat.eosIdx = eos

	runViterbi(lat, dict)

	require.Equal(t, first, lat.nodes[eos].BackPtr, "EOS must back-point to the first-inserted of two equal-cost predecessors")
}
