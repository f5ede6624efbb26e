package kotoba

import "math"

// runViterbi fills MinCost/BackPtr for every node in lat, processing byte
// positions in increasing order so that, by the time a node n is relaxed,
// every node ending at n.Start has already been finalized. Costs are
// accumulated in int32; per spec.md's own bound (len(text) * (max edge cost
// + max word cost) is far below int32's range for any realistic sentence),
// this cannot overflow.
func runViterbi(lat *Lattice, dict *Dictionary) {
	for pos := 0; pos < len(lat.endsAt); pos++ {
		for _, ni := range lat.endsAt[pos] {
			n := &lat.nodes[ni]
			if n.Kind == NodeBOS {
				n.MinCost = 0
				n.BackPtr = -1
				continue
			}
			relax(lat, dict, n)
		}
	}
	relax(lat, dict, &lat.nodes[lat.eosIdx])
}

// relax sets n.MinCost/n.BackPtr to the minimum-cost predecessor among the
// nodes ending at n.Start. Ties are broken by a strict less-than comparison,
// so the first predecessor encountered at the minimum cost — the one with
// the smallest node index, since nodes are appended in construction order —
// keeps the back-pointer. This is what makes lexicon hits win ties over
// unknown-word candidates at the same position: the lattice builder always
// inserts lexicon nodes first.
func relax(lat *Lattice, dict *Dictionary, n *Node) {
	best := int32(math.MaxInt32)
	backPtr := -1
	for _, mi := range lat.endsAt[n.Start] {
		m := &lat.nodes[mi]
		cost := m.MinCost + int32(dict.Connection.Cost(m.RightID, n.LeftID)) + int32(n.WordCost)
		if cost < best {
			best = cost
			backPtr = int(mi)
		}
	}
	n.MinCost = best
	n.BackPtr = backPtr
}

// BestPath walks back-pointers from EOS to BOS and returns the node indices
// of the winning path in left-to-right order, excluding the BOS/EOS
// sentinels themselves. dst is reused if it has enough capacity.
func (lat *Lattice) BestPath(dst []int32) []int32 {
	dst = dst[:0]
	for i := lat.eosIdx; i != -1; {
		n := &lat.nodes[i]
		if n.Kind != NodeBOS && n.Kind != NodeEOS {
			dst = append(dst, int32(i))
		}
		i = n.BackPtr
	}
	for l, r := 0, len(dst)-1; l < r; l, r = l+1, r-1 {
		dst[l], dst[r] = dst[r], dst[l]
	}
	return dst
}
