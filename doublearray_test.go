package kotoba

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// trieNode and buildDoubleArray are test-only scaffolding: the production
// package never builds a double array from scratch (that is the external
// compiler's job per spec.md §1), but tests need a way to construct small,
// readable tries to exercise CommonPrefixSearch and Lookup.
type trieNode struct {
	children map[byte]*trieNode
	hasValue bool
	value    uint32
}

func newTrieNode() *trieNode { return &trieNode{children: map[byte]*trieNode{}} }

func buildDoubleArray(t *testing.T, entries map[string]uint32) *DoubleArray {
	t.Helper()
	root := newTrieNode()
	for k, v := range entries {
		n := root
		for i := 0; i < len(k); i++ {
			b := k[i]
			c, ok := n.children[b]
			if !ok {
				c = newTrieNode()
				n.children[b] = c
			}
			n = c
		}
		n.hasValue = true
		n.value = v
	}

	base := make([]int32, 1)
	check := make([]int32, 1)
	check[0] = -1

	ensure := func(idx int) {
		for idx >= len(base) {
			base = append(base, 0)
			check = append(check, -1)
		}
	}

	var assign func(n *trieNode, s int)
	assign = func(n *trieNode, s int) {
		var codes []int32
		if n.hasValue {
			codes = append(codes, 0)
		}
		var childBytes []byte
		for b := range n.children {
			childBytes = append(childBytes, b)
		}
		sort.Slice(childBytes, func(i, j int) bool { return childBytes[i] < childBytes[j] })
		for _, b := range childBytes {
			codes = append(codes, int32(b)+1)
		}
		if len(codes) == 0 {
			return
		}
		offset := int32(1)
	search:
		for {
			for _, c := range codes {
				ensure(int(offset + c))
				if check[offset+c] != -1 {
					offset++
					continue search
				}
			}
			break
		}
		base[s] = offset
		for _, c := range codes {
			check[offset+c] = int32(s)
		}
		if n.hasValue {
			base[offset+0] = -int32(n.value)
		}
		for _, b := range childBytes {
			assign(n.children[b], int(offset+int32(b)+1))
		}
	}
	assign(root, 0)

	da, err := NewDoubleArray(base, check)
	require.NoError(t, err)
	return da
}

func TestDoubleArrayCommonPrefixSearch(t *testing.T) {
	da := buildDoubleArray(t, map[string]uint32{
		"a":    1,
		"ab":   2,
		"abc":  3,
		"abcd": 4,
		"b":    5,
	})

	hits := da.CommonPrefixSearch([]byte("abcde"), nil)
	require.Len(t, hits, 4)
	for i := 1; i < len(hits); i++ {
		require.Less(t, hits[i-1].Len, hits[i].Len, "hits must be in strictly increasing length order")
	}
	require.Equal(t, PrefixHit{Len: 1, WordID: 1}, hits[0])
	require.Equal(t, PrefixHit{Len: 2, WordID: 2}, hits[1])
	require.Equal(t, PrefixHit{Len: 3, WordID: 3}, hits[2])
	require.Equal(t, PrefixHit{Len: 4, WordID: 4}, hits[3])
}

func TestDoubleArrayNoMatch(t *testing.T) {
	da := buildDoubleArray(t, map[string]uint32{"a": 1})
	hits := da.CommonPrefixSearch([]byte("xyz"), nil)
	require.Empty(t, hits)
}

func TestDoubleArrayLookup(t *testing.T) {
	da := buildDoubleArray(t, map[string]uint32{"a": 1, "ab": 2})
	v, ok := da.Lookup([]byte("ab"))
	require.True(t, ok)
	require.EqualValues(t, 2, v)

	_, ok = da.Lookup([]byte("abc"))
	require.False(t, ok)
}
