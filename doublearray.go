package kotoba

// DoubleArray is a read-only double-array trie (Aoe 1989 encoding) over
// UTF-8 byte keys. It only validates and queries a pre-built base[]/check[]
// pair; building one from a key set is the external dictionary compiler's
// job (out of scope here — see spec's Non-goals), so the only constructors
// are NewDoubleArray (validating) and the image loader in dictionary.go.
//
// Transition convention: t = base[s] + b + 1, the child of state s on byte b
// lives at index t (byte codes are shifted by one so that code 0 stays free
// for terminalCode), and is valid only if check[t] == s. Acceptance of a key
// ending at state s is signaled by also taking the transition on the
// reserved terminal byte value terminalCode (0), which doubles as a leaf:
// when check[t] == s for t = base[s] + terminalCode, -base[t] is the word
// id payload rather than a further trie state. This is a fixed property of
// the encoder that produced the arrays; the reader does not infer it.
type DoubleArray struct {
	base  []int32
	check []int32
}

const terminalCode = 0

// NewDoubleArray validates a base/check pair produced by an external
// encoder and wraps it for querying. It checks only cheap, local invariants
// (equal lengths, state 0 reserved as the root); it does not and cannot
// verify global trie well-formedness without re-walking every key, which the
// core never has in hand.
func NewDoubleArray(base, check []int32) (*DoubleArray, error) {
	if len(base) != len(check) {
		return nil, &DictionaryFormatError{Msg: "double array base/check length mismatch"}
	}
	if len(base) == 0 {
		return nil, &DictionaryFormatError{Msg: "double array must have at least a root state"}
	}
	return &DoubleArray{base: base, check: check}, nil
}

// PrefixHit is one match yielded by CommonPrefixSearch: a key of length Len
// bytes starting at the search's offset matched, and WordID is the payload
// the encoder stored for that key (an index into whatever table the caller
// associates with this trie, e.g. Lexicon's word range table).
type PrefixHit struct {
	Len    int
	WordID uint32
}

// CommonPrefixSearch walks key from its start, appending one PrefixHit to
// dst for every prefix of key that is itself a key in the trie, in
// increasing length order. dst is returned (possibly reallocated) to let
// callers reuse a scratch slice across calls.
func (d *DoubleArray) CommonPrefixSearch(key []byte, dst []PrefixHit) []PrefixHit {
	var s int32 // current trie state, starts at root
	for i := 0; i <= len(key); i++ {
		// Check for an accepting transition on the terminal code at the
		// current state before consuming the next byte.
		if t := d.base[s] + terminalCode; t >= 0 && int(t) < len(d.check) && d.check[t] == s {
			dst = append(dst, PrefixHit{Len: i, WordID: uint32(-d.base[t])})
		}
		if i == len(key) {
			break
		}
		b := int32(key[i]) + 1 // +1 reserves 0 for terminalCode
		t := d.base[s] + b
		if t < 0 || int(t) >= len(d.check) || d.check[t] != s {
			break
		}
		s = t
	}
	return dst
}

// Lookup reports whether key is an exact key in the trie and, if so, its
// payload.
func (d *DoubleArray) Lookup(key []byte) (uint32, bool) {
	var s int32
	for _, b := range key {
		t := d.base[s] + int32(b) + 1
		if t < 0 || int(t) >= len(d.check) || d.check[t] != s {
			return 0, false
		}
		s = t
	}
	t := d.base[s] + terminalCode
	if t < 0 || int(t) >= len(d.check) || d.check[t] != s {
		return 0, false
	}
	return uint32(-d.base[t]), true
}
