package kotoba

import "unicode/utf8"

// Token is a borrowed view into a tokenized Worker: Surface and Feature are
// slices into the Worker's own buffers and remain valid only until the next
// SetText or Reset call. Use CollectOwned for tokens that must outlive that.
type Token struct {
	Surface   []byte
	Feature   []byte
	ByteStart int
	ByteEnd   int
	IsUnknown bool
}

// OwnedToken is Token with Surface and Feature deep-copied, safe to move
// across goroutines or retain past the Worker's next SetText call.
type OwnedToken struct {
	Surface   []byte
	Feature   []byte
	ByteStart int
	ByteEnd   int
	IsUnknown bool
}

// Worker owns the reusable per-sentence buffers (decoded scalars, lattice,
// backpointer path, decoded feature slices) for one tokenization stream. A
// Worker is single-threaded and not safe for concurrent use; spawn one per
// concurrent tokenization via Tokenizer.NewWorker.
type Worker struct {
	tok     *Tokenizer
	text    []byte
	scalars []rune
	offsets []int

	lat     *Lattice
	scratch *buildScratch

	path      []int32
	features  [][]byte
	tokenized bool
}

func newWorker(tok *Tokenizer) *Worker {
	return &Worker{tok: tok, lat: newLattice(), scratch: newBuildScratch()}
}

// SetText replaces the current input. It clears any previous lattice and
// decoded tokens but does not run tokenization; call Tokenize for that.
func (w *Worker) SetText(text []byte) {
	w.text = text
	w.scalars, w.offsets = decodeScalars(text, w.scalars[:0], w.offsets[:0])
	w.lat.reset(0)
	w.path = w.path[:0]
	w.features = w.features[:0]
	w.tokenized = false
}

// decodeScalars decodes text into a parallel (scalar, byte-offset) array.
// Invalid UTF-8 bytes are treated as one-byte scalars classified DEFAULT by
// CharPropertyTable.Categories — utf8.DecodeRune already reports them as
// utf8.RuneError with width 1, and that rune has no explicit table entry, so
// no special-casing is needed here for input legality (spec: any byte
// sequence is legal input, there is no InvalidInput error).
func decodeScalars(text []byte, scalars []rune, offsets []int) ([]rune, []int) {
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRune(text[i:])
		offsets = append(offsets, i)
		scalars = append(scalars, r)
		i += size
	}
	offsets = append(offsets, len(text))
	return scalars, offsets
}

// Tokenize runs the lattice builder and Viterbi solver over the current
// text. It is idempotent: calling it again without an intervening SetText
// is a no-op. Tokenization cannot fail at the per-call level — a
// well-formed Dictionary (enforced by Dictionary.Validate at load time)
// guarantees EOS is always reachable.
func (w *Worker) Tokenize() {
	if w.tokenized {
		return
	}
	w.lat.Build(w.tok.dict, w.tok.opt, w.text, w.scalars, w.offsets, w.scratch)
	runViterbi(w.lat, w.tok.dict)
	w.path = w.lat.BestPath(w.path)
	w.decodeFeatures()
	w.tokenized = true
}

func (w *Worker) decodeFeatures() {
	w.features = w.features[:0]
	for _, ni := range w.path {
		n := &w.lat.nodes[ni]
		w.features = append(w.features, w.tok.dict.featureBytes(n.Idx))
	}
}

func (w *Worker) tokenAt(i int) Token {
	n := &w.lat.nodes[w.path[i]]
	return Token{
		Surface:   w.text[n.Start:n.End],
		Feature:   w.features[i],
		ByteStart: n.Start,
		ByteEnd:   n.End,
		IsUnknown: n.Kind == NodeUnknown,
	}
}

// TokenIter returns a finite sequence of Token views over the result of the
// most recent Tokenize call, already closed once the last token has been
// sent. The channel is sized to the full token count so a caller that
// range-breaks early never leaves a goroutine blocked on a send; views
// borrow from the Worker until the next SetText.
func (w *Worker) TokenIter() <-chan Token {
	ch := make(chan Token, len(w.path))
	for i := range w.path {
		ch <- w.tokenAt(i)
	}
	close(ch)
	return ch
}

// CollectOwned returns every token of the most recent Tokenize call as
// deep-copied OwnedToken values, safe to retain or move across goroutines.
func (w *Worker) CollectOwned() []OwnedToken {
	out := make([]OwnedToken, len(w.path))
	for i := range w.path {
		t := w.tokenAt(i)
		out[i] = OwnedToken{
			Surface:   append([]byte(nil), t.Surface...),
			Feature:   append([]byte(nil), t.Feature...),
			ByteStart: t.ByteStart,
			ByteEnd:   t.ByteEnd,
			IsUnknown: t.IsUnknown,
		}
	}
	return out
}

// Reset clears the Worker back to its post-NewWorker state (no text, empty
// lattice) without releasing pooled capacity, distinct from SetText, which
// also primes the new input's scalar decode immediately.
func (w *Worker) Reset() {
	w.text = nil
	w.scalars = w.scalars[:0]
	w.offsets = w.offsets[:0]
	w.lat.reset(0)
	w.path = w.path[:0]
	w.features = w.features[:0]
	w.tokenized = false
}
