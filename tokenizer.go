package kotoba

// TokenizerOption configures a Tokenizer. The zero value is a valid,
// documented configuration: ignore_space=false (MeCab's own default is
// space-significant), max_grouping_len=0 ("use each category's own
// char.def length").
type TokenizerOption struct {
	// IgnoreSpace, when true, absorbs SPACE-category scalar runs as
	// cost-free prefixes of the following node instead of emitting nodes
	// for them.
	IgnoreSpace bool
	// MaxGroupingLen, when positive, overrides every category's unknown-word
	// Length parameter and caps the span of grouped unknown-word candidates.
	// Values of 64 or more are rejected by NewTokenizer.
	MaxGroupingLen uint16
}

const maxGroupingLenHardBound = 64

// Tokenizer binds an immutable, shareable Dictionary to a fixed
// TokenizerOption and spawns Workers. Constructing a Tokenizer never fails
// for reasons related to the text it will later process — tokenization
// itself cannot fail (see Worker.Tokenize) — only for misconfiguration
// caught here once, at setup time.
type Tokenizer struct {
	dict *Dictionary
	opt  TokenizerOption
}

// NewTokenizer validates opt and binds it to dict.
func NewTokenizer(dict *Dictionary, opt TokenizerOption) (*Tokenizer, error) {
	if dict == nil {
		return nil, &InvalidOptionError{Msg: "dictionary must not be nil"}
	}
	if opt.MaxGroupingLen >= maxGroupingLenHardBound {
		return nil, &InvalidOptionError{Msg: "max_grouping_len must be less than 64"}
	}
	return &Tokenizer{dict: dict, opt: opt}, nil
}

// NewWorker spawns a new single-threaded Worker bound to this Tokenizer's
// Dictionary and options. Workers are cheap; spawn one per goroutine that
// tokenizes concurrently.
func (t *Tokenizer) NewWorker() *Worker {
	return newWorker(t)
}
