package kotoba

import "fmt"

// DictionaryFormatError reports a load-time problem with a dictionary image
// or with the components passed to FromInner: a bad magic number, a
// dimension mismatch between tables, an out-of-range offset, or a structural
// invariant (e.g. no DEFAULT-category unknown-word fallback) that would make
// some input unable to reach EOS.
type DictionaryFormatError struct {
	Msg string
}

func (e *DictionaryFormatError) Error() string {
	return fmt.Sprintf("kotoba: dictionary format: %s", e.Msg)
}

// InvalidOptionError reports a TokenizerOption value (or a nil Dictionary)
// that NewTokenizer rejects.
type InvalidOptionError struct {
	Msg string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("kotoba: invalid option: %s", e.Msg)
}
