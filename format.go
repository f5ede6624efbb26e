package kotoba

import (
	"fmt"
	"io"
	"strings"
)

// FormatTokens writes one "surface\tfeature" line per token followed by a
// trailing "EOS" line, the standard MeCab tabular output format.
func FormatTokens(w io.Writer, tokens []OwnedToken) error {
	for _, t := range tokens {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", t.Surface, t.Feature); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "EOS\n")
	return err
}

// FormatWakati renders tokens as space-separated surfaces with no feature
// output, the standard MeCab "-Owakati" format.
func FormatWakati(tokens []OwnedToken) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = string(t.Surface)
	}
	return strings.Join(parts, " ")
}
