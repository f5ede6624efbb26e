package kotoba

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDictionaryWriteBinaryRoundTrip(t *testing.T) {
	dict := newTestDictionary(t)

	var buf bytes.Buffer
	require.NoError(t, dict.WriteBinary(&buf))

	loaded, err := FromBytes(buf.Bytes())
	require.NoError(t, err)

	tok, err := NewTokenizer(loaded, TokenizerOption{IgnoreSpace: true})
	require.NoError(t, err)
	w := tok.NewWorker()
	w.SetText([]byte("cat on mat"))
	w.Tokenize()
	require.Equal(t, []string{"cat", "on", "mat"}, surfaces(w.CollectOwned()))
}

func TestFromBytesRejectsBadMagic(t *testing.T) {
	_, err := FromBytes([]byte("not a kotoba dictionary at all"))
	require.Error(t, err)
	var fmtErr *DictionaryFormatError
	require.ErrorAs(t, err, &fmtErr)
}

func TestFromBytesRejectsTruncatedImage(t *testing.T) {
	dict := newTestDictionary(t)
	var buf bytes.Buffer
	require.NoError(t, dict.WriteBinary(&buf))

	truncated := buf.Bytes()[:len(buf.Bytes())/2]
	_, err := FromBytes(truncated)
	require.Error(t, err)
}

func TestValidateRejectsMissingDefaultUnknownEntries(t *testing.T) {
	base := newTestDictionary(t)
	uh := NewUnknownWordHandler(nil) // no DEFAULT entries at all

	_, err := FromInner(DictionaryParts{
		Chars:      base.Chars,
		Connection: base.Connection,
		Lexicon:    base.Lexicon,
		Unknown:    uh,
		Features:   base.Features,
		BosEosID:   base.BosEosID,
	})
	require.Error(t, err)
	var fmtErr *DictionaryFormatError
	require.ErrorAs(t, err, &fmtErr)
}

func TestValidateRejectsOutOfRangeBosEosID(t *testing.T) {
	base := newTestDictionary(t)
	_, err := FromInner(DictionaryParts{
		Chars:      base.Chars,
		Connection: base.Connection,
		Lexicon:    base.Lexicon,
		Unknown:    base.Unknown,
		Features:   base.Features,
		BosEosID:   99,
	})
	require.Error(t, err)
}
