package kotoba

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"syscall"
	"unsafe"

	"github.com/axiomhq/fsst"
	"github.com/golang/glog"
)

// Dictionary is the immutable aggregate of every data-model component: the
// char-property table, connection matrix, lexicon, unknown-word handler and
// shared feature store. Once constructed (via FromBytes, Open or FromInner)
// it is safe to share across arbitrarily many Workers on arbitrarily many
// goroutines.
type Dictionary struct {
	Chars      *CharPropertyTable
	Connection *ConnectionMatrix
	Lexicon    *Lexicon
	Unknown    *UnknownWordHandler
	Features   *FeatureStore
	BosEosID   uint16

	mapped *MappedFile // non-nil only when loaded via Open
}

// DictionaryParts bundles the pre-built components FromInner assembles into
// a Dictionary, for embedders that construct a dictionary programmatically
// (e.g. tests, or a host process that already parsed its own source format)
// instead of loading a binary image.
type DictionaryParts struct {
	Chars      *CharPropertyTable
	Connection *ConnectionMatrix
	Lexicon    *Lexicon
	Unknown    *UnknownWordHandler
	Features   *FeatureStore
	BosEosID   uint16
}

// FromInner assembles a Dictionary from already-built components and runs
// the same load-time validation FromBytes does.
func FromInner(p DictionaryParts) (*Dictionary, error) {
	d := &Dictionary{
		Chars:      p.Chars,
		Connection: p.Connection,
		Lexicon:    p.Lexicon,
		Unknown:    p.Unknown,
		Features:   p.Features,
		BosEosID:   p.BosEosID,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks the structural invariants a well-formed Dictionary must
// hold, in particular the one that keeps tokenization unconditionally
// infallible: the DEFAULT char category must be invoked for unknown-word
// generation and must have at least one registered unknown entry, so that
// any scalar with no lexicon coverage — including an invalid UTF-8 byte,
// which classifies as DEFAULT — can still produce a node and reach EOS.
func (d *Dictionary) Validate() error {
	if d.Chars == nil || d.Connection == nil || d.Lexicon == nil || d.Unknown == nil || d.Features == nil {
		err := &DictionaryFormatError{Msg: "dictionary is missing a required component"}
		glog.Warningf("kotoba: %v", err)
		return err
	}
	def := d.Chars.Param(CategoryDefault)
	if !def.Invoke {
		err := &DictionaryFormatError{Msg: "DEFAULT char category must have invoke=true"}
		glog.Warningf("kotoba: %v", err)
		return err
	}
	if !d.Unknown.HasCategory(CategoryDefault) {
		err := &DictionaryFormatError{Msg: "no unknown-word entries registered for the DEFAULT category; some input could never reach EOS"}
		glog.Warningf("kotoba: %v", err)
		return err
	}
	if int(d.BosEosID) >= d.Connection.NumLeft() || int(d.BosEosID) >= d.Connection.NumRight() {
		err := &DictionaryFormatError{Msg: "bos/eos context id is out of range of the connection matrix"}
		glog.Warningf("kotoba: %v", err)
		return err
	}
	return nil
}

func (d *Dictionary) featureBytes(idx WordIdx) []byte {
	if idx.Type == LexUnknown {
		return d.Features.Decode(d.Unknown.FeatureRef(idx))
	}
	return d.Features.Decode(d.Lexicon.FeatureRef(idx))
}

// Close releases the dictionary's memory mapping, if it was loaded via
// Open. It is a no-op for dictionaries built via FromInner or FromBytes on
// a caller-owned buffer.
func (d *Dictionary) Close() error {
	if d.mapped == nil {
		return nil
	}
	return d.mapped.Close()
}

// MappedFile is a thin syscall.Mmap wrapper, kept alive for the lifetime of
// every Dictionary (and transitively every Worker) referencing its bytes.
type MappedFile struct {
	file *os.File
	data []byte
}

// OpenMappedFile memory-maps path read-only.
func OpenMappedFile(path string) (*MappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	data, err := syscall.Mmap(int(f.Fd()), 0, int(stat.Size()), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &MappedFile{file: f, data: data}, nil
}

// Close unmaps and closes the underlying file.
func (m *MappedFile) Close() error {
	err1 := syscall.Munmap(m.data)
	err2 := m.file.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// Open memory-maps path and parses it as a dictionary image. The returned
// Dictionary owns the mapping; call Close when every Worker referencing it
// has been dropped.
func Open(path string) (*Dictionary, error) {
	m, err := OpenMappedFile(path)
	if err != nil {
		return nil, err
	}
	d, err := FromBytes(m.data)
	if err != nil {
		m.Close()
		return nil, err
	}
	d.mapped = m
	glog.V(1).Infof("kotoba: loaded dictionary %s (%d bytes)", path, len(m.data))
	return d, nil
}

const dictMagic = "KOTOBA01"

// dictHeader is the gob-encoded metadata block: everything that isn't a
// bulk fixed-size record array. Table dimensions here double as the lengths
// needed to slice the raw record region that follows the header.
type dictHeader struct {
	NumTrieNodes int
	NumWords     int
	NumLeft      int
	NumRight     int
	Ranges       []wordRange
	WordIDs      []uint32
	Unknown      []unkRecord
	CharDense    []CategoryBits
	CharSparse   map[rune]CategoryBits
	CharParams   [numCategories]CategoryParam
	BosEosID     uint16
	FSSTTable    []byte
	FeatureLen   int
}

type unkRecord struct {
	Category CharCategory
	Param    WordParam
	Feature  FeatureRef
}

// wordRecord is the fixed-size raw layout for one Lexicon WordEntry.
type wordRecord struct {
	LeftID        uint16
	RightID       uint16
	WordCost      int16
	Type          LexType
	_             uint8 // padding
	FeatureOffset uint32
	FeatureLength uint32
}

// WriteBinary serializes d into the magic+gob-header+padded-raw-records
// format FromBytes parses, the inverse of loading: a magic string, a
// varint-prefixed gob header carrying every table's dimensions and the
// small side tables (unknown entries, char properties, the trained FSST
// table), followed by four alignment-padded raw record regions (trie
// base[], trie check[], word records, connection costs) and finally the
// compressed feature blob.
func (d *Dictionary) WriteBinary(w io.Writer) error {
	if _, err := w.Write([]byte(dictMagic)); err != nil {
		return err
	}

	tableBytes, err := d.Features.table.MarshalBinary()
	if err != nil {
		return err
	}
	words := make([]wordRecord, len(d.Lexicon.words))
	for i, we := range d.Lexicon.words {
		words[i] = wordRecord{
			LeftID: we.Param.LeftID, RightID: we.Param.RightID, WordCost: we.Param.WordCost,
			Type: we.Type, FeatureOffset: we.FeatureRef.Offset, FeatureLength: we.FeatureRef.Length,
		}
	}
	unk := make([]unkRecord, len(d.Unknown.entries))
	for i, e := range d.Unknown.entries {
		unk[i] = unkRecord{Category: e.Category, Param: e.Param, Feature: e.FeatureRef}
	}

	hdr := dictHeader{
		NumTrieNodes: len(d.Lexicon.trie.base),
		NumWords:     len(d.Lexicon.words),
		NumLeft:      d.Connection.numLeft,
		NumRight:     d.Connection.numRight,
		Ranges:       d.Lexicon.ranges,
		WordIDs:      d.Lexicon.wordIDs,
		Unknown:      unk,
		CharDense:    d.Chars.dense,
		CharSparse:   d.Chars.sparse,
		CharParams:   d.Chars.params,
		BosEosID:     d.BosEosID,
		FSSTTable:    tableBytes,
		FeatureLen:   len(d.Features.encoded),
	}
	var hbuf bytes.Buffer
	if err := gob.NewEncoder(&hbuf).Encode(&hdr); err != nil {
		return err
	}
	lenBytes := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(lenBytes, uint64(hbuf.Len()))
	if _, err := w.Write(lenBytes[:n]); err != nil {
		return err
	}
	if _, err := w.Write(hbuf.Bytes()); err != nil {
		return err
	}

	written := int64(len(dictMagic) + n + hbuf.Len())
	if written, err = writeRawSlice(w, written, d.Lexicon.trie.base); err != nil {
		return err
	}
	if written, err = writeRawSlice(w, written, d.Lexicon.trie.check); err != nil {
		return err
	}
	if written, err = writeRawSlice(w, written, words); err != nil {
		return err
	}
	if _, err = writeRawSlice(w, written, d.Connection.costs); err != nil {
		return err
	}
	_, err = w.Write(d.Features.encoded)
	return err
}

// FromBytes parses data as a dictionary image without copying the raw
// record regions: the trie arrays, word records and connection costs are
// sliced directly out of data via unsafe casts, so data must outlive the
// returned Dictionary (Open arranges this by mmap'ing the source file and
// keeping the mapping alive until Close).
func FromBytes(data []byte) (*Dictionary, error) {
	if len(data) < len(dictMagic) || string(data[:len(dictMagic)]) != dictMagic {
		err := &DictionaryFormatError{Msg: "bad magic, not a kotoba dictionary image"}
		glog.Warningf("kotoba: %v", err)
		return nil, err
	}
	read := int64(len(dictMagic))
	headerLen, n := binary.Uvarint(data[read:])
	if n <= 0 {
		err := &DictionaryFormatError{Msg: "malformed header length varint"}
		glog.Warningf("kotoba: %v", err)
		return nil, err
	}
	read += int64(n)
	if read+int64(headerLen) > int64(len(data)) {
		err := &DictionaryFormatError{Msg: "header length exceeds image size"}
		glog.Warningf("kotoba: %v", err)
		return nil, err
	}
	var hdr dictHeader
	if derr := gob.NewDecoder(bytes.NewReader(data[read : read+int64(headerLen)])).Decode(&hdr); derr != nil {
		err := &DictionaryFormatError{Msg: "malformed gob header: " + derr.Error()}
		glog.Warningf("kotoba: %v", err)
		return nil, err
	}
	read += int64(headerLen)

	base, read, err := readRawSlice[int32](data, read, hdr.NumTrieNodes)
	if err != nil {
		glog.Warningf("kotoba: %v", err)
		return nil, err
	}
	check, read, err := readRawSlice[int32](data, read, hdr.NumTrieNodes)
	if err != nil {
		glog.Warningf("kotoba: %v", err)
		return nil, err
	}
	words, read, err := readRawSlice[wordRecord](data, read, hdr.NumWords)
	if err != nil {
		glog.Warningf("kotoba: %v", err)
		return nil, err
	}
	costs, read, err := readRawSlice[int16](data, read, hdr.NumLeft*hdr.NumRight)
	if err != nil {
		glog.Warningf("kotoba: %v", err)
		return nil, err
	}
	if read+int64(hdr.FeatureLen) > int64(len(data)) {
		err := &DictionaryFormatError{Msg: "feature blob exceeds image size"}
		glog.Warningf("kotoba: %v", err)
		return nil, err
	}
	features := data[read : read+int64(hdr.FeatureLen)]

	trie, err := NewDoubleArray(base, check)
	if err != nil {
		glog.Warningf("kotoba: %v", err)
		return nil, err
	}
	wordEntries := make([]WordEntry, len(words))
	for i, wr := range words {
		wordEntries[i] = WordEntry{
			Param:      WordParam{LeftID: wr.LeftID, RightID: wr.RightID, WordCost: wr.WordCost},
			Type:       wr.Type,
			FeatureRef: FeatureRef{Offset: wr.FeatureOffset, Length: wr.FeatureLength},
		}
	}
	lx, err := NewLexicon(trie, hdr.Ranges, hdr.WordIDs, wordEntries)
	if err != nil {
		glog.Warningf("kotoba: %v", err)
		return nil, err
	}
	unkEntries := make([]UnkEntry, len(hdr.Unknown))
	for i, ur := range hdr.Unknown {
		unkEntries[i] = UnkEntry{Category: ur.Category, Param: ur.Param, FeatureRef: ur.Feature}
	}
	uh := NewUnknownWordHandler(unkEntries)

	cp := NewCharPropertyTable(hdr.CharDense, hdr.CharSparse, hdr.CharParams)

	cm, err := NewConnectionMatrix(hdr.NumLeft, hdr.NumRight, costs)
	if err != nil {
		glog.Warningf("kotoba: %v", err)
		return nil, err
	}

	var table fsst.Table
	if terr := table.UnmarshalBinary(hdr.FSSTTable); terr != nil {
		err := &DictionaryFormatError{Msg: "malformed fsst table: " + terr.Error()}
		glog.Warningf("kotoba: %v", err)
		return nil, err
	}
	fs := NewFeatureStoreFromImage(&table, features)

	d, err := FromInner(DictionaryParts{
		Chars: cp, Connection: cm, Lexicon: lx, Unknown: uh, Features: fs, BosEosID: hdr.BosEosID,
	})
	if err != nil {
		// FromInner's own Validate call already logged the specific reason.
		return nil, err
	}
	return d, nil
}

// writeRawSlice pads w out to T's natural alignment, then writes s's
// backing bytes unmodified, returning the new write offset. This is the
// same magic+header+aligned-records discipline the teacher's WriteBinary
// uses, generalized once via generics instead of being hand-duplicated per
// record type (the teacher's own sorted.go flags this duplication as a
// known wart).
func writeRawSlice[T any](w io.Writer, written int64, s []T) (int64, error) {
	var zero T
	align := int64(unsafe.Alignof(zero))
	if align < 1 {
		align = 1
	}
	if pad := (align - written%align) % align; pad > 0 {
		if _, err := w.Write(make([]byte, pad)); err != nil {
			return 0, err
		}
		written += pad
	}
	size := int64(unsafe.Sizeof(zero))
	if len(s) > 0 {
		raw := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), int(size)*len(s))
		if _, err := w.Write(raw); err != nil {
			return 0, err
		}
	}
	return written + size*int64(len(s)), nil
}

// readRawSlice is the inverse of writeRawSlice: it skips the same alignment
// padding and returns a slice cast directly over data's backing array, with
// no copy.
func readRawSlice[T any](data []byte, read int64, n int) ([]T, int64, error) {
	var zero T
	align := int64(unsafe.Alignof(zero))
	if align < 1 {
		align = 1
	}
	read += (align - read%align) % align
	size := int64(unsafe.Sizeof(zero))
	need := size * int64(n)
	if read+need > int64(len(data)) {
		return nil, 0, &DictionaryFormatError{Msg: fmt.Sprintf("raw record region of %d bytes exceeds image size", need)}
	}
	if n == 0 {
		return nil, read, nil
	}
	s := unsafe.Slice((*T)(unsafe.Pointer(&data[read])), n)
	return s, read + need, nil
}
