// Package persist implements the native binary container format shared by
// vocabulary, dictionary, and topicmodel (magic + version + length-prefixed
// sections, little-endian) plus the extension/magic dispatch used by each
// package's generic Save/Load.
package persist

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/ldatranslate/internal/ldaerr"
)

// Magic identifies the container kind. Each package defines its own 4-byte
// magic (e.g. "LDVO" for vocabulary, "LDDI" for dictionary, "LDTM" for
// topic model) so Load can sniff a file without knowing its extension.
type Magic [4]byte

const formatVersion uint16 = 1

// Writer wraps an io.Writer with length-prefixed primitive encoders.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer { return &Writer{w: bufio.NewWriter(w)} }

// Header writes the magic and format version. Call this first.
func (wr *Writer) Header(magic Magic) {
	wr.bytes(magic[:])
	wr.u16(formatVersion)
}

func (wr *Writer) bytes(b []byte) {
	if wr.err != nil {
		return
	}
	_, wr.err = wr.w.Write(b)
}

func (wr *Writer) u16(v uint16) {
	if wr.err != nil {
		return
	}
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	wr.bytes(buf[:])
}

// U32 writes a uint32.
func (wr *Writer) U32(v uint32) {
	if wr.err != nil {
		return
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	wr.bytes(buf[:])
}

// U64 writes a uint64.
func (wr *Writer) U64(v uint64) {
	if wr.err != nil {
		return
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	wr.bytes(buf[:])
}

// F64 writes a float64.
func (wr *Writer) F64(v float64) { wr.U64(math.Float64bits(v)) }

// Str writes a length-prefixed UTF-8 string.
func (wr *Writer) Str(s string) {
	wr.U32(uint32(len(s)))
	wr.bytes([]byte(s))
}

// Err returns the first error encountered, if any.
func (wr *Writer) Err() error { return wr.err }

// Flush flushes the underlying buffered writer.
func (wr *Writer) Flush() error {
	if wr.err != nil {
		return wr.err
	}
	return wr.w.Flush()
}

// Reader wraps an io.Reader with length-prefixed primitive decoders.
type Reader struct {
	r   *bufio.Reader
	err error
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader { return &Reader{r: bufio.NewReader(r)} }

// Header reads and validates the magic and format version.
func (rd *Reader) Header(want Magic) {
	if rd.err != nil {
		return
	}
	var got Magic
	if _, err := io.ReadFull(rd.r, got[:]); err != nil {
		rd.err = ldaerr.Wrapf(err, "read magic")
		return
	}
	if got != want {
		rd.err = ldaerr.NewInvalidInputError("magic", "got %q, want %q", got[:], want[:])
		return
	}
	v := rd.u16()
	if rd.err == nil && v != formatVersion {
		rd.err = ldaerr.NewInvalidInputError("version", "got %d, want %d", v, formatVersion)
	}
}

func (rd *Reader) u16() uint16 {
	if rd.err != nil {
		return 0
	}
	var buf [2]byte
	if _, err := io.ReadFull(rd.r, buf[:]); err != nil {
		rd.err = ldaerr.Wrapf(err, "read u16")
		return 0
	}
	return binary.LittleEndian.Uint16(buf[:])
}

// U32 reads a uint32.
func (rd *Reader) U32() uint32 {
	if rd.err != nil {
		return 0
	}
	var buf [4]byte
	if _, err := io.ReadFull(rd.r, buf[:]); err != nil {
		rd.err = ldaerr.Wrapf(err, "read u32")
		return 0
	}
	return binary.LittleEndian.Uint32(buf[:])
}

// U64 reads a uint64.
func (rd *Reader) U64() uint64 {
	if rd.err != nil {
		return 0
	}
	var buf [8]byte
	if _, err := io.ReadFull(rd.r, buf[:]); err != nil {
		rd.err = ldaerr.Wrapf(err, "read u64")
		return 0
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// F64 reads a float64.
func (rd *Reader) F64() float64 { return math.Float64frombits(rd.U64()) }

// Str reads a length-prefixed UTF-8 string.
func (rd *Reader) Str() string {
	n := rd.U32()
	if rd.err != nil || n == 0 {
		return ""
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(rd.r, buf); err != nil {
		rd.err = ldaerr.Wrapf(err, "read string body")
		return ""
	}
	return string(buf)
}

// Err returns the first error encountered, if any.
func (rd *Reader) Err() error { return rd.err }

// PickFormat decides whether path should be read/written as JSON or native
// binary, based on its extension: ".json" is JSON, everything else
// (including no extension) is the native binary container.
func PickFormat(path string) (json bool) {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// SaveJSON marshals v as indented JSON to path.
func SaveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ldaerr.Wrapf(err, "marshal json")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ldaerr.Wrapf(err, "write %s", path)
	}
	return nil
}

// LoadJSON unmarshals path into v.
func LoadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return ldaerr.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return ldaerr.Wrapf(err, "unmarshal json")
	}
	return nil
}

// CreateFile opens path for writing, truncating it, with a descriptive error.
func CreateFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, ldaerr.Wrapf(err, "create %s", path)
	}
	return f, nil
}

// OpenFile opens path for reading, with a descriptive error.
func OpenFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ldaerr.Wrapf(err, "open %s", path)
	}
	return f, nil
}

// SniffMagic peeks the first 4 bytes of path without consuming the file,
// used by generic Load functions that must pick a decoder before knowing
// the caller's intent.
func SniffMagic(path string) (Magic, error) {
	f, err := os.Open(path)
	if err != nil {
		return Magic{}, ldaerr.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var m Magic
	if _, err := io.ReadFull(f, m[:]); err != nil {
		return Magic{}, ldaerr.Wrapf(err, "sniff magic of %s", path)
	}
	return m, nil
}
