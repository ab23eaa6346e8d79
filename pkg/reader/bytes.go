package reader

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
)

// StringEncoding selects how length-prefixed strings in a recording are
// decoded. Recordings carry plain UTF-8 by default; some older producers
// wrote UTF-16LE text instead, with the length prefix still counting bytes.
type StringEncoding int

const (
	// StringUTF8 decodes string payloads as UTF-8 (the default)
	StringUTF8 StringEncoding = iota
	// StringUTF16LE decodes string payloads as little-endian UTF-16
	StringUTF16LE
)

// maxStringLen guards against reading a garbage length prefix from a file
// that is not actually a recording
const maxStringLen = 1 << 14

// ByteReader is a stateful forward-only reader over a recording byte
// stream. All multi-byte values are little-endian. Every read fails with
// io.EOF or io.ErrUnexpectedEOF when the source runs out of bytes, and the
// reader keeps a running count of consumed bytes so callers can verify a
// codec consumed exactly the declared packet size.
type ByteReader struct {
	r        io.Reader
	encoding StringEncoding
	consumed int64
}

// NewByteReader wraps r with the given string encoding
func NewByteReader(r io.Reader, encoding StringEncoding) *ByteReader {
	return &ByteReader{r: r, encoding: encoding}
}

// Tell returns the total number of bytes consumed so far
func (br *ByteReader) Tell() int64 {
	return br.consumed
}

func (br *ByteReader) readInto(v any, size int64) error {
	if err := binary.Read(br.r, binary.LittleEndian, v); err != nil {
		return err
	}
	br.consumed += size
	return nil
}

// ReadUint8 reads a single unsigned byte
func (br *ByteReader) ReadUint8() (uint8, error) {
	var v uint8
	err := br.readInto(&v, 1)
	return v, err
}

// ReadUint16 reads a little-endian unsigned 16-bit integer
func (br *ByteReader) ReadUint16() (uint16, error) {
	var v uint16
	err := br.readInto(&v, 2)
	return v, err
}

// ReadUint32 reads a little-endian unsigned 32-bit integer
func (br *ByteReader) ReadUint32() (uint32, error) {
	var v uint32
	err := br.readInto(&v, 4)
	return v, err
}

// ReadUint64 reads a little-endian unsigned 64-bit integer
func (br *ByteReader) ReadUint64() (uint64, error) {
	var v uint64
	err := br.readInto(&v, 8)
	return v, err
}

// ReadInt32 reads a little-endian signed 32-bit integer
func (br *ByteReader) ReadInt32() (int32, error) {
	var v int32
	err := br.readInto(&v, 4)
	return v, err
}

// ReadInt64 reads a little-endian signed 64-bit integer
func (br *ByteReader) ReadInt64() (int64, error) {
	var v int64
	err := br.readInto(&v, 8)
	return v, err
}

// ReadFloat32 reads a little-endian IEEE 754 32-bit float
func (br *ByteReader) ReadFloat32() (float32, error) {
	var v float32
	err := br.readInto(&v, 4)
	return v, err
}

// ReadFloat64 reads a little-endian IEEE 754 64-bit float
func (br *ByteReader) ReadFloat64() (float64, error) {
	var v float64
	err := br.readInto(&v, 8)
	return v, err
}

// ReadString reads a 16-bit byte-length prefix followed by that many bytes
// of encoded text, decoded per the reader's StringEncoding
func (br *ByteReader) ReadString() (string, error) {
	n, err := br.ReadUint16()
	if err != nil {
		return "", err
	}
	if n > maxStringLen {
		return "", fmt.Errorf("string length %d exceeds limit", n)
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(br.r, buf); err != nil {
		return "", err
	}
	br.consumed += int64(n)

	if br.encoding == StringUTF16LE {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		decoded, err := dec.Bytes(buf)
		if err != nil {
			return "", fmt.Errorf("failed to decode UTF-16 string: %w", err)
		}
		return string(decoded), nil
	}
	return string(buf), nil
}

// Vector3 is a 3-component single-precision vector (location, rotation,
// velocity, extent)
type Vector3 struct {
	X, Y, Z float32
}

// ReadVector3 reads three consecutive 32-bit floats
func (br *ByteReader) ReadVector3() (Vector3, error) {
	var v Vector3
	var err error
	if v.X, err = br.ReadFloat32(); err != nil {
		return v, err
	}
	if v.Y, err = br.ReadFloat32(); err != nil {
		return v, err
	}
	v.Z, err = br.ReadFloat32()
	return v, err
}

// Color is an 8-bit-per-channel RGB color
type Color struct {
	R, G, B uint8
}

// ReadColor reads three consecutive unsigned bytes
func (br *ByteReader) ReadColor() (Color, error) {
	var c Color
	var err error
	if c.R, err = br.ReadUint8(); err != nil {
		return c, err
	}
	if c.G, err = br.ReadUint8(); err != nil {
		return c, err
	}
	c.B, err = br.ReadUint8()
	return c, err
}

// Skip advances the reader by exactly n bytes
func (br *ByteReader) Skip(n uint32) error {
	copied, err := io.CopyN(io.Discard, br.r, int64(n))
	br.consumed += copied
	if err != nil {
		return err
	}
	return nil
}
