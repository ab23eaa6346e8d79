package reader

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// MagicString identifies a file as a simulation recording
const MagicString = "CARLA_RECORDER"

// RecInfo is the file header ahead of the packet stream
type RecInfo struct {
	Magic   string
	Version uint16
	MapFile string
	Date    int64
}

// ReadRecInfo decodes the file header. The caller is responsible for
// checking the magic against MagicString.
func ReadRecInfo(br *ByteReader) (RecInfo, error) {
	var info RecInfo
	var err error
	if info.Magic, err = br.ReadString(); err != nil {
		return info, fmt.Errorf("failed to read file magic: %w", err)
	}
	if info.Version, err = br.ReadUint16(); err != nil {
		return info, fmt.Errorf("failed to read file version: %w", err)
	}
	if info.MapFile, err = br.ReadString(); err != nil {
		return info, fmt.Errorf("failed to read map name: %w", err)
	}
	if info.Date, err = br.ReadInt64(); err != nil {
		return info, fmt.Errorf("failed to read recording date: %w", err)
	}
	return info, nil
}

// Recording owns an open recording file and the ByteReader over it. The
// file handle is held until Close; queries scope one Recording per call.
type Recording struct {
	file   *os.File
	br     *ByteReader
	path   string
	size   int64
	closed bool
}

// OpenRecording opens a recording file for sequential reading
func OpenRecording(path string, encoding StringEncoding) (*Recording, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording file %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat recording file %s: %w", path, err)
	}

	logrus.Debugf("opened recording %s (%d bytes)", path, info.Size())

	return &Recording{
		file: file,
		br:   NewByteReader(bufio.NewReaderSize(file, 1024*1024), encoding),
		path: path,
		size: info.Size(),
	}, nil
}

// Reader returns the ByteReader positioned at the current stream offset
func (r *Recording) Reader() *ByteReader {
	return r.br
}

// Path returns the path of the recording file
func (r *Recording) Path() string {
	return r.path
}

// Size returns the total size of the recording file in bytes
func (r *Recording) Size() int64 {
	return r.size
}

// Close closes the recording file
func (r *Recording) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}
