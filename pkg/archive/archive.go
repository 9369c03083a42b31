// Package archive implements the row-stream container file used by bulk
// export and load: a small header followed by rows framed exactly as the
// wire format frames them, a 2-byte little-endian length then the row
// bytes. The container carries no index and no compression; it is a
// faithful spool of the rows that crossed the wire.
package archive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"github.com/muninndb/muninn/pkg/packing"
)

const formatVersion = 1

var magic = [4]byte{'M', 'U', 'N', 'A'}

var (
	// ErrBadHeader means the file does not start with the archive magic
	// or carries an unknown format version.
	ErrBadHeader = errors.New("archive: bad file header")

	// ErrTruncated means a row frame ended before its declared length.
	ErrTruncated = errors.New("archive: truncated row frame")

	// ErrRowTooLarge means a row exceeds what the 2-byte frame can hold.
	ErrRowTooLarge = errors.New("archive: row exceeds maximum frame size")
)

// Writer appends framed rows to an archive file. Writes are buffered;
// call Close (or Flush) to make them durable.
type Writer struct {
	file   *os.File
	writer *bufio.Writer
	mutex  sync.Mutex
	rows   int64
}

// Create creates (or truncates) an archive file and writes its header.
func Create(path string) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}
	w := &Writer{
		file:   file,
		writer: bufio.NewWriter(file),
	}
	header := append(magic[:], formatVersion)
	if _, err := w.writer.Write(header); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write archive header: %w", err)
	}
	return w, nil
}

// Append writes one row frame.
func (w *Writer) Append(row []byte) error {
	if len(row) > math.MaxUint16 {
		return fmt.Errorf("%w: %d bytes", ErrRowTooLarge, len(row))
	}
	w.mutex.Lock()
	defer w.mutex.Unlock()

	var prefix [packing.Uint16Size]byte
	packing.PutUint16(prefix[:], uint16(len(row)))
	if _, err := w.writer.Write(prefix[:]); err != nil {
		return err
	}
	if _, err := w.writer.Write(row); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Rows returns the number of rows appended so far.
func (w *Writer) Rows() int64 {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.rows
}

// Flush pushes buffered frames to the file and fsyncs.
func (w *Writer) Flush() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if err := w.writer.Flush(); err != nil {
		return err
	}
	return w.file.Sync()
}

// Close flushes and closes the archive.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Reader iterates the row frames of an archive file in order.
type Reader struct {
	file   *os.File
	reader *bufio.Reader
}

// Open opens an archive file and validates its header.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	r := &Reader{
		file:   file,
		reader: bufio.NewReader(file),
	}
	var header [5]byte
	if _, err := io.ReadFull(r.reader, header[:]); err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if [4]byte(header[:4]) != magic {
		file.Close()
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadHeader, header[:4])
	}
	if header[4] != formatVersion {
		file.Close()
		return nil, fmt.Errorf("%w: unknown version %d", ErrBadHeader, header[4])
	}
	return r, nil
}

// Next returns the next row. It returns io.EOF after the last row; a
// frame cut short by truncation is reported as ErrTruncated, never
// silently dropped, since the rows after it cannot be trusted.
func (r *Reader) Next() ([]byte, error) {
	var prefix [packing.Uint16Size]byte
	if _, err := io.ReadFull(r.reader, prefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	row := make([]byte, packing.Uint16(prefix[:]))
	if _, err := io.ReadFull(r.reader, row); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return row, nil
}

// Close closes the archive.
func (r *Reader) Close() error {
	return r.file.Close()
}
