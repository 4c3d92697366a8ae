package rdke

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultArchivePath is where the archive is written when the scenario does not say otherwise.
const DefaultArchivePath = "./data_out/out.csv"

// Archiver receives the archived states of a run.
type Archiver interface {
	Append(x StateVector) error
	Flush() error
}

// ArchiveConfig configures the archive file.
type ArchiveConfig struct {
	Path      string
	Timestamp bool // insert the creation time before the extension
}

// Filename returns the path of the archive for a run created at t.
func (c ArchiveConfig) Filename(t time.Time) string {
	path := c.Path
	if path == "" {
		path = DefaultArchivePath
	}
	if !c.Timestamp {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d-%02d-%02dT%02d.%02d.%02d%s", strings.TrimSuffix(path, ext), t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), ext)
}

// CSVArchive writes one CSV row per archived state, after a header naming every state field.
// Rows are buffered until Flush.
type CSVArchive struct {
	w    *csv.Writer
	buf  *bufio.Writer
	file *os.File
	rows uint64
}

// NewCSVArchive writes the header to w and returns the archive.
func NewCSVArchive(w io.Writer) (*CSVArchive, error) {
	buf := bufio.NewWriterSize(w, 64*1024)
	a := &CSVArchive{w: csv.NewWriter(buf), buf: buf}
	if err := a.w.Write(Header()); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrArchive, err)
	}
	return a, nil
}

// CreateCSVArchive creates (or truncates) the archive file, creating its directory if needed.
// The returned archive requires a Close call.
func CreateCSVArchive(conf ArchiveConfig) (*CSVArchive, error) {
	filename := conf.Filename(time.Now())
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchive, err)
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchive, err)
	}
	a, err := NewCSVArchive(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	a.file = f
	return a, nil
}

// Append implements Archiver.
func (a *CSVArchive) Append(x StateVector) error {
	if err := a.w.Write(x.Record()); err != nil {
		return fmt.Errorf("%w: row %d: %v", ErrArchive, a.rows, err)
	}
	a.rows++
	return nil
}

// Flush implements Archiver.
func (a *CSVArchive) Flush() error {
	a.w.Flush()
	if err := a.w.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrArchive, err)
	}
	if err := a.buf.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrArchive, err)
	}
	return nil
}

// Rows returns the number of rows appended so far, header excluded.
func (a *CSVArchive) Rows() uint64 {
	return a.rows
}

// Name returns the file name of the archive, or an empty string if it does not write to a file.
func (a *CSVArchive) Name() string {
	if a.file == nil {
		return ""
	}
	return a.file.Name()
}

// Close flushes the archive and closes its file, if any.
func (a *CSVArchive) Close() error {
	err := a.Flush()
	if a.file != nil {
		if cerr := a.file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%w: %v", ErrArchive, cerr)
		}
	}
	return err
}
