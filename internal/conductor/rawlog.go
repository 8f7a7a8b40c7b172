package conductor

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

// RawLogFactory is the external collaborator spec.md §1/§3 delegates raw
// log-buffer file creation to: "raw log-buffer file creation (delegated
// to a log-factory)... is explicitly out of scope." The conductor only
// needs to call it and store the opaque handle it returns; the memory-
// mapped file layout behind that handle is not this package's concern.
type RawLogFactory interface {
	// Allocate produces a log-buffer set for a stream with the given term
	// length and initial term id, returning an opaque handle the
	// conductor stores on the publication/image and later hands back to
	// Release. It returns an error (mapped to RESOURCE_EXHAUSTED) if no
	// log can be allocated.
	Allocate(streamID int32, termLength int, initTermID int32) (any, error)

	// Release returns a previously-allocated log buffer, called when a
	// command fails partway through and any partial allocation must be
	// rolled back (spec.md §7), or when a publication/image finishes
	// CLOSING.
	Release(handle any)
}

// NullRawLogFactory is a RawLogFactory that hands out a distinct opaque
// token per call without touching the filesystem. It exists so the
// conductor is constructible and testable without a real log-factory
// collaborator wired in.
type NullRawLogFactory struct {
	next int64
}

// Allocate implements RawLogFactory.
func (f *NullRawLogFactory) Allocate(streamID int32, termLength int, initTermID int32) (any, error) {
	f.next++
	return f.next, nil
}

// Release implements RawLogFactory.
func (f *NullRawLogFactory) Release(handle any) {}

// LogHandle is the opaque handle FileRawLogFactory hands back: the path to
// a sparse file sized for three rotating terms (glossary: "the log is
// three rotating terms"), the only detail cmd/driver needs to pass on to a
// real sender/receiver agent that maps it.
type LogHandle struct {
	Path       string
	TermLength int
	InitTermID int32
}

// FileRawLogFactory allocates a sparse file per stream under dir, sized to
// three rotating terms, standing in for the real raw-log factory spec.md
// §1 places out of scope. It does not memory-map the file itself — that is
// the data-plane agents' job once they receive the handle over their
// mailbox — it only reserves the backing storage and hands back a path.
type FileRawLogFactory struct {
	dir     string
	counter int64
}

// NewFileRawLogFactory ensures dir exists and returns a factory rooted at
// it.
func NewFileRawLogFactory(dir string) (*FileRawLogFactory, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("rawlog: create log dir %s: %w", dir, err)
	}

	return &FileRawLogFactory{dir: dir}, nil
}

// Allocate implements RawLogFactory by truncating a new sparse file to
// three term lengths and returning its path.
func (f *FileRawLogFactory) Allocate(streamID int32, termLength int, initTermID int32) (any, error) {
	id := atomic.AddInt64(&f.counter, 1)
	path := filepath.Join(f.dir, fmt.Sprintf("stream-%d-%d.logbuffer", streamID, id))

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("rawlog: create %s: %w", path, err)
	}
	defer file.Close()

	if err := file.Truncate(int64(termLength) * 3); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("rawlog: size %s: %w", path, err)
	}

	return LogHandle{Path: path, TermLength: termLength, InitTermID: initTermID}, nil
}

// Release implements RawLogFactory by removing the backing file.
func (f *FileRawLogFactory) Release(handle any) {
	h, ok := handle.(LogHandle)
	if !ok {
		return
	}

	os.Remove(h.Path)
}
