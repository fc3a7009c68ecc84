package bbfs

import (
	"fmt"
	"os"
	"sync"
)

// BlockDevice is the block cache boundary named in spec.md §1: the core
// treats it as a trusted, write-back cache and never reasons about its
// internals. A host VFS adapter backed by a real page cache would satisfy
// this interface; FileDevice below is a minimal reference implementation
// suitable for a standalone process (mkfs, fsck, tests) with no kernel
// page cache underneath it.
type BlockDevice interface {
	// ReadBlock reads the block at the given absolute block index into a
	// freshly allocated PageSize-byte buffer.
	ReadBlock(n uint32) ([]byte, error)

	// WriteBlock writes buf (which must be exactly PageSize bytes) to the
	// block at the given absolute block index and marks it dirty.
	WriteBlock(n uint32, buf []byte) error

	// Flush writes back any buffers still marked dirty. Core operations
	// never call Flush themselves (spec.md §5: "no transaction boundary
	// is defined"); it exists for callers (mkfs, tests) that need the
	// image durable before returning.
	Flush() error
}

// FileDevice is a BlockDevice backed by an *os.File (a regular file or a
// block device special file). It performs no caching beyond the dirty set
// needed to implement Flush: ReadBlock returns a copy of a dirty block
// when one is held, and reads the file otherwise.
//
// Grounded on the teacher's io.ReaderAt-backed Superblock.fs (super.go),
// generalized from read-only to read-write since bbfs mutates its image
// in place instead of only ever reading a pre-built one.
type FileDevice struct {
	f *os.File

	mu    sync.Mutex
	dirty map[uint32][]byte
}

// NewFileDevice wraps f as a BlockDevice.
func NewFileDevice(f *os.File) *FileDevice {
	return &FileDevice{f: f, dirty: make(map[uint32][]byte)}
}

// OpenFileDevice opens path for read-write and wraps it as a BlockDevice.
func OpenFileDevice(path string) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return NewFileDevice(f), nil
}

func (d *FileDevice) ReadBlock(n uint32) ([]byte, error) {
	d.mu.Lock()
	if buf, ok := d.dirty[n]; ok {
		out := make([]byte, PageSize)
		copy(out, buf)
		d.mu.Unlock()
		return out, nil
	}
	d.mu.Unlock()

	buf := make([]byte, PageSize)
	_, err := d.f.ReadAt(buf, int64(n)*PageSize)
	if err != nil {
		return nil, fmt.Errorf("bbfs: read block %d: %w", n, ErrIO)
	}
	return buf, nil
}

func (d *FileDevice) WriteBlock(n uint32, buf []byte) error {
	if len(buf) != PageSize {
		return fmt.Errorf("bbfs: write block %d: buffer is %d bytes, want %d", n, len(buf), PageSize)
	}
	cp := make([]byte, PageSize)
	copy(cp, buf)

	d.mu.Lock()
	d.dirty[n] = cp
	d.mu.Unlock()
	return nil
}

// Flush writes every dirty block back to the underlying file and clears
// the dirty set.
func (d *FileDevice) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for n, buf := range d.dirty {
		if _, err := d.f.WriteAt(buf, int64(n)*PageSize); err != nil {
			return fmt.Errorf("bbfs: flush block %d: %w", n, ErrIO)
		}
		delete(d.dirty, n)
	}
	return d.f.Sync()
}

// Close flushes and closes the underlying file.
func (d *FileDevice) Close() error {
	if err := d.Flush(); err != nil {
		return err
	}
	return d.f.Close()
}
