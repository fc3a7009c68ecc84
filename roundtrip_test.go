package bbfs

import (
	"bytes"
	"math/rand"
	"testing"
)

// TestWriteReadRoundTrip exercises spec.md §8's round-trip law: write(file,
// offset, bytes); read(file, offset, len) returns the bytes written, here
// across a span that forces growth through several levels.
func TestWriteReadRoundTrip(t *testing.T) {
	sb, _ := formatMem(t, scenario1DeviceSize)
	root := mustGetRoot(t, sb)

	f, err := sb.Create(root, "f", 0644)
	if err != nil {
		t.Fatalf("Create: %s", err)
	}

	src := rand.New(rand.NewSource(1))
	data := make([]byte, PageSize*5+137)
	src.Read(data)

	if _, err := f.WriteAt(data, 0); err != nil {
		t.Fatalf("WriteAt: %s", err)
	}

	got := make([]byte, len(data))
	n, err := f.ReadAt(got, 0)
	if err != nil {
		t.Fatalf("ReadAt: %s", err)
	}
	if n != len(data) {
		t.Fatalf("ReadAt returned %d bytes, want %d", n, len(data))
	}
	if !bytes.Equal(got, data) {
		t.Errorf("round trip mismatch")
	}
}

// TestWriteReadAtOffset exercises a read/write that doesn't start at
// block 0, forcing the partial-block read-modify-write path in WriteAt.
func TestWriteReadAtOffset(t *testing.T) {
	sb, _ := formatMem(t, scenario1DeviceSize)
	root := mustGetRoot(t, sb)

	f, err := sb.Create(root, "f", 0644)
	if err != nil {
		t.Fatalf("Create: %s", err)
	}

	first := bytes.Repeat([]byte{'a'}, PageSize)
	if _, err := f.WriteAt(first, 0); err != nil {
		t.Fatalf("WriteAt(first): %s", err)
	}

	patch := []byte("PATCH")
	off := int64(PageSize/2 + 10)
	if _, err := f.WriteAt(patch, off); err != nil {
		t.Fatalf("WriteAt(patch): %s", err)
	}

	got := make([]byte, PageSize)
	if _, err := f.ReadAt(got, 0); err != nil {
		t.Fatalf("ReadAt: %s", err)
	}
	if !bytes.Equal(got[off:off+int64(len(patch))], patch) {
		t.Errorf("patch not applied at offset %d: got %q", off, got[off:off+int64(len(patch))])
	}
	if !bytes.Equal(got[:off], first[:off]) {
		t.Errorf("bytes before patch were clobbered")
	}
}

// TestReadUnmappedBlockIsZero exercises spec.md §4.4's "unmapped reads
// return zeroed pages" behavior.
func TestReadUnmappedBlockIsZero(t *testing.T) {
	sb, _ := formatMem(t, scenario1DeviceSize)
	root := mustGetRoot(t, sb)

	f, err := sb.Create(root, "f", 0644)
	if err != nil {
		t.Fatalf("Create: %s", err)
	}
	// force the Size field past the first block without ever writing it,
	// simulating a sparse-looking region within the mapped size.
	f.Disk.Size = PageSize * 2
	if err := f.WriteInode(); err != nil {
		t.Fatalf("WriteInode: %s", err)
	}

	got := make([]byte, PageSize)
	if _, err := f.ReadAt(got, 0); err != nil {
		t.Fatalf("ReadAt: %s", err)
	}
	if !bytes.Equal(got, make([]byte, PageSize)) {
		t.Errorf("unmapped block did not read back as zero")
	}
}

// TestCreateUnlinkRoundTripLaw exercises spec.md §8's round-trip law:
// create(name); unlink(name) returns the filesystem to a state in which
// lookup(name) is negative and the freshly used inode bit is 0 again.
func TestCreateUnlinkRoundTripLaw(t *testing.T) {
	sb, _ := formatMem(t, scenario1DeviceSize)
	root := mustGetRoot(t, sb)

	f, err := sb.Create(root, "f", 0644)
	if err != nil {
		t.Fatalf("Create: %s", err)
	}
	if err := sb.Unlink(root, "f"); err != nil {
		t.Fatalf("Unlink: %s", err)
	}

	if _, err := sb.Lookup(root, "f"); err != ErrNotExist {
		t.Errorf("Lookup after unlink = %v, want ErrNotExist", err)
	}
	if set, err := sb.ImapBitSet(f.Ino); err != nil || set {
		t.Errorf("IMAP bit for %d: set=%v err=%v, want false", f.Ino, set, err)
	}
}

// TestFormatMountUnmountLaw exercises spec.md §8's mkfs/mount/umount law:
// a freshly formatted device's root is an empty directory.
func TestFormatMountUnmountLaw(t *testing.T) {
	dev := newMemDevice()
	if err := Format(dev, scenario1DeviceSize); err != nil {
		t.Fatalf("Format: %s", err)
	}

	sb, err := Load(dev)
	if err != nil {
		t.Fatalf("Load: %s", err)
	}
	root, err := GetInode(sb, 0)
	if err != nil {
		t.Fatalf("GetInode(0): %s", err)
	}
	entries, err := sb.Scan(root)
	if err != nil {
		t.Fatalf("Scan: %s", err)
	}
	if len(entries) != 0 {
		t.Errorf("freshly mounted root has %d entries, want 0", len(entries))
	}
}
