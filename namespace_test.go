package bbfs

import "testing"

// TestMkdirNlinkCounting exercises spec.md §8 scenario 2: mkdir /a;
// mkdir /a/b should leave / at nlink 3, /a at nlink 3, /a/b at nlink 2.
func TestMkdirNlinkCounting(t *testing.T) {
	sb, _ := formatMem(t, scenario1DeviceSize)
	root := mustGetRoot(t, sb)

	a, err := sb.Mkdir(root, "a", 0755)
	if err != nil {
		t.Fatalf("Mkdir(a): %s", err)
	}
	if _, err := sb.Mkdir(a, "b", 0755); err != nil {
		t.Fatalf("Mkdir(a/b): %s", err)
	}

	root = mustGetRoot(t, sb)
	a, err = GetInode(sb, a.Ino)
	if err != nil {
		t.Fatalf("GetInode(a): %s", err)
	}
	b, err := sb.Lookup(a, "b")
	if err != nil {
		t.Fatalf("Lookup(a/b): %s", err)
	}

	if root.Disk.Nlink != 3 {
		t.Errorf("root nlink = %d, want 3", root.Disk.Nlink)
	}
	if a.Disk.Nlink != 3 {
		t.Errorf("/a nlink = %d, want 3", a.Disk.Nlink)
	}
	if b.Disk.Nlink != 2 {
		t.Errorf("/a/b nlink = %d, want 2", b.Disk.Nlink)
	}

	rootEntries, _ := sb.Scan(root)
	if len(rootEntries) != 1 || rootEntries[0].Name != "a" {
		t.Errorf("root entries = %v, want [a]", rootEntries)
	}
	aEntries, _ := sb.Scan(a)
	if len(aEntries) != 1 || aEntries[0].Name != "b" {
		t.Errorf("/a entries = %v, want [b]", aEntries)
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	sb, _ := formatMem(t, scenario1DeviceSize)
	root := mustGetRoot(t, sb)

	if _, err := sb.Create(root, "f", 0644); err != nil {
		t.Fatalf("Create: %s", err)
	}
	if _, err := sb.Create(root, "f", 0644); err != ErrExist {
		t.Errorf("Create duplicate = %v, want ErrExist", err)
	}
}

func TestSymlinkReadlinkAndSizeLimit(t *testing.T) {
	sb, _ := formatMem(t, scenario1DeviceSize)
	root := mustGetRoot(t, sb)

	lnk, err := sb.Symlink(root, "lnk", "target")
	if err != nil {
		t.Fatalf("Symlink: %s", err)
	}
	if lnk.Disk.Size != 6 {
		t.Errorf("symlink size = %d, want 6", lnk.Disk.Size)
	}
	target, err := lnk.Readlink()
	if err != nil {
		t.Fatalf("Readlink: %s", err)
	}
	if target != "target" {
		t.Errorf("Readlink = %q, want %q", target, "target")
	}

	// boundary: exactly MaxSymlinkLen-1 bytes succeeds, MaxSymlinkLen
	// bytes is rejected (spec.md §8).
	ok := make([]byte, MaxSymlinkLen-1)
	for i := range ok {
		ok[i] = 'a'
	}
	if _, err := sb.Symlink(root, "ok", string(ok)); err != nil {
		t.Errorf("Symlink(%d bytes) = %v, want success", len(ok), err)
	}

	tooLong := make([]byte, MaxSymlinkLen)
	for i := range tooLong {
		tooLong[i] = 'a'
	}
	if _, err := sb.Symlink(root, "toolong", string(tooLong)); err != ErrSymlinkTooLong {
		t.Errorf("Symlink(%d bytes) = %v, want ErrSymlinkTooLong", len(tooLong), err)
	}
}

// TestLinkUnlinkIndependence exercises spec.md §8 scenario 6: create /a;
// link /a /b; unlink /a; read /b should still succeed, and the inode's
// IMAP bit should remain set until the second unlink.
func TestLinkUnlinkIndependence(t *testing.T) {
	sb, _ := formatMem(t, scenario1DeviceSize)
	root := mustGetRoot(t, sb)

	a, err := sb.Create(root, "a", 0644)
	if err != nil {
		t.Fatalf("Create(a): %s", err)
	}
	if _, err := a.WriteAt([]byte("hello"), 0); err != nil {
		t.Fatalf("WriteAt: %s", err)
	}

	if err := sb.Link(a, root, "b"); err != nil {
		t.Fatalf("Link: %s", err)
	}

	if err := sb.Unlink(root, "a"); err != nil {
		t.Fatalf("Unlink(a): %s", err)
	}
	if set, err := sb.ImapBitSet(a.Ino); err != nil || !set {
		t.Errorf("IMAP bit for shared inode after first unlink: set=%v err=%v, want true", set, err)
	}

	b, err := sb.Lookup(root, "b")
	if err != nil {
		t.Fatalf("Lookup(b): %s", err)
	}
	buf := make([]byte, 5)
	if _, err := b.ReadAt(buf, 0); err != nil {
		t.Fatalf("ReadAt(b): %s", err)
	}
	if string(buf) != "hello" {
		t.Errorf("ReadAt(b) = %q, want %q", buf, "hello")
	}

	if err := sb.Unlink(root, "b"); err != nil {
		t.Fatalf("Unlink(b): %s", err)
	}
	if set, _ := sb.ImapBitSet(a.Ino); set {
		t.Errorf("IMAP bit for inode still set after final unlink")
	}
}

// TestUnlinkFreesTargetNotParentRuns is the regression test for spec.md
// §9's first Open Question: unlink must free the target inode's own
// runs, never the parent directory's.
func TestUnlinkFreesTargetNotParentRuns(t *testing.T) {
	sb, _ := formatMem(t, scenario1DeviceSize)
	root := mustGetRoot(t, sb)

	f, err := sb.Create(root, "f", 0644)
	if err != nil {
		t.Fatalf("Create: %s", err)
	}
	if _, err := f.WriteAt(make([]byte, PageSize*3), 0); err != nil {
		t.Fatalf("WriteAt: %s", err)
	}
	// WriteAt grows the in-core levels array only; persist it so Unlink,
	// which rereads the inode, sees the file's runs.
	if err := f.WriteInode(); err != nil {
		t.Fatalf("WriteInode: %s", err)
	}
	f, err = sb.Lookup(root, "f")
	if err != nil {
		t.Fatalf("Lookup: %s", err)
	}
	fileRuns := append([]uint32(nil), f.Disk.Levels[:f.Disk.LNum]...)

	rootLNumBefore := root.Disk.LNum
	rootRunsBefore := append([]uint32(nil), root.Disk.Levels[:root.Disk.LNum]...)

	if err := sb.Unlink(root, "f"); err != nil {
		t.Fatalf("Unlink: %s", err)
	}

	root = mustGetRoot(t, sb)
	if root.Disk.LNum != rootLNumBefore {
		t.Errorf("root LNum changed by Unlink: %d -> %d", rootLNumBefore, root.Disk.LNum)
	}
	for i, r := range rootRunsBefore {
		if root.Disk.Levels[i] != r {
			t.Errorf("root run %d changed by Unlink: %d -> %d", i, r, root.Disk.Levels[i])
		}
	}
	for level, start := range fileRuns {
		runLen := uint32(1) << uint(level)
		for o := uint32(0); o < runLen; o++ {
			if set, _ := sb.BmapBitSet(start + o); set {
				t.Errorf("file's block %d still marked allocated after Unlink", start+o)
			}
		}
	}
}

func TestRmdirRequiresEmpty(t *testing.T) {
	sb, _ := formatMem(t, scenario1DeviceSize)
	root := mustGetRoot(t, sb)

	if _, err := sb.Mkdir(root, "a", 0755); err != nil {
		t.Fatalf("Mkdir: %s", err)
	}
	a, err := sb.Lookup(root, "a")
	if err != nil {
		t.Fatalf("Lookup: %s", err)
	}
	if _, err := sb.Create(a, "f", 0644); err != nil {
		t.Fatalf("Create(a/f): %s", err)
	}

	if err := sb.Rmdir(root, "a"); err != ErrNotEmpty {
		t.Errorf("Rmdir(non-empty) = %v, want ErrNotEmpty", err)
	}

	if err := sb.Unlink(a, "f"); err != nil {
		t.Fatalf("Unlink(a/f): %s", err)
	}
	if err := sb.Rmdir(root, "a"); err != nil {
		t.Errorf("Rmdir(empty) = %v, want success", err)
	}
}

func TestRenameReplacesExistingDestination(t *testing.T) {
	sb, _ := formatMem(t, scenario1DeviceSize)
	root := mustGetRoot(t, sb)

	dirA, err := sb.Mkdir(root, "a", 0755)
	if err != nil {
		t.Fatalf("Mkdir(a): %s", err)
	}
	dirB, err := sb.Mkdir(root, "b", 0755)
	if err != nil {
		t.Fatalf("Mkdir(b): %s", err)
	}

	src, err := sb.Create(dirA, "src", 0644)
	if err != nil {
		t.Fatalf("Create(a/src): %s", err)
	}
	victim, err := sb.Create(dirB, "dst", 0644)
	if err != nil {
		t.Fatalf("Create(b/dst): %s", err)
	}

	if err := sb.Rename(dirA, "src", dirB, "dst"); err != nil {
		t.Fatalf("Rename: %s", err)
	}

	// the old occupant of b/dst is gone, not merely shadowed by a
	// duplicate entry (spec.md §9's Open Question).
	entries, err := sb.Scan(dirB)
	if err != nil {
		t.Fatalf("Scan(b): %s", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Scan(b) after rename = %v, want exactly one entry", entries)
	}
	if entries[0].Name != "dst" || entries[0].Ino != src.Ino {
		t.Errorf("Scan(b) = %+v, want dst -> %d", entries[0], src.Ino)
	}
	if set, _ := sb.ImapBitSet(victim.Ino); set {
		t.Errorf("IMAP bit for replaced destination inode %d still set", victim.Ino)
	}

	if _, err := sb.Find(dirA, "src"); err != ErrNotExist {
		t.Errorf("Find(a/src) after rename = %v, want ErrNotExist", err)
	}
}

func TestRenameWithinSameDirectory(t *testing.T) {
	sb, _ := formatMem(t, scenario1DeviceSize)
	root := mustGetRoot(t, sb)

	f, err := sb.Create(root, "old", 0644)
	if err != nil {
		t.Fatalf("Create: %s", err)
	}
	if err := sb.Rename(root, "old", root, "new"); err != nil {
		t.Fatalf("Rename: %s", err)
	}

	if _, err := sb.Find(root, "old"); err != ErrNotExist {
		t.Errorf("Find(old) after rename = %v, want ErrNotExist", err)
	}
	de, err := sb.Find(root, "new")
	if err != nil {
		t.Fatalf("Find(new): %s", err)
	}
	if de.Ino != f.Ino {
		t.Errorf("Find(new).Ino = %d, want %d", de.Ino, f.Ino)
	}
}
