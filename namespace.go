package bbfs

import "time"

// Each namespace operation follows the pattern (find or allocate a DE slot
// in the parent) -> (allocate/attach the target inode) -> (mark dirty),
// grounded on the corresponding function in original_source/inode.c. The
// three Open-Question fixes spec.md §9 requires are applied here rather
// than mimicked: Unlink frees the target's own runs, Rmdir enforces
// emptiness, and cross-directory Rename replaces an existing destination.

// Lookup finds name in dir and returns its target inode, or ErrNotExist.
// Grounded on original_source/inode.c's bbfs_lookup.
func (sb *Superblock) Lookup(dir *InCoreInode, name string) (*InCoreInode, error) {
	if !dir.IsDir() {
		return nil, ErrNotDir
	}
	de, err := sb.Find(dir, name)
	if err != nil {
		return nil, err
	}
	return GetInode(sb, de.Ino)
}

// newChildInode allocates an inode number and IMAP bit, populates a fresh
// DiskInode, and writes it to ITAB.
func (sb *Superblock) newChildInode(mode uint32, nlink uint32, size uint32) (*InCoreInode, error) {
	ino, err := sb.AllocInode()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ci := &InCoreInode{
		Ino: ino,
		sb:  sb,
		Disk: DiskInode{
			Valid: 1,
			Mode:  mode,
			Size:  size,
			Nlink: nlink,
			Ctime: now,
			Atime: now,
			Mtime: now,
		},
	}
	if err := ci.WriteInode(); err != nil {
		sb.FreeInode(ino)
		return nil, err
	}
	return ci, nil
}

// Create makes a new regular file named name in dir (spec.md §4.6: "new
// inode, S_IFREG|mode, nlink=1, size=0").
//
// Grounded on original_source/inode.c's bbfs_create.
func (sb *Superblock) Create(dir *InCoreInode, name string, mode uint32) (*InCoreInode, error) {
	if !dir.IsDir() {
		return nil, ErrNotDir
	}
	if len(name) > NameMax {
		return nil, ErrNameTooLong
	}
	if _, err := sb.Find(dir, name); err == nil {
		return nil, ErrExist
	} else if err != ErrNotExist {
		return nil, err
	}

	child, err := sb.newChildInode(S_IFREG|mode, 1, 0)
	if err != nil {
		return nil, err
	}

	de := DirEntry{Valid: true, Type: FileType, Ino: child.Ino, Name: name}
	if err := sb.InsertSlot(dir, de); err != nil {
		sb.FreeInode(child.Ino)
		return nil, err
	}
	return child, nil
}

// Mkdir makes a new subdirectory named name in dir (spec.md §4.6: "new
// inode, S_IFDIR|mode, nlink=2, size=sizeof(IN)"; parent nlink++ for the
// ".." contributed by the child).
//
// Grounded on original_source/inode.c's bbfs_mkdir.
func (sb *Superblock) Mkdir(dir *InCoreInode, name string, mode uint32) (*InCoreInode, error) {
	if !dir.IsDir() {
		return nil, ErrNotDir
	}
	if len(name) > NameMax {
		return nil, ErrNameTooLong
	}
	if _, err := sb.Find(dir, name); err == nil {
		return nil, ErrExist
	} else if err != ErrNotExist {
		return nil, err
	}

	child, err := sb.newChildInode(S_IFDIR|mode, 2, PageSize)
	if err != nil {
		return nil, err
	}

	de := DirEntry{Valid: true, Type: DirType, Ino: child.Ino, Name: name}
	if err := sb.InsertSlot(dir, de); err != nil {
		sb.FreeInode(child.Ino)
		return nil, err
	}

	dir.Disk.Nlink++
	if err := dir.WriteInode(); err != nil {
		return nil, err
	}
	return child, nil
}

// Symlink makes a new symlink named name in dir with the given target
// (spec.md §4.6: "new inode, S_IFLNK|0777, i_link=target, size=strlen").
// target longer than MaxSymlinkLen-1 bytes is rejected with
// ErrSymlinkTooLong (spec.md §8's boundary behavior: 4023 bytes succeeds,
// 4024 is rejected).
//
// Grounded on original_source/inode.c's bbfs_symlink.
func (sb *Superblock) Symlink(dir *InCoreInode, name, target string) (*InCoreInode, error) {
	if !dir.IsDir() {
		return nil, ErrNotDir
	}
	if len(name) > NameMax {
		return nil, ErrNameTooLong
	}
	if len(target) > MaxSymlinkLen-1 {
		return nil, ErrSymlinkTooLong
	}
	if _, err := sb.Find(dir, name); err == nil {
		return nil, ErrExist
	} else if err != ErrNotExist {
		return nil, err
	}

	child, err := sb.newChildInode(S_IFLNK|0777, 1, uint32(len(target)))
	if err != nil {
		return nil, err
	}
	child.Disk.SymTarget = target
	if err := child.WriteInode(); err != nil {
		sb.FreeInode(child.Ino)
		return nil, err
	}

	de := DirEntry{Valid: true, Type: SymlinkType, Ino: child.Ino, Name: name}
	if err := sb.InsertSlot(dir, de); err != nil {
		sb.FreeInode(child.Ino)
		return nil, err
	}
	return child, nil
}

// Readlink returns the target of a symlink inode.
func (i *InCoreInode) Readlink() (string, error) {
	if !i.IsSymlink() {
		return "", ErrInvalidIno
	}
	return i.Disk.SymTarget, nil
}

// Link adds a new name in dir pointing at the existing inode old, copying
// old's type into the new DE (spec.md §4.6: "InsertSlot copying old's type
// and ino"; "target nlink++"). Hard links to directories are refused, as
// on every POSIX filesystem.
//
// Grounded on original_source/inode.c's bbfs_link.
func (sb *Superblock) Link(old *InCoreInode, dir *InCoreInode, name string) error {
	if !dir.IsDir() {
		return ErrNotDir
	}
	if old.IsDir() {
		return ErrIsDir
	}
	if len(name) > NameMax {
		return ErrNameTooLong
	}
	if _, err := sb.Find(dir, name); err == nil {
		return ErrExist
	} else if err != ErrNotExist {
		return err
	}

	de := DirEntry{Valid: true, Type: DirentType(old.Disk.Mode), Ino: old.Ino, Name: name}
	if err := sb.InsertSlot(dir, de); err != nil {
		return err
	}

	old.Disk.Nlink++
	return old.WriteInode()
}

// destroyInode frees every DATA run the target owns and clears its IMAP
// bit. It must be called with the *target* inode, never the parent
// directory — spec.md §9 flags using the parent's levels array here as a
// bug in the original implementation.
func (sb *Superblock) destroyInode(target *InCoreInode) error {
	if err := sb.FreeInodeRuns(&target.Disk); err != nil {
		return err
	}
	return sb.FreeInode(target.Ino)
}

// Unlink removes name from dir and drops the target's link count,
// destroying the inode if it reaches zero (spec.md §4.6: "target
// nlink--; if reached 0, free runs, clear IMAP bit"). Directories cannot
// be removed through Unlink; use Rmdir.
//
// Grounded on original_source/inode.c's bbfs_unlink, with the Open
// Question fix applied: the runs freed here are target.Disk.Levels, never
// dir's.
func (sb *Superblock) Unlink(dir *InCoreInode, name string) error {
	if !dir.IsDir() {
		return ErrNotDir
	}
	de, err := sb.Find(dir, name)
	if err != nil {
		return err
	}
	if de.Type.IsDir() {
		return ErrIsDir
	}

	target, err := GetInode(sb, de.Ino)
	if err != nil {
		return err
	}

	if err := sb.RemoveSlot(dir, name); err != nil {
		return err
	}

	target.Disk.Nlink--
	if target.Disk.Nlink == 0 {
		return sb.destroyInode(target)
	}
	return target.WriteInode()
}

// Rmdir removes the empty subdirectory named name from dir (spec.md
// §4.6). Unlike the original, it refuses to remove a non-empty directory
// with ErrNotEmpty (spec.md §9's Open Question: the original never
// checked this).
//
// Grounded on original_source/inode.c's bbfs_rmdir.
func (sb *Superblock) Rmdir(dir *InCoreInode, name string) error {
	if !dir.IsDir() {
		return ErrNotDir
	}
	de, err := sb.Find(dir, name)
	if err != nil {
		return err
	}
	if !de.Type.IsDir() {
		return ErrNotDir
	}

	target, err := GetInode(sb, de.Ino)
	if err != nil {
		return err
	}

	entries, err := sb.Scan(target)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return ErrNotEmpty
	}

	if err := sb.RemoveSlot(dir, name); err != nil {
		return err
	}
	dir.Disk.Nlink--
	if err := dir.WriteInode(); err != nil {
		return err
	}

	target.Disk.Nlink--
	if target.Disk.Nlink < 2 {
		return sb.destroyInode(target)
	}
	return target.WriteInode()
}

// Rename moves the entry named oldName in oldDir to newName in newDir
// (spec.md §4.6: "Remove from old, Insert into new; if target is DIR and
// dirs differ, old nlink--, new nlink++"). Unlike the original, an
// existing entry at the destination is replaced per POSIX semantics
// (spec.md §9's Open Question) rather than left as a duplicate.
//
// Grounded on original_source/inode.c's bbfs_rename.
func (sb *Superblock) Rename(oldDir *InCoreInode, oldName string, newDir *InCoreInode, newName string) error {
	if !oldDir.IsDir() || !newDir.IsDir() {
		return ErrNotDir
	}
	if len(newName) > NameMax {
		return ErrNameTooLong
	}

	srcDE, err := sb.Find(oldDir, oldName)
	if err != nil {
		return err
	}

	if dstDE, err := sb.Find(newDir, newName); err == nil {
		if dstDE.Ino == srcDE.Ino {
			return nil
		}
		if dstDE.Type.IsDir() {
			if err := sb.Rmdir(newDir, newName); err != nil {
				return err
			}
		} else {
			if err := sb.Unlink(newDir, newName); err != nil {
				return err
			}
		}
	} else if err != ErrNotExist {
		return err
	}

	if err := sb.RemoveSlot(oldDir, oldName); err != nil {
		return err
	}

	de := DirEntry{Valid: true, Type: srcDE.Type, Ino: srcDE.Ino, Name: newName}
	if err := sb.InsertSlot(newDir, de); err != nil {
		// best effort: put the source entry back so the rename is not lossy
		sb.InsertSlot(oldDir, DirEntry{Valid: true, Type: srcDE.Type, Ino: srcDE.Ino, Name: oldName})
		return err
	}

	if srcDE.Type.IsDir() && oldDir.Ino != newDir.Ino {
		oldDir.Disk.Nlink--
		if err := oldDir.WriteInode(); err != nil {
			return err
		}
		newDir.Disk.Nlink++
		if err := newDir.WriteInode(); err != nil {
			return err
		}
	}
	return nil
}
