package bbfs

import "errors"

// Package-specific error variables that can be used with errors.Is() for
// error handling. These correspond to the adapter-visible error codes
// named in spec.md §6.
var (
	// ErrBadMagic is returned when a superblock's magic field does not
	// match Magic.
	ErrBadMagic = errors.New("bbfs: invalid superblock magic")

	// ErrInvalidIno is returned when an inode number is out of range or
	// otherwise malformed.
	ErrInvalidIno = errors.New("bbfs: invalid inode number")

	// ErrIO is returned when a block read or write fails at the device
	// layer.
	ErrIO = errors.New("bbfs: block I/O error")

	// ErrNoSpace is returned when the inode bitmap or block bitmap has no
	// free capacity for the requested allocation.
	ErrNoSpace = errors.New("bbfs: no space left")

	// ErrNotDir is returned when a directory-only operation targets a
	// non-directory inode.
	ErrNotDir = errors.New("bbfs: not a directory")

	// ErrExist is returned when a create-like operation targets a name
	// that already has an entry in the parent directory.
	ErrExist = errors.New("bbfs: name already exists")

	// ErrNotExist is returned when a lookup-like operation cannot find
	// the requested name.
	ErrNotExist = errors.New("bbfs: no such file or directory")

	// ErrNotEmpty is returned by Rmdir when the target directory still
	// has live entries. spec.md §9 flags the original implementation's
	// missing emptiness check as a bug; bbfs enforces it.
	ErrNotEmpty = errors.New("bbfs: directory not empty")

	// ErrNameTooLong is returned when a name exceeds NameMax bytes.
	ErrNameTooLong = errors.New("bbfs: name too long")

	// ErrSymlinkTooLong is returned when a symlink target exceeds
	// MaxSymlinkLen-1 bytes.
	ErrSymlinkTooLong = errors.New("bbfs: symlink target too long")

	// ErrIsDir is returned when a non-directory operation targets a
	// directory inode (e.g. Link on a directory).
	ErrIsDir = errors.New("bbfs: is a directory")
)
