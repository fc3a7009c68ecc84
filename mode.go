package bbfs

import (
	"io/fs"
)

// bbfs inode modes follow the Linux convention, so use these constants
// the same way the kernel does.

const (
	S_IFMT  = 0xf000
	S_IFREG = 0x8000
	S_IFDIR = 0x4000
	S_IFLNK = 0xa000

	S_ISVTX = 0x200
	S_ISGID = 0x400
	S_ISUID = 0x800
)

// UnixToMode converts a raw i_mode value (as stored on disk) to an
// io/fs.FileMode.
func UnixToMode(mode uint32) fs.FileMode {
	res := fs.FileMode(mode & 0777)

	switch mode & S_IFMT {
	case S_IFDIR:
		res |= fs.ModeDir
	case S_IFLNK:
		res |= fs.ModeSymlink
	}

	if mode&S_ISGID == S_ISGID {
		res |= fs.ModeSetgid
	}
	if mode&S_ISUID == S_ISUID {
		res |= fs.ModeSetuid
	}
	if mode&S_ISVTX == S_ISVTX {
		res |= fs.ModeSticky
	}

	return res
}

// ModeToUnix converts an io/fs.FileMode back into a raw i_mode value
// suitable for storing on disk.
func ModeToUnix(mode fs.FileMode) uint32 {
	res := uint32(mode.Perm())

	switch {
	case mode&fs.ModeDir == fs.ModeDir:
		res |= S_IFDIR
	case mode&fs.ModeSymlink == fs.ModeSymlink:
		res |= S_IFLNK
	default:
		res |= S_IFREG
	}

	if mode&fs.ModeSetgid == fs.ModeSetgid {
		res |= S_ISGID
	}
	if mode&fs.ModeSetuid == fs.ModeSetuid {
		res |= S_ISUID
	}
	if mode&fs.ModeSticky == fs.ModeSticky {
		res |= S_ISVTX
	}

	return res
}

// DirentType maps a raw i_mode value to the on-disk directory-entry Type
// that should be stored alongside it (spec.md §3: "type ... encoded per
// POSIX d_type convention").
func DirentType(mode uint32) Type {
	switch mode & S_IFMT {
	case S_IFDIR:
		return DirType
	case S_IFLNK:
		return SymlinkType
	default:
		return FileType
	}
}
