//go:build linux && fuse

package bbfs

import "github.com/hanwen/go-fuse/v2/fuse"

// FillAttr populates a fuse.Attr from n's inode, grounded on the
// teacher's linux-specific Inode.FillAttr (inode_linux.go). The teacher
// calls apkgfs.ModeToUnix(i.Mode()) because its squashfs Inode only
// exposes an fs.FileMode; bbfs's on-disk mode is already the raw unix
// value, so it's used as-is.
func (n *FuseNode) FillAttr(attr *fuse.Attr) error {
	d := &n.Ino.Disk
	attr.Size = uint64(d.Size)
	attr.Blocks = (uint64(1) << d.LNum) - 1
	attr.Mode = d.Mode
	attr.Nlink = d.Nlink
	attr.Blksize = PageSize
	attr.Atime = uint64(d.Atime.Unix())
	attr.Mtime = uint64(d.Mtime.Unix())
	attr.Ctime = uint64(d.Ctime.Unix())
	attr.Owner.Uid = d.Uid
	attr.Owner.Gid = d.Gid
	return nil
}
