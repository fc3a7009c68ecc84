//go:build !linux && fuse

package bbfs

import "github.com/hanwen/go-fuse/v2/fuse"

// FillAttr populates a fuse.Attr from n's inode, grounded on the
// teacher's darwin-specific Inode.FillAttr (inode_darwin.go), which
// drops the Linux-only Blksize/idtable fields. bbfs's on-disk mode is
// already the raw unix value, so it's used as-is rather than round
// tripped through fs.FileMode.
func (n *FuseNode) FillAttr(attr *fuse.Attr) error {
	d := &n.Ino.Disk
	attr.Size = uint64(d.Size)
	attr.Blocks = (uint64(1) << d.LNum) - 1
	attr.Mode = d.Mode
	attr.Nlink = d.Nlink
	attr.Atime = uint64(d.Atime.Unix())
	attr.Mtime = uint64(d.Mtime.Unix())
	attr.Ctime = uint64(d.Ctime.Unix())
	return nil
}
