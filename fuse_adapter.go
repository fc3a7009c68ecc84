//go:build fuse

package bbfs

import (
	"context"
	"os"

	"github.com/hanwen/go-fuse/v2/fuse"
)

// FuseNode adapts an InCoreInode to github.com/hanwen/go-fuse/v2's raw
// inode interface, grounded directly on the teacher's Inode FUSE methods
// (inode_fuse.go): Lookup/Open/OpenDir/ReadDir/fillEntry all carry over
// their shape, generalized from squashfs's read-only single-type
// dispatch to bbfs's namespace operations.
type FuseNode struct {
	SB   *Superblock
	Ino  *InCoreInode
	Name string
}

// Open always succeeds; unlike the teacher's read-only squashfs, bbfs is
// mutable, so FOPEN_KEEP_CACHE is not set here (the teacher sets it
// because its backing image never changes under it).
func (n *FuseNode) Open(flags uint32) (uint32, error) {
	return 0, nil
}

// OpenDir succeeds only for directory inodes, same guard as the teacher's
// Inode.OpenDir.
func (n *FuseNode) OpenDir() (uint32, error) {
	if !n.Ino.IsDir() {
		return 0, os.ErrInvalid
	}
	return 0, nil
}

// Lookup resolves name within n and returns the child's inode number.
func (n *FuseNode) Lookup(ctx context.Context, name string) (uint64, error) {
	child, err := n.SB.Lookup(n.Ino, name)
	if err != nil {
		return 0, err
	}
	return uint64(child.Ino), nil
}

// fillEntry populates a fuse.EntryOut from n, grounded on the teacher's
// Inode.fillEntry (inode_fuse.go).
func (n *FuseNode) fillEntry(entry *fuse.EntryOut) {
	entry.NodeId = uint64(n.Ino.Ino)
	entry.Attr.Ino = entry.NodeId
	n.FillAttr(&entry.Attr)
}

// ReadDir streams directory entries starting at input.Offset, grounded on
// the teacher's Inode.ReadDir loop shape (dot-entries first, then scan
// order), adapted from squashfs's on-the-fly dirReader to bbfs's
// Superblock.Readdir.
func (n *FuseNode) ReadDir(parentIno uint32, input *fuse.ReadIn, out *fuse.DirEntryList) error {
	entries, err := n.SB.Readdir(n.Ino, parentIno, DirentCursor(input.Offset))
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !out.Add(0, e.Name, uint64(e.Ino), e.Type.UnixMode()) {
			return nil
		}
	}
	return nil
}
