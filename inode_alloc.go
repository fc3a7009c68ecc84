package bbfs

import (
	"encoding/binary"
	"log"
)

// AllocInode walks IMAP blocks in order, and within each block walks
// slots in order, returning the first inode number whose bit is clear.
// The bit is set and the buffer written back before returning.
//
// Grounded on original_source/inode.c's bbfs_find_and_mark_free_inode.
// Complexity is O(NrInodes) worst case, matching the original's linear
// scan (spec.md §4.2 accepts this).
func (sb *Superblock) AllocInode() (uint32, error) {
	for blk := uint32(0); blk < sb.NrIMap; blk++ {
		buf, err := sb.dev.ReadBlock(sb.imapBegin + blk)
		if err != nil {
			return 0, err
		}
		for slot := uint32(0); slot < entriesPerBitmapBlock; slot++ {
			off := slot * 4
			if binary.LittleEndian.Uint32(buf[off:off+4]) != 0 {
				continue
			}
			binary.LittleEndian.PutUint32(buf[off:off+4], 1)
			if err := sb.dev.WriteBlock(sb.imapBegin+blk, buf); err != nil {
				return 0, err
			}
			return blk*entriesPerBitmapBlock + slot, nil
		}
	}
	log.Printf("bbfs: inode allocation failed, imap exhausted (nr_inodes=%d)", sb.NrInodes)
	return 0, ErrNoSpace
}

// FreeInode clears the IMAP bit for ino.
func (sb *Superblock) FreeInode(ino uint32) error {
	blk, slot := sb.imapBlockFor(ino)
	buf, err := sb.dev.ReadBlock(blk)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(buf[slot*4:slot*4+4], 0)
	return sb.dev.WriteBlock(blk, buf)
}

// ImapBitSet reports whether ino's IMAP bit is currently set, for use by
// invariant checkers (cmd/fsck) and tests.
func (sb *Superblock) ImapBitSet(ino uint32) (bool, error) {
	blk, slot := sb.imapBlockFor(ino)
	buf, err := sb.dev.ReadBlock(blk)
	if err != nil {
		return false, err
	}
	return binary.LittleEndian.Uint32(buf[slot*4:slot*4+4]) != 0, nil
}
