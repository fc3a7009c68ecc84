package bbfs

import "encoding/binary"

// BmapBitSet reports whether the BMAP bit for DATA-relative block idx is
// set, for use by invariant checkers (cmd/fsck) and tests.
func (sb *Superblock) BmapBitSet(idx uint32) (bool, error) {
	blk, slot := sb.bmapBlockFor(idx)
	buf, err := sb.dev.ReadBlock(blk)
	if err != nil {
		return false, err
	}
	return binary.LittleEndian.Uint32(buf[slot*4:slot*4+4]) != 0, nil
}

func (sb *Superblock) setBmapBit(idx uint32, v uint32) error {
	blk, slot := sb.bmapBlockFor(idx)
	buf, err := sb.dev.ReadBlock(blk)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(buf[slot*4:slot*4+4], v)
	return sb.dev.WriteBlock(blk, buf)
}

// AllocRun finds the smallest DATA-relative index s, a multiple of 2^L,
// such that the 2^L consecutive BMAP bits starting at s are all clear,
// marks them all set, and returns s. This is the buddy-style run
// allocator of spec.md §4.3: because every run of level L starts on a
// 2^L-aligned boundary, the (level, start) pair is all that's ever stored
// — no length field is needed.
//
// Grounded on original_source/inode.c's bbfs_find_and_mark_free_block,
// restated with P as the sole bits-per-block divisor (spec.md §9's BMAP
// indexing Open Question: the original used sizeof(SB) there, a bug on
// any platform where sizeof(SB) != P).
func (sb *Superblock) AllocRun(level uint32) (uint32, error) {
	runLen := uint32(1) << level

	for start := uint32(0); start+runLen <= sb.NrBlocks; start += runLen {
		free, err := sb.runIsFree(start, runLen)
		if err != nil {
			return 0, err
		}
		if !free {
			continue
		}
		if err := sb.markRun(start, runLen, 1); err != nil {
			return 0, err
		}
		return start, nil
	}
	return 0, ErrNoSpace
}

func (sb *Superblock) runIsFree(start, length uint32) (bool, error) {
	for i := uint32(0); i < length; i++ {
		set, err := sb.BmapBitSet(start + i)
		if err != nil {
			return false, err
		}
		if set {
			return false, nil
		}
	}
	return true, nil
}

func (sb *Superblock) markRun(start, length, v uint32) error {
	for i := uint32(0); i < length; i++ {
		if err := sb.setBmapBit(start+i, v); err != nil {
			return err
		}
	}
	return nil
}

// FreeRun clears the BMAP bits for the run of 2^level blocks starting at
// start.
func (sb *Superblock) FreeRun(start, level uint32) error {
	return sb.markRun(start, uint32(1)<<level, 0)
}

// FreeInodeRuns clears every run owned by an inode's levels array. This is
// the "free-run (for a whole inode)" operation of spec.md §4.3, used by
// Unlink when a file's link count reaches zero and by Rmdir when a
// directory's link count drops below two. It must be called
// with the *target* inode's own DiskInode, never a directory's — spec.md
// §9 flags using the parent directory's levels array here as a bug in the
// original implementation.
func (sb *Superblock) FreeInodeRuns(d *DiskInode) error {
	for level := uint32(0); level < d.LNum; level++ {
		if err := sb.FreeRun(d.Levels[level], level); err != nil {
			return err
		}
	}
	return nil
}
