package bbfs

// blockLevelOffset decodes a logical block index b into the level L and
// the offset within that level's run, per spec.md §3: find the unique L
// with 2^L-1 <= b < 2^(L+1)-1.
//
// Grounded on original_source/file.c's bbfs_file_get_block, which derives
// the same (level, offset) pair with an equivalent decrement loop.
func blockLevelOffset(b uint32) (level uint32, offset uint32) {
	for offset = b; offset >= uint32(1)<<level; {
		offset -= uint32(1) << level
		level++
	}
	return level, offset
}

// GetBlock maps logical block b of the inode to a physical DATA-relative
// block index. If create is false and b is not yet mapped, it returns
// ErrNotExist (the adapter is expected to treat this as "unmapped" and
// return a zeroed page, per spec.md §4.4); if create is true, the inode
// grows one level at a time until b is mapped.
func (i *InCoreInode) GetBlock(b uint32, create bool) (uint32, error) {
	level, offset := blockLevelOffset(b)

	if level >= MaxLevel {
		return 0, ErrNoSpace
	}

	if level < i.Disk.LNum {
		return i.Disk.Levels[level] + offset, nil
	}

	if !create {
		return 0, ErrNotExist
	}

	// Growth is monotone (spec.md §4.4): runs already allocated are never
	// revisited or coalesced, even across truncation, which is out of
	// scope.
	for i.Disk.LNum <= level {
		start, err := i.sb.AllocRun(i.Disk.LNum)
		if err != nil {
			return 0, err
		}
		i.Disk.Levels[i.Disk.LNum] = start
		i.Disk.LNum++
	}

	return i.Disk.Levels[level] + offset, nil
}
