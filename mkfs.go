package bbfs

import "time"

// FormatOption customizes Format. Grounded on the teacher's
// WriterOption/WithBlockSize functional-options pattern (writer.go),
// generalized from "pick a block size" to "override the uid/gid/mode the
// formatter stamps on the root inode", since bbfs has no compression or
// block-size knobs to expose.
type FormatOption func(*formatConfig)

type formatConfig struct {
	uid, gid uint32
	rootMode uint32
}

// WithRootOwner sets the uid/gid stamped on the root inode. Defaults to
// 0/0 when not given (spec.md §4.1 says "uid/gid from invoking user",
// which a library has no portable way to discover on its own; callers
// that know the invoking user pass it explicitly).
func WithRootOwner(uid, gid uint32) FormatOption {
	return func(c *formatConfig) {
		c.uid = uid
		c.gid = gid
	}
}

// WithRootMode overrides the permission bits of the root directory.
// Defaults to 0755 (spec.md §4.1).
func WithRootMode(mode uint32) FormatOption {
	return func(c *formatConfig) {
		c.rootMode = mode & 0777
	}
}

// sizing computes nr_imap/nr_bmap/nr_inodes/nr_blocks from a device size
// in bytes, per spec.md §4.1's sizing law. The divisor 17 and multiplier
// 15 encode a target ratio of inode-table blocks to data blocks of
// roughly 1:15.
//
// Grounded on original_source/mkfs.c's size computation, restated with P
// as the sole block-size constant (no sizeof(SB) substitution anywhere,
// per spec.md §9).
func sizing(deviceSize int64) (nrIMap, nrBMap, nrInodes, nrBlocks uint32) {
	d := uint64(deviceSize)
	sb := uint64(superblockSize)
	p := uint64(PageSize)

	if d <= sb {
		return 0, 0, 0, 0
	}

	nrIMap = uint32(((d - sb) / (p + 4)) / 17 / (p / 4))
	nrBMap = 15 * nrIMap
	nrInodes = nrIMap * uint32(p/4)
	nrBlocks = nrBMap * uint32(p/4)
	return
}

// Format writes a fresh superblock, bitmaps, and inode table to dev,
// sized from deviceSize, and installs an empty root directory at inode 0
// (spec.md §4.1). Failure on any write leaves whatever was already
// written on disk; there is no rollback (spec.md §4.1, §7).
//
// Grounded on original_source/mkfs.c's write sequence: one SB block, the
// IMAP blocks (first slot 0 reserved for root), the BMAP blocks, the root
// inode at ITAB[0], then the rest of ITAB zeroed.
func Format(dev BlockDevice, deviceSize int64, opts ...FormatOption) error {
	cfg := formatConfig{rootMode: 0755}
	for _, opt := range opts {
		opt(&cfg)
	}

	nrIMap, nrBMap, nrInodes, nrBlocks := sizing(deviceSize)
	if nrIMap == 0 {
		return ErrNoSpace
	}

	sb := &Superblock{
		Magic:    Magic,
		NrSB:     1,
		NrIMap:   nrIMap,
		NrBMap:   nrBMap,
		NrInodes: nrInodes,
		NrBlocks: nrBlocks,
		dev:      dev,
	}
	sb.deriveRegions()

	if err := dev.WriteBlock(0, sb.marshal()); err != nil {
		return err
	}

	zero := make([]byte, PageSize)
	for i := uint32(0); i < nrIMap; i++ {
		buf := make([]byte, PageSize)
		if i == 0 {
			// slot 0 = inode 0, the root, permanently allocated
			buf[0] = 1
		}
		if err := dev.WriteBlock(sb.imapBegin+i, buf); err != nil {
			return err
		}
	}

	for i := uint32(0); i < nrBMap; i++ {
		if err := dev.WriteBlock(sb.bmapBegin+i, zero); err != nil {
			return err
		}
	}

	now := time.Now()
	root := DiskInode{
		Valid: 1,
		Mode:  S_IFDIR | cfg.rootMode,
		Uid:   cfg.uid,
		Gid:   cfg.gid,
		Size:  PageSize,
		Nlink: 2,
		Ctime: now,
		Atime: now,
		Mtime: now,
		LNum:  0,
	}
	if err := dev.WriteBlock(sb.itabBegin, root.marshal()); err != nil {
		return err
	}

	for i := uint32(1); i < nrInodes; i++ {
		if err := dev.WriteBlock(sb.itabBegin+i, zero); err != nil {
			return err
		}
	}

	return dev.Flush()
}
