package bbfs

import (
	"encoding/binary"
	"fmt"
	"log"
)

// Superblock is the first block of a formatted device. Its on-disk layout
// is exactly six uint32 fields followed by zero padding to fill one
// block (spec.md §3).
type Superblock struct {
	Magic    uint32
	NrSB     uint32
	NrIMap   uint32
	NrBMap   uint32
	NrInodes uint32
	NrBlocks uint32

	dev BlockDevice

	// Region boundaries, in absolute block indices, derived once at load
	// time. Grounded on original_source/super.c's bbfs_fill_super, which
	// computes sb_begin/imap_begin/.../block_end the same way.
	sbBegin, sbEnd     uint32
	imapBegin, imapEnd uint32
	bmapBegin, bmapEnd uint32
	itabBegin, itabEnd uint32
	dataBegin, dataEnd uint32
}

// Load reads block 0 of dev, validates the magic, and derives region
// boundaries.
func Load(dev BlockDevice) (*Superblock, error) {
	buf, err := dev.ReadBlock(0)
	if err != nil {
		return nil, err
	}

	sb := &Superblock{dev: dev}
	if err := sb.unmarshal(buf); err != nil {
		return nil, err
	}
	if sb.Magic != Magic {
		return nil, ErrBadMagic
	}
	sb.deriveRegions()
	//log.Printf("bbfs: loaded sb nr_imap=%d nr_bmap=%d nr_inodes=%d nr_blocks=%d", sb.NrIMap, sb.NrBMap, sb.NrInodes, sb.NrBlocks)
	log.Printf("bbfs: mounted, regions sb=[%d,%d) imap=[%d,%d) bmap=[%d,%d) itab=[%d,%d) data=[%d,%d)",
		sb.sbBegin, sb.sbEnd, sb.imapBegin, sb.imapEnd, sb.bmapBegin, sb.bmapEnd, sb.itabBegin, sb.itabEnd, sb.dataBegin, sb.dataEnd)
	return sb, nil
}

func (sb *Superblock) unmarshal(buf []byte) error {
	if len(buf) < superblockSize {
		return fmt.Errorf("bbfs: short superblock block (%d bytes)", len(buf))
	}
	sb.Magic = binary.LittleEndian.Uint32(buf[0:4])
	sb.NrSB = binary.LittleEndian.Uint32(buf[4:8])
	sb.NrIMap = binary.LittleEndian.Uint32(buf[8:12])
	sb.NrBMap = binary.LittleEndian.Uint32(buf[12:16])
	sb.NrInodes = binary.LittleEndian.Uint32(buf[16:20])
	sb.NrBlocks = binary.LittleEndian.Uint32(buf[20:24])
	return nil
}

func (sb *Superblock) marshal() []byte {
	buf := make([]byte, superblockSize)
	binary.LittleEndian.PutUint32(buf[0:4], sb.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], sb.NrSB)
	binary.LittleEndian.PutUint32(buf[8:12], sb.NrIMap)
	binary.LittleEndian.PutUint32(buf[12:16], sb.NrBMap)
	binary.LittleEndian.PutUint32(buf[16:20], sb.NrInodes)
	binary.LittleEndian.PutUint32(buf[20:24], sb.NrBlocks)
	return buf
}

// deriveRegions computes absolute block-index boundaries for each region,
// in the fixed order SB, IMAP, BMAP, ITAB, DATA (spec.md §2).
func (sb *Superblock) deriveRegions() {
	sb.sbBegin = 0
	sb.sbEnd = sb.sbBegin + sb.NrSB
	sb.imapBegin = sb.sbEnd
	sb.imapEnd = sb.imapBegin + sb.NrIMap
	sb.bmapBegin = sb.imapEnd
	sb.bmapEnd = sb.bmapBegin + sb.NrBMap
	sb.itabBegin = sb.bmapEnd
	sb.itabEnd = sb.itabBegin + sb.NrInodes
	sb.dataBegin = sb.itabEnd
	sb.dataEnd = sb.dataBegin + sb.NrBlocks
}

// Sync writes the in-memory superblock fields back to block 0.
func (sb *Superblock) Sync() error {
	return sb.dev.WriteBlock(0, sb.marshal())
}

// Device returns the underlying BlockDevice.
func (sb *Superblock) Device() BlockDevice { return sb.dev }

// imapBlockFor returns the absolute block index and in-block slot index
// for a given inode number's IMAP bit.
func (sb *Superblock) imapBlockFor(ino uint32) (block uint32, slot uint32) {
	return sb.imapBegin + ino/entriesPerBitmapBlock, ino % entriesPerBitmapBlock
}

// bmapBlockFor returns the absolute block index and in-block slot index
// for a given DATA-relative block index's BMAP bit. This always divides
// by PageSize/4 (spec.md §9's "BMAP indexing math" Open Question: the
// original implementation divided by sizeof(SB) instead of P; bbfs uses P
// consistently).
func (sb *Superblock) bmapBlockFor(dataIdx uint32) (block uint32, slot uint32) {
	return sb.bmapBegin + dataIdx/entriesPerBitmapBlock, dataIdx % entriesPerBitmapBlock
}

// itabBlockFor returns the absolute block index of the inode record for
// ino (one inode per block, spec.md §3).
func (sb *Superblock) itabBlockFor(ino uint32) uint32 {
	return sb.itabBegin + ino
}

// dataBlockFor returns the absolute block index of DATA-relative block
// dataIdx.
func (sb *Superblock) dataBlockFor(dataIdx uint32) uint32 {
	return sb.dataBegin + dataIdx
}

// RegionBounds returns the [begin, end) absolute block range of a region,
// for diagnostics (cmd/dumpfs).
func (sb *Superblock) RegionBounds(r Region) (begin, end uint32) {
	switch r {
	case RegionSB:
		return sb.sbBegin, sb.sbEnd
	case RegionIMAP:
		return sb.imapBegin, sb.imapEnd
	case RegionBMAP:
		return sb.bmapBegin, sb.bmapEnd
	case RegionITAB:
		return sb.itabBegin, sb.itabEnd
	case RegionDATA:
		return sb.dataBegin, sb.dataEnd
	default:
		return 0, 0
	}
}
