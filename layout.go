// Package bbfs implements the on-disk layout, allocators, and inode engine
// of a block-addressed filesystem: a superblock followed by an inode
// bitmap, a data-block bitmap, an inode table, and a data region, in that
// order, all sized in units of one block.
package bbfs

// Magic is the superblock signature, stored at offset 0 of block 0. In
// little-endian byte order on disk this reads "BBFS".
const Magic uint32 = 0x53464242

// PageSize is the block size used throughout the filesystem. A real mkfs
// would pick this from the host's page size at format time; bbfs fixes it
// so that an image formatted on one machine mounts identically on another,
// which is what spec.md means by "block sizes other than the page size
// chosen at format time" being out of scope.
const PageSize = 4096

// entriesPerBitmapBlock is the number of uint32 slots in one IMAP or BMAP
// block: P/4.
const entriesPerBitmapBlock = PageSize / 4

// MaxLevel bounds the levels array carried in every non-symlink on-disk
// inode. An inode with l_num == MaxLevel addresses 2^MaxLevel-1 blocks,
// far more than any reasonable device holds; the bound exists so the
// on-disk inode has a fixed size.
const MaxLevel = 1005

// NameMax is the longest directory-entry name, not counting the
// terminating NUL.
const NameMax = 255

// MaxSymlinkLen is the longest symlink target that fits in the inode's
// i_link field, including the terminating NUL (so the longest usable
// target is MaxSymlinkLen-1 bytes).
const MaxSymlinkLen = 4024

// direntSize is the on-disk size of one directory entry slot: a 12-byte
// header (valid, type, ino, each uint32) plus a NameMax+1 name field plus
// padding, chosen so PageSize divides evenly by direntSize.
const direntHeaderSize = 4 * 3
const direntNameSize = NameMax + 1
const direntPadSize = 244
const direntSize = direntHeaderSize + direntNameSize + direntPadSize

// direntsPerBlock is the number of directory-entry slots in one data
// block.
const direntsPerBlock = PageSize / direntSize

func init() {
	if PageSize%direntSize != 0 {
		panic("bbfs: direntSize does not evenly divide PageSize")
	}
}

// superblockSize is the on-disk size of the superblock record. The
// superblock occupies exactly one block (spec.md §3), with the unused tail
// zero-padded.
const superblockSize = PageSize

// Region identifies one of the five contiguous areas of a formatted
// device.
type Region int

const (
	RegionSB Region = iota
	RegionIMAP
	RegionBMAP
	RegionITAB
	RegionDATA
)

func (r Region) String() string {
	switch r {
	case RegionSB:
		return "sb"
	case RegionIMAP:
		return "imap"
	case RegionBMAP:
		return "bmap"
	case RegionITAB:
		return "itab"
	case RegionDATA:
		return "data"
	default:
		return "unknown"
	}
}
