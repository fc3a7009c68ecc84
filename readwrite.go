package bbfs

import "io"

// ReadAt implements io.ReaderAt over the inode's mapped data, zero-filling
// any logical block that has no physical mapping yet (spec.md §4.4: "the
// adapter will return zeroed pages" for an unmapped read).
//
// Grounded on the teacher's Inode.ReadAt (inode.go): loop over the blocks
// spanned by [off, off+len(p)), read or synthesize each one, copy into the
// caller's buffer, advance. bbfs has no fragments and no compression, so
// the per-block branching collapses to "mapped or not".
func (i *InCoreInode) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, io.ErrUnexpectedEOF
	}
	size := int64(i.Disk.Size)
	if off >= size {
		return 0, io.EOF
	}
	var tailErr error
	if off+int64(len(p)) > size {
		p = p[:size-off]
		tailErr = io.EOF
	}

	n := 0
	for len(p) > 0 {
		b := uint32(off / PageSize)
		within := int(off % PageSize)

		phys, err := i.GetBlock(b, false)
		var buf []byte
		switch {
		case err == nil:
			buf, err = i.sb.dev.ReadBlock(i.sb.dataBlockFor(phys))
			if err != nil {
				return n, err
			}
		case err == ErrNotExist:
			buf = make([]byte, PageSize)
		default:
			return n, err
		}

		chunk := copy(p, buf[within:])
		p = p[chunk:]
		off += int64(chunk)
		n += chunk
	}

	return n, tailErr
}

// WriteAt implements io.WriterAt over the inode's mapped data, growing the
// inode's levels array on demand (spec.md §4.4). It extends Disk.Size when
// the write reaches past the current end of file, but never shrinks it —
// truncation is out of scope (spec.md §9).
func (i *InCoreInode) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, io.ErrUnexpectedEOF
	}

	n := 0
	for len(p) > 0 {
		b := uint32(off / PageSize)
		within := int(off % PageSize)

		phys, err := i.GetBlock(b, true)
		if err != nil {
			return n, err
		}

		buf := make([]byte, PageSize)
		if within > 0 || len(p) < PageSize-within {
			// partial-block write: preserve the rest of the block
			existing, err := i.sb.dev.ReadBlock(i.sb.dataBlockFor(phys))
			if err != nil {
				return n, err
			}
			buf = existing
		}

		chunk := copy(buf[within:], p)
		if err := i.sb.dev.WriteBlock(i.sb.dataBlockFor(phys), buf); err != nil {
			return n, err
		}

		p = p[chunk:]
		off += int64(chunk)
		n += chunk
	}

	if uint32(off) > i.Disk.Size {
		i.Disk.Size = uint32(off)
	}
	return n, nil
}
