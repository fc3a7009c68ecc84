package bbfs

import "encoding/binary"

// DirEntry is one fixed-size slot of a directory's data blocks (spec.md
// §3): a 12-byte header (valid, type, ino) followed by a NUL-terminated
// name field and padding, sized so PageSize/direntSize is exact.
//
// Grounded on original_source/fs.h's struct bbfs_entry.
type DirEntry struct {
	Valid bool
	Type  Type
	Ino   uint32
	Name  string
}

func (e *DirEntry) marshal() []byte {
	buf := make([]byte, direntSize)
	if !e.Valid {
		return buf
	}
	binary.LittleEndian.PutUint32(buf[0:4], 1)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(e.Type))
	binary.LittleEndian.PutUint32(buf[8:12], e.Ino)
	// remaining bytes of the name field are already zero (NUL terminator + padding)
	copy(buf[direntHeaderSize:direntHeaderSize+direntNameSize], e.Name)
	return buf
}

func (e *DirEntry) unmarshal(buf []byte) {
	valid := binary.LittleEndian.Uint32(buf[0:4])
	if valid == 0 {
		*e = DirEntry{}
		return
	}
	e.Valid = true
	e.Type = Type(binary.LittleEndian.Uint32(buf[4:8]))
	e.Ino = binary.LittleEndian.Uint32(buf[8:12])
	nameField := buf[direntHeaderSize : direntHeaderSize+direntNameSize]
	e.Name = string(nameField[:indexByte(nameField, 0)])
}

// slotOffset returns the byte offset of slot index s within its block.
func slotOffset(s int) int {
	return s * direntSize
}
