package bbfs

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DeviceSize returns the size in bytes of f: for a block device, it uses
// the BLKGETSIZE64 ioctl (mkfs.c's own approach, also used by Linux
// filesystem formatters in general); for a regular file, it falls back to
// Stat, since BLKGETSIZE64 only applies to block devices.
func DeviceSize(f *os.File) (int64, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if fi.Mode()&os.ModeDevice == 0 {
		return fi.Size(), nil
	}

	var size int64
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), unix.BLKGETSIZE64, uintptr(unsafe.Pointer(&size)))
	if errno != 0 {
		return 0, fmt.Errorf("bbfs: BLKGETSIZE64: %w", errno)
	}
	return size, nil
}
