//go:build !linux

package bbfs

import "os"

// DeviceSize returns the size in bytes of f. Off Linux we have no portable
// ioctl for raw block devices, so this only supports regular files, which
// is the common case for a userspace image used in tests and tooling.
func DeviceSize(f *os.File) (int64, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
