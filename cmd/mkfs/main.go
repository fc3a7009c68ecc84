// Command mkfs.bbfs formats a device or regular file as a bbfs image.
//
// Usage: mkfs.bbfs <device>
//
// No flags, no environment variables (spec.md §6): the device size is
// read from the target itself, the root directory is owned by the
// invoking user's uid/gid, and every other parameter takes its default.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/cbysal/bbfs"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: mkfs.bbfs <device>")
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "mkfs.bbfs: %s\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	size, err := bbfs.DeviceSize(f)
	if err != nil {
		return err
	}

	progress := isatty.IsTerminal(os.Stdout.Fd())
	if progress {
		fmt.Printf("formatting %s (%d bytes)...\n", path, size)
	}

	dev := bbfs.NewFileDevice(f)
	uid, gid := os.Getuid(), os.Getgid()
	if err := bbfs.Format(dev, size, bbfs.WithRootOwner(uint32(uid), uint32(gid))); err != nil {
		return err
	}

	if progress {
		fmt.Println("done")
	}
	return nil
}
