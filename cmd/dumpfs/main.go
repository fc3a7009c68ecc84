// Command dumpfs.bbfs prints superblock and region information about a
// bbfs image, modeled on the teacher's "sqfs info" subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/cbysal/bbfs"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: dumpfs.bbfs <device>")
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "dumpfs.bbfs: %s\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	dev, err := bbfs.OpenFileDevice(path)
	if err != nil {
		return err
	}
	defer dev.Close()

	sb, err := bbfs.Load(dev)
	if err != nil {
		return err
	}

	fmt.Println("bbfs image information")
	fmt.Println("======================")
	fmt.Printf("Magic:            0x%08x\n", sb.Magic)
	fmt.Printf("nr_sb:            %d\n", sb.NrSB)
	fmt.Printf("nr_imap:          %d\n", sb.NrIMap)
	fmt.Printf("nr_bmap:          %d\n", sb.NrBMap)
	fmt.Printf("nr_inodes:        %d\n", sb.NrInodes)
	fmt.Printf("nr_blocks:        %d\n", sb.NrBlocks)

	fmt.Println("\nRegion layout")
	fmt.Println("-------------")
	for _, r := range []bbfs.Region{bbfs.RegionSB, bbfs.RegionIMAP, bbfs.RegionBMAP, bbfs.RegionITAB, bbfs.RegionDATA} {
		begin, end := sb.RegionBounds(r)
		fmt.Printf("%-6s [%8d, %8d)  %8d blocks\n", r, begin, end, end-begin)
	}

	root, err := bbfs.GetInode(sb, 0)
	if err != nil {
		return err
	}
	entries, err := sb.Scan(root)
	if err != nil {
		return err
	}
	fmt.Printf("\nRoot directory: %d entries, l_num=%d\n", len(entries), root.Disk.LNum)
	return nil
}
