// Command fsck.bbfs checks a bbfs image against the invariants of
// spec.md §8: every live inode's IMAP bit is set, every block a live
// inode's levels array covers has its BMAP bit set exactly once, and
// every run begins on a 2^L-aligned boundary.
//
// There is no teacher equivalent for this tool; it runs the per-region
// scans concurrently via golang.org/x/sync/errgroup, a pack-sourced
// dependency the teacher itself never needed (its readers are single
// pass over one compressed stream).
package main

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cbysal/bbfs"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: fsck.bbfs <device>")
		os.Exit(1)
	}

	problems, err := run(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "fsck.bbfs: %s\n", err)
		os.Exit(1)
	}
	for _, p := range problems {
		fmt.Println(p)
	}
	if len(problems) > 0 {
		os.Exit(1)
	}
	fmt.Println("clean")
}

func run(path string) ([]string, error) {
	dev, err := bbfs.OpenFileDevice(path)
	if err != nil {
		return nil, err
	}
	defer dev.Close()

	sb, err := bbfs.Load(dev)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var problems []string
	report := func(format string, args ...any) {
		mu.Lock()
		problems = append(problems, fmt.Sprintf(format, args...))
		mu.Unlock()
	}

	var g errgroup.Group

	g.Go(func() error {
		return checkInodes(sb, report)
	})
	g.Go(func() error {
		return checkBlockOwnership(sb, report)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return problems, nil
}

// checkInodes walks every inode number and confirms its IMAP bit agrees
// with its on-disk valid flag in both directions, and that live inodes
// carry an in-range l_num (spec.md §8: "IMAP bit i is 1" for every live
// inode, "0 <= l_num <= MAX_LEVEL").
func checkInodes(sb *bbfs.Superblock, report func(string, ...any)) error {
	for ino := uint32(0); ino < sb.NrInodes; ino++ {
		inode, err := bbfs.GetInode(sb, ino)
		if err != nil {
			return err
		}
		set, err := sb.ImapBitSet(ino)
		if err != nil {
			return err
		}
		if inode.Disk.Valid == 0 {
			if set {
				report("inode %d: IMAP bit set but inode is not valid", ino)
			}
			continue
		}
		if !set {
			report("inode %d: valid but IMAP bit is clear", ino)
		}
		if inode.Disk.LNum > bbfs.MaxLevel {
			report("inode %d: l_num %d exceeds MaxLevel %d", ino, inode.Disk.LNum, bbfs.MaxLevel)
		}
	}
	return nil
}

// checkBlockOwnership walks every live inode's runs and confirms each
// run's start is aligned to its level (spec.md §8: "i.levels[L] mod 2^L
// == 0"), that no two runs claim the same physical block (spec.md §8:
// "bits are disjoint across distinct (inode, L, o) triples"), and that
// every block an inode claims actually has its BMAP bit set on disk.
func checkBlockOwnership(sb *bbfs.Superblock, report func(string, ...any)) error {
	owner := make(map[uint32]uint32)

	for ino := uint32(0); ino < sb.NrInodes; ino++ {
		inode, err := bbfs.GetInode(sb, ino)
		if err != nil {
			return err
		}
		if inode.Disk.Valid == 0 || inode.IsSymlink() {
			continue
		}
		for level := uint32(0); level < inode.Disk.LNum; level++ {
			start := inode.Disk.Levels[level]
			runLen := uint32(1) << level
			if start%runLen != 0 {
				report("inode %d level %d: run start %d is not %d-aligned", ino, level, start, runLen)
			}
			for o := uint32(0); o < runLen; o++ {
				blk := start + o
				if prev, ok := owner[blk]; ok {
					report("block %d claimed by both inode %d and inode %d", blk, prev, ino)
					continue
				}
				owner[blk] = ino

				set, err := sb.BmapBitSet(blk)
				if err != nil {
					return err
				}
				if !set {
					report("inode %d level %d: block %d is owned but its BMAP bit is clear", ino, level, blk)
				}
			}
		}
	}
	return nil
}
