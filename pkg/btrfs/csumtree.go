package btrfs

import (
	"fmt"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsitem"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfssum"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
)

// Scrub walks the checksum tree and, for every sector it covers, reads
// the sector's current contents and compares the recomputed CRC-32C
// against the stored one (spec §4.9). It never stops on a mismatch —
// that's the one place in this module where a per-item failure doesn't
// abort the traversal — and returns the total count.
func (p *Parser) Scrub() (int, error) {
	if !p.sbLoaded {
		return 0, fmt.Errorf("btrfs: scrub: parser has not completed Start")
	}
	mismatches := 0
	if err := p.walkChecksumTree(p.checksumTree, &mismatches); err != nil {
		return mismatches, fmt.Errorf("btrfs: scrub: %w", err)
	}
	return mismatches, nil
}

func (p *Parser) walkChecksumTree(addr btrfsvol.LogicalAddr, mismatches *int) error {
	node, err := p.nodes.GetNode(addr)
	if err != nil {
		return err
	}

	if !node.IsLeaf() {
		for _, kp := range node.KeyPointers {
			if err := p.walkChecksumTree(kp.BlockAddr, mismatches); err != nil {
				return err
			}
		}
		return nil
	}

	sectorSize := int(p.sb.SectorSize)
	buf := make([]byte, sectorSize)
	for i, item := range node.Items {
		if item.Key.ItemType != btrfsprim.EXTENT_CSUM_KEY {
			continue
		}
		decoded, err := btrfsitem.UnmarshalItem(item.Key, node.ItemData(i))
		if err != nil {
			return fmt.Errorf("checksum item at %v: %w", item.Key, err)
		}
		extentCSum, ok := decoded.(btrfsitem.ExtentCSum)
		if !ok {
			continue
		}
		for j, want := range extentCSum.Sums {
			sectorAddr := btrfsvol.LogicalAddr(item.Key.Offset).Add(btrfsvol.AddrDelta(j * sectorSize))
			if _, err := p.io.ReadLogical(buf, sectorAddr, sectorSize); err != nil {
				return fmt.Errorf("checksum item at %v: sector %d: %w", item.Key, j, err)
			}
			if got := btrfssum.Sum(buf); got != want {
				*mismatches++
			}
		}
	}
	return nil
}
