package btrfs

import (
	"fmt"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsitem"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
)

// walkChunkTree recursively descends the chunk tree rooted at addr,
// installing every stripe subrange of every CHUNK_ITEM it finds into
// the translator. The first stripe is authoritative for reads; the
// remaining stripes are redundant mirror/stripe copies this module
// never reconciles, but their logical subranges are still installed
// so translate() succeeds across the whole chunk. A checksum mismatch
// or translation failure at any child node aborts the whole walk with
// that error.
func (p *Parser) walkChunkTree(addr btrfsvol.LogicalAddr) error {
	node, err := p.nodes.GetNode(addr)
	if err != nil {
		return fmt.Errorf("btrfs: walk chunk tree: %w", err)
	}

	if !node.IsLeaf() {
		for _, kp := range node.KeyPointers {
			if err := p.walkChunkTree(kp.BlockAddr); err != nil {
				return err
			}
		}
		return nil
	}

	for i, item := range node.Items {
		if item.Key.ItemType != btrfsprim.CHUNK_ITEM_KEY {
			continue
		}
		decoded, err := btrfsitem.UnmarshalItem(item.Key, node.ItemData(i))
		if err != nil {
			return fmt.Errorf("btrfs: walk chunk tree: chunk item at %v: %w", item.Key, err)
		}
		chunk, ok := decoded.(btrfsitem.Chunk)
		if !ok {
			continue
		}
		for _, m := range chunk.Mappings(item.Key) {
			if err := p.io.Translator.AddMapping(m.LAddr, m.Size, m.PAddr.Dev, m.PAddr.Addr); err != nil {
				return fmt.Errorf("btrfs: walk chunk tree: chunk item at %v: %w", item.Key, err)
			}
		}
	}
	return nil
}
