package btrfs

import (
	"fmt"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsitem"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
)

// walkRootTree recursively descends the root tree rooted at addr,
// recording the logical root address of every well-known tree this
// module cares about (spec §4.10 / Glossary "Generation"): the
// default filesystem tree, the extent tree, the device tree, and the
// checksum tree. Per SPEC_FULL.md Part D, only these four root
// addresses are recorded; none of extent/device/log are themselves
// walked.
func (p *Parser) walkRootTree(addr btrfsvol.LogicalAddr) error {
	node, err := p.nodes.GetNode(addr)
	if err != nil {
		return fmt.Errorf("btrfs: walk root tree: %w", err)
	}

	if !node.IsLeaf() {
		for _, kp := range node.KeyPointers {
			if err := p.walkRootTree(kp.BlockAddr); err != nil {
				return err
			}
		}
		return nil
	}

	for i, item := range node.Items {
		if item.Key.ItemType != btrfsprim.ROOT_ITEM_KEY {
			continue
		}
		decoded, err := btrfsitem.UnmarshalItem(item.Key, node.ItemData(i))
		if err != nil {
			return fmt.Errorf("btrfs: walk root tree: root item at %v: %w", item.Key, err)
		}
		root, ok := decoded.(btrfsitem.Root)
		if !ok {
			continue
		}
		switch item.Key.ObjectID {
		case btrfsprim.FS_TREE_OBJECTID:
			p.fsTreeRoot = root.ByteNr
		case btrfsprim.EXTENT_TREE_OBJECTID:
			p.extentTree = root.ByteNr
		case btrfsprim.DEV_TREE_OBJECTID:
			p.devTree = root.ByteNr
		case btrfsprim.CSUM_TREE_OBJECTID:
			p.checksumTree = root.ByteNr
		}
	}
	return nil
}
