package btrfs

import (
	"fmt"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
)

// descendToLeaf walks from root down to the leaf that would contain
// target; the fs-tree lookups (path resolution, Stat, extent lookup)
// use it, while the chunk, root, and checksum tree walkers recurse over
// every child instead. At each interior node it follows the key
// pointer with the greatest key not exceeding target (the standard
// B-tree "floor" search), since key pointers record the smallest key
// of their child subtree. Exactly one child is visited per level.
func descendToLeaf(nodes *NodeReader, root btrfsvol.LogicalAddr, target btrfsprim.Key) (*Node, error) {
	addr := root
	for {
		node, err := nodes.GetNode(addr)
		if err != nil {
			return nil, fmt.Errorf("btrfs: descend to leaf: %w", err)
		}
		if node.IsLeaf() {
			return node, nil
		}
		if len(node.KeyPointers) == 0 {
			return nil, fmt.Errorf("btrfs: descend to leaf: interior node at %v has no key pointers", addr)
		}
		idx := 0
		for i, kp := range node.KeyPointers {
			if kp.Key.Cmp(target) <= 0 {
				idx = i
			} else {
				break
			}
		}
		addr = node.KeyPointers[idx].BlockAddr
	}
}
