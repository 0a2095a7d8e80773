package btrfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
)

// TestDescendToLeafFloorSearch builds a two-level tree (one interior
// node over two leaves) and checks that descendToLeaf picks the child
// whose key-pointer key is the greatest one not exceeding the target,
// per the "floor search" spec §4.5 describes for every tree shape.
func TestDescendToLeafFloorSearch(t *testing.T) {
	t.Parallel()
	disk := newFakeDisk(0x8000)

	leafA := btrfsvol.LogicalAddr(0x2000)
	leafB := btrfsvol.LogicalAddr(0x3000)

	disk.write(btrfsvol.PhysicalAddr(leafA), buildLeaf(testNodeSize, leafA, []leafItem{
		{Key: btrfsprim.Key{ObjectID: 10, ItemType: btrfsprim.INODE_ITEM_KEY}, Data: buildInodeItem(1)},
	}))
	disk.write(btrfsvol.PhysicalAddr(leafB), buildLeaf(testNodeSize, leafB, []leafItem{
		{Key: btrfsprim.Key{ObjectID: 20, ItemType: btrfsprim.INODE_ITEM_KEY}, Data: buildInodeItem(2)},
	}))

	root := btrfsvol.LogicalAddr(0x1000)
	disk.write(btrfsvol.PhysicalAddr(root), buildInterior(testNodeSize, root, 1, []interiorPtr{
		{Key: btrfsprim.Key{ObjectID: 0}, Addr: leafA},
		{Key: btrfsprim.Key{ObjectID: 20}, Addr: leafB},
	}))

	io := NewBlockIO()
	io.SetReadHandler(disk.readFunc())
	require.NoError(t, io.Translator.AddMapping(0, 0x8000, 0, 0))
	nr := NewNodeReader(io, testNodeSize, 8)

	leaf, err := descendToLeaf(nr, root, btrfsprim.Key{ObjectID: 15})
	require.NoError(t, err)
	assert.Equal(t, leafA, leaf.Header.Addr)

	leaf, err = descendToLeaf(nr, root, btrfsprim.Key{ObjectID: 25})
	require.NoError(t, err)
	assert.Equal(t, leafB, leaf.Header.Addr)
}
