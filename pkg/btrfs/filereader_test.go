package btrfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsitem"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfssum"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
)

// TestParserReadFileRegularExtent builds an image whose one file is a
// FILE_EXTENT_REG pointing at a data region separate from the fs tree
// leaf, exercising copyRegular's ReadLogical path (the inline path is
// already covered by TestParserStatAndReadFile).
func TestParserReadFileRegularExtent(t *testing.T) {
	t.Parallel()
	disk := newFakeDisk(0x40000)

	const inodeRoot = btrfsprim.ObjID(256)
	const inodeFile = btrfsprim.ObjID(257)
	content := []byte("regular extent body, not inlined")
	dataAddr := btrfsvol.LogicalAddr(0x31000)
	disk.write(btrfsvol.PhysicalAddr(dataAddr), content)

	disk.write(btrfsvol.PhysicalAddr(addrChunkRoot), buildLeaf(testNodeSize, addrChunkRoot, nil))

	rootItems := []leafItem{
		{
			Key:  btrfsprim.Key{ObjectID: btrfsprim.FS_TREE_OBJECTID, ItemType: btrfsprim.ROOT_ITEM_KEY, Offset: 0},
			Data: buildRootItem(addrFSRoot),
		},
		{
			Key:  btrfsprim.Key{ObjectID: btrfsprim.CSUM_TREE_OBJECTID, ItemType: btrfsprim.ROOT_ITEM_KEY, Offset: 0},
			Data: buildRootItem(addrCSumRoot),
		},
	}
	disk.write(btrfsvol.PhysicalAddr(addrRootRoot), buildLeaf(testNodeSize, addrRootRoot, rootItems))

	fsItems := []leafItem{
		{
			Key:  btrfsprim.Key{ObjectID: inodeRoot, ItemType: btrfsprim.INODE_ITEM_KEY, Offset: 0},
			Data: buildInodeItem(0),
		},
		{
			Key: btrfsprim.Key{ObjectID: inodeRoot, ItemType: btrfsprim.DIR_ITEM_KEY, Offset: uint64(btrfssum.NameHash([]byte("bigfile")))},
			Data: buildDirList([]dirEntry{{
				Location: btrfsprim.Key{ObjectID: inodeFile, ItemType: btrfsprim.INODE_ITEM_KEY, Offset: 0},
				Type:     btrfsitem.FT_REG_FILE,
				Name:     []byte("bigfile"),
			}}),
		},
		{
			Key:  btrfsprim.Key{ObjectID: inodeFile, ItemType: btrfsprim.INODE_ITEM_KEY, Offset: 0},
			Data: buildInodeItem(int64(len(content))),
		},
		{
			Key:  btrfsprim.Key{ObjectID: inodeFile, ItemType: btrfsprim.EXTENT_DATA_KEY, Offset: 0},
			Data: buildRegularExtent(dataAddr, uint64(len(content)), 0, int64(len(content))),
		},
	}
	disk.write(btrfsvol.PhysicalAddr(addrFSRoot), buildLeaf(testNodeSize, addrFSRoot, fsItems))
	disk.write(btrfsvol.PhysicalAddr(addrCSumRoot), buildLeaf(testNodeSize, addrCSumRoot, nil))

	seed := buildSysChunk(
		btrfsprim.Key{ObjectID: btrfsprim.FIRST_CHUNK_TREE_OBJECTID, ItemType: btrfsprim.CHUNK_ITEM_KEY, Offset: 0},
		0x100000, 0x10000, []chunkStripeSpec{{DevID: 0, PhysOff: 0}},
	)
	sb := buildSuperblock(superblockCfg{
		Generation:    1,
		RootTree:      addrRootRoot,
		ChunkTree:     addrChunkRoot,
		SectorSize:    testSectorSize,
		NodeSize:      testNodeSize,
		StripeSize:    0x10000,
		Label:         "regular-extent-fs",
		SysChunkArray: seed,
	})
	disk.write(SuperblockAddrs[0], sb)

	p := NewParser()
	p.SetReadHandler(disk.readFunc())
	p.SetWriteHandler(disk.writeFunc())
	require.NoError(t, p.Start())

	inode, err := p.ResolvePath("/bigfile")
	require.NoError(t, err)
	assert.Equal(t, inodeFile, inode)

	buf := make([]byte, len(content))
	n, err := p.ReadFile(inode, 0, len(content), buf)
	require.NoError(t, err)
	assert.Equal(t, content, buf[:n])

	// a short read starting mid-extent exercises the Offset/within math.
	partial := make([]byte, 6)
	n, err = p.ReadFile(inode, 8, len(partial), partial)
	require.NoError(t, err)
	assert.Equal(t, content[8:14], partial[:n])
}
