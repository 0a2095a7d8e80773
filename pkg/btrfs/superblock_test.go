package btrfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btrfsparse/btrfsparse/pkg/binstruct"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
)

func TestSuperblockChecksumRoundTrip(t *testing.T) {
	t.Parallel()
	buf := buildSuperblock(superblockCfg{
		Generation: 5,
		SectorSize: 0x1000,
		NodeSize:   0x1000,
		Label:      "mylabel",
	})
	require.NoError(t, ValidateChecksum(buf))

	var sb Superblock
	_, err := binstruct.Unmarshal(buf, &sb)
	require.NoError(t, err)
	assert.True(t, sb.ValidateMagic())
	assert.Equal(t, "mylabel", sb.LabelString())
}

func TestSuperblockChecksumMismatch(t *testing.T) {
	t.Parallel()
	buf := buildSuperblock(superblockCfg{Generation: 1, SectorSize: 0x1000, NodeSize: 0x1000})
	buf[SuperblockSize-1] ^= 0xff
	err := ValidateChecksum(buf)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestSuperblockParseSysChunkArray(t *testing.T) {
	t.Parallel()
	key := btrfsprim.Key{ObjectID: btrfsprim.FIRST_CHUNK_TREE_OBJECTID, ItemType: btrfsprim.CHUNK_ITEM_KEY}
	seed := buildSysChunk(key, 0x100000, 0x10000, []chunkStripeSpec{{DevID: 3, PhysOff: 0x40000}})
	buf := buildSuperblock(superblockCfg{
		Generation:    1,
		SectorSize:    0x1000,
		NodeSize:      0x1000,
		SysChunkArray: seed,
	})

	var sb Superblock
	_, err := binstruct.Unmarshal(buf, &sb)
	require.NoError(t, err)

	chunks, err := sb.ParseSysChunkArray()
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, key.ObjectID, chunks[0].Key.ObjectID)
	require.Len(t, chunks[0].Chunk.Stripes, 1)
	assert.Equal(t, btrfsvol.DeviceID(3), chunks[0].Chunk.Stripes[0].DeviceID)
	assert.Equal(t, btrfsvol.PhysicalAddr(0x40000), chunks[0].Chunk.Stripes[0].Offset)
}

func TestLoadSuperblockPicksHighestGeneration(t *testing.T) {
	t.Parallel()
	disk := newFakeDisk(0x500_0000)
	older := buildSuperblock(superblockCfg{Generation: 1, SectorSize: 0x1000, NodeSize: 0x1000, Label: "older"})
	newer := buildSuperblock(superblockCfg{Generation: 2, SectorSize: 0x1000, NodeSize: 0x1000, Label: "newer"})
	disk.write(SuperblockAddrs[0], older)
	disk.write(SuperblockAddrs[1], newer)

	io := NewBlockIO()
	io.SetReadHandler(disk.readFunc())
	sb, err := loadSuperblock(io)
	require.NoError(t, err)
	assert.Equal(t, "newer", sb.LabelString())
}

func TestLoadSuperblockNoneValid(t *testing.T) {
	t.Parallel()
	disk := newFakeDisk(0x20000)
	io := NewBlockIO()
	io.SetReadHandler(disk.readFunc())
	_, err := loadSuperblock(io)
	assert.ErrorIs(t, err, ErrNoValidSuperblock)
}
