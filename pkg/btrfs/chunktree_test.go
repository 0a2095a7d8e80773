package btrfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
)

// TestWalkChunkTreeSpansFullChunkSize builds a chunk tree leaf whose
// one CHUNK_ITEM has a chunk size (1MiB) far larger than its stripe
// I/O unit (64KiB, the normal real-world ratio) and checks that every
// logical address across the whole chunk — not just its first 64KiB —
// translates.
func TestWalkChunkTreeSpansFullChunkSize(t *testing.T) {
	t.Parallel()
	disk := newFakeDisk(0x20000)

	const chunkSize = 1 << 20 // 1MiB
	const stripeLen = 1 << 16 // 64KiB
	chunkRoot := btrfsvol.LogicalAddr(0x1000)
	disk.write(btrfsvol.PhysicalAddr(chunkRoot), buildLeaf(testNodeSize, chunkRoot, []leafItem{
		{
			Key:  btrfsprim.Key{ObjectID: btrfsprim.FIRST_CHUNK_TREE_OBJECTID, ItemType: btrfsprim.CHUNK_ITEM_KEY, Offset: 0},
			Data: buildChunkItem(chunkSize, stripeLen, []chunkStripeSpec{{DevID: 0, PhysOff: 0x500000}}),
		},
	}))

	io := NewBlockIO()
	io.SetReadHandler(disk.readFunc())
	// seed just enough identity mapping to read the chunk tree leaf itself.
	require.NoError(t, io.Translator.AddMapping(chunkRoot, testNodeSize, 0, btrfsvol.PhysicalAddr(chunkRoot)))

	p := &Parser{io: io, nodes: NewNodeReader(io, testNodeSize, 8)}
	require.NoError(t, p.walkChunkTree(chunkRoot))

	paddr, _, ok := io.Translator.Translate(0)
	require.True(t, ok)
	assert.Equal(t, btrfsvol.PhysicalAddr(0x500000), paddr.Addr)

	// well past the 64KiB stripe unit, still within the 1MiB chunk.
	paddr, _, ok = io.Translator.Translate(chunkSize - 1)
	require.True(t, ok)
	assert.Equal(t, btrfsvol.PhysicalAddr(0x500000+chunkSize-1), paddr.Addr)

	_, _, ok = io.Translator.Translate(chunkSize)
	assert.False(t, ok, "translate must fail past the end of the chunk")
}

// TestWalkChunkTreeMultiStripeInstallsAllSubranges checks that a
// multi-stripe chunk gets one translatable subrange per stripe,
// spaced by chunkSize, per the b-tree's testable property for
// multi-stripe chunks.
func TestWalkChunkTreeMultiStripeInstallsAllSubranges(t *testing.T) {
	t.Parallel()
	disk := newFakeDisk(0x20000)

	const chunkSize = 1 << 21 // 2MiB
	chunkRoot := btrfsvol.LogicalAddr(0x1000)
	disk.write(btrfsvol.PhysicalAddr(chunkRoot), buildLeaf(testNodeSize, chunkRoot, []leafItem{
		{
			Key: btrfsprim.Key{ObjectID: btrfsprim.FIRST_CHUNK_TREE_OBJECTID, ItemType: btrfsprim.CHUNK_ITEM_KEY, Offset: 0x10000000},
			Data: buildChunkItem(chunkSize, 1<<16, []chunkStripeSpec{
				{DevID: 0, PhysOff: 0x200000},
				{DevID: 1, PhysOff: 0x400000},
			}),
		},
	}))

	io := NewBlockIO()
	io.SetReadHandler(disk.readFunc())
	require.NoError(t, io.Translator.AddMapping(chunkRoot, testNodeSize, 0, btrfsvol.PhysicalAddr(chunkRoot)))

	p := &Parser{io: io, nodes: NewNodeReader(io, testNodeSize, 8)}
	require.NoError(t, p.walkChunkTree(chunkRoot))

	first, _, ok := io.Translator.Translate(0x10000000)
	require.True(t, ok)
	assert.Equal(t, btrfsvol.PhysicalAddr(0x200000), first.Addr)

	second, _, ok := io.Translator.Translate(0x10000000 + chunkSize)
	require.True(t, ok)
	assert.Equal(t, btrfsvol.PhysicalAddr(0x400000), second.Addr)

	_, _, ok = io.Translator.Translate(0x10000000 + 2*chunkSize)
	assert.False(t, ok)
}
