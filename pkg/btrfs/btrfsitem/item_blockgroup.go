package btrfsitem

import (
	"github.com/btrfsparse/btrfsparse/pkg/binstruct"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
)

// BlockGroup (BLOCK_GROUP_ITEM, key.objectid == logical start address,
// key.offset == size) records the allocation state of one block group.
type BlockGroup struct {
	Used          int64                    `bin:"off=0x0,  siz=0x8"`
	ChunkObjectID btrfsprim.ObjID          `bin:"off=0x8,  siz=0x8"` // always FIRST_CHUNK_TREE_OBJECTID
	Flags         btrfsvol.BlockGroupFlags `bin:"off=0x10, siz=0x8"`
	binstruct.End `bin:"off=0x18"`
}
