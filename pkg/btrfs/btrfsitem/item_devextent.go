package btrfsitem

import (
	"github.com/btrfsparse/btrfsparse/pkg/binstruct"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/util"
)

// DevExtent (DEV_EXTENT) records the chunk-tree owner of one physical
// extent on a device, indexed by (device_id, physical offset).
type DevExtent struct {
	ChunkTree     int64           `bin:"off=0x0,  siz=0x8"`
	ChunkObjectID btrfsprim.ObjID `bin:"off=0x8,  siz=0x8"`
	ChunkOffset   int64           `bin:"off=0x10, siz=0x8"`
	Length        int64           `bin:"off=0x18, siz=0x8"`
	ChunkTreeUUID util.UUID       `bin:"off=0x20, siz=0x10"`
	binstruct.End `bin:"off=0x30"`
}
