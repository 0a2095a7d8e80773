package btrfsitem

import (
	"fmt"

	"github.com/btrfsparse/btrfsparse/pkg/binstruct"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
	"github.com/btrfsparse/btrfsparse/pkg/util"
)

// Chunk (CHUNK_ITEM, key.objectid == FIRST_CHUNK_TREE_OBJECTID, key.offset
// is the chunk's logical start address) maps a logical span onto one or
// more physical stripes.
type Chunk struct {
	Head    ChunkHeader
	Stripes []ChunkStripe
}

type ChunkHeader struct {
	Size           btrfsvol.AddrDelta       `bin:"off=0x0,  siz=0x8"`
	Owner          btrfsprim.ObjID          `bin:"off=0x8,  siz=0x8"` // always EXTENT_TREE_OBJECTID
	StripeLen      uint64                   `bin:"off=0x10, siz=0x8"`
	Type           btrfsvol.BlockGroupFlags `bin:"off=0x18, siz=0x8"`
	IOOptimalAlign uint32                   `bin:"off=0x20, siz=0x4"`
	IOOptimalWidth uint32                   `bin:"off=0x24, siz=0x4"`
	IOMinSize      uint32                   `bin:"off=0x28, siz=0x4"` // sector size
	NumStripes     uint16                   `bin:"off=0x2c, siz=0x2"`
	SubStripes     uint16                   `bin:"off=0x2e, siz=0x2"`
	binstruct.End  `bin:"off=0x30"`
}

type ChunkStripe struct {
	DeviceID      btrfsvol.DeviceID     `bin:"off=0x0,  siz=0x8"`
	Offset        btrfsvol.PhysicalAddr `bin:"off=0x8,  siz=0x8"`
	DeviceUUID    util.UUID             `bin:"off=0x10, siz=0x10"`
	binstruct.End `bin:"off=0x20"`
}

// Mappings returns one btrfsvol.Mapping per stripe: each stripe covers
// a logical subrange of the chunk's full Size, anchored at key.Offset
// and advancing by Size per stripe. StripeLen is the device I/O unit
// within a stripe (64KiB on a real image) and plays no part in the
// logical span a stripe covers — that's the chunk's total Size.
func (chunk Chunk) Mappings(key btrfsprim.Key) []btrfsvol.Mapping {
	span := chunk.Head.Size
	ret := make([]btrfsvol.Mapping, 0, len(chunk.Stripes))
	for i, stripe := range chunk.Stripes {
		ret = append(ret, btrfsvol.Mapping{
			LAddr: btrfsvol.LogicalAddr(key.Offset).Add(btrfsvol.AddrDelta(i) * span),
			PAddr: btrfsvol.QualifiedPhysicalAddr{
				Dev:  stripe.DeviceID,
				Addr: stripe.Offset,
			},
			Size:  span,
			Flags: chunk.Head.Type,
		})
	}
	return ret
}

func (chunk *Chunk) UnmarshalBinary(dat []byte) (int, error) {
	n, err := binstruct.Unmarshal(dat, &chunk.Head)
	if err != nil {
		return n, err
	}
	chunk.Stripes = nil
	for i := 0; i < int(chunk.Head.NumStripes); i++ {
		var stripe ChunkStripe
		_n, err := binstruct.Unmarshal(dat[n:], &stripe)
		n += _n
		if err != nil {
			return n, fmt.Errorf("btrfsitem.Chunk.UnmarshalBinary: stripe %d: %w", i, err)
		}
		chunk.Stripes = append(chunk.Stripes, stripe)
	}
	return n, nil
}
