package btrfsvol

import "github.com/btrfsparse/btrfsparse/pkg/util"

// BlockGroupFlags classifies a chunk by what it stores (data, metadata,
// system) and how its stripes are laid out (single, RAID0/1/10/5/6,
// DUP). This module never reconstructs RAID stripes; it only uses the
// first stripe of a chunk, so these flags are informational.
type BlockGroupFlags uint64

const (
	BLOCK_GROUP_DATA = BlockGroupFlags(1 << iota)
	BLOCK_GROUP_SYSTEM
	BLOCK_GROUP_METADATA
	BLOCK_GROUP_RAID0
	BLOCK_GROUP_RAID1
	BLOCK_GROUP_DUP
	BLOCK_GROUP_RAID10
	BLOCK_GROUP_RAID5
	BLOCK_GROUP_RAID6
	BLOCK_GROUP_RAID1C3
	BLOCK_GROUP_RAID1C4

	blockGroupRAIDMask = BLOCK_GROUP_RAID1 | BLOCK_GROUP_DUP | BLOCK_GROUP_RAID10 |
		BLOCK_GROUP_RAID5 | BLOCK_GROUP_RAID6 | BLOCK_GROUP_RAID1C3 | BLOCK_GROUP_RAID1C4
)

var blockGroupFlagNames = []string{
	"DATA",
	"SYSTEM",
	"METADATA",
	"RAID0",
	"RAID1",
	"DUP",
	"RAID10",
	"RAID5",
	"RAID6",
	"RAID1C3",
	"RAID1C4",
}

func (f BlockGroupFlags) Has(req BlockGroupFlags) bool { return f&req == req }

func (f BlockGroupFlags) String() string {
	ret := util.BitfieldString(f, blockGroupFlagNames)
	if f&blockGroupRAIDMask == 0 {
		ret += "|single"
	}
	return ret
}
