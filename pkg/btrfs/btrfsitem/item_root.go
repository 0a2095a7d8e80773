package btrfsitem

import (
	"github.com/btrfsparse/btrfsparse/pkg/binstruct"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
	"github.com/btrfsparse/btrfsparse/pkg/util"
)

// Root (ROOT_ITEM) is an entry in the root tree describing the root
// node and bookkeeping for one of the filesystem's other trees
// (fs trees, the chunk tree, the checksum tree, snapshots, ...).
type Root struct {
	Inode         Inode                `bin:"off=0x0,   siz=0xa0"`
	Generation    int64                `bin:"off=0xa0,  siz=0x8"`
	RootDirID     int64                `bin:"off=0xa8,  siz=0x8"`
	ByteNr        btrfsvol.LogicalAddr `bin:"off=0xb0,  siz=0x8"`
	ByteLimit     int64                `bin:"off=0xb8,  siz=0x8"`
	BytesUsed     int64                `bin:"off=0xc0,  siz=0x8"`
	LastSnapshot  int64                `bin:"off=0xc8,  siz=0x8"`
	Flags         RootFlags            `bin:"off=0xd0,  siz=0x8"`
	Refs          int32                `bin:"off=0xd8,  siz=0x4"`
	DropProgress  btrfsprim.Key        `bin:"off=0xdc,  siz=0x11"`
	DropLevel     uint8                `bin:"off=0xed,  siz=0x1"`
	Level         uint8                `bin:"off=0xee,  siz=0x1"`
	GenerationV2  int64                `bin:"off=0xef,  siz=0x8"`
	UUID          util.UUID            `bin:"off=0xF7,  siz=0x10"`
	ParentUUID    util.UUID            `bin:"off=0x107, siz=0x10"`
	ReceivedUUID  util.UUID            `bin:"off=0x117, siz=0x10"`
	CTransID      int64                `bin:"off=0x127, siz=0x8"`
	OTransID      int64                `bin:"off=0x12f, siz=0x8"`
	STransID      int64                `bin:"off=0x137, siz=0x8"`
	RTransID      int64                `bin:"off=0x13f, siz=0x8"`
	CTime         btrfsprim.Time       `bin:"off=0x147, siz=0xc"`
	OTime         btrfsprim.Time       `bin:"off=0x153, siz=0xc"`
	STime         btrfsprim.Time       `bin:"off=0x15F, siz=0xc"`
	RTime         btrfsprim.Time       `bin:"off=0x16b, siz=0xc"`
	GlobalTreeID  btrfsprim.ObjID      `bin:"off=0x177, siz=0x8"`
	Reserved      [7]int64             `bin:"off=0x17f, siz=0x38"`
	binstruct.End `bin:"off=0x1b7"`
}

type RootFlags uint64

const (
	ROOT_SUBVOL_RDONLY = RootFlags(1 << iota)
)

var rootItemFlagNames = []string{
	"SUBVOL_RDONLY",
}

func (f RootFlags) Has(req RootFlags) bool { return f&req == req }
func (f RootFlags) String() string         { return util.BitfieldString(f, rootItemFlagNames) }
