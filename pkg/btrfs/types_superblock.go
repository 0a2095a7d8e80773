package btrfs

import (
	"fmt"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsitem"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfssum"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
	"github.com/btrfsparse/btrfsparse/pkg/util"

	"github.com/btrfsparse/btrfsparse/pkg/binstruct"
)

// SuperblockSize is the fixed on-disk width of a superblock copy.
const SuperblockSize = 0x1000

// SuperblockMagic is the 8-byte value every valid superblock carries at
// offset 0x40.
var SuperblockMagic = [8]byte{'_', 'B', 'H', 'R', 'f', 'S', '_', 'M'}

// SuperblockAddrs lists the candidate physical byte offsets a
// superblock copy may live at, in scan order. A real device may be too
// small to hold the later entries; the superblock loader skips any
// candidate that doesn't fit.
var SuperblockAddrs = []btrfsvol.PhysicalAddr{
	0x00_0001_0000, // 64KiB
	0x00_0400_0000, // 64MiB
	0x40_0000_0000, // 256GiB
	0x4_0000_0000_0000, // 1PiB
}

// ChecksummedRegionOffset is also where a superblock's CRC-32C covered
// region begins (everything past the Checksum field itself); it's the
// same offset as a node's, since both formats put the checksum first.

// Superblock is the 4KiB record every btrfs device carries at each of
// SuperblockAddrs. Field layout and offsets follow the on-disk format
// exactly; unused backup-root and reserved regions are kept as raw
// padding rather than decoded, since nothing in this module consumes
// them.
type Superblock struct {
	Checksum   btrfssum.Stored      `bin:"off=0x0,  siz=0x20"`
	FSUUID     util.UUID            `bin:"off=0x20, siz=0x10"`
	Self       btrfsvol.PhysicalAddr `bin:"off=0x30, siz=0x8"`
	Flags      uint64               `bin:"off=0x38, siz=0x8"`
	Magic      [8]byte              `bin:"off=0x40, siz=0x8"`
	Generation btrfsprim.Generation `bin:"off=0x48, siz=0x8"`

	RootTree  btrfsvol.LogicalAddr `bin:"off=0x50, siz=0x8"`
	ChunkTree btrfsvol.LogicalAddr `bin:"off=0x58, siz=0x8"`
	LogTree   btrfsvol.LogicalAddr `bin:"off=0x60, siz=0x8"`

	LogRootTransID  uint64          `bin:"off=0x68, siz=0x8"`
	TotalBytes      uint64          `bin:"off=0x70, siz=0x8"`
	BytesUsed       uint64          `bin:"off=0x78, siz=0x8"`
	RootDirObjectID btrfsprim.ObjID `bin:"off=0x80, siz=0x8"`
	NumDevices      uint64          `bin:"off=0x88, siz=0x8"`

	SectorSize        uint32 `bin:"off=0x90, siz=0x4"`
	NodeSize          uint32 `bin:"off=0x94, siz=0x4"`
	LeafSize          uint32 `bin:"off=0x98, siz=0x4"` // unused; must equal NodeSize
	StripeSize        uint32 `bin:"off=0x9c, siz=0x4"`
	SysChunkArraySize uint32 `bin:"off=0xa0, siz=0x4"`

	ChunkRootGeneration btrfsprim.Generation `bin:"off=0xa4, siz=0x8"`
	CompatFlags         uint64               `bin:"off=0xac, siz=0x8"`
	CompatROFlags       uint64               `bin:"off=0xb4, siz=0x8"`
	IncompatFlags       IncompatFlags        `bin:"off=0xbc, siz=0x8"`
	ChecksumType        uint16               `bin:"off=0xc4, siz=0x2"` // always CRC32C in this module

	RootLevel  uint8 `bin:"off=0xc6, siz=0x1"`
	ChunkLevel uint8 `bin:"off=0xc7, siz=0x1"`
	LogLevel   uint8 `bin:"off=0xc8, siz=0x1"`

	DevItem         btrfsitem.Dev `bin:"off=0xc9,  siz=0x62"`
	Label           [0x100]byte   `bin:"off=0x12b, siz=0x100"`
	CacheGeneration btrfsprim.Generation `bin:"off=0x22b, siz=0x8"`
	UUIDTreeGen     uint64        `bin:"off=0x233, siz=0x8"`

	MetadataUUID util.UUID `bin:"off=0x23b, siz=0x10"`

	Reserved [224]byte `bin:"off=0x24b, siz=0xe0"` // future expansion / ExtentTreeV2 fields not decoded

	// SysChunkArray holds (Key, ChunkItem, stripe[]) records; only the
	// leading SysChunkArraySize bytes are meaningful. This is the "seed
	// chunk table" of spec §3/§4.4.
	SysChunkArray [0x800]byte `bin:"off=0x32b, siz=0x800"`

	// BackupRoots is four copies of recent tree-root bookkeeping kept
	// for manual recovery; this module never reads them.
	BackupRoots [0x2a0]byte `bin:"off=0xb2b, siz=0x2a0"`

	Padding       [0x235]byte `bin:"off=0xdcb, siz=0x235"`
	binstruct.End `bin:"off=0x1000"`
}

// IncompatFlags records which on-disk feature bits a filesystem was
// formatted with. This module doesn't branch on most of them (no
// compression, no RAID reconstruction, no extent-tree-v2), but decodes
// the field so callers can at least inspect it.
type IncompatFlags uint64

// ValidateMagic reports whether sb carries the expected 8-byte magic.
func (sb Superblock) ValidateMagic() bool {
	return sb.Magic == SuperblockMagic
}

// CalculateChecksum computes the CRC-32C that should be stored in
// sb.Checksum, given the raw on-disk bytes raw of this same superblock
// copy (as read directly from the device — not a re-marshaled value,
// since marshaling would have to reproduce reserved/unused regions
// byte for byte to agree).
func CalculateChecksum(raw []byte) (btrfssum.CSum, error) {
	if len(raw) < SuperblockSize {
		return btrfssum.CSum{}, fmt.Errorf("btrfs.CalculateChecksum: need %d bytes, have %d", SuperblockSize, len(raw))
	}
	return btrfssum.Sum(raw[ChecksummedRegionOffset:SuperblockSize]), nil
}

// ValidateChecksum reports whether raw's stored checksum field matches
// the CRC-32C of its own checksummed region.
func ValidateChecksum(raw []byte) error {
	calc, err := CalculateChecksum(raw)
	if err != nil {
		return err
	}
	var stored btrfssum.Stored
	copy(stored[:], raw[:btrfssum.StoredSize])
	if !stored.Equal(calc) {
		return fmt.Errorf("%w: superblock: stored=%s calculated=%s", ErrChecksumMismatch, stored.Head(), calc)
	}
	return nil
}

// LabelString returns the filesystem's volume label, trimmed of trailing
// NUL padding.
func (sb Superblock) LabelString() string {
	n := 0
	for n < len(sb.Label) && sb.Label[n] != 0 {
		n++
	}
	return string(sb.Label[:n])
}

// SysChunk is one (Key, ChunkItem) record out of a superblock's seed
// chunk table.
type SysChunk struct {
	Key   btrfsprim.Key
	Chunk btrfsitem.Chunk
}

// ParseSysChunkArray decodes the valid prefix of sb.SysChunkArray into
// a sequence of (Key, ChunkItem) pairs, per spec §4.4: "iterate (Key,
// ChunkItem, stripe[]) records while table_bytes > 0".
func (sb Superblock) ParseSysChunkArray() ([]SysChunk, error) {
	dat := sb.SysChunkArray[:sb.SysChunkArraySize]
	var ret []SysChunk
	for len(dat) > 0 {
		var key btrfsprim.Key
		n, err := binstruct.Unmarshal(dat, &key)
		if err != nil {
			return ret, fmt.Errorf("btrfs.Superblock.ParseSysChunkArray: key: %w", err)
		}
		dat = dat[n:]

		var chunk btrfsitem.Chunk
		n, err = binstruct.Unmarshal(dat, &chunk)
		if err != nil {
			return ret, fmt.Errorf("btrfs.Superblock.ParseSysChunkArray: chunk at key %v: %w", key, err)
		}
		dat = dat[n:]

		ret = append(ret, SysChunk{Key: key, Chunk: chunk})
	}
	return ret, nil
}
