package btrfsitem

import (
	"fmt"

	"github.com/btrfsparse/btrfsparse/pkg/binstruct"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
)

// FileExtent (EXTENT_DATA, key.objectid == inode, key.offset == byte
// offset within the file) describes either an inline run of file data
// or a pointer to a regular/preallocated extent.
type FileExtent struct {
	Generation btrfsprim.Generation `bin:"off=0x0, siz=0x8"`
	RAMBytes   int64                `bin:"off=0x8, siz=0x8"` // upper bound of decompressed size

	Compression   CompressionType `bin:"off=0x10, siz=0x1"`
	Encryption    uint8           `bin:"off=0x11, siz=0x1"`
	OtherEncoding uint16          `bin:"off=0x12, siz=0x2"`

	Type          FileExtentType `bin:"off=0x14, siz=0x1"`
	binstruct.End `bin:"off=0x15"`

	// exactly one of these is populated, depending on .Type
	BodyInline []byte `bin:"-"`
	BodyExtent struct {
		DiskByteNr   btrfsvol.LogicalAddr `bin:"off=0x0,  siz=0x8"`
		DiskNumBytes btrfsvol.AddrDelta   `bin:"off=0x8,  siz=0x8"`
		Offset       btrfsvol.AddrDelta   `bin:"off=0x10, siz=0x8"`
		NumBytes     int64                `bin:"off=0x18, siz=0x8"`
		binstruct.End `bin:"off=0x20"`
	} `bin:"-"`
}

func (o *FileExtent) UnmarshalBinary(dat []byte) (int, error) {
	n, err := binstruct.UnmarshalWithoutInterface(dat, o)
	if err != nil {
		return n, err
	}
	switch o.Type {
	case FILE_EXTENT_INLINE:
		o.BodyInline = dat[n:]
		n += len(o.BodyInline)
	case FILE_EXTENT_REG, FILE_EXTENT_PREALLOC:
		_n, err := binstruct.Unmarshal(dat[n:], &o.BodyExtent)
		n += _n
		if err != nil {
			return n, err
		}
	default:
		return n, fmt.Errorf("btrfsitem.FileExtent.UnmarshalBinary: unknown file extent type %v", o.Type)
	}
	return n, nil
}

// Size returns the logical size of the data this extent item
// represents, per its .Type.
func (o FileExtent) Size() (int64, error) {
	switch o.Type {
	case FILE_EXTENT_INLINE:
		return int64(len(o.BodyInline)), nil
	case FILE_EXTENT_REG, FILE_EXTENT_PREALLOC:
		return o.BodyExtent.NumBytes, nil
	default:
		return 0, fmt.Errorf("btrfsitem.FileExtent.Size: unknown file extent type %v", o.Type)
	}
}

type FileExtentType uint8

const (
	FILE_EXTENT_INLINE = FileExtentType(iota)
	FILE_EXTENT_REG
	FILE_EXTENT_PREALLOC
)

func (fet FileExtentType) String() string {
	names := map[FileExtentType]string{
		FILE_EXTENT_INLINE:   "inline",
		FILE_EXTENT_REG:      "regular",
		FILE_EXTENT_PREALLOC: "prealloc",
	}
	name, ok := names[fet]
	if !ok {
		name = "unknown"
	}
	return fmt.Sprintf("%d (%s)", fet, name)
}

type CompressionType uint8

const (
	COMPRESS_NONE = CompressionType(iota)
	COMPRESS_ZLIB
	COMPRESS_LZO
	COMPRESS_ZSTD
)

func (ct CompressionType) String() string {
	names := map[CompressionType]string{
		COMPRESS_NONE: "none",
		COMPRESS_ZLIB: "zlib",
		COMPRESS_LZO:  "lzo",
		COMPRESS_ZSTD: "zstd",
	}
	name, ok := names[ct]
	if !ok {
		name = "unknown"
	}
	return fmt.Sprintf("%d (%s)", ct, name)
}
