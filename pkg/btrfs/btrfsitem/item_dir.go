package btrfsitem

import (
	"fmt"

	"github.com/btrfsparse/btrfsparse/pkg/binstruct"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
)

// DirList decodes a run of back-to-back Dir entries; DIR_ITEM,
// DIR_INDEX, and XATTR_ITEM items all use this layout.
type DirList []Dir

func (o *DirList) UnmarshalBinary(dat []byte) (int, error) {
	*o = nil
	n := 0
	for n < len(dat) {
		var ref Dir
		_n, err := binstruct.Unmarshal(dat[n:], &ref)
		n += _n
		if err != nil {
			return n, err
		}
		*o = append(*o, ref)
	}
	return n, nil
}

type Dir struct {
	Location      btrfsprim.Key `bin:"off=0x0,  siz=0x11"`
	TransID       int64         `bin:"off=0x11, siz=0x8"`
	DataLen       uint16        `bin:"off=0x19, siz=0x2"`
	NameLen       uint16        `bin:"off=0x1b, siz=0x2"`
	Type          FileType      `bin:"off=0x1d, siz=0x1"`
	binstruct.End `bin:"off=0x1e"`
	Data          []byte `bin:"-"`
	Name          []byte `bin:"-"`
}

func (o *Dir) UnmarshalBinary(dat []byte) (int, error) {
	n, err := binstruct.UnmarshalWithoutInterface(dat, o)
	if err != nil {
		return n, err
	}
	o.Data = dat[n : n+int(o.DataLen)]
	n += int(o.DataLen)
	o.Name = dat[n : n+int(o.NameLen)]
	n += int(o.NameLen)
	return n, nil
}

type FileType uint8

const (
	FT_UNKNOWN = FileType(iota)
	FT_REG_FILE
	FT_DIR
	FT_CHRDEV
	FT_BLKDEV
	FT_FIFO
	FT_SOCK
	FT_SYMLINK
	FT_XATTR
	FT_MAX
)

var fileTypeNames = map[FileType]string{
	FT_UNKNOWN:  "UNKNOWN",
	FT_REG_FILE: "FILE",
	FT_DIR:      "DIR",
	FT_CHRDEV:   "CHRDEV",
	FT_BLKDEV:   "BLKDEV",
	FT_FIFO:     "FIFO",
	FT_SOCK:     "SOCK",
	FT_SYMLINK:  "SYMLINK",
	FT_XATTR:    "XATTR",
}

func (ft FileType) String() string {
	if name, ok := fileTypeNames[ft]; ok {
		return name
	}
	return fmt.Sprintf("DIR_ITEM.%d", uint8(ft))
}
