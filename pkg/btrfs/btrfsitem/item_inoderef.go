package btrfsitem

import (
	"github.com/btrfsparse/btrfsparse/pkg/binstruct"
)

// InodeRef (INODE_REF, key.objectid == child inode, key.offset ==
// parent inode) is a backwards link from an inode to one of the
// directory entries that names it.
type InodeRef struct {
	Index         int64 `bin:"off=0x0, siz=0x8"`
	NameLen       int16 `bin:"off=0x8, siz=0x2"`
	binstruct.End `bin:"off=0xa"`
	Name          []byte `bin:"-"`
}

func (o *InodeRef) UnmarshalBinary(dat []byte) (int, error) {
	n, err := binstruct.UnmarshalWithoutInterface(dat, o)
	if err != nil {
		return n, err
	}
	o.Name = dat[n : n+int(o.NameLen)]
	n += int(o.NameLen)
	return n, nil
}
