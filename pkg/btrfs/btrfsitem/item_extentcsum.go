package btrfsitem

import (
	"fmt"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfssum"
)

// ExtentCSum (EXTENT_CSUM, key.objectid == EXTENT_CSUM_OBJECTID,
// key.offset == logical start address of the checksummed region) holds
// one CRC32C checksum per sector of the region it covers.
type ExtentCSum struct {
	Sums []btrfssum.CSum
}

func (o *ExtentCSum) UnmarshalBinary(dat []byte) (int, error) {
	if len(dat)%btrfssum.Size != 0 {
		return 0, fmt.Errorf("btrfsitem.ExtentCSum.UnmarshalBinary: %d is not a multiple of checksum size %d",
			len(dat), btrfssum.Size)
	}
	o.Sums = nil
	for n := 0; n < len(dat); n += btrfssum.Size {
		var csum btrfssum.CSum
		copy(csum[:], dat[n:n+btrfssum.Size])
		o.Sums = append(o.Sums, csum)
	}
	return len(dat), nil
}
