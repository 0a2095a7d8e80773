package btrfsprim

import (
	"fmt"
	"time"

	"github.com/btrfsparse/btrfsparse/pkg/binstruct"
)

// Time is the on-disk 12-byte timestamp: seconds since the epoch plus
// nanoseconds within the second.
type Time struct {
	Sec  int64  `bin:"off=0x0, siz=0x8"`
	NSec uint32 `bin:"off=0x8, siz=0x4"`
	binstruct.End `bin:"off=0xc"`
}

func (t Time) ToStd() time.Time {
	return time.Unix(t.Sec, int64(t.NSec)).UTC()
}

func (t Time) String() string {
	return fmt.Sprintf("%s", t.ToStd().Format(time.RFC3339Nano))
}
