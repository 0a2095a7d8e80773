package btrfs

import (
	"fmt"

	"github.com/btrfsparse/btrfsparse/pkg/binstruct"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
)

// primaryDevice is the device id the superblock loader always reads
// from: whichever device id the caller's read callback treats as "the
// device the image was opened against". Every other device is known
// only by the device ids recorded in chunk stripes, which are passed
// to the read callback as-is.
const primaryDevice = btrfsvol.DeviceID(0)

// loadSuperblock implements spec §4.4: scan SuperblockAddrs, keep the
// highest-generation candidate whose magic and checksum both check
// out, and return it. A candidate that can't be read at all (the
// device is too small to hold it) is treated as absent, not as a
// hard failure — later candidates are still tried.
func loadSuperblock(io *BlockIO) (Superblock, error) {
	var best Superblock
	haveBest := false

	for _, addr := range SuperblockAddrs {
		buf := make([]byte, SuperblockSize)
		if _, err := io.ReadRaw(buf, primaryDevice, addr, SuperblockSize); err != nil {
			continue
		}

		var sb Superblock
		if _, err := binstruct.Unmarshal(buf, &sb); err != nil {
			continue
		}
		if !sb.ValidateMagic() {
			continue
		}
		if err := ValidateChecksum(buf); err != nil {
			continue
		}

		if !haveBest || sb.Generation > best.Generation {
			best = sb
			haveBest = true
		}
	}

	if !haveBest {
		return Superblock{}, fmt.Errorf("btrfs: load superblock: %w", ErrNoValidSuperblock)
	}
	return best, nil
}
