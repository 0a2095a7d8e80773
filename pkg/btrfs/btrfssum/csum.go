// Package btrfssum computes the two CRC32C conventions used across the
// on-disk format: the node/superblock checksum, and the directory-entry
// name hash.
//
// Only the CRC32C algorithm is supported; newer checksum algorithms
// (XXHASH, SHA256, BLAKE2) that the on-disk checksum field reserves
// room for are out of scope.
package btrfssum

import (
	"encoding/hex"
	"hash/crc32"
)

// Size is the on-disk width of a single stored checksum, in bytes. The
// superblock and node header checksum fields are wider (32 bytes) to
// leave room for algorithms this module doesn't implement; only the
// first Size bytes are meaningful for CRC32C.
const Size = 4

// CSum holds one CRC32C checksum.
type CSum [Size]byte

func (c CSum) String() string {
	return hex.EncodeToString(c[:])
}

// StoredSize is the on-disk width of the checksum field embedded in a
// node header or superblock: wider than Size to leave room for
// checksum algorithms this module doesn't implement.
const StoredSize = 32

// Stored is the raw, full-width checksum field as it appears in a node
// header or superblock. Only the leading Size bytes are meaningful for
// CRC32C; the rest is reserved padding on a CRC32C-checksummed image.
type Stored [StoredSize]byte

// Head returns the CRC32C checksum carried in the leading bytes of the
// stored field.
func (s Stored) Head() CSum {
	var c CSum
	copy(c[:], s[:Size])
	return c
}

// Equal reports whether s carries exactly c in its leading bytes.
func (s Stored) Equal(c CSum) bool {
	return s.Head() == c
}

var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

// Sum computes the node/superblock checksum of dat: CRC32C with the
// standard all-ones seed and final invert.
func Sum(dat []byte) CSum {
	v := crc32.Checksum(dat, castagnoliTable)
	return csumFromUint32(v)
}

// NameHash computes the directory-entry name hash of name: CRC32C
// seeded with the bit-complement of 1 and without the usual final
// invert, then bitwise-negated as a separate final step. This is the
// value compared against a DirItem/DirIndex key's Offset field.
func NameHash(name []byte) uint32 {
	// crc32.Update(seed, tab, p) already performs the standard
	// entry/exit inversion around seed; passing ^uint32(1) here and
	// negating the result again is how that generic primitive
	// expresses "seed ~1, final negate" rather than the library's
	// usual "seed 0, final negate" convention.
	return ^crc32.Update(^uint32(1), castagnoliTable, name)
}

func csumFromUint32(v uint32) CSum {
	var ret CSum
	ret[0] = byte(v)
	ret[1] = byte(v >> 8)
	ret[2] = byte(v >> 16)
	ret[3] = byte(v >> 24)
	return ret
}
