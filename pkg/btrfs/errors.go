package btrfs

import "errors"

// Sentinel errors surfaced by the core. Higher-level callers use
// errors.Is against these rather than matching on formatted text.
var (
	// ErrNoValidSuperblock means no candidate superblock offset held a
	// copy with a valid magic and checksum.
	ErrNoValidSuperblock = errors.New("btrfs: no valid superblock found")

	// ErrChecksumMismatch means a node or sector's stored checksum did
	// not match the computed one.
	ErrChecksumMismatch = errors.New("btrfs: checksum mismatch")

	// ErrNotMapped means a logical address has no entry in the address
	// translator.
	ErrNotMapped = errors.New("btrfs: logical address not mapped")

	// ErrPathNotFound means path resolution failed to find a directory
	// entry matching some component of the requested path.
	ErrPathNotFound = errors.New("btrfs: path not found")

	// ErrNotANode means a leaf was needed but the node's header
	// reports level > 0 (an interior node has no items). FindItem does
	// not return it; it reports ok == false for interior nodes.
	ErrNotANode = errors.New("btrfs: not a leaf node")

	// ErrShortRead means a block device read callback returned fewer
	// bytes than requested.
	ErrShortRead = errors.New("btrfs: short read")
)
