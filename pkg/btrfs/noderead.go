package btrfs

import (
	"fmt"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfssum"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
	"github.com/btrfsparse/btrfsparse/pkg/util"
)

// NodeReader reads and validates tree nodes. It sits directly on top
// of BlockIO: every node it hands back has already had its CRC-32C
// checked against the stored header value, so nothing above this
// layer re-validates a node it receives.
//
// A small LRU of already-validated nodes sits in front of the actual
// read+checksum path; multi-component path resolution and file reads
// both revisit the same handful of interior nodes repeatedly; tree
// shape (coarse branching near the root) is what a B-tree exhibits
// regardless of this spec's domain. Re-validating the same interior
// node once per tree descent would burn all the cycles that the LRU
// buys back. The cache holds *already-checksum-verified* nodes, so a
// hit never skips the spec invariant that every read goes through CRC
// verification — the verification happened exactly once, on the read
// that populated the entry.
type NodeReader struct {
	io       *BlockIO
	nodeSize uint32
	cache    *util.LRUCache[btrfsvol.LogicalAddr, *Node]
}

// NewNodeReader constructs a node reader over io, reading nodeSize
// bytes per node and caching up to cacheSize validated nodes.
func NewNodeReader(io *BlockIO, nodeSize uint32, cacheSize int) *NodeReader {
	return &NodeReader{
		io:       io,
		nodeSize: nodeSize,
		cache:    util.NewLRUCache[btrfsvol.LogicalAddr, *Node](cacheSize),
	}
}

// GetNode reads and validates the node at logical address laddr: a
// translation failure is reported as ErrNotMapped, a checksum mismatch
// as ErrChecksumMismatch, per spec §4.5.
func (nr *NodeReader) GetNode(laddr btrfsvol.LogicalAddr) (*Node, error) {
	if n, ok := nr.cache.Get(laddr); ok {
		return n, nil
	}

	buf := make([]byte, nr.nodeSize)
	if _, err := nr.io.ReadLogical(buf, laddr, int(nr.nodeSize)); err != nil {
		return nil, fmt.Errorf("btrfs.NodeReader.GetNode: %w", err)
	}

	calc := btrfssum.Sum(buf[ChecksummedRegionOffset:])
	var stored btrfssum.Stored
	copy(stored[:], buf[:btrfssum.StoredSize])
	if !stored.Equal(calc) {
		return nil, fmt.Errorf("btrfs.NodeReader.GetNode: node at %v: %w: stored=%s calculated=%s",
			laddr, ErrChecksumMismatch, stored.Head(), calc)
	}

	var node Node
	if _, err := node.UnmarshalBinary(buf); err != nil {
		return nil, fmt.Errorf("btrfs.NodeReader.GetNode: node at %v: %w", laddr, err)
	}

	nr.cache.Add(laddr, &node)
	return &node, nil
}
