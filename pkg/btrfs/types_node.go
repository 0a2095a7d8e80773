package btrfs

import (
	"fmt"

	"github.com/btrfsparse/btrfsparse/pkg/binstruct"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfssum"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
	"github.com/btrfsparse/btrfsparse/pkg/util"
)

// NodeFlags is the low 56 bits of the node header's combined
// flags/backref-revision field; on disk it is stored as 7 bytes, with
// an 8th byte (BackrefRev, decoded separately) completing the word.
type NodeFlags uint64

const (
	NodeWritten = NodeFlags(1 << iota)
	NodeReloc
)

var nodeFlagNames = []string{"WRITTEN", "RELOC"}

func (f NodeFlags) Has(req NodeFlags) bool { return f&req == req }
func (f NodeFlags) String() string         { return util.BitfieldString(f, nodeFlagNames) }

// BinaryStaticSize satisfies binstruct.StaticSizer: NodeFlags occupies
// 7 bytes on disk, not the 8 its Go representation would imply.
func (f NodeFlags) BinaryStaticSize() int { return 7 }

func (f *NodeFlags) UnmarshalBinary(dat []byte) (int, error) {
	if len(dat) < 7 {
		return 0, fmt.Errorf("btrfs.NodeFlags.UnmarshalBinary: need 7 bytes, have %d", len(dat))
	}
	var v uint64
	for i := 6; i >= 0; i-- {
		v = (v << 8) | uint64(dat[i])
	}
	*f = NodeFlags(v)
	return 7, nil
}

// NodeHeader is the fixed-size preamble of every tree node: checksum,
// identity, generation, and enough bookkeeping to tell a leaf from an
// interior node (Level == 0 means leaf).
type NodeHeader struct {
	Checksum      btrfssum.Stored      `bin:"off=0x0,  siz=0x20"`
	FSID          util.UUID            `bin:"off=0x20, siz=0x10"`
	Addr          btrfsvol.LogicalAddr `bin:"off=0x30, siz=0x8"`
	Flags         NodeFlags            `bin:"off=0x38, siz=0x7"`
	BackrefRev    uint8                `bin:"off=0x3f, siz=0x1"`
	ChunkTreeUUID util.UUID            `bin:"off=0x40, siz=0x10"`
	Generation    btrfsprim.Generation `bin:"off=0x50, siz=0x8"`
	Owner         btrfsprim.ObjID      `bin:"off=0x58, siz=0x8"`
	NumItems      uint32               `bin:"off=0x60, siz=0x4"`
	Level         uint8                `bin:"off=0x64, siz=0x1"`
	binstruct.End `bin:"off=0x65"`
}

// NodeHeaderSize is the on-disk size of NodeHeader, computed once so
// leaf item payload offsets (which are relative to the end of the
// header) don't need to recompute it.
var NodeHeaderSize = binstruct.StaticSize(NodeHeader{})

// ChecksummedRegionOffset is where the CRC-32C covered region of a
// node begins: everything from FSID onward, i.e. everything but the
// checksum field itself.
const ChecksummedRegionOffset = 0x20

// KeyPointer is one entry of an interior node's child array: the
// smallest key in the subtree rooted at BlockAddr, the address of that
// subtree's root, and the generation it was written at (used to detect
// stale cached copies, though this module never caches across writes).
type KeyPointer struct {
	Key           btrfsprim.Key        `bin:"off=0x0,  siz=0x11"`
	BlockAddr     btrfsvol.LogicalAddr `bin:"off=0x11, siz=0x8"`
	Generation    btrfsprim.Generation `bin:"off=0x19, siz=0x8"`
	binstruct.End `bin:"off=0x21"`
}

// ItemHeader is one entry of a leaf node's item array. DataOffset is
// measured in bytes past the end of the node header; DataSize is the
// payload's length. Item headers are packed in ascending key order.
type ItemHeader struct {
	Key           btrfsprim.Key `bin:"off=0x0,  siz=0x11"`
	DataOffset    uint32        `bin:"off=0x11, siz=0x4"`
	DataSize      uint32        `bin:"off=0x15, siz=0x4"`
	binstruct.End `bin:"off=0x19"`
}

// Node is a decoded tree node: either an interior node (Level > 0,
// KeyPointers populated) or a leaf (Level == 0, Items populated, with
// item payload bytes retrievable via ItemData).
type Node struct {
	Header      NodeHeader
	KeyPointers []KeyPointer
	Items       []ItemHeader

	data []byte // the full node, including the header, for ItemData slicing
}

func (n *Node) UnmarshalBinary(dat []byte) (int, error) {
	hdrSize, err := binstruct.Unmarshal(dat, &n.Header)
	if err != nil {
		return hdrSize, fmt.Errorf("btrfs.Node.UnmarshalBinary: header: %w", err)
	}
	n.data = dat
	n.KeyPointers = nil
	n.Items = nil

	off := hdrSize
	if n.Header.Level > 0 {
		n.KeyPointers = make([]KeyPointer, n.Header.NumItems)
		for i := range n.KeyPointers {
			sz, err := binstruct.Unmarshal(dat[off:], &n.KeyPointers[i])
			off += sz
			if err != nil {
				return off, fmt.Errorf("btrfs.Node.UnmarshalBinary: key pointer %d: %w", i, err)
			}
		}
	} else {
		n.Items = make([]ItemHeader, n.Header.NumItems)
		for i := range n.Items {
			sz, err := binstruct.Unmarshal(dat[off:], &n.Items[i])
			off += sz
			if err != nil {
				return off, fmt.Errorf("btrfs.Node.UnmarshalBinary: item %d: %w", i, err)
			}
		}
	}
	return len(dat), nil
}

// IsLeaf reports whether this node is a leaf (Level == 0).
func (n *Node) IsLeaf() bool { return n.Header.Level == 0 }

// ItemData returns the raw payload bytes of the i'th leaf item.
func (n *Node) ItemData(i int) []byte {
	ih := n.Items[i]
	start := NodeHeaderSize + int(ih.DataOffset)
	end := start + int(ih.DataSize)
	return n.data[start:end]
}

// FindItem scans a leaf's item array, starting at index skip, for the
// ordinal-th item (0-indexed) whose key has the given item type. It
// returns a zero key, nil data, and false immediately if n is not a leaf. This mirrors
// the original implementation's base_index-resumable scan, letting a
// caller continue a search from where a previous call left off.
func (n *Node) FindItem(itemType btrfsprim.ItemType, skip, ordinal int) (btrfsprim.Key, []byte, bool) {
	if !n.IsLeaf() {
		return btrfsprim.Key{}, nil, false
	}
	count := 0
	for i := skip; i < len(n.Items); i++ {
		if n.Items[i].Key.ItemType != itemType {
			continue
		}
		if count == ordinal {
			return n.Items[i].Key, n.ItemData(i), true
		}
		count++
	}
	return btrfsprim.Key{}, nil, false
}
