// Package btrfsitem implements the per-type decoding of tree leaf item
// bodies. A leaf item is just a (Key, []byte) pair at the node level;
// this package turns the bytes into a typed Go value based on the
// key's item type.
package btrfsitem

import (
	"github.com/btrfsparse/btrfsparse/pkg/binstruct"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
)

// Unknown is returned for item types this package does not decode
// (either because the on-disk format reserves them for features out
// of scope, or because they are simply not yet implemented). Callers
// get the raw bytes rather than an error.
type Unknown struct {
	ItemType btrfsprim.ItemType
	Data     []byte
}

// UnmarshalItem decodes a leaf item's body according to the item type
// named in key. The returned value's concrete type depends on
// key.ItemType; unrecognized types decode to Unknown rather than
// erroring, since a corrupt-or-future item type shouldn't abort
// reading the rest of the tree.
func UnmarshalItem(key btrfsprim.Key, dat []byte) (interface{}, error) {
	var ptr interface{}
	switch key.ItemType {
	case btrfsprim.INODE_ITEM_KEY:
		ptr = new(Inode)
	case btrfsprim.INODE_REF_KEY:
		ptr = new(InodeRef)
	case btrfsprim.DIR_ITEM_KEY, btrfsprim.DIR_INDEX_KEY, btrfsprim.XATTR_ITEM_KEY:
		ptr = new(DirList)
	case btrfsprim.EXTENT_DATA_KEY:
		ptr = new(FileExtent)
	case btrfsprim.EXTENT_CSUM_KEY:
		ptr = new(ExtentCSum)
	case btrfsprim.ROOT_ITEM_KEY:
		ptr = new(Root)
	case btrfsprim.DEV_ITEM_KEY:
		ptr = new(Dev)
	case btrfsprim.DEV_EXTENT_KEY:
		ptr = new(DevExtent)
	case btrfsprim.CHUNK_ITEM_KEY:
		ptr = new(Chunk)
	case btrfsprim.BLOCK_GROUP_ITEM_KEY:
		ptr = new(BlockGroup)
	default:
		return Unknown{ItemType: key.ItemType, Data: dat}, nil
	}
	if _, err := binstruct.Unmarshal(dat, ptr); err != nil {
		return nil, err
	}
	return derefItem(ptr), nil
}

func derefItem(ptr interface{}) interface{} {
	switch v := ptr.(type) {
	case *Inode:
		return *v
	case *InodeRef:
		return *v
	case *DirList:
		return *v
	case *FileExtent:
		return *v
	case *ExtentCSum:
		return *v
	case *Root:
		return *v
	case *Dev:
		return *v
	case *DevExtent:
		return *v
	case *Chunk:
		return *v
	case *BlockGroup:
		return *v
	default:
		return ptr
	}
}
