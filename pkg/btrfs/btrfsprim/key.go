package btrfsprim

import (
	"fmt"

	"github.com/btrfsparse/btrfsparse/pkg/binstruct"
)

// ItemType is the "type" byte of a Key; it says how the key's "offset"
// field should be interpreted, and which btrfsitem type decodes the
// item's payload.
type ItemType uint8

const (
	UNTYPED_KEY              = ItemType(0)
	INODE_ITEM_KEY           = ItemType(1)
	INODE_REF_KEY            = ItemType(12)
	INODE_EXTREF_KEY         = ItemType(13)
	XATTR_ITEM_KEY           = ItemType(24)
	ORPHAN_ITEM_KEY          = ItemType(48)
	DIR_LOG_ITEM_KEY         = ItemType(60)
	DIR_LOG_INDEX_KEY        = ItemType(72)
	DIR_ITEM_KEY             = ItemType(84)
	DIR_INDEX_KEY            = ItemType(96)
	EXTENT_DATA_KEY          = ItemType(108)
	EXTENT_CSUM_KEY          = ItemType(128)
	ROOT_ITEM_KEY            = ItemType(132)
	ROOT_BACKREF_KEY         = ItemType(144)
	ROOT_REF_KEY             = ItemType(156)
	EXTENT_ITEM_KEY          = ItemType(168)
	METADATA_ITEM_KEY        = ItemType(169)
	BLOCK_GROUP_ITEM_KEY     = ItemType(192)
	DEV_EXTENT_KEY           = ItemType(204)
	DEV_ITEM_KEY             = ItemType(216)
	CHUNK_ITEM_KEY           = ItemType(228)
	QGROUP_RELATION_KEY      = ItemType(240)
	PERSISTENT_ITEM_KEY      = ItemType(249)
	UUID_SUBVOL_KEY          = ItemType(251)
	UUID_RECEIVED_SUBVOL_KEY = ItemType(252)
)

var itemTypeNames = map[ItemType]string{
	UNTYPED_KEY:              "UNTYPED",
	INODE_ITEM_KEY:           "INODE_ITEM",
	INODE_REF_KEY:            "INODE_REF",
	INODE_EXTREF_KEY:         "INODE_EXTREF",
	XATTR_ITEM_KEY:           "XATTR_ITEM",
	ORPHAN_ITEM_KEY:          "ORPHAN_ITEM",
	DIR_LOG_ITEM_KEY:         "DIR_LOG_ITEM",
	DIR_LOG_INDEX_KEY:        "DIR_LOG_INDEX",
	DIR_ITEM_KEY:             "DIR_ITEM",
	DIR_INDEX_KEY:            "DIR_INDEX",
	EXTENT_DATA_KEY:          "EXTENT_DATA",
	EXTENT_CSUM_KEY:          "EXTENT_CSUM",
	ROOT_ITEM_KEY:            "ROOT_ITEM",
	ROOT_BACKREF_KEY:         "ROOT_BACKREF",
	ROOT_REF_KEY:             "ROOT_REF",
	EXTENT_ITEM_KEY:          "EXTENT_ITEM",
	METADATA_ITEM_KEY:        "METADATA_ITEM",
	BLOCK_GROUP_ITEM_KEY:     "BLOCK_GROUP_ITEM",
	DEV_EXTENT_KEY:           "DEV_EXTENT",
	DEV_ITEM_KEY:             "DEV_ITEM",
	CHUNK_ITEM_KEY:           "CHUNK_ITEM",
	QGROUP_RELATION_KEY:      "QGROUP_RELATION",
	PERSISTENT_ITEM_KEY:      "PERSISTENT_ITEM",
	UUID_SUBVOL_KEY:          "UUID_SUBVOL",
	UUID_RECEIVED_SUBVOL_KEY: "UUID_RECEIVED_SUBVOL",
}

func (t ItemType) String() string {
	if name, ok := itemTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("%d", uint8(t))
}

// Key is the 17-byte (objectid, type, offset) tuple that both identifies
// an item and determines the sort order of items within a node. Keys
// sort first by ObjectID, then by ItemType, then by Offset.
type Key struct {
	ObjectID ObjID    `bin:"off=0x0, siz=0x8"`
	ItemType ItemType `bin:"off=0x8, siz=0x1"`
	Offset   uint64   `bin:"off=0x9, siz=0x8"`
	binstruct.End `bin:"off=0x11"`
}

func (k Key) Cmp(o Key) int {
	switch {
	case k.ObjectID < o.ObjectID:
		return -1
	case k.ObjectID > o.ObjectID:
		return 1
	case k.ItemType < o.ItemType:
		return -1
	case k.ItemType > o.ItemType:
		return 1
	case k.Offset < o.Offset:
		return -1
	case k.Offset > o.Offset:
		return 1
	default:
		return 0
	}
}

func (k Key) String() string {
	return fmt.Sprintf("(%v, %v, 0x%x)", k.ObjectID, k.ItemType, k.Offset)
}
