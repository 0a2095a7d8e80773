// Package btrfsprim holds the small on-disk value types that both the
// core btrfs package and btrfsitem need, so that neither has to import
// the other.
package btrfsprim

import "fmt"

type ObjID uint64

const maxUint64pp = 0x1_0000_0000_0000_0000

const (
	// Tree-of-tree-roots entries.
	ROOT_TREE_OBJECTID        = ObjID(1)
	EXTENT_TREE_OBJECTID      = ObjID(2)
	CHUNK_TREE_OBJECTID       = ObjID(3)
	DEV_TREE_OBJECTID         = ObjID(4)
	FS_TREE_OBJECTID          = ObjID(5)
	ROOT_TREE_DIR_OBJECTID    = ObjID(6)
	CSUM_TREE_OBJECTID        = ObjID(7)
	QUOTA_TREE_OBJECTID       = ObjID(8)
	UUID_TREE_OBJECTID        = ObjID(9)
	FREE_SPACE_TREE_OBJECTID  = ObjID(10)
	BLOCK_GROUP_TREE_OBJECTID = ObjID(11)

	DEV_ITEMS_OBJECTID = ObjID(1) // object id of BTRFS_DEV_ITEM_KEY items in the chunk tree

	FIRST_CHUNK_TREE_OBJECTID = ObjID(256)
	FIRST_FREE_OBJECTID       = ObjID(256)
	LAST_FREE_OBJECTID        = ObjID(maxUint64pp - 256)

	EXTENT_CSUM_OBJECTID = ObjID(maxUint64pp - 10) // checksum items all live under this objectid
	TREE_LOG_OBJECTID    = ObjID(maxUint64pp - 6)
)

var wellKnownObjIDs = map[ObjID]string{
	ROOT_TREE_OBJECTID:        "ROOT_TREE",
	EXTENT_TREE_OBJECTID:      "EXTENT_TREE",
	CHUNK_TREE_OBJECTID:       "CHUNK_TREE",
	DEV_TREE_OBJECTID:         "DEV_TREE",
	FS_TREE_OBJECTID:          "FS_TREE",
	ROOT_TREE_DIR_OBJECTID:    "ROOT_TREE_DIR",
	CSUM_TREE_OBJECTID:        "CSUM_TREE",
	QUOTA_TREE_OBJECTID:       "QUOTA_TREE",
	UUID_TREE_OBJECTID:        "UUID_TREE",
	FREE_SPACE_TREE_OBJECTID:  "FREE_SPACE_TREE",
	BLOCK_GROUP_TREE_OBJECTID: "BLOCK_GROUP_TREE",
	EXTENT_CSUM_OBJECTID:      "EXTENT_CSUM",
	TREE_LOG_OBJECTID:         "TREE_LOG",
}

func (id ObjID) String() string {
	if name, ok := wellKnownObjIDs[id]; ok {
		return name
	}
	return fmt.Sprintf("%d", uint64(id))
}

// Generation is a transaction id; it increases monotonically every time
// the filesystem's trees are copy-on-write updated.
type Generation uint64

func (gen Generation) String() string { return fmt.Sprintf("%d", uint64(gen)) }
