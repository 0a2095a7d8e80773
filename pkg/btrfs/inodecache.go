package btrfs

import (
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
)

// inodeCache memoises the leaf-node address where a given inode's
// items were last seen, to accelerate multi-component path
// resolution (spec §3 "Inode-to-node cache"). It's a fixed-size,
// direct-mapped (not associative) table: a collision simply evicts
// whatever was there before.
//
// The original source has two lines that both write the *key* table
// when populating a slot (one should write the address table); per
// spec §9's last bullet, this implementation writes each table
// exactly once, to its own slot.
type inodeCache struct {
	keys  []btrfsprim.ObjID
	addrs []btrfsvol.LogicalAddr
	valid []bool
}

func newInodeCache(size int) *inodeCache {
	if size <= 0 {
		size = DefaultInodeCacheSize
	}
	return &inodeCache{
		keys:  make([]btrfsprim.ObjID, size),
		addrs: make([]btrfsvol.LogicalAddr, size),
		valid: make([]bool, size),
	}
}

func (c *inodeCache) slot(inode btrfsprim.ObjID) int {
	return int(uint64(inode) % uint64(len(c.keys)))
}

// Put records that inode's items were found in the leaf at addr.
func (c *inodeCache) Put(inode btrfsprim.ObjID, addr btrfsvol.LogicalAddr) {
	slot := c.slot(inode)
	c.keys[slot] = inode
	c.addrs[slot] = addr
	c.valid[slot] = true
}

// Get returns the cached leaf address for inode, if the slot it
// direct-maps to is currently occupied by that same inode.
func (c *inodeCache) Get(inode btrfsprim.ObjID) (btrfsvol.LogicalAddr, bool) {
	slot := c.slot(inode)
	if !c.valid[slot] || c.keys[slot] != inode {
		return 0, false
	}
	return c.addrs[slot], true
}
