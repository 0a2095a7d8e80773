package btrfs

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsitem"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfssum"
)

// ResolvePath walks the default filesystem tree, resolving path one
// slash-separated component at a time starting from the reserved root
// directory inode (spec §4.7, §6). It returns ErrPathNotFound if any
// component has no matching directory entry, or the first checksum or
// translation-failure error encountered while reading a tree node.
func (p *Parser) ResolvePath(path string) (btrfsprim.ObjID, error) {
	if !p.sbLoaded {
		return 0, fmt.Errorf("btrfs: resolve path: parser has not completed Start")
	}

	inode := defaultFSTreeRootInode
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return inode, nil
	}

	for _, component := range strings.Split(path, "/") {
		if component == "" {
			continue
		}
		child, err := p.resolveComponent(inode, []byte(component))
		if err != nil {
			return 0, err
		}
		inode = child
	}
	return inode, nil
}

// resolveComponent resolves a single path component within the
// directory named by inode, per spec §4.7 steps (a)-(d).
//
// current_inode is carried as a local variable across the leaf's
// items, never as package-level state: spec §9 calls out the original
// source's file-scope static cursor as fragile under concurrent path
// resolution, and mandates carrying it as local traversal state
// instead.
func (p *Parser) resolveComponent(inode btrfsprim.ObjID, name []byte) (btrfsprim.ObjID, error) {
	nameHash := btrfssum.NameHash(name)

	var leafAddr = p.fsTreeRoot
	if cached, ok := p.inodeCache.Get(inode); ok {
		leafAddr = cached
	} else {
		target := btrfsprim.Key{ObjectID: inode, ItemType: btrfsprim.INODE_ITEM_KEY, Offset: 0}
		leaf, err := descendToLeaf(p.nodes, p.fsTreeRoot, target)
		if err != nil {
			return 0, fmt.Errorf("btrfs: resolve path component %q: %w", name, err)
		}
		leafAddr = leaf.Header.Addr
	}

	node, err := p.nodes.GetNode(leafAddr)
	if err != nil {
		return 0, fmt.Errorf("btrfs: resolve path component %q: %w", name, err)
	}

	var currentInode btrfsprim.ObjID
	var haveCurrent, foundTarget bool

	for i, item := range node.Items {
		switch item.Key.ItemType {
		case btrfsprim.INODE_ITEM_KEY:
			if foundTarget && item.Key.ObjectID != inode {
				// the cursor moved off the target inode without a match
				return 0, fmt.Errorf("btrfs: resolve path component %q: %w", name, ErrPathNotFound)
			}
			currentInode = item.Key.ObjectID
			haveCurrent = true
			foundTarget = currentInode == inode
			p.inodeCache.Put(currentInode, node.Header.Addr)

		case btrfsprim.DIR_ITEM_KEY:
			if !haveCurrent || currentInode != inode || item.Key.Offset != nameHash {
				continue
			}
			decoded, err := btrfsitem.UnmarshalItem(item.Key, node.ItemData(i))
			if err != nil {
				return 0, fmt.Errorf("btrfs: resolve path component %q: dir item at %v: %w", name, item.Key, err)
			}
			entries, ok := decoded.(btrfsitem.DirList)
			if !ok {
				continue
			}
			for _, entry := range entries {
				// The source matches purely on the outer item's name
				// hash; this module additionally compares the trailing
				// name bytes (spec §4.7 "Collision policy" permits and
				// recommends this), so a hash collision with an
				// unrelated name in the same slot doesn't mis-resolve.
				if bytes.Equal(entry.Name, name) {
					return entry.Location.ObjectID, nil
				}
			}
		}
	}

	return 0, fmt.Errorf("btrfs: resolve path component %q: %w", name, ErrPathNotFound)
}

// Stat retrieves the INODE_ITEM record for inode: the stat(2)-like
// metadata (size, mode, timestamps, ...) spec §3 describes. It's the
// filesystem tree walker's other responsibility alongside path
// resolution: "retrieves extent descriptors for a given inode" starts
// from knowing the inode exists and its size.
func (p *Parser) Stat(inode btrfsprim.ObjID) (btrfsitem.Inode, error) {
	target := btrfsprim.Key{ObjectID: inode, ItemType: btrfsprim.INODE_ITEM_KEY, Offset: 0}
	leaf, err := descendToLeaf(p.nodes, p.fsTreeRoot, target)
	if err != nil {
		return btrfsitem.Inode{}, fmt.Errorf("btrfs: stat inode %v: %w", inode, err)
	}
	for i, item := range leaf.Items {
		if item.Key.ObjectID != inode || item.Key.ItemType != btrfsprim.INODE_ITEM_KEY {
			continue
		}
		decoded, err := btrfsitem.UnmarshalItem(item.Key, leaf.ItemData(i))
		if err != nil {
			return btrfsitem.Inode{}, fmt.Errorf("btrfs: stat inode %v: %w", inode, err)
		}
		if inodeItem, ok := decoded.(btrfsitem.Inode); ok {
			p.inodeCache.Put(inode, leaf.Header.Addr)
			return inodeItem, nil
		}
	}
	return btrfsitem.Inode{}, fmt.Errorf("btrfs: stat inode %v: %w", inode, ErrPathNotFound)
}
