package btrfs

import (
	"fmt"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsitem"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
	"github.com/btrfsparse/btrfsparse/pkg/util"
)

// ReadFile assembles up to length bytes of inode's file data, starting
// at byte offset, into dst, per spec §4.8. Each iteration re-descends
// the filesystem tree to locate the extent record covering the
// current offset, copies what that extent covers (inline data copied
// directly; regular extents read through the translator), and
// advances. It stops early, with no error, when no extent covers the
// current offset — a hole or end-of-file, which are indistinguishable
// at this layer.
func (p *Parser) ReadFile(inode btrfsprim.ObjID, offset int64, length int, dst []byte) (int, error) {
	if !p.sbLoaded {
		return 0, fmt.Errorf("btrfs: read file: parser has not completed Start")
	}
	if len(dst) < length {
		return 0, fmt.Errorf("btrfs: read file: dst too small: %d < %d", len(dst), length)
	}

	produced := 0
	for produced < length {
		key, body, found, err := p.findExtent(inode, offset)
		if err != nil {
			return produced, err
		}
		if !found {
			break
		}

		extent, ok := body.(btrfsitem.FileExtent)
		if !ok {
			break
		}

		want := length - produced
		var n int
		switch extent.Type {
		case btrfsitem.FILE_EXTENT_INLINE:
			n, err = p.copyInline(extent, key, offset, dst[produced:produced+want])
		case btrfsitem.FILE_EXTENT_REG, btrfsitem.FILE_EXTENT_PREALLOC:
			n, err = p.copyRegular(extent, key, offset, dst[produced:produced+want])
		default:
			return produced, fmt.Errorf("btrfs: read file: inode %v: unsupported extent type %v", inode, extent.Type)
		}
		if err != nil {
			return produced, fmt.Errorf("btrfs: read file: inode %v: %w", inode, err)
		}
		if n == 0 {
			// a zero-length copy from a located extent means offset has
			// run off the end of what this extent covers; stop rather
			// than loop forever.
			break
		}

		produced += n
		offset += int64(n)
	}
	return produced, nil
}

// findExtent locates the EXTENT_DATA item covering inode's byte
// offset: the item with the greatest key.Offset not exceeding offset,
// found via a fresh filesystem-tree descent (spec §4.8: "a full
// filesystem-tree descent that matches on key.type == ExtentData &&
// key.object_id == inode && key.offset <= offset").
func (p *Parser) findExtent(inode btrfsprim.ObjID, offset int64) (btrfsprim.Key, interface{}, bool, error) {
	target := btrfsprim.Key{ObjectID: inode, ItemType: btrfsprim.EXTENT_DATA_KEY, Offset: uint64(offset)}
	leaf, err := descendToLeaf(p.nodes, p.fsTreeRoot, target)
	if err != nil {
		return btrfsprim.Key{}, nil, false, fmt.Errorf("btrfs: find extent: %w", err)
	}

	var bestIdx = -1
	var bestKey btrfsprim.Key
	for i, item := range leaf.Items {
		if item.Key.ObjectID != inode || item.Key.ItemType != btrfsprim.EXTENT_DATA_KEY {
			continue
		}
		if item.Key.Offset > uint64(offset) {
			continue
		}
		if bestIdx == -1 || item.Key.Offset > bestKey.Offset {
			bestIdx = i
			bestKey = item.Key
		}
	}
	if bestIdx == -1 {
		return btrfsprim.Key{}, nil, false, nil
	}

	decoded, err := btrfsitem.UnmarshalItem(bestKey, leaf.ItemData(bestIdx))
	if err != nil {
		return btrfsprim.Key{}, nil, false, fmt.Errorf("btrfs: find extent: extent item at %v: %w", bestKey, err)
	}
	return bestKey, decoded, true, nil
}

func (p *Parser) copyInline(extent btrfsitem.FileExtent, key btrfsprim.Key, offset int64, dst []byte) (int, error) {
	skip := offset - int64(key.Offset)
	if skip < 0 || skip > int64(len(extent.BodyInline)) {
		return 0, nil
	}
	avail := len(extent.BodyInline) - int(skip)
	n := util.Min(avail, len(dst))
	copy(dst[:n], extent.BodyInline[skip:skip+int64(n)])
	return n, nil
}

func (p *Parser) copyRegular(extent btrfsitem.FileExtent, key btrfsprim.Key, offset int64, dst []byte) (int, error) {
	within := offset - int64(key.Offset)
	if within < 0 || within > extent.BodyExtent.NumBytes {
		return 0, nil
	}
	avail := extent.BodyExtent.NumBytes - within
	n := util.Min(int64(len(dst)), avail)
	if n <= 0 {
		return 0, nil
	}

	srcAddr := extent.BodyExtent.DiskByteNr.Add(extent.BodyExtent.Offset).Add(btrfsvol.AddrDelta(within))
	read, err := p.io.ReadLogical(dst[:n], srcAddr, int(n))
	if err != nil {
		return read, fmt.Errorf("regular extent at %v: %w", key, err)
	}
	return read, nil
}
