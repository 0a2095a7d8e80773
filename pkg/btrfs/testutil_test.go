package btrfs

import (
	"encoding/binary"
	"io"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsitem"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsprim"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfssum"
	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
)

// fakeDisk is a single-device, in-memory backing store for tests: a
// fixed-size zeroed buffer addressed directly by physical byte
// offset, standing in for the os.File a real caller would wire up
// through ReadFunc/WriteFunc.
type fakeDisk struct {
	bytes []byte
}

func newFakeDisk(size int) *fakeDisk {
	return &fakeDisk{bytes: make([]byte, size)}
}

func (d *fakeDisk) write(off btrfsvol.PhysicalAddr, dat []byte) {
	copy(d.bytes[int(off):], dat)
}

func (d *fakeDisk) readFunc() ReadFunc {
	return func(buf []byte, _ btrfsvol.DeviceID, off btrfsvol.PhysicalAddr) (int, error) {
		if int(off) >= len(d.bytes) {
			return 0, io.EOF
		}
		return copy(buf, d.bytes[int(off):]), nil
	}
}

func (d *fakeDisk) writeFunc() WriteFunc {
	return func(buf []byte, _ btrfsvol.DeviceID, off btrfsvol.PhysicalAddr) (int, error) {
		return copy(d.bytes[int(off):], buf), nil
	}
}

const testHdrSize = 0x65

func putKey(buf []byte, off int, key btrfsprim.Key) {
	binary.LittleEndian.PutUint64(buf[off:], uint64(key.ObjectID))
	buf[off+8] = byte(key.ItemType)
	binary.LittleEndian.PutUint64(buf[off+9:], key.Offset)
}

func putNodeHeader(buf []byte, addr btrfsvol.LogicalAddr, level uint8, numItems uint32) {
	binary.LittleEndian.PutUint64(buf[0x30:], uint64(addr))
	binary.LittleEndian.PutUint32(buf[0x60:], numItems)
	buf[0x64] = level
}

func stampChecksum(buf []byte) {
	sum := btrfssum.Sum(buf[ChecksummedRegionOffset:])
	copy(buf[:btrfssum.Size], sum[:])
}

type leafItem struct {
	Key  btrfsprim.Key
	Data []byte
}

// buildLeaf lays out a leaf node: the fixed header, then one
// ItemHeader per entry (in the given order), then every entry's
// payload packed back-to-back immediately following the header array.
// Real btrfs grows item data backward from the end of the node; this
// module's item lookup only cares that DataOffset/DataSize point at
// the right bytes, so a forward-packed layout round-trips the same.
func buildLeaf(nodeSize int, addr btrfsvol.LogicalAddr, items []leafItem) []byte {
	buf := make([]byte, nodeSize)
	putNodeHeader(buf, addr, 0, uint32(len(items)))

	dataOff := len(items) * 0x19
	for i, it := range items {
		ihOff := testHdrSize + i*0x19
		putKey(buf, ihOff, it.Key)
		binary.LittleEndian.PutUint32(buf[ihOff+0x11:], uint32(dataOff))
		binary.LittleEndian.PutUint32(buf[ihOff+0x15:], uint32(len(it.Data)))
		copy(buf[testHdrSize+dataOff:], it.Data)
		dataOff += len(it.Data)
	}
	stampChecksum(buf)
	return buf
}

type interiorPtr struct {
	Key        btrfsprim.Key
	Addr       btrfsvol.LogicalAddr
	Generation btrfsprim.Generation
}

// buildInterior lays out an interior node: the fixed header, then one
// KeyPointer per child, in ascending-key order.
func buildInterior(nodeSize int, addr btrfsvol.LogicalAddr, level uint8, kps []interiorPtr) []byte {
	buf := make([]byte, nodeSize)
	putNodeHeader(buf, addr, level, uint32(len(kps)))
	for i, kp := range kps {
		kpOff := testHdrSize + i*0x21
		putKey(buf, kpOff, kp.Key)
		binary.LittleEndian.PutUint64(buf[kpOff+0x11:], uint64(kp.Addr))
		binary.LittleEndian.PutUint64(buf[kpOff+0x19:], uint64(kp.Generation))
	}
	stampChecksum(buf)
	return buf
}

type superblockCfg struct {
	Generation    btrfsprim.Generation
	RootTree      btrfsvol.LogicalAddr
	ChunkTree     btrfsvol.LogicalAddr
	LogTree       btrfsvol.LogicalAddr
	SectorSize    uint32
	NodeSize      uint32
	StripeSize    uint32
	Label         string
	SysChunkArray []byte
}

func buildSuperblock(cfg superblockCfg) []byte {
	buf := make([]byte, SuperblockSize)
	copy(buf[0x40:0x48], SuperblockMagic[:])
	binary.LittleEndian.PutUint64(buf[0x48:], uint64(cfg.Generation))
	binary.LittleEndian.PutUint64(buf[0x50:], uint64(cfg.RootTree))
	binary.LittleEndian.PutUint64(buf[0x58:], uint64(cfg.ChunkTree))
	binary.LittleEndian.PutUint64(buf[0x60:], uint64(cfg.LogTree))
	binary.LittleEndian.PutUint32(buf[0x90:], cfg.SectorSize)
	binary.LittleEndian.PutUint32(buf[0x94:], cfg.NodeSize)
	binary.LittleEndian.PutUint32(buf[0x98:], cfg.NodeSize)
	binary.LittleEndian.PutUint32(buf[0x9c:], cfg.StripeSize)
	binary.LittleEndian.PutUint32(buf[0xa0:], uint32(len(cfg.SysChunkArray)))
	copy(buf[0x12b:0x22b], cfg.Label)
	copy(buf[0x32b:], cfg.SysChunkArray)
	stampChecksum(buf[:SuperblockSize])
	return buf
}

type chunkStripeSpec struct {
	DevID   btrfsvol.DeviceID
	PhysOff btrfsvol.PhysicalAddr
}

// buildChunkItem encodes a bare ChunkItem payload (ChunkHeader
// followed by one ChunkStripe per entry in stripes), with no Key
// prefix — the form a CHUNK_ITEM leaf item's data takes. chunkSize is
// the chunk's logical span (Head.Size, what Mappings.Size advances
// by); stripeLen is the on-disk per-stripe I/O unit (Head.StripeLen) —
// kept as a distinct parameter since on a real image it's a fixed
// 64KiB regardless of chunkSize, and Mappings must not confuse the
// two.
func buildChunkItem(chunkSize, stripeLen uint64, stripes []chunkStripeSpec) []byte {
	buf := make([]byte, 0x30+0x20*len(stripes))
	binary.LittleEndian.PutUint64(buf[0x0:], chunkSize)
	binary.LittleEndian.PutUint64(buf[0x8:], uint64(btrfsprim.EXTENT_TREE_OBJECTID))
	binary.LittleEndian.PutUint64(buf[0x10:], stripeLen)
	binary.LittleEndian.PutUint32(buf[0x28:], 0x1000)
	binary.LittleEndian.PutUint16(buf[0x2c:], uint16(len(stripes)))
	binary.LittleEndian.PutUint16(buf[0x2e:], 1)
	for i, s := range stripes {
		so := 0x30 + i*0x20
		binary.LittleEndian.PutUint64(buf[so+0x0:], uint64(s.DevID))
		binary.LittleEndian.PutUint64(buf[so+0x8:], uint64(s.PhysOff))
	}
	return buf
}

// buildSysChunk encodes one (Key, ChunkItem) record of the form the
// superblock's seed chunk table uses: a Key immediately followed by a
// buildChunkItem payload.
func buildSysChunk(key btrfsprim.Key, chunkSize, stripeLen uint64, stripes []chunkStripeSpec) []byte {
	item := buildChunkItem(chunkSize, stripeLen, stripes)
	buf := make([]byte, 0x11+len(item))
	putKey(buf, 0, key)
	copy(buf[0x11:], item)
	return buf
}

func buildRootItem(byteNr btrfsvol.LogicalAddr) []byte {
	buf := make([]byte, 0x1b7)
	binary.LittleEndian.PutUint64(buf[0xb0:], uint64(byteNr))
	return buf
}

func buildInodeItem(size int64) []byte {
	buf := make([]byte, 0xa0)
	binary.LittleEndian.PutUint64(buf[0x10:], uint64(size))
	return buf
}

type dirEntry struct {
	Location btrfsprim.Key
	Type     btrfsitem.FileType
	Name     []byte
}

func buildDirList(entries []dirEntry) []byte {
	var buf []byte
	for _, e := range entries {
		entry := make([]byte, 0x1e+len(e.Name))
		putKey(entry, 0, e.Location)
		binary.LittleEndian.PutUint16(entry[0x1b:], uint16(len(e.Name)))
		entry[0x1d] = byte(e.Type)
		copy(entry[0x1e:], e.Name)
		buf = append(buf, entry...)
	}
	return buf
}

func buildInlineExtent(data []byte) []byte {
	buf := make([]byte, 0x15+len(data))
	copy(buf[0x15:], data)
	return buf
}

// buildRegularExtent encodes a FILE_EXTENT_REG record: the fixed
// prefix with Type=FILE_EXTENT_REG, followed by the disk-extent body
// (DiskByteNr/DiskNumBytes/Offset/NumBytes).
func buildRegularExtent(diskByteNr btrfsvol.LogicalAddr, diskNumBytes uint64, off, numBytes int64) []byte {
	buf := make([]byte, 0x15+0x20)
	buf[0x14] = 1 // FILE_EXTENT_REG
	bo := 0x15
	binary.LittleEndian.PutUint64(buf[bo+0x0:], uint64(diskByteNr))
	binary.LittleEndian.PutUint64(buf[bo+0x8:], diskNumBytes)
	binary.LittleEndian.PutUint64(buf[bo+0x10:], uint64(off))
	binary.LittleEndian.PutUint64(buf[bo+0x18:], uint64(numBytes))
	return buf
}

func buildExtentCSum(sums []btrfssum.CSum) []byte {
	buf := make([]byte, len(sums)*btrfssum.Size)
	for i, s := range sums {
		copy(buf[i*btrfssum.Size:], s[:])
	}
	return buf
}
