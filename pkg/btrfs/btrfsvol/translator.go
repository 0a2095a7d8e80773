package btrfsvol

import "fmt"

// Translator maps logical addresses to physical (device, offset) pairs.
//
// It is organized as a four-level radix tree, the same shape as a CPU
// page table: a logical address is sliced at four bit shifts — 39, 30,
// 21, and 12 — corresponding to span sizes of 512GiB (L4), 1GiB (L3),
// 2MiB (L2), and 4KiB (L1, the filesystem's block size). Shifting an
// address right by one of these amounts and using the result as a map
// key groups every address within the same aligned span under one
// entry, so a chunk is inserted at the coarsest level whose span evenly
// divides it — a "huge page" — instead of one entry per 4KiB block.
// Translate checks from the coarsest level down, so a coarse mapping
// shadows whatever finer structure might otherwise apply to the same
// range.
//
// Mappings come from the chunk tree (see the chunk tree walker): every
// stripe of every chunk is inserted, each covering its own
// non-overlapping logical subrange. The first stripe is authoritative
// for reads; the remaining stripes back redundant mirror/striped
// copies this package never reconciles.
type Translator struct {
	levels [4]map[uint64]mapping
}

// shifts and spans run from the coarsest level (L4) to the finest (L1).
var shifts = [4]uint{39, 30, 21, 12}
var spans = [4]AddrDelta{1 << 39, 1 << 30, 1 << 21, 1 << 12}

type mapping struct {
	dev  DeviceID
	base PhysicalAddr
}

// blockMask covers the low 12 bits of a 4KiB-block-aligned address or
// length.
const blockMask = 1<<12 - 1

// AddMapping records that the logical span [laddr, laddr+size) is
// backed by physical addresses starting at paddr on device dev. It is
// the caller's responsibility to not insert overlapping spans.
//
// A (laddr, size, paddr) whose low 12 bits are anything but zero is
// rejected silently: nothing is inserted, and a later Translate of
// that span simply fails with ErrNotMapped rather than resolving to a
// misaligned mapping.
func (t *Translator) AddMapping(laddr LogicalAddr, size AddrDelta, dev DeviceID, paddr PhysicalAddr) error {
	if size <= 0 {
		return fmt.Errorf("btrfsvol: AddMapping: size must be positive, got %v", size)
	}
	if uint64(laddr)&blockMask != 0 || uint64(size)&blockMask != 0 || uint64(paddr)&blockMask != 0 {
		return nil
	}
	for size > 0 {
		lvl := bestLevel(laddr, size)
		if t.levels[lvl] == nil {
			t.levels[lvl] = make(map[uint64]mapping)
		}
		key := uint64(laddr) >> shifts[lvl]
		t.levels[lvl][key] = mapping{dev: dev, base: paddr}
		laddr = laddr.Add(spans[lvl])
		paddr = paddr.Add(spans[lvl])
		size -= spans[lvl]
	}
	return nil
}

// bestLevel returns the coarsest level whose span both divides laddr
// evenly and fits within size. The finest level (4KiB) always
// qualifies, since on-disk logical addresses are always block-aligned.
func bestLevel(laddr LogicalAddr, size AddrDelta) int {
	for lvl := 0; lvl < 3; lvl++ {
		span := spans[lvl]
		if int64(laddr)%int64(span) == 0 && size >= span {
			return lvl
		}
	}
	return 3
}

// Translate resolves a logical address to a physical (device, offset)
// pair, along with the number of contiguous bytes starting at addr that
// are covered by the same mapping (so callers can size a single read
// instead of calling Translate once per byte).
func (t *Translator) Translate(addr LogicalAddr) (QualifiedPhysicalAddr, AddrDelta, bool) {
	for lvl := 0; lvl < 4; lvl++ {
		if t.levels[lvl] == nil {
			continue
		}
		key := uint64(addr) >> shifts[lvl]
		m, ok := t.levels[lvl][key]
		if !ok {
			continue
		}
		base := LogicalAddr(int64(key) << shifts[lvl])
		off := addr.Sub(base)
		return QualifiedPhysicalAddr{Dev: m.dev, Addr: m.base.Add(off)}, spans[lvl] - off, true
	}
	return QualifiedPhysicalAddr{}, 0, false
}
