package btrfs

import (
	"fmt"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
)

// ReadFunc is the externally-supplied callback that satisfies a raw,
// single-device byte-range read. It returns the number of bytes
// actually placed in buf, mirroring a short os.File.ReadAt rather than
// erroring on a partial read; the caller (ReadRaw) is the one that
// turns a short result into ErrShortRead.
type ReadFunc func(buf []byte, dev btrfsvol.DeviceID, off btrfsvol.PhysicalAddr) (int, error)

// WriteFunc is the externally-supplied callback backing BlockIO.WriteAt.
// Nothing in this module's read paths calls it; it exists so a caller
// can wire up mutation later without changing this module's surface.
type WriteFunc func(buf []byte, dev btrfsvol.DeviceID, off btrfsvol.PhysicalAddr) (int, error)

// BlockIO is the façade the rest of the core reads and writes through:
// typed wrappers over the two externally-injected byte-range
// callbacks, plus logical-address reads routed through an
// btrfsvol.Translator. It owns no device handles of its own — per
// spec §1, device I/O is an external collaborator.
type BlockIO struct {
	read  ReadFunc
	write WriteFunc

	Translator *btrfsvol.Translator
}

// NewBlockIO constructs a façade around an as-yet-unpopulated
// translator; SetReadHandler/SetWriteHandler must be called before any
// read.
func NewBlockIO() *BlockIO {
	return &BlockIO{Translator: &btrfsvol.Translator{}}
}

// SetReadHandler installs the read callback. Called once, before Start.
func (io *BlockIO) SetReadHandler(fn ReadFunc) { io.read = fn }

// SetWriteHandler installs the write callback. Called once, before Start.
func (io *BlockIO) SetWriteHandler(fn WriteFunc) { io.write = fn }

// ReadRaw reads length bytes at the given device and physical offset
// directly through the injected read callback, with no translation.
// It's a thin, typed wrapper: the "façade" part of the block I/O
// façade is entirely in keeping devices keyed by DeviceID instead of
// some ambient "current device" and in turning short reads into
// ErrShortRead uniformly for every caller up the stack.
func (io *BlockIO) ReadRaw(buf []byte, dev btrfsvol.DeviceID, off btrfsvol.PhysicalAddr, length int) (int, error) {
	if io.read == nil {
		return 0, fmt.Errorf("btrfs.BlockIO.ReadRaw: no read handler installed")
	}
	n, err := io.read(buf[:length], dev, off)
	if err != nil {
		return n, fmt.Errorf("btrfs.BlockIO.ReadRaw: dev=%v off=%v: %w", dev, off, err)
	}
	if n != length {
		return n, fmt.Errorf("btrfs.BlockIO.ReadRaw: dev=%v off=%v: %w: got %d, want %d", dev, off, ErrShortRead, n, length)
	}
	return n, nil
}

// WriteAt forwards to the injected write callback after translating a
// logical address, per spec §1's "stub write entry that simply
// forwards translated addresses". Nothing in this module's read paths
// calls it.
func (io *BlockIO) WriteAt(buf []byte, laddr btrfsvol.LogicalAddr) (int, error) {
	if io.write == nil {
		return 0, fmt.Errorf("btrfs.BlockIO.WriteAt: no write handler installed")
	}
	paddr, _, ok := io.Translator.Translate(laddr)
	if !ok {
		return 0, fmt.Errorf("btrfs.BlockIO.WriteAt: logical %v: %w", laddr, ErrNotMapped)
	}
	n, err := io.write(buf, paddr.Dev, paddr.Addr)
	if err != nil {
		return n, fmt.Errorf("btrfs.BlockIO.WriteAt: %w", err)
	}
	return n, nil
}

// ReadLogical reads length bytes starting at a logical address. It
// first queries the translator; on a miss it returns ErrNotMapped
// without ever invoking the read callback, per spec §4.2 ("on failure
// it returns an error without touching the callbacks"). A read that
// spans more than one contiguous translated span is satisfied with
// multiple ReadRaw calls, one per span.
func (io *BlockIO) ReadLogical(buf []byte, laddr btrfsvol.LogicalAddr, length int) (int, error) {
	if len(buf) < length {
		return 0, fmt.Errorf("btrfs.BlockIO.ReadLogical: buf too small: %d < %d", len(buf), length)
	}
	total := 0
	for total < length {
		paddr, span, ok := io.Translator.Translate(laddr.Add(btrfsvol.AddrDelta(total)))
		if !ok {
			return total, fmt.Errorf("btrfs.BlockIO.ReadLogical: logical %v: %w", laddr.Add(btrfsvol.AddrDelta(total)), ErrNotMapped)
		}
		chunkLen := length - total
		if int(span) < chunkLen {
			chunkLen = int(span)
		}
		n, err := io.ReadRaw(buf[total:total+chunkLen], paddr.Dev, paddr.Addr, chunkLen)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
