// Package btrfsvol deals with the mapping between the filesystem-wide
// logical address space that every tree (chunk, root, fs, csum) is
// addressed in, and the physical byte offsets within a single device
// file that those logical addresses are backed by.
package btrfsvol

import "fmt"

// LogicalAddr is an offset into the filesystem's logical address space;
// every tree node and every extent is addressed this way.
type LogicalAddr int64

// PhysicalAddr is a byte offset within a single device file.
type PhysicalAddr int64

// AddrDelta is the difference between two addresses, logical or
// physical; it's its own type so that arithmetic mixing logical and
// physical addresses is caught at compile time.
type AddrDelta int64

// DeviceID identifies one member device of a (possibly multi-device)
// filesystem. Device IDs start at 1.
type DeviceID uint64

func (a LogicalAddr) Add(d AddrDelta) LogicalAddr  { return LogicalAddr(int64(a) + int64(d)) }
func (a LogicalAddr) Sub(b LogicalAddr) AddrDelta   { return AddrDelta(int64(a) - int64(b)) }
func (a LogicalAddr) String() string                { return fmt.Sprintf("0x%014x", int64(a)) }

func (a PhysicalAddr) Add(d AddrDelta) PhysicalAddr { return PhysicalAddr(int64(a) + int64(d)) }
func (a PhysicalAddr) Sub(b PhysicalAddr) AddrDelta { return AddrDelta(int64(a) - int64(b)) }
func (a PhysicalAddr) String() string               { return fmt.Sprintf("0x%014x", int64(a)) }

func (d DeviceID) String() string { return fmt.Sprintf("%d", uint64(d)) }

// QualifiedPhysicalAddr is a physical address on a specific device, the
// unit that a chunk stripe maps a logical address span to.
type QualifiedPhysicalAddr struct {
	Dev  DeviceID
	Addr PhysicalAddr
}

func (a QualifiedPhysicalAddr) String() string {
	return fmt.Sprintf("dev(%v)+%v", a.Dev, a.Addr)
}

func (a QualifiedPhysicalAddr) Cmp(b QualifiedPhysicalAddr) int {
	switch {
	case a.Dev < b.Dev:
		return -1
	case a.Dev > b.Dev:
		return 1
	case a.Addr < b.Addr:
		return -1
	case a.Addr > b.Addr:
		return 1
	default:
		return 0
	}
}
