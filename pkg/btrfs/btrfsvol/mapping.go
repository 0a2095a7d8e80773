package btrfsvol

// Mapping is one chunk-tree stripe: the claim that the logical span
// [LAddr, LAddr+Size) is backed by physical bytes starting at PAddr.
// A multi-stripe chunk produces one Mapping per stripe, each covering
// its own consecutive logical subrange; every one is installed into a
// Translator (see the chunk tree walker). The first stripe is
// authoritative for reads — the rest back redundant mirror/striped
// copies, and reconciling them is out of scope here.
type Mapping struct {
	LAddr LogicalAddr
	PAddr QualifiedPhysicalAddr
	Size  AddrDelta
	Flags BlockGroupFlags
}
