package btrfsvol_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
)

func TestAddrFormat(t *testing.T) {
	t.Parallel()
	addr := btrfsvol.LogicalAddr(0x3a41678000)
	testcases := map[string]struct {
		Fmt    string
		Output string
	}{
		"v": {Fmt: "%v", Output: "0x00003a41678000"},
		"s": {Fmt: "%s", Output: "0x00003a41678000"},
		"q": {Fmt: "%q", Output: `"0x00003a41678000"`},
	}
	for name, tc := range testcases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.Output, fmt.Sprintf(tc.Fmt, addr))
		})
	}
}

func TestAddrArith(t *testing.T) {
	t.Parallel()
	a := btrfsvol.LogicalAddr(0x1000)
	b := a.Add(btrfsvol.AddrDelta(0x500))
	assert.Equal(t, btrfsvol.LogicalAddr(0x1500), b)
	assert.Equal(t, btrfsvol.AddrDelta(0x500), b.Sub(a))
}

func TestQualifiedPhysicalAddrCmp(t *testing.T) {
	t.Parallel()
	a := btrfsvol.QualifiedPhysicalAddr{Dev: 1, Addr: 0x1000}
	b := btrfsvol.QualifiedPhysicalAddr{Dev: 1, Addr: 0x2000}
	c := btrfsvol.QualifiedPhysicalAddr{Dev: 2, Addr: 0}
	assert.Equal(t, -1, a.Cmp(b))
	assert.Equal(t, 1, b.Cmp(a))
	assert.Equal(t, -1, a.Cmp(c))
}
