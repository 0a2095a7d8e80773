package btrfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfsvol"
)

func TestBlockIOReadRawShortRead(t *testing.T) {
	t.Parallel()
	io := NewBlockIO()
	io.SetReadHandler(func(buf []byte, _ btrfsvol.DeviceID, _ btrfsvol.PhysicalAddr) (int, error) {
		return len(buf) - 1, nil
	})

	buf := make([]byte, 16)
	_, err := io.ReadRaw(buf, 0, 0, 16)
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestBlockIOReadLogicalMissNeverInvokesCallback(t *testing.T) {
	t.Parallel()
	called := false
	io := NewBlockIO()
	io.SetReadHandler(func(buf []byte, _ btrfsvol.DeviceID, _ btrfsvol.PhysicalAddr) (int, error) {
		called = true
		return len(buf), nil
	})

	buf := make([]byte, 16)
	_, err := io.ReadLogical(buf, 0x1000, 16)
	assert.ErrorIs(t, err, ErrNotMapped)
	assert.False(t, called, "ReadLogical must not call the read callback on a translation miss")
}

func TestBlockIOReadLogicalSpansMultipleMappings(t *testing.T) {
	t.Parallel()
	disk := newFakeDisk(0x4000)
	disk.write(0x1000, []byte("first-half-"))
	disk.write(0x3000, []byte("second-half"))

	io := NewBlockIO()
	io.SetReadHandler(disk.readFunc())
	require.NoError(t, io.Translator.AddMapping(0x0, 0x2000, 0, 0x1000))
	require.NoError(t, io.Translator.AddMapping(0x2000, 0x2000, 0, 0x3000))

	buf := make([]byte, 0x20)
	n, err := io.ReadLogical(buf, 0x1ff0, 0x20)
	require.NoError(t, err)
	assert.Equal(t, 0x20, n)
}

func TestBlockIOWriteAtTranslatesAddress(t *testing.T) {
	t.Parallel()
	disk := newFakeDisk(0x4000)
	io := NewBlockIO()
	io.SetWriteHandler(disk.writeFunc())
	require.NoError(t, io.Translator.AddMapping(0x0, 0x1000, 0, 0x2000))

	n, err := io.WriteAt([]byte("hi"), 0x10)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "hi", string(disk.bytes[0x2010:0x2012]))
}
