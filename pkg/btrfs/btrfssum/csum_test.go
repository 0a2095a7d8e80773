package btrfssum_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/btrfsparse/btrfsparse/pkg/btrfs/btrfssum"
)

func TestSumIsDeterministic(t *testing.T) {
	t.Parallel()
	a := btrfssum.Sum([]byte("hello, world!"))
	b := btrfssum.Sum([]byte("hello, world!"))
	assert.Equal(t, a, b)
}

func TestSumDiffersOnDifferentInput(t *testing.T) {
	t.Parallel()
	a := btrfssum.Sum([]byte("hello, world!"))
	b := btrfssum.Sum([]byte("hello, world?"))
	assert.NotEqual(t, a, b)
}

func TestStoredEqual(t *testing.T) {
	t.Parallel()
	c := btrfssum.Sum([]byte("payload"))
	var stored btrfssum.Stored
	copy(stored[:], c[:])
	assert.True(t, stored.Equal(c))

	other := btrfssum.Sum([]byte("not the payload"))
	assert.False(t, stored.Equal(other))
}

func TestNameHashIsDeterministic(t *testing.T) {
	t.Parallel()
	a := btrfssum.NameHash([]byte("greeting"))
	b := btrfssum.NameHash([]byte("greeting"))
	assert.Equal(t, a, b)

	c := btrfssum.NameHash([]byte("greeting2"))
	assert.NotEqual(t, a, c)
}
