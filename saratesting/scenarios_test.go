package saratesting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i-e-b/SArA/hashmap"
	"github.com/i-e-b/SArA/ktree"
	"github.com/i-e-b/SArA/saratesting"
	"github.com/i-e-b/SArA/vector"
)

// All containers share one allocator and one store; releasing them in
// any order returns every byte.
func TestContainersShareOneAllocator(t *testing.T) {
	c := saratesting.NewTestContext(t, saratesting.TestConfig{TestLabelPrefix: "scenarios"})

	v, err := vector.New[int64](c.Store, c.Alloc)
	require.NoError(t, err)
	m, err := hashmap.New(c.Store, c.Alloc, 64, nil)
	require.NoError(t, err)
	tr, err := ktree.New[int64](c.Store, c.Alloc)
	require.NoError(t, err)

	for i := int64(0); i < 1000; i++ {
		require.NoError(t, v.Push(i))
		require.NoError(t, m.Put(uint64(i), uint64(i*2), true))
	}
	node := tr.Root()
	for i := int64(0); i < 50; i++ {
		node, err = tr.AddChild(node, i)
		require.NoError(t, err)
	}

	// Interleaved mutation does not disturb the neighbours.
	for i := int64(0); i < 1000; i += 101 {
		got, gerr := v.Get(i)
		require.NoError(t, gerr)
		assert.Equal(t, i, got)
		val, merr := m.Get(uint64(i))
		require.NoError(t, merr)
		assert.Equal(t, uint64(i*2), val)
	}

	require.NoError(t, m.Deallocate())
	require.NoError(t, tr.Deallocate())
	require.NoError(t, v.Deallocate())
	c.RequireDrained()
}

// A container dropped without Deallocate is reclaimed by a sweep over
// the references of the containers still in use, and the survivors are
// untouched.
func TestSweepReclaimsLeakedContainer(t *testing.T) {
	c := saratesting.NewTestContext(t, saratesting.TestConfig{TestLabelPrefix: "scenarios"})

	kept, err := vector.New[int64](c.Store, c.Alloc)
	require.NoError(t, err)
	leaked, err := vector.New[int64](c.Store, c.Alloc)
	require.NoError(t, err)
	m, err := hashmap.New(c.Store, c.Alloc, 64, nil)
	require.NoError(t, err)

	for i := int64(0); i < 2000; i++ {
		require.NoError(t, kept.Push(i))
		require.NoError(t, leaked.Push(-i))
	}
	for k := uint64(1); k <= 100; k++ {
		require.NoError(t, m.Put(k, k, true))
	}

	live := append(kept.References(), m.References()...)
	c.Alloc.ScanAndSweep(live)

	// Everything still live is accounted for by the live pointers alone;
	// the leaked chain no longer holds any references. Checked before the
	// reads below, which may allocate a fresh skip table.
	s := c.Alloc.State()
	assert.Equal(t, int64(len(live)), s.TotalReferenceCount)

	for i := int64(0); i < 2000; i += 97 {
		got, gerr := kept.Get(i)
		require.NoError(t, gerr)
		assert.Equal(t, i, got)
	}
	for k := uint64(1); k <= 100; k++ {
		val, merr := m.Get(k)
		require.NoError(t, merr)
		assert.Equal(t, k, val)
	}

	c.Alloc.ScanAndSweep(nil)
	c.RequireDrained()
}
