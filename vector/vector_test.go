package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i-e-b/SArA/arena"
	"github.com/i-e-b/SArA/saratesting"
)

type sampleElement struct {
	A int64
	B int64
}

func TestPushGetPop(t *testing.T) {
	c := saratesting.NewTestContext(t, saratesting.TestConfig{TestLabelPrefix: "vector"})
	v, err := New[int64](c.Store, c.Alloc)
	require.NoError(t, err)
	require.True(t, v.Valid())

	for i := int64(0); i < 300; i++ {
		require.NoError(t, v.Push(i*3))
	}
	require.Equal(t, int64(300), v.Len())

	for i := int64(0); i < 300; i++ {
		got, gerr := v.Get(i)
		require.NoError(t, gerr)
		assert.Equal(t, i*3, got)
	}

	for i := int64(299); i >= 0; i-- {
		got, perr := v.Pop()
		require.NoError(t, perr)
		assert.Equal(t, i*3, got)
	}
	assert.Equal(t, int64(0), v.Len())

	_, err = v.Pop()
	assert.ErrorIs(t, err, ErrEmpty)
}

// A4: a push followed by a pop returns the value and leaves the length
// unchanged.
func TestPushPopRoundTrip(t *testing.T) {
	c := saratesting.NewTestContext(t, saratesting.TestConfig{TestLabelPrefix: "vector"})
	v, err := New[int64](c.Store, c.Alloc)
	require.NoError(t, err)

	for i := int64(0); i < 100; i++ {
		require.NoError(t, v.Push(i))
	}
	before := v.Len()

	require.NoError(t, v.Push(12345))
	got, err := v.Pop()
	require.NoError(t, err)
	assert.Equal(t, int64(12345), got)
	assert.Equal(t, before, v.Len())
}

func TestSetReturnsPrevious(t *testing.T) {
	c := saratesting.NewTestContext(t, saratesting.TestConfig{TestLabelPrefix: "vector"})
	v, err := New[int64](c.Store, c.Alloc)
	require.NoError(t, err)

	for i := int64(0); i < 10; i++ {
		require.NoError(t, v.Push(i))
	}
	prev, err := v.Set(4, 400)
	require.NoError(t, err)
	assert.Equal(t, int64(4), prev)

	got, err := v.Get(4)
	require.NoError(t, err)
	assert.Equal(t, int64(400), got)

	_, err = v.Set(10, 0)
	assert.ErrorIs(t, err, ErrIndexRange)
}

func TestSwap(t *testing.T) {
	c := saratesting.NewTestContext(t, saratesting.TestConfig{TestLabelPrefix: "vector"})
	v, err := New[int64](c.Store, c.Alloc)
	require.NoError(t, err)

	// Across a chunk boundary: 0 and 150 live in different chunks.
	for i := int64(0); i < 200; i++ {
		require.NoError(t, v.Push(i))
	}
	require.NoError(t, v.Swap(0, 150))

	a, err := v.Get(0)
	require.NoError(t, err)
	b, err := v.Get(150)
	require.NoError(t, err)
	assert.Equal(t, int64(150), a)
	assert.Equal(t, int64(0), b)

	assert.ErrorIs(t, v.Swap(0, 200), ErrIndexRange)
}

// S4: large round trip through many chunks and skip table rebuilds.
func TestLargeRoundTrip(t *testing.T) {
	const n = 500_000
	c := saratesting.NewTestContext(t, saratesting.TestConfig{TestLabelPrefix: "vector"})
	v, err := New[int64](c.Store, c.Alloc)
	require.NoError(t, err)

	var pushSum int64
	for i := int64(0); i < n; i++ {
		require.NoError(t, v.Push(i))
		pushSum += i
	}
	require.Equal(t, int64(n), v.Len())

	var getSum int64
	for i := int64(0); i < n; i++ {
		got, gerr := v.Get(i)
		require.NoError(t, gerr)
		if got != i {
			t.Fatalf("Get(%d) = %d", i, got)
		}
		getSum += got
	}
	assert.Equal(t, int64(0), pushSum-getSum)

	for i := int64(n - 1); i >= 0; i-- {
		got, perr := v.Pop()
		require.NoError(t, perr)
		if got != i {
			t.Fatalf("Pop at %d = %d", i, got)
		}
	}
	assert.Equal(t, int64(0), v.Len())
}

// S5: elements cross arena boundaries and popping hands arenas back.
func TestAcrossArenaBoundary(t *testing.T) {
	const n = 2 * arena.Size / 8
	c := saratesting.NewTestContext(t, saratesting.TestConfig{
		TestLabelPrefix: "vector",
		StoreBytes:      1024 * 1024,
	})
	v, err := New[sampleElement](c.Store, c.Alloc)
	require.NoError(t, err)

	for i := int64(0); i < n; i++ {
		require.NoError(t, v.Push(sampleElement{A: i, B: -i}))
	}
	last, err := v.Get(n - 1)
	require.NoError(t, err)
	assert.Equal(t, sampleElement{A: n - 1, B: -(n - 1)}, last)

	before := c.Alloc.State()
	for i := int64(0); i < n/2; i++ {
		_, perr := v.Pop()
		require.NoError(t, perr)
	}
	after := c.Alloc.State()
	assert.Less(t, after.OccupiedArenas, before.OccupiedArenas)
	assert.Less(t, after.TotalReferenceCount, before.TotalReferenceCount)

	require.NoError(t, v.Deallocate())
	c.RequireDrained()
}

func TestPreallocThenSet(t *testing.T) {
	c := saratesting.NewTestContext(t, saratesting.TestConfig{TestLabelPrefix: "vector"})
	v, err := New[int64](c.Store, c.Alloc)
	require.NoError(t, err)

	const n = 1000
	require.NoError(t, v.Prealloc(n))
	require.Equal(t, int64(n), v.Len())

	// Slots are exposed uninitialized; Set before Get is the contract.
	for i := int64(0); i < n; i++ {
		_, serr := v.Set(i, i+7)
		require.NoError(t, serr)
	}
	for i := int64(0); i < n; i++ {
		got, gerr := v.Get(i)
		require.NoError(t, gerr)
		assert.Equal(t, i+7, got)
	}
}

func TestPreallocShortensToo(t *testing.T) {
	c := saratesting.NewTestContext(t, saratesting.TestConfig{TestLabelPrefix: "vector"})
	v, err := New[int64](c.Store, c.Alloc)
	require.NoError(t, err)

	for i := int64(0); i < 10; i++ {
		require.NoError(t, v.Push(i))
	}
	require.NoError(t, v.Prealloc(3))
	assert.Equal(t, int64(3), v.Len())
	_, err = v.Get(3)
	assert.ErrorIs(t, err, ErrIndexRange)
}

// A8: deallocating the only container drains the allocator completely.
func TestDeallocateDrainsAllocator(t *testing.T) {
	c := saratesting.NewTestContext(t, saratesting.TestConfig{TestLabelPrefix: "vector"})
	v, err := New[int64](c.Store, c.Alloc)
	require.NoError(t, err)

	for i := int64(0); i < 5000; i++ {
		require.NoError(t, v.Push(i))
	}
	// Force a skip table into existence before tearing down.
	_, err = v.Get(4000)
	require.NoError(t, err)

	require.NoError(t, v.Deallocate())
	assert.False(t, v.Valid())
	c.RequireDrained()

	require.ErrorIs(t, v.Push(1), ErrInvalid)
}

func TestElementTooWide(t *testing.T) {
	c := saratesting.NewTestContext(t, saratesting.TestConfig{TestLabelPrefix: "vector"})
	v, err := New[[70000]byte](c.Store, c.Alloc)
	assert.ErrorIs(t, err, ErrElementTooWide)
	assert.False(t, v.Valid())
}

func TestReferencesCoverAllAllocations(t *testing.T) {
	c := saratesting.NewTestContext(t, saratesting.TestConfig{TestLabelPrefix: "vector"})
	v, err := New[int64](c.Store, c.Alloc)
	require.NoError(t, err)

	for i := int64(0); i < 2000; i++ {
		require.NoError(t, v.Push(i))
	}
	_, err = v.Get(1500) // force a skip table rebuild
	require.NoError(t, err)

	// Sweeping with the vector's own references must not disturb it.
	c.Alloc.ScanAndSweep(v.References())
	for i := int64(0); i < 2000; i += 97 {
		got, gerr := v.Get(i)
		require.NoError(t, gerr)
		assert.Equal(t, i, got)
	}

	// Sweeping with an empty live set reclaims everything.
	c.Alloc.ScanAndSweep(nil)
	c.RequireDrained()
}
