package vector

import (
	"fmt"

	"github.com/i-e-b/SArA/arena"
	"github.com/i-e-b/SArA/memory"
)

const (
	// TargetElemsPerChunk caps the element count of a chunk. Narrow
	// element types stop here rather than filling a whole arena, keeping
	// chunk walks and partial tails cheap.
	TargetElemsPerChunk = 64

	// SkipTableSizeLimit caps the skip table entry count.
	SkipTableSizeLimit = 1024

	// chunkHeaderBytes is the forward-link pointer at the front of every
	// chunk.
	chunkHeaderBytes = 8

	// skipEntryBytes is one skip table entry: chunk index (u32) followed
	// by chunk pointer (i64).
	skipEntryBytes = 12
)

// Vector is a chunked dynamic array of T stored in allocator-managed
// memory. T must be plain-old-data no wider than a chunk body.
type Vector[T any] struct {
	mem   memory.Access
	alloc *arena.Allocator

	elemSize      int64
	elemsPerChunk int64

	elementCount uint32
	baseChunk    int64
	endChunk     int64

	skipTable   int64
	skipEntries int32
	skipDirty   bool
	rebuilding  bool

	valid bool
}

// New constructs an empty vector and allocates its first chunk. On error
// the returned vector is marked invalid and refuses all operations.
func New[T any](mem memory.Access, alloc *arena.Allocator) (*Vector[T], error) {
	elemSize := memory.SizeOf[T]()
	v := &Vector[T]{
		mem:       mem,
		alloc:     alloc,
		elemSize:  elemSize,
		skipTable: -1,
	}
	epc := (arena.Size - chunkHeaderBytes) / elemSize
	if epc > TargetElemsPerChunk {
		epc = TargetElemsPerChunk
	}
	if epc <= 1 {
		return v, fmt.Errorf("%w: %d bytes", ErrElementTooWide, elemSize)
	}
	v.elemsPerChunk = epc

	ptr, err := alloc.Alloc(v.chunkBytes())
	if err != nil {
		return v, err
	}
	memory.Write[int64](mem, ptr, -1)
	v.baseChunk = ptr
	v.endChunk = ptr
	v.valid = true
	v.rebuildSkipTable()
	return v, nil
}

func (v *Vector[T]) chunkBytes() int64 {
	return chunkHeaderBytes + v.elemsPerChunk*v.elemSize
}

// Len returns the logical element count.
func (v *Vector[T]) Len() int64 { return int64(v.elementCount) }

// Valid reports whether the vector is usable. It goes false on
// construction failure and after Deallocate.
func (v *Vector[T]) Valid() bool { return v.valid }

// ElemsPerChunk returns the chunk capacity computed for T.
func (v *Vector[T]) ElemsPerChunk() int64 { return v.elemsPerChunk }

// Push appends value.
func (v *Vector[T]) Push(value T) error {
	if !v.valid {
		return ErrInvalid
	}
	ptr, _, found := v.findNearestChunk(int64(v.elementCount))
	if !found {
		var err error
		ptr, err = v.newChunk()
		if err != nil {
			return err
		}
	}
	slot := int64(v.elementCount) % v.elemsPerChunk
	memory.Write(v.mem, ptr+chunkHeaderBytes+slot*v.elemSize, value)
	v.elementCount++
	return nil
}

// Get returns the element at index i.
func (v *Vector[T]) Get(i int64) (T, error) {
	var zero T
	if !v.valid {
		return zero, ErrInvalid
	}
	if i < 0 || i >= int64(v.elementCount) {
		return zero, fmt.Errorf("%w: %d of %d", ErrIndexRange, i, v.elementCount)
	}
	ptr, _, found := v.findNearestChunk(i)
	if !found {
		return zero, fmt.Errorf("%w: index %d", ErrChunkNotFound, i)
	}
	slot := i % v.elemsPerChunk
	return memory.Read[T](v.mem, ptr+chunkHeaderBytes+slot*v.elemSize), nil
}

// Set replaces the element at index i and returns the previous value.
func (v *Vector[T]) Set(i int64, value T) (T, error) {
	var zero T
	if !v.valid {
		return zero, ErrInvalid
	}
	if i < 0 || i >= int64(v.elementCount) {
		return zero, fmt.Errorf("%w: %d of %d", ErrIndexRange, i, v.elementCount)
	}
	ptr, _, found := v.findNearestChunk(i)
	if !found {
		return zero, fmt.Errorf("%w: index %d", ErrChunkNotFound, i)
	}
	off := ptr + chunkHeaderBytes + (i%v.elemsPerChunk)*v.elemSize
	prev := memory.Read[T](v.mem, off)
	memory.Write(v.mem, off, value)
	return prev, nil
}

// Pop removes and returns the last element. When the removal empties the
// tail chunk, the chunk is released back to the allocator before the
// count is decremented.
func (v *Vector[T]) Pop() (T, error) {
	var zero T
	if !v.valid {
		return zero, ErrInvalid
	}
	if v.elementCount == 0 {
		return zero, ErrEmpty
	}
	index := int64(v.elementCount) - 1
	slot := index % v.elemsPerChunk
	value := memory.Read[T](v.mem, v.endChunk+chunkHeaderBytes+slot*v.elemSize)

	if slot == 0 && index != 0 {
		// The tail chunk held only this element. Walk back to its
		// predecessor, terminate the chain there and release the tail.
		prev, _, found := v.findNearestChunk(index - 1)
		if !found {
			return zero, fmt.Errorf("%w: index %d", ErrChunkNotFound, index-1)
		}
		if err := v.alloc.Deref(v.endChunk); err != nil {
			return zero, err
		}
		v.endChunk = prev
		memory.Write[int64](v.mem, prev, -1)
		v.trimSkipTail(index / v.elemsPerChunk)
	}
	v.elementCount--
	return value, nil
}

// Swap exchanges the elements at i and j in place.
func (v *Vector[T]) Swap(i, j int64) error {
	if !v.valid {
		return ErrInvalid
	}
	n := int64(v.elementCount)
	if i < 0 || i >= n || j < 0 || j >= n {
		return fmt.Errorf("%w: %d,%d of %d", ErrIndexRange, i, j, n)
	}
	if i == j {
		return nil
	}
	pi, _, foundI := v.findNearestChunk(i)
	pj, _, foundJ := v.findNearestChunk(j)
	if !foundI || !foundJ {
		return fmt.Errorf("%w: %d,%d", ErrChunkNotFound, i, j)
	}
	offI := pi + chunkHeaderBytes + (i%v.elemsPerChunk)*v.elemSize
	offJ := pj + chunkHeaderBytes + (j%v.elemsPerChunk)*v.elemSize
	a := memory.Read[T](v.mem, offI)
	b := memory.Read[T](v.mem, offJ)
	memory.Write(v.mem, offI, b)
	memory.Write(v.mem, offJ, a)
	return nil
}

// Prealloc grows the chain until every index below length has a chunk,
// then sets the logical length. The newly exposed slots are NOT zeroed;
// their content is undefined until Set.
func (v *Vector[T]) Prealloc(length int64) error {
	if !v.valid {
		return ErrInvalid
	}
	if length < 0 {
		return fmt.Errorf("%w: %d", ErrIndexRange, length)
	}
	lastChunk := int64(0)
	if length > 0 {
		lastChunk = (length - 1) / v.elemsPerChunk
	}
	endIdx := int64(0)
	if v.elementCount > 0 {
		endIdx = (int64(v.elementCount) - 1) / v.elemsPerChunk
	}
	for cur := endIdx; cur < lastChunk; cur++ {
		if _, err := v.newChunk(); err != nil {
			return err
		}
	}
	v.elementCount = uint32(length)
	v.rebuildSkipTable()
	return nil
}

// Deallocate releases the skip table and every chunk, writing -1 into
// each forward pointer as it goes so a stale handle cannot walk a loop.
// The vector is unusable afterwards.
func (v *Vector[T]) Deallocate() error {
	if !v.valid {
		return ErrInvalid
	}
	v.valid = false
	if v.skipTable >= 0 {
		if err := v.alloc.Deref(v.skipTable); err != nil {
			return err
		}
		v.skipTable = -1
		v.skipEntries = 0
	}
	cur := v.baseChunk
	for cur >= 0 {
		next := memory.Read[int64](v.mem, cur)
		memory.Write[int64](v.mem, cur, -1)
		if err := v.alloc.Deref(cur); err != nil {
			return err
		}
		cur = next
	}
	return nil
}

// References returns every allocator pointer the vector currently holds:
// the chunk chain and, when present, the skip table. The result feeds
// mark-and-sweep liveness scans.
func (v *Vector[T]) References() []int64 {
	if !v.valid {
		return nil
	}
	var refs []int64
	if v.skipTable >= 0 {
		refs = append(refs, v.skipTable)
	}
	cur := v.baseChunk
	for cur >= 0 {
		refs = append(refs, cur)
		cur = memory.Read[int64](v.mem, cur)
	}
	return refs
}

// newChunk extends the chain by one chunk and makes it the tail.
func (v *Vector[T]) newChunk() (int64, error) {
	ptr, err := v.alloc.Alloc(v.chunkBytes())
	if err != nil {
		return -1, err
	}
	memory.Write[int64](v.mem, ptr, -1)
	memory.Write[int64](v.mem, v.endChunk, ptr)
	v.endChunk = ptr
	v.skipDirty = true
	return ptr, nil
}

// trimSkipTail drops trailing skip entries that point at or beyond a
// removed chunk. The table allocation is untouched; only the live entry
// count shrinks.
func (v *Vector[T]) trimSkipTail(removedChunk int64) {
	for v.skipEntries > 0 {
		idx, _ := v.skipEntry(int64(v.skipEntries) - 1)
		if int64(idx) < removedChunk {
			return
		}
		v.skipEntries--
	}
}
