package vector

import "github.com/i-e-b/SArA/memory"

// The skip table is a single allocation of up to SkipTableSizeLimit
// entries sampling the chunk chain at a uniform stride. Entries are
// strictly increasing in chunk index. See the package doc for the rebuild
// discipline.

// skipEntry reads entry n of the skip table.
func (v *Vector[T]) skipEntry(n int64) (uint32, int64) {
	return memory.ReadCompound[uint32, int64](v.mem, v.skipTable+n*skipEntryBytes)
}

// findNearestChunk resolves the chunk holding targetIndex. It returns the
// chunk pointer, the chunk's index in the chain, and whether the chunk
// exists. A not-found result still carries the tail chunk pointer.
func (v *Vector[T]) findNearestChunk(targetIndex int64) (int64, int64, bool) {
	targetChunk := targetIndex / v.elemsPerChunk
	endChunk := int64(0)
	if v.elementCount > 0 {
		endChunk = (int64(v.elementCount) - 1) / v.elemsPerChunk
	}

	if targetChunk == 0 {
		return v.baseChunk, 0, true
	}
	if v.elementCount == 0 || targetChunk == endChunk {
		return v.endChunk, targetChunk, true
	}
	if targetIndex >= int64(v.elementCount) {
		return v.endChunk, targetChunk, false
	}

	v.maybeRebuildSkipTable()

	startChunk := int64(0)
	ptr := v.baseChunk
	if v.skipEntries > 1 {
		if idx, p, ok := v.searchSkipTable(targetChunk, endChunk); ok {
			startChunk = idx
			ptr = p
		}
	}

	walk := targetChunk - startChunk
	for range walk {
		ptr = memory.Read[int64](v.mem, ptr)
	}
	if walk > 5 && !v.rebuilding && v.skipEntries < SkipTableSizeLimit {
		v.skipDirty = true
	}
	return ptr, targetChunk, true
}

// searchSkipTable finds the skip entry with the largest chunk index not
// beyond targetChunk. The stride is near-uniform, so the right slot is
// estimated directly and only a +-2 window around the estimate is
// searched.
func (v *Vector[T]) searchSkipTable(targetChunk, endChunk int64) (int64, int64, bool) {
	entries := int64(v.skipEntries)
	guess := targetChunk * entries / endChunk
	lo := max(guess-2, 0)
	hi := min(guess+2, entries-1)

	// Binary search the window for the last entry <= targetChunk.
	for lo < hi {
		mid := (lo + hi + 1) / 2
		idx, _ := v.skipEntry(mid)
		if int64(idx) <= targetChunk {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	idx, ptr := v.skipEntry(lo)
	if int64(idx) > targetChunk {
		return 0, -1, false
	}
	return int64(idx), ptr, true
}

// maybeRebuildSkipTable rebuilds a dirty table unless a rebuild is
// already on the stack. Nested lookups during a rebuild proceed with the
// stale table, which is still walkable.
func (v *Vector[T]) maybeRebuildSkipTable() {
	if v.rebuilding {
		return
	}
	if v.skipDirty {
		v.rebuildSkipTable()
	}
}

// rebuildSkipTable replaces the skip table with a fresh sample of the
// chain. On any failure the previous table is kept; the next dirtying
// walk will try again.
func (v *Vector[T]) rebuildSkipTable() {
	v.rebuilding = true
	defer func() { v.rebuilding = false }()
	v.skipDirty = false

	chunkTotal := int64(v.elementCount) / v.elemsPerChunk
	if chunkTotal < 4 {
		// Short chains walk faster than they index.
		if v.skipTable >= 0 {
			_ = v.alloc.Deref(v.skipTable)
		}
		v.skipTable = -1
		v.skipEntries = 0
		return
	}

	entries := min(chunkTotal, SkipTableSizeLimit)
	newTable, err := v.alloc.Alloc(entries * skipEntryBytes)
	if err != nil {
		return
	}

	stride := max(int64(v.elementCount)/entries, 1)
	target := int64(0)
	for n := int64(0); n < entries; n++ {
		ptr, chunkIdx, found := v.findNearestChunk(target)
		if !found {
			_ = v.alloc.Deref(newTable)
			return
		}
		memory.WriteCompound(v.mem, newTable+n*skipEntryBytes, uint32(chunkIdx), ptr)
		target += stride
	}

	if v.skipTable >= 0 {
		_ = v.alloc.Deref(v.skipTable)
	}
	v.skipTable = newTable
	v.skipEntries = int32(entries)
}
