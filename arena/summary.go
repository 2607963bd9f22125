package arena

// Summary is a point-in-time account of the managed range, assembled by
// walking the side tables.
type Summary struct {
	// AllocatedBytes is the sum of all arena heads.
	AllocatedBytes int64 `cbor:"1,keyasint"`
	// UnallocatedBytes is the total headroom across all arenas.
	UnallocatedBytes int64 `cbor:"2,keyasint"`
	// OccupiedArenas counts arenas with a non-zero head.
	OccupiedArenas int64 `cbor:"3,keyasint"`
	// EmptyArenas counts arenas with a zero head.
	EmptyArenas int64 `cbor:"4,keyasint"`
	// TotalReferenceCount is the sum of all arena reference counts.
	TotalReferenceCount int64 `cbor:"5,keyasint"`
	// LargestContiguousBlock is the biggest allocation currently
	// satisfiable. Contiguous means within a single arena, so this never
	// exceeds Size.
	LargestContiguousBlock int64 `cbor:"6,keyasint"`
}

// State walks the side tables and summarizes the managed range.
func (a *Allocator) State() Summary {
	var s Summary
	for i := int64(0); i < a.arenaCount; i++ {
		head := int64(a.head(i))
		s.AllocatedBytes += head
		s.UnallocatedBytes += Size - head
		if head > 0 {
			s.OccupiedArenas++
		} else {
			s.EmptyArenas++
		}
		s.TotalReferenceCount += int64(a.refCount(i))
		if free := Size - head; free > s.LargestContiguousBlock {
			s.LargestContiguousBlock = free
		}
	}
	return s
}
