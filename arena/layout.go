package arena

const (
	// Size is the fixed arena width in bytes, the largest value a 16-bit
	// head offset can express.
	Size = 65535

	// sideFieldBytes is the width of one side-table element (u16).
	sideFieldBytes = 2

	// PtrBytes is the width of an absolute pointer. Pointers are signed;
	// negative values are the "absent" sentinel.
	PtrBytes = 8
)

// ArenaCount returns the number of arenas carved from [startBase, limit).
// The side tables are taken from the same range, so the top arena may be
// clipped by them; allocation arithmetic deliberately ignores this and
// matches the side-table sizing.
func ArenaCount(startBase, limit int64) int64 {
	return (limit - startBase) / Size
}

// headTableStart returns the byte offset of the head side table.
func headTableStart(startBase int64) int64 {
	return startBase
}

// refTableStart returns the byte offset of the refCount side table.
func refTableStart(startBase, arenaCount int64) int64 {
	return startBase + sideFieldBytes*arenaCount
}

// regionStart returns the first byte usable for arena data, immediately
// after both side tables.
func regionStart(startBase, arenaCount int64) int64 {
	return startBase + 2*sideFieldBytes*arenaCount
}
