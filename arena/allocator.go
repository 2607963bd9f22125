package arena

import (
	"fmt"
	"math"

	"github.com/i-e-b/SArA/memory"
)

// Allocator manages the byte range [startBase, limit) as a sequence of
// fixed-size arenas. See the package doc for the layout.
//
// All state beyond the struct fields lives in the managed range itself,
// so two Allocator values constructed over the same range and store
// observe each other's allocations.
type Allocator struct {
	mem memory.Access

	// startBase is the caller-visible floor of the managed range; the
	// side tables sit at its bottom.
	startBase int64
	// start is the working floor, just above the side tables. Pointer
	// arithmetic is relative to this.
	start int64
	limit int64

	arenaCount int64
	headsOff   int64
	refsOff    int64

	// currentArena is the scan hint for the next allocation. Deref and
	// sweep bias it low so reclaimed arenas near the base are reused
	// first.
	currentArena int64

	opts Options
}

// New constructs an allocator over [startBase, limit) of mem, carves the
// side tables out of the bottom of that range and zeroes them.
func New(mem memory.Access, startBase, limit int64, opts ...Option) (*Allocator, error) {
	if limit < startBase {
		return nil, fmt.Errorf("%w: start=%d limit=%d", ErrRangeInvalid, startBase, limit)
	}
	count := ArenaCount(startBase, limit)
	a := &Allocator{
		mem:        mem,
		startBase:  startBase,
		start:      regionStart(startBase, count),
		limit:      limit,
		arenaCount: count,
		headsOff:   headTableStart(startBase),
		refsOff:    refTableStart(startBase, count),
		opts:       newOptions(opts...),
	}
	for i := int64(0); i < count; i++ {
		a.setHead(i, 0)
		a.setRefCount(i, 0)
	}
	if a.opts.Log != nil {
		a.opts.Log.Debugf(
			"arena.New %s: arenas=%d start=%d limit=%d",
			a.opts.Label, count, a.start, limit)
	}
	return a, nil
}

// Alloc claims byteCount bytes from the first arena that can hold them,
// scanning circularly from the current arena. The returned pointer is an
// absolute byte offset. The owning arena gains a reference.
func (a *Allocator) Alloc(byteCount int64) (int64, error) {
	if byteCount <= 0 {
		return -1, fmt.Errorf("%w: %d", ErrInvalidByteCount, byteCount)
	}
	if byteCount > Size {
		return -1, fmt.Errorf("%w: %d", ErrAllocationTooLarge, byteCount)
	}
	for i := int64(0); i < a.arenaCount; i++ {
		idx := (a.currentArena + i) % a.arenaCount
		head := int64(a.head(idx))
		if head > Size-byteCount {
			continue
		}
		a.setHead(idx, uint16(head+byteCount))
		refs := a.refCount(idx)
		if refs < math.MaxUint16 {
			a.setRefCount(idx, refs+1)
		}
		a.currentArena = idx
		return head + idx*Size + a.start, nil
	}
	return -1, fmt.Errorf("%w: need %d bytes", ErrOutOfMemory, byteCount)
}

// Reference adds one reference to the arena owning ptr. It fails on
// saturation rather than wrapping; a saturated count is a caller bug and
// the state is left unchanged.
func (a *Allocator) Reference(ptr int64) error {
	idx, err := a.ArenaForPtr(ptr)
	if err != nil {
		return err
	}
	refs := a.refCount(idx)
	if refs == math.MaxUint16 {
		return fmt.Errorf("%w: arena %d", ErrReferenceSaturated, idx)
	}
	a.setRefCount(idx, refs+1)
	return nil
}

// Deref releases one reference from the arena owning ptr. When the last
// reference goes, the arena is reclaimed whole and becomes the preferred
// allocation target if it sits below the current scan hint.
func (a *Allocator) Deref(ptr int64) error {
	idx, err := a.ArenaForPtr(ptr)
	if err != nil {
		return err
	}
	refs := a.refCount(idx)
	if refs == 0 {
		return fmt.Errorf("%w: arena %d", ErrOverFree, idx)
	}
	refs--
	a.setRefCount(idx, refs)
	if refs == 0 {
		a.setHead(idx, 0)
		if idx < a.currentArena {
			a.currentArena = idx
		}
	}
	return nil
}

// ScanAndSweep rebuilds every arena's reference count from the given set
// of live pointers, then reclaims every arena not represented in the set.
// Afterwards a retained arena's count equals the number of live pointers
// into it, not the number of allocations made from it.
//
// Negative pointers are the "absent" sentinel and are skipped. A live set
// assembled from container References() output may legitimately contain
// them.
func (a *Allocator) ScanAndSweep(live []int64) {
	for i := int64(0); i < a.arenaCount; i++ {
		a.setRefCount(i, 0)
	}
	for _, ptr := range live {
		if ptr < 0 {
			continue
		}
		idx, err := a.ArenaForPtr(ptr)
		if err != nil {
			continue
		}
		refs := a.refCount(idx)
		if refs < math.MaxUint16 {
			a.setRefCount(idx, refs+1)
		}
	}
	reclaimed := 0
	for idx := a.arenaCount - 1; idx >= 0; idx-- {
		if a.refCount(idx) != 0 {
			continue
		}
		if a.head(idx) != 0 {
			reclaimed++
		}
		a.setHead(idx, 0)
		a.currentArena = idx
	}
	if a.opts.Log != nil {
		a.opts.Log.Debugf(
			"arena.ScanAndSweep %s: live=%d reclaimed=%d",
			a.opts.Label, len(live), reclaimed)
	}
}

// ArenaForPtr resolves the arena index owning ptr.
//
// The upper bound check is deliberately `ptr > limit` rather than `>=`,
// matching the arena arithmetic (pointers address up to limit-1) at the
// cost of admitting a pointer exactly at the limit.
func (a *Allocator) ArenaForPtr(ptr int64) (int64, error) {
	if ptr < a.start || ptr > a.limit {
		return -1, fmt.Errorf("%w: ptr=%d", ErrPtrOutOfRange, ptr)
	}
	idx := (ptr - a.start) / Size
	if idx >= a.arenaCount {
		return -1, fmt.Errorf("%w: ptr=%d arena=%d", ErrPtrOutOfRange, ptr, idx)
	}
	return idx, nil
}

// CurrentArena returns the scan hint for the next allocation.
func (a *Allocator) CurrentArena() int64 { return a.currentArena }

// ArenaOccupation returns the head offset of arena idx; zero means empty.
func (a *Allocator) ArenaOccupation(idx int64) (uint16, error) {
	if idx < 0 || idx >= a.arenaCount {
		return 0, fmt.Errorf("%w: %d", ErrInvalidArenaIndex, idx)
	}
	return a.head(idx), nil
}

// ArenaRefCount returns the outstanding reference count of arena idx.
func (a *Allocator) ArenaRefCount(idx int64) (uint16, error) {
	if idx < 0 || idx >= a.arenaCount {
		return 0, fmt.Errorf("%w: %d", ErrInvalidArenaIndex, idx)
	}
	return a.refCount(idx), nil
}

// ArenaCount returns the number of arenas in the managed range.
func (a *Allocator) ArenaCount() int64 { return a.arenaCount }

// side table access

func (a *Allocator) head(idx int64) uint16 {
	return memory.Read[uint16](a.mem, a.headsOff+idx*sideFieldBytes)
}

func (a *Allocator) setHead(idx int64, v uint16) {
	memory.Write(a.mem, a.headsOff+idx*sideFieldBytes, v)
}

func (a *Allocator) refCount(idx int64) uint16 {
	return memory.Read[uint16](a.mem, a.refsOff+idx*sideFieldBytes)
}

func (a *Allocator) setRefCount(idx int64, v uint16) {
	memory.Write(a.mem, a.refsOff+idx*sideFieldBytes, v)
}
