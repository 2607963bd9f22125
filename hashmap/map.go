package hashmap

import (
	"fmt"

	"github.com/i-e-b/SArA/arena"
	"github.com/i-e-b/SArA/memory"
	"github.com/i-e-b/SArA/vector"
)

const (
	// MinBuckets is the smallest non-zero bucket count.
	MinBuckets = 64
	// MaxBuckets caps growth; it is where the squaring schedule lands
	// starting from a 4096-bucket table.
	MaxBuckets = 1 << 24
	// LoadFactor bounds countUsed relative to the bucket count in
	// automatic resize mode.
	LoadFactor = 0.8
	// SafeHash replaces a zero from the hashing strategy, keeping 0 free
	// to mark empty buckets.
	SafeHash = 0x8000_0000

	// The squaring growth schedule applies below this bucket count;
	// beyond it growth is a plain doubling.
	aggressiveGrowthBelow = 8192
)

// Entry is one bucket. Hash 0 means the bucket is empty.
type Entry struct {
	Hash  uint32
	Key   uint64
	Value uint64
}

// KV is a materialized key/value pair, the element type of AllEntries.
type KV struct {
	Key   uint64
	Value uint64
}

// TaggedMap is a Robin-Hood hash map over u64 keys and values. See the
// package doc.
type TaggedMap struct {
	mem      memory.Access
	alloc    *arena.Allocator
	strategy Strategy

	buckets   *vector.Vector[Entry]
	count     uint64 // bucket count, power of two or 0
	countMod  uint64
	countUsed uint64

	growAt     uint64
	shrinkAt   uint64
	autoResize bool

	valid bool
}

// New constructs a map with at least initialSize buckets (rounded up to a
// supported power of two). A nil strategy selects DefaultStrategy.
func New(mem memory.Access, alloc *arena.Allocator, initialSize uint64, strategy Strategy) (*TaggedMap, error) {
	if strategy == nil {
		strategy = DefaultStrategy{}
	}
	m := &TaggedMap{
		mem:      mem,
		alloc:    alloc,
		strategy: strategy,
	}
	if err := m.Resize(initialSize, true); err != nil {
		return m, err
	}
	m.valid = true
	return m, nil
}

// Count returns the bucket count.
func (m *TaggedMap) Count() uint64 { return m.count }

// CountUsed returns the number of occupied buckets.
func (m *TaggedMap) CountUsed() uint64 { return m.countUsed }

// Valid reports whether the map is usable.
func (m *TaggedMap) Valid() bool { return m.valid }

// Put inserts key/value. With canReplace false an existing key is left
// untouched and ErrDuplicateKey is returned. The map grows first when the
// load bound is reached.
func (m *TaggedMap) Put(key, value uint64, canReplace bool) error {
	if !m.valid {
		return ErrInvalid
	}
	if m.countUsed >= m.growAt {
		if err := m.resizeNext(); err != nil {
			return err
		}
	}
	e := Entry{Hash: m.safeHash(key), Key: key, Value: value}
	return m.putInternal(e, canReplace, true)
}

// Get returns the value stored for key.
func (m *TaggedMap) Get(key uint64) (uint64, error) {
	if !m.valid {
		return 0, ErrInvalid
	}
	idx, ok, err := m.find(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrKeyNotFound, key)
	}
	e, err := m.buckets.Get(int64(idx))
	if err != nil {
		return 0, err
	}
	return e.Value, nil
}

// Remove deletes key, shifting the displaced run back over the hole so
// probe distances stay tight. The map may shrink afterwards in automatic
// resize mode.
func (m *TaggedMap) Remove(key uint64) error {
	if !m.valid {
		return ErrInvalid
	}
	idx, ok, err := m.find(key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %d", ErrKeyNotFound, key)
	}

	// Walk forward moving entries back one slot until a bucket is empty
	// or already in its ideal position.
	j := idx
	for {
		next := (j + 1) & m.countMod
		e, gerr := m.buckets.Get(int64(next))
		if gerr != nil {
			return gerr
		}
		if e.Hash == 0 || m.probeDistance(e.Hash, next) == 0 {
			break
		}
		if _, serr := m.buckets.Set(int64(j), e); serr != nil {
			return serr
		}
		j = next
	}
	if _, serr := m.buckets.Set(int64(j), Entry{}); serr != nil {
		return serr
	}
	m.countUsed--

	if m.autoResize && m.shrinkAt > 0 && m.countUsed == m.shrinkAt {
		return m.Resize(m.shrinkAt, true)
	}
	return nil
}

// Resize rebuilds the bucket array at newSize buckets (rounded up to a
// supported power of two; 0 empties the map entirely). In automatic mode
// the grow/shrink bounds track the load factor; in manual mode growth is
// only triggered by probe exhaustion.
func (m *TaggedMap) Resize(newSize uint64, auto bool) error {
	if newSize > 0 && newSize < MinBuckets {
		newSize = MinBuckets
	}
	newSize = nextPow2(newSize)
	if newSize > MaxBuckets {
		newSize = MaxBuckets
	}

	oldBuckets := m.buckets
	oldCount := m.count

	newBuckets, err := vector.New[Entry](m.mem, m.alloc)
	if err != nil {
		return err
	}
	if newSize > 0 {
		if err = newBuckets.Prealloc(int64(newSize)); err != nil {
			_ = newBuckets.Deallocate()
			return err
		}
		// Prealloc exposes uninitialized slots; the empty sentinel has
		// to be written explicitly.
		for i := int64(0); i < int64(newSize); i++ {
			if _, err = newBuckets.Set(i, Entry{}); err != nil {
				_ = newBuckets.Deallocate()
				return err
			}
		}
	}

	m.buckets = newBuckets
	m.count = newSize
	if newSize > 0 {
		m.countMod = newSize - 1
	} else {
		m.countMod = 0
	}
	m.countUsed = 0
	m.autoResize = auto
	if auto {
		m.growAt = uint64(float64(newSize) * LoadFactor)
		m.shrinkAt = newSize >> 2
	} else {
		m.growAt = newSize
		m.shrinkAt = 0
	}

	if oldBuckets == nil {
		return nil
	}
	if newSize == 0 {
		// Resizing to nothing is a discard, not a rehash.
		return oldBuckets.Deallocate()
	}
	for i := int64(0); i < int64(oldCount); i++ {
		e, gerr := oldBuckets.Get(i)
		if gerr != nil {
			return gerr
		}
		if e.Hash == 0 {
			continue
		}
		if perr := m.putInternal(e, false, false); perr != nil {
			return perr
		}
	}
	return oldBuckets.Deallocate()
}

// Clear empties the map. It remains usable; the next Put regrows it.
func (m *TaggedMap) Clear() error {
	if !m.valid {
		return ErrInvalid
	}
	return m.Resize(0, false)
}

// AllEntries materializes the occupied buckets as a vector of key/value
// pairs. The caller owns the returned vector and must Deallocate it.
func (m *TaggedMap) AllEntries() (*vector.Vector[KV], error) {
	if !m.valid {
		return nil, ErrInvalid
	}
	out, err := vector.New[KV](m.mem, m.alloc)
	if err != nil {
		return nil, err
	}
	for i := int64(0); i < int64(m.count); i++ {
		e, gerr := m.buckets.Get(i)
		if gerr != nil {
			_ = out.Deallocate()
			return nil, gerr
		}
		if e.Hash == 0 {
			continue
		}
		if perr := out.Push(KV{Key: e.Key, Value: e.Value}); perr != nil {
			_ = out.Deallocate()
			return nil, perr
		}
	}
	return out, nil
}

// References returns the allocator pointers backing the bucket array, for
// mark-and-sweep liveness scans.
func (m *TaggedMap) References() []int64 {
	if !m.valid || m.buckets == nil {
		return nil
	}
	return m.buckets.References()
}

// Deallocate releases the bucket array. The map is unusable afterwards.
func (m *TaggedMap) Deallocate() error {
	if !m.valid {
		return ErrInvalid
	}
	m.valid = false
	return m.buckets.Deallocate()
}

// putInternal runs the Robin-Hood probe loop. When a probe sequence
// exhausts the bucket count, the map grows and the in-flight entry is
// retried; this is the one internal retry in the module.
func (m *TaggedMap) putInternal(e Entry, canReplace, checkDuplicates bool) error {
	idx := uint64(e.Hash) & m.countMod
	dist := uint64(0)
	cur := e
	for i := uint64(0); i < m.count; i++ {
		slot, err := m.buckets.Get(int64(idx))
		if err != nil {
			return err
		}
		if slot.Hash == 0 {
			if _, err = m.buckets.Set(int64(idx), cur); err != nil {
				return err
			}
			m.countUsed++
			return nil
		}
		if checkDuplicates && slot.Hash == cur.Hash && m.strategy.Equal(slot.Key, cur.Key) {
			if !canReplace {
				return fmt.Errorf("%w: %d", ErrDuplicateKey, cur.Key)
			}
			_, err = m.buckets.Set(int64(idx), cur)
			return err
		}
		occupantDist := m.probeDistance(slot.Hash, idx)
		if occupantDist < dist {
			// Robin-Hood: the in-flight entry has probed further, so it
			// takes the slot and the occupant continues probing.
			if _, err = m.buckets.Set(int64(idx), cur); err != nil {
				return err
			}
			cur = slot
			dist = occupantDist
		}
		dist++
		idx = (idx + 1) & m.countMod
	}
	if err := m.resizeNext(); err != nil {
		return err
	}
	return m.putInternal(cur, canReplace, checkDuplicates)
}

// find locates the bucket holding key.
func (m *TaggedMap) find(key uint64) (uint64, bool, error) {
	h := m.safeHash(key)
	idx := uint64(h) & m.countMod
	for i := uint64(0); i < m.count; i++ {
		e, err := m.buckets.Get(int64(idx))
		if err != nil {
			return 0, false, err
		}
		if e.Hash == 0 {
			return 0, false, nil
		}
		// No later slot can hold the key once we have out-probed the
		// occupant.
		if i > m.probeDistance(e.Hash, idx) {
			return 0, false, nil
		}
		if e.Hash == h && m.strategy.Equal(e.Key, key) {
			return idx, true, nil
		}
		idx = (idx + 1) & m.countMod
	}
	return 0, false, nil
}

// probeDistance is how far the entry hashed to h has probed to reach
// slot idx.
func (m *TaggedMap) probeDistance(h uint32, idx uint64) uint64 {
	ideal := uint64(h) & m.countMod
	return (idx + m.count - ideal) & m.countMod
}

// resizeNext grows on the aggressive schedule: squaring below the
// aggressive-growth bound, doubling beyond it. Resizes cost a full
// rehash, so early growth is made sub-linear in frequency.
func (m *TaggedMap) resizeNext() error {
	var next uint64
	if m.count < aggressiveGrowthBelow {
		next = m.count * m.count
	} else {
		next = m.count * 2
	}
	if next < MinBuckets {
		next = MinBuckets
	}
	return m.Resize(next, true)
}

func (m *TaggedMap) safeHash(key uint64) uint32 {
	h := m.strategy.Hash(key)
	if h == 0 {
		return SafeHash
	}
	return h
}

// nextPow2 rounds v up to the next power of two; 0 stays 0.
func nextPow2(v uint64) uint64 {
	if v == 0 {
		return 0
	}
	p := uint64(1)
	for p < v {
		p <<= 1
	}
	return p
}
