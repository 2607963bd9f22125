package memory

// Access is the byte store contract shared by the allocator and the
// containers. Offsets are absolute byte positions in the managed range.
//
// Implementations do not range check; callers have already validated
// offsets through the allocator.
type Access interface {
	// ReadAt fills dst from the bytes at off.
	ReadAt(off int64, dst []byte)
	// WriteAt copies src to the bytes at off.
	WriteAt(off int64, src []byte)
}

// Store is the plain in-process byte store. It stands in for the raw
// memory of an embedded target.
type Store struct {
	data []byte
}

// NewStore returns a zero-filled store of size bytes.
func NewStore(size int64) *Store {
	return &Store{data: make([]byte, size)}
}

// Bytes exposes the backing slice. Mutating container-owned regions
// through it invalidates container invariants; it exists for tests and
// diagnostics.
func (s *Store) Bytes() []byte { return s.data }

// Size returns the store capacity in bytes.
func (s *Store) Size() int64 { return int64(len(s.data)) }

func (s *Store) ReadAt(off int64, dst []byte) {
	copy(dst, s.data[off:off+int64(len(dst))])
}

func (s *Store) WriteAt(off int64, src []byte) {
	copy(s.data[off:off+int64(len(src))], src)
}

// ShiftedStore presents another Access re-based by a constant offset. An
// absolute location passed to this store is translated to
// location - base before it reaches the wrapped store.
type ShiftedStore struct {
	inner Access
	base  int64
}

// NewShiftedStore wraps inner so that offsets [base, base+len) map onto
// [0, len) of the wrapped store.
func NewShiftedStore(inner Access, base int64) *ShiftedStore {
	return &ShiftedStore{inner: inner, base: base}
}

func (s *ShiftedStore) ReadAt(off int64, dst []byte) {
	s.inner.ReadAt(off-s.base, dst)
}

func (s *ShiftedStore) WriteAt(off int64, src []byte) {
	s.inner.WriteAt(off-s.base, src)
}
