package hashmap

// Strategy supplies hashing and key equality. The map is polymorphic over
// this at construction; there is no subclassing surface.
//
// Hash must be deterministic. Returning 0 is tolerated — the map remaps
// it to SafeHash — but a good strategy avoids it.
type Strategy interface {
	Hash(key uint64) uint32
	Equal(a, b uint64) bool
}

// DefaultStrategy hashes with the 64-bit murmur3 finalizer, truncated to
// 32 bits. Keys are compared directly.
type DefaultStrategy struct{}

func (DefaultStrategy) Hash(key uint64) uint32 {
	key ^= key >> 33
	key *= 0xff51afd7ed558ccd
	key ^= key >> 33
	key *= 0xc4ceb9fe1a85ec53
	key ^= key >> 33
	return uint32(key)
}

func (DefaultStrategy) Equal(a, b uint64) bool { return a == b }
