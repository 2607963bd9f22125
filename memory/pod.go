package memory

import "unsafe"

// SizeOf returns the in-memory byte width of T, including any padding the
// platform inserts. Layout arithmetic throughout the module uses this,
// never a hand-computed field sum.
func SizeOf[T any]() int64 {
	var v T
	return int64(unsafe.Sizeof(v))
}

// Read returns the T stored at off.
func Read[T any](m Access, off int64) T {
	var v T
	m.ReadAt(off, podBytes(&v))
	return v
}

// Write stores v at off.
func Write[T any](m Access, off int64, v T) {
	m.WriteAt(off, podBytes(&v))
}

// WriteCompound stores head at off followed immediately by body at
// off + SizeOf[H](). The pair write keeps header-then-payload updates in
// one call on the hot paths.
func WriteCompound[H, B any](m Access, off int64, head H, body B) {
	m.WriteAt(off, podBytes(&head))
	m.WriteAt(off+int64(unsafe.Sizeof(head)), podBytes(&body))
}

// ReadCompound is the inverse of WriteCompound.
func ReadCompound[H, B any](m Access, off int64) (H, B) {
	var head H
	var body B
	m.ReadAt(off, podBytes(&head))
	m.ReadAt(off+int64(unsafe.Sizeof(head)), podBytes(&body))
	return head, body
}

// podBytes views the storage of *v as a byte slice. v must be
// plain-old-data; see the package doc.
func podBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}
