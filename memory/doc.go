package memory

/*

# Memory access primitives for SArA

This package defines the byte store contract that the allocator and every
container are built over, together with typed plain-old-data views of that
store.

It follows a "functional primitives" style:

- a minimal `Access` interface (raw bytes at an absolute offset)
- package-level generic helpers for typed reads and writes
- a burden of knowledge on the caller for hot paths

## Contract

`Access` exposes raw byte transfer at a caller-computed offset. There are no
error returns: every offset handed to this package has already been validated
through the allocator, and an out-of-range access is a caller bug. The
concrete stores let the underlying slice bounds check fire rather than
masking the fault.

## Typed views

`Read`, `Write`, `ReadCompound` and `WriteCompound` move plain-old-data
values through an `Access` by viewing the value's own storage as bytes.
Values round-trip bit-identically. Multi-byte fields therefore land in
platform-native byte order; the layouts in this module are defined for
little-endian targets.

A value is plain-old-data here when it contains no Go pointers, slices,
maps, channels or interfaces. Nothing enforces this; storing a pointer-
bearing type corrupts it silently.

## Shifted regions

`ShiftedStore` re-bases another `Access` by a constant offset. It models an
embedded memory-mapped region whose first usable byte is not address zero.
Because the shift is constant, the allocator and all containers may share
one shifted instance safely.

*/
