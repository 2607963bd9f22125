package arena

/*

# Region allocator for SArA

This package partitions an externally supplied byte range into fixed-size
arenas and hands out forward-only bump allocations from them. It is the
single owner of the managed range; the containers in this module hold only
byte offsets into it and allocate exclusively through this package.

## Arenas

Each arena is `Size` (65535) bytes and carries two 16-bit side fields held
inside the managed range itself:

- `head`: offset of the next unused byte, zero when the arena is empty
- `refCount`: outstanding references into the arena

References are arena-granular, never per-pointer. When an arena's count
drops to zero the whole arena is reclaimed by resetting its head; there is
no partial reclamation, no compaction and no defragmentation.

## Layout

The first `4 * arenaCount` bytes of `[startBase, limit)` hold the two
parallel side tables:

	+------------------------+ startBase
	| heads   (u16 * count)  |
	+------------------------+ startBase + 2*count
	| refs    (u16 * count)  |
	+------------------------+ startBase + 4*count
	| arena 0 ...            |
	+------------------------+

Pointers are absolute byte offsets (signed 64-bit); a negative pointer is
the "absent" sentinel throughout the module.

## What is not protected

Double free and use-after-free are diagnosed where cheap (a Deref of an
arena with no references fails) but not prevented. The allocator is not
safe for concurrent use.

*/
