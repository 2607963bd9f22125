package vector

/*

# Chunked, skip-indexed vector for SArA

`Vector[T]` is a dynamic array of plain-old-data elements stored entirely
in allocator-managed memory. The struct itself holds only byte offsets and
counters; every element lives in the managed range.

## Layout

The element store is a forward-linked chain of chunks. Each chunk is one
allocator allocation:

	+------------------+
	| next chunk (i64) |  -1 marks the tail
	+------------------+
	| element 0        |
	| element 1        |
	| ...              |
	+------------------+

Element i lives in chunk i/elemsPerChunk at slot i%elemsPerChunk. Each
chunk lies inside a single arena, usually alongside other allocations.
Releasing a chunk drops one reference on its arena; the arena's capacity
returns to the allocator only when its last reference goes.

## Skip table

Random access is accelerated by a sparse index: up to SkipTableSizeLimit
`(chunkIndex u32, chunkPtr i64)` pairs sampling the chain at a uniform
stride. The table is rebuilt lazily; chain walks that run long mark it
dirty, and the next lookup rebuilds it. A rebuild walks the chain through
findNearestChunk itself, so a `rebuilding` guard stops the recursion at
one level — nested lookups use the stale table, which is still walkable.

A failed rebuild (allocation failure) keeps the previous table.

## Prealloc exposes uninitialized slots

Prealloc extends the chain and the logical length without writing the new
slots. Their content is whatever the allocator handed back. Callers that
Prealloc must Set before they Get; the hash map relies on this to avoid
paying a zero-fill for bucket arrays it immediately overwrites.

*/
