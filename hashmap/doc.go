package hashmap

/*

# Robin-Hood hash map for SArA

`TaggedMap` maps 64-bit keys to 64-bit values with open addressing over a
bucket array held in a `vector.Vector[Entry]`. Like every container in this
module, it owns no host memory; all storage is allocator-managed.

## Robin-Hood probing

An entry's probe distance is how far it sits from its ideal slot
(`hash & countMod`). During insertion, an in-flight entry that has probed
further than the occupant of the current slot displaces that occupant and
the displaced entry continues probing. This keeps probe-length variance
low and lets lookups stop early: once the iteration count exceeds the
occupant's probe distance, no later slot can hold the key.

## Sentinel hash

Hash value 0 marks an empty bucket. The hashing strategy must never
return 0; the map substitutes `SafeHash` for any zero so user keys that
hash to zero remain representable.

## Sizing

The bucket count is always a power of two between MinBuckets and
MaxBuckets (or exactly 0 after Clear). Growth is deliberately aggressive
below 8192 buckets — the next size is the square of the current one —
because a resize costs a full rehash and early growth makes rehashes rare
while the map is cheap to rebuild.

Bucket arrays are preallocated through the vector without zero-fill and
then cleared slot by slot; the vector's Prealloc contract makes the
uninitialized slots the map's problem, and the map deals with it exactly
once per resize.

*/
