package ktree

/*

# First-child / next-sibling tree for SArA

`Tree[T]` stores a k-way tree of fixed-size nodes in allocator-managed
memory. Arbitrary fan-out is encoded with two links per node: a node
points at its first child, and children form a sibling chain.

## Node layout

	+-------------------+
	| parent      (i64) |
	| firstChild  (i64) |
	| nextSibling (i64) |
	| body        (T)   |
	+-------------------+

-1 in a pointer field means "none". The root is allocated at construction
with no parent.

## Reclamation

Removing a child releases its entire subtree: the sibling chain under the
removed node is walked, each node's own children are released first, and
every visited node is dereffed. Allocator granularity applies — bytes come
back when the owning arenas' reference counts reach zero, not per node.

*/
