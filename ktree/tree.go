package ktree

import (
	"errors"
	"fmt"

	"github.com/i-e-b/SArA/arena"
	"github.com/i-e-b/SArA/memory"
)

const (
	offParent      = 0
	offFirstChild  = 8
	offNextSibling = 16
	// headerBytes precedes the body in every node.
	headerBytes = 24
)

var (
	ErrInvalid     = errors.New("ktree: tree is not valid for use")
	ErrNilNode     = errors.New("ktree: negative node pointer")
	ErrNoChild     = errors.New("ktree: node has no children")
	ErrNoSibling   = errors.New("ktree: node has no next sibling")
	ErrNoParent    = errors.New("ktree: node has no parent")
	ErrIndexRange  = errors.New("ktree: child index beyond the sibling chain")
	ErrNodeTooWide = errors.New("ktree: node type too wide for a single arena")
)

// Tree is a first-child / next-sibling tree of T nodes in
// allocator-managed memory. T must be plain-old-data.
type Tree[T any] struct {
	mem   memory.Access
	alloc *arena.Allocator

	nodeSize int64
	root     int64
	valid    bool
}

// New constructs a tree and allocates its root node. The root body is
// zeroed; use WriteBody to set it.
func New[T any](mem memory.Access, alloc *arena.Allocator) (*Tree[T], error) {
	t := &Tree[T]{
		mem:      mem,
		alloc:    alloc,
		nodeSize: headerBytes + memory.SizeOf[T](),
		root:     -1,
	}
	if t.nodeSize > arena.Size {
		return t, fmt.Errorf("%w: %d bytes", ErrNodeTooWide, t.nodeSize)
	}
	var zero T
	root, err := t.newNode(-1, zero)
	if err != nil {
		return t, err
	}
	t.root = root
	t.valid = true
	return t, nil
}

// Root returns the root node pointer.
func (t *Tree[T]) Root() int64 { return t.root }

// Valid reports whether the tree is usable.
func (t *Tree[T]) Valid() bool { return t.valid }

// AddChild appends value as the last child of parent and returns the new
// node.
func (t *Tree[T]) AddChild(parent int64, value T) (int64, error) {
	if !t.valid {
		return -1, ErrInvalid
	}
	if parent < 0 {
		return -1, ErrNilNode
	}
	first := t.link(parent, offFirstChild)
	if first >= 0 {
		return t.AddSibling(first, value)
	}
	node, err := t.newNode(parent, value)
	if err != nil {
		return -1, err
	}
	t.setLink(parent, offFirstChild, node)
	return node, nil
}

// AddSibling appends value at the tail of node's sibling chain and
// returns the new node.
func (t *Tree[T]) AddSibling(node int64, value T) (int64, error) {
	if !t.valid {
		return -1, ErrInvalid
	}
	if node < 0 {
		return -1, ErrNilNode
	}
	tail := node
	for {
		next := t.link(tail, offNextSibling)
		if next < 0 {
			break
		}
		tail = next
	}
	fresh, err := t.newNode(t.link(node, offParent), value)
	if err != nil {
		return -1, err
	}
	t.setLink(tail, offNextSibling, fresh)
	return fresh, nil
}

// InsertChild places value at position index in parent's child chain,
// shifting later children along. Fails if the chain is shorter than
// index.
func (t *Tree[T]) InsertChild(parent, index int64, value T) (int64, error) {
	if !t.valid {
		return -1, ErrInvalid
	}
	if parent < 0 {
		return -1, ErrNilNode
	}
	first := t.link(parent, offFirstChild)
	if first < 0 {
		if index != 0 {
			return -1, fmt.Errorf("%w: %d into empty chain", ErrIndexRange, index)
		}
		return t.AddChild(parent, value)
	}
	if index == 0 {
		node, err := t.newNode(parent, value)
		if err != nil {
			return -1, err
		}
		t.setLink(node, offNextSibling, first)
		t.setLink(parent, offFirstChild, node)
		return node, nil
	}
	prev := first
	for i := int64(1); i < index; i++ {
		prev = t.link(prev, offNextSibling)
		if prev < 0 {
			return -1, fmt.Errorf("%w: %d", ErrIndexRange, index)
		}
	}
	node, err := t.newNode(parent, value)
	if err != nil {
		return -1, err
	}
	t.setLink(node, offNextSibling, t.link(prev, offNextSibling))
	t.setLink(prev, offNextSibling, node)
	return node, nil
}

// RemoveChild unlinks the child at index under parent and releases its
// whole subtree.
func (t *Tree[T]) RemoveChild(parent, index int64) error {
	if !t.valid {
		return ErrInvalid
	}
	if parent < 0 {
		return ErrNilNode
	}
	first := t.link(parent, offFirstChild)
	if first < 0 {
		return fmt.Errorf("%w: %d of empty chain", ErrIndexRange, index)
	}
	if index == 0 {
		t.setLink(parent, offFirstChild, t.link(first, offNextSibling))
		return t.deleteNode(first)
	}
	left := first
	for i := int64(1); i < index; i++ {
		left = t.link(left, offNextSibling)
		if left < 0 {
			return fmt.Errorf("%w: %d", ErrIndexRange, index)
		}
	}
	deleted := t.link(left, offNextSibling)
	if deleted < 0 {
		return fmt.Errorf("%w: %d", ErrIndexRange, index)
	}
	t.setLink(left, offNextSibling, t.link(deleted, offNextSibling))
	return t.deleteNode(deleted)
}

// Child returns the first child of node.
func (t *Tree[T]) Child(node int64) (int64, error) {
	if !t.valid {
		return -1, ErrInvalid
	}
	if node < 0 {
		return -1, ErrNilNode
	}
	child := t.link(node, offFirstChild)
	if child < 0 {
		return -1, ErrNoChild
	}
	return child, nil
}

// Sibling returns the next sibling of node.
func (t *Tree[T]) Sibling(node int64) (int64, error) {
	if !t.valid {
		return -1, ErrInvalid
	}
	if node < 0 {
		return -1, ErrNilNode
	}
	sib := t.link(node, offNextSibling)
	if sib < 0 {
		return -1, ErrNoSibling
	}
	return sib, nil
}

// Parent returns the parent of node; the root has none.
func (t *Tree[T]) Parent(node int64) (int64, error) {
	if !t.valid {
		return -1, ErrInvalid
	}
	if node < 0 {
		return -1, ErrNilNode
	}
	p := t.link(node, offParent)
	if p < 0 {
		return -1, ErrNoParent
	}
	return p, nil
}

// ReadBody returns the payload of node.
func (t *Tree[T]) ReadBody(node int64) (T, error) {
	var zero T
	if !t.valid {
		return zero, ErrInvalid
	}
	if node < 0 {
		return zero, ErrNilNode
	}
	return memory.Read[T](t.mem, node+headerBytes), nil
}

// WriteBody replaces the payload of node.
func (t *Tree[T]) WriteBody(node int64, value T) error {
	if !t.valid {
		return ErrInvalid
	}
	if node < 0 {
		return ErrNilNode
	}
	memory.Write(t.mem, node+headerBytes, value)
	return nil
}

// Deallocate releases the whole tree from the root down. The tree is
// unusable afterwards.
func (t *Tree[T]) Deallocate() error {
	if !t.valid {
		return ErrInvalid
	}
	t.valid = false
	return t.deleteNode(t.root)
}

// deleteNode releases node and its whole subtree, children before the
// node itself.
func (t *Tree[T]) deleteNode(node int64) error {
	child := t.link(node, offFirstChild)
	for child >= 0 {
		next := t.link(child, offNextSibling)
		if err := t.deleteNode(child); err != nil {
			return err
		}
		child = next
	}
	return t.alloc.Deref(node)
}

// newNode allocates and initializes a node with no children or siblings.
func (t *Tree[T]) newNode(parent int64, value T) (int64, error) {
	node, err := t.alloc.Alloc(t.nodeSize)
	if err != nil {
		return -1, err
	}
	t.setLink(node, offParent, parent)
	t.setLink(node, offFirstChild, -1)
	t.setLink(node, offNextSibling, -1)
	memory.Write(t.mem, node+headerBytes, value)
	return node, nil
}

func (t *Tree[T]) link(node, field int64) int64 {
	return memory.Read[int64](t.mem, node+field)
}

func (t *Tree[T]) setLink(node, field, target int64) {
	memory.Write(t.mem, node+field, target)
}
