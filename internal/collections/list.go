// Package collections implements the in-memory data structures backing the
// archive's indexes: a singly-linked list, a self-balancing AVL tree map, and
// a chained hash map. All three are generic; ordering, hashing, and equality
// are injected at construction so the structures never assume anything about
// their element types.
package collections

import (
	"fmt"

	"github.com/rcastillo-dev/paper-archive-platform/pkg/errors"
)

// Node is a single cell in a List. External code traverses a list by
// starting at List.Head and following Next.
type Node[T any] struct {
	data T
	next *Node[T]
}

// Data returns the element stored in this node.
func (n *Node[T]) Data() T {
	return n.data
}

// Next returns the following node, or nil at the end of the list.
func (n *Node[T]) Next() *Node[T] {
	return n.next
}

// List is a singly-linked list with O(1) append and prepend. The tail
// pointer references the last node but does not own it.
type List[T any] struct {
	head  *Node[T]
	tail  *Node[T]
	size  int
	equal func(a, b T) bool
}

// NewList creates an empty List using equal to match elements in Contains
// and Remove.
func NewList[T any](equal func(a, b T) bool) *List[T] {
	return &List[T]{equal: equal}
}

// Equal returns an equality function for comparable element types,
// convenient as the NewList argument.
func Equal[T comparable]() func(a, b T) bool {
	return func(a, b T) bool { return a == b }
}

// IsEmpty reports whether the list has no elements.
func (l *List[T]) IsEmpty() bool {
	return l.head == nil
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	return l.size
}

// Head returns the first node, or nil for an empty list. Iteration walks
// Head and Node.Next; the traversal is forward-only and restartable.
func (l *List[T]) Head() *Node[T] {
	return l.head
}

// Add appends x at the end of the list in O(1) via the tail pointer.
func (l *List[T]) Add(x T) {
	node := &Node[T]{data: x}
	if l.tail == nil {
		l.head = node
	} else {
		l.tail.next = node
	}
	l.tail = node
	l.size++
}

// AddFirst prepends x at the head of the list in O(1).
func (l *List[T]) AddFirst(x T) {
	node := &Node[T]{data: x, next: l.head}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.size++
}

// Remove unlinks the first node equal to x. It returns ErrNotFound when the
// list is empty or no element matches. Removing the head re-points head;
// removing the tail re-points tail to the predecessor, or clears both when
// the list becomes empty.
func (l *List[T]) Remove(x T) error {
	if l.head == nil {
		return fmt.Errorf("%w: remove from empty list", errors.ErrNotFound)
	}

	if l.equal(l.head.data, x) {
		l.head = l.head.next
		if l.head == nil {
			l.tail = nil
		}
		l.size--
		return nil
	}

	prev := l.head
	for current := l.head.next; current != nil; current = current.next {
		if l.equal(current.data, x) {
			prev.next = current.next
			if current == l.tail {
				l.tail = prev
			}
			l.size--
			return nil
		}
		prev = current
	}
	return fmt.Errorf("%w: element not in list", errors.ErrNotFound)
}

// Contains reports whether any element equals x.
func (l *List[T]) Contains(x T) bool {
	for current := l.head; current != nil; current = current.next {
		if l.equal(current.data, x) {
			return true
		}
	}
	return false
}

// Clear drops every element in O(1).
func (l *List[T]) Clear() {
	l.head = nil
	l.tail = nil
	l.size = 0
}
