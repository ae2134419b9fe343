package arena

import (
	"fmt"
	"iter"
)

// NoNode is the index stored in links that point nowhere.
const NoNode = -1

// Node is a Tree node. Links are node indices or NoNode.
type Node[T any] struct {
	Value       T
	Parent      int
	FirstChild  int
	NextSibling int
}

// Tree is an append-only multiway tree whose nodes live in a Vec.
//
// Index 0 is the root. Nodes are numbered in creation order, so a node's
// parent always has a smaller index than the node itself. A node's children
// form a list through FirstChild and NextSibling, newest child first.
type Tree[T any] struct {
	nodes Vec[Node[T]]
}

// NewTree returns a tree holding root, with room for capacity nodes.
// A capacity of zero yields an empty tree without a root.
func NewTree[T any](a *Arena, capacity int, root T) Tree[T] {
	nodes := NewVec[Node[T]](a, capacity)
	if capacity != 0 {
		nodes.Push(Node[T]{Value: root, Parent: NoNode, FirstChild: NoNode, NextSibling: NoNode})
	}
	return Tree[T]{nodes: nodes}
}

// AddChild appends value as the newest child of parent and returns its index.
func (t *Tree[T]) AddChild(parent int, value T) int {
	idx := t.nodes.Len()
	if parent < 0 || parent >= idx {
		panic(fmt.Sprintf("arena: parent index %d out of range [0, %d)", parent, idx))
	}
	t.nodes.Push(Node[T]{
		Value:       value,
		Parent:      parent,
		FirstChild:  NoNode,
		NextSibling: t.nodes.At(parent).FirstChild,
	})
	t.nodes.Ptr(parent).FirstChild = idx
	return idx
}

// Pop removes the most recently added node and unlinks it from its parent.
// It returns false, and does nothing, when the tree is empty or holds only
// the root.
func (t *Tree[T]) Pop() bool {
	last, ok := t.nodes.Last()
	if !ok || last.Parent == NoNode {
		return false
	}
	idx := t.nodes.Len() - 1

	parent := t.nodes.Ptr(last.Parent)
	if parent.FirstChild == idx {
		parent.FirstChild = last.NextSibling
	} else {
		for cur := parent.FirstChild; cur != NoNode; {
			n := t.nodes.Ptr(cur)
			if n.NextSibling == idx {
				n.NextSibling = last.NextSibling
				break
			}
			cur = n.NextSibling
		}
	}
	t.nodes.Pop()
	return true
}

// ShrinkToFit gives unused node capacity back to the arena when possible.
func (t *Tree[T]) ShrinkToFit() { t.nodes.ShrinkToFit() }

// Root returns the root value. Panics on an empty tree.
func (t *Tree[T]) Root() T { return t.nodes.At(0).Value }

// Get returns the value of node idx.
func (t *Tree[T]) Get(idx int) T { return t.nodes.At(idx).Value }

// Ptr returns a pointer to the value of node idx. The pointer is invalidated
// by the next AddChild that grows the tree.
func (t *Tree[T]) Ptr(idx int) *T { return &t.nodes.Ptr(idx).Value }

// Node returns a copy of node idx, links included.
func (t *Tree[T]) Node(idx int) Node[T] { return t.nodes.At(idx) }

// Parent returns the parent index of node idx. ok is false for the root.
func (t *Tree[T]) Parent(idx int) (parent int, ok bool) {
	p := t.nodes.At(idx).Parent
	return p, p != NoNode
}

// HasChildren reports whether node idx has at least one child.
func (t *Tree[T]) HasChildren(idx int) bool {
	return t.nodes.At(idx).FirstChild != NoNode
}

// Children iterates over the indices of idx's children, newest first. The
// sequence reads the links lazily and may be ranged over again; the tree must
// not be modified while it runs.
func (t *Tree[T]) Children(idx int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for cur := t.nodes.At(idx).FirstChild; cur != NoNode; cur = t.nodes.At(cur).NextSibling {
			if !yield(cur) {
				return
			}
		}
	}
}

// Walk visits every node depth-first, parents before children and children
// in Children order, passing each node's index and depth below the root.
// Returning false from fn stops the walk.
func (t *Tree[T]) Walk(fn func(idx, depth int) bool) {
	if t.nodes.IsEmpty() {
		return
	}
	t.walk(0, 0, fn)
}

func (t *Tree[T]) walk(idx, depth int, fn func(idx, depth int) bool) bool {
	if !fn(idx, depth) {
		return false
	}
	for child := range t.Children(idx) {
		if !t.walk(child, depth+1, fn) {
			return false
		}
	}
	return true
}

// Len returns the number of nodes, root included.
func (t *Tree[T]) Len() int { return t.nodes.Len() }

// IsEmpty reports whether the tree has no nodes at all.
func (t *Tree[T]) IsEmpty() bool { return t.nodes.IsEmpty() }
