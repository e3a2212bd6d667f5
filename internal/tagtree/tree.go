// Package tagtree implements the tag hierarchy: a directed acyclic graph of
// tag → subtag edges.
//
// Invariants held by every Tree:
//   - the graph has no directed cycle;
//   - every tag that appears as a child is also a key, so parent queries
//     can always be answered;
//   - the edge map is the only record of the hierarchy.
//
// Callers only ever receive copies (tag.Set values and copied edge maps),
// never the internal maps. A Tree is not safe for concurrent use; the
// model layer serializes access.
package tagtree

import (
	"errors"
	"fmt"

	"github.com/HendryAvila/Tagbook/internal/tag"
)

// ErrCyclicDependency is matched by errors.Is for every CyclicDependencyError.
var ErrCyclicDependency = errors.New("cyclic tag dependency")

// CyclicDependencyError reports an edit that would make Parent reachable
// from Child.
type CyclicDependencyError struct {
	Parent tag.Tag
	Child  tag.Tag
}

func (e *CyclicDependencyError) Error() string {
	if e.Parent == e.Child {
		return fmt.Sprintf("tag %q cannot be a sub-tag of itself", e.Parent)
	}
	return fmt.Sprintf("adding %q as a sub-tag of %q would create a cycle: %q is already a sub-tag of %q",
		e.Child, e.Parent, e.Parent, e.Child)
}

// Is makes errors.Is(err, ErrCyclicDependency) true.
func (e *CyclicDependencyError) Is(target error) bool {
	return target == ErrCyclicDependency
}

// Tree is the tag hierarchy. The zero value is not usable; call New.
type Tree struct {
	edges map[tag.Tag]map[tag.Tag]struct{}
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{edges: make(map[tag.Tag]map[tag.Tag]struct{})}
}

// FromEdges builds a tree from a parent → children mapping. Children are
// registered as keys. A cycle anywhere in the input fails with a
// CyclicDependencyError naming the first offending edge.
func FromEdges(edges map[tag.Tag][]tag.Tag) (*Tree, error) {
	t := New()
	for parent, children := range edges {
		t.AddTag(parent)
		for _, child := range children {
			t.AddTag(child)
			t.edges[parent][child] = struct{}{}
		}
	}
	if parent, child, ok := t.findCycleEdge(); ok {
		return nil, &CyclicDependencyError{Parent: parent, Child: child}
	}
	return t, nil
}

// ─── Queries ─────────────────────────────────────────────────────────────────

// Contains reports whether t is a key of the tree.
func (t *Tree) Contains(tg tag.Tag) bool {
	_, ok := t.edges[tg]
	return ok
}

// Len returns the number of tags in the tree.
func (t *Tree) Len() int { return len(t.edges) }

// Tags returns every tag in the tree.
func (t *Tree) Tags() tag.Set {
	all := make([]tag.Tag, 0, len(t.edges))
	for k := range t.edges {
		all = append(all, k)
	}
	return tag.NewSet(all...)
}

// Edges returns a copy of the parent → children mapping, including tags
// that have no children.
func (t *Tree) Edges() map[tag.Tag]tag.Set {
	out := make(map[tag.Tag]tag.Set, len(t.edges))
	for parent := range t.edges {
		out[parent] = t.SubTagsOf(parent)
	}
	return out
}

// SubTagsOf returns the direct children of tg, or the empty set if tg is
// not in the tree.
func (t *Tree) SubTagsOf(tg tag.Tag) tag.Set {
	children := t.edges[tg]
	out := make([]tag.Tag, 0, len(children))
	for c := range children {
		out = append(out, c)
	}
	return tag.NewSet(out...)
}

// SubTagsRecursive returns every tag reachable from tg, excluding tg.
func (t *Tree) SubTagsRecursive(tg tag.Tag) tag.Set {
	visited := t.reachable(tg)
	delete(visited, tg)
	out := make([]tag.Tag, 0, len(visited))
	for v := range visited {
		out = append(out, v)
	}
	return tag.NewSet(out...)
}

// IsSubTagOf reports whether candidate is reachable from ancestor through
// zero or more edges. A tag is always a sub-tag of itself.
func (t *Tree) IsSubTagOf(candidate, ancestor tag.Tag) bool {
	if candidate == ancestor {
		return true
	}
	_, ok := t.reachable(ancestor)[candidate]
	return ok
}

// HasDirectSuperTag reports whether parent has tg as a direct child.
func (t *Tree) HasDirectSuperTag(tg, parent tag.Tag) bool {
	_, ok := t.edges[parent][tg]
	return ok
}

// SuperTagsOf returns the direct parents of tg.
func (t *Tree) SuperTagsOf(tg tag.Tag) tag.Set {
	var out []tag.Tag
	for parent, children := range t.edges {
		if _, ok := children[tg]; ok {
			out = append(out, parent)
		}
	}
	return tag.NewSet(out...)
}

// SuperTagsRecursive returns every tag from which tg is reachable,
// excluding tg.
func (t *Tree) SuperTagsRecursive(tg tag.Tag) tag.Set {
	var out []tag.Tag
	for k := range t.edges {
		if k != tg && t.IsSubTagOf(tg, k) {
			out = append(out, k)
		}
	}
	return tag.NewSet(out...)
}

// Roots returns the tags that have no parent.
func (t *Tree) Roots() tag.Set {
	hasParent := make(map[tag.Tag]bool, len(t.edges))
	for _, children := range t.edges {
		for c := range children {
			hasParent[c] = true
		}
	}
	var out []tag.Tag
	for k := range t.edges {
		if !hasParent[k] {
			out = append(out, k)
		}
	}
	return tag.NewSet(out...)
}

// Equal reports whether both trees hold the same edge map.
func (t *Tree) Equal(other *Tree) bool {
	if len(t.edges) != len(other.edges) {
		return false
	}
	for parent, children := range t.edges {
		otherChildren, ok := other.edges[parent]
		if !ok || len(children) != len(otherChildren) {
			return false
		}
		for c := range children {
			if _, ok := otherChildren[c]; !ok {
				return false
			}
		}
	}
	return true
}

// ─── Mutations ───────────────────────────────────────────────────────────────

// AddTag registers tg as a key with no edges. It is a no-op if tg is
// already present.
func (t *Tree) AddTag(tg tag.Tag) {
	if _, ok := t.edges[tg]; !ok {
		t.edges[tg] = make(map[tag.Tag]struct{})
	}
}

// AddSubTagTo inserts the edge parent → child. It fails with a
// CyclicDependencyError if child already reaches parent, including when
// parent == child, and leaves the tree unchanged. Adding an existing edge
// is a no-op.
func (t *Tree) AddSubTagTo(parent, child tag.Tag) error {
	if t.IsSubTagOf(parent, child) {
		return &CyclicDependencyError{Parent: parent, Child: child}
	}
	t.AddTag(parent)
	t.AddTag(child)
	t.edges[parent][child] = struct{}{}
	return nil
}

// EditSubTagsOf applies removals, then additions, to parent's children.
// Additions are checked against the graph after removals. If any addition
// would create a cycle the tree is left exactly as it was.
func (t *Tree) EditSubTagsOf(parent tag.Tag, toAdd, toRemove tag.Set) error {
	work := t.Clone()
	for _, child := range toRemove.Sorted() {
		work.RemoveSubTagFrom(parent, child)
	}
	for _, child := range toAdd.Sorted() {
		if err := work.AddSubTagTo(parent, child); err != nil {
			return err
		}
	}
	t.edges = work.edges
	return nil
}

// RemoveSubTagFrom deletes the edge parent → child if present. Both tags
// stay in the tree.
func (t *Tree) RemoveSubTagFrom(parent, child tag.Tag) {
	if children, ok := t.edges[parent]; ok {
		delete(children, child)
	}
}

// DeleteTag removes tg and splices it out: each direct parent of tg gains
// tg's direct children. It is a no-op if tg is not in the tree. The splice
// is committed only if every new edge passes the cycle check, which always
// holds for an acyclic tree.
func (t *Tree) DeleteTag(tg tag.Tag) error {
	if !t.Contains(tg) {
		return nil
	}
	parents := t.SuperTagsOf(tg).Sorted()
	children := t.SubTagsOf(tg).Sorted()

	work := t.Clone()
	for _, p := range parents {
		delete(work.edges[p], tg)
	}
	delete(work.edges, tg)
	for _, p := range parents {
		for _, c := range children {
			if err := work.AddSubTagTo(p, c); err != nil {
				return fmt.Errorf("tagtree: splice %q: %w", tg, err)
			}
		}
	}
	t.edges = work.edges
	return nil
}

// Copy replaces the contents of t with a deep copy of source.
func (t *Tree) Copy(source *Tree) {
	t.edges = source.cloneEdges()
}

// Clone returns a deep copy of t.
func (t *Tree) Clone() *Tree {
	return &Tree{edges: t.cloneEdges()}
}

// ─── Internal ────────────────────────────────────────────────────────────────

func (t *Tree) cloneEdges() map[tag.Tag]map[tag.Tag]struct{} {
	out := make(map[tag.Tag]map[tag.Tag]struct{}, len(t.edges))
	for parent, children := range t.edges {
		cp := make(map[tag.Tag]struct{}, len(children))
		for c := range children {
			cp[c] = struct{}{}
		}
		out[parent] = cp
	}
	return out
}

// reachable returns the set of tags reachable from start, start included.
// Iterative DFS; the visited set bounds the work to O(V+E) on any graph.
func (t *Tree) reachable(start tag.Tag) map[tag.Tag]struct{} {
	visited := map[tag.Tag]struct{}{start: {}}
	stack := []tag.Tag{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for c := range t.edges[cur] {
			if _, seen := visited[c]; seen {
				continue
			}
			visited[c] = struct{}{}
			stack = append(stack, c)
		}
	}
	return visited
}

// findCycleEdge looks for a back edge with a three-colour DFS. Tags are
// walked in sorted order so the reported edge is deterministic.
func (t *Tree) findCycleEdge() (parent, child tag.Tag, found bool) {
	const (
		white = iota
		grey
		black
	)
	colour := make(map[tag.Tag]int, len(t.edges))

	var visit func(n tag.Tag) bool
	visit = func(n tag.Tag) bool {
		colour[n] = grey
		for _, c := range t.SubTagsOf(n).Sorted() {
			switch colour[c] {
			case grey:
				parent, child = n, c
				return true
			case white:
				if visit(c) {
					return true
				}
			}
		}
		colour[n] = black
		return false
	}

	for _, n := range t.Tags().Sorted() {
		if colour[n] == white && visit(n) {
			return parent, child, true
		}
	}
	return tag.Tag{}, tag.Tag{}, false
}
