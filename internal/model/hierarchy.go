package model

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/HendryAvila/Tagbook/internal/contact"
	"github.com/HendryAvila/Tagbook/internal/tag"
	"github.com/HendryAvila/Tagbook/internal/tagtree"
)

// TagSummary describes one known tag.
type TagSummary struct {
	Tag     tag.Tag `json:"tag"`
	SubTags tag.Set `json:"sub_tags"`
	// Direct counts contacts carrying the tag itself.
	Direct int `json:"direct"`
	// Total counts distinct contacts under the tag or any sub-tag.
	Total int `json:"total"`
}

// ─── Hierarchy edits ─────────────────────────────────────────────────────────

// AddSubTag makes child a direct sub-tag of parent.
func (m *Model) AddSubTag(parent, child tag.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.mutateTree("add sub-tag", func(tr *tagtree.Tree) error {
		return tr.AddSubTagTo(parent, child)
	}, zap.Stringer("parent", parent), zap.Stringer("child", child))
}

// EditSubTags removes then adds direct sub-tags of parent in one step.
func (m *Model) EditSubTags(parent tag.Tag, toAdd, toRemove tag.Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.mutateTree("edit sub-tags", func(tr *tagtree.Tree) error {
		return tr.EditSubTagsOf(parent, toAdd, toRemove)
	}, zap.Stringer("parent", parent), zap.Stringer("add", toAdd), zap.Stringer("remove", toRemove))
}

// RemoveSubTag deletes the edge parent → child if present.
func (m *Model) RemoveSubTag(parent, child tag.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.mutateTree("remove sub-tag", func(tr *tagtree.Tree) error {
		tr.RemoveSubTagFrom(parent, child)
		return nil
	}, zap.Stringer("parent", parent), zap.Stringer("child", child))
}

// DeleteTag splices t out of the hierarchy and strips it from every
// contact. It returns the number of contacts that lost the tag.
//
// The splice is held in memory until the contacts are stripped. If the
// strip fails the tree is restored and nothing is saved.
func (m *Model) DeleteTag(t tag.Tag) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	before := m.tree.Clone()
	if err := m.tree.DeleteTag(t); err != nil {
		return 0, err
	}
	affected, err := m.contacts.RemoveTagEverywhere(t)
	if err != nil {
		m.tree.Copy(before)
		m.log.Error("delete tag: strip failed, splice rolled back", zap.Stringer("tag", t), zap.Error(err))
		return 0, fmt.Errorf("model: strip tag %q from contacts: %w", t, err)
	}
	for _, old := range affected {
		m.index.UpdateContactTags(old, old.WithTags(old.Tags.Without(t)))
	}

	// The contacts are already committed, so a failed save keeps the
	// spliced tree in memory; the next save writes it.
	if m.autoSave {
		if err := m.trees.Save(m.tree); err != nil {
			m.log.Error("delete tag: save failed", zap.Stringer("tag", t), zap.Error(err))
			return len(affected), fmt.Errorf("model: save tag tree: %w", err)
		}
	}
	m.log.Debug("delete tag", zap.Stringer("tag", t), zap.Int("contacts", len(affected)))
	return len(affected), nil
}

// ─── Hierarchy queries ───────────────────────────────────────────────────────

// SubTags returns the direct sub-tags of t, or all descendants when
// recursive is set.
func (m *Model) SubTags(t tag.Tag, recursive bool) tag.Set {
	m.mu.Lock()
	defer m.mu.Unlock()

	if recursive {
		return m.tree.SubTagsRecursive(t)
	}
	return m.tree.SubTagsOf(t)
}

// SuperTags returns the direct parents of t, or all ancestors when
// recursive is set.
func (m *Model) SuperTags(t tag.Tag, recursive bool) tag.Set {
	m.mu.Lock()
	defer m.mu.Unlock()

	if recursive {
		return m.tree.SuperTagsRecursive(t)
	}
	return m.tree.SuperTagsOf(t)
}

// Tree returns a snapshot of the hierarchy.
func (m *Model) Tree() *tagtree.Tree {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tree.Clone()
}

// KnownTags returns every tag in the hierarchy or assigned to a contact.
func (m *Model) KnownTags() tag.Set {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tree.Tags().Union(m.index.Tags())
}

// ContactsUnderTag returns the contacts carrying t, plus those carrying
// any descendant of t when recursive is set. Each contact appears once.
func (m *Model) ContactsUnderTag(t tag.Tag, recursive bool) []contact.Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.contactsUnder(t, recursive)
}

// Tags summarizes every known tag, sorted by name.
func (m *Model) Tags() []TagSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	known := m.tree.Tags().Union(m.index.Tags())
	out := make([]TagSummary, 0, known.Len())
	for _, t := range known.Sorted() {
		out = append(out, TagSummary{
			Tag:     t,
			SubTags: m.tree.SubTagsOf(t),
			Direct:  m.index.CountUnderTag(t),
			Total:   len(m.contactsUnder(t, true)),
		})
	}
	return out
}

// ─── Persistence ─────────────────────────────────────────────────────────────

// Save writes the tag tree to its store.
func (m *Model) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.trees.Save(m.tree); err != nil {
		return fmt.Errorf("model: save tag tree: %w", err)
	}
	return nil
}

// ─── Internal ────────────────────────────────────────────────────────────────

func (m *Model) contactsUnder(t tag.Tag, recursive bool) []contact.Contact {
	tags := tag.NewSet(t)
	if recursive {
		tags = tags.Union(m.tree.SubTagsRecursive(t))
	}

	seen := make(map[contact.ID]bool)
	out := []contact.Contact{}
	for _, each := range tags.Sorted() {
		for _, c := range m.index.ContactsUnderTag(each) {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			out = append(out, c)
		}
	}
	contact.Sort(out)
	return out
}

// mutateTree runs fn on the live tree and, with autosave on, persists the
// result. A failed save restores the tree to its state before fn.
func (m *Model) mutateTree(op string, fn func(*tagtree.Tree) error, fields ...zap.Field) error {
	before := m.tree.Clone()

	if err := fn(m.tree); err != nil {
		if errors.Is(err, tagtree.ErrCyclicDependency) {
			m.log.Info(op+" rejected", append(fields, zap.Error(err))...)
		}
		return err
	}

	if m.autoSave {
		if err := m.trees.Save(m.tree); err != nil {
			m.tree.Copy(before)
			m.log.Error(op+": save failed, edit rolled back", append(fields, zap.Error(err))...)
			return fmt.Errorf("model: save tag tree: %w", err)
		}
	}

	m.log.Debug(op, fields...)
	return nil
}
