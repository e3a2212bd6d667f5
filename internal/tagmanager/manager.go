// Package tagmanager maintains the membership index: for every tag, the
// contacts that carry it directly.
//
// The index stores no hierarchy. "Everyone under computing, sub-tags
// included" is answered by the model, which combines the tag tree's
// recursive closure with ContactsUnderTag.
//
// The index cannot notice contact mutations on its own; whoever writes to
// the contact store must call AddContactTags, UpdateContactTags or
// DeleteContactTags for each change.
package tagmanager

import (
	"github.com/HendryAvila/Tagbook/internal/contact"
	"github.com/HendryAvila/Tagbook/internal/tag"
)

// Manager is the tag → contacts index. The zero value is not usable; call
// New.
type Manager struct {
	members map[tag.Tag]map[contact.ID]contact.Contact
}

// New returns an empty index.
func New() *Manager {
	return &Manager{members: make(map[tag.Tag]map[contact.ID]contact.Contact)}
}

// Rebuild discards the index and rebuilds it from contacts.
func (m *Manager) Rebuild(contacts []contact.Contact) {
	m.members = make(map[tag.Tag]map[contact.ID]contact.Contact)
	for _, c := range contacts {
		m.AddContactTags(c)
	}
}

// AddContactTags files c under each of its tags.
func (m *Manager) AddContactTags(c contact.Contact) {
	for _, t := range c.Tags.Sorted() {
		set, ok := m.members[t]
		if !ok {
			set = make(map[contact.ID]contact.Contact)
			m.members[t] = set
		}
		set[c.ID] = c
	}
}

// DeleteContactTags removes c from every membership set it is in,
// whatever tags the passed value carries. Emptied sets are dropped.
func (m *Manager) DeleteContactTags(c contact.Contact) {
	for t, set := range m.members {
		if _, ok := set[c.ID]; !ok {
			continue
		}
		delete(set, c.ID)
		if len(set) == 0 {
			delete(m.members, t)
		}
	}
}

// UpdateContactTags replaces old's memberships with updated's.
func (m *Manager) UpdateContactTags(old, updated contact.Contact) {
	m.DeleteContactTags(old)
	m.AddContactTags(updated)
}

// ContactsUnderTag returns the direct members of t sorted by name, then
// ID. The slice is fresh on every call.
func (m *Manager) ContactsUnderTag(t tag.Tag) []contact.Contact {
	set := m.members[t]
	out := make([]contact.Contact, 0, len(set))
	for _, c := range set {
		out = append(out, c)
	}
	contact.Sort(out)
	return out
}

// CountUnderTag returns the number of direct members of t.
func (m *Manager) CountUnderTag(t tag.Tag) int {
	return len(m.members[t])
}

// Tags returns every tag with at least one member.
func (m *Manager) Tags() tag.Set {
	out := make([]tag.Tag, 0, len(m.members))
	for t := range m.members {
		out = append(out, t)
	}
	return tag.NewSet(out...)
}

// Len returns the number of tags with members.
func (m *Manager) Len() int { return len(m.members) }
