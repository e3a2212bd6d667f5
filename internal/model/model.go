// Package model owns the tag hierarchy and the membership index and keeps
// them consistent with the contact store.
//
// The model is the only writer of its tree and index. Every contact
// mutation goes through it so the index hooks are never skipped, and every
// read hands out copies. Public methods are serialized behind one mutex
// because the MCP server may dispatch tool calls concurrently.
package model

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/HendryAvila/Tagbook/internal/addressbook"
	"github.com/HendryAvila/Tagbook/internal/contact"
	"github.com/HendryAvila/Tagbook/internal/storage"
	"github.com/HendryAvila/Tagbook/internal/tag"
	"github.com/HendryAvila/Tagbook/internal/tagmanager"
	"github.com/HendryAvila/Tagbook/internal/tagtree"
)

// ErrContactNotFound is returned when an ID matches no contact.
var ErrContactNotFound = errors.New("contact not found")

// ContactStore is the durable contact collection. Get, Update and Delete
// report unknown IDs with addressbook.ErrNotFound.
type ContactStore interface {
	Add(c contact.Contact) error
	Update(c contact.Contact) error
	Delete(id contact.ID) error
	Get(id contact.ID) (contact.Contact, error)
	List() ([]contact.Contact, error)
	RemoveTagEverywhere(t tag.Tag) ([]contact.Contact, error)
}

// TreeStore loads and saves the tag hierarchy.
type TreeStore interface {
	Load() (*tagtree.Tree, error)
	Save(tree *tagtree.Tree) error
}

// Deps are the collaborators injected into New.
type Deps struct {
	Contacts ContactStore
	Trees    TreeStore
	Logger   *zap.Logger

	// AutoSave persists the tree after every successful hierarchy edit.
	AutoSave bool
	// ResetCorrupt starts from an empty tree when the stored one is
	// corrupt instead of failing.
	ResetCorrupt bool
}

// Model composes the tag tree, the tag manager and the contact store.
type Model struct {
	mu       sync.Mutex
	tree     *tagtree.Tree
	index    *tagmanager.Manager
	contacts ContactStore
	trees    TreeStore
	log      *zap.Logger
	autoSave bool
}

// New loads the tag tree and builds the membership index from every
// stored contact.
func New(d Deps) (*Model, error) {
	if d.Contacts == nil || d.Trees == nil {
		return nil, fmt.Errorf("model: contact store and tree store are required")
	}
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	m := &Model{
		tree:     tagtree.New(),
		index:    tagmanager.New(),
		contacts: d.Contacts,
		trees:    d.Trees,
		log:      log,
		autoSave: d.AutoSave,
	}

	loaded, err := d.Trees.Load()
	switch {
	case err == nil:
		m.tree.Copy(loaded)
	case d.ResetCorrupt && errors.Is(err, storage.ErrCorruptData):
		log.Warn("stored tag tree is corrupt, starting empty", zap.Error(err))
	default:
		return nil, fmt.Errorf("model: load tag tree: %w", err)
	}

	all, err := d.Contacts.List()
	if err != nil {
		return nil, fmt.Errorf("model: list contacts: %w", err)
	}
	m.index.Rebuild(all)

	log.Info("model ready",
		zap.Int("tags", m.tree.Len()),
		zap.Int("contacts", len(all)),
		zap.Int("tags_in_use", m.index.Len()),
	)
	return m, nil
}

// ─── Contacts ────────────────────────────────────────────────────────────────

// Edit describes a partial contact update. Nil fields are left alone.
// Tags, when set, replaces the tag set before AddTags and RemoveTags are
// applied.
type Edit struct {
	Name       *string
	Phone      *string
	Email      *string
	Address    *string
	Tags       *tag.Set
	AddTags    tag.Set
	RemoveTags tag.Set
}

// AddContact creates, stores and indexes a contact.
func (m *Model) AddContact(p contact.Params) (contact.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := contact.New(p)
	if err != nil {
		return contact.Contact{}, err
	}
	if err := m.contacts.Add(c); err != nil {
		return contact.Contact{}, fmt.Errorf("model: add contact: %w", err)
	}
	m.index.AddContactTags(c)

	m.log.Debug("contact added", zap.Stringer("id", c.ID), zap.Stringer("tags", c.Tags))
	return c, nil
}

// EditContact applies e to the contact with the given ID.
func (m *Model) EditContact(id contact.ID, e Edit) (contact.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, err := m.get(id)
	if err != nil {
		return contact.Contact{}, err
	}

	updated := old
	if e.Name != nil {
		updated.Name = strings.TrimSpace(*e.Name)
	}
	if e.Phone != nil {
		updated.Phone = strings.TrimSpace(*e.Phone)
	}
	if e.Email != nil {
		updated.Email = strings.TrimSpace(*e.Email)
	}
	if e.Address != nil {
		updated.Address = strings.TrimSpace(*e.Address)
	}
	tags := updated.Tags
	if e.Tags != nil {
		tags = *e.Tags
	}
	tags = tags.Union(e.AddTags)
	for _, t := range e.RemoveTags.Sorted() {
		tags = tags.Without(t)
	}
	updated = updated.WithTags(tags)

	if err := m.contacts.Update(updated); err != nil {
		return contact.Contact{}, fmt.Errorf("model: update contact: %w", err)
	}
	m.index.UpdateContactTags(old, updated)

	m.log.Debug("contact edited", zap.Stringer("id", id), zap.Stringer("tags", updated.Tags))
	return updated, nil
}

// DeleteContact removes a contact and its memberships. It returns the
// deleted contact.
func (m *Model) DeleteContact(id contact.ID) (contact.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, err := m.get(id)
	if err != nil {
		return contact.Contact{}, err
	}
	if err := m.contacts.Delete(id); err != nil {
		return contact.Contact{}, fmt.Errorf("model: delete contact: %w", err)
	}
	m.index.DeleteContactTags(old)

	m.log.Debug("contact deleted", zap.Stringer("id", id))
	return old, nil
}

// Contact returns one contact.
func (m *Model) Contact(id contact.ID) (contact.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(id)
}

// Contacts returns every contact sorted by name.
func (m *Model) Contacts() ([]contact.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all, err := m.contacts.List()
	if err != nil {
		return nil, fmt.Errorf("model: list contacts: %w", err)
	}
	return all, nil
}

func (m *Model) get(id contact.ID) (contact.Contact, error) {
	c, err := m.contacts.Get(id)
	if err != nil {
		if errors.Is(err, addressbook.ErrNotFound) {
			return contact.Contact{}, fmt.Errorf("model: %s: %w", id, ErrContactNotFound)
		}
		return contact.Contact{}, fmt.Errorf("model: get contact: %w", err)
	}
	return c, nil
}
