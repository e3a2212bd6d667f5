// Package addressbook is the durable contact store for Tagbook.
//
// It uses SQLite (modernc.org/sqlite, no cgo) with one table for contacts
// and one for their directly-assigned tags. Every write that touches both
// tables runs in a single transaction.
package addressbook

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/HendryAvila/Tagbook/internal/contact"
	"github.com/HendryAvila/Tagbook/internal/tag"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ErrNotFound is returned for an unknown contact ID.
var ErrNotFound = errors.New("contact not found")

// DefaultFileName is the database file inside the data directory.
const DefaultFileName = "contacts.db"

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds address book configuration.
type Config struct {
	// Path is the SQLite database file.
	Path string
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the SQLite-backed address book.
type Store struct {
	db    *sql.DB
	hooks storeHooks
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

type storeHooks struct {
	exec    func(db execer, query string, args ...any) (sql.Result, error)
	beginTx func(db *sql.DB) (*sql.Tx, error)
	commit  func(tx *sql.Tx) error
}

func defaultStoreHooks() storeHooks {
	return storeHooks{
		exec: func(db execer, query string, args ...any) (sql.Result, error) {
			return db.Exec(query, args...)
		},
		beginTx: func(db *sql.DB) (*sql.Tx, error) {
			return db.Begin()
		},
		commit: func(tx *sql.Tx) error {
			return tx.Commit()
		},
	}
}

func (s *Store) execHook(db execer, query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(db, query, args...)
	}
	return db.Exec(query, args...)
}

func (s *Store) beginTxHook() (*sql.Tx, error) {
	if s.hooks.beginTx != nil {
		return s.hooks.beginTx(s.db)
	}
	return s.db.Begin()
}

func (s *Store) commitHook(tx *sql.Tx) error {
	if s.hooks.commit != nil {
		return s.hooks.commit(tx)
	}
	return tx.Commit()
}

// New opens (creating if needed) the database at cfg.Path, applies the
// SQLite pragmas and runs migrations.
func New(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("addressbook: database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, fmt.Errorf("addressbook: create data dir: %w", err)
	}

	db, err := openDB("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("addressbook: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("addressbook: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, hooks: defaultStoreHooks()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("addressbook: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS contacts (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			phone      TEXT NOT NULL DEFAULT '',
			email      TEXT NOT NULL DEFAULT '',
			address    TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_contacts_name ON contacts(name COLLATE NOCASE);

		CREATE TABLE IF NOT EXISTS contact_tags (
			contact_id TEXT NOT NULL,
			tag        TEXT NOT NULL,
			PRIMARY KEY (contact_id, tag),
			FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_contact_tags_tag ON contact_tags(tag);
	`
	_, err := s.execHook(s.db, schema)
	return err
}

// ─── Contacts ────────────────────────────────────────────────────────────────

// Add inserts a new contact with its tags.
func (s *Store) Add(c contact.Contact) error {
	if err := c.Validate(); err != nil {
		return err
	}

	tx, err := s.beginTxHook()
	if err != nil {
		return fmt.Errorf("addressbook: begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := s.execHook(tx,
		`INSERT INTO contacts (id, name, phone, email, address) VALUES (?, ?, ?, ?, ?)`,
		c.ID.String(), c.Name, c.Phone, c.Email, c.Address,
	); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("addressbook: contact %s already exists", c.ID)
		}
		return fmt.Errorf("addressbook: insert contact: %w", err)
	}
	if err := s.writeTags(tx, c); err != nil {
		return err
	}

	if err := s.commitHook(tx); err != nil {
		return fmt.Errorf("addressbook: commit transaction: %w", err)
	}
	return nil
}

// Update overwrites the fields and tags of an existing contact.
func (s *Store) Update(c contact.Contact) error {
	if err := c.Validate(); err != nil {
		return err
	}

	tx, err := s.beginTxHook()
	if err != nil {
		return fmt.Errorf("addressbook: begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := s.execHook(tx,
		`UPDATE contacts SET name = ?, phone = ?, email = ?, address = ?, updated_at = datetime('now')
		 WHERE id = ?`,
		c.Name, c.Phone, c.Email, c.Address, c.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("addressbook: update contact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("addressbook: update %s: %w", c.ID, ErrNotFound)
	}

	if _, err := s.execHook(tx, `DELETE FROM contact_tags WHERE contact_id = ?`, c.ID.String()); err != nil {
		return fmt.Errorf("addressbook: clear tags: %w", err)
	}
	if err := s.writeTags(tx, c); err != nil {
		return err
	}

	if err := s.commitHook(tx); err != nil {
		return fmt.Errorf("addressbook: commit transaction: %w", err)
	}
	return nil
}

// Delete removes a contact and, through the foreign key, its tags.
func (s *Store) Delete(id contact.ID) error {
	res, err := s.execHook(s.db, `DELETE FROM contacts WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("addressbook: delete contact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("addressbook: delete %s: %w", id, ErrNotFound)
	}
	return nil
}

// Get returns one contact by ID.
func (s *Store) Get(id contact.ID) (contact.Contact, error) {
	contacts, err := s.query(s.db, `WHERE c.id = ?`, id.String())
	if err != nil {
		return contact.Contact{}, err
	}
	if len(contacts) == 0 {
		return contact.Contact{}, fmt.Errorf("addressbook: get %s: %w", id, ErrNotFound)
	}
	return contacts[0], nil
}

// List returns every contact sorted by name, then ID.
func (s *Store) List() ([]contact.Contact, error) {
	return s.query(s.db, "")
}

// RemoveTagEverywhere strips t from every contact carrying it and returns
// the contacts as they were before the change. The read and the delete
// share one transaction.
func (s *Store) RemoveTagEverywhere(t tag.Tag) ([]contact.Contact, error) {
	tx, err := s.beginTxHook()
	if err != nil {
		return nil, fmt.Errorf("addressbook: begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	affected, err := s.query(tx,
		`WHERE c.id IN (SELECT contact_id FROM contact_tags WHERE tag = ?)`, t.Name())
	if err != nil {
		return nil, err
	}
	if len(affected) == 0 {
		return nil, nil
	}
	if _, err := s.execHook(tx, `DELETE FROM contact_tags WHERE tag = ?`, t.Name()); err != nil {
		return nil, fmt.Errorf("addressbook: remove tag %q: %w", t, err)
	}
	if err := s.commitHook(tx); err != nil {
		return nil, fmt.Errorf("addressbook: commit transaction: %w", err)
	}
	return affected, nil
}

// ─── Internal ────────────────────────────────────────────────────────────────

func (s *Store) writeTags(tx *sql.Tx, c contact.Contact) error {
	for _, t := range c.Tags.Sorted() {
		if _, err := s.execHook(tx,
			`INSERT INTO contact_tags (contact_id, tag) VALUES (?, ?)`,
			c.ID.String(), t.Name(),
		); err != nil {
			return fmt.Errorf("addressbook: insert tag %q: %w", t, err)
		}
	}
	return nil
}

// query loads contacts matching where (a clause over alias c) together
// with their tags.
func (s *Store) query(q queryer, where string, args ...any) ([]contact.Contact, error) {
	rows, err := q.Query(
		`SELECT c.id, c.name, c.phone, c.email, c.address, COALESCE(GROUP_CONCAT(t.tag, ','), '')
		 FROM contacts c
		 LEFT JOIN contact_tags t ON t.contact_id = c.id
		 `+where+`
		 GROUP BY c.id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("addressbook: query contacts: %w", err)
	}
	defer rows.Close()

	var out []contact.Contact
	for rows.Next() {
		var (
			c       contact.Contact
			rawID   string
			rawTags string
		)
		if err := rows.Scan(&rawID, &c.Name, &c.Phone, &c.Email, &c.Address, &rawTags); err != nil {
			return nil, fmt.Errorf("addressbook: scan contact: %w", err)
		}
		if c.ID, err = contact.ParseID(rawID); err != nil {
			return nil, fmt.Errorf("addressbook: %w", err)
		}
		if c.Tags, err = tag.ParseList(rawTags); err != nil {
			return nil, fmt.Errorf("addressbook: tags of %s: %w", rawID, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("addressbook: iterate contacts: %w", err)
	}
	contact.Sort(out)
	return out, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
