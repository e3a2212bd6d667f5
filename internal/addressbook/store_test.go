package addressbook

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/HendryAvila/Tagbook/internal/contact"
	"github.com/HendryAvila/Tagbook/internal/tag"
)

// newTestStore creates a Store backed by a temp directory for isolation.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{Path: filepath.Join(t.TempDir(), DefaultFileName)})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustContact(t *testing.T, name string, tags ...string) contact.Contact {
	t.Helper()
	set, err := tag.ParseSet(tags...)
	if err != nil {
		t.Fatal(err)
	}
	c, err := contact.New(contact.Params{Name: name, Phone: "98765432", Tags: set})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// ─── New / Initialization ───────────────────────────────────────────────────

func TestNew_RequiresPath(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestNew_IdempotentReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)

	s1, err := New(Config{Path: path})
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	c := mustContact(t, "Alex", "friends")
	if err := s1.Add(c); err != nil {
		t.Fatalf("add: %v", err)
	}
	s1.Close()

	s2, err := New(Config{Path: path})
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get(c.ID)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if !got.Equal(c) {
		t.Errorf("got %+v, want %+v", got, c)
	}
}

func TestNew_OpenErrorIsWrapped(t *testing.T) {
	orig := openDB
	openDB = func(string, string) (*sql.DB, error) { return nil, errors.New("boom") }
	t.Cleanup(func() { openDB = orig })

	_, err := New(Config{Path: filepath.Join(t.TempDir(), DefaultFileName)})
	if err == nil || err.Error() != "addressbook: open database: boom" {
		t.Errorf("err = %v", err)
	}
}

// ─── CRUD ────────────────────────────────────────────────────────────────────

func TestAddGetList(t *testing.T) {
	s := newTestStore(t)
	bernice := mustContact(t, "Bernice", "colleagues", "friends")
	alex := mustContact(t, "alex")

	for _, c := range []contact.Contact{bernice, alex} {
		if err := s.Add(c); err != nil {
			t.Fatalf("Add(%s): %v", c.Name, err)
		}
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(List) = %d, want 2", len(list))
	}
	if list[0].Name != "alex" || list[1].Name != "Bernice" {
		t.Errorf("order = %s, %s; want alex, Bernice", list[0].Name, list[1].Name)
	}
	if !list[1].Tags.Equal(bernice.Tags) {
		t.Errorf("tags = %s, want %s", list[1].Tags, bernice.Tags)
	}
	if !list[0].Tags.IsEmpty() {
		t.Errorf("untagged contact got tags %s", list[0].Tags)
	}
}

func TestAdd_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	c := mustContact(t, "Alex")
	if err := s.Add(c); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(c); err == nil {
		t.Error("expected duplicate error")
	}
}

func TestAdd_RejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	c := mustContact(t, "Alex")
	c.Email = "nope"

	var verr *contact.ValidationError
	if err := s.Add(c); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestUpdate_ReplacesTags(t *testing.T) {
	s := newTestStore(t)
	c := mustContact(t, "Alex", "friends", "cs2103")
	if err := s.Add(c); err != nil {
		t.Fatal(err)
	}

	c.Name = "Alex Yeoh"
	c = c.WithTags(tag.NewSet(tag.MustNew("family")))
	if err := s.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.Get(c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(c) {
		t.Errorf("got %+v, want %+v", got, c)
	}
}

func TestUpdate_Unknown(t *testing.T) {
	s := newTestStore(t)
	if err := s.Update(mustContact(t, "Ghost")); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdate_CommitFailureRollsBack(t *testing.T) {
	s := newTestStore(t)
	c := mustContact(t, "Alex", "friends")
	if err := s.Add(c); err != nil {
		t.Fatal(err)
	}

	s.hooks.commit = func(tx *sql.Tx) error {
		tx.Rollback() //nolint:errcheck
		return errors.New("disk full")
	}
	changed := c.WithTags(tag.NewSet(tag.MustNew("enemies")))
	if err := s.Update(changed); err == nil {
		t.Fatal("expected commit error")
	}
	s.hooks = defaultStoreHooks()

	got, err := s.Get(c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Tags.Equal(c.Tags) {
		t.Errorf("tags = %s after failed update, want %s", got.Tags, c.Tags)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	c := mustContact(t, "Alex", "friends")
	if err := s.Add(c); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete err = %v", err)
	}
	if err := s.Delete(c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v", err)
	}
}

func TestRemoveTagEverywhere(t *testing.T) {
	s := newTestStore(t)
	a := mustContact(t, "Alex", "friends", "cs2103")
	b := mustContact(t, "Bernice", "cs2103")
	c := mustContact(t, "Charlotte", "family")
	for _, x := range []contact.Contact{a, b, c} {
		if err := s.Add(x); err != nil {
			t.Fatal(err)
		}
	}

	before, err := s.RemoveTagEverywhere(tag.MustNew("cs2103"))
	if err != nil {
		t.Fatalf("RemoveTagEverywhere: %v", err)
	}
	if len(before) != 2 || before[0].ID != a.ID || before[1].ID != b.ID {
		t.Fatalf("affected = %+v, want Alex and Bernice", before)
	}
	if !before[0].HasTag(tag.MustNew("cs2103")) {
		t.Error("returned values should be the pre-change contacts")
	}

	got, _ := s.Get(a.ID)
	if !got.Tags.Equal(tag.NewSet(tag.MustNew("friends"))) {
		t.Errorf("Alex tags = %s, want [friends]", got.Tags)
	}

	none, err := s.RemoveTagEverywhere(tag.MustNew("nobody"))
	if err != nil || len(none) != 0 {
		t.Errorf("unused tag: %v, %v", none, err)
	}
}

func TestRemoveTagEverywhere_CommitFailureKeepsTags(t *testing.T) {
	s := newTestStore(t)
	c := mustContact(t, "Alex", "friends", "cs2103")
	if err := s.Add(c); err != nil {
		t.Fatal(err)
	}

	s.hooks.commit = func(tx *sql.Tx) error {
		tx.Rollback() //nolint:errcheck
		return errors.New("disk full")
	}
	if affected, err := s.RemoveTagEverywhere(tag.MustNew("cs2103")); err == nil {
		t.Fatalf("expected commit error, got %d affected", len(affected))
	}
	s.hooks = defaultStoreHooks()

	got, err := s.Get(c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Tags.Equal(c.Tags) {
		t.Errorf("tags = %s after failed removal, want %s", got.Tags, c.Tags)
	}
}
