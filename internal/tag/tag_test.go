package tag

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNew_Normalizes(t *testing.T) {
	got, err := New("  CS2103 ")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got.Name() != "cs2103" {
		t.Errorf("Name() = %q, want %q", got.Name(), "cs2103")
	}
	if got != MustNew("cs2103") {
		t.Error("tags with equal normalized names must be ==")
	}
}

func TestNew_RejectsInvalid(t *testing.T) {
	for _, name := range []string{"", "   ", "two words", "cs-2103", "friends!", "ταγ"} {
		_, err := New(name)
		if err == nil {
			t.Errorf("New(%q) should fail", name)
			continue
		}
		if !errors.Is(err, ErrInvalidName) {
			t.Errorf("New(%q) error %v should match ErrInvalidName", name, err)
		}
		var inv *InvalidNameError
		if !errors.As(err, &inv) || inv.Name != name {
			t.Errorf("New(%q) should return InvalidNameError carrying the raw name", name)
		}
	}
}

func TestMustNew_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew should panic on invalid name")
		}
	}()
	MustNew("bad name")
}

func TestTag_JSON(t *testing.T) {
	data, err := json.Marshal(MustNew("Friends"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"friends"` {
		t.Errorf("Marshal = %s", data)
	}

	var got Tag
	if err := json.Unmarshal([]byte(`"not valid"`), &got); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Unmarshal invalid name error = %v", err)
	}
}

func TestSet_Basics(t *testing.T) {
	s := NewSet(MustNew("b"), MustNew("a"), MustNew("b"), Tag{})

	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if !s.Contains(MustNew("a")) {
		t.Error("missing a")
	}
	names := s.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names = %v, want [a b]", names)
	}
	if s.String() != "[a, b]" {
		t.Errorf("String = %s", s.String())
	}
}

func TestSet_OperationsReturnNewSets(t *testing.T) {
	s := NewSet(MustNew("a"))
	u := s.With(MustNew("b"))
	w := u.Without(MustNew("a"))

	if s.Len() != 1 || u.Len() != 2 || w.Len() != 1 {
		t.Errorf("lens = %d %d %d, want 1 2 1", s.Len(), u.Len(), w.Len())
	}
	if !w.Equal(NewSet(MustNew("b"))) {
		t.Errorf("Without = %s", w)
	}

	sorted := u.Sorted()
	sorted[0] = MustNew("zzz")
	if u.Contains(MustNew("zzz")) {
		t.Error("Sorted must return a copy")
	}
}

func TestParseList(t *testing.T) {
	s, err := ParseList("friends, CS2103,, ")
	if err != nil {
		t.Fatalf("ParseList error: %v", err)
	}
	if !s.Equal(NewSet(MustNew("friends"), MustNew("cs2103"))) {
		t.Errorf("ParseList = %s", s)
	}
	if _, err := ParseList("ok, not ok"); err == nil {
		t.Error("expected error for invalid item")
	}
}

func TestSet_JSONRoundTrip(t *testing.T) {
	s := NewSet(MustNew("x"), MustNew("y"))
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var got Set
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if !got.Equal(s) {
		t.Errorf("round trip = %s, want %s", got, s)
	}
}
