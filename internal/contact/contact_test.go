package contact

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/HendryAvila/Tagbook/internal/tag"
)

func TestNew_AssignsIDAndTrims(t *testing.T) {
	c, err := New(Params{Name: "  Alex Yeoh ", Phone: "87438807", Email: "alexyeoh@example.com"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if c.ID == uuid.Nil {
		t.Error("ID should be assigned")
	}
	if c.Name != "Alex Yeoh" {
		t.Errorf("Name = %q, want %q", c.Name, "Alex Yeoh")
	}
}

func TestNew_DistinctIDs(t *testing.T) {
	a, _ := New(Params{Name: "Same"})
	b, _ := New(Params{Name: "Same"})
	if a.ID == b.ID {
		t.Error("two contacts must not share an ID")
	}
}

func TestNew_RejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name  string
		p     Params
		field string
	}{
		{"missing name", Params{}, "name"},
		{"bad email", Params{Name: "x", Email: "not-an-email"}, "email"},
		{"letters in phone", Params{Name: "x", Phone: "12ab"}, "phone"},
		{"short phone", Params{Name: "x", Phone: "12"}, "phone"},
		{"long name", Params{Name: strings.Repeat("n", 101)}, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.p)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !strings.Contains(verr.Error(), tt.field) {
				t.Errorf("error %q should mention %q", verr.Error(), tt.field)
			}
		})
	}
}

func TestValidate_RequiresID(t *testing.T) {
	err := Contact{Name: "x"}.Validate()
	if err == nil || !strings.Contains(err.Error(), "id") {
		t.Errorf("expected id validation error, got %v", err)
	}
}

func TestWithTags_DoesNotMutateOriginal(t *testing.T) {
	c, _ := New(Params{Name: "Bernice", Tags: tag.NewSet(tag.MustNew("friends"))})
	updated := c.WithTags(tag.NewSet(tag.MustNew("colleagues")))

	if !c.HasTag(tag.MustNew("friends")) {
		t.Error("original lost its tag")
	}
	if updated.HasTag(tag.MustNew("friends")) || !updated.HasTag(tag.MustNew("colleagues")) {
		t.Errorf("updated tags = %s", updated.Tags)
	}
	if c.Equal(updated) {
		t.Error("contacts with different tags must not be Equal")
	}
}

func TestParseID(t *testing.T) {
	c, _ := New(Params{Name: "x"})
	got, err := ParseID(" " + c.ID.String() + " ")
	if err != nil {
		t.Fatalf("ParseID error: %v", err)
	}
	if got != c.ID {
		t.Errorf("ParseID = %s, want %s", got, c.ID)
	}
	if _, err := ParseID("nope"); err == nil {
		t.Error("expected error for malformed id")
	}
}
