// Package contact defines the Contact value stored in the address book.
//
// Contacts are identified by a stable ID assigned at creation. Two
// contacts with the same name and details but different IDs are distinct
// members of the tag index.
package contact

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/HendryAvila/Tagbook/internal/tag"
)

// ID is the stable identifier of a contact.
type ID = uuid.UUID

// ParseID parses the string form of an ID.
func ParseID(s string) (ID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return ID{}, fmt.Errorf("contact: invalid id %q: %w", s, err)
	}
	return id, nil
}

// Contact is a person in the address book with the tags directly assigned
// to them.
type Contact struct {
	ID      ID      `json:"id"`
	Name    string  `json:"name" validate:"required,max=100"`
	Phone   string  `json:"phone,omitempty" validate:"omitempty,numeric,min=3,max=20"`
	Email   string  `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Address string  `json:"address,omitempty" validate:"omitempty,max=200"`
	Tags    tag.Set `json:"tags"`
}

// Params holds the input for creating a contact.
type Params struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Tags    tag.Set
}

// New assigns a fresh ID and validates the result.
func New(p Params) (Contact, error) {
	c := Contact{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(p.Name),
		Phone:   strings.TrimSpace(p.Phone),
		Email:   strings.TrimSpace(p.Email),
		Address: strings.TrimSpace(p.Address),
		Tags:    p.Tags,
	}
	if err := c.Validate(); err != nil {
		return Contact{}, err
	}
	return c, nil
}

// WithTags returns a copy of c carrying tags.
func (c Contact) WithTags(tags tag.Set) Contact {
	c.Tags = tags
	return c
}

// HasTag reports whether t is directly assigned to c.
func (c Contact) HasTag(t tag.Tag) bool {
	return c.Tags.Contains(t)
}

// Equal compares every field, tags included.
func (c Contact) Equal(other Contact) bool {
	return c.ID == other.ID &&
		c.Name == other.Name &&
		c.Phone == other.Phone &&
		c.Email == other.Email &&
		c.Address == other.Address &&
		c.Tags.Equal(other.Tags)
}

// Sort orders contacts by case-insensitive name, then ID.
func Sort(cs []Contact) {
	slices.SortFunc(cs, func(a, b Contact) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
}

// ─── Validation ──────────────────────────────────────────────────────────────

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError lists the fields of a contact that failed validation.
type ValidationError struct {
	Fields []string
	err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("contact: invalid %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return e.err }

// Validate checks the contact fields. The ID must be set.
func (c Contact) Validate() error {
	if c.ID == uuid.Nil {
		return &ValidationError{Fields: []string{"id"}}
	}
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("contact: validate: %w", err)
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return &ValidationError{Fields: fields, err: err}
}
