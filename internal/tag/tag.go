// Package tag defines the Tag value type and an immutable set of tags.
//
// A Tag is identified by its normalized name: surrounding whitespace is
// trimmed and the result is lower-cased. Two tags built from "CS2103" and
// " cs2103 " are the same tag, so Tag values can be compared with == and
// used directly as map keys.
package tag

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidName is the sentinel matched by errors.Is for every
// InvalidNameError.
var ErrInvalidName = errors.New("invalid tag name")

// namePattern is checked against the normalized name.
var namePattern = regexp.MustCompile(`^[a-z0-9]+$`)

// ConstraintsMessage describes the naming rule to end users.
const ConstraintsMessage = "Tag names should be alphanumeric, non-empty and contain no spaces"

// InvalidNameError reports a tag name that fails validation.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid tag name %q: %s", e.Name, ConstraintsMessage)
}

// Is makes errors.Is(err, ErrInvalidName) true.
func (e *InvalidNameError) Is(target error) bool {
	return target == ErrInvalidName
}

// Tag is an immutable, case-normalized label. The zero value is not a
// valid tag; use New.
type Tag struct {
	name string
}

// New normalizes name and validates it.
func New(name string) (Tag, error) {
	normalized := Normalize(name)
	if !namePattern.MatchString(normalized) {
		return Tag{}, &InvalidNameError{Name: name}
	}
	return Tag{name: normalized}, nil
}

// MustNew is like New but panics on an invalid name.
func MustNew(name string) Tag {
	t, err := New(name)
	if err != nil {
		panic(err)
	}
	return t
}

// Normalize trims surrounding whitespace and lower-cases name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsValidName reports whether name would be accepted by New.
func IsValidName(name string) bool {
	return namePattern.MatchString(Normalize(name))
}

// Name returns the normalized tag name.
func (t Tag) Name() string { return t.name }

// String implements fmt.Stringer.
func (t Tag) String() string { return t.name }

// IsZero reports whether t is the zero Tag.
func (t Tag) IsZero() bool { return t.name == "" }

// Compare orders tags by name. It returns -1, 0 or +1.
func (t Tag) Compare(other Tag) int {
	return strings.Compare(t.name, other.name)
}

// MarshalJSON encodes the tag as its name string.
func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.name)
}

// UnmarshalJSON decodes a name string and validates it.
func (t *Tag) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("tag: decode: %w", err)
	}
	parsed, err := New(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
