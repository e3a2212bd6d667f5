package tag

import (
	"encoding/json"
	"slices"
	"strings"
)

// Set is an immutable set of tags. The zero value is the empty set.
//
// No method mutates the receiver; Union and Without return new sets.
type Set struct {
	m map[Tag]struct{}
}

// NewSet builds a set from tags. Zero tags are ignored.
func NewSet(tags ...Tag) Set {
	if len(tags) == 0 {
		return Set{}
	}
	m := make(map[Tag]struct{}, len(tags))
	for _, t := range tags {
		if t.IsZero() {
			continue
		}
		m[t] = struct{}{}
	}
	return Set{m: m}
}

// ParseSet builds a set from raw names, failing on the first invalid one.
func ParseSet(names ...string) (Set, error) {
	tags := make([]Tag, 0, len(names))
	for _, n := range names {
		t, err := New(n)
		if err != nil {
			return Set{}, err
		}
		tags = append(tags, t)
	}
	return NewSet(tags...), nil
}

// ParseList splits a comma-separated list of names. Blank items are skipped.
func ParseList(csv string) (Set, error) {
	var names []string
	for _, part := range strings.Split(csv, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		names = append(names, part)
	}
	return ParseSet(names...)
}

// Len returns the number of tags.
func (s Set) Len() int { return len(s.m) }

// IsEmpty reports whether the set has no tags.
func (s Set) IsEmpty() bool { return len(s.m) == 0 }

// Contains reports whether t is in the set.
func (s Set) Contains(t Tag) bool {
	_, ok := s.m[t]
	return ok
}

// Sorted returns the tags ordered by name in a fresh slice.
func (s Set) Sorted() []Tag {
	out := make([]Tag, 0, len(s.m))
	for t := range s.m {
		out = append(out, t)
	}
	slices.SortFunc(out, Tag.Compare)
	return out
}

// Names returns the sorted tag names.
func (s Set) Names() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, t := range sorted {
		out[i] = t.name
	}
	return out
}

// Equal reports whether both sets hold the same tags.
func (s Set) Equal(other Set) bool {
	if len(s.m) != len(other.m) {
		return false
	}
	for t := range s.m {
		if _, ok := other.m[t]; !ok {
			return false
		}
	}
	return true
}

// Union returns a new set with the tags of both.
func (s Set) Union(other Set) Set {
	m := make(map[Tag]struct{}, len(s.m)+len(other.m))
	for t := range s.m {
		m[t] = struct{}{}
	}
	for t := range other.m {
		m[t] = struct{}{}
	}
	return Set{m: m}
}

// With returns a new set that also holds t.
func (s Set) With(t Tag) Set {
	return s.Union(NewSet(t))
}

// Without returns a new set lacking t.
func (s Set) Without(t Tag) Set {
	m := make(map[Tag]struct{}, len(s.m))
	for k := range s.m {
		if k != t {
			m[k] = struct{}{}
		}
	}
	return Set{m: m}
}

// String renders the set as a bracketed, comma-separated list.
func (s Set) String() string {
	return "[" + strings.Join(s.Names(), ", ") + "]"
}

// MarshalJSON encodes the set as a sorted array of names.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// UnmarshalJSON decodes an array of names, validating each.
func (s *Set) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	parsed, err := ParseSet(names...)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
