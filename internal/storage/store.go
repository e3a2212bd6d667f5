// Package storage persists the tag tree as a JSON document.
//
// Loading validates tag names and acyclicity before a tree is returned;
// anything else is reported as a CorruptDataError and nothing is repaired.
// Saving writes a temp file next to the target and renames it over, so a
// crash leaves either the previous document or the new one.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/HendryAvila/Tagbook/internal/tag"
	"github.com/HendryAvila/Tagbook/internal/tagtree"
)

const (
	// FormatVersion is the document version written by Save.
	FormatVersion = 1

	// MaxFileSize bounds how much Load will read.
	MaxFileSize = 4 * 1024 * 1024

	// DefaultFileName is the tag tree file inside the data directory.
	DefaultFileName = "tagtree.json"
)

// ErrCorruptData is matched by errors.Is for every CorruptDataError.
var ErrCorruptData = errors.New("corrupt tag tree data")

// CorruptDataError reports a stored document that cannot become a tree.
type CorruptDataError struct {
	Path   string
	Reason string
	Err    error
}

func (e *CorruptDataError) Error() string {
	msg := fmt.Sprintf("storage: %s is corrupt: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CorruptDataError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrCorruptData) true.
func (e *CorruptDataError) Is(target error) bool {
	return target == ErrCorruptData
}

// ─── Document format ─────────────────────────────────────────────────────────

// Document is the serialized form of a tag tree.
type Document struct {
	Version int        `json:"version"`
	Tags    []TagEntry `json:"tags"`
}

// TagEntry holds one tag and the names of its direct subtags.
type TagEntry struct {
	Name    string   `json:"name"`
	SubTags []string `json:"subTags"`
}

// Encode converts a tree to its document form with tags and subtags sorted.
func Encode(tree *tagtree.Tree) Document {
	doc := Document{Version: FormatVersion, Tags: []TagEntry{}}
	edges := tree.Edges()
	for _, t := range tree.Tags().Sorted() {
		doc.Tags = append(doc.Tags, TagEntry{
			Name:    t.Name(),
			SubTags: edges[t].Names(),
		})
	}
	return doc
}

// Decode validates a document and builds a tree from it. path is only used
// in error messages.
func Decode(doc Document, path string) (*tagtree.Tree, error) {
	if doc.Version != FormatVersion {
		return nil, &CorruptDataError{Path: path, Reason: fmt.Sprintf("unsupported version %d", doc.Version)}
	}

	edges := make(map[tag.Tag][]tag.Tag, len(doc.Tags))
	for i, entry := range doc.Tags {
		parent, err := tag.New(entry.Name)
		if err != nil {
			return nil, &CorruptDataError{Path: path, Reason: fmt.Sprintf("entry %d", i), Err: err}
		}
		if _, dup := edges[parent]; dup {
			return nil, &CorruptDataError{Path: path, Reason: fmt.Sprintf("duplicate entry for tag %q", parent)}
		}
		children := make([]tag.Tag, 0, len(entry.SubTags))
		for _, name := range entry.SubTags {
			child, err := tag.New(name)
			if err != nil {
				return nil, &CorruptDataError{Path: path, Reason: fmt.Sprintf("sub-tag of %q", parent), Err: err}
			}
			children = append(children, child)
		}
		edges[parent] = children
	}

	tree, err := tagtree.FromEdges(edges)
	if err != nil {
		return nil, &CorruptDataError{Path: path, Reason: "hierarchy is cyclic", Err: err}
	}
	return tree, nil
}

// ─── Load / Save ─────────────────────────────────────────────────────────────

// Load reads and validates the tree stored at path. A missing file yields
// an empty tree.
func Load(path string) (*tagtree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tagtree.New(), nil
		}
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	if len(data) > MaxFileSize {
		return nil, &CorruptDataError{Path: path, Reason: fmt.Sprintf("file exceeds %d bytes", MaxFileSize)}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptDataError{Path: path, Reason: "malformed JSON", Err: err}
	}
	return Decode(doc, path)
}

// Save writes tree to path atomically, creating the parent directory if
// needed.
func Save(tree *tagtree.Tree, path string) error {
	data, err := json.MarshalIndent(Encode(tree), "", "  ")
	if err != nil {
		return fmt.Errorf("storage: marshal: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tagtree-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("storage: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("storage: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: rename: %w", err)
	}
	return nil
}

// ─── FileStore ───────────────────────────────────────────────────────────────

// FileStore binds Load and Save to one path.
type FileStore struct {
	path string
}

// NewFileStore creates a store for the tag tree file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the store reads and writes.
func (fs *FileStore) Path() string { return fs.path }

// Load reads the tree from the store's file.
func (fs *FileStore) Load() (*tagtree.Tree, error) {
	return Load(fs.path)
}

// Save writes tree to the store's file.
func (fs *FileStore) Save(tree *tagtree.Tree) error {
	return Save(tree, fs.path)
}
