package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/Tagbook/internal/tag"
	"github.com/HendryAvila/Tagbook/internal/tagtree"
)

func tg(name string) tag.Tag { return tag.MustNew(name) }

func sampleTree(t *testing.T) *tagtree.Tree {
	t.Helper()
	tree := tagtree.New()
	require.NoError(t, tree.AddSubTagTo(tg("computing"), tg("cs2103")))
	require.NoError(t, tree.AddSubTagTo(tg("computing"), tg("cs1231s")))
	require.NoError(t, tree.AddSubTagTo(tg("cs2103"), tg("tutorial")))
	require.NoError(t, tree.AddSubTagTo(tg("friends"), tg("tutorial")))
	tree.AddTag(tg("family"))
	return tree
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ─── Round trip ──────────────────────────────────────────────────────────────

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)
	tree := sampleTree(t)

	require.NoError(t, Save(tree, path))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.True(t, loaded.Equal(tree))
	assert.True(t, loaded.Contains(tg("family")), "childless roots survive")
}

func TestSaveLoad_EmptyTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)

	require.NoError(t, Save(tagtree.New(), path))
	loaded, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestSave_DeterministicOutput(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")

	require.NoError(t, Save(sampleTree(t), a))
	require.NoError(t, Save(sampleTree(t).Clone(), b))

	da, _ := os.ReadFile(a)
	db, _ := os.ReadFile(b)
	assert.Equal(t, string(da), string(db))
	assert.Contains(t, string(da), `"subTags": [
        "cs1231s",
        "cs2103"
      ]`)
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)

	require.NoError(t, Save(sampleTree(t), path))
	require.NoError(t, Save(tagtree.New(), path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DefaultFileName, entries[0].Name())
}

func TestSave_FailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	require.NoError(t, Save(sampleTree(t), path))
	before, _ := os.ReadFile(path)

	// A directory at the rename target makes the final step fail.
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.Mkdir(blocked, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(blocked, "keep"), nil, 0o644))
	err := Save(tagtree.New(), blocked)
	require.Error(t, err)

	after, _ := os.ReadFile(path)
	assert.Equal(t, string(before), string(after))
	entries, _ := os.ReadDir(dir)
	assert.Len(t, entries, 2, "temp file must be cleaned up")
}

// ─── Load ────────────────────────────────────────────────────────────────────

func TestLoad_MissingFileIsEmptyTree(t *testing.T) {
	tree, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, tree.Len())
}

func TestLoad_SubTagWithoutEntryBecomesKey(t *testing.T) {
	path := writeFile(t, `{"version":1,"tags":[{"name":"computing","subTags":["cs2103"]}]}`)

	tree, err := Load(path)

	require.NoError(t, err)
	assert.True(t, tree.Contains(tg("cs2103")))
}

func TestLoad_NormalizesNames(t *testing.T) {
	path := writeFile(t, `{"version":1,"tags":[{"name":"Computing","subTags":[" CS2103 "]}]}`)

	tree, err := Load(path)

	require.NoError(t, err)
	assert.True(t, tree.HasDirectSuperTag(tg("cs2103"), tg("computing")))
}

func TestLoad_RejectsCorruptInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
		reason  string
	}{
		{"cycle", `{"version":1,"tags":[{"name":"a","subTags":["b"]},{"name":"b","subTags":["a"]}]}`, "cyclic"},
		{"self loop", `{"version":1,"tags":[{"name":"a","subTags":["a"]}]}`, "cyclic"},
		{"bad parent name", `{"version":1,"tags":[{"name":"bad name","subTags":[]}]}`, "entry 0"},
		{"bad child name", `{"version":1,"tags":[{"name":"a","subTags":["no!"]}]}`, "sub-tag"},
		{"duplicate", `{"version":1,"tags":[{"name":"a","subTags":[]},{"name":"A","subTags":[]}]}`, "duplicate"},
		{"version", `{"version":7,"tags":[]}`, "version"},
		{"malformed", `{"version":1,"tags":[`, "malformed"},
		{"wrong shape", `{"version":1,"tags":{"a":"b"}}`, "malformed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorruptData), "got %v", err)
			var corrupt *CorruptDataError
			require.True(t, errors.As(err, &corrupt))
			assert.Contains(t, corrupt.Reason+corrupt.Error(), tt.reason)
		})
	}
}

func TestLoad_CycleErrorKeepsCause(t *testing.T) {
	path := writeFile(t, `{"version":1,"tags":[{"name":"a","subTags":["b"]},{"name":"b","subTags":["a"]}]}`)

	_, err := Load(path)

	assert.ErrorIs(t, err, tagtree.ErrCyclicDependency)
}

func TestLoad_DoesNotTouchLiveTree(t *testing.T) {
	live := sampleTree(t)
	before := live.Clone()
	path := writeFile(t, `{"version":1,"tags":[{"name":"a","subTags":["b"]},{"name":"b","subTags":["a"]}]}`)

	if loaded, err := Load(path); err == nil {
		live.Copy(loaded)
	}

	assert.True(t, live.Equal(before))
}

func TestLoad_RejectsOversizedFile(t *testing.T) {
	path := writeFile(t, `{"version":1,"tags":[],"pad":"`+strings.Repeat("x", MaxFileSize)+`"}`)

	_, err := Load(path)

	assert.ErrorIs(t, err, ErrCorruptData)
}

// ─── FileStore ───────────────────────────────────────────────────────────────

func TestFileStore(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), DefaultFileName))
	tree := sampleTree(t)

	require.NoError(t, fs.Save(tree))
	loaded, err := fs.Load()

	require.NoError(t, err)
	assert.True(t, loaded.Equal(tree))
	assert.Equal(t, DefaultFileName, filepath.Base(fs.Path()))
}
