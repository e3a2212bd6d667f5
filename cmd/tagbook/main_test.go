package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/Tagbook/internal/storage"
	"github.com/HendryAvila/Tagbook/internal/tag"
	"github.com/HendryAvila/Tagbook/internal/tagtree"
)

// writeConfig points a config file at a fresh data directory.
func writeConfig(t *testing.T) (configPath, dataDir string) {
	t.Helper()
	dataDir = t.TempDir()
	configPath = filepath.Join(t.TempDir(), "config.toml")
	body := "data_dir = " + `"` + filepath.ToSlash(dataDir) + `"` + "\n[log]\nlevel = \"error\"\n"
	require.NoError(t, os.WriteFile(configPath, []byte(body), 0o644))
	return configPath, dataDir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func seedTree(t *testing.T, dataDir string) {
	t.Helper()
	tree, err := tagtree.FromEdges(map[tag.Tag][]tag.Tag{
		tag.MustNew("computing"): {tag.MustNew("cs2103"), tag.MustNew("cs1231s")},
	})
	require.NoError(t, err)
	require.NoError(t, storage.Save(tree, filepath.Join(dataDir, storage.DefaultFileName)))
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "tagbook v"))
}

func TestCheckCmd_OK(t *testing.T) {
	cfgPath, dataDir := writeConfig(t)
	seedTree(t, dataDir)

	out, err := run(t, "--config", cfgPath, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "ok (3 tags, 2 edges, 1 roots)")
}

func TestCheckCmd_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"tags":[{"name":"a","subTags":["b"]},{"name":"b","subTags":["a"]}]}`), 0o644))

	_, err := run(t, "check", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrCorruptData)
	assert.Contains(t, err.Error(), "--reset-corrupt")
}

func TestTreeCmd(t *testing.T) {
	cfgPath, dataDir := writeConfig(t)
	seedTree(t, dataDir)

	out, err := run(t, "--config", cfgPath, "tree", "--counts=false")
	require.NoError(t, err)
	assert.Equal(t, "computing\n  cs1231s\n  cs2103\n", out)
}
