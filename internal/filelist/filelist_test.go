package filelist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Plain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "files.fls")
	require.NoError(t, os.WriteFile(path, []byte("a.sv\nb.sv\n\nc.v\n"), 0o644))

	files, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"a.sv", "b.sv", "c.v"}, files)
}

func TestLoad_TOML_FiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "files.toml")
	content := `
[libraries.lib]
files = ["a.sv", "b.SVH", "README.md", "c.v", "notes.txt"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	files, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"a.sv", "b.SVH", "c.v"}, files)
}

func TestIncludeDirs(t *testing.T) {
	dirs := IncludeDirs("/work", []string{"rtl/a.sv", "rtl/sub/b.sv", "/abs/c.sv"})
	require.Equal(t, []string{"/work/rtl", "/work/rtl/sub", "/abs"}, dirs)
}
