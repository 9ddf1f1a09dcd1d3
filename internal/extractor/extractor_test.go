package extractor

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeExtractor writes a shell script standing in for
// verible-verilog-kythe-extractor with the given body (each test supplies
// its own stdout, stderr and exit code), so Run's plumbing (file list,
// include dirs, output capture, failure reporting) can be exercised without
// the real binary.
func fakeExtractor(t *testing.T, installDir string, body string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake extractor script is a POSIX shell script")
	}
	path := filepath.Join(installDir, binaryName)
	require.NoError(t, os.WriteFile(path, []byte(body), fs.FileMode(0o755)))
}

func TestRun_Success(t *testing.T) {
	installDir := t.TempDir()
	fakeExtractor(t, installDir, "#!/bin/sh\necho '{\"ok\":true}'\n")

	outDir := t.TempDir()
	outPath := filepath.Join(outDir, "out.json")

	r := &Runner{InstallPath: installDir, WorkspaceRoot: "/work", Log: discardLogger()}
	err := r.Run(context.Background(), []string{"rtl/a.sv"}, outPath)
	require.NoError(t, err)

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Contains(t, string(content), `"ok":true`)
}

func TestRun_NonZeroExitFails(t *testing.T) {
	installDir := t.TempDir()
	fakeExtractor(t, installDir, "#!/bin/sh\necho 'boom' 1>&2\nexit 1\n")

	outPath := filepath.Join(t.TempDir(), "out.json")
	r := &Runner{InstallPath: installDir, WorkspaceRoot: "/work", Log: discardLogger()}
	err := r.Run(context.Background(), []string{"rtl/a.sv"}, outPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "process failed")
}

func TestRun_StderrOutputWithZeroExitFails(t *testing.T) {
	installDir := t.TempDir()
	fakeExtractor(t, installDir, "#!/bin/sh\necho 'warning: something' 1>&2\nexit 0\n")

	outPath := filepath.Join(t.TempDir(), "out.json")
	r := &Runner{InstallPath: installDir, WorkspaceRoot: "/work", Log: discardLogger()}
	err := r.Run(context.Background(), []string{"rtl/a.sv"}, outPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "reported errors")
}

func TestRun_UnresolvedBinaryFails(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.json")
	r := &Runner{InstallPath: filepath.Join(t.TempDir(), "nowhere"), WorkspaceRoot: "/work", Log: discardLogger()}
	err := r.Run(context.Background(), []string{"rtl/a.sv"}, outPath)
	require.Error(t, err)
}

func TestRun_WritesFileListAndIncludeDirs(t *testing.T) {
	installDir := t.TempDir()
	// Capture the args passed to the fake script via its own stdout so the
	// test can assert on include-dir/file-list wiring without parsing exec
	// internals directly.
	fakeExtractor(t, installDir, "#!/bin/sh\necho \"$@\"\n")

	outPath := filepath.Join(t.TempDir(), "out.json")
	r := &Runner{InstallPath: installDir, WorkspaceRoot: "/work", Log: discardLogger()}
	err := r.Run(context.Background(), []string{"rtl/a.sv", "rtl/sub/b.sv"}, outPath)
	require.NoError(t, err)

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.True(t, bytes.Contains(content, []byte("/work/rtl")))
	require.True(t, bytes.Contains(content, []byte("/work/rtl/sub")))
	require.True(t, bytes.Contains(content, []byte("--print_kythe_facts")))
}
