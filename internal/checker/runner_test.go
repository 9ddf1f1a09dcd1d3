package checker

import (
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

func fakeChecker(t *testing.T, installDir, body string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake checker script is a POSIX shell script")
	}
	require.NoError(t, os.WriteFile(filepath.Join(installDir, binaryName), []byte(body), fs.FileMode(0o755)))
}

func TestRun_CleanExitReturnsEmptyBundle(t *testing.T) {
	installDir := t.TempDir()
	fakeChecker(t, installDir, "#!/bin/sh\nexit 0\n")

	r := &Runner{InstallPath: installDir, Log: discardLogger()}
	bundle, err := r.Run(context.Background(), []string{"a.sv"})
	require.NoError(t, err)
	require.Empty(t, bundle)
}

func TestRun_SyntaxErrorsAreDecoded(t *testing.T) {
	installDir := t.TempDir()
	fakeChecker(t, installDir, `#!/bin/sh
cat > /dev/null <<'EOF'
EOF
cat <<'JSON'
{"/work/a.sv":{"errors":[{"line":2,"column":5}]}}
JSON
exit 1
`)

	r := &Runner{InstallPath: installDir, Log: discardLogger()}
	bundle, err := r.Run(context.Background(), []string{"/work/a.sv"})
	require.NoError(t, err)
	diags := bundle["file:///work/a.sv"]
	require.Len(t, diags, 1)
	require.Equal(t, 2, diags[0].Range.Start.Line)
	require.Equal(t, 5, diags[0].Range.Start.Character)
	require.Equal(t, SeverityError, diags[0].Severity)
}

func TestRun_StderrOutputFails(t *testing.T) {
	installDir := t.TempDir()
	fakeChecker(t, installDir, "#!/bin/sh\necho boom 1>&2\nexit 0\n")

	r := &Runner{InstallPath: installDir, Log: discardLogger()}
	_, err := r.Run(context.Background(), []string{"a.sv"})
	require.Error(t, err)
}

func TestRun_UnexpectedExitCodeFails(t *testing.T) {
	installDir := t.TempDir()
	fakeChecker(t, installDir, "#!/bin/sh\nexit 2\n")

	r := &Runner{InstallPath: installDir, Log: discardLogger()}
	_, err := r.Run(context.Background(), []string{"a.sv"})
	require.Error(t, err)
}
