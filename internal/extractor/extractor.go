// Package extractor spawns the external Kythe extractor binary
// (verible-verilog-kythe-extractor) against a file list and writes its JSON
// output to a path for the indexer to ingest. It never parses the output
// itself.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/diplomat-ls/diplomat/internal/filelist"
)

const binaryName = "verible-verilog-kythe-extractor"

// Runner spawns the extractor binary rooted at InstallPath (the directory
// named by backend.veribleInstallPath); an empty InstallPath resolves the
// binary from $PATH.
type Runner struct {
	InstallPath   string
	WorkspaceRoot string
	Log           *slog.Logger
}

// Run writes the file list to a temp directory, invokes the extractor with
// --print_kythe_facts json, and writes its stdout to outputPath. A non-zero
// exit or non-empty stderr is reported as an error; the caller maps it to
// IndexingError.
func (r *Runner) Run(ctx context.Context, files []string, outputPath string) error {
	workDir, err := os.MkdirTemp("", "diplomat-extract-*")
	if err != nil {
		return fmt.Errorf("extractor: create temp dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	fileListPath := filepath.Join(workDir, "files.fls")
	if err := os.WriteFile(fileListPath, []byte(strings.Join(files, "\n")), 0o644); err != nil {
		return fmt.Errorf("extractor: write file list: %w", err)
	}

	incdirs := filelist.IncludeDirs(r.WorkspaceRoot, files)

	binary := binaryName
	if r.InstallPath != "" {
		binary = filepath.Join(r.InstallPath, binaryName)
	}

	args := []string{
		"--file_list_root", "/",
		"--print_kythe_facts", "json",
		"--include_dir_paths", strings.Join(incdirs, ","),
		"--file_list_path", fileListPath,
	}
	r.Log.Info("extractor: invoking",
		slog.String("binary", binary), slog.Int("file_count", len(files)))

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("extractor: create output file: %w", err)
	}
	defer out.Close()

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = out
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr != nil {
		return fmt.Errorf("extractor: process failed: %w: %s", runErr, stderr.String())
	}
	if stderr.Len() > 0 {
		return fmt.Errorf("extractor: process reported errors: %s", stderr.String())
	}
	return nil
}

