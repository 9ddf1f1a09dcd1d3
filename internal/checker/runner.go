package checker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

const binaryName = "verible-verilog-syntax"

// Runner spawns the external syntax checker against a file list and parses
// its JSON diagnostic bundle. Unlike the extractor, a non-zero exit code
// alone is not failure: the checker exits 1 to report that syntax errors
// were found. Stderr text, an exit code other than 0 or 1, or an unreadable
// output signals a process failure.
type Runner struct {
	InstallPath string
	Log         *slog.Logger
}

// Run invokes the checker over files and returns the decoded diagnostic
// bundle keyed by file URI. A clean run (exit 0, no diagnostics) returns an
// empty bundle.
func (r *Runner) Run(ctx context.Context, files []string) (map[string][]Diagnostic, error) {
	workDir, err := os.MkdirTemp("", "diplomat-syntax-*")
	if err != nil {
		return nil, fmt.Errorf("checker: create temp dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	binary := binaryName
	if r.InstallPath != "" {
		binary = filepath.Join(r.InstallPath, binaryName)
	}

	args := append([]string{"--export_json"}, files...)
	r.Log.Info("checker: invoking",
		slog.String("binary", binary), slog.Int("file_count", len(files)))

	outputPath := filepath.Join(workDir, "syntax-check.json")
	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("checker: create output file: %w", err)
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = out
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	out.Close()

	if stderr.Len() > 0 {
		return nil, fmt.Errorf("checker: process reported errors: %s", stderr.String())
	}

	exitCode := 0
	if runErr != nil {
		exitErr, ok := runErr.(*exec.ExitError)
		if !ok {
			return nil, fmt.Errorf("checker: process failed: %w", runErr)
		}
		exitCode = exitErr.ExitCode()
	}
	// The checker returns 0 for a clean file set and 1 when syntax errors
	// were found; anything else is a real process failure.
	if exitCode != 0 && exitCode != 1 {
		return nil, fmt.Errorf("checker: unexpected exit code %d", exitCode)
	}
	if exitCode == 0 {
		return map[string][]Diagnostic{}, nil
	}

	return readDiagnosticFile(outputPath)
}

// veribleSyntaxReport is the shape of verible-verilog-syntax --export_json's
// output: file path -> severity label -> list of token-rejection records.
type veribleSyntaxReport map[string]map[string][]struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func readDiagnosticFile(path string) (map[string][]Diagnostic, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("checker: read diagnostic file: %w", err)
	}

	var report veribleSyntaxReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("checker: decode diagnostic file: %w", err)
	}

	bundle := make(map[string][]Diagnostic, len(report))
	for file, bySeverity := range report {
		uri := FileURI(file)
		for _, records := range bySeverity {
			for _, rec := range records {
				pos := Position{Line: rec.Line, Character: rec.Column}
				bundle[uri] = append(bundle[uri], Diagnostic{
					Range:    Range{Start: pos, End: pos},
					Message:  "Parse error: rejected token",
					Source:   "verible-verilog-syntax",
					Code:     "syntax-error",
					Severity: SeverityError,
				})
			}
		}
	}
	return bundle, nil
}

// FileURI converts a filesystem path to a file:// URI, mirroring the
// original's pygls from_fs_path helper for the subset this checker needs
// (absolute POSIX paths; the extractor always hands it those).
func FileURI(path string) string {
	if filepath.IsAbs(path) {
		return "file://" + path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "file://" + path
	}
	return "file://" + abs
}
