// Package filelist loads the ordered set of source paths fed to the
// extractor, in either of the two forms spec.md section 6 recognizes: a
// plain newline-delimited list, or a TOML document shaped
// `[libraries.lib] files = [...]`.
package filelist

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

var validExtensions = map[string]bool{
	".sv":  true,
	".v":   true,
	".svh": true,
}

type tomlDocument struct {
	Libraries struct {
		Lib struct {
			Files []string `toml:"files"`
		} `toml:"lib"`
	} `toml:"libraries"`
}

// Load reads the file list at path. TOML documents (detected by a ".toml"
// extension) are filtered to .sv/.v/.svh files (case-insensitive); plain
// lists are returned as-is, one path per non-empty line.
func Load(path string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return loadTOML(path)
	}
	return loadPlain(path)
}

func loadTOML(path string) ([]string, error) {
	var doc tomlDocument
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, err
	}

	files := make([]string, 0, len(doc.Libraries.Lib.Files))
	for _, f := range doc.Libraries.Lib.Files {
		if validExtensions[strings.ToLower(filepath.Ext(f))] {
			files = append(files, f)
		}
	}
	return files, nil
}

func loadPlain(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var files []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		files = append(files, line)
	}
	return files, scanner.Err()
}

// IncludeDirs returns the distinct directories containing each file in
// files, resolving relative directories against workspaceRoot.
func IncludeDirs(workspaceRoot string, files []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, f := range files {
		dir := filepath.Dir(f)
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(workspaceRoot, dir)
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
