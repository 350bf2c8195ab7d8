// Package corpus reads and writes the line-delimited text files the nlmaps
// toolkit operates over, and collects files-or-directories arguments the way
// the teacher's fmt command walks a tree for source files.
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoFiles is returned by Collect when none of the given paths resolve to
// a file with the requested suffix.
var ErrNoFiles = errors.New("no files found")

const filePermissions = 0o600

// ReadLines reads path and returns its lines with trailing newlines
// stripped, mirroring the original toolkit's read_lines_in_list.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path) //#nosec G304 -- path comes from user args
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return lines, nil
}

// WriteLines writes lines to path, one per line, mirroring the original
// toolkit's write_list_to_file.
func WriteLines(path string, lines []string) error {
	var b strings.Builder

	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), filePermissions); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

// Collect expands a list of file and directory arguments into a flat list
// of file paths. Directories are walked recursively; only files whose name
// ends in suffix are kept ("" matches every file).
func Collect(args []string, suffix string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}

		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		walkErr := filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if !d.IsDir() && strings.HasSuffix(path, suffix) {
				files = append(files, path)
			}

			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, walkErr)
		}
	}

	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	return files, nil
}
