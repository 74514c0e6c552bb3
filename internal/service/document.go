package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadDocument reads the file at path into ordered lines. Each line keeps
// its trailing newline, so concatenating the lines reproduces the file
// byte-for-byte - no whitespace or newline normalization is performed.
func ReadDocument(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return splitLines(string(data)), nil
}

// splitLines splits after every newline. A final line without a trailing
// newline is kept as-is.
func splitLines(content string) []string {
	var lines []string
	for len(content) > 0 {
		i := strings.IndexByte(content, '\n')
		if i < 0 {
			lines = append(lines, content)
			break
		}
		lines = append(lines, content[:i+1])
		content = content[i+1:]
	}
	return lines
}

// WriteDocument writes the lines back to path.
// Writes to a uniquely named temporary file first and renames it into
// place, so a crash mid-write never leaves a truncated document behind and
// concurrent writers never share a temp path.
func WriteDocument(path string, lines []string) error {
	content := strings.Join(lines, "")

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Same directory as the target, so the rename stays atomic.
	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempName := tempFile.Name()

	if _, err := tempFile.WriteString(content); err != nil {
		tempFile.Close()
		os.Remove(tempName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// CreateTemp opens 0600; the rendered document should stay readable.
	if err := os.Chmod(tempName, 0644); err != nil {
		os.Remove(tempName)
		return fmt.Errorf("failed to set temp file permissions: %w", err)
	}

	// Rename (atomic operation on most filesystems)
	if err := os.Rename(tempName, path); err != nil {
		os.Remove(tempName) // Cleanup temp file
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
