// Package certs builds the candidate pool from a directory of certificate
// files.
package certs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/certsend/certsend/pkg/match"
)

// Scan lists the PDF files directly under dir and returns them as match
// candidates. Each candidate's Ref is the file's full path. Subdirectories
// and non-PDF files are ignored.
func Scan(dir string) ([]match.Candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading certificate dir: %w", err)
	}

	var pool []match.Candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			continue
		}
		pool = append(pool, match.Candidate{
			Filename: name,
			Ref:      filepath.Join(dir, name),
		})
	}

	return pool, nil
}
