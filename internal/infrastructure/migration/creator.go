package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// MigrationFile describes the up/down pair produced for one schema change.
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration writes an empty up/down SQL pair under dir. The version
// prefix is the creation time in YYYYMMDDHHMMSS form so lexical order matches
// creation order.
func CreateMigration(dir, name, description string) (*MigrationFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create migrations directory: %w", err)
	}

	now := time.Now()
	mf := &MigrationFile{
		Version:     now.Format("20060102150405"),
		Name:        name,
		Description: description,
		Timestamp:   now.Format(time.RFC3339),
	}

	base := mf.Version + "_" + slugify(name)
	mf.UpPath = filepath.Join(dir, base+upSuffix)
	mf.DownPath = filepath.Join(dir, base+downSuffix)

	if err := writeStub(mf.UpPath, upHeader(mf)); err != nil {
		return nil, err
	}
	if err := writeStub(mf.DownPath, downHeader(mf)); err != nil {
		// Do not leave a half-created pair behind.
		_ = os.Remove(mf.UpPath)
		return nil, err
	}
	return mf, nil
}

func upHeader(mf *MigrationFile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- %s (created %s)\n", mf.Name, mf.Timestamp)
	if mf.Description != "" {
		fmt.Fprintf(&b, "-- %s\n", mf.Description)
	}
	b.WriteString("\n-- Forward migration SQL goes here.\n")
	return b.String()
}

func downHeader(mf *MigrationFile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- Rollback of %s (created %s)\n", mf.Name, mf.Timestamp)
	b.WriteString("\n-- Rollback SQL goes here.\n")
	return b.String()
}

func writeStub(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// slugify lowercases the name and collapses runs of separators into single
// underscores so the result is safe in a file name.
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			s := b.String()
			if s != "" && !strings.HasSuffix(s, "_") {
				b.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// ListMigrations lists the base names of migration pairs in dir, one entry per
// up file. A missing directory yields an empty list rather than an error.
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	seen := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), upSuffix) {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), upSuffix)
		if _, ok := seen[base]; ok {
			continue
		}
		seen[base] = struct{}{}
		names = append(names, base)
	}
	return names, nil
}
