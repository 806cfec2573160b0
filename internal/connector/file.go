package connector

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/omnibridge/omnibridge/internal/bridge"
)

// DefaultFileLayer is the layer indexed evidence files are filed into.
const DefaultFileLayer = "legal_evidence"

// File indexes files under an evidence root directory, producing one entry
// per file with its relative path, size, and content hash. Files matched
// by the root's .gitignore and hard-ignored directories are skipped.
type File struct {
	Root   string
	Layer  string // defaults to DefaultFileLayer
	Source string // defaults to "FILEBOSS"
}

// Domain implements Connector.
func (f *File) Domain() string {
	if f.Layer == "" {
		return DefaultFileLayer
	}
	return f.Layer
}

// SourceName identifies the evidence source entries are attributed to.
func (f *File) SourceName() string {
	if f.Source == "" {
		return "FILEBOSS"
	}
	return f.Source
}

// Ingest walks the evidence root. A missing root is an ingestion failure;
// individual unreadable files are skipped.
func (f *File) Ingest(ctx context.Context) ([]bridge.Entry, error) {
	source := f.SourceName()
	info, err := os.Stat(f.Root)
	if err != nil {
		return nil, fmt.Errorf("file connector: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("file connector: root %q is not a directory", f.Root)
	}

	ignore := NewIgnoreMatcher(f.Root)
	var entries []bridge.Entry
	err = filepath.WalkDir(f.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries.
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, err := filepath.Rel(f.Root, path)
		if err != nil || rel == "." {
			return nil
		}
		if d.IsDir() {
			if HardIgnore(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if ignore.Match(rel) {
			return nil
		}

		size, hash, err := hashFile(path)
		if err != nil {
			return nil
		}
		e := bridge.NewEntry(f.Domain(), source, "Indexed file: "+filepath.ToSlash(rel)).
			WithCategory("file").
			WithMetadata("path", filepath.ToSlash(rel)).
			WithMetadata("size", fmt.Sprintf("%d", size)).
			WithMetadata("sha256", hash)
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("file connector: walk %s: %w", f.Root, err)
	}
	return entries, nil
}

// hashFile returns the file's size and SHA-256 digest.
func hashFile(path string) (int64, string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer fh.Close()

	h := sha256.New()
	n, err := io.Copy(h, fh)
	if err != nil {
		return 0, "", err
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}
