// Package output handles file naming and writing for mdpipe outputs.
// Single-page conversions are named after the URL (example_com_docs.md),
// site conversions mirror the URL path structure, and local renders keep
// the source file's base name.
package output

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Writer writes rendered output to disk. It is safe for concurrent use as
// long as callers write distinct paths.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// WritePage writes a single converted page.
// Filename: domain_path.ext (e.g., example_com_docs_intro.html).
func (w *Writer) WritePage(rawURL string, data []byte, ext string) (string, error) {
	return w.write(filenameFromURL(rawURL)+ext, data)
}

// WriteSite writes one page of a site conversion, mirroring the URL path.
// Example: https://site.com/docs/intro → <dir>/docs/intro.html
func (w *Writer) WriteSite(rawURL string, data []byte, ext string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	urlPath := strings.Trim(parsed.Path, "/")
	if urlPath == "" {
		urlPath = "index"
	}
	rel := filepath.FromSlash(urlPath)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("refusing to write outside %s: %q", w.OutputDir, parsed.Path)
	}
	return w.write(rel+ext, data)
}

// WriteSource writes the output for a local Markdown file, replacing its
// extension. Stdin ("-" or "") is written as "stdin".
func (w *Writer) WriteSource(sourcePath string, data []byte, ext string) (string, error) {
	base := filepath.Base(sourcePath)
	if sourcePath == "" || sourcePath == "-" {
		base = "stdin"
	}
	return w.write(strings.TrimSuffix(base, filepath.Ext(base))+ext, data)
}

func (w *Writer) write(rel string, data []byte) (string, error) {
	fullPath := filepath.Join(w.OutputDir, rel)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", fullPath, err)
	}
	return fullPath, nil
}

// filenameFromURL converts a URL into a flat filename.
// Example: https://example.com/docs/intro → example_com_docs_intro
func filenameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return sanitize(rawURL)
	}

	parts := []string{sanitize(parsed.Host)}
	path := strings.Trim(parsed.Path, "/")
	if path != "" {
		for seg := range strings.SplitSeq(path, "/") {
			parts = append(parts, sanitize(seg))
		}
	}
	return strings.Join(parts, "_")
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
