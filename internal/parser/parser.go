package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/slidedeck/internal/hast"
)

// Document is a parsed content file.
type Document struct {
	Title string
	Lang  string
	Meta  map[string]any // Front matter, if any.
	Root  *hast.Root
}

// Parser converts raw content bytes into a document tree.
type Parser interface {
	Parse(r io.Reader, filename string) (*Document, error)
}

// Options tune parsing.
type Options struct {
	// SanitizeHTML runs raw HTML blocks through a UGC sanitizing policy.
	SanitizeHTML bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdx":      true,
	".html":     true,
	".htm":      true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownParser{Options: opts}, nil
	case ".mdx":
		return &MarkdownParser{Options: opts, MDX: true}, nil
	case ".html", ".htm":
		return &HTMLParser{Options: opts}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// titleFromFilename strips directories and the extension.
func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
