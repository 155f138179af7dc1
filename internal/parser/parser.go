package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Parser turns the raw bytes of an uploaded file into plain text.
type Parser interface {
	CanParse(filename string) bool
	Parse(content []byte) (string, error)
}

// ErrUnsupported indicates a format is not accepted for upload.
var ErrUnsupported = errors.New("unsupported document format")

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ParseFile reads path and returns its text content.
func ParseFile(path string) (string, error) {
	if !Supported(path) {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return ParseBytes(path, data)
}

// ParseBytes selects a parser by filename and parses data, e.g. an HTTP upload.
func ParseBytes(filename string, data []byte) (string, error) {
	for _, p := range registry {
		if p.CanParse(filename) {
			return p.Parse(data)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(filename))
}

// Supported reports whether filename has an accepted extension.
func Supported(filename string) bool {
	for _, p := range registry {
		if p.CanParse(filename) {
			return true
		}
	}
	return false
}

// Extensions lists the accepted extensions, sorted.
func Extensions() []string {
	out := make([]string, 0, len(textExts)+6)
	out = append(out, textExts...)
	out = append(out, ".md", ".markdown", ".docx", ".html", ".htm", ".pdf")
	sort.Strings(out)
	return out
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func init() {
	Register(textParser{})
	Register(markdownParser{})
	Register(docxParser{})
	Register(htmlParser{})
	Register(pdfParser{})
}
