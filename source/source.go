// Package source extracts plain text from uploaded documents.
package source

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrExtract           = errors.New("text extraction failed")
)

// Extractor turns a document into the plain text fed to the layout engine.
type Extractor interface {
	Extract(r io.Reader) (string, error)
}

// Options tune extraction.
type Options struct {
	// StripMarkdown renders Markdown to plain text instead of passing it through.
	StripMarkdown bool
}

var extensions = map[string]func(Options) Extractor{
	".txt":      func(Options) Extractor { return plainText{} },
	".text":     func(Options) Extractor { return plainText{} },
	".md":       newMarkdown,
	".markdown": newMarkdown,
	".html":     func(Options) Extractor { return htmlText{} },
	".htm":      func(Options) Extractor { return htmlText{} },
	".docx":     func(Options) Extractor { return docxText{} },
	".pdf":      func(Options) Extractor { return pdfText{} },
}

// Extensions lists the accepted file extensions.
func Extensions() []string {
	return []string{".txt", ".text", ".md", ".markdown", ".html", ".htm", ".docx", ".pdf"}
}

// ForFile picks an extractor by the file's extension.
func ForFile(filename string, opts Options) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	newExtractor, ok := extensions[ext]
	if !ok {
		if ext == "" {
			ext = "(none)"
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return newExtractor(opts), nil
}

// ExtractFile is shorthand for ForFile followed by Extract.
func ExtractFile(filename string, r io.Reader, opts Options) (string, error) {
	ex, err := ForFile(filename, opts)
	if err != nil {
		return "", err
	}
	return ex.Extract(r)
}

func extractErr(kind string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrExtract, kind, err)
}

type plainText struct{}

func (plainText) Extract(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", extractErr("text", err)
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}
