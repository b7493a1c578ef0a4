package source

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"

	"github.com/ByLCY/text2pdf/fonts"
	"github.com/ByLCY/text2pdf/layout"
	canvasrenderer "github.com/ByLCY/text2pdf/renderer/canvas"
)

func extract(t *testing.T, filename, input string, opts Options) string {
	t.Helper()
	got, err := ExtractFile(filename, strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("ExtractFile(%s) error: %v", filename, err)
	}
	return got
}

func TestForFileRejectsUnknownExtension(t *testing.T) {
	for _, name := range []string{"slides.pptx", "noext", "archive.tar.gz"} {
		if _, err := ForFile(name, Options{}); !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("ForFile(%q) expected ErrUnsupportedFormat, got %v", name, err)
		}
	}
	for _, ext := range Extensions() {
		if _, err := ForFile("doc"+strings.ToUpper(ext), Options{}); err != nil {
			t.Fatalf("extension %s should be accepted case-insensitively: %v", ext, err)
		}
	}
}

func TestPlainTextPassesThrough(t *testing.T) {
	in := "\ufeffLine one\r\n\r\n  indented\n"
	if got := extract(t, "notes.txt", in, Options{}); got != "Line one\r\n\r\n  indented\n" {
		t.Fatalf("unexpected text %q", got)
	}
}

const sampleMarkdown = "# Title\n\nSome *emphasis* and `code`.\nSecond line.\n\n- one\n- two\n\n```go\nx := 1\n```\n"

func TestMarkdownRawByDefault(t *testing.T) {
	if got := extract(t, "README.md", sampleMarkdown, Options{}); got != sampleMarkdown {
		t.Fatalf("markdown should pass through unchanged, got %q", got)
	}
}

func TestMarkdownStripped(t *testing.T) {
	got := extract(t, "README.markdown", sampleMarkdown, Options{StripMarkdown: true})
	want := "Title\n\nSome emphasis and code.\nSecond line.\n\n- one\n- two\n\nx := 1"
	if got != want {
		t.Fatalf("stripped markdown mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestHTMLVisibleText(t *testing.T) {
	in := `<html><head><title>T</title><style>p{color:red}</style></head><body>` +
		`<h1>Title</h1><p>Hello   <b>world</b>.</p><script>alert(1)</script>` +
		`<ul><li>one</li><li>two</li></ul><p>line<br>break</p></body></html>`
	got := extract(t, "page.html", in, Options{})
	want := "Title\n\nHello world.\n\none\ntwo\n\nline\nbreak"
	if got != want {
		t.Fatalf("html text mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestDOCXParagraphs(t *testing.T) {
	doc := docx.New().WithDefaultTheme()
	doc.AddParagraph().AddText("First paragraph")
	doc.AddParagraph().AddText("Second paragraph")
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}
	got, err := ExtractFile("letter.docx", &buf, Options{})
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	if got != "First paragraph\nSecond paragraph" {
		t.Fatalf("docx text = %q", got)
	}
}

func TestCorruptBinaryFormats(t *testing.T) {
	for _, name := range []string{"broken.docx", "broken.pdf"} {
		_, err := ExtractFile(name, strings.NewReader("definitely not a document"), Options{})
		if !errors.Is(err, ErrExtract) {
			t.Fatalf("%s: expected ErrExtract, got %v", name, err)
		}
	}
}

func TestPDFFromRenderer(t *testing.T) {
	r, err := canvasrenderer.New(fonts.SansSerif)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	cfg := layout.Config{PageWidth: 612, PageHeight: 792, Margin: 72, FontSize: 12, LineSpacing: 1.4}
	plan, err := layout.Build(strings.Repeat("Hello PDF\n", 60), cfg, r)
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	data, err := r.Render(plan)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := ExtractFile("out.pdf", bytes.NewReader(data), Options{}); err != nil {
		t.Fatalf("extract rendered pdf: %v", err)
	}
}
