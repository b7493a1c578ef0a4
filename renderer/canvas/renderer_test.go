package canvasrenderer

import (
	"bytes"
	"math"
	"strings"
	"testing"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/ByLCY/text2pdf/fonts"
	"github.com/ByLCY/text2pdf/layout"
)

func newRenderer(t *testing.T, family fonts.Family) *Renderer {
	t.Helper()
	r, err := New(family)
	if err != nil {
		t.Fatalf("New(%s) error: %v", family, err)
	}
	return r
}

func TestMeasureGrowsWithTextAndSize(t *testing.T) {
	for _, family := range fonts.Families() {
		r := newRenderer(t, family)
		short := r.Measure("Hello", 12)
		long := r.Measure("Hello World", 12)
		if short <= 0 || long <= short {
			t.Fatalf("%s: unexpected widths short=%g long=%g", family, short, long)
		}
		double := r.Measure("Hello", 24)
		if diff := math.Abs(double - 2*short); diff > 0.01*double {
			t.Fatalf("%s: width should scale with size: 12pt=%g 24pt=%g", family, short, double)
		}
		if got := r.Measure("", 12); got != 0 {
			t.Fatalf("%s: empty string width = %g", family, got)
		}
	}
}

func TestMeasureMonospaceIsUniform(t *testing.T) {
	r := newRenderer(t, fonts.Monospace)
	narrow := r.Measure("iiii", 12)
	wide := r.Measure("WWWW", 12)
	if math.Abs(narrow-wide) > 1e-6 {
		t.Fatalf("monospace widths differ: %g vs %g", narrow, wide)
	}
}

// TestBreakLinesWidthLimit 验证使用真实字体度量时每行宽度不超过限制（pt）。
func TestBreakLinesWidthLimit(t *testing.T) {
	r := newRenderer(t, fonts.Serif)
	const limit = 120.0
	content := "The quick brown fox jumps over the lazy dog " +
		strings.Repeat("a", 80) + " and then some more words to wrap."
	lines := layout.BreakLines(content, limit, r, 12)
	if len(lines) < 3 {
		t.Fatalf("expected wrapping into several lines, got %d", len(lines))
	}
	for i, ln := range lines {
		if w := r.Measure(ln.Text, 12); w-limit > 1e-6 {
			t.Fatalf("line %d %q width %g exceeds %g", i, ln.Text, w, limit)
		}
	}
}

func TestRenderProducesPagedPDF(t *testing.T) {
	r := newRenderer(t, fonts.SansSerif)
	cfg := layout.Config{
		PageWidth:       612,
		PageHeight:      792,
		Margin:          72,
		FontSize:        12,
		LineSpacing:     1.4,
		HeaderTitle:     "Report",
		ShowPageNumbers: true,
	}
	perPage := cfg.LinesPerPage()
	text := strings.Repeat("Line of body text\n", perPage*2+5)
	plan, err := layout.Build(text, cfg, r)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(plan.Pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(plan.Pages))
	}
	plan.Meta = layout.DocumentMeta{Title: "Report"}

	data, err := r.Render(plan)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not start with %%PDF: %q", data[:min(8, len(data))])
	}
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read back PDF: %v", err)
	}
	if got := reader.NumPage(); got != 3 {
		t.Fatalf("PDF has %d pages, want 3", got)
	}
}

func TestRenderRejectsEmptyPlan(t *testing.T) {
	r := newRenderer(t, fonts.Serif)
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil plan")
	}
	if _, err := r.Render(&layout.Plan{PageWidth: 100, PageHeight: 100}); err == nil {
		t.Fatalf("expected error for plan without pages")
	}
}
