package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ByLCY/text2pdf/binding"
	"github.com/ByLCY/text2pdf/fonts"
	"github.com/ByLCY/text2pdf/layout"
	"github.com/ByLCY/text2pdf/renderer"
	canvasrenderer "github.com/ByLCY/text2pdf/renderer/canvas"
)

// DefaultMaxTextLength is the character cap applied by New.
const DefaultMaxTextLength = 50_000

const creator = "papyrus text2pdf"

// RendererFactory returns a fresh measuring renderer for one conversion.
type RendererFactory func(family fonts.Family) (renderer.MeasuringRenderer, error)

// Request is a single text-to-PDF conversion.
type Request struct {
	Text     string
	Filename string
	Options  Options
	// Data, when non-nil, fills ${path} placeholders in Text and HeaderTitle.
	Data any
}

// Result holds the rendered document.
type Result struct {
	PDF      []byte
	Filename string
	Pages    int
	Plan     *layout.Plan
}

// Converter validates requests and runs layout and rendering. It holds no
// per-conversion state and is safe for concurrent use.
type Converter struct {
	newRenderer   RendererFactory
	log           *slog.Logger
	maxTextLength int
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger used for per-conversion debug records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMaxTextLength caps input length in characters; n <= 0 disables the cap.
func WithMaxTextLength(n int) Option {
	return func(c *Converter) { c.maxTextLength = n }
}

// WithRendererFactory replaces the canvas renderer.
func WithRendererFactory(f RendererFactory) Option {
	return func(c *Converter) {
		if f != nil {
			c.newRenderer = f
		}
	}
}

// New creates a Converter backed by the canvas renderer.
func New(opts ...Option) *Converter {
	c := &Converter{
		newRenderer:   canvasFactory,
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxTextLength: DefaultMaxTextLength,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxTextLength returns the configured character cap (0 means none).
func (c *Converter) MaxTextLength() int { return c.maxTextLength }

func canvasFactory(family fonts.Family) (renderer.MeasuringRenderer, error) {
	r, err := canvasrenderer.New(family)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Plan validates the request and returns its layout plan without rendering.
// Convert lays out through the same path, so a preview always matches the
// exported document.
func (c *Converter) Plan(ctx context.Context, req Request) (*layout.Plan, error) {
	p, err := c.plan(ctx, req)
	if err != nil {
		return nil, err
	}
	return p.plan, nil
}

// Convert validates the request, lays it out and renders a PDF.
func (c *Converter) Convert(ctx context.Context, req Request) (*Result, error) {
	p, err := c.plan(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := p.renderer.Render(p.plan)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return &Result{
		PDF:      data,
		Filename: p.filename,
		Pages:    len(p.plan.Pages),
		Plan:     p.plan,
	}, nil
}

// planned 是一次排版的中间结果，Convert 在此基础上渲染。
type planned struct {
	plan     *layout.Plan
	renderer renderer.MeasuringRenderer
	filename string
}

func (c *Converter) plan(ctx context.Context, req Request) (*planned, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}
	if err := req.Options.Validate(); err != nil {
		return nil, err
	}

	text := req.Text
	opts := req.Options
	if req.Data != nil {
		text = binding.Interpolate(text, req.Data)
		opts.HeaderTitle = binding.Interpolate(opts.HeaderTitle, req.Data)
	}
	// 长度上限作用于占位符展开后的文本
	if err := c.checkText(text); err != nil {
		return nil, err
	}

	cfg, family := opts.Resolve()
	r, err := c.newRenderer(family)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	plan, err := layout.Build(text, cfg, r)
	if err != nil {
		return nil, err
	}
	filename := FilenameFor(req.Filename, text)
	title := cfg.HeaderTitle
	if title == "" {
		title = strings.TrimSuffix(filename, ".pdf")
	}
	plan.Meta = layout.DocumentMeta{Title: title, Creator: creator}

	c.log.Debug("layout complete",
		"pages", len(plan.Pages),
		"lines", plan.LineCount(),
		"font", family,
		"fontSize", cfg.FontSize,
	)
	return &planned{plan: plan, renderer: r, filename: filename}, nil
}

func (c *Converter) checkText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if c.maxTextLength > 0 {
		if n := utf8.RuneCountInString(text); n > c.maxTextLength {
			return fmt.Errorf("%w: %d characters (max %d)", ErrTextTooLong, n, c.maxTextLength)
		}
	}
	return nil
}

var englishPrinter = message.NewPrinter(language.English)

// LimitMessage renders the user-facing over-limit message, e.g.
// "Text exceeds 50,000 character limit".
func LimitMessage(limit int) string {
	return englishPrinter.Sprintf("Text exceeds %d character limit", limit)
}
