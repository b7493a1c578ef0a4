package convert

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/text2pdf/fonts"
	"github.com/ByLCY/text2pdf/layout"
)

// Defaults applied when an option is not set.
const (
	DefaultPageSize     = layout.A4
	DefaultOrientation  = layout.Portrait
	DefaultFontFamily   = fonts.Serif
	DefaultFontSize     = 12.0
	DefaultLineSpacing  = 1.4
	DefaultMarginPreset = layout.MarginNormal

	MaxHeaderTitleLength = 120
)

// Options are the user-facing document settings. Empty strings and nil
// pointers mean "not set" so that template and request values can be merged.
type Options struct {
	PageSize        string   `json:"pageSize,omitempty" yaml:"pageSize,omitempty"`
	Orientation     string   `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	FontFamily      string   `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	FontSize        *float64 `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	LineSpacing     *float64 `json:"lineSpacing,omitempty" yaml:"lineSpacing,omitempty"`
	MarginPreset    string   `json:"marginPreset,omitempty" yaml:"marginPreset,omitempty"`
	ShowPageNumbers *bool    `json:"showPageNumbers,omitempty" yaml:"showPageNumbers,omitempty"`
	HeaderTitle     string   `json:"headerTitle,omitempty" yaml:"headerTitle,omitempty"`
}

// Float and Bool return pointers for option literals.
func Float(v float64) *float64 { return &v }
func Bool(v bool) *bool          { return &v }

// Validate checks every set field and reports all problems at once.
func (o Options) Validate() error {
	var errs []error
	if o.PageSize != "" {
		if _, ok := layout.LookupPageSize(layout.PageSize(o.PageSize), layout.Portrait); !ok {
			errs = append(errs, optionErr("pageSize", "must be one of %s, got %q", joinNames(layout.PageSizes()), o.PageSize))
		}
	}
	if o.Orientation != "" && !layout.ValidOrientation(layout.Orientation(o.Orientation)) {
		errs = append(errs, optionErr("orientation", "must be portrait or landscape, got %q", o.Orientation))
	}
	if o.FontFamily != "" {
		if _, err := fonts.ParseFamily(o.FontFamily); err != nil {
			errs = append(errs, optionErr("fontFamily", "must be serif, sans-serif or monospace, got %q", o.FontFamily))
		}
	}
	if o.FontSize != nil && (*o.FontSize < layout.MinFontSize || *o.FontSize > layout.MaxFontSize) {
		errs = append(errs, optionErr("fontSize", "must be between %g and %g, got %g",
			layout.MinFontSize, layout.MaxFontSize, *o.FontSize))
	}
	if o.LineSpacing != nil && (*o.LineSpacing < layout.MinLineSpacing || *o.LineSpacing > layout.MaxLineSpacing) {
		errs = append(errs, optionErr("lineSpacing", "must be between %g and %g, got %g",
			layout.MinLineSpacing, layout.MaxLineSpacing, *o.LineSpacing))
	}
	if o.MarginPreset != "" {
		if _, ok := layout.LookupMargin(layout.MarginPreset(o.MarginPreset)); !ok {
			errs = append(errs, optionErr("marginPreset", "must be one of %s, got %q", joinNames(layout.MarginPresets()), o.MarginPreset))
		}
	}
	if n := utf8.RuneCountInString(o.HeaderTitle); n > MaxHeaderTitleLength {
		errs = append(errs, optionErr("headerTitle", "must be at most %d characters, got %d", MaxHeaderTitleLength, n))
	}
	return errors.Join(errs...)
}

func joinNames[T ~string](names []T) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}

// Merge returns o with every field set in override replacing its value.
func (o Options) Merge(override Options) Options {
	out := o
	if override.PageSize != "" {
		out.PageSize = override.PageSize
	}
	if override.Orientation != "" {
		out.Orientation = override.Orientation
	}
	if override.FontFamily != "" {
		out.FontFamily = override.FontFamily
	}
	if override.FontSize != nil {
		out.FontSize = override.FontSize
	}
	if override.LineSpacing != nil {
		out.LineSpacing = override.LineSpacing
	}
	if override.MarginPreset != "" {
		out.MarginPreset = override.MarginPreset
	}
	if override.ShowPageNumbers != nil {
		out.ShowPageNumbers = override.ShowPageNumbers
	}
	if override.HeaderTitle != "" {
		out.HeaderTitle = override.HeaderTitle
	}
	return out
}

// Resolve fills defaults, clamps numeric values, and resolves presets into an
// orientation-aware layout.Config. Unknown names fall back to defaults; call
// Validate first to reject them instead.
func (o Options) Resolve() (layout.Config, fonts.Family) {
	orientation := layout.Orientation(o.Orientation)
	if !layout.ValidOrientation(orientation) {
		orientation = DefaultOrientation
	}
	size, ok := layout.LookupPageSize(layout.PageSize(o.PageSize), orientation)
	if !ok {
		size, _ = layout.LookupPageSize(DefaultPageSize, orientation)
	}
	margin, ok := layout.LookupMargin(layout.MarginPreset(o.MarginPreset))
	if !ok {
		margin, _ = layout.LookupMargin(DefaultMarginPreset)
	}
	family, err := fonts.ParseFamily(o.FontFamily)
	if err != nil {
		family = DefaultFontFamily
	}

	fontSize := DefaultFontSize
	if o.FontSize != nil {
		fontSize = *o.FontSize
	}
	lineSpacing := DefaultLineSpacing
	if o.LineSpacing != nil {
		lineSpacing = *o.LineSpacing
	}

	cfg := layout.Config{
		PageWidth:   size.Width,
		PageHeight:  size.Height,
		Margin:      margin,
		FontSize:    layout.ClampFontSize(fontSize),
		LineSpacing: layout.ClampLineSpacing(lineSpacing),
		HeaderTitle: o.HeaderTitle,
		Font:        string(family),
	}
	if o.ShowPageNumbers != nil {
		cfg.ShowPageNumbers = *o.ShowPageNumbers
	}
	return cfg, family
}
