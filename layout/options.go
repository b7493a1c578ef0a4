package layout

import (
	"errors"
	"fmt"
)

// Measurer 返回字符串在给定字号（pt）下的排版宽度（pt）。
// 实现必须是确定性的；同一实例不保证可被并发转换共享。
type Measurer interface {
	Measure(s string, size float64) float64
}

// MeasureFunc adapts a plain function to the Measurer interface.
type MeasureFunc func(s string, size float64) float64

// Measure implements Measurer.
func (f MeasureFunc) Measure(s string, size float64) float64 { return f(s, size) }

var (
	ErrInvalidGeometry = errors.New("layout: invalid page geometry")
	ErrInvalidConfig   = errors.New("layout: invalid config")
	ErrNoMeasurer      = errors.New("layout: missing measurer")
)

// Config 是一次转换的不可变排版参数。页面宽高已按方向处理，单位为 pt。
type Config struct {
	PageWidth       float64 `json:"pageWidth"`
	PageHeight      float64 `json:"pageHeight"`
	Margin          float64 `json:"margin"`
	FontSize        float64 `json:"fontSize"`
	LineSpacing     float64 `json:"lineSpacing"`
	HeaderTitle     string  `json:"headerTitle,omitempty"`
	ShowPageNumbers bool    `json:"showPageNumbers"`
	// Font 仅用于记录渲染器字体句柄名称，引擎本身不依赖它。
	Font string `json:"font,omitempty"`
}

// LineHeight 返回相邻两行基线之间的距离。
func (c Config) LineHeight() float64 { return c.FontSize * c.LineSpacing }

// MaxLineWidth 返回正文可用宽度。
func (c Config) MaxLineWidth() float64 { return c.PageWidth - 2*c.Margin }

// Validate 检查页面几何与字号参数。内容区域不为正时分页将无法推进，因此直接拒绝。
func (c Config) Validate() error {
	if !(c.PageWidth > 0) || !(c.PageHeight > 0) {
		return fmt.Errorf("%w: page size %gx%g", ErrInvalidGeometry, c.PageWidth, c.PageHeight)
	}
	if !(c.Margin > 0) {
		return fmt.Errorf("%w: margin %g", ErrInvalidGeometry, c.Margin)
	}
	if c.PageWidth-2*c.Margin <= 0 || c.PageHeight-2*c.Margin <= 0 {
		return fmt.Errorf("%w: margin %g leaves no content area on %gx%g page",
			ErrInvalidGeometry, c.Margin, c.PageWidth, c.PageHeight)
	}
	if !(c.FontSize > 0) {
		return fmt.Errorf("%w: font size %g", ErrInvalidConfig, c.FontSize)
	}
	if !(c.LineSpacing > 0) {
		return fmt.Errorf("%w: line spacing %g", ErrInvalidConfig, c.LineSpacing)
	}
	return nil
}
