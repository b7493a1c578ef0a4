package layout

import "strings"

// PageSize 是预置纸张名称。
type PageSize string

const (
	A4     PageSize = "A4"
	Letter PageSize = "Letter"
	Legal  PageSize = "Legal"
)

// Orientation 为纸张方向。
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// MarginPreset 是统一边距预设。
type MarginPreset string

const (
	MarginNormal MarginPreset = "normal"
	MarginNarrow MarginPreset = "narrow"
	MarginWide   MarginPreset = "wide"
)

// Size 为纸张宽高（pt）。
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// 纸张尺寸（pt）。
var pageSizes = map[PageSize]Size{
	A4:     {Width: 595.28, Height: 841.89}, // 8.27 x 11.69 in
	Letter: {Width: 612, Height: 792},       // 8.5 x 11 in
	Legal:  {Width: 612, Height: 1008},      // 8.5 x 14 in
}

// 边距（pt）。
var margins = map[MarginPreset]float64{
	MarginNormal: 72,  // 1 in
	MarginNarrow: 36,  // 0.5 in
	MarginWide:   108, // 1.5 in
}

// 字号与行距的取值范围。
const (
	MinFontSize    = 8.0
	MaxFontSize    = 18.0
	MinLineSpacing = 1.0
	MaxLineSpacing = 2.5
)

// PageSizes 返回所有预置纸张名称，顺序固定。
func PageSizes() []PageSize { return []PageSize{A4, Letter, Legal} }

// MarginPresets 返回所有边距预设名称，顺序固定。
func MarginPresets() []MarginPreset { return []MarginPreset{MarginNormal, MarginNarrow, MarginWide} }

// LookupPageSize 按名称（大小写不敏感）查找纸张尺寸，并按方向交换宽高。
func LookupPageSize(name PageSize, o Orientation) (Size, bool) {
	for key, size := range pageSizes {
		if strings.EqualFold(string(key), string(name)) {
			if o == Landscape {
				size.Width, size.Height = size.Height, size.Width
			}
			return size, true
		}
	}
	return Size{}, false
}

// LookupMargin 按名称查找边距预设。
func LookupMargin(p MarginPreset) (float64, bool) {
	m, ok := margins[MarginPreset(strings.ToLower(string(p)))]
	return m, ok
}

// ValidOrientation reports whether o names a supported orientation.
func ValidOrientation(o Orientation) bool { return o == Portrait || o == Landscape }

// Clamp 将 v 限制在 [lo, hi] 区间内。
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ClampFontSize(v float64) float64    { return Clamp(v, MinFontSize, MaxFontSize) }
func ClampLineSpacing(v float64) float64 { return Clamp(v, MinLineSpacing, MaxLineSpacing) }
