package layout

// 排版计划统一使用 pt；canvas 渲染器内部使用 mm，在边界处换算。

// Conversion constants between pt and mm.
const (
	PtToMm = 25.4 / 72
	MmToPt = 72 / 25.4
)

// ToMM converts points to millimeters.
func ToMM(pt float64) float64 { return pt * PtToMm }

// ToPT converts millimeters to points.
func ToPT(mm float64) float64 { return mm * MmToPt }

// Rect 描述页面上的矩形区域（pt，原点左下角）。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ContentArea 返回正文可用区域：四周各留出一个边距。
func (c Config) ContentArea() Rect {
	return Rect{
		X:      c.Margin,
		Y:      c.Margin,
		Width:  c.PageWidth - 2*c.Margin,
		Height: c.PageHeight - 2*c.Margin,
	}
}

// LinesPerPage 估算单页可容纳的正文行数，与 Paginate 的换页判定一致。
func (c Config) LinesPerPage() int {
	lh := c.LineHeight()
	if !(lh > 0) {
		return 0
	}
	n := 0
	for y := c.PageHeight - c.Margin - c.FontSize; y > c.Margin; y -= lh {
		n++
	}
	return n
}
