package layout

// 该文件定义排版计划（Plan）及其组成部分，供分页计算、渲染器与调试 JSON 共用。
// 所有坐标与尺寸均以 pt 为单位，原点位于页面左下角（与 PDF 用户空间一致）。

// Plan 是引擎的输出：逐页、逐行的排版结果，以及渲染所需的页面几何信息。
type Plan struct {
	PageWidth  float64      `json:"pageWidth"`
	PageHeight float64      `json:"pageHeight"`
	Margin     float64      `json:"margin"`
	FontSize   float64      `json:"fontSize"`
	LineHeight float64      `json:"lineHeight"`
	Font       string       `json:"font,omitempty"`
	Pages      []Page       `json:"pages"`
	Meta       DocumentMeta `json:"meta"`
}

// Page 记录页码、已定位的正文行以及页眉/页脚指令。
// Header/Footer 为 nil 表示该页不绘制对应内容。
type Page struct {
	Number int          `json:"number"`
	Lines  []PlacedLine `json:"lines"`
	Header *Directive   `json:"header,omitempty"`
	Footer *Directive   `json:"footer,omitempty"`
}

// Line 是折行结果中的一行。Text 为空表示空段落占位行。
// Width 为折行时已测得的宽度，空行为 0。
type Line struct {
	Text  string  `json:"text"`
	Width float64 `json:"width"`
}

// Blank reports whether the line is the empty-paragraph sentinel.
func (l Line) Blank() bool { return l.Text == "" }

// PlacedLine 是已分配基线坐标的正文行。
type PlacedLine struct {
	Line
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Directive 描述一次页眉或页脚文本绘制：文本不折行、不截断。
type Directive struct {
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Color Color   `json:"color"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

var (
	// TextColor 为正文颜色。
	TextColor = Color{}
	// MutedColor 为页眉/页脚使用的灰色（约 0.3 灰度）。
	MutedColor = Color{R: 77, G: 77, B: 77}
)

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title   string `json:"title,omitempty"`
	Subject string `json:"subject,omitempty"`
	Creator string `json:"creator,omitempty"`
}

// LineCount 返回计划中的正文行总数（含空行）。
func (p *Plan) LineCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, page := range p.Pages {
		n += len(page.Lines)
	}
	return n
}
