package layout

import "fmt"

// Paginate 将折行结果依次放入页面，空间用尽时换页，并为每页生成页眉/页脚指令。
// 即使没有任何行，也至少输出一页。
func Paginate(lines []Line, cfg Config, m Measurer) *Plan {
	pc := newPageCollector(cfg, m)
	lineHeight := cfg.LineHeight()

	pc.newPage()
	y := pc.firstBaseline()
	for _, ln := range lines {
		if y <= cfg.Margin {
			pc.newPage()
			y = pc.firstBaseline()
		}
		pc.place(ln, y)
		y -= lineHeight
	}

	return &Plan{
		PageWidth:  cfg.PageWidth,
		PageHeight: cfg.PageHeight,
		Margin:     cfg.Margin,
		FontSize:   cfg.FontSize,
		LineHeight: lineHeight,
		Font:       cfg.Font,
		Pages:      pc.pages,
	}
}

// pageCollector 负责开新页并把行追加到当前页。
type pageCollector struct {
	cfg     Config
	measure Measurer
	pages   []Page
}

func newPageCollector(cfg Config, m Measurer) *pageCollector {
	return &pageCollector{cfg: cfg, measure: m}
}

// newPage 追加一页，并立即写入页眉/页脚指令（与正文内容无关）。
func (pc *pageCollector) newPage() *Page {
	number := len(pc.pages) + 1
	pc.pages = append(pc.pages, Page{
		Number: number,
		Lines:  []PlacedLine{},
		Header: pc.header(),
		Footer: pc.footer(number),
	})
	return pc.curr()
}

func (pc *pageCollector) curr() *Page {
	if len(pc.pages) == 0 {
		return pc.newPage()
	}
	return &pc.pages[len(pc.pages)-1]
}

// firstBaseline 为首行基线：上边距下方再预留一个字号的高度。
func (pc *pageCollector) firstBaseline() float64 {
	return pc.cfg.PageHeight - pc.cfg.Margin - pc.cfg.FontSize
}

func (pc *pageCollector) place(ln Line, y float64) {
	page := pc.curr()
	page.Lines = append(page.Lines, PlacedLine{Line: ln, X: pc.cfg.Margin, Y: y})
}

func (pc *pageCollector) directiveSize() float64 { return pc.cfg.FontSize - 2 }

func (pc *pageCollector) header() *Directive {
	if pc.cfg.HeaderTitle == "" {
		return nil
	}
	return &Directive{
		Text:  pc.cfg.HeaderTitle,
		X:     pc.cfg.Margin,
		Y:     pc.cfg.PageHeight - pc.cfg.Margin + pc.cfg.FontSize/2,
		Size:  pc.directiveSize(),
		Color: MutedColor,
	}
}

// footer 生成右对齐的页码，x 依赖页码文本的实际宽度。
func (pc *pageCollector) footer(number int) *Directive {
	if !pc.cfg.ShowPageNumbers {
		return nil
	}
	text := PageLabel(number)
	size := pc.directiveSize()
	var width float64
	if pc.measure != nil {
		width = pc.measure.Measure(text, size)
	}
	return &Directive{
		Text:  text,
		X:     pc.cfg.PageWidth - pc.cfg.Margin - width,
		Y:     pc.cfg.Margin / 2,
		Size:  size,
		Color: MutedColor,
	}
}

// PageLabel 返回页脚中显示的页码文本。
func PageLabel(n int) string { return fmt.Sprintf("Page %d", n) }
