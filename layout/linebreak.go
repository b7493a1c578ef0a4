package layout

import "strings"

// breakState 是单个词在折行过程中的状态。
type breakState int

const (
	stateAccumulating breakState = iota // 尝试把词拼入当前行
	stateFlushing                       // 当前行放不下，输出当前行
	stateCharFallback                   // 词本身超宽，按字符拆分
	stateDone
)

// BreakLines 将文本按段落与宽度拆成显示行。
// 贪心策略：优先在空白处断行；单个词超过 maxWidth 时退化为按码点拆分。
// 空段落（或仅含空白的段落）输出一个空行，不调用 Measure。
// 非法 UTF-8 字节先统一替换为 U+FFFD，两条拆分路径因此看到同一份文本。
func BreakLines(text string, maxWidth float64, m Measurer, fontSize float64) []Line {
	b := &lineBreaker{maxWidth: maxWidth, fontSize: fontSize, measure: m}
	text = strings.ToValidUTF8(strings.ReplaceAll(text, "\r\n", "\n"), "\uFFFD")
	for _, para := range strings.Split(text, "\n") {
		b.paragraph(para)
	}
	return b.lines
}

type lineBreaker struct {
	maxWidth float64
	fontSize float64
	measure  Measurer

	lines []Line
	// 当前行缓冲及其已测宽度
	current      string
	currentWidth float64
}

func (b *lineBreaker) width(s string) float64 {
	return b.measure.Measure(s, b.fontSize)
}

func (b *lineBreaker) paragraph(para string) {
	if strings.TrimSpace(para) == "" {
		b.lines = append(b.lines, Line{})
		return
	}
	for _, word := range strings.Fields(para) {
		b.word(word)
	}
	b.flush()
}

// word 驱动单个词的状态机，直到词被接收进缓冲。
func (b *lineBreaker) word(word string) {
	var (
		state     = stateAccumulating
		wordWidth float64
		measured  bool
	)
	for state != stateDone {
		switch state {
		case stateAccumulating:
			tentative := word
			if b.current != "" {
				tentative = b.current + " " + word
			}
			w := b.width(tentative)
			if b.current == "" {
				wordWidth, measured = w, true
			}
			if w <= b.maxWidth {
				b.current, b.currentWidth = tentative, w
				state = stateDone
				continue
			}
			state = stateFlushing

		case stateFlushing:
			b.flush()
			if !measured {
				wordWidth = b.width(word)
			}
			if wordWidth > b.maxWidth {
				state = stateCharFallback
				continue
			}
			b.current, b.currentWidth = word, wordWidth
			state = stateDone

		case stateCharFallback:
			b.packRunes(word)
			state = stateDone
		}
	}
}

// packRunes 按码点贪心拆分超宽的词：满块直接输出，最后一块作为新的当前行。
// 测量结果 <= 0 时视为异常度量，强制每块一个码点以保证推进。
func (b *lineBreaker) packRunes(word string) {
	var (
		chunk      string
		chunkWidth float64
	)
	for _, r := range word {
		ch := string(r)
		if chunk == "" {
			chunk, chunkWidth = ch, b.width(ch)
			continue
		}
		tentative := chunk + ch
		w := b.width(tentative)
		if w > 0 && w <= b.maxWidth {
			chunk, chunkWidth = tentative, w
			continue
		}
		b.lines = append(b.lines, Line{Text: chunk, Width: chunkWidth})
		chunk, chunkWidth = ch, b.width(ch)
	}
	b.current, b.currentWidth = chunk, chunkWidth
}

func (b *lineBreaker) flush() {
	if b.current == "" {
		return
	}
	b.lines = append(b.lines, Line{Text: b.current, Width: b.currentWidth})
	b.current, b.currentWidth = "", 0
}
