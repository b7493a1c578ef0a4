package source

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type markdownText struct {
	strip bool
	md    goldmark.Markdown
}

func newMarkdown(opts Options) Extractor {
	return markdownText{strip: opts.StripMarkdown, md: goldmark.New()}
}

func (m markdownText) Extract(r io.Reader) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", extractErr("markdown", err)
	}
	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	if !m.strip {
		return string(src), nil
	}
	doc := m.md.Parser().Parse(text.NewReader(src))
	var blocks []string
	collectBlocks(doc, src, &blocks)
	return strings.Join(blocks, "\n\n"), nil
}

// collectBlocks 将块级节点展开为纯文本段落，列表项合并为一段。
func collectBlocks(n ast.Node, src []byte, blocks *[]string) {
	switch n.Kind() {
	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		if t := rawLines(n, src); t != "" {
			*blocks = append(*blocks, t)
		}
		return
	case ast.KindParagraph, ast.KindHeading, ast.KindTextBlock:
		if t := inlineText(n, src); t != "" {
			*blocks = append(*blocks, t)
		}
		return
	case ast.KindList:
		var items []string
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			var inner []string
			collectBlocks(item, src, &inner)
			if len(inner) > 0 {
				items = append(items, "- "+strings.Join(inner, "\n  "))
			}
		}
		if len(items) > 0 {
			*blocks = append(*blocks, strings.Join(items, "\n"))
		}
		return
	case ast.KindThematicBreak, ast.KindHTMLBlock:
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		collectBlocks(c, src, blocks)
	}
}

func rawLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}

func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.Text:
				buf.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.WriteByte('\n')
				}
			case *ast.String:
				buf.Write(node.Value)
			case *ast.AutoLink:
				buf.Write(node.URL(src))
			case *ast.RawHTML:
				// 内联 HTML 不输出
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}
