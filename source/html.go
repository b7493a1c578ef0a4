package source

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

type htmlText struct{}

func (htmlText) Extract(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", extractErr("html", err)
	}
	root := findElement(doc, "body")
	if root == nil {
		root = doc
	}
	var w htmlWriter
	w.walk(root, false)
	return normalizeBlankLines(w.buf.String()), nil
}

type htmlWriter struct {
	buf strings.Builder
}

func (w *htmlWriter) walk(n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			w.buf.WriteString(n.Data)
		} else {
			w.buf.WriteString(collapseSpace(n.Data))
		}
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "head", "noscript", "template":
			return
		case "br":
			w.buf.WriteByte('\n')
			return
		case "pre":
			pre = true
		}
	}
	breaks := blockBreaks(n)
	w.ensureBreaks(breaks)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, pre)
	}
	w.ensureBreaks(breaks)
}

// ensureBreaks 保证已输出内容以至少 n 个换行结尾。
func (w *htmlWriter) ensureBreaks(n int) {
	s := w.buf.String()
	if n == 0 || s == "" {
		return
	}
	tail := s[len(strings.TrimRight(s, " \t\n")):]
	for have := strings.Count(tail, "\n"); have < n; have++ {
		w.buf.WriteByte('\n')
	}
}

func blockBreaks(n *html.Node) int {
	if n.Type != html.ElementNode {
		return 0
	}
	switch n.Data {
	case "p", "h1", "h2", "h3", "h4", "h5", "h6", "pre", "blockquote", "table", "ul", "ol":
		return 2
	case "div", "li", "tr", "section", "article", "header", "footer", "dt", "dd":
		return 1
	default:
		return 0
	}
}

func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			return " "
		}
		return ""
	}
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

// normalizeBlankLines 去掉行首尾空白，并把连续空行压缩为一行。
func normalizeBlankLines(s string) string {
	var out []string
	blank := false
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
