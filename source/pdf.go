package source

import (
	"bytes"
	"io"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

type pdfText struct{}

// Extract 逐页读取纯文本，页之间以空行分隔。无法解码的页会被跳过。
func (pdfText) Extract(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", extractErr("pdf", err)
	}
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", extractErr("pdf", err)
	}
	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}
