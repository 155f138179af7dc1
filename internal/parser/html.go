package parser

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// htmlParser converts HTML to markdown so headings and lists survive as context.
// If conversion fails it falls back to the body's visible text.
type htmlParser struct{}

func (htmlParser) CanParse(filename string) bool {
	return hasExt(filename, ".html", ".htm")
}

func (htmlParser) Parse(content []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	body, err := doc.Find("body").Html()
	if err == nil && strings.TrimSpace(body) != "" {
		converter := md.NewConverter("", true, nil)
		if out, err := converter.ConvertString(body); err == nil {
			return strings.TrimSpace(collapseBlankLines(out)), nil
		}
	}
	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n"), nil
}
