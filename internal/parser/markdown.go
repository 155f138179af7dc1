package parser

import (
	"bytes"
	"strings"
)

type markdownParser struct{}

func (markdownParser) CanParse(filename string) bool {
	return hasExt(filename, ".md", ".markdown")
}

func (markdownParser) Parse(content []byte) (string, error) {
	text := string(bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")))
	text = strings.ReplaceAll(text, "\r", "\n")
	return collapseBlankLines(text), nil
}

// collapseBlankLines reduces runs of 3+ newlines to exactly two.
func collapseBlankLines(text string) string {
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return text
}
