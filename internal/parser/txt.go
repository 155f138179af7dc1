package parser

import "strings"

// Formats read verbatim.
var textExts = []string{".txt", ".text", ".csv", ".tsv", ".json", ".log"}

type textParser struct{}

func (textParser) CanParse(filename string) bool {
	return hasExt(filename, textExts...)
}

func (textParser) Parse(content []byte) (string, error) {
	return strings.TrimPrefix(string(content), "\uFEFF"), nil
}
