package schedule

import (
	"strings"

	"golang.org/x/text/width"
)

// Normalize collapses every run of whitespace into a single space and trims
// both ends. Full-width forms emitted by CJK PDF fonts are narrowed first
// ("ＣＳ１０１" reads as "CS101", U+3000 as a space); no other character is
// rewritten. Normalize is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(width.Narrow.String(text)), " ")
}

// JoinPages builds the parser input from extracted pages: fragments of a page
// are joined with one space, pages with a newline, in the order given.
func JoinPages(pages [][]string) string {
	parts := make([]string, len(pages))
	for i, fragments := range pages {
		parts[i] = strings.Join(fragments, " ")
	}
	return strings.Join(parts, "\n")
}
