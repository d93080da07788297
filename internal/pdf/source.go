package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageSource yields the text fragments of a PDF one page at a time.
// Pages are numbered from 1. A PageSource is not safe for concurrent use.
type PageSource interface {
	NumPages() int
	PageFragments(n int) ([]string, error)
}

// SourceOpener opens a PageSource over an in-memory PDF
type SourceOpener func(data []byte) (PageSource, error)

type ledongthucSource struct {
	r *pdf.Reader
}

// OpenLedongthuc opens data with github.com/ledongthuc/pdf
func OpenLedongthuc(data []byte) (src PageSource, err error) {
	defer func() {
		if r := recover(); r != nil {
			src, err = nil, fmt.Errorf("pdf decoder panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &ledongthucSource{r: r}, nil
}

func (s *ledongthucSource) NumPages() int {
	return s.r.NumPage()
}

func (s *ledongthucSource) PageFragments(n int) ([]string, error) {
	page := s.r.Page(n)
	if page.V.IsNull() {
		return nil, nil
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return nil, err
	}
	return splitFragments(text), nil
}

// splitFragments turns extracted page text into its non-blank lines
func splitFragments(text string) []string {
	var fragments []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			fragments = append(fragments, line)
		}
	}
	return fragments
}
