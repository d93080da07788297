package pdf

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/a3tai/schedify/internal/logging"
	"github.com/a3tai/schedify/internal/schedule"
)

const defaultPageWorkers = 4

// Reader handles PDF text extraction
type Reader struct {
	maxFileSize int64
	workers     int
	open        SourceOpener
	validator   *Validator
	logger      logrus.FieldLogger
}

// NewReader creates a new PDF reader. workers bounds how many pages are
// decoded at once; values below 1 use a default.
func NewReader(maxFileSize int64, workers int, logger logrus.FieldLogger) *Reader {
	if workers < 1 {
		workers = defaultPageWorkers
	}
	return &Reader{
		maxFileSize: maxFileSize,
		workers:     workers,
		open:        OpenLedongthuc,
		validator:   NewValidator(maxFileSize),
		logger:      logging.OrDiscard(logger),
	}
}

// LoadFile checks that path names a PDF within the size limit and returns its bytes
func (r *Reader) LoadFile(path string) ([]byte, os.FileInfo, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := r.validator.ValidateFileInfo(path, fileInfo); err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, fileInfo, nil
}

// ExtractPages returns the text fragments of every page, in page order.
// Pages are decoded concurrently, each worker with its own decoder over data.
// A page that fails to decode is left empty and listed in Failed; a document
// with no pages or no text at all is unreadable.
func (r *Reader) ExtractPages(ctx context.Context, data []byte) (*PageText, error) {
	first, err := r.open(data)
	if err != nil {
		return nil, schedule.NewUnreadableError("", "failed to open PDF", err)
	}

	n := first.NumPages()
	if n == 0 {
		return nil, schedule.NewUnreadableError("", "PDF has no pages", nil)
	}

	pages := make([][]string, n)
	failed := make([]bool, n)
	workers := min(r.workers, n)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			src := first
			if w > 0 {
				var err error
				if src, err = r.open(data); err != nil {
					return fmt.Errorf("failed to open PDF for worker %d: %w", w, err)
				}
			}

			for p := w + 1; p <= n; p += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				fragments, err := pageFragments(src, p)
				if err != nil {
					r.logger.WithFields(logrus.Fields{
						"page":  p,
						"error": err,
					}).Warn("failed to extract page text")
					failed[p-1] = true
					continue
				}
				pages[p-1] = fragments
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, schedule.NewUnreadableError("", "failed to extract text", err)
	}

	text := &PageText{Pages: pages}
	for i, bad := range failed {
		if bad {
			text.Failed = append(text.Failed, i+1)
		}
	}

	for _, fragments := range pages {
		if len(fragments) > 0 {
			return text, nil
		}
	}
	return nil, schedule.NewUnreadableError("", "no text content could be extracted from PDF", nil)
}

// pageFragments reads one page, turning a decoder panic into an error
func pageFragments(src PageSource, n int) (fragments []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			fragments, err = nil, fmt.Errorf("pdf decoder panic on page %d: %v", n, rec)
		}
	}()
	return src.PageFragments(n)
}

// ReadText extracts the text layer of a PDF on disk together with the
// normalized text the schedule parser would see
func (r *Reader) ReadText(ctx context.Context, req ReadTextRequest) (*ReadTextResult, error) {
	data, fileInfo, err := r.LoadFile(req.Path)
	if err != nil {
		return nil, err
	}

	extracted, err := r.ExtractPages(ctx, data)
	if err != nil {
		return nil, withPath(err, req.Path)
	}
	pages := extracted.Pages

	pageTexts := make([]string, len(pages))
	for i, fragments := range pages {
		pageTexts[i] = schedule.JoinPages([][]string{fragments})
	}

	return &ReadTextResult{
		Path:        req.Path,
		Pages:       len(pages),
		Size:        fileInfo.Size(),
		PageTexts:   pageTexts,
		FailedPages: extracted.Failed,
		Text:        schedule.Normalize(schedule.JoinPages(pages)),
	}, nil
}

// withPath records path on a document error that does not carry one yet
func withPath(err error, path string) error {
	if docErr, ok := err.(*schedule.DocumentError); ok && docErr.Path == "" {
		copied := *docErr
		copied.Path = path
		return &copied
	}
	return err
}
