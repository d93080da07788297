package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Inspector reports structural details about a PDF
type Inspector struct {
	reader *Reader
}

// NewInspector creates an inspector that loads files through reader
func NewInspector(reader *Reader) *Inspector {
	return &Inspector{reader: reader}
}

// readContext parses data with pdfcpu in relaxed mode, so that the loosely
// formed PDFs produced by registrar systems still load
func readContext(data []byte) (ctx *model.Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			ctx, err = nil, fmt.Errorf("failed to read PDF context: %v", r)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err = api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}
	return ctx, nil
}

// validateStructure runs pdfcpu's validator over a context from readContext
func validateStructure(ctx *model.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("validation aborted: %v", r)
		}
	}()
	return api.ValidateContext(ctx)
}

// InspectFile returns page count, version, encryption and document info for a PDF on disk
func (i *Inspector) InspectFile(req InspectFileRequest) (*InspectFileResult, error) {
	data, fileInfo, err := i.reader.LoadFile(req.Path)
	if err != nil {
		return nil, err
	}

	ctx, err := readContext(data)
	if err != nil {
		return nil, err
	}

	result := &InspectFileResult{
		Path:         req.Path,
		Size:         fileInfo.Size(),
		Pages:        ctx.PageCount,
		Encrypted:    ctx.Encrypt != nil,
		ModifiedDate: fileInfo.ModTime().Format("2006-01-02 15:04:05"),
	}
	if ctx.HeaderVersion != nil {
		result.Version = ctx.HeaderVersion.String()
	}

	documentInfo(data, result)
	return result, nil
}

// documentInfo fills title, author, producer and creation date from the
// trailer's Info dictionary. Missing or broken entries are left blank.
func documentInfo(data []byte, result *InspectFileResult) {
	defer func() {
		_ = recover()
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return
	}

	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return
	}

	field := func(key string) string {
		if v := info.Key(key); !v.IsNull() {
			return strings.TrimSpace(v.Text())
		}
		return ""
	}
	result.Title = field("Title")
	result.Author = field("Author")
	result.Producer = field("Producer")
	result.CreatedDate = field("CreationDate")
}
