package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotPDF is returned for uploads that are not PDF documents
	ErrNotPDF = errors.New("please provide a valid PDF file")

	ErrTooLarge = errors.New("file too large")
)

var pdfMagic = []byte("%PDF-")

// Validator handles PDF file validation operations
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateFile checks a PDF on disk. Problems with the file are reported in
// the result rather than as an error.
func (v *Validator) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	result := &ValidateFileResult{
		Path:  req.Path,
		Valid: false,
	}

	if err := v.validatePDFFile(req.Path); err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // validation failure is part of the result
	}

	result.Valid = true
	result.Message = "PDF structure is valid"
	return result, nil
}

func (v *Validator) validatePDFFile(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("cannot read file: %w", err)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return fmt.Errorf("missing PDF header: %s", filePath)
	}

	ctx, err := readContext(data)
	if err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}
	if err := validateStructure(ctx); err != nil {
		return fmt.Errorf("invalid PDF structure: %w", err)
	}
	return nil
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !hasPDFExtension(filePath) {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("%w: %d bytes (max: %d bytes)",
			ErrTooLarge, fileInfo.Size(), v.maxFileSize)
	}

	return nil
}

// ValidateUpload checks an uploaded document before extraction. name may be
// empty when the client sent a raw body; the PDF header is always required.
func (v *Validator) ValidateUpload(name string, data []byte) error {
	if name != "" && !hasPDFExtension(name) {
		return fmt.Errorf("%w: %s", ErrNotPDF, filepath.Base(name))
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return ErrNotPDF
	}
	if int64(len(data)) > v.maxFileSize {
		return fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrTooLarge, len(data), v.maxFileSize)
	}
	return nil
}

func hasPDFExtension(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
