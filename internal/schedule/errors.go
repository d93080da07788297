package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadableDocument means the source could not be decoded or had no text at all
	ErrUnreadableDocument = errors.New("unreadable document")

	// ErrMalformedDocument means the text lacks the "UNITS" / "TOTAL UNITS" table markers
	ErrMalformedDocument = errors.New("unsupported document layout")
)

// ErrorKind categorizes document-level failures
type ErrorKind int

const (
	KindUnreadable ErrorKind = iota + 1
	KindMalformed
)

// String returns a string representation of the ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindUnreadable:
		return "UNREADABLE_DOCUMENT"
	case KindMalformed:
		return "MALFORMED_DOCUMENT"
	default:
		return "UNKNOWN"
	}
}

// DocumentError describes why a whole document was rejected.
// It matches ErrUnreadableDocument or ErrMalformedDocument under errors.Is.
type DocumentError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Path    string    `json:"path,omitempty"`
	Err     error     `json:"-"`
}

// Error implements the error interface
func (e *DocumentError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind
func (e *DocumentError) Is(target error) bool {
	switch e.Kind {
	case KindUnreadable:
		return target == ErrUnreadableDocument
	case KindMalformed:
		return target == ErrMalformedDocument
	}
	return false
}

// NewUnreadableError reports a document that yielded no usable text
func NewUnreadableError(path, message string, cause error) *DocumentError {
	return &DocumentError{Kind: KindUnreadable, Message: message, Path: path, Err: cause}
}

// NewMalformedError reports text that does not follow the registration layout
func NewMalformedError(message string) *DocumentError {
	return &DocumentError{Kind: KindMalformed, Message: message}
}

// IsUnreadable reports whether err is an unreadable-document failure
func IsUnreadable(err error) bool {
	return errors.Is(err, ErrUnreadableDocument)
}

// IsMalformed reports whether err is a malformed-document failure
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedDocument)
}
