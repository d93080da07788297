package schedule

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentError(t *testing.T) {
	cause := errors.New("xref table not found")
	err := NewUnreadableError("/tmp/cor.pdf", "failed to open PDF", cause)

	assert.Equal(t, "[UNREADABLE_DOCUMENT] failed to open PDF: /tmp/cor.pdf: xref table not found", err.Error())
	assert.True(t, errors.Is(err, ErrUnreadableDocument))
	assert.False(t, errors.Is(err, ErrMalformedDocument))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsUnreadable(err))
	assert.False(t, IsMalformed(err))

	wrapped := fmt.Errorf("extract: %w", NewMalformedError("missing header"))
	assert.True(t, IsMalformed(wrapped))
	assert.False(t, IsUnreadable(wrapped))

	var docErr *DocumentError
	assert.True(t, errors.As(wrapped, &docErr))
	assert.Equal(t, KindMalformed, docErr.Kind)
	assert.Equal(t, "[MALFORMED_DOCUMENT] missing header", docErr.Error())
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "UNREADABLE_DOCUMENT", KindUnreadable.String())
	assert.Equal(t, "MALFORMED_DOCUMENT", KindMalformed.String())
	assert.Equal(t, "UNKNOWN", ErrorKind(0).String())
}
