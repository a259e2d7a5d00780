package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := ValidationError("group column missing")
	wrapped := Wrap(base, "prepare analysis")

	assert.Equal(t, CodeValidationError, GetCode(wrapped))
	assert.Equal(t, "prepare analysis: group column missing", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrapPlainError(t *testing.T) {
	cause := fmt.Errorf("boom")
	wrapped := Wrapf(cause, "step %d", 2)

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("handler: %w", AnalysisFailed(fmt.Errorf("zero range")))
	assert.Equal(t, CodeAnalysisFailed, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ValidationError("x")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidInput("x")))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(AnalysisFailed(nil)))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("column")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("plain")))
}

func TestWithCode(t *testing.T) {
	cause := fmt.Errorf("bad csv")
	err := WithCode(CodeInvalidInput, cause)
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, WithCode(CodeInvalidInput, nil))
}
