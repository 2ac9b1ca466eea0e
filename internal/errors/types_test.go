package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteErrorError(t *testing.T) {
	t.Run("code path and cause", func(t *testing.T) {
		cause := errors.New("unexpected EOF")
		err := NewContentError(ErrCodeContentParse, "cannot parse content", cause).
			WithPath("content.yml")

		assert.Equal(t, "[ERR_CONTENT_PARSE] content.yml cannot parse content: unexpected EOF", err.Error())
		assert.Equal(t, cause, errors.Unwrap(err))
	})

	t.Run("message only", func(t *testing.T) {
		err := &SiteError{Message: "plain"}
		assert.Equal(t, "plain", err.Error())
	})
}

func TestSiteErrorIs(t *testing.T) {
	err := fmt.Errorf("loading: %w", NewConfigError(ErrCodeConfigInvalid, "bad port"))

	assert.True(t, errors.Is(err, NewConfigError(ErrCodeConfigInvalid, "other message")))
	assert.False(t, errors.Is(err, NewConfigError(ErrCodeInvalidPath, "bad port")))
}

func TestClassification(t *testing.T) {
	assert.True(t, IsRecoverable(NewValidationError(ErrCodeValidationFailed, "x")))
	assert.False(t, IsRecoverable(NewIOError(ErrCodeFileNotFound, "x", nil)))
	assert.False(t, IsRecoverable(errors.New("plain")))

	assert.True(t, IsSecurityError(ErrPathTraversal("../etc")))
	assert.True(t, IsContentError(fmt.Errorf("wrapped: %w", NewContentError(ErrCodeContentInvalid, "x", nil))))
	assert.False(t, IsContentError(ErrInvalidPath("x")))
}

func TestWithContext(t *testing.T) {
	err := NewValidationError(ErrCodeValidationFailed, "bad").
		WithContext("field", "photos").
		WithContext("index", 2)

	assert.Equal(t, "photos", err.Context["field"])
	assert.Equal(t, 2, err.Context["index"])
}

func TestValidationErrorCollection(t *testing.T) {
	var vec ValidationErrorCollection
	assert.False(t, vec.HasErrors())
	assert.Nil(t, vec.ToSiteError())
	assert.Equal(t, "no validation errors", vec.Error())

	vec.AddField("email", "", "must not be empty", "set site.email")
	assert.Equal(t, "validation error in field 'email': must not be empty", vec.Error())

	vec.AddField("photos[0].src", "", "must not be empty")
	assert.Equal(t, "validation failed with 2 errors", vec.Error())

	se := vec.ToSiteError()
	require.NotNil(t, se)
	assert.Equal(t, ErrorTypeValidation, se.Type)
	assert.Equal(t, ErrCodeValidationFailed, se.Code)
	assert.Contains(t, se.Message, "email")
	assert.Contains(t, se.Message, "photos[0].src")
	assert.Contains(t, se.Context, "email")
}

type recordingLogger struct {
	errors []string
	warns  []string
}

func (r *recordingLogger) Error(_ context.Context, _ error, msg string, _ ...interface{}) {
	r.errors = append(r.errors, msg)
}

func (r *recordingLogger) Warn(_ context.Context, _ error, msg string, _ ...interface{}) {
	r.warns = append(r.warns, msg)
}

func TestErrorHandler(t *testing.T) {
	logger := &recordingLogger{}
	h := NewErrorHandler(logger)
	ctx := context.Background()

	h.Handle(ctx, nil)
	h.Handle(ctx, NewContentError(ErrCodeContentInvalid, "x", nil))
	h.Handle(ctx, ErrPathTraversal("../x"))
	h.Handle(ctx, NewIOError(ErrCodeFileNotFound, "x", nil))
	h.Handle(ctx, errors.New("plain"))

	assert.Equal(t, []string{"Content problem"}, logger.warns)
	assert.Equal(t, []string{"Security error occurred", "Error occurred", "Unhandled error occurred"}, logger.errors)
}
