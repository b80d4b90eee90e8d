package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknownAsInternal(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.EqualError(t, appErr.Unwrap(), "boom")
}

func TestCloneKeepsCodeAndMatchesTemplate(t *testing.T) {
	clone := Clone(ErrForbidden, "only the submitter may edit this record")
	assert.Equal(t, "only the submitter may edit this record", clone.Message)
	assert.True(t, errors.Is(clone, ErrForbidden))
	assert.False(t, errors.Is(clone, ErrNotFound))

	wrapped := fmt.Errorf("update record: %w", clone)
	assert.True(t, errors.Is(wrapped, ErrForbidden))
	assert.Equal(t, ErrForbidden.Code, FromError(wrapped).Code)
}

func TestLoginAndAccessMessagesDiffer(t *testing.T) {
	assert.NotEqual(t, ErrLoginFailed.Message, ErrAccessDenied.Message)
	assert.Equal(t, http.StatusUnauthorized, ErrLoginFailed.Status)
	assert.Equal(t, http.StatusForbidden, ErrAccessDenied.Status)
}

func TestWithDetailsCopies(t *testing.T) {
	base := Clone(ErrValidation, "invalid record payload")
	detailed := base.WithDetails(map[string]string{"score": "required"})

	assert.Nil(t, base.Details)
	assert.Equal(t, "required", detailed.Details["score"])
	assert.True(t, errors.Is(detailed, ErrValidation))

	merged := detailed.WithDetails(map[string]string{"agent": "required", "score": "max"})
	assert.Equal(t, map[string]string{"agent": "required", "score": "max"}, merged.Details)
	assert.Equal(t, "required", detailed.Details["score"])
	assert.Same(t, base, base.WithDetails(nil))
}
