package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentity(t *testing.T) {
	clone := Clone(ErrNotFound, "student not found")
	assert.Equal(t, "student not found", clone.Message)
	assert.True(t, errors.Is(clone, ErrNotFound))
	assert.False(t, errors.Is(clone, ErrValidation))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	err := FromError(fmt.Errorf("boom"))
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "internal server error: boom", err.Error())

	wrapped := fmt.Errorf("save: %w", Wrap(errors.New("timeout"), ErrUpstream.Code, ErrUpstream.Status, "sheet down"))
	assert.Equal(t, http.StatusBadGateway, FromError(wrapped).Status)
	assert.Nil(t, FromError(nil))
}
