package core

import (
	stderrors "errors"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNewFieldError(t *testing.T) {
	errTaken := errors.New("email already taken")
	err := errors.Wrap(NewFieldError("email", errTaken), "registering")

	vErr, ok := errors.Cause(err).(*ValidationError)
	if assert.True(t, ok) {
		assert.Equal(t, errTaken, vErr.Err)
		assert.Equal(t, map[string]string{"email": "email already taken"}, vErr.FieldMap())
	}
	assert.True(t, stderrors.Is(err, errTaken))
	assert.EqualError(t, err, "registering: email already taken")
}

func TestIsShutdown(t *testing.T) {
	assert.True(t, IsShutdown(errors.Wrap(NewShutdownError("store corrupted"), "saving")))
	assert.False(t, IsShutdown(ErrNotFound))
	assert.False(t, IsShutdown(NewValidationError(ErrNotFound)))
}
