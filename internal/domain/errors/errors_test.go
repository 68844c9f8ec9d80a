package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	var ve ValidationError
	assert.NoError(t, ve.Err())

	ve.Add("site.title", "must not be empty")
	ve.Addf("serve.addr", "bad address %q", "nope")

	err := ve.Err()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.True(t, ve.Has("serve.addr"))
	assert.False(t, ve.Has("build.public_dir"))
	assert.Contains(t, err.Error(), "site.title: must not be empty")
	assert.Contains(t, err.Error(), `serve.addr: bad address "nope"`)
}

func TestFieldErrorWithoutField(t *testing.T) {
	assert.Equal(t, "boom", FieldError{Message: "boom"}.Error())
}
