package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	base := errors.New("broken pipe")
	err := New(base, ErrorTypePrivate, nil)
	assert.Equal(t, base.Error(), err.Error())
	assert.True(t, err.IsType(ErrorTypePrivate))
	assert.False(t, err.IsType(ErrorTypePublic))

	err.SetType(ErrorTypeIO).SetMeta("conn-1")
	assert.True(t, err.IsType(ErrorTypeIO))
	assert.Equal(t, "conn-1", err.Meta)
	assert.ErrorIs(t, err, base)
}

func TestNewIO(t *testing.T) {
	base := errors.New("write failed")
	err := NewIO(base)
	assert.True(t, err.IsType(ErrorTypeIO))
	assert.Equal(t, base, err.Unwrap())
}
