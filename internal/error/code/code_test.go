package code

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEveryCodeHasStatusAndMessage(t *testing.T) {
	for c := range codeMessageMap {
		_, ok := codeStatusMap[c]
		assert.True(t, ok, "missing status for %s", c)
	}
	for c := range codeStatusMap {
		_, ok := codeMessageMap[c]
		assert.True(t, ok, "missing message for %s", c)
	}
}

func TestGetStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, GetStatus(ErrUnauthorized))
	assert.Equal(t, http.StatusBadRequest, GetStatus(ErrOTPExpired))
	assert.Equal(t, http.StatusInternalServerError, GetStatus("something_else"))
	assert.Equal(t, "Unknown error", GetMessage("something_else"))
}

func TestOfAndIs(t *testing.T) {
	base := errors.New("disk full")
	wrapped := fmt.Errorf("insert: %w", Wrap(ErrDatabase, base))

	assert.Equal(t, ErrDatabase, Of(wrapped))
	assert.True(t, errors.Is(wrapped, base))
	assert.Equal(t, ErrOTPExpired, Of(New(ErrOTPExpired)))
	assert.True(t, Is(New(ErrOTPExpired), ErrOTPExpired))
	assert.False(t, Is(base, ErrOTPExpired))
	assert.Equal(t, ErrDatabase, Of(base))
	assert.Nil(t, Wrap(ErrDatabase, nil))
	assert.Equal(t, "otp_invalid", New(ErrOTPInvalid).Error())
}
