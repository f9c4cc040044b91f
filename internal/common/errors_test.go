package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinels_AreDistinctAndWrappable(t *testing.T) {
	all := []error{
		ErrUnauthorized, ErrForbidden, ErrServerFault, ErrUnavailable,
		ErrInvalidLoginResponse, ErrInvalidToken, ErrTooManyRedirects,
	}

	for i, a := range all {
		wrapped := fmt.Errorf("context: %w", a)
		assert.ErrorIs(t, wrapped, a)
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v must not match %v", a, b)
			}
		}
	}
}

func TestWipeByteArray(t *testing.T) {
	b := []byte("secret1")
	WipeByteArray(b)
	assert.Equal(t, make([]byte, 7), b)

	WipeByteArray(nil)
}
