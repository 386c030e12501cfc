package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := hashPassword("changeme")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("changeme")))
}

func TestHashPasswordOverlongInputFails(t *testing.T) {
	// bcrypt caps input at 72 bytes; the failure must surface, never an
	// empty hash
	hash, err := hashPassword(strings.Repeat("x", 80))
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
	assert.Empty(t, hash)
}
