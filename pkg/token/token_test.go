package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndValidate(t *testing.T) {
	issuer := NewIssuer("test-secret")

	signed, err := issuer.Generate("user-123", "alice")
	assert.NoError(t, err)
	assert.NotEmpty(t, signed)

	claims, err := issuer.Validate(signed)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	signed, err := NewIssuer("secret-a").Generate("user-123", "alice")
	assert.NoError(t, err)

	_, err = NewIssuer("secret-b").Validate(signed)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	issuer := NewIssuer("test-secret")
	issuer.ttl = -time.Minute

	signed, err := issuer.Generate("user-123", "alice")
	assert.NoError(t, err)

	_, err = issuer.Validate(signed)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := NewIssuer("test-secret").Validate("not-a-token")
	assert.Error(t, err)
}
