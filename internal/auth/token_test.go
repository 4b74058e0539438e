package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTer_IssueAndParse(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "storefront", TTL: time.Hour}

	token, err := j.Issue("user-123", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := j.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UID)
	assert.True(t, claims.Admin)
	assert.Equal(t, "storefront", claims.Issuer)
}

func TestJWTer_Parse_WrongSecret(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "storefront", TTL: time.Hour}
	other := &JWTer{Secret: []byte("other-secret"), Issuer: "storefront", TTL: time.Hour}

	token, err := j.Issue("user-123", false)
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestJWTer_Parse_WrongIssuer(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "storefront", TTL: time.Hour}
	other := &JWTer{Secret: []byte("test-secret"), Issuer: "someone-else", TTL: time.Hour}

	token, err := other.Issue("user-123", false)
	require.NoError(t, err)

	_, err = j.Parse(token)
	assert.Error(t, err)
}

func TestJWTer_Parse_Expired(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "storefront", TTL: -2 * time.Minute}

	token, err := j.Issue("user-123", false)
	require.NoError(t, err)

	_, err = j.Parse(token)
	assert.Error(t, err)
}

func TestJWTer_Parse_Garbage(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "storefront", TTL: time.Hour}

	_, err := j.Parse("not.a.token")
	assert.Error(t, err)
}
