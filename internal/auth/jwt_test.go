package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing-purposes"

func TestTokenMaker_RoundTrip(t *testing.T) {
	tm := NewTokenMaker(testSecret)
	id := Identity{ID: "1", Name: "Admin User", Email: "admin@cricnagar.com", Role: RoleAdmin}

	tok, err := tm.New(id, 15*time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	claims, err := tm.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Identity())
	assert.Equal(t, "1", claims.Subject)
}

func TestTokenMaker_RejectsExpired(t *testing.T) {
	tm := NewTokenMaker(testSecret)

	tok, err := tm.New(Identity{ID: "2", Role: RoleCustomer}, -time.Minute)
	require.NoError(t, err)

	_, err = tm.Parse(tok)
	assert.Error(t, err)
}

func TestTokenMaker_RejectsOtherSecret(t *testing.T) {
	tok, err := NewTokenMaker("another-secret").New(Identity{ID: "2"}, time.Minute)
	require.NoError(t, err)

	_, err = NewTokenMaker(testSecret).Parse(tok)
	assert.Error(t, err)
}

func TestTokenMaker_RejectsOtherIssuer(t *testing.T) {
	claims := Claims{
		UserID: "2",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenMaker(testSecret).Parse(tok)
	assert.Error(t, err)
}

func TestTokenMaker_RejectsGarbage(t *testing.T) {
	_, err := NewTokenMaker(testSecret).Parse("not-a-token")
	assert.Error(t, err)
}
