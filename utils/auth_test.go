package utils

import (
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWT_RoundTrip(t *testing.T) {
	JwtKey = []byte("test-secret")

	tokenStr, err := GenerateJWT("owner", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtKey, nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "owner", claims.AdminID)
	assert.Equal(t, "admin", claims.Role)
}

func TestGenerateJWT_RejectsWrongKey(t *testing.T) {
	JwtKey = []byte("test-secret")
	tokenStr, err := GenerateJWT("owner", "admin")
	require.NoError(t, err)

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}
