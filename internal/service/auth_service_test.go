package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psgtech/internship-undertaking-api/internal/models"
	"github.com/psgtech/internship-undertaking-api/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "internship-undertaking-api",
	}
}

func TestAuthServiceRoundTrip(t *testing.T) {
	svc := NewAuthService(testJWTConfig())

	token, err := svc.IssueToken("stu-1", "22z101@psgtech.ac.in", models.RoleStudent)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "22z101@psgtech.ac.in", claims.Email)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, "stu-1", claims.SubjectID())
}

func TestAuthServiceRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(config.JWTConfig{Secret: "other-secret", Expiration: time.Hour})
	token, err := issuer.IssueToken("stu-1", "22z101@psgtech.ac.in", models.RoleStudent)
	require.NoError(t, err)

	svc := NewAuthService(testJWTConfig())
	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}

func TestAuthServiceRejectsExpiredToken(t *testing.T) {
	issuer := NewAuthService(config.JWTConfig{Secret: "test-secret", Expiration: -time.Minute})
	token, err := issuer.IssueToken("stu-1", "22z101@psgtech.ac.in", models.RoleStudent)
	require.NoError(t, err)

	svc := NewAuthService(testJWTConfig())
	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}

func TestAuthServiceRejectsGarbage(t *testing.T) {
	svc := NewAuthService(testJWTConfig())
	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
}
