package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dazhangman/internal/models"
)

const testSecret = "test-secret-at-least-32-chars-long-for-hs256"

func TestVerifyIssuedToken(t *testing.T) {
	v := NewTokenVerifier(testSecret, "dazhangman-auth")
	token, err := v.Issue(models.Identity{LearnerID: "u-1", Username: "Anna", Role: models.RoleTeacher}, time.Minute)
	require.NoError(t, err)

	id, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, models.Identity{LearnerID: "u-1", Username: "Anna", Role: models.RoleTeacher}, id)
	assert.True(t, id.IsTeacher())
}

func TestVerifyDefaults(t *testing.T) {
	v := NewTokenVerifier(testSecret, "")
	token, err := v.Issue(models.Identity{LearnerID: "u-2"}, time.Minute)
	require.NoError(t, err)

	id, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-2", id.Username)
	assert.Equal(t, models.RoleStudent, id.Role)
}

func TestVerifyRejects(t *testing.T) {
	v := NewTokenVerifier(testSecret, "dazhangman-auth")
	other := NewTokenVerifier("another-secret-that-is-long-enough-too", "dazhangman-auth")
	wrongIssuer := NewTokenVerifier(testSecret, "someone-else")

	expired, err := v.Issue(models.Identity{LearnerID: "u-1"}, -time.Minute)
	require.NoError(t, err)
	forged, err := other.Issue(models.Identity{LearnerID: "u-1"}, time.Minute)
	require.NoError(t, err)
	foreign, err := wrongIssuer.Issue(models.Identity{LearnerID: "u-1"}, time.Minute)
	require.NoError(t, err)
	admin, err := v.Issue(models.Identity{LearnerID: "u-1", Role: "admin"}, time.Minute)
	require.NoError(t, err)
	noSubject, err := v.Issue(models.Identity{}, time.Minute)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"expired":      expired,
		"forged":       forged,
		"wrong issuer": foreign,
		"unknown role": admin,
		"no subject":   noSubject,
		"alg none":     none,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	rl := newRateLimiter(2, time.Minute, func() time.Time { return now })

	assert.True(t, rl.Allow("anna"))
	assert.True(t, rl.Allow("anna"))
	assert.False(t, rl.Allow("anna"))
	assert.True(t, rl.Allow("ben"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("anna"))
}

func TestRateLimiterSweep(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	rl := newRateLimiter(1, time.Minute, func() time.Time { return now })
	rl.Allow("anna")

	now = now.Add(3 * time.Minute)
	rl.sweep()
	assert.Empty(t, rl.visitors)
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := newRateLimiter(0, time.Minute, time.Now)
	for i := 0; i < 100; i++ {
		assert.True(t, rl.Allow("anna"))
	}
}
