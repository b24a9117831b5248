package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestIdentityFromClaims(t *testing.T) {
	id, err := IdentityFromClaims(map[string]string{
		"sub":              "u-1",
		"cognito:username": "jdoe",
		"email":            "jdoe@example.com",
		"name":             "Jane Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: "u-1", Username: "jdoe", Email: "jdoe@example.com", Name: "Jane Doe"}, id)

	id, err = IdentityFromClaims(map[string]string{"sub": "u-2", "username": "fallback"})
	require.NoError(t, err)
	assert.Equal(t, "fallback", id.Username)

	_, err = IdentityFromClaims(map[string]string{"email": "x@example.com"})
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestTokenParser_Verified(t *testing.T) {
	parser, err := NewTokenParser("s3cret", false)
	require.NoError(t, err)

	id, err := parser.Parse(signed(t, "s3cret", jwt.MapClaims{"sub": "u-1", "email": "a@example.com"}))
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.ID)

	_, err = parser.Parse(signed(t, "other", jwt.MapClaims{"sub": "u-1"}))
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := signed(t, "s3cret", jwt.MapClaims{"sub": "u-1", "exp": time.Now().Add(-time.Hour).Unix()})
	_, err = parser.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenParser_Unverified(t *testing.T) {
	_, err := NewTokenParser("", false)
	require.Error(t, err)

	parser, err := NewTokenParser("", true)
	require.NoError(t, err)

	id, err := parser.Parse(signed(t, "anything", jwt.MapClaims{"sub": "u-9"}))
	require.NoError(t, err)
	assert.Equal(t, "u-9", id.ID)
}

func TestBearerToken(t *testing.T) {
	token, err := BearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	for _, header := range []string{"", "abc", "Basic abc", "Bearer "} {
		_, err := BearerToken(header)
		assert.ErrorIs(t, err, ErrMissingToken, header)
	}
}

func TestKeyedLimiter(t *testing.T) {
	limiter := NewKeyedLimiter(2)
	now := time.Now()
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow(UserKey("a")))
	assert.True(t, limiter.Allow(UserKey("a")))
	assert.False(t, limiter.Allow(UserKey("a")))
	assert.True(t, limiter.Allow(UserKey("b")), "keys have independent buckets")

	now = now.Add(2 * time.Hour)
	assert.True(t, limiter.Allow(UserKey("a")))
	assert.Len(t, limiter.limiters, 1, "idle buckets are evicted")
}

func TestKeyedLimiter_SweepsAtMostOncePerInterval(t *testing.T) {
	limiter := NewKeyedLimiter(10)
	start := time.Now()
	now := start
	limiter.now = func() time.Time { return now }

	limiter.Allow(UserKey("a"))
	limiter.limiters[UserKey("a")].lastSeen = start.Add(-2 * time.Hour)

	now = start.Add(time.Minute)
	limiter.Allow(UserKey("b"))
	assert.Len(t, limiter.limiters, 2, "no sweep inside the interval")

	now = start.Add(limiter.sweepEvery)
	limiter.Allow(UserKey("b"))
	assert.Len(t, limiter.limiters, 1, "idle bucket evicted on the next sweep")
	assert.Contains(t, limiter.limiters, UserKey("b"))
}
