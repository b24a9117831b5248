package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"clubmanager/pkg/auth"

	"github.com/aws/aws-lambda-go/events"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizerClaims(t *testing.T) {
	// Arrange
	var identity auth.Identity
	var identifyErr error
	router := chi.NewRouter()
	router.Get("/me", func(w http.ResponseWriter, r *http.Request) {
		identity, identifyErr = AuthorizerClaims{}.Identify(r)
		w.WriteHeader(http.StatusOK)
	})
	adapter := chiadapter.NewV2(router)

	req := events.APIGatewayV2HTTPRequest{
		RawPath: "/me",
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: http.MethodGet, Path: "/me"},
			Authorizer: &events.APIGatewayV2HTTPRequestContextAuthorizerDescription{
				JWT: &events.APIGatewayV2HTTPRequestContextAuthorizerJWTDescription{
					Claims: map[string]string{"sub": "u-1", "cognito:username": "jdoe", "email": "j@example.com"},
				},
			},
		},
	}

	// Act
	resp, err := adapter.ProxyWithContextV2(context.Background(), req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, identifyErr)
	assert.Equal(t, auth.Identity{ID: "u-1", Username: "jdoe", Email: "j@example.com"}, identity)
}

func TestAuthorizerClaims_NoProxyContext(t *testing.T) {
	_, err := AuthorizerClaims{}.Identify(httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Error(t, err)
}

func TestBearerClaims(t *testing.T) {
	parser, err := auth.NewTokenParser("secret", false)
	require.NoError(t, err)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u-7"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	identity, err := BearerClaims{Parser: parser}.Identify(req)

	require.NoError(t, err)
	assert.Equal(t, "u-7", identity.ID)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.Header.Set("X-Real-IP", "203.0.113.10")
	assert.Equal(t, "10.0.0.1", clientIP(req), "forwarding headers are not trusted")
}
