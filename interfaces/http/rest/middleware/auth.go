package middleware

import (
	"errors"
	"net"
	"net/http"

	"clubmanager/pkg/auth"
	apperrors "clubmanager/pkg/errors"

	"github.com/awslabs/aws-lambda-go-api-proxy/core"
	"go.uber.org/zap"
)

// IdentitySource resolves the authenticated caller of a request
type IdentitySource interface {
	Identify(r *http.Request) (auth.Identity, error)
}

// AuthorizerClaims reads the claims API Gateway's JWT authorizer attached to
// the proxied request. The token has already been validated upstream.
type AuthorizerClaims struct{}

// Identify implements IdentitySource
func (AuthorizerClaims) Identify(r *http.Request) (auth.Identity, error) {
	proxyCtx, ok := core.GetAPIGatewayV2ContextFromContext(r.Context())
	if !ok {
		return auth.Identity{}, errors.New("no API Gateway request context")
	}
	if proxyCtx.Authorizer == nil || proxyCtx.Authorizer.JWT == nil {
		return auth.Identity{}, auth.ErrMissingToken
	}
	return auth.IdentityFromClaims(proxyCtx.Authorizer.JWT.Claims)
}

// BearerClaims parses the Authorization header locally
type BearerClaims struct {
	Parser *auth.TokenParser
}

// Identify implements IdentitySource
func (b BearerClaims) Identify(r *http.Request) (auth.Identity, error) {
	token, err := auth.BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return auth.Identity{}, err
	}
	return b.Parser.Parse(token)
}

// Authenticate resolves the caller, applies the per-caller rate limit and
// stores the identity in the request context
func Authenticate(source IdentitySource, limiter *auth.KeyedLimiter, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter != nil && !limiter.Allow(auth.IPKey(clientIP(r))) {
				errorHandler.Handle(w, r, apperrors.NewTooManyRequestsError("rate limit exceeded"))
				return
			}

			identity, err := source.Identify(r)
			if err != nil {
				logger.Debug("Request not authenticated",
					zap.Error(err),
					zap.String("path", r.URL.Path),
				)
				errorHandler.Handle(w, r, apperrors.NewUnauthorizedError(""))
				return
			}

			if limiter != nil && !limiter.Allow(auth.UserKey(identity.ID)) {
				errorHandler.Handle(w, r, apperrors.NewTooManyRequestsError("user rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}

// clientIP is the connection peer. On Lambda the proxy adapter sets it to the
// API Gateway source IP. Client-supplied forwarding headers are ignored.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
