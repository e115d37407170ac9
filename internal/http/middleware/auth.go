package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"policy-service/internal/auth"
	"policy-service/internal/model"
)

const (
	principalContextKey = "principal"
	authorizationHeader = "Authorization"
	bearerScheme        = "bearer"
)

var (
	errMissingHeader = errors.New("authorization header missing")
	errBadScheme     = errors.New("expected a bearer token")
)

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, bearerScheme) || token == "" {
		return "", errBadScheme
	}
	return token, nil
}

// Auth admits requests carrying a valid access token whose role is one of
// roles (any role when roles is empty). The principal is stored in the
// context together with the request id assigned by RequestLogger.
func Auth(parser *auth.Parser, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader(authorizationHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := parser.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		principal := model.Principal{
			UserID:    claims.UserID,
			Role:      claims.Role,
			RequestID: c.GetString(requestIDContextKey),
		}
		if !principal.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role is not allowed to read the policy journal"})
			return
		}

		c.Set(principalContextKey, principal)
		c.Next()
	}
}

// CurrentPrincipal returns the principal stored by Auth.
func CurrentPrincipal(c *gin.Context) (model.Principal, bool) {
	principal, ok := c.Value(principalContextKey).(model.Principal)
	return principal, ok
}
