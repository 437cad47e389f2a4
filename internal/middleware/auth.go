package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/session"
)

const (
	// ContextKeyPrincipal is the key for the resolved principal in the Gin context
	ContextKeyPrincipal = "principal"
)

// TokenVerifier checks an ID token with the identity provider.
// *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// UserLookup loads the stored user document holding the role
type UserLookup interface {
	FindByUID(ctx context.Context, uid string) (*model.User, error)
}

// AuthMiddleware validates ID tokens and attaches {uid, email, role}
type AuthMiddleware struct {
	verifier TokenVerifier
	users    UserLookup
}

func NewAuthMiddleware(verifier TokenVerifier, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, users: users}
}

// Authenticate is the Gin middleware handler. One verification attempt per
// request; a user without a document proceeds with an empty role.
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing Authorization header",
			})
			return
		}

		// Expect "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid Authorization header format",
			})
			return
		}

		token, err := am.verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			log.Warn().Err(err).Msg("Failed to verify ID token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		p := session.Principal{UID: token.UID, IDToken: parts[1]}
		if email, ok := token.Claims["email"].(string); ok {
			p.Email = email
		}

		user, err := am.users.FindByUID(c.Request.Context(), token.UID)
		if err != nil {
			log.Error().Err(err).Str("uid", token.UID).Msg("Failed to resolve user role")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if user != nil {
			p.Role = user.Role
			if p.Email == "" {
				p.Email = user.Email
			}
		}

		c.Set(ContextKeyPrincipal, p)
		c.Next()
	}
}

// GetPrincipal extracts the resolved principal from the Gin context
func GetPrincipal(c *gin.Context) session.Principal {
	v, _ := c.Get(ContextKeyPrincipal)
	if p, ok := v.(session.Principal); ok {
		return p
	}
	return session.Principal{}
}
