// Package authguard implements a minimal bearer-token admin guard for
// mutating HTTP routes, adapted from internal/auth's bcrypt+JWT login flow
// but scoped down: the jukebox has a single shared admin secret rather than
// a per-user login, so the token-issuance and rate-limiting machinery that
// auth.go carries has nothing to operate on here and is not reproduced
// (see DESIGN.md). The one piece that survives is auth.go's own approach to
// the secret itself: hash it with bcrypt at construction time and never
// compare plaintext at request time.
package authguard

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Guard enforces Authorization: Bearer <token> against a fixed shared
// secret, hashed with bcrypt. If the secret is empty, the guard is disabled
// (every request passes) — this matches a typical local/trusted-network
// deployment where JUKECTL_ADMIN_TOKEN is left unset.
type Guard struct {
	enabled   bool
	tokenHash []byte
}

// New constructs a Guard over the given shared secret, hashing it
// immediately so the plaintext is never retained past this call.
func New(token string) *Guard {
	if token == "" {
		return &Guard{enabled: false}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash admin token with bcrypt", "error", err)
		hash = []byte("$2a$10$INVALIDHASHXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX")
	}
	return &Guard{enabled: true, tokenHash: hash}
}

// Middleware returns a gin middleware enforcing the guard. Every mutating
// request pays one bcrypt comparison; the jukebox's admin surface sees
// nowhere near the request volume where that cost would matter.
func (g *Guard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.enabled {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{
				"status": "error",
				"error":  "authentication required",
			})
			return
		}

		presented := strings.TrimSpace(parts[1])
		if bcrypt.CompareHashAndPassword(g.tokenHash, []byte(presented)) != nil {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{
				"status": "error",
				"error":  "invalid token",
			})
			return
		}

		c.Next()
	}
}
