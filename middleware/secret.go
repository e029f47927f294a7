package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

const HeaderInviteSecret = "X-Invite-Secret"

// RequireSharedSecret authenticates the external trigger endpoints (invite
// issuance, renewal notifications) with a shared secret. The comparison is
// constant time, and an unset secret fails closed.
func RequireSharedSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := os.Getenv("INVITE_API_SECRET")
		got := c.GetHeader(HeaderInviteSecret)
		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid secret"})
			return
		}
		c.Next()
	}
}
