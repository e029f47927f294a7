package middleware

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/invite-server/config"
	"github.com/vnkhanh/invite-server/services"
	"github.com/vnkhanh/invite-server/store"
)

const (
	CtxPendingInvite = "pendingInvite" // *services.PendingInvite, nil when absent
	InviteCookie     = "invite"
)

// InviteContext attaches a pending invite to the request when a usable token
// arrives via the `invite` query parameter or the session cookie set by an
// earlier step of the signup flow. The pending state lives in the request
// context only; nothing about the invite is ambient.
func InviteContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		redeemer := &services.Redeemer{Records: store.NewInviteStore(config.DB)}

		token := c.Query("invite")
		fromCookie := false
		if token == "" {
			if v, err := c.Cookie(InviteCookie); err == nil {
				token = v
				fromCookie = true
			}
		}

		pending, err := redeemer.Lookup(token)
		if err != nil {
			log.Printf("invite lookup failed: %v", err)
		}
		if pending != nil {
			if !fromCookie {
				// Session cookie so the token survives the multi-step form.
				c.SetCookie(InviteCookie, pending.Token, 0, "/", "", false, true)
			}
			c.Set(CtxPendingInvite, pending)
		}
		c.Next()
	}
}

// ClearInviteCookie expires the session cookie after redemption.
func ClearInviteCookie(c *gin.Context) {
	c.SetCookie(InviteCookie, "", -1, "/", "", false, true)
}
