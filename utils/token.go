package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// NewInviteToken derives the redemption token for an invite. The token is an
// HMAC over the inviter, the target email and the creation instant, keyed by
// the server secret, so it cannot be forged without the secret and is unique
// per (inviter, email, instant).
func NewInviteToken(secret string, inviterID uint, email string, createdAt time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d|%s|%d", inviterID, email, createdAt.UnixNano())
	return hex.EncodeToString(mac.Sum(nil))
}
