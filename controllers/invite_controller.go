package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/invite-server/config"
	"github.com/vnkhanh/invite-server/middleware"
	"github.com/vnkhanh/invite-server/models"
	"github.com/vnkhanh/invite-server/services"
	"github.com/vnkhanh/invite-server/store"
	"github.com/vnkhanh/invite-server/utils"
)

type IssueInviteReq struct {
	Email  string `json:"email" binding:"required"`
	Groups string `json:"groups" binding:"required"` // comma separated
	Expiry string `json:"expiry"`                    // optional, YYYYMMDDHHMMSS or RFC 3339
}

// ListInvites returns every invite, newest first.
func ListInvites(c *gin.Context) {
	invites, err := inviteRecords().List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot list invites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invites": invites})
}

// CreateInvite issues an invite on behalf of the authenticated admin.
func CreateInvite(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)
	issueInvite(c, u.ID)
}

// CreateExternalInvite issues an invite for a shared-secret caller (e.g. a
// provisioning system); the inviter is the system actor.
func CreateExternalInvite(c *gin.Context) {
	accounts := &services.GormAccounts{DB: config.DB}
	inviterID, err := accounts.EnsureSystemActor("invite-bot")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot resolve system actor"})
		return
	}
	issueInvite(c, inviterID)
}

func issueInvite(c *gin.Context, inviterID uint) {
	var req IssueInviteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	var expiry *time.Time
	if req.Expiry != "" {
		t, err := utils.ParseTimestamp(req.Expiry)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid expiry timestamp"})
			return
		}
		expiry = &t
	}

	token, err := newIssuer().IssueInvite(inviterID, req.Email, req.Groups, expiry)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidEmail):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid email address"})
		case errors.Is(err, services.ErrNoGroups):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "No groups given"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot create invite"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"result": "success", "token": token})
}

// DeleteInvite removes an invite by token.
func DeleteInvite(c *gin.Context) {
	token := c.Param("token")
	if err := inviteRecords().Delete(token); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Invite not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot delete invite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "success"})
}
