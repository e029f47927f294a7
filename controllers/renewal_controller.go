package controllers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vnkhanh/invite-server/config"
	"github.com/vnkhanh/invite-server/models"
	"github.com/vnkhanh/invite-server/services"
	"github.com/vnkhanh/invite-server/store"
)

type RenewalReq struct {
	Email           string `json:"email" binding:"required"`
	Groups          string `json:"groups" binding:"required"`
	RequestedExpiry string `json:"requested_expiry" binding:"required"`
	EventDate       string `json:"event_date"`
}

// Billing providers retry notifications; an exact duplicate inside this
// window replays the recorded outcome instead of reprocessing.
const renewalDedupeWindow = 24 * time.Hour

// RenewalNotification reconciles a renewal/billing notification against the
// email's current state and records the decision.
func RenewalNotification(c *gin.Context) {
	var req RenewalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	events := store.NewRenewalEventStore(config.DB)
	hash := renewalPayloadHash(req)

	if prev, err := events.FindRecentByHash(hash, time.Now().Add(-renewalDedupeWindow)); err == nil {
		c.JSON(http.StatusOK, renewalEventBody(prev, true))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot check notification history"})
		return
	}

	outcome, err := newReconciler().Reconcile(req.Email, req.Groups, req.RequestedExpiry, req.EventDate)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTimestamp):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid timestamp"})
		case errors.Is(err, services.ErrInvalidEmail):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid email address"})
		case errors.Is(err, services.ErrNoGroups):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "No groups given"})
		case errors.Is(err, services.ErrUpstream):
			c.JSON(http.StatusBadGateway, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Reconciliation failed"})
		}
		return
	}

	ev := &models.RenewalEvent{
		EventID:     uuid.NewString(),
		Email:       req.Email,
		PayloadHash: hash,
		Outcome:     string(outcome.Kind),
		OldExpiry:   outcome.OldExpiry,
		NewExpiry:   outcome.NewExpiry,
	}
	if outcome.Token != "" {
		ev.Token = &outcome.Token
	}
	if outcome.Kind == services.OutcomeGroupGranted {
		ev.NewExpiry = outcome.Expiry
	}
	if err := events.Record(ev); err != nil {
		// The decision already took effect; a lost audit row only weakens
		// dedupe, so log and keep going.
		log.Printf("renewal event record failed: %v", err)
	}

	c.JSON(http.StatusOK, renewalEventBody(ev, false))
}

func renewalPayloadHash(req RenewalReq) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%s",
		req.Email, req.Groups, req.RequestedExpiry, req.EventDate)))
	return hex.EncodeToString(sum[:])
}

func renewalEventBody(ev *models.RenewalEvent, replayed bool) gin.H {
	body := gin.H{
		"event_id": ev.EventID,
		"outcome":  ev.Outcome,
		"replayed": replayed,
	}
	if ev.Token != nil {
		body["token"] = *ev.Token
	}
	if ev.OldExpiry != nil {
		body["old_expiry"] = ev.OldExpiry
	}
	if ev.NewExpiry != nil {
		body["new_expiry"] = ev.NewExpiry
	}
	return body
}
