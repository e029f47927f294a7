package models

import "time"

// RenewalEvent records one processed renewal notification. PayloadHash is a
// digest of the raw notification fields; an identical payload arriving again
// within the dedupe window replays the stored outcome instead of reprocessing.
type RenewalEvent struct {
	EventID     string     `gorm:"column:event_id;primaryKey;size:36" json:"event_id"`
	Email       string     `gorm:"size:255;index" json:"email"`
	PayloadHash string     `gorm:"size:64;index" json:"payload_hash"`
	Outcome     string     `gorm:"size:32" json:"outcome"` // invite_sent | group_granted | group_extended
	Token       *string    `gorm:"size:64" json:"token,omitempty"`
	OldExpiry   *time.Time `json:"old_expiry,omitempty"`
	NewExpiry   *time.Time `json:"new_expiry,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (RenewalEvent) TableName() string {
	return "renewal_events"
}
