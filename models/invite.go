package models

import "time"

type Invite struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Token      string     `gorm:"size:64;uniqueIndex;not null" json:"token"`
	InviterID  uint       `gorm:"not null" json:"inviter_id"`
	Email      string     `gorm:"size:255;index;not null" json:"email"`
	Expiry     *time.Time `gorm:"column:expiry" json:"expiry,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UsedAt     *time.Time `gorm:"column:used_at" json:"used_at,omitempty"`
	RedeemedBy *uint      `gorm:"column:redeemed_by" json:"redeemed_by,omitempty"`

	Groups []InviteGroup `gorm:"foreignKey:InviteID;constraint:OnDelete:CASCADE" json:"groups"`
}

func (Invite) TableName() string {
	return "invites"
}

// GroupNames returns the granted group names in stored order.
func (i *Invite) GroupNames() []string {
	names := make([]string, 0, len(i.Groups))
	for _, g := range i.Groups {
		names = append(names, g.Name)
	}
	return names
}

// InviteGroup is one group granted by an invite. Groups used to live in a
// serialized column; the join table keeps them queryable without decoding.
type InviteGroup struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	InviteID uint   `gorm:"index;not null" json:"-"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Position int    `gorm:"not null;default:0" json:"position"`
}

func (InviteGroup) TableName() string {
	return "invite_groups"
}
