package models

import "time"

type GroupMembership struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint       `gorm:"not null;uniqueIndex:idx_member_group" json:"user_id"`
	GroupName string     `gorm:"size:100;not null;uniqueIndex:idx_member_group" json:"group_name"`
	Expiry    *time.Time `gorm:"column:expiry" json:"expiry,omitempty"` // nil = never expires
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (GroupMembership) TableName() string {
	return "group_memberships"
}
