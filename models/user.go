package models

import "time"

type User struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Email          string    `gorm:"size:255;unique;not null" json:"email"`
	Password       string    `gorm:"size:255" json:"-"` // bcrypt hash, hidden from JSON
	EmailConfirmed bool      `gorm:"not null;default:false" json:"email_confirmed"`
	IsAdmin        bool      `gorm:"not null;default:false" json:"is_admin"`
	IsSystem       bool      `gorm:"not null;default:false" json:"is_system"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	Memberships []GroupMembership `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
