package store

import (
	"errors"
	"strings"
	"time"

	"github.com/vnkhanh/invite-server/models"
	"gorm.io/gorm"
)

// InviteStore is the durable storage for invite records, keyed by the
// redemption token.
type InviteStore struct {
	db *gorm.DB
}

func NewInviteStore(db *gorm.DB) *InviteStore {
	return &InviteStore{db: db}
}

// Create persists a new invite together with its group rows.
func (s *InviteStore) Create(inv *models.Invite) error {
	err := s.db.Create(inv).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return ErrDuplicateToken
	}
	return err
}

// GetByToken loads an invite and its groups.
func (s *InviteStore) GetByToken(token string) (*models.Invite, error) {
	var inv models.Invite
	err := s.db.Preload("Groups", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Where("token = ?", token).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetLatestByEmail returns the invite most likely to represent the email's
// current account: redeemed invites outrank unredeemed ones, more recent
// redemptions outrank older ones.
func (s *InviteStore) GetLatestByEmail(email string) (*models.Invite, error) {
	var inv models.Invite
	err := s.db.Preload("Groups", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Where("email = ?", email).
		Order("CASE WHEN used_at IS NULL THEN 1 ELSE 0 END asc").
		Order("used_at desc").
		Order("created_at desc").
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// MarkRedeemed sets used_at and redeemed_by exactly once. The conditional
// update is the single point of truth for "already consumed".
func (s *InviteStore) MarkRedeemed(token string, accountID uint, redeemedAt time.Time) error {
	res := s.db.Model(&models.Invite{}).
		Where("token = ? AND used_at IS NULL", token).
		Updates(map[string]interface{}{
			"used_at":     redeemedAt,
			"redeemed_by": accountID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&models.Invite{}).Where("token = ?", token).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrAlreadyRedeemed
	}
	return nil
}

// Delete removes an invite and its group rows.
func (s *InviteStore) Delete(token string) error {
	inv, err := s.GetByToken(token)
	if err != nil {
		return err
	}
	if err := s.db.Where("invite_id = ?", inv.ID).Delete(&models.InviteGroup{}).Error; err != nil {
		return err
	}
	return s.db.Delete(&models.Invite{}, inv.ID).Error
}

// List returns all invites, newest first, for the admin listing.
func (s *InviteStore) List() ([]models.Invite, error) {
	var invites []models.Invite
	err := s.db.Preload("Groups", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Order("created_at desc").Find(&invites).Error
	return invites, err
}

// isUniqueViolation matches driver-specific unique constraint errors that
// gorm does not always translate (postgres 23505, sqlite UNIQUE).
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(strings.ToUpper(msg), "UNIQUE")
}
