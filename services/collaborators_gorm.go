package services

import (
	"errors"
	"time"

	"github.com/vnkhanh/invite-server/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccounts backs the Accounts interface with the users table.
type GormAccounts struct {
	DB *gorm.DB
}

func (a *GormAccounts) EnsureSystemActor(name string) (uint, error) {
	var u models.User
	err := a.DB.Where("name = ? AND is_system = ?", name, true).First(&u).Error
	if err == nil {
		return u.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	u = models.User{
		Name:     name,
		Email:    name + "@system.invalid",
		IsSystem: true,
	}
	if err := a.DB.Create(&u).Error; err != nil {
		return 0, err
	}
	return u.ID, nil
}

func (a *GormAccounts) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := a.DB.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (a *GormAccounts) SetEmail(u *models.User, email string) {
	u.Email = email
	u.EmailConfirmed = false
}

func (a *GormAccounts) ConfirmEmail(u *models.User) {
	u.EmailConfirmed = true
}

func (a *GormAccounts) Save(u *models.User) error {
	return a.DB.Save(u).Error
}

// GormGroups backs the Groups interface with the group_memberships table.
type GormGroups struct {
	DB *gorm.DB
}

func (g *GormGroups) ListGroups(userID uint) ([]string, error) {
	var names []string
	err := g.DB.Model(&models.GroupMembership{}).
		Where("user_id = ?", userID).
		Order("group_name asc").
		Pluck("group_name", &names).Error
	return names, err
}

func (g *GormGroups) MembershipExpiry(userID uint, group string) (*time.Time, bool, error) {
	var m models.GroupMembership
	err := g.DB.Where("user_id = ? AND group_name = ?", userID, group).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return m.Expiry, true, nil
}

func (g *GormGroups) Grant(userID uint, group string, expiry *time.Time) error {
	m := models.GroupMembership{
		UserID:    userID,
		GroupName: group,
		Expiry:    expiry,
	}
	return g.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "group_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"expiry"}),
	}).Create(&m).Error
}

func (g *GormGroups) Revoke(userID uint, group string) error {
	return g.DB.Where("user_id = ? AND group_name = ?", userID, group).
		Delete(&models.GroupMembership{}).Error
}
