package services

import (
	"time"

	"github.com/vnkhanh/invite-server/models"
)

// InviteRecords is the slice of the invite store the services depend on.
// *store.InviteStore satisfies it.
type InviteRecords interface {
	Create(inv *models.Invite) error
	GetByToken(token string) (*models.Invite, error)
	GetLatestByEmail(email string) (*models.Invite, error)
	MarkRedeemed(token string, accountID uint, redeemedAt time.Time) error
}

// Accounts is the slice of the user subsystem the invite flows invoke.
type Accounts interface {
	// EnsureSystemActor returns the id of the named system user, creating
	// it on first use.
	EnsureSystemActor(name string) (uint, error)
	GetByID(id uint) (*models.User, error)
	SetEmail(u *models.User, email string)
	ConfirmEmail(u *models.User)
	Save(u *models.User) error
}

// Groups is the group-membership subsystem. Expiries are absolute instants;
// a nil expiry means the membership never lapses.
type Groups interface {
	ListGroups(userID uint) ([]string, error)
	// MembershipExpiry returns the membership expiry and whether the user is
	// currently a member at all.
	MembershipExpiry(userID uint, group string) (*time.Time, bool, error)
	Grant(userID uint, group string, expiry *time.Time) error
	Revoke(userID uint, group string) error
}

// Notifier delivers the invite email. Fire-and-forget: implementations log
// failures instead of returning them.
type Notifier interface {
	SendInviteEmail(inviterID uint, email, token string)
}
