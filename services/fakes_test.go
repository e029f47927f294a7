package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/vnkhanh/invite-server/models"
	"github.com/vnkhanh/invite-server/store"
)

type fakeRecords struct {
	invites   []*models.Invite
	createErr error
	nextID    uint
}

func (f *fakeRecords) Create(inv *models.Invite) error {
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	for _, existing := range f.invites {
		if existing.Token == inv.Token {
			return store.ErrDuplicateToken
		}
	}
	f.nextID++
	inv.ID = f.nextID
	f.invites = append(f.invites, inv)
	return nil
}

func (f *fakeRecords) GetByToken(token string) (*models.Invite, error) {
	for _, inv := range f.invites {
		if inv.Token == token {
			return inv, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeRecords) GetLatestByEmail(email string) (*models.Invite, error) {
	var best *models.Invite
	for _, inv := range f.invites {
		if inv.Email != email {
			continue
		}
		if best == nil {
			best = inv
			continue
		}
		// redeemed outranks unredeemed, then newest redemption wins
		switch {
		case inv.UsedAt != nil && best.UsedAt == nil:
			best = inv
		case inv.UsedAt != nil && best.UsedAt != nil && inv.UsedAt.After(*best.UsedAt):
			best = inv
		case inv.UsedAt == nil && best.UsedAt == nil && inv.CreatedAt.After(best.CreatedAt):
			best = inv
		}
	}
	if best == nil {
		return nil, store.ErrNotFound
	}
	return best, nil
}

func (f *fakeRecords) MarkRedeemed(token string, accountID uint, redeemedAt time.Time) error {
	for _, inv := range f.invites {
		if inv.Token == token {
			if inv.UsedAt != nil {
				return store.ErrAlreadyRedeemed
			}
			at := redeemedAt
			id := accountID
			inv.UsedAt = &at
			inv.RedeemedBy = &id
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeAccounts struct {
	users       map[uint]*models.User
	systemID    uint
	savedEmails []string
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{users: make(map[uint]*models.User)}
}

func (f *fakeAccounts) EnsureSystemActor(name string) (uint, error) {
	if f.systemID == 0 {
		f.systemID = 999
		f.users[f.systemID] = &models.User{ID: f.systemID, Name: name, IsSystem: true}
	}
	return f.systemID, nil
}

func (f *fakeAccounts) GetByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return u, nil
}

func (f *fakeAccounts) SetEmail(u *models.User, email string) {
	u.Email = email
	u.EmailConfirmed = false
}

func (f *fakeAccounts) ConfirmEmail(u *models.User) {
	u.EmailConfirmed = true
}

func (f *fakeAccounts) Save(u *models.User) error {
	f.users[u.ID] = u
	f.savedEmails = append(f.savedEmails, u.Email)
	return nil
}

type grantCall struct {
	userID uint
	group  string
	expiry *time.Time
}

type revokeCall struct {
	userID uint
	group  string
}

type fakeGroups struct {
	memberships map[string]*time.Time // key userID|group, value expiry (nil = none)
	present     map[string]bool
	grants      []grantCall
	revokes     []revokeCall
	grantErr    error
	revokeErr   error
}

func newFakeGroups() *fakeGroups {
	return &fakeGroups{
		memberships: make(map[string]*time.Time),
		present:     make(map[string]bool),
	}
}

func groupKey(userID uint, group string) string {
	return fmt.Sprintf("%d|%s", userID, group)
}

func (f *fakeGroups) setMember(userID uint, group string, expiry *time.Time) {
	f.present[groupKey(userID, group)] = true
	f.memberships[groupKey(userID, group)] = expiry
}

func (f *fakeGroups) ListGroups(userID uint) ([]string, error) {
	prefix := fmt.Sprintf("%d|", userID)
	var out []string
	for key, ok := range f.present {
		if ok && strings.HasPrefix(key, prefix) {
			out = append(out, strings.TrimPrefix(key, prefix))
		}
	}
	return out, nil
}

func (f *fakeGroups) MembershipExpiry(userID uint, group string) (*time.Time, bool, error) {
	key := groupKey(userID, group)
	if !f.present[key] {
		return nil, false, nil
	}
	return f.memberships[key], true, nil
}

func (f *fakeGroups) Grant(userID uint, group string, expiry *time.Time) error {
	if f.grantErr != nil {
		return f.grantErr
	}
	f.grants = append(f.grants, grantCall{userID: userID, group: group, expiry: expiry})
	f.setMember(userID, group, expiry)
	return nil
}

func (f *fakeGroups) Revoke(userID uint, group string) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	f.revokes = append(f.revokes, revokeCall{userID: userID, group: group})
	key := groupKey(userID, group)
	delete(f.present, key)
	delete(f.memberships, key)
	return nil
}

type fakeNotifier struct {
	sent []string // "email:token"
}

func (f *fakeNotifier) SendInviteEmail(inviterID uint, email, token string) {
	f.sent = append(f.sent, email+":"+token)
}
