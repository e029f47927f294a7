package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/vnkhanh/invite-server/store"
)

// PendingInvite is the request-scoped state of an invite attached to an
// in-progress signup. It is populated once at request entry and carried
// through the creation flow; there is no ambient global.
type PendingInvite struct {
	Token string
	Email string
}

// Redeemer binds pending invites to signups and consumes them when the
// account exists.
type Redeemer struct {
	Records  InviteRecords
	Accounts Accounts
	Groups   Groups
	Now      func() time.Time
}

func (r *Redeemer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Lookup resolves a supplied token into a pending invite. A missing or
// already consumed invite yields nil without error: the request simply has
// no invite attached.
func (r *Redeemer) Lookup(token string) (*PendingInvite, error) {
	if token == "" {
		return nil, nil
	}
	inv, err := r.Records.GetByToken(token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if inv.UsedAt != nil {
		return nil, nil
	}
	return &PendingInvite{Token: inv.Token, Email: inv.Email}, nil
}

// Complete consumes the invite for a freshly created account: marks it
// redeemed, then sets and confirms the account email and applies the group
// grants with the invite's expiry.
//
// MarkRedeemed goes first. It is the single point of truth for "already
// consumed", so a second completion with the same token applies no grants.
// An absent or already redeemed invite is not an error; account creation
// must not fail because the invite went stale mid-flow.
func (r *Redeemer) Complete(accountID uint, token string) error {
	if token == "" {
		return nil
	}
	inv, err := r.Records.GetByToken(token)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if inv.UsedAt != nil {
		return nil
	}

	err = r.Records.MarkRedeemed(token, accountID, r.now())
	if errors.Is(err, store.ErrAlreadyRedeemed) || errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	account, err := r.Accounts.GetByID(accountID)
	if err != nil {
		return err
	}
	r.Accounts.SetEmail(account, inv.Email)
	r.Accounts.ConfirmEmail(account)
	for _, group := range inv.GroupNames() {
		if err := r.Groups.Grant(accountID, group, inv.Expiry); err != nil {
			return fmt.Errorf("%w: grant %s: %v", ErrUpstream, group, err)
		}
	}
	if err := r.Accounts.Save(account); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return nil
}
