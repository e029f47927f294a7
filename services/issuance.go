package services

import (
	"errors"
	"time"

	"github.com/vnkhanh/invite-server/models"
	"github.com/vnkhanh/invite-server/store"
	"github.com/vnkhanh/invite-server/utils"
)

// Issuer creates invite records and triggers delivery of the redemption link.
type Issuer struct {
	Records InviteRecords
	Notify  Notifier
	Secret  string           // token derivation key
	Now     func() time.Time // injectable clock
}

func (i *Issuer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}

// IssueInvite validates the request, persists a new invite and sends the
// invite email. groups is a comma separated list; expiry may be nil.
func (i *Issuer) IssueInvite(inviterID uint, email, groups string, expiry *time.Time) (string, error) {
	if !utils.ValidEmail(email) {
		return "", ErrInvalidEmail
	}
	names := utils.NormalizeGroups(groups)
	if len(names) == 0 {
		return "", ErrNoGroups
	}

	token, err := i.createRecord(inviterID, email, names, expiry)
	if err != nil {
		return "", err
	}

	if i.Notify != nil {
		i.Notify.SendInviteEmail(inviterID, email, token)
	}
	return token, nil
}

func (i *Issuer) createRecord(inviterID uint, email string, names []string, expiry *time.Time) (string, error) {
	// One retry on token collision; the derivation includes nanoseconds so a
	// second attempt gets a fresh token.
	for attempt := 0; ; attempt++ {
		createdAt := i.now()
		token := utils.NewInviteToken(i.Secret, inviterID, email, createdAt.Add(time.Duration(attempt)))

		inv := &models.Invite{
			Token:     token,
			InviterID: inviterID,
			Email:     email,
			Expiry:    expiry,
			CreatedAt: createdAt,
		}
		for pos, name := range names {
			inv.Groups = append(inv.Groups, models.InviteGroup{Name: name, Position: pos})
		}

		err := i.Records.Create(inv)
		if err == nil {
			return token, nil
		}
		if errors.Is(err, store.ErrDuplicateToken) && attempt == 0 {
			continue
		}
		return "", err
	}
}
