package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/vnkhanh/invite-server/store"
	"github.com/vnkhanh/invite-server/utils"
)

// OutcomeKind distinguishes the three reconciliation decisions.
type OutcomeKind string

const (
	OutcomeInviteSent    OutcomeKind = "invite_sent"
	OutcomeGroupGranted  OutcomeKind = "group_granted"
	OutcomeGroupExtended OutcomeKind = "group_extended"
)

// Outcome is the result of reconciling one renewal notification.
type Outcome struct {
	Kind      OutcomeKind
	Token     string     // set for OutcomeInviteSent
	Expiry    *time.Time // granted expiry for OutcomeGroupGranted
	OldExpiry *time.Time // set for OutcomeGroupExtended
	NewExpiry *time.Time // set for OutcomeGroupExtended
}

// Reconciler decides what a repeat notification about an email means:
// a brand-new invite, a fresh grant of the target group, or an extension of
// an existing unexpired membership.
type Reconciler struct {
	Records     InviteRecords
	Accounts    Accounts
	Groups      Groups
	Issuer      *Issuer
	SystemActor string // inviter name used when reconciliation issues invites
	Now         func() time.Time
}

func (r *Reconciler) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Reconcile processes one notification. requestedExpiry is required;
// eventDate is optional and defaults to "now" when computing the renewal
// period. All validation happens before any side effect.
func (r *Reconciler) Reconcile(email, groups, requestedExpiry, eventDate string) (*Outcome, error) {
	reqExpiry, err := utils.ParseTimestamp(requestedExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: requested expiry %q", ErrInvalidTimestamp, requestedExpiry)
	}
	var eventAt *time.Time
	if eventDate != "" {
		t, err := utils.ParseTimestamp(eventDate)
		if err != nil {
			return nil, fmt.Errorf("%w: event date %q", ErrInvalidTimestamp, eventDate)
		}
		eventAt = &t
	}
	names := utils.NormalizeGroups(groups)
	if len(names) == 0 {
		return nil, ErrNoGroups
	}
	target := names[0]

	inv, err := r.Records.GetLatestByEmail(email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	// No redeemed invite means no account we know of: start from an invite.
	if inv == nil || inv.UsedAt == nil || inv.RedeemedBy == nil {
		return r.sendInvite(email, groups, reqExpiry)
	}

	account, err := r.Accounts.GetByID(*inv.RedeemedBy)
	if errors.Is(err, ErrAccountNotFound) {
		// The invite points at an account that is gone; treat the email as
		// never signed up and invite again.
		return r.sendInvite(email, groups, reqExpiry)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	existing, member, err := r.Groups.MembershipExpiry(account.ID, target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	// A lapsed or missing membership is a fresh grant with the requested
	// expiry as-is; the event date plays no part here.
	if !member || existing == nil || existing.Before(r.now()) {
		if err := r.Groups.Grant(account.ID, target, &reqExpiry); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		return &Outcome{Kind: OutcomeGroupGranted, Expiry: &reqExpiry}, nil
	}

	// Active membership: extend the current expiry by the paid period.
	// A negative period (requested expiry before the event date) is applied
	// as-is; operand sanity is the caller's problem.
	base := r.now()
	if eventAt != nil {
		base = *eventAt
	}
	period := reqExpiry.Sub(base)
	newExpiry := existing.Add(period)

	// The group subsystem cannot update an expiry in place: remove, then
	// re-grant. If the grant fails after the revoke the membership is lost
	// and needs manual recovery, so surface that loudly.
	if err := r.Groups.Revoke(account.ID, target); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if err := r.Groups.Grant(account.ID, target, &newExpiry); err != nil {
		return nil, fmt.Errorf("%w: membership %s revoked but re-grant failed: %v", ErrUpstream, target, err)
	}
	return &Outcome{Kind: OutcomeGroupExtended, OldExpiry: existing, NewExpiry: &newExpiry}, nil
}

func (r *Reconciler) sendInvite(email, groups string, expiry time.Time) (*Outcome, error) {
	inviterID, err := r.Accounts.EnsureSystemActor(r.SystemActor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	token, err := r.Issuer.IssueInvite(inviterID, email, groups, &expiry)
	if err != nil {
		return nil, err
	}
	return &Outcome{Kind: OutcomeInviteSent, Token: token}, nil
}
