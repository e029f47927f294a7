package services

import (
	"errors"
	"testing"
	"time"

	"github.com/vnkhanh/invite-server/store"
)

func testIssuer(records *fakeRecords, notify *fakeNotifier) *Issuer {
	return &Issuer{
		Records: records,
		Notify:  notify,
		Secret:  "test-secret",
		Now:     func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) },
	}
}

func TestIssueInviteCreatesRecordAndNotifies(t *testing.T) {
	records := &fakeRecords{}
	notify := &fakeNotifier{}
	issuer := testIssuer(records, notify)

	expiry := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	token, err := issuer.IssueInvite(1, "alice@example.com", "paid, beta ,paid", &expiry)
	if err != nil {
		t.Fatalf("issue invite: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	inv, err := records.GetByToken(token)
	if err != nil {
		t.Fatalf("stored invite not found: %v", err)
	}
	if inv.UsedAt != nil {
		t.Fatal("fresh invite must not be redeemed")
	}
	got := inv.GroupNames()
	want := []string{"paid", "beta"}
	if len(got) != len(want) {
		t.Fatalf("groups = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("groups = %v, want %v", got, want)
		}
	}
	if inv.Expiry == nil || !inv.Expiry.Equal(expiry) {
		t.Fatalf("expiry = %v, want %v", inv.Expiry, expiry)
	}

	if len(notify.sent) != 1 || notify.sent[0] != "alice@example.com:"+token {
		t.Fatalf("notifier calls = %v", notify.sent)
	}
}

func TestIssueInviteRejectsBadEmail(t *testing.T) {
	records := &fakeRecords{}
	issuer := testIssuer(records, &fakeNotifier{})

	for _, email := range []string{"", "not-an-email", "a b@x.com", "Bob <bob@x.com>"} {
		_, err := issuer.IssueInvite(1, email, "paid", nil)
		if !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("email %q: err = %v, want ErrInvalidEmail", email, err)
		}
	}
	if len(records.invites) != 0 {
		t.Fatalf("validation failures must not create records, got %d", len(records.invites))
	}
}

func TestIssueInviteRejectsEmptyGroups(t *testing.T) {
	issuer := testIssuer(&fakeRecords{}, &fakeNotifier{})

	for _, groups := range []string{"", " , ,", ","} {
		_, err := issuer.IssueInvite(1, "alice@example.com", groups, nil)
		if !errors.Is(err, ErrNoGroups) {
			t.Errorf("groups %q: err = %v, want ErrNoGroups", groups, err)
		}
	}
}

func TestIssueInviteTokensUnique(t *testing.T) {
	records := &fakeRecords{}
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	issuer := &Issuer{
		Records: records,
		Secret:  "test-secret",
		Now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Nanosecond)
		},
	}

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := issuer.IssueInvite(1, "alice@example.com", "paid", nil)
		if err != nil {
			t.Fatalf("issue %d: %v", i, err)
		}
		if seen[token] {
			t.Fatalf("token %q issued twice", token)
		}
		seen[token] = true
	}
}

func TestIssueInviteRetriesOnceOnDuplicate(t *testing.T) {
	records := &fakeRecords{}
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	issuer := &Issuer{
		Records: records,
		Secret:  "test-secret",
		Now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
	}

	// First create attempt fails with a collision, the retry succeeds.
	records.createErr = store.ErrDuplicateToken
	token, err := issuer.IssueInvite(1, "alice@example.com", "paid", nil)
	if err != nil {
		t.Fatalf("issue invite: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token from the retry")
	}
	if len(records.invites) != 1 {
		t.Fatalf("invites = %d, want 1", len(records.invites))
	}
}
