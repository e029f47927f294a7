package controllers

import (
	"os"

	"github.com/vnkhanh/invite-server/config"
	"github.com/vnkhanh/invite-server/services"
	"github.com/vnkhanh/invite-server/store"
)

// The handlers assemble their services per request from the package-global
// DB handle. The structs are cheap; everything stateful lives in the DB.

func inviteRecords() *store.InviteStore {
	return store.NewInviteStore(config.DB)
}

func newIssuer() *services.Issuer {
	return &services.Issuer{
		Records: inviteRecords(),
		Notify:  services.NewSMTPNotifier(),
		Secret:  os.Getenv("SECRET_KEY"),
	}
}

func newRedeemer() *services.Redeemer {
	return &services.Redeemer{
		Records:  inviteRecords(),
		Accounts: &services.GormAccounts{DB: config.DB},
		Groups:   &services.GormGroups{DB: config.DB},
	}
}

func newReconciler() *services.Reconciler {
	return &services.Reconciler{
		Records:     inviteRecords(),
		Accounts:    &services.GormAccounts{DB: config.DB},
		Groups:      &services.GormGroups{DB: config.DB},
		Issuer:      newIssuer(),
		SystemActor: "invite-bot",
	}
}
