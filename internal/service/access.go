package service

import (
	"strings"

	"github.com/SANJIKS/sos-backend-sub001/internal/auth"
	"github.com/SANJIKS/sos-backend-sub001/internal/model"
)

// AccessResolver decides who may create, see, and manage a donation.
// Ownership is the account link when present; for donations made while logged
// out the donor email is the fallback link.
type AccessResolver interface {
	CanCreate(t model.DonationType, authenticated bool) bool
	CanView(p auth.Principal, d *model.Donation) bool
	CanManage(p auth.Principal, d *model.Donation) bool
}

type accessResolver struct{}

func NewAccessResolver() AccessResolver {
	return &accessResolver{}
}

// CanCreate lets anyone open a one-time donation; subscriptions need an
// account behind them. The validator enforces the same rule on its own.
func (a *accessResolver) CanCreate(t model.DonationType, authenticated bool) bool {
	return !t.IsRecurring() || authenticated
}

func (a *accessResolver) CanView(p auth.Principal, d *model.Donation) bool {
	if p.Admin {
		return true
	}

	if !p.Authenticated {
		return false
	}

	if d.UserID != nil {
		return *d.UserID == p.UserID
	}

	return emailMatches(p.Email, d.DonorEmail)
}

func (a *accessResolver) CanManage(p auth.Principal, d *model.Donation) bool {
	return a.CanView(p, d)
}

func emailMatches(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
