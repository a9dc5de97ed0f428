// Package entitlement holds the pure time rules of connection access: how long
// a grant lasts and what state a stored grant is in at a given instant.
package entitlement

import (
	"errors"
	"time"

	"github.com/sevalink/marketplace_server/internal/model"
)

// Kind is the evaluated access state of a (user, provider) pair.
type Kind string

const (
	NoAccess       Kind = "no_access"
	ActiveLifetime Kind = "active_lifetime"
	ActiveTimed    Kind = "active_timed"
	Expired        Kind = "expired"
)

// Day is the length of one tier day.
const Day = 24 * time.Hour

var ErrInvalidDuration = errors.New("timed tier requires a positive duration")

// State is the result of Evaluate. Remaining is only positive for ActiveTimed.
type State struct {
	Kind      Kind
	Remaining time.Duration
}

// Active reports whether contact details may be shown.
func (s State) Active() bool {
	return s.Kind == ActiveLifetime || s.Kind == ActiveTimed
}

// Evaluate decides the access state of e at now. A nil entitlement is
// NoAccess; a nil ExpiresAt is lifetime access.
func Evaluate(e *model.Entitlement, now time.Time) State {
	if e == nil {
		return State{Kind: NoAccess}
	}
	if e.ExpiresAt == nil {
		return State{Kind: ActiveLifetime}
	}
	if e.ExpiresAt.After(now) {
		return State{Kind: ActiveTimed, Remaining: e.ExpiresAt.Sub(now)}
	}
	return State{Kind: Expired}
}

// NeedsReviewTrigger reports whether an observation of e at now is the
// expiry that should solicit a review.
func NeedsReviewTrigger(e *model.Entitlement, now time.Time) bool {
	return e != nil && !e.ReviewRequested && Evaluate(e, now).Kind == Expired
}

// Lifetime returns the length of a grant of tier. The second value is false
// for lifetime grants, which never expire. The free tier runs for
// DurationMinutes, timed tiers for DurationDays whole days.
func Lifetime(tier *model.AccessTier) (time.Duration, bool, error) {
	switch {
	case tier.IsLifetime():
		return 0, false, nil
	case tier.ID == model.TierFree:
		if tier.DurationMinutes <= 0 {
			return 0, true, ErrInvalidDuration
		}
		return time.Duration(tier.DurationMinutes) * time.Minute, true, nil
	default:
		if tier.DurationDays == nil || *tier.DurationDays <= 0 {
			return 0, true, ErrInvalidDuration
		}
		return time.Duration(*tier.DurationDays) * Day, true, nil
	}
}

// ExpiresAt computes the expiry of a grant of tier made at grantedAt, or nil
// for lifetime.
func ExpiresAt(tier *model.AccessTier, grantedAt time.Time) (*time.Time, error) {
	d, expires, err := Lifetime(tier)
	if err != nil {
		return nil, err
	}
	if !expires {
		return nil, nil
	}
	t := grantedAt.Add(d)
	return &t, nil
}

// New builds a fresh grant record. It never carries over state from an
// earlier grant at the same key.
func New(userID, providerID int64, tier *model.AccessTier, paymentID *string, now time.Time) (*model.Entitlement, error) {
	grantedAt := now.UTC().Truncate(time.Second)
	expiresAt, err := ExpiresAt(tier, grantedAt)
	if err != nil {
		return nil, err
	}
	return &model.Entitlement{
		ID:              model.EntitlementKey(userID, providerID),
		UserID:          userID,
		ProviderID:      providerID,
		AccessType:      tier.ID,
		GrantedAt:       grantedAt,
		ExpiresAt:       expiresAt,
		PaymentID:       paymentID,
		ReviewRequested: false,
	}, nil
}
