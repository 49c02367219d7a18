package entity

import "time"

// MaxAttempts is the number of wrong codes tolerated before the record is
// invalidated.
const MaxAttempts int64 = 5

// Account is the identity-provider view of a principal.
type Account struct {
	ID    string
	Email string
}

// OtpRecord is the live reset-code state for one principal.
//
// At most one record exists per email; a new issuance overwrites it.
type OtpRecord struct {
	CodeHash  string
	CreatedAt time.Time
	ExpiresAt time.Time
	Used      bool
	Attempts  int64
}

// Expired reports whether the record is past its validity window at now.
func (r OtpRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// LockedOut reports whether the attempt budget is exhausted.
func (r OtpRecord) LockedOut() bool {
	return r.Attempts >= MaxAttempts
}
