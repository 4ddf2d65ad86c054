package entity

import "time"

// User is a registered account. Authentication is passwordless; ownership of
// the email address is proven with a one-time passcode.
type User struct {
	ID    int64
	Name  string
	Email string
}

// OTPRecord is a pending one-time passcode for an email address.
//
// At most one record exists per email; issuing a new code replaces the
// previous one.
type OTPRecord struct {
	Email     string
	Code      string
	Purpose   OTPPurpose
	Used      bool
	Sent      bool
	ExpiresAt time.Time
}
