package domain

// Registration tracks password attempts and the blacklist flag for a chat
// identity, independent of whether registration ever completed.
type Registration struct {
	UserID      int64
	Attempts    int
	Blacklisted bool
}

// MaxRegistrationAttempts is the number of failed password entries after
// which the caller blacklists the user.
const MaxRegistrationAttempts = 3
