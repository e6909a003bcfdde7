package domain

// User is the domain model for a registered participant. The ID is the stable
// external chat identity; the display name may be empty until the user (or an
// admin) sets it.
type User struct {
	ID      int64
	Name    string
	IsAdmin bool
}
