package dto

// AddUserRequest creates a directory entry directly.
type AddUserRequest struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

// RenameUserRequest updates a display name.
type RenameUserRequest struct {
	Name string `json:"name"`
}

// SetAdminRequest flips the admin flag.
type SetAdminRequest struct {
	IsAdmin bool `json:"is_admin"`
}

// SharedPasswordRequest sets the registration password.
type SharedPasswordRequest struct {
	Password string `json:"password"`
}

// GatewayCallbackRequest carries a tagged command from the chat gateway.
type GatewayCallbackRequest struct {
	Data string `json:"data"`
}
