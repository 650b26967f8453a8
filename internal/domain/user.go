package domain

// User represents an authenticated operator account.
type User struct {
	Username string
	Name     string
	Role     Role
}

// RememberedUser is the login-form prefill stored when the operator asked to
// be remembered. It never carries credentials, only the username.
type RememberedUser struct {
	Username   string
	RememberMe bool
}
