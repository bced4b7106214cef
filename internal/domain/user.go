package domain

type ContextKey string

const UserContextKey ContextKey = "user"

// User is the authenticated seller taken from the access token claims.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
