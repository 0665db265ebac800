package domain

// Role is the access level the remote API assigns to an account.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleClient Role = "CLIENTE"
)

// Valid reports whether r is one of the two roles the API knows about.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

// User is an account as returned by GET /usuarios.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"nombre"`
	Email string `json:"email"`
	Role  Role   `json:"rol"`
	Coins int    `json:"monedas"`
}

// CreateUserInput is the body of POST /usuarios. Password may be left empty
// when the API generates one.
type CreateUserInput struct {
	Name     string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"rol"`
}
