package model

// Role names accepted by the application.  Registration always assigns
// RoleClient; RoleAdmin is granted only through the out-of-band
// maintenance command (`libraryctl setrole`).
const (
	RoleClient = "Client"
	RoleAdmin  = "Admin"
)

// KnownRole reports whether the given role name belongs to the closed
// set of roles the application understands.
func KnownRole(role string) bool {
	return role == RoleClient || role == RoleAdmin
}

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column.  The json tags are
// omitted because these structs are used internally by the repository
// layer; handlers define separate response types with appropriate JSON
// tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.  Never serialized to a client.
//  Role         – role name (Client or Admin).
type User struct {
	ID           uint64 // users.id
	Email        string // users.email
	PasswordHash string // users.password_hash
	Role         string // users.role
}
