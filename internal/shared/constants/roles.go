package constants

// ================== USER ROLES ==================

// Role strings as stored on the users table and carried in JWT claims.
// Defined here so middleware can check roles without importing the users
// package (which itself imports middleware for its routes).
const (
	ROLE_USER  = "USER"
	ROLE_ADMIN = "ADMIN"
)
