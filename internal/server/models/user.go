package models

// User is the server-side account record. PasswordHash is a bcrypt hash and
// never leaves the service layer.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Company      string
	Phone        string
}
