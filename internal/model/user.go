package model

// User is a contact submitter, keyed by email.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
