package model

import "time"

// Message is a single contact submission. User is populated when messages are
// listed; it is nil on the row returned from creation.
type Message struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	UserEmail string    `json:"userEmail"`
	CreatedAt time.Time `json:"createdAt"`
	User      *User     `json:"user,omitempty"`
}
