package model

// ContactSubmission is the payload accepted by POST /api/contact.
type ContactSubmission struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactResult is what a successful submission produced. It is both the
// HTTP response data and the "new-message" broadcast payload.
type ContactResult struct {
	Message *Message `json:"message"`
	User    *User    `json:"user"`
}
