package model

import "time"

// Message is a contact-form submission. Messages are never updated in place;
// they are created by the public contact endpoint and deleted from the admin inbox.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
