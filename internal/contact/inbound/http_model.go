package inbound

import (
	"time"

	"github.com/wishbox/wishbox/internal/contact/entity"
)

type AddContactRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth"`
}

type AddContactResponse struct {
	ID int64 `json:"id,string"`
}

func (AddContactResponse) Message() string {
	return "Contact added."
}

type Contact struct {
	ID          int64  `json:"id,string"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth"`
}

func newContact(c entity.Contact) Contact {
	return Contact{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		DateOfBirth: c.DateOfBirth.Format(time.DateOnly),
	}
}

type ListContactsResponse struct {
	Contacts []Contact `json:"contacts"`
}

type ExportContactsResponse struct {
	Key         string `json:"key"`
	DownloadURL string `json:"download_url"`
	Count       int    `json:"count"`
}

func (ExportContactsResponse) Message() string {
	return "Contacts exported."
}
