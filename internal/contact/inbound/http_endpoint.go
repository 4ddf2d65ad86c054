package inbound

import (
	"time"

	"github.com/samber/lo"
	"github.com/wishbox/wishbox/internal/contact/entity"
	"github.com/wishbox/wishbox/internal/contact/usecase"
	"github.com/wishbox/wishbox/internal/pkg/goerror"
	"github.com/wishbox/wishbox/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for contact management.
type HTTPEndpoint struct {
	uc uc
}

// Add creates a contact.
func (h *HTTPEndpoint) Add(r *router.Request) (any, error) {
	var req AddContactRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	dob, err := time.Parse(time.DateOnly, req.DateOfBirth)
	if err != nil {
		return nil, goerror.NewInvalidFormat("date_of_birth must use YYYY-MM-DD")
	}

	resp, err := h.uc.Add(r.Context(), usecase.AddInput{
		Name:        req.Name,
		Email:       req.Email,
		DateOfBirth: dob,
	})
	if err != nil {
		return nil, err
	}

	return AddContactResponse{ID: resp.ID}, nil
}

// List returns all contacts.
func (h *HTTPEndpoint) List(r *router.Request) (any, error) {
	resp, err := h.uc.List(r.Context())
	if err != nil {
		return nil, err
	}

	return ListContactsResponse{
		Contacts: lo.Map(resp.Contacts, func(c entity.Contact, _ int) Contact {
			return newContact(c)
		}),
	}, nil
}

// Detail returns a single contact by id.
func (h *HTTPEndpoint) Detail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.Detail(r.Context(), usecase.DetailInput{ID: id})
	if err != nil {
		return nil, err
	}

	return newContact(resp.Contact), nil
}

// Remove deletes a contact by id.
func (h *HTTPEndpoint) Remove(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.Remove(r.Context(), usecase.RemoveInput{ID: id}); err != nil {
		return nil, err
	}

	return nil, nil
}

// Export uploads a CSV of all contacts and returns a download link.
func (h *HTTPEndpoint) Export(r *router.Request) (any, error) {
	resp, err := h.uc.Export(r.Context())
	if err != nil {
		return nil, err
	}

	return ExportContactsResponse{
		Key:         resp.Key,
		DownloadURL: resp.DownloadURL,
		Count:       resp.Count,
	}, nil
}
