package inbound

import (
	"github.com/wishbox/wishbox/internal/identity/usecase"
	"github.com/wishbox/wishbox/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the passcode-based auth flow.
type HTTPEndpoint struct {
	uc uc
}

// Signup creates an account and sends a confirmation passcode by email.
func (h *HTTPEndpoint) Signup(r *router.Request) (any, error) {
	var req SignupRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Signup(r.Context(), usecase.SignupInput{
		Name:  req.Name,
		Email: req.Email,
	}); err != nil {
		return nil, err
	}

	return &SignupResponse{}, nil
}

// Login sends a sign-in passcode to an existing account.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Login(r.Context(), usecase.LoginInput{Email: req.Email}); err != nil {
		return nil, err
	}

	return &LoginResponse{}, nil
}

// Verify checks a passcode and returns an access token.
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Verify(r.Context(), usecase.VerifyInput{
		Email: req.Email,
		Code:  req.Code,
	})
	if err != nil {
		return nil, err
	}

	return VerifyResponse{
		Name:        resp.Name,
		Email:       resp.Email,
		AccessToken: resp.AccessToken,
	}, nil
}
