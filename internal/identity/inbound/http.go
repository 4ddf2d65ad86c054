package inbound

import (
	"context"

	"github.com/wishbox/wishbox/internal/identity/usecase"
	"github.com/wishbox/wishbox/internal/pkg/router"
)

type uc interface {
	Signup(ctx context.Context, in usecase.SignupInput) error
	Login(ctx context.Context, in usecase.LoginInput) error
	Verify(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/auth/signup", end.Signup)
	r.POST("/api/v1/auth/login", end.Login)
	r.POST("/api/v1/auth/verify", end.Verify)
}
