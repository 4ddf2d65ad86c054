package inbound

import (
	"context"

	"github.com/wishbox/wishbox/internal/contact/usecase"
	"github.com/wishbox/wishbox/internal/pkg/router"
)

type uc interface {
	Add(ctx context.Context, in usecase.AddInput) (*usecase.AddOutput, error)
	List(ctx context.Context) (*usecase.ListOutput, error)
	Detail(ctx context.Context, in usecase.DetailInput) (*usecase.DetailOutput, error)
	Remove(ctx context.Context, in usecase.RemoveInput) error
	Export(ctx context.Context) (*usecase.ExportOutput, error)
	ScanBirthdays(ctx context.Context) (*usecase.ScanBirthdaysOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// All contact endpoints need an authenticated caller.
	r.GET("/api/v1/contacts", end.List)
	r.POST("/api/v1/contacts", end.Add)
	r.GET("/api/v1/contacts/:id", end.Detail)
	r.DELETE("/api/v1/contacts/:id", end.Remove)
	r.GET("/api/v1/contacts-export", end.Export)
}
