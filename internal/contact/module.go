package contact

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wishbox/wishbox/internal/contact/inbound"
	"github.com/wishbox/wishbox/internal/contact/outbound/db"
	"github.com/wishbox/wishbox/internal/contact/outbound/mq"
	"github.com/wishbox/wishbox/internal/contact/usecase"
	"github.com/wishbox/wishbox/internal/pkg/clock"
	"github.com/wishbox/wishbox/internal/pkg/config"
	"github.com/wishbox/wishbox/internal/pkg/goroutine"
	"github.com/wishbox/wishbox/internal/pkg/instrument"
	"github.com/wishbox/wishbox/internal/pkg/messaging"
	"github.com/wishbox/wishbox/internal/pkg/router"
	"github.com/wishbox/wishbox/internal/pkg/storage"
	"github.com/wishbox/wishbox/internal/pkg/uid"
	"github.com/wishbox/wishbox/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Storage    storage.Storage            `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	OID        uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(ctx context.Context, dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbContact := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbContact,
		RepoMessaging: repoMsg,
		Storage:       dep.Storage,
		Validator:     dep.Validator,
		Config:        dep.Config,
		UID:           dep.UID,
		OID:           dep.OID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	inbound.RegisterBirthdayJob(ctx, dep.Config, dep.Goroutine, dep.UUID, uc, dep.Instrument)

	return nil
}
