package usecase

import (
	"context"
	"time"

	"github.com/wishbox/wishbox/internal/contact/entity"
	"github.com/wishbox/wishbox/internal/pkg/clock"
	"github.com/wishbox/wishbox/internal/pkg/config"
	"github.com/wishbox/wishbox/internal/pkg/goerror"
	"github.com/wishbox/wishbox/internal/pkg/instrument"
	"github.com/wishbox/wishbox/internal/pkg/jwt"
	"github.com/wishbox/wishbox/internal/pkg/storage"
	"github.com/wishbox/wishbox/internal/pkg/uid"
	"github.com/wishbox/wishbox/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type ContactBirthdayEvent struct {
	ContactID int64
	Name      string
	Email     string
	Date      time.Time
}

type repoDB interface {
	CreateContact(ctx context.Context, c entity.Contact) error
	GetContactByID(ctx context.Context, id int64) (*entity.Contact, error)
	ListContacts(ctx context.Context) ([]entity.Contact, error)
	DeleteContact(ctx context.Context, id int64) error

	// ListBirthdays returns contacts whose date of birth matches the
	// month and day of the given time.
	ListBirthdays(ctx context.Context, on time.Time) ([]entity.Contact, error)
}

type repoMessaging interface {
	PublishContactBirthday(ctx context.Context, msg ContactBirthdayEvent) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	storage       storage.Storage
	validator     validator.Validator
	cfg           config.Config
	uid           uid.NumberID
	oid           uid.StringID
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Storage       storage.Storage
	Validator     validator.Validator
	Config        config.Config
	UID           uid.NumberID
	OID           uid.StringID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		storage:       dep.Storage,
		validator:     dep.Validator,
		cfg:           dep.Config,
		uid:           dep.UID,
		oid:           dep.OID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("contact.usecase").Start(ctx, name)
}

func (s *Usecase) authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	return clm, nil
}
