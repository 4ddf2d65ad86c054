package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/wishbox/wishbox/internal/contact/entity"
	"github.com/wishbox/wishbox/internal/pkg/config"
	"github.com/wishbox/wishbox/internal/pkg/goerror"
	"github.com/wishbox/wishbox/internal/pkg/instrument"
	"github.com/wishbox/wishbox/internal/pkg/jwt"
	"github.com/wishbox/wishbox/internal/pkg/storage"
	"github.com/wishbox/wishbox/internal/pkg/validator"
)

const testConfigYAML = `
storage:
  bucket: wishbox-test
`

type fakeRepoDB struct {
	contacts map[int64]entity.Contact
	listErr  error
}

func newFakeRepoDB() *fakeRepoDB {
	return &fakeRepoDB{contacts: map[int64]entity.Contact{}}
}

func (f *fakeRepoDB) CreateContact(_ context.Context, c entity.Contact) error {
	for _, existing := range f.contacts {
		if existing.Email == c.Email {
			return goerror.ErrConflict
		}
	}
	f.contacts[c.ID] = c
	return nil
}

func (f *fakeRepoDB) GetContactByID(_ context.Context, id int64) (*entity.Contact, error) {
	c, ok := f.contacts[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &c, nil
}

func (f *fakeRepoDB) ListContacts(_ context.Context) ([]entity.Contact, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]entity.Contact, 0, len(f.contacts))
	for _, c := range f.contacts {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepoDB) DeleteContact(_ context.Context, id int64) error {
	if _, ok := f.contacts[id]; !ok {
		return goerror.ErrNotFound
	}
	delete(f.contacts, id)
	return nil
}

func (f *fakeRepoDB) ListBirthdays(_ context.Context, on time.Time) ([]entity.Contact, error) {
	var out []entity.Contact
	for _, c := range f.contacts {
		if c.DateOfBirth.Month() == on.Month() && c.DateOfBirth.Day() == on.Day() {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeMessaging struct {
	published []ContactBirthdayEvent
	failEmail string
}

func (f *fakeMessaging) PublishContactBirthday(_ context.Context, msg ContactBirthdayEvent) error {
	if f.failEmail != "" && msg.Email == f.failEmail {
		return errors.New("broker unavailable")
	}
	f.published = append(f.published, msg)
	return nil
}

type fakeStorage struct {
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) Close() error { return nil }

func (f *fakeStorage) PutObject(_ context.Context, bucket, key string, r io.Reader, opts storage.PutOptions) (storage.ObjectInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	f.objects[bucket+"/"+key] = data
	return storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(data))}, nil
}

func (f *fakeStorage) GetObject(_ context.Context, bucket, key string, _ storage.GetOptions) (io.ReadCloser, storage.ObjectInfo, error) {
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, storage.ObjectInfo{}, errors.New("object not found")
	}
	return io.NopCloser(strings.NewReader(string(data))), storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(data))}, nil
}

func (f *fakeStorage) StatObject(_ context.Context, bucket, key string) (storage.ObjectInfo, error) {
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return storage.ObjectInfo{}, errors.New("object not found")
	}
	return storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(data))}, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, bucket, key string) error {
	delete(f.objects, bucket+"/"+key)
	return nil
}

func (f *fakeStorage) ListObjects(_ context.Context, _, _ string, _ storage.ListOptions) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (f *fakeStorage) PresignGet(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://example.com/" + bucket + "/" + key, nil
}

func (f *fakeStorage) PresignPut(_ context.Context, bucket, key string, _ storage.PutOptions, _ time.Duration) (string, error) {
	return "https://example.com/" + bucket + "/" + key, nil
}

type seqID struct{ next int64 }

func (s *seqID) Generate() int64 {
	s.next++
	return s.next
}

type fixedStringID struct{ v string }

func (f fixedStringID) Generate() string { return f.v }

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

type fixture struct {
	uc        *Usecase
	repo      *fakeRepoDB
	messaging *fakeMessaging
	storage   *fakeStorage
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("new config: %v", err)
	}

	repo := newFakeRepoDB()
	msg := &fakeMessaging{}
	stg := newFakeStorage()
	now := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

	uc := New(Dependency{
		RepoDB:        repo,
		RepoMessaging: msg,
		Storage:       stg,
		Validator:     v,
		Config:        cfg,
		UID:           &seqID{},
		OID:           fixedStringID{v: "6650a1b2c3d4e5f60718293a"},
		Clock:         fixedClock{now: now},
		Instrument:    instrument.NewNoop(),
	})

	return &fixture{uc: uc, repo: repo, messaging: msg, storage: stg, now: now}
}

func authCtx() context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: 42, UserEmail: "owner@example.com"})
}

func assertCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	var ge *goerror.Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected goerror, got %v", err)
	}
	if ge.Code() != want {
		t.Fatalf("expected code %v, got %v (%v)", want, ge.Code(), err)
	}
}

func TestAdd(t *testing.T) {
	dob := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)

	t.Run("stores contact", func(t *testing.T) {
		f := newFixture(t)

		out, err := f.uc.Add(authCtx(), AddInput{Name: "John Smith", Email: "John@Example.com", DateOfBirth: dob})
		if err != nil {
			t.Fatalf("add: %v", err)
		}

		c, ok := f.repo.contacts[out.ID]
		if !ok {
			t.Fatal("expected contact stored")
		}
		if c.Email != "john@example.com" {
			t.Fatalf("expected normalized email, got %s", c.Email)
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.Add(context.Background(), AddInput{Name: "John Smith", Email: "john@example.com", DateOfBirth: dob})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		f := newFixture(t)
		f.repo.contacts[1] = entity.Contact{ID: 1, Name: "John", Email: "john@example.com", DateOfBirth: dob}

		_, err := f.uc.Add(authCtx(), AddInput{Name: "John Smith", Email: "john@example.com", DateOfBirth: dob})
		assertCode(t, err, goerror.CodeConflict)
	})

	t.Run("rejects future date of birth", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.Add(authCtx(), AddInput{Name: "John Smith", Email: "john@example.com", DateOfBirth: f.now.AddDate(1, 0, 0)})
		if err == nil {
			t.Fatal("expected error for future date of birth")
		}
	})
}

func TestDetailAndRemove(t *testing.T) {
	dob := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)

	t.Run("detail returns stored contact", func(t *testing.T) {
		f := newFixture(t)
		f.repo.contacts[9] = entity.Contact{ID: 9, Name: "John", Email: "john@example.com", DateOfBirth: dob}

		out, err := f.uc.Detail(authCtx(), DetailInput{ID: 9})
		if err != nil {
			t.Fatalf("detail: %v", err)
		}
		if out.Contact.Email != "john@example.com" {
			t.Fatalf("unexpected email %s", out.Contact.Email)
		}
	})

	t.Run("detail unknown id", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.Detail(authCtx(), DetailInput{ID: 404})
		assertCode(t, err, goerror.CodeNotFound)
	})

	t.Run("remove deletes contact", func(t *testing.T) {
		f := newFixture(t)
		f.repo.contacts[9] = entity.Contact{ID: 9, Name: "John", Email: "john@example.com", DateOfBirth: dob}

		if err := f.uc.Remove(authCtx(), RemoveInput{ID: 9}); err != nil {
			t.Fatalf("remove: %v", err)
		}
		if _, ok := f.repo.contacts[9]; ok {
			t.Fatal("expected contact removed")
		}
	})

	t.Run("remove unknown id", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.Remove(authCtx(), RemoveInput{ID: 404})
		assertCode(t, err, goerror.CodeNotFound)
	})
}

func TestExport(t *testing.T) {
	dob := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)

	f := newFixture(t)
	f.repo.contacts[1] = entity.Contact{ID: 1, Name: "John", Email: "john@example.com", DateOfBirth: dob}
	f.repo.contacts[2] = entity.Contact{ID: 2, Name: "Jane", Email: "jane@example.com", DateOfBirth: dob}

	out, err := f.uc.Export(authCtx())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("expected 2 contacts exported, got %d", out.Count)
	}
	if out.DownloadURL == "" {
		t.Fatal("expected a download url")
	}

	data, ok := f.storage.objects["wishbox-test/"+out.Key]
	if !ok {
		t.Fatalf("expected object stored at %s", out.Key)
	}
	body := string(data)
	if !strings.HasPrefix(body, "id,name,email,date_of_birth\n") {
		t.Fatalf("unexpected csv header: %q", body)
	}
	if !strings.Contains(body, "john@example.com") || !strings.Contains(body, "jane@example.com") {
		t.Fatalf("csv missing contacts: %q", body)
	}
}

func TestScanBirthdays(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes one event per match", func(t *testing.T) {
		f := newFixture(t)
		f.repo.contacts[1] = entity.Contact{ID: 1, Name: "John", Email: "john@example.com", DateOfBirth: time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)}
		f.repo.contacts[2] = entity.Contact{ID: 2, Name: "Jane", Email: "jane@example.com", DateOfBirth: time.Date(1985, 5, 20, 0, 0, 0, 0, time.UTC)}
		f.repo.contacts[3] = entity.Contact{ID: 3, Name: "Mark", Email: "mark@example.com", DateOfBirth: time.Date(1985, 12, 1, 0, 0, 0, 0, time.UTC)}

		out, err := f.uc.ScanBirthdays(ctx)
		if err != nil {
			t.Fatalf("scan: %v", err)
		}
		if out.Matched != 2 {
			t.Fatalf("expected 2 matched, got %d", out.Matched)
		}
		if out.Published != 2 {
			t.Fatalf("expected 2 published, got %d", out.Published)
		}
		if len(f.messaging.published) != 2 {
			t.Fatalf("expected 2 events, got %d", len(f.messaging.published))
		}
	})

	t.Run("one failed publish does not stop the batch", func(t *testing.T) {
		f := newFixture(t)
		f.repo.contacts[1] = entity.Contact{ID: 1, Name: "John", Email: "john@example.com", DateOfBirth: time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)}
		f.repo.contacts[2] = entity.Contact{ID: 2, Name: "Jane", Email: "jane@example.com", DateOfBirth: time.Date(1985, 5, 20, 0, 0, 0, 0, time.UTC)}
		f.messaging.failEmail = "john@example.com"

		out, err := f.uc.ScanBirthdays(ctx)
		if err != nil {
			t.Fatalf("scan: %v", err)
		}
		if out.Matched != 2 {
			t.Fatalf("expected 2 matched, got %d", out.Matched)
		}
		if out.Published != 1 {
			t.Fatalf("expected 1 published, got %d", out.Published)
		}
	})
}
