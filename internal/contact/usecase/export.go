package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/wishbox/wishbox/internal/contact/entity"
	"github.com/wishbox/wishbox/internal/pkg/goerror"
	"github.com/wishbox/wishbox/internal/pkg/storage"
)

const exportURLExpiry = 15 * time.Minute

type ExportOutput struct {
	Key         string
	DownloadURL string
	Count       int
}

// Export writes all contacts as a CSV object to the configured bucket and
// returns a short-lived download link.
func (s *Usecase) Export(ctx context.Context) (*ExportOutput, error) {
	ctx, span := s.startSpan(ctx, "Export")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	contacts, err := s.repoDB.ListContacts(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list contacts", "error", err)
		return nil, goerror.NewServer(err)
	}

	records := lo.Map(contacts, func(c entity.Contact, _ int) []string {
		return []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			c.Email,
			c.DateOfBirth.Format(time.DateOnly),
		}
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "name", "email", "date_of_birth"}); err != nil {
		return nil, goerror.NewServer(err)
	}
	if err := w.WriteAll(records); err != nil {
		return nil, goerror.NewServer(err)
	}

	bucket := s.cfg.GetString("storage.bucket")
	key := "exports/" + strconv.FormatInt(clm.UserID, 10) + "/contacts-" + s.oid.Generate() + ".csv"

	if _, err := s.storage.PutObject(ctx, bucket, key, &buf, storage.PutOptions{
		Size:        int64(buf.Len()),
		ContentType: "text/csv",
	}); err != nil {
		slog.ErrorContext(ctx, "failed to upload contacts export", "bucket", bucket, "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	url, err := s.storage.PresignGet(ctx, bucket, key, exportURLExpiry)
	if err != nil {
		slog.ErrorContext(ctx, "failed to presign contacts export", "bucket", bucket, "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ExportOutput{
		Key:         key,
		DownloadURL: url,
		Count:       len(contacts),
	}, nil
}
