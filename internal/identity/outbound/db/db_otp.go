package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/wishbox/wishbox/internal/identity/entity"
)

const sqlUpsertOTP = `
INSERT INTO otps (email, otp, created_for, used, sent, expires_at)
VALUES ($1, $2, $3, false, false, $4)
ON CONFLICT (email) DO UPDATE
SET otp = EXCLUDED.otp,
    created_for = EXCLUDED.created_for,
    used = false,
    sent = false,
    expires_at = EXCLUDED.expires_at`

const sqlMarkOTPSent = `
UPDATE otps SET sent = true WHERE email = $1`

// IssueOTP stores the passcode and runs dispatch inside one transaction.
//
// The record is inserted with sent=false, dispatch delivers the email, and
// only then is the record flipped to sent=true and committed. If dispatch
// fails the transaction rolls back and nothing persists. An email delivered
// right before a commit failure cannot be taken back; that gap is accepted.
func (s *DB) IssueOTP(ctx context.Context, rec entity.OTPRecord, dispatch func(ctx context.Context) error) (err error) {
	ctx, span := s.startSpan(ctx, "IssueOTP")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if _, err = tx.Exec(ctx, sqlUpsertOTP, rec.Email, rec.Code, rec.Purpose.String(), rec.ExpiresAt); err != nil {
		return s.mapError(err)
	}

	if err = dispatch(ctx); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, sqlMarkOTPSent, rec.Email); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

const sqlGetOTPByEmail = `
SELECT email, otp, created_for, used, sent, expires_at
FROM otps
WHERE email = $1`

func (s *DB) GetOTPByEmail(ctx context.Context, email string) (rec *entity.OTPRecord, err error) {
	ctx, span := s.startSpan(ctx, "GetOTPByEmail")
	defer func() { s.endSpan(span, err) }()

	var r entity.OTPRecord
	var purpose string
	err = s.conn.QueryRow(ctx, sqlGetOTPByEmail, email).
		Scan(&r.Email, &r.Code, &purpose, &r.Used, &r.Sent, &r.ExpiresAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	r.Purpose = entity.OTPPurposeFromString(purpose)
	return &r, nil
}

const sqlDeleteOTP = `
DELETE FROM otps WHERE email = $1`

// ConsumeOTP removes the passcode so it cannot be used again.
func (s *DB) ConsumeOTP(ctx context.Context, email string) (err error) {
	ctx, span := s.startSpan(ctx, "ConsumeOTP")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, sqlDeleteOTP, email)
	err = s.mapError(err)
	return err
}
