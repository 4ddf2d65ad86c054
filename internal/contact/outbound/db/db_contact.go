package db

import (
	"context"
	"time"

	"github.com/wishbox/wishbox/internal/contact/entity"
	"github.com/wishbox/wishbox/internal/pkg/goerror"
)

const sqlCreateContact = `
INSERT INTO friend (id, name, email, dob)
VALUES ($1, $2, $3, $4)`

func (s *DB) CreateContact(ctx context.Context, c entity.Contact) (err error) {
	ctx, span := s.startSpan(ctx, "CreateContact")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, sqlCreateContact, c.ID, c.Name, c.Email, c.DateOfBirth)
	err = s.mapError(err)
	return err
}

const sqlGetContactByID = `
SELECT id, name, email, dob
FROM friend
WHERE id = $1`

func (s *DB) GetContactByID(ctx context.Context, id int64) (c *entity.Contact, err error) {
	ctx, span := s.startSpan(ctx, "GetContactByID")
	defer func() { s.endSpan(span, err) }()

	var out entity.Contact
	err = s.conn.QueryRow(ctx, sqlGetContactByID, id).
		Scan(&out.ID, &out.Name, &out.Email, &out.DateOfBirth)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &out, nil
}

const sqlListContacts = `
SELECT id, name, email, dob
FROM friend
ORDER BY name`

func (s *DB) ListContacts(ctx context.Context) (contacts []entity.Contact, err error) {
	ctx, span := s.startSpan(ctx, "ListContacts")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, sqlListContacts)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var c entity.Contact
		if err = rows.Scan(&c.ID, &c.Name, &c.Email, &c.DateOfBirth); err != nil {
			return nil, s.mapError(err)
		}
		contacts = append(contacts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return contacts, nil
}

const sqlDeleteContact = `
DELETE FROM friend WHERE id = $1`

func (s *DB) DeleteContact(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteContact")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, sqlDeleteContact, id)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

const sqlListBirthdays = `
SELECT id, name, email, dob
FROM friend
WHERE EXTRACT(MONTH FROM dob) = EXTRACT(MONTH FROM $1::date)
  AND EXTRACT(DAY FROM dob) = EXTRACT(DAY FROM $1::date)`

func (s *DB) ListBirthdays(ctx context.Context, on time.Time) (contacts []entity.Contact, err error) {
	ctx, span := s.startSpan(ctx, "ListBirthdays")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, sqlListBirthdays, on)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var c entity.Contact
		if err = rows.Scan(&c.ID, &c.Name, &c.Email, &c.DateOfBirth); err != nil {
			return nil, s.mapError(err)
		}
		contacts = append(contacts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return contacts, nil
}
