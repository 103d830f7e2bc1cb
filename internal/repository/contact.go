package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/IndraW01/API-Contact-Management/internal/model"
)

// Common errors for contact repository operations.
var (
	ErrContactNotFound = errors.New("contact not found")
)

const contactColumns = `id, username, first_name, last_name, email, phone, created_at, updated_at`

// CreateContact inserts a contact and fills in its id and timestamps.
func (r *Repository) CreateContact(ctx context.Context, c *model.Contact) error {
	query := `
		INSERT INTO contacts (username, first_name, last_name, email, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		c.Username,
		c.FirstName,
		c.LastName,
		c.Email,
		c.Phone,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

// CountContacts counts contacts with the given id owned by username.
func (r *Repository) CountContacts(ctx context.Context, username string, id int64) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM contacts
		WHERE username = $1 AND id = $2
	`

	var n int64
	if err := r.db.QueryRowContext(ctx, query, username, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return n, nil
}

// GetContact retrieves a contact owned by username.
func (r *Repository) GetContact(ctx context.Context, username string, id int64) (*model.Contact, error) {
	query := `SELECT ` + contactColumns + `
		FROM contacts
		WHERE username = $1 AND id = $2
	`

	c, err := scanContact(r.db.QueryRowContext(ctx, query, username, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return c, nil
}

// UpdateContact replaces first_name and any set optional column.
func (r *Repository) UpdateContact(ctx context.Context, username string, id int64, patch model.ContactPatch) (*model.Contact, error) {
	query := `
		UPDATE contacts
		SET first_name = $3,
			last_name = COALESCE($4, last_name),
			email = COALESCE($5, email),
			phone = COALESCE($6, phone),
			updated_at = NOW()
		WHERE username = $1 AND id = $2
		RETURNING ` + contactColumns

	c, err := scanContact(r.db.QueryRowContext(ctx, query,
		username,
		id,
		patch.FirstName,
		patch.LastName.Ptr(),
		patch.Email.Ptr(),
		patch.Phone.Ptr(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return c, nil
}

// DeleteContact removes a contact; its addresses cascade.
func (r *Repository) DeleteContact(ctx context.Context, username string, id int64) error {
	query := `
		DELETE FROM contacts
		WHERE username = $1 AND id = $2
	`

	result, err := r.db.ExecContext(ctx, query, username, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return requireAffected(result, ErrContactNotFound)
}

// SearchContacts returns one page of filter matches, ordered by id, and the
// total number of matches.
func (r *Repository) SearchContacts(ctx context.Context, f model.ContactFilter) ([]*model.Contact, int64, error) {
	where, args := contactFilterClause(f)

	countQuery := `SELECT COUNT(*) FROM contacts WHERE ` + where

	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	pageArgs := append(args, f.Size, f.Offset())
	listQuery := fmt.Sprintf(`SELECT %s FROM contacts WHERE %s ORDER BY id LIMIT $%d OFFSET $%d`,
		contactColumns, where, len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, listQuery, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]*model.Contact, 0, f.Size)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, total, nil
}

// contactFilterClause builds the conjunctive WHERE clause of a search.
// Name matches first or last name; all matches are case-insensitive substrings.
func contactFilterClause(f model.ContactFilter) (string, []any) {
	args := []any{f.Username}
	conds := []string{"username = $1"}

	if f.Name != "" {
		args = append(args, likePattern(f.Name))
		n := len(args)
		conds = append(conds, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d)", n, n))
	}
	if f.Email != "" {
		args = append(args, likePattern(f.Email))
		conds = append(conds, fmt.Sprintf("email ILIKE $%d", len(args)))
	}
	if f.Phone != "" {
		args = append(args, likePattern(f.Phone))
		conds = append(conds, fmt.Sprintf("phone ILIKE $%d", len(args)))
	}

	return strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps s for a substring match, escaping LIKE metacharacters
// (backslash is the default escape character in PostgreSQL).
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*model.Contact, error) {
	var c model.Contact
	var lastName, email, phone sql.NullString

	err := row.Scan(
		&c.ID,
		&c.Username,
		&c.FirstName,
		&lastName,
		&email,
		&phone,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.LastName = nullableString(lastName)
	c.Email = nullableString(email)
	c.Phone = nullableString(phone)
	return &c, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
