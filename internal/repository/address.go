package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/IndraW01/API-Contact-Management/internal/model"
)

// Common errors for address repository operations.
var (
	ErrAddressNotFound = errors.New("address not found")
)

const addressColumns = `id, contact_id, street, city, province, country, postal_code, created_at, updated_at`

// CreateAddress inserts an address and fills in its id and timestamps.
func (r *Repository) CreateAddress(ctx context.Context, a *model.Address) error {
	query := `
		INSERT INTO addresses (contact_id, street, city, province, country, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		a.ContactID,
		a.Street,
		a.City,
		a.Province,
		a.Country,
		a.PostalCode,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrContactNotFound
		}
		return fmt.Errorf("failed to create address: %w", err)
	}
	return nil
}

// CountAddresses counts addresses with the given id under contactID.
func (r *Repository) CountAddresses(ctx context.Context, contactID, id int64) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM addresses
		WHERE contact_id = $1 AND id = $2
	`

	var n int64
	if err := r.db.QueryRowContext(ctx, query, contactID, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count addresses: %w", err)
	}
	return n, nil
}

// GetAddress retrieves an address under contactID.
func (r *Repository) GetAddress(ctx context.Context, contactID, id int64) (*model.Address, error) {
	query := `SELECT ` + addressColumns + `
		FROM addresses
		WHERE contact_id = $1 AND id = $2
	`

	a, err := scanAddress(r.db.QueryRowContext(ctx, query, contactID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	return a, nil
}

// UpdateAddress replaces country and postal_code and any set optional column.
func (r *Repository) UpdateAddress(ctx context.Context, contactID, id int64, patch model.AddressPatch) (*model.Address, error) {
	query := `
		UPDATE addresses
		SET street = COALESCE($3, street),
			city = COALESCE($4, city),
			province = COALESCE($5, province),
			country = $6,
			postal_code = $7,
			updated_at = NOW()
		WHERE contact_id = $1 AND id = $2
		RETURNING ` + addressColumns

	a, err := scanAddress(r.db.QueryRowContext(ctx, query,
		contactID,
		id,
		patch.Street.Ptr(),
		patch.City.Ptr(),
		patch.Province.Ptr(),
		patch.Country,
		patch.PostalCode,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to update address: %w", err)
	}
	return a, nil
}

// DeleteAddress removes an address under contactID.
func (r *Repository) DeleteAddress(ctx context.Context, contactID, id int64) error {
	query := `
		DELETE FROM addresses
		WHERE contact_id = $1 AND id = $2
	`

	result, err := r.db.ExecContext(ctx, query, contactID, id)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	return requireAffected(result, ErrAddressNotFound)
}

// ListAddresses returns every address of a contact ordered by id.
func (r *Repository) ListAddresses(ctx context.Context, contactID int64) ([]*model.Address, error) {
	query := `SELECT ` + addressColumns + `
		FROM addresses
		WHERE contact_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	addresses := make([]*model.Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return addresses, nil
}

func scanAddress(row rowScanner) (*model.Address, error) {
	var a model.Address
	var street, city, province sql.NullString

	err := row.Scan(
		&a.ID,
		&a.ContactID,
		&street,
		&city,
		&province,
		&a.Country,
		&a.PostalCode,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Street = nullableString(street)
	a.City = nullableString(city)
	a.Province = nullableString(province)
	return &a, nil
}
