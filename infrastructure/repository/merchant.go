package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/seleradigital/merchant-admin-api/infrastructure/database/postgres"
	"github.com/seleradigital/merchant-admin-api/internal/domain"
)

const (
	merchantsTable = "merchants"
)

type MerchantRepository interface {
	GetByID(merchantID string) (*domain.Merchant, error)
	ListByIDs(merchantIDs []string) ([]*domain.Merchant, error)
	List(activeOnly bool) ([]*domain.Merchant, error)
}

type merchantRepository struct {
	conn *postgres.Connection
}

func NewMerchantRepository(conn *postgres.Connection) MerchantRepository {
	return &merchantRepository{
		conn: conn,
	}
}

func (r *merchantRepository) GetByID(merchantID string) (*domain.Merchant, error) {
	query, args, err := squirrel.
		Select("id, name, slug, currency, timezone, active, created_at, updated_at").
		From(merchantsTable).
		Where(squirrel.Eq{"id": merchantID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	merchant := &domain.Merchant{}
	err = r.conn.QueryRow(query, args...).Scan(
		&merchant.ID,
		&merchant.Name,
		&merchant.Slug,
		&merchant.Currency,
		&merchant.Timezone,
		&merchant.Active,
		&merchant.CreatedAt,
		&merchant.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan merchant: %w", err)
	}

	return merchant, nil
}

func (r *merchantRepository) ListByIDs(merchantIDs []string) ([]*domain.Merchant, error) {
	if len(merchantIDs) == 0 {
		return []*domain.Merchant{}, nil
	}

	query, args, err := squirrel.
		Select("id, name, slug, currency, timezone, active, created_at, updated_at").
		From(merchantsTable).
		Where(squirrel.Eq{"id": merchantIDs}).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return r.queryMerchants(query, args...)
}

func (r *merchantRepository) List(activeOnly bool) ([]*domain.Merchant, error) {
	builder := squirrel.
		Select("id, name, slug, currency, timezone, active, created_at, updated_at").
		From(merchantsTable).
		OrderBy("name ASC")

	if activeOnly {
		builder = builder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return r.queryMerchants(query, args...)
}

func (r *merchantRepository) queryMerchants(query string, args ...interface{}) ([]*domain.Merchant, error) {
	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	merchants := make([]*domain.Merchant, 0)
	for rows.Next() {
		merchant := &domain.Merchant{}
		err := rows.Scan(
			&merchant.ID,
			&merchant.Name,
			&merchant.Slug,
			&merchant.Currency,
			&merchant.Timezone,
			&merchant.Active,
			&merchant.CreatedAt,
			&merchant.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan merchant row: %w", err)
		}
		merchants = append(merchants, merchant)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed during row iteration: %w", err)
	}

	return merchants, nil
}
