package repository

import (
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/seleradigital/merchant-admin-api/infrastructure/database/postgres"
	"github.com/seleradigital/merchant-admin-api/internal/domain"
)

const (
	customersTable = "customers"
)

type CustomerRepository interface {
	ListCreatedSince(start time.Time) ([]*domain.Customer, error)
	CountCreatedBefore(start time.Time) (int, error)
	CountCreatedBetween(start, end time.Time) (int, error)
}

type customerRepository struct {
	conn *postgres.Connection
}

func NewCustomerRepository(conn *postgres.Connection) CustomerRepository {
	return &customerRepository{
		conn: conn,
	}
}

func (r *customerRepository) ListCreatedSince(start time.Time) ([]*domain.Customer, error) {
	query, args, err := squirrel.
		Select("id, name, email, phone, created_at").
		From(customersTable).
		Where(squirrel.GtOrEq{"created_at": start}).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	customers := make([]*domain.Customer, 0)
	for rows.Next() {
		customer := &domain.Customer{}
		err := rows.Scan(
			&customer.ID,
			&customer.Name,
			&customer.Email,
			&customer.Phone,
			&customer.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, customer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed during row iteration: %w", err)
	}

	return customers, nil
}

// CountCreatedBefore seeds the customer growth running total
func (r *customerRepository) CountCreatedBefore(start time.Time) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From(customersTable).
		Where(squirrel.Lt{"created_at": start}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var count int
	if err := r.conn.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}

	return count, nil
}

func (r *customerRepository) CountCreatedBetween(start, end time.Time) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From(customersTable).
		Where(squirrel.GtOrEq{"created_at": start}).
		Where(squirrel.Lt{"created_at": end}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var count int
	if err := r.conn.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}

	return count, nil
}
