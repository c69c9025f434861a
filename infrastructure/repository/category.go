package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/seleradigital/merchant-admin-api/infrastructure/database/postgres"
	"github.com/seleradigital/merchant-admin-api/internal/domain"
)

const (
	categoriesTable = "categories"
)

type CategoryRepository interface {
	Create(category *domain.Category) error
	Update(category *domain.Category) error
	Delete(categoryID string) error
	GetByID(categoryID string) (*domain.Category, error)
	ListByMerchant(merchantID string) ([]*domain.Category, error)
	CountMenuItems(categoryID string) (int, error)
}

type categoryRepository struct {
	conn *postgres.Connection
}

func NewCategoryRepository(conn *postgres.Connection) CategoryRepository {
	return &categoryRepository{
		conn: conn,
	}
}

func (r *categoryRepository) Create(category *domain.Category) error {
	query, args, err := squirrel.
		Insert(categoriesTable).
		Columns("id", "merchant_id", "name", "display_order").
		Values(category.ID, category.MerchantID, category.Name, category.DisplayOrder).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}

	return nil
}

func (r *categoryRepository) Update(category *domain.Category) error {
	query, args, err := squirrel.
		Update(categoriesTable).
		Set("name", category.Name).
		Set("display_order", category.DisplayOrder).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": category.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *categoryRepository) Delete(categoryID string) error {
	query, args, err := squirrel.
		Delete(categoriesTable).
		Where(squirrel.Eq{"id": categoryID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}

func (r *categoryRepository) GetByID(categoryID string) (*domain.Category, error) {
	query, args, err := squirrel.
		Select("id, merchant_id, name, display_order, created_at, updated_at").
		From(categoriesTable).
		Where(squirrel.Eq{"id": categoryID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	category := &domain.Category{}
	err = r.conn.QueryRow(query, args...).Scan(
		&category.ID,
		&category.MerchantID,
		&category.Name,
		&category.DisplayOrder,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}

	return category, nil
}

func (r *categoryRepository) ListByMerchant(merchantID string) ([]*domain.Category, error) {
	query, args, err := squirrel.
		Select("id, merchant_id, name, display_order, created_at, updated_at").
		From(categoriesTable).
		Where(squirrel.Eq{"merchant_id": merchantID}).
		OrderBy("display_order ASC", "name ASC").
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

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		category := &domain.Category{}
		err := rows.Scan(
			&category.ID,
			&category.MerchantID,
			&category.Name,
			&category.DisplayOrder,
			&category.CreatedAt,
			&category.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed during row iteration: %w", err)
	}

	return categories, nil
}

func (r *categoryRepository) CountMenuItems(categoryID string) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From(menuItemsTable).
		Where(squirrel.Eq{"category_id": categoryID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var count int
	if err := r.conn.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count menu items: %w", err)
	}

	return count, nil
}
