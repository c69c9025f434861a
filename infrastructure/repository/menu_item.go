package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/seleradigital/merchant-admin-api/infrastructure/database/postgres"
	"github.com/seleradigital/merchant-admin-api/internal/domain"
)

const (
	menuItemsTable = "menu_items"
)

type MenuItemRepository interface {
	Create(item *domain.MenuItem) error
	Update(item *domain.MenuItem) error
	Delete(itemID string) error
	GetByID(itemID string) (*domain.MenuItem, error)
	List(filters *domain.MenuItemFilters) (*domain.MenuItemPage, error)
	SetAvailability(itemID string, available bool) error
}

type menuItemRepository struct {
	conn *postgres.Connection
}

func NewMenuItemRepository(conn *postgres.Connection) MenuItemRepository {
	return &menuItemRepository{
		conn: conn,
	}
}

func (r *menuItemRepository) Create(item *domain.MenuItem) error {
	query, args, err := squirrel.
		Insert(menuItemsTable).
		Columns("id", "merchant_id", "category_id", "name", "description", "price", "image_url", "available").
		Values(item.ID, item.MerchantID, item.CategoryID, item.Name, item.Description, item.Price, item.ImageURL, item.Available).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}

	return nil
}

func (r *menuItemRepository) Update(item *domain.MenuItem) error {
	query, args, err := squirrel.
		Update(menuItemsTable).
		Set("category_id", item.CategoryID).
		Set("name", item.Name).
		Set("description", item.Description).
		Set("price", item.Price).
		Set("image_url", item.ImageURL).
		Set("available", item.Available).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": item.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
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

func (r *menuItemRepository) Delete(itemID string) error {
	query, args, err := squirrel.
		Delete(menuItemsTable).
		Where(squirrel.Eq{"id": itemID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	return nil
}

func (r *menuItemRepository) GetByID(itemID string) (*domain.MenuItem, error) {
	query, args, err := squirrel.
		Select("id, merchant_id, category_id, name, description, price, image_url, available, created_at, updated_at").
		From(menuItemsTable).
		Where(squirrel.Eq{"id": itemID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	item := &domain.MenuItem{}
	err = r.conn.QueryRow(query, args...).Scan(
		&item.ID,
		&item.MerchantID,
		&item.CategoryID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.ImageURL,
		&item.Available,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan menu item: %w", err)
	}

	return item, nil
}

func (r *menuItemRepository) List(filters *domain.MenuItemFilters) (*domain.MenuItemPage, error) {
	base := squirrel.
		Select("id, merchant_id, category_id, name, description, price, image_url, available, created_at, updated_at").
		From(menuItemsTable)
	countBase := squirrel.Select("COUNT(*)").From(menuItemsTable)

	if filters.MerchantID != "" {
		base = base.Where(squirrel.Eq{"merchant_id": filters.MerchantID})
		countBase = countBase.Where(squirrel.Eq{"merchant_id": filters.MerchantID})
	}
	if filters.CategoryID != "" {
		base = base.Where(squirrel.Eq{"category_id": filters.CategoryID})
		countBase = countBase.Where(squirrel.Eq{"category_id": filters.CategoryID})
	}
	if filters.Search != "" {
		like := squirrel.ILike{"name": "%" + filters.Search + "%"}
		base = base.Where(like)
		countBase = countBase.Where(like)
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	countQuery, countArgs, err := countBase.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.conn.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count menu items: %w", err)
	}

	query, args, err := base.
		OrderBy("name ASC").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize)).
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

	items := make([]*domain.MenuItem, 0)
	for rows.Next() {
		item := &domain.MenuItem{}
		err := rows.Scan(
			&item.ID,
			&item.MerchantID,
			&item.CategoryID,
			&item.Name,
			&item.Description,
			&item.Price,
			&item.ImageURL,
			&item.Available,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item row: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed during row iteration: %w", err)
	}

	totalPages := (total + pageSize - 1) / pageSize

	return &domain.MenuItemPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (r *menuItemRepository) SetAvailability(itemID string, available bool) error {
	query, args, err := squirrel.
		Update(menuItemsTable).
		Set("available", available).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": itemID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update availability: %w", err)
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
