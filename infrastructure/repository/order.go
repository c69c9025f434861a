package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/seleradigital/merchant-admin-api/infrastructure/database/postgres"
	"github.com/seleradigital/merchant-admin-api/internal/domain"
)

const (
	ordersTable = "orders o"
)

// orderColumns joins the merchant to resolve the order currency; orders whose
// merchant has no currency configured fall back to IDR at scan time.
const orderColumns = "o.id, o.order_number, o.merchant_id, o.customer_id, o.status, o.total_amount, COALESCE(m.currency, ''), o.created_at, o.updated_at"

type OrderRepository interface {
	GetByID(orderID string) (*domain.Order, error)
	List(filters *domain.OrderFilters) (*domain.OrderPage, error)
	UpdateStatus(orderID string, status string) error
	ListSince(start time.Time) ([]*domain.Order, error)
	ListCompletedSince(start time.Time) ([]*domain.Order, error)
	ListCompletedBetween(start, end time.Time) ([]*domain.Order, error)
	CompletedTotalsBetween(start, end time.Time) (float64, int, error)
}

type orderRepository struct {
	conn *postgres.Connection
}

func NewOrderRepository(conn *postgres.Connection) OrderRepository {
	return &orderRepository{
		conn: conn,
	}
}

func (r *orderRepository) GetByID(orderID string) (*domain.Order, error) {
	query, args, err := squirrel.
		Select(orderColumns).
		From(ordersTable).
		LeftJoin("merchants m ON m.id = o.merchant_id").
		Where(squirrel.Eq{"o.id": orderID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	order, err := r.scanOrder(r.conn.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	return order, nil
}

func (r *orderRepository) List(filters *domain.OrderFilters) (*domain.OrderPage, error) {
	base := squirrel.
		Select(orderColumns).
		From(ordersTable).
		LeftJoin("merchants m ON m.id = o.merchant_id")
	countBase := squirrel.Select("COUNT(*)").From(ordersTable)

	if filters.MerchantID != "" {
		base = base.Where(squirrel.Eq{"o.merchant_id": filters.MerchantID})
		countBase = countBase.Where(squirrel.Eq{"o.merchant_id": filters.MerchantID})
	}
	if filters.Status != "" {
		base = base.Where(squirrel.Eq{"o.status": filters.Status})
		countBase = countBase.Where(squirrel.Eq{"o.status": filters.Status})
	}
	if filters.StartDate != nil {
		base = base.Where(squirrel.GtOrEq{"o.created_at": *filters.StartDate})
		countBase = countBase.Where(squirrel.GtOrEq{"o.created_at": *filters.StartDate})
	}
	if filters.EndDate != nil {
		base = base.Where(squirrel.LtOrEq{"o.created_at": *filters.EndDate})
		countBase = countBase.Where(squirrel.LtOrEq{"o.created_at": *filters.EndDate})
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
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	query, args, err := base.
		OrderBy("o.created_at DESC").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	orders, err := r.queryOrders(query, args...)
	if err != nil {
		return nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize

	return &domain.OrderPage{
		Orders:     orders,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (r *orderRepository) UpdateStatus(orderID string, status string) error {
	query, args, err := squirrel.
		Update("orders").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": orderID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
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

// ListSince returns every order created at or after start, any status.
// Used by the activity heatmap, which counts activity rather than revenue.
func (r *orderRepository) ListSince(start time.Time) ([]*domain.Order, error) {
	query, args, err := squirrel.
		Select(orderColumns).
		From(ordersTable).
		LeftJoin("merchants m ON m.id = o.merchant_id").
		Where(squirrel.GtOrEq{"o.created_at": start}).
		OrderBy("o.created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return r.queryOrders(query, args...)
}

func (r *orderRepository) ListCompletedSince(start time.Time) ([]*domain.Order, error) {
	query, args, err := squirrel.
		Select(orderColumns).
		From(ordersTable).
		LeftJoin("merchants m ON m.id = o.merchant_id").
		Where(squirrel.Eq{"o.status": domain.OrderStatusCompleted}).
		Where(squirrel.GtOrEq{"o.created_at": start}).
		OrderBy("o.created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return r.queryOrders(query, args...)
}

func (r *orderRepository) ListCompletedBetween(start, end time.Time) ([]*domain.Order, error) {
	query, args, err := squirrel.
		Select(orderColumns).
		From(ordersTable).
		LeftJoin("merchants m ON m.id = o.merchant_id").
		Where(squirrel.Eq{"o.status": domain.OrderStatusCompleted}).
		Where(squirrel.GtOrEq{"o.created_at": start}).
		Where(squirrel.Lt{"o.created_at": end}).
		OrderBy("o.created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return r.queryOrders(query, args...)
}

// CompletedTotalsBetween returns the completed-order revenue sum and count for
// the half-open interval [start, end).
func (r *orderRepository) CompletedTotalsBetween(start, end time.Time) (float64, int, error) {
	query, args, err := squirrel.
		Select("COALESCE(SUM(o.total_amount), 0)", "COUNT(*)").
		From(ordersTable).
		Where(squirrel.Eq{"o.status": domain.OrderStatusCompleted}).
		Where(squirrel.GtOrEq{"o.created_at": start}).
		Where(squirrel.Lt{"o.created_at": end}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build query: %w", err)
	}

	var revenue float64
	var count int
	if err := r.conn.QueryRow(query, args...).Scan(&revenue, &count); err != nil {
		return 0, 0, fmt.Errorf("failed to scan totals: %w", err)
	}

	return revenue, count, nil
}

func (r *orderRepository) queryOrders(query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := r.scanOrderRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed during row iteration: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) scanOrder(row *sql.Row) (*domain.Order, error) {
	order := &domain.Order{}
	var currency string

	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.MerchantID,
		&order.CustomerID,
		&order.Status,
		&order.TotalAmount,
		&currency,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Currency = domain.NormalizeCurrency(currency)
	return order, nil
}

func (r *orderRepository) scanOrderRows(rows *sql.Rows) (*domain.Order, error) {
	order := &domain.Order{}
	var currency string

	err := rows.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.MerchantID,
		&order.CustomerID,
		&order.Status,
		&order.TotalAmount,
		&currency,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Currency = domain.NormalizeCurrency(currency)
	return order, nil
}
