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
	passwordResetTokensTable = "password_reset_tokens"
)

type PasswordResetRepository interface {
	Create(token *domain.PasswordResetToken) error
	GetByToken(token string) (*domain.PasswordResetToken, error)
	MarkUsed(tokenID int, usedAt time.Time) error
	DeleteExpired(before time.Time) (int64, error)
}

type passwordResetRepository struct {
	conn *postgres.Connection
}

func NewPasswordResetRepository(conn *postgres.Connection) PasswordResetRepository {
	return &passwordResetRepository{
		conn: conn,
	}
}

func (r *passwordResetRepository) Create(token *domain.PasswordResetToken) error {
	query, args, err := squirrel.
		Insert(passwordResetTokensTable).
		Columns("user_id", "token", "expires_at").
		Values(token.UserID, token.Token, token.ExpiresAt).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if err := r.conn.QueryRow(query, args...).Scan(&token.ID); err != nil {
		return fmt.Errorf("failed to insert reset token: %w", err)
	}

	return nil
}

func (r *passwordResetRepository) GetByToken(token string) (*domain.PasswordResetToken, error) {
	query, args, err := squirrel.
		Select("id, user_id, token, expires_at, used_at, created_at").
		From(passwordResetTokensTable).
		Where(squirrel.Eq{"token": token}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	resetToken := &domain.PasswordResetToken{}
	err = r.conn.QueryRow(query, args...).Scan(
		&resetToken.ID,
		&resetToken.UserID,
		&resetToken.Token,
		&resetToken.ExpiresAt,
		&resetToken.UsedAt,
		&resetToken.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan reset token: %w", err)
	}

	return resetToken, nil
}

func (r *passwordResetRepository) MarkUsed(tokenID int, usedAt time.Time) error {
	query, args, err := squirrel.
		Update(passwordResetTokensTable).
		Set("used_at", usedAt).
		Where(squirrel.Eq{"id": tokenID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to mark token as used: %w", err)
	}

	return nil
}

// DeleteExpired removes tokens already consumed or past their expiry
func (r *passwordResetRepository) DeleteExpired(before time.Time) (int64, error) {
	query, args, err := squirrel.
		Delete(passwordResetTokensTable).
		Where(squirrel.Or{
			squirrel.Lt{"expires_at": before},
			squirrel.NotEq{"used_at": nil},
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return rowsAffected, nil
}
