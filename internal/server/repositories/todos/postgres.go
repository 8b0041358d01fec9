// Package todos provides the PostgreSQL-backed repository for todo items.
package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/babalolajnr/todo-api/internal/common"
	"github.com/babalolajnr/todo-api/internal/dbx"
	"github.com/babalolajnr/todo-api/internal/server/models"
)

// PostgresRepository implements todo storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	query :=
		`INSERT INTO todos (id, title, description, done, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		todo.ID, todo.Title, todo.Description, todo.Done, todo.UserID).Scan(&todo.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todo, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	query :=
		`SELECT id, title, description, done, user_id, attachment_key, created_at, updated_at FROM todos
		 WHERE id = $1
		 `

	todo := &models.Todo{}
	var attachmentKey sql.NullString
	var updatedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&todo.ID, &todo.Title, &todo.Description, &todo.Done, &todo.UserID,
		&attachmentKey, &todo.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	todo.AttachmentKey = attachmentKey.String
	if updatedAt.Valid {
		todo.UpdatedAt = &updatedAt.Time
	}

	return todo, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Todo, error) {
	query :=
		`SELECT id, title, description, done, user_id, attachment_key, created_at, updated_at FROM todos
		 WHERE user_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Todo{}
	for rows.Next() {
		item := &models.Todo{}
		var attachmentKey sql.NullString
		var updatedAt sql.NullTime

		if err := rows.Scan(
			&item.ID, &item.Title, &item.Description, &item.Done, &item.UserID,
			&attachmentKey, &item.CreatedAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		item.AttachmentKey = attachmentKey.String
		if updatedAt.Valid {
			item.UpdatedAt = &updatedAt.Time
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Update rewrites the mutable columns (title, description, done) and bumps
// updated_at. Missing rows yield common.ErrNotFound.
func (r *PostgresRepository) Update(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	query :=
		`UPDATE todos SET title = $2, description = $3, done = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	var updatedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query,
		todo.ID, todo.Title, todo.Description, todo.Done).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if updatedAt.Valid {
		todo.UpdatedAt = &updatedAt.Time
	}

	return todo, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM todos WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) SetAttachmentKey(ctx context.Context, id, key string) error {
	query :=
		`UPDATE todos SET attachment_key = $2, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}
