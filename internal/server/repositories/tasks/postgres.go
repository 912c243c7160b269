// Package tasks provides the PostgreSQL-backed task repository.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/jmoiron/sqlx"
)

const taskColumns = `id, name, done, user_id, created_at, updated_at`

// PostgresRepository implements Repository over dbx.DBTX (*sqlx.DB or *sqlx.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByOwner returns all tasks of userID ordered by name.
func (r *PostgresRepository) ListByOwner(ctx context.Context, userID int64) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY name ASC, id ASC`
	return r.list(ctx, query, userID)
}

// ListDoneByOwner returns the completed tasks of userID ordered by name.
func (r *PostgresRepository) ListDoneByOwner(ctx context.Context, userID int64) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 AND done ORDER BY name ASC, id ASC`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	result := make([]models.Task, 0)
	if err := sqlx.SelectContext(ctx, r.db, &result, query, args...); err != nil {
		return nil, dbx.WrapError(err)
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`INSERT INTO tasks (name, user_id)
		 VALUES ($1, $2)
		 RETURNING ` + taskColumns

	created := &models.Task{}
	if err := sqlx.GetContext(ctx, r.db, created, query, task.Name, task.UserID); err != nil {
		return nil, dbx.WrapError(err)
	}
	return created, nil
}

func (r *PostgresRepository) GetOwned(ctx context.Context, userID, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	return r.getOne(ctx, query, id, userID)
}

// Rename and SetDone use RETURNING: zero returned rows means zero rows were
// affected, which is reported as common.ErrorNotFound.
func (r *PostgresRepository) Rename(ctx context.Context, userID, id int64, name string) (*models.Task, error) {
	query := `UPDATE tasks SET name = $3, updated_at = now() WHERE id = $1 AND user_id = $2 RETURNING ` + taskColumns
	return r.getOne(ctx, query, id, userID, name)
}

func (r *PostgresRepository) SetDone(ctx context.Context, userID, id int64, done bool) (*models.Task, error) {
	query := `UPDATE tasks SET done = $3, updated_at = now() WHERE id = $1 AND user_id = $2 RETURNING ` + taskColumns
	return r.getOne(ctx, query, id, userID, done)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Task, error) {
	task := &models.Task{}
	if err := sqlx.GetContext(ctx, r.db, task, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapError(err)
	}
	return task, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return dbx.WrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 0:
		return common.ErrorNotFound
	case 1:
		return nil
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
