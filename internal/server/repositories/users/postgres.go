// Package users provides the PostgreSQL-backed user repository, including the
// filtered, paginated listing query.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, username, password, status, created_at, updated_at`

// sortColumns maps allowlisted sort fields to SQL columns.
var sortColumns = map[models.SortField]string{
	models.SortByID:       "id",
	models.SortByUserName: "username",
	models.SortByStatus:   "status",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PostgresRepository implements Repository over dbx.DBTX (*sqlx.DB or *sqlx.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, password)
		 VALUES ($1, $2)
		 RETURNING ` + userColumns

	created := &models.User{}
	if err := sqlx.GetContext(ctx, r.db, created, query, user.UserName, user.Password); err != nil {
		return nil, dbx.WrapError(err)
	}

	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.getOne(ctx, query, userName)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	user := &models.User{}
	if err := sqlx.GetContext(ctx, r.db, user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapError(err)
	}
	return user, nil
}

// ListByStatus returns users with the given status, newest id first.
func (r *PostgresRepository) ListByStatus(ctx context.Context, status models.UserStatus) ([]models.UserSummary, error) {
	query := `SELECT id, username, status FROM users WHERE status = $1 ORDER BY id DESC`

	result := make([]models.UserSummary, 0)
	if err := sqlx.SelectContext(ctx, r.db, &result, query, status); err != nil {
		return nil, dbx.WrapError(err)
	}
	return result, nil
}

// FindPage counts the users matching filter and returns the requested page.
// Sort field and direction are re-checked against the allowlist because they
// are interpolated into the statement.
func (r *PostgresRepository) FindPage(ctx context.Context, filter models.UserFilter) (int64, []models.UserSummary, error) {
	column, ok := sortColumns[filter.OrderBy]
	if !ok {
		return 0, nil, fmt.Errorf("unsupported sort field %q", filter.OrderBy)
	}
	if filter.OrderDir != models.SortAsc && filter.OrderDir != models.SortDesc {
		return 0, nil, fmt.Errorf("unsupported sort direction %q", filter.OrderDir)
	}
	if filter.Limit <= 0 || filter.Offset < 0 {
		return 0, nil, fmt.Errorf("invalid window limit=%d offset=%d", filter.Limit, filter.Offset)
	}

	var conds []string
	var args []any
	if filter.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Search)+"%")
		conds = append(conds, fmt.Sprintf("username ILIKE $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := sqlx.GetContext(ctx, r.db, &total, `SELECT COUNT(*) FROM users`+where, args...); err != nil {
		return 0, nil, dbx.WrapError(err)
	}

	order := column + " " + string(filter.OrderDir)
	if filter.OrderBy != models.SortByID {
		order += ", id " + string(filter.OrderDir)
	}

	query := fmt.Sprintf(`SELECT id, username, status FROM users%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		where, order, len(args)+1, len(args)+2)

	data := make([]models.UserSummary, 0, filter.Limit)
	if err := sqlx.SelectContext(ctx, r.db, &data, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return 0, nil, dbx.WrapError(err)
	}

	return total, data, nil
}

// Update applies the non-nil fields of upd. No matching row is common.ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	if upd.UserName != nil {
		args = append(args, *upd.UserName)
		sets = append(sets, fmt.Sprintf("username = $%d", len(args)))
	}
	if upd.Password != nil {
		args = append(args, *upd.Password)
		sets = append(sets, fmt.Sprintf("password = $%d", len(args)))
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + userColumns
	return r.getOne(ctx, query, args...)
}

// Delete removes the user; their tasks go with them (ON DELETE CASCADE).
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return dbx.WrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// GetStatusForUpdate reads the status and locks the row until the surrounding
// transaction ends.
func (r *PostgresRepository) GetStatusForUpdate(ctx context.Context, id int64) (models.UserStatus, error) {
	var status models.UserStatus
	err := r.db.QueryRowContext(ctx, `SELECT status FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", dbx.WrapError(err)
	}
	return status, nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id int64, status models.UserStatus) (*models.User, error) {
	query := `UPDATE users SET status = $2, updated_at = now() WHERE id = $1 RETURNING ` + userColumns
	return r.getOne(ctx, query, id, status)
}
