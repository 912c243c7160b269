package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
	"github.com/jmoiron/sqlx"
)

func newSQLMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTasksRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository         { return m.u }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasks.Repository         { return m.t }

// fakeUsersRepo keeps users in a map keyed by id.
type fakeUsersRepo struct {
	byID   map[int64]*models.User
	nextID int64
	err    error

	pageFilter *models.UserFilter
	pageTotal  int64
	pageData   []models.UserSummary

	lastUpdate models.UserUpdate
	setCalls   int
}

func newFakeUsersRepo(users ...*models.User) *fakeUsersRepo {
	r := &fakeUsersRepo{byID: map[int64]*models.User{}, nextID: 1}
	for _, u := range users {
		r.byID[u.ID] = u
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
	}
	return r
}

func (r *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, existing := range r.byID {
		if existing.UserName == u.UserName {
			return nil, common.ErrorConstraint
		}
	}
	created := *u
	created.ID = r.nextID
	created.Status = models.StatusActive
	r.nextID++
	r.byID[created.ID] = &created
	return &created, nil
}

func (r *fakeUsersRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (r *fakeUsersRepo) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.byID {
		if u.UserName == login {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) ListByStatus(_ context.Context, status models.UserStatus) ([]models.UserSummary, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := []models.UserSummary{}
	for _, u := range r.byID {
		if u.Status == status {
			out = append(out, u.Summary())
		}
	}
	return out, nil
}

func (r *fakeUsersRepo) FindPage(_ context.Context, f models.UserFilter) (int64, []models.UserSummary, error) {
	r.pageFilter = &f
	if r.err != nil {
		return 0, nil, r.err
	}
	return r.pageTotal, r.pageData, nil
}

func (r *fakeUsersRepo) Update(_ context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	r.lastUpdate = upd
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.UserName != nil {
		u.UserName = *upd.UserName
	}
	if upd.Password != nil {
		u.Password = *upd.Password
	}
	return u, nil
}

func (r *fakeUsersRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeUsersRepo) GetStatusForUpdate(_ context.Context, id int64) (models.UserStatus, error) {
	u, ok := r.byID[id]
	if !ok {
		return "", common.ErrorNotFound
	}
	return u.Status, nil
}

func (r *fakeUsersRepo) SetStatus(_ context.Context, id int64, status models.UserStatus) (*models.User, error) {
	r.setCalls++
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Status = status
	return u, nil
}

// fakeTasksRepo enforces the same (id, user_id) scoping as the SQL repository.
type fakeTasksRepo struct {
	byID   map[int64]*models.Task
	nextID int64
	calls  int
}

func newFakeTasksRepo() *fakeTasksRepo {
	return &fakeTasksRepo{byID: map[int64]*models.Task{}, nextID: 1}
}

func (r *fakeTasksRepo) owned(userID, id int64) (*models.Task, error) {
	t, ok := r.byID[id]
	if !ok || t.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (r *fakeTasksRepo) ListByOwner(_ context.Context, userID int64) ([]models.Task, error) {
	r.calls++
	out := []models.Task{}
	for _, t := range r.byID {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTasksRepo) ListDoneByOwner(_ context.Context, userID int64) ([]models.Task, error) {
	r.calls++
	out := []models.Task{}
	for _, t := range r.byID {
		if t.UserID == userID && t.Done {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTasksRepo) Create(_ context.Context, t *models.Task) (*models.Task, error) {
	r.calls++
	created := *t
	created.ID = r.nextID
	r.nextID++
	r.byID[created.ID] = &created
	out := created
	return &out, nil
}

func (r *fakeTasksRepo) GetOwned(_ context.Context, userID, id int64) (*models.Task, error) {
	r.calls++
	t, err := r.owned(userID, id)
	if err != nil {
		return nil, err
	}
	out := *t
	return &out, nil
}

func (r *fakeTasksRepo) Rename(_ context.Context, userID, id int64, name string) (*models.Task, error) {
	r.calls++
	t, err := r.owned(userID, id)
	if err != nil {
		return nil, err
	}
	t.Name = name
	out := *t
	return &out, nil
}

func (r *fakeTasksRepo) SetDone(_ context.Context, userID, id int64, done bool) (*models.Task, error) {
	r.calls++
	t, err := r.owned(userID, id)
	if err != nil {
		return nil, err
	}
	t.Done = done
	out := *t
	return &out, nil
}

func (r *fakeTasksRepo) Delete(_ context.Context, userID, id int64) error {
	r.calls++
	if _, err := r.owned(userID, id); err != nil {
		return err
	}
	delete(r.byID, id)
	return nil
}
