package rest

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
)

// fakeTasks is an in-memory TaskService with owner scoping.
type fakeTasks struct {
	byID   map[int64]models.Task
	nextID int64
	err    error
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{byID: map[int64]models.Task{}, nextID: 1}
}

var errTaskNotFound = fmt.Errorf("task %w", common.ErrorNotFound)

func (f *fakeTasks) List(_ context.Context, who auth.Identity) ([]models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Task{}
	for _, t := range f.byID {
		if t.UserID == who.UserID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTasks) Create(_ context.Context, who auth.Identity, name string) (*models.Task, error) {
	t := models.Task{ID: f.nextID, Name: name, UserID: who.UserID}
	f.nextID++
	f.byID[t.ID] = t
	return &t, nil
}

func (f *fakeTasks) owned(who auth.Identity, id int64) (models.Task, error) {
	t, ok := f.byID[id]
	if !ok || t.UserID != who.UserID {
		return models.Task{}, errTaskNotFound
	}
	return t, nil
}

func (f *fakeTasks) Get(_ context.Context, who auth.Identity, id int64) (*models.Task, error) {
	t, err := f.owned(who, id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (f *fakeTasks) Rename(_ context.Context, who auth.Identity, id int64, name string) (*models.Task, error) {
	t, err := f.owned(who, id)
	if err != nil {
		return nil, err
	}
	t.Name = name
	f.byID[id] = t
	return &t, nil
}

func (f *fakeTasks) SetDone(_ context.Context, who auth.Identity, id int64, done bool) (*models.Task, error) {
	t, err := f.owned(who, id)
	if err != nil {
		return nil, err
	}
	t.Done = done
	f.byID[id] = t
	return &t, nil
}

func (f *fakeTasks) Delete(_ context.Context, who auth.Identity, id int64) error {
	if _, err := f.owned(who, id); err != nil {
		return err
	}
	delete(f.byID, id)
	return nil
}

// fakeUsers records what the handlers pass in and returns canned results.
type fakeUsers struct {
	token     string
	loginErr  error
	users     map[int64]models.UserSummary
	lastPage  *models.UserFilter
	pageTotal int64
	statusErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		token: "tok",
		users: map[int64]models.UserSummary{
			1: {ID: 1, UserName: "alice", Status: models.StatusActive},
		},
	}
}

func (f *fakeUsers) Login(_ context.Context, userName, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeUsers) Register(_ context.Context, userName, password string) (*models.UserSummary, error) {
	u := models.UserSummary{ID: int64(len(f.users) + 1), UserName: userName, Status: models.StatusActive}
	f.users[u.ID] = u
	return &u, nil
}

func (f *fakeUsers) ListActive(context.Context) ([]models.UserSummary, error) {
	out := []models.UserSummary{}
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) ListPage(_ context.Context, params services.UserListParams) (*models.UserPage, error) {
	filter, page, err := params.Sanitize()
	if err != nil {
		return nil, err
	}
	f.lastPage = &filter
	return &models.UserPage{Total: f.pageTotal, Page: page, Data: []models.UserSummary{}}, nil
}

func (f *fakeUsers) Get(_ context.Context, id int64) (*models.UserSummary, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %w", common.ErrorNotFound)
	}
	return &u, nil
}

func (f *fakeUsers) Update(_ context.Context, id int64, userName, password *string) (*models.UserSummary, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %w", common.ErrorNotFound)
	}
	if userName != nil {
		u.UserName = *userName
	}
	f.users[id] = u
	return &u, nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("user %w", common.ErrorNotFound)
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUsers) SetStatus(_ context.Context, id int64, status string) (*models.UserSummary, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	u := f.users[id]
	u.Status = models.UserStatus(status)
	return &u, nil
}

func (f *fakeUsers) DoneTasks(_ context.Context, id int64) (*models.UserDoneTasks, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %w", common.ErrorNotFound)
	}
	return &models.UserDoneTasks{UserName: u.UserName, Tasks: []models.Task{}}, nil
}

type testEnv struct {
	server *Server
	users  *fakeUsers
	tasks  *fakeTasks
	tokens *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		users:  newFakeUsers(),
		tasks:  newFakeTasks(),
		tokens: auth.NewTokenService([]byte("test-secret"), time.Hour),
	}
	l := logging.New(logging.BackendSlog, "error", io.Discard)
	env.server = NewServer(":0", l, env.users, env.tasks, env.tokens, prometheus.NewRegistry(), time.Second)
	return env
}

func (e *testEnv) tokenFor(t *testing.T, userID int64) string {
	t.Helper()
	tok, err := e.tokens.Issue(userID)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	return tok
}

// do performs a request; token may be empty.
func (e *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}
