package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/validation"
	"github.com/jmoiron/sqlx"
)

var errTaskNotFound = fmt.Errorf("task %w", common.ErrorNotFound)

// TaskService exposes a caller's own tasks. Every method is scoped to the
// identity passed in; tasks of other users behave as if they did not exist.
type TaskService struct {
	db          *sqlx.DB
	repomanager repomanager.RepositoryManager
}

func NewTaskService(db *sqlx.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

func (s *TaskService) List(ctx context.Context, who auth.Identity) ([]models.Task, error) {
	return s.repomanager.Tasks(s.db).ListByOwner(ctx, who.UserID)
}

func (s *TaskService) Create(ctx context.Context, who auth.Identity, name string) (*models.Task, error) {
	name, err := checkName(name)
	if err != nil {
		return nil, err
	}

	task, err := s.repomanager.Tasks(s.db).Create(ctx, &models.Task{Name: name, UserID: who.UserID})
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, who auth.Identity, id int64) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.db).GetOwned(ctx, who.UserID, id)
	return task, taskErr(err)
}

func (s *TaskService) Rename(ctx context.Context, who auth.Identity, id int64, name string) (*models.Task, error) {
	name, err := checkName(name)
	if err != nil {
		return nil, err
	}

	task, err := s.repomanager.Tasks(s.db).Rename(ctx, who.UserID, id, name)
	return task, taskErr(err)
}

func (s *TaskService) SetDone(ctx context.Context, who auth.Identity, id int64, done bool) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.db).SetDone(ctx, who.UserID, id, done)
	return task, taskErr(err)
}

func (s *TaskService) Delete(ctx context.Context, who auth.Identity, id int64) error {
	return taskErr(s.repomanager.Tasks(s.db).Delete(ctx, who.UserID, id))
}

func checkName(name string) (string, error) {
	var c validation.Checklist
	c.NotBlank("name", name)
	if err := c.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(name), nil
}

func taskErr(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return errTaskNotFound
	}
	return err
}
