package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository is owner-scoped: every lookup and mutation filters by both the
// task id and the owning user id.
type Repository interface {
	ListByOwner(ctx context.Context, userID int64) ([]models.Task, error)
	ListDoneByOwner(ctx context.Context, userID int64) ([]models.Task, error)
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetOwned(ctx context.Context, userID, id int64) (*models.Task, error)
	Rename(ctx context.Context, userID, id int64, name string) (*models.Task, error)
	SetDone(ctx context.Context, userID, id int64, done bool) (*models.Task, error)
	Delete(ctx context.Context, userID, id int64) error
}
