package users

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	ListByStatus(ctx context.Context, status models.UserStatus) ([]models.UserSummary, error)
	FindPage(ctx context.Context, filter models.UserFilter) (int64, []models.UserSummary, error)
	Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	GetStatusForUpdate(ctx context.Context, id int64) (models.UserStatus, error)
	SetStatus(ctx context.Context, id int64, status models.UserStatus) (*models.User, error)
}
