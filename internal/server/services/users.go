// Package services contains server-side business logic. This file implements
// UserService: login, registration, profile management, the status toggle
// and the paginated user listing.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/validation"
	"github.com/jmoiron/sqlx"
)

var errUserNotFound = fmt.Errorf("user %w", common.ErrorNotFound)

type UserService struct {
	db          *sqlx.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.Hasher
	tokens      *auth.TokenService

	dummyOnce sync.Once
	dummyHash string
	dummyErr  error
}

func NewUserService(db *sqlx.DB, m repomanager.RepositoryManager, hasher *auth.Hasher, tokens *auth.TokenService) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
	}
}

// Login checks the credentials and returns a signed access token. Unknown
// users, wrong passwords and inactive accounts all yield ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, userName, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Pay the same bcrypt cost as a known user.
			if err := s.compareDummy(password); err != nil {
				return "", err
			}
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error fetching user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.Password)
	if err != nil {
		return "", err
	}
	if !ok || user.Status != models.StatusActive {
		return "", common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("error issuing token: %w", err)
	}
	return token, nil
}

// compareDummy runs a bcrypt comparison against a hash made once at the
// configured cost. The result is discarded.
func (s *UserService) compareDummy(password string) error {
	s.dummyOnce.Do(func() {
		s.dummyHash, s.dummyErr = s.hasher.Hash("taskkeeper-dummy-password")
	})
	if s.dummyErr != nil {
		return s.dummyErr
	}
	_, err := s.hasher.Verify(password, s.dummyHash)
	return err
}

func (s *UserService) Register(ctx context.Context, userName, password string) (*models.UserSummary, error) {
	var c validation.Checklist
	c.NotBlank("username", userName)
	c.NotBlank("password", password)
	if err := c.Err(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{UserName: strings.TrimSpace(userName), Password: hash})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	summary := user.Summary()
	return &summary, nil
}

// ListActive returns active users, newest first.
func (s *UserService) ListActive(ctx context.Context) ([]models.UserSummary, error) {
	return s.repomanager.Users(s.db).ListByStatus(ctx, models.StatusActive)
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.UserSummary, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, userErr(err)
	}
	summary := user.Summary()
	return &summary, nil
}

// Update changes the username and/or password. At least one must be given;
// a new password is hashed before it is stored.
func (s *UserService) Update(ctx context.Context, id int64, userName, password *string) (*models.UserSummary, error) {
	var c validation.Checklist
	c.Check(userName != nil || password != nil, "username", "username or password is required")
	if userName != nil {
		c.NotBlank("username", *userName)
	}
	if password != nil {
		c.NotBlank("password", *password)
	}
	if err := c.Err(); err != nil {
		return nil, err
	}

	var upd models.UserUpdate
	if userName != nil {
		name := strings.TrimSpace(*userName)
		upd.UserName = &name
	}
	if password != nil {
		hash, err := s.hasher.Hash(*password)
		if err != nil {
			return nil, err
		}
		upd.Password = &hash
	}

	user, err := s.repomanager.Users(s.db).Update(ctx, id, upd)
	if err != nil {
		return nil, userErr(err)
	}
	summary := user.Summary()
	return &summary, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return userErr(s.repomanager.Users(s.db).Delete(ctx, id))
}

// SetStatus switches a user between ACTIVE and INACTIVE. The current status
// is locked and compared inside one transaction; setting the status a user
// already has is an ErrorConflict.
func (s *UserService) SetStatus(ctx context.Context, id int64, status string) (*models.UserSummary, error) {
	next := models.UserStatus(status)

	var c validation.Checklist
	c.Required("status", status != "")
	if !c.Has("status") {
		c.Check(next.Valid(), "status", "must be ACTIVE or INACTIVE")
	}
	if err := c.Err(); err != nil {
		return nil, err
	}

	var updated *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		current, err := repo.GetStatusForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == next {
			return fmt.Errorf("%w: user is already %s", common.ErrorConflict, current)
		}

		updated, err = repo.SetStatus(ctx, id, next)
		return err
	})
	if err != nil {
		return nil, userErr(err)
	}

	summary := updated.Summary()
	return &summary, nil
}

// DoneTasks returns the username together with the user's completed tasks.
func (s *UserService) DoneTasks(ctx context.Context, id int64) (*models.UserDoneTasks, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, userErr(err)
	}

	tasks, err := s.repomanager.Tasks(s.db).ListDoneByOwner(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.UserDoneTasks{UserName: user.UserName, Tasks: tasks}, nil
}

// ListPage runs the sanitized, paginated user listing. An invalid status is
// rejected before any query runs.
func (s *UserService) ListPage(ctx context.Context, params UserListParams) (*models.UserPage, error) {
	filter, page, err := params.Sanitize()
	if err != nil {
		return nil, err
	}

	total, data, err := s.repomanager.Users(s.db).FindPage(ctx, filter)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []models.UserSummary{}
	}

	return &models.UserPage{
		Total: total,
		Page:  page,
		Pages: pageCount(total, filter.Limit),
		Data:  data,
	}, nil
}

// userErr gives a bare not-found from the users repository a readable message.
func userErr(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return errUserNotFound
	}
	return err
}
