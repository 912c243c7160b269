package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to either the pool or a
// transaction, so services decide the transactional scope.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tasks(db dbx.DBTX) tasks.Repository
}
