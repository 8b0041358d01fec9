package repomanager

import (
	"context"
	"database/sql"

	"github.com/babalolajnr/todo-api/internal/dbx"
	"github.com/babalolajnr/todo-api/internal/server/repositories/todos"
	"github.com/babalolajnr/todo-api/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Todos(db dbx.DBTX) todos.Repository
}
