// Package cli implements the interactive terminal client: a small REPL over
// the API client with prompts for credentials and todo fields.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/babalolajnr/todo-api/internal/client/api"
	"github.com/babalolajnr/todo-api/internal/client/config"
)

type App struct {
	config   *config.Config
	api      api.Client
	token    string
	userName string
	reader   *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	apiClient := api.NewHTTPClient(c.ServerAddr)

	return &App{config: c, api: apiClient, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}
