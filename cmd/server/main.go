package main

import (
	"context"
	"log"

	"github.com/babalolajnr/todo-api/internal/server"
	"github.com/babalolajnr/todo-api/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
