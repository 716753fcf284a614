package main

import (
	"context"
	"log"

	"github.com/beaumontjonathan/words/internal/worker"
	"github.com/beaumontjonathan/words/internal/worker/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := worker.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
