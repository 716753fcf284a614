package main

import (
	"context"
	"log"

	"github.com/beaumontjonathan/words/internal/master"
	"github.com/beaumontjonathan/words/internal/master/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := master.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
