package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/tracker/internal/client/app"
	"github.com/dmitrijs2005/tracker/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Printf("%v", err)
		}
	}()

	a.Run(ctx)

}
