package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/accounts/internal/client/cli"
	"github.com/dmitrijs2005/accounts/internal/client/config"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app := cli.NewApp(cfg)
	app.Run(context.Background())

}
