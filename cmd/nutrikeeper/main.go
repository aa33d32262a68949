package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/nutrikeeper/internal/buildinfo"
	"github.com/dmitrijs2005/nutrikeeper/internal/cli"
	"github.com/dmitrijs2005/nutrikeeper/internal/config"
	"github.com/dmitrijs2005/nutrikeeper/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stderr)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
