package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophadmin/internal/buildinfo"
	"github.com/dmitrijs2005/gophadmin/internal/client/cli"
	"github.com/dmitrijs2005/gophadmin/internal/client/config"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.MustLoad()

	logger, flush, err := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "console stopped", "error", err)
	}

}
