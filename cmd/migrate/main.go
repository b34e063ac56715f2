package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/solace-advocates/advocate-directory-api/internal/db/migrate"
	"github.com/solace-advocates/advocate-directory-api/internal/platform/config"
	"github.com/solace-advocates/advocate-directory-api/internal/platform/logging"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [up|down]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	direction := "up"
	if flag.NArg() > 0 {
		direction = flag.Arg(0)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging config: %v\n", err)
		os.Exit(1)
	}

	if err := migrate.Run(cfg.Database.URL, direction); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migrations already applied", "direction", direction)
			return
		}
		logger.Error("migration failed", "direction", direction, "error", err)
		os.Exit(1)
	}
	logger.Info("migrations applied", "direction", direction)
}
