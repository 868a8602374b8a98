package main

import (
	"os"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/logging"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, true)

	if err := newRootCmd(cfg, log).Execute(); err != nil {
		os.Exit(1)
	}
}
