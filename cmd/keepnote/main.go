package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"keepnote/internal/app"
	"keepnote/pkg/config"
	"keepnote/pkg/logger"
	"keepnote/pkg/shutdown"
)

// build metadata - set via ldflags during build/release
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	_ = godotenv.Load(".env")
	addrVal, dbVal, cfgVal, setFlags := config.ParseCommandFlags()

	// Resolve config path (file flag wins over env)
	cfgPath := config.ResolveConfigPath(cfgVal, setFlags["config"])

	cfg, envUsed, err := config.LoadEffective(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Flags explicitly set win over env/config for addr and db path.
	addr := cfg.Addr()
	if setFlags["addr"] {
		addr = addrVal
	}
	dbPath := cfg.Server.DBPath
	if setFlags["db"] || dbPath == "" {
		dbPath = dbVal
	}
	source := "config"
	if envUsed {
		source = "config+env"
	}
	if setFlags["addr"] || setFlags["db"] {
		source += "+flags"
	}

	logger.InitWithLevel(cfg.Logging.Level)

	a, err := app.New(cfg, addr, dbPath, source, version, commit, buildDate)
	if err != nil {
		shutdown.Abort("startup failed", err, dbPath)
	}

	ctx, cancel := shutdown.SetupSignalHandler(context.Background())
	defer cancel()

	if err := a.Run(ctx); err != nil {
		shutdown.Abort("server failed", err, dbPath)
	}
	logger.Info("shutdown_complete")
}
