package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"movecalc/internal/api"
	"movecalc/internal/api/middleware"
	"movecalc/internal/calculator"
	"movecalc/internal/config"
	"movecalc/internal/identity"
	"movecalc/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("MOVECALC_CONFIG"), "Path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	wd, err := os.Getwd()
	if err == nil {
		log.Printf("Working directory: %s", wd)
	}
	log.Printf("Local configurations: %s", cfg.Storage.LocalPath)

	sel := calculator.Selector{Local: store.NewFile(cfg.Storage.LocalPath)}

	// The users table always lives in SQLite; configurations may not.
	var sqlite *store.SQLite
	if cfg.Identity.Enabled || cfg.Storage.Remote == "sqlite" {
		sqlite, err = store.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open database %s: %v", cfg.Storage.SQLitePath, err)
		}
		defer sqlite.Close()
		log.Printf("Database: %s", cfg.Storage.SQLitePath)
	}

	switch cfg.Storage.Remote {
	case "redis":
		rdb := store.NewRedis(cfg.Storage.RedisAddr)
		defer rdb.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(ctx); err != nil {
			log.Printf("Redis at %s not reachable yet: %v", cfg.Storage.RedisAddr, err)
		}
		cancel()
		sel.Remote = rdb
		log.Printf("Remote configurations: redis at %s", cfg.Storage.RedisAddr)
	default:
		sel.Remote = sqlite
		log.Printf("Remote configurations: sqlite")
	}

	var dir *identity.Directory
	if cfg.Identity.Enabled {
		dir = identity.NewDirectory(sqlite.DB(), identity.WithSessionTTL(cfg.Identity.SessionTTL))
		defer dir.Close()
	} else {
		log.Printf("Sign-in disabled; only local configurations are available")
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	defer limiter.Stop()

	router := api.NewRouter(api.Options{
		Defaults:       cfg.Defaults,
		Selector:       sel,
		Directory:      dir,
		AuthLimiter:    limiter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		StaticDir:      cfg.Server.StaticDir,
		RequestLog:     true,
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
