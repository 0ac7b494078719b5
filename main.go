package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/qilimazhualuo/cat-rescue/internal/auth"
	"github.com/qilimazhualuo/cat-rescue/internal/config"
	"github.com/qilimazhualuo/cat-rescue/internal/database"
	"github.com/qilimazhualuo/cat-rescue/internal/router"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// ensure upload directory exists
	if err := ensureDir(cfg.Upload.Dir); err != nil {
		log.Fatalf("create upload dir: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations and seed default pages
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	if err := database.SeedPages(db); err != nil {
		log.Fatalf("seed pages: %v", err)
	}

	// session backend: Redis 不可用时直接拒绝启动
	rdb, err := auth.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}

	expire := time.Duration(cfg.JWT.ExpireHours) * time.Hour
	codec := auth.NewCodec(cfg.JWT.Secret, expire)
	manager := auth.NewManager(codec, auth.NewStore(rdb))

	// setup router
	r := router.SetupRouter(cfg, db, manager)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
