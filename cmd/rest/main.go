package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"english-tutor-be/internal/bootstrap"
	"english-tutor-be/internal/config"
	"english-tutor-be/internal/model"
	"english-tutor-be/internal/server"
	"english-tutor-be/internal/tracer"
	"english-tutor-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Tracer
	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled)
	defer shutdownTracer(context.Background())

	// 3. Archive database. The tutor works without it.
	var gormDB *gorm.DB
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] Archive disabled, unable to open database: %v", err)
	} else {
		gormDB = db
		// Local SQLite files are created on the fly; Postgres goes through cmd/migrate.
		if database.IsSQLite(cfg.Database.Connection) {
			if err := db.AutoMigrate(model.All()...); err != nil {
				log.Printf("[WARN] Archive disabled, SQLite migration failed: %v", err)
				gormDB = nil
			}
		}
	}

	// 4. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, gormDB, cfg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to bootstrap: %v", err)
	}
	defer container.Close()

	// 5. Background Services
	if container.ArchiveService != nil {
		if err := container.ArchiveService.Consume(ctx); err != nil {
			log.Printf("[WARN] Archive consumer not started: %v", err)
		}
	}
	go container.WebSocketHub.Run(ctx)

	// 6. Server
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			log.Printf("[WARN] Shutdown: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
