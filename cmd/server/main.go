package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"pcparts-backend/internal/config"
	"pcparts-backend/internal/server"
	"pcparts-backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	log.Printf("environment: %s", cfg.Environment)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	store, err := storage.NewMongoStore(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	log.Printf("connected to database %s", cfg.DBName)

	if err := storage.Seed(ctx, store, cfg.BcryptRounds); err != nil {
		log.Fatalf("failed to seed database: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.New(store, cfg).Router(),
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	grp, shutdownCtx := errgroup.WithContext(shutdownCtx)

	grp.Go(func() error {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	grp.Go(func() error {
		<-shutdownCtx.Done()
		log.Println("shutting down gracefully...")

		drainCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		return srv.Shutdown(drainCtx)
	})

	if err := grp.Wait(); err != nil {
		log.Printf("server error: %v", err)
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Close(closeCtx); err != nil {
		log.Printf("failed to close database connection: %v", err)
	} else {
		log.Println("database connection closed")
	}
}
