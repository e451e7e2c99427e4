package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"asset-tracking-api-server/config"
	"asset-tracking-api-server/internal/api/routes"
	"asset-tracking-api-server/internal/barcode"
	"asset-tracking-api-server/internal/database"
	"asset-tracking-api-server/internal/export"
	"asset-tracking-api-server/internal/s3"
	"asset-tracking-api-server/internal/scan"
	"asset-tracking-api-server/internal/socket"
	"asset-tracking-api-server/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	db, err := storage.Connect(cfg.Mongo.URI, cfg.Mongo.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Client().Disconnect(ctx); err != nil {
			log.Printf("Failed to disconnect MongoDB: %v", err)
		}
	}()

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := storage.EnsureIndexes(indexCtx, db); err != nil {
		cancelIndex()
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	cancelIndex()

	if err := database.SeedAdmin(db); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Printf("Redis unreachable, rate limiting disabled: %v", err)
			rdb = nil
		}
		cancelPing()
	}

	var s3Uploader *s3.Uploader
	if cfg.S3.Bucket != "" {
		s3Uploader, err = s3.NewUploader(cfg.S3)
		if err != nil {
			log.Fatalf("Failed to initialize S3 uploader: %v", err)
		}
	} else {
		log.Println("S3 bucket not configured, photo uploads disabled")
	}

	store := storage.NewDirectory(db)
	encoder := &barcode.Encoder{
		UploadsDir: cfg.Uploads.Dir,
		BaseURL:    cfg.App.BaseURL,
		LogoPath:   cfg.Uploads.LogoPath,
	}
	lifecycle := &barcode.Lifecycle{Store: store.Assets, Encoder: encoder}
	wsHub := socket.NewHub()
	resolver := &scan.Resolver{Store: store, Hub: wsHub}
	packager := &export.Packager{Encoder: encoder}

	router := routes.SetupRouter(cfg, store, lifecycle, encoder, resolver, packager, wsHub, s3Uploader, rdb)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting API server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shut down: %v", err)
	}

	// let in-flight scan telemetry writes land before the DB connection closes
	resolver.Flush()
	log.Println("Server exited")
}
