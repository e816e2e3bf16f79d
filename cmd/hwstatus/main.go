package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"hwstatus/config"
	"hwstatus/engine"
	"hwstatus/evaluator"
	"hwstatus/messaging"
	"hwstatus/store"
	"hwstatus/www"
)

var Version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "hwstatus.yaml", "path to config file")
	seed := flag.Bool("seed", false, "insert the sample inventory when the hardware table is empty")
	flag.Parse()

	if *showVersion {
		fmt.Println("hwstatus", Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Database
	db, err := store.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	log.Printf("hwstatus: database open (%s)", cfg.Database.Driver)

	if *seed {
		n, err := db.Seed(context.Background(), store.SampleInventory())
		if err != nil {
			log.Fatalf("seed inventory: %v", err)
		}
		log.Printf("hwstatus: seeded %d hardware records", n)
	}

	// Redis, only needed by the gauge evaluator
	var redisClient *redis.Client
	if cfg.Evaluator.Backend == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("hwstatus: redis not available (%v), evaluations will fail until it is", err)
		} else {
			log.Printf("hwstatus: redis connected (%s)", cfg.Redis.Address)
		}
		cancel()
		defer redisClient.Close()
	}

	// Evaluator
	ev, err := evaluator.New(&cfg.Evaluator, redisClient)
	if err != nil {
		log.Fatalf("evaluator: %v", err)
	}
	if remote, ok := ev.(*evaluator.Remote); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if ping, err := remote.Ping(ctx); err == nil {
			log.Printf("hwstatus: capacity service connected (%s %s)", ping.Product, ping.Version)
		} else {
			log.Printf("hwstatus: capacity service not available (%v)", err)
		}
		cancel()
	}

	// Messaging publisher (outbound reports)
	pub, err := messaging.NewPublisher(&cfg.Messaging)
	if err != nil {
		log.Fatalf("messaging: %v", err)
	}
	if c, ok := pub.(messaging.Connector); ok {
		if err := c.Connect(); err != nil {
			log.Printf("hwstatus: messaging connect failed (%v)", err)
		} else {
			log.Printf("hwstatus: messaging connected (%s)", cfg.Messaging.Backend)
		}
	}
	defer pub.Close()

	// Engine
	eng := engine.New(engine.Config{
		AppConfig: cfg,
		DB:        db,
		Evaluator: ev,
		Publisher: pub,
	})
	eng.Start()
	defer eng.Stop()

	// Web server
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           www.NewRouter(eng),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("hwstatus: web server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("web server: %v", err)
		}
	}()

	log.Printf("hwstatus: ready")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Printf("hwstatus: shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)

	log.Printf("hwstatus: stopped")
}
