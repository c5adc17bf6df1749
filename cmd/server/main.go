package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/terminal-bench/bankledger/internal/api"
	"github.com/terminal-bench/bankledger/internal/auth"
	"github.com/terminal-bench/bankledger/internal/ledger"
	"github.com/terminal-bench/bankledger/pkg/messaging"
	"github.com/terminal-bench/bankledger/pkg/store"
)

func main() {
	port := getenv("PORT", "8080")
	bankName := getenv("BANK_NAME", "Core Bank")
	snapshotPath := getenv("SNAPSHOT_PATH", "bank_data.json")
	jwtSecret := getenv("JWT_SECRET", "dev-secret")
	tellerUser := getenv("TELLER_USER", "teller")
	tellerPassword := getenv("TELLER_PASSWORD", "teller")

	autosave := 5 * time.Minute
	if v := os.Getenv("AUTOSAVE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("Invalid AUTOSAVE_INTERVAL: %v", err)
		}
		autosave = d
	}

	var events *messaging.Client
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		var err error
		events, err = messaging.NewClient(messaging.Config{
			URL:            natsURL,
			Name:           "bankledger",
			ReconnectWait:  time.Second,
			MaxReconnects:  5,
			ConnectTimeout: 5 * time.Second,
		})
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer events.Drain()
	}

	var snaps store.Store
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		snaps = store.NewRedisStore(redis.NewClient(opts), "bankledger:snapshot")
	} else {
		snaps = store.NewFileStore(snapshotPath)
	}

	var pub ledger.Publisher
	if events != nil {
		pub = events
	}
	bank := ledger.NewBank(bankName, pub)

	switch data, err := snaps.Load(context.Background()); {
	case err == nil:
		if err := bank.Restore(data); err != nil {
			log.Fatalf("Failed to restore snapshot: %v", err)
		}
		log.Printf("Restored %d accounts", len(bank.Accounts()))
	case errors.Is(err, store.ErrNotFound):
		log.Printf("No existing data found, starting fresh")
	default:
		log.Fatalf("Failed to load snapshot: %v", err)
	}

	authSvc := auth.NewService(jwtSecret, tellerUser, tellerPassword, 24*time.Hour)
	server := api.NewServer(bank, authSvc, snaps)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: server.Handler(),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(autosave)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				save(gctx, bank, snaps)
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server error: %v", err)
	}

	// Final snapshot on the way out, mirroring the explicit save point the
	// durability contract allows.
	save(context.Background(), bank, snaps)
}

func save(ctx context.Context, bank *ledger.Bank, snaps store.Store) {
	data, err := bank.Serialize()
	if err != nil {
		log.Printf("Failed to serialize registry: %v", err)
		return
	}
	if err := snaps.Save(ctx, data); err != nil {
		log.Printf("Failed to save snapshot: %v", err)
		return
	}
	log.Printf("Snapshot saved")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
