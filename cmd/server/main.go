// Package main runs the campaign service: the JSON API for campaign
// operations, the WebSocket event feed, and the health/metrics/status
// endpoints, backed by PostgreSQL + ClickHouse or in-memory storage.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"solana-ido-service/internal/bank"
	"solana-ido-service/internal/feed"
	"solana-ido-service/internal/ido"
	"solana-ido-service/internal/observability"
	"solana-ido-service/internal/solkey"
	"solana-ido-service/internal/storage"
	chstore "solana-ido-service/internal/storage/clickhouse"
	"solana-ido-service/internal/storage/memory"
	"solana-ido-service/internal/storage/migrations"
	pgstore "solana-ido-service/internal/storage/postgres"
)

// Server holds the service and its HTTP surface.
type Server struct {
	svc    *ido.Service
	hub    *feed.Hub
	tokens bank.Ledger
	funds  bank.Ledger
	logger *log.Logger

	useMemory bool
	started   time.Time
}

// allStores holds all storage implementations.
type allStores struct {
	campaignStore      storage.CampaignStore
	participationStore storage.ParticipationStore
	ledgerEventStore   storage.LedgerEventStore
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	listenAddr := flag.String("listen-addr", envOr("LISTEN_ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	platformAccount := flag.String("platform-account", os.Getenv("PLATFORM_ACCOUNT"), "Address receiving the platform fee")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	migrate := flag.Bool("migrate", true, "Apply database migrations on startup")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Validate required flags
	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}
	if *platformAccount == "" {
		logger.Fatal("--platform-account is required")
	}
	if err := solkey.Validate(*platformAccount); err != nil {
		logger.Fatalf("--platform-account: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create stores
	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory, *migrate)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	hub := feed.NewHub(nil, logger)
	defer hub.Close()

	// Custody balances model on-chain accounts and live in memory;
	// committed campaign state is what persists.
	tokens := bank.NewMemoryLedger()
	funds := bank.NewMemoryLedger()

	svc := ido.NewService(ido.Options{
		Campaigns:       stores.campaignStore,
		Participations:  stores.participationStore,
		Events:          stores.ledgerEventStore,
		Tokens:          tokens,
		Funds:           funds,
		PlatformAccount: *platformAccount,
		Logger:          logger,
		Sink:            hub.Publish,
	})

	server := &Server{
		svc:       svc,
		hub:       hub,
		tokens:    tokens,
		funds:     funds,
		logger:    logger,
		useMemory: *useMemory,
		started:   time.Now(),
	}

	httpServer := &http.Server{
		Addr:        *listenAddr,
		Handler:     server.routes(),
		ReadTimeout: 15 * time.Second,
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("HTTP shutdown error: %v", err)
		}
		cancel()
	}()

	logger.Printf("Starting HTTP server on %s (storage: %s)", *listenAddr, storageMode(*useMemory))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("HTTP server error: %v", err)
	}

	<-ctx.Done()
	logger.Println("Shutdown complete")
}

func storageMode(useMemory bool) string {
	if useMemory {
		return "memory"
	}
	return "postgres+clickhouse"
}

// createStores creates all required stores and applies migrations.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory, migrate bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			campaignStore:      memory.NewCampaignStore(),
			participationStore: memory.NewParticipationStore(),
			ledgerEventStore:   memory.NewLedgerEventStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres migrations: %w", err)
		}
	}

	// ClickHouse
	var chConn *chstore.Conn
	if migrate {
		chConn, err = migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	} else {
		chConn, err = chstore.NewConn(ctx, clickhouseDSN)
	}
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}

	stores := &allStores{
		// PostgreSQL stores (committed campaign state)
		campaignStore:      pgstore.NewCampaignStore(pool),
		participationStore: pgstore.NewParticipationStore(pool),

		// ClickHouse store (append-only audit trail)
		ledgerEventStore: chstore.NewLedgerEventStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	// Status endpoint
	mux.HandleFunc("/status", s.handleStatus)

	// Live event feed
	mux.Handle("/ws", s.hub)

	// Campaign API
	mux.HandleFunc("POST /api/campaigns", s.handleInitializeCampaign)
	mux.HandleFunc("GET /api/campaigns/{owner}", s.handleGetCampaign)
	mux.HandleFunc("GET /api/campaigns/{owner}/events", s.handleGetEvents)
	mux.HandleFunc("GET /api/campaigns/{owner}/participations/{participant}", s.handleGetParticipation)
	mux.HandleFunc("POST /api/campaigns/{owner}/deposit", s.handleDepositSupply)
	mux.HandleFunc("POST /api/campaigns/{owner}/join", s.handleJoin)
	mux.HandleFunc("POST /api/campaigns/{owner}/claim", s.handleClaim)
	mux.HandleFunc("POST /api/campaigns/{owner}/close", s.handleCloseCampaign)
	mux.HandleFunc("POST /api/campaigns/{owner}/close-failed", s.handleCloseIfSoftCapNotReached)
	mux.HandleFunc("POST /api/campaigns/{owner}/refund", s.handleRefund)
	mux.HandleFunc("POST /api/campaigns/{owner}/reclaim", s.handleReclaimTokens)
	mux.HandleFunc("POST /api/campaigns/{owner}/withdraw", s.handleWithdrawFunds)

	// Funding primitives for the in-process custody ledgers
	mux.HandleFunc("POST /api/faucet", s.handleFaucet)
	mux.HandleFunc("GET /api/accounts/{account}", s.handleGetBalances)

	return mux
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
