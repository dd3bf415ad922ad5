// Package main applies the embedded database migrations and exits.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"solana-ido-service/internal/storage/migrations"
	pgstore "solana-ido-service/internal/storage/postgres"
)

func main() {
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	timeout := flag.Duration("timeout", 60*time.Second, "Overall migration timeout")
	flag.Parse()

	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags)

	if *postgresDSN == "" && *clickhouseDSN == "" {
		logger.Fatal("at least one of --postgres-dsn and --clickhouse-dsn is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			logger.Fatalf("postgres migrations: %v", err)
		}
		pool.Close()
		logger.Println("PostgreSQL migrations applied")
	}

	if *clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("clickhouse migrations: %v", err)
		}
		conn.Close()
		logger.Println("ClickHouse migrations applied")
	}
}
