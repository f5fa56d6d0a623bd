package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"storeadmin/internal/db"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Infow("no .env file, using environment")
	}

	addr := os.Getenv("DB_ADDR")
	if addr == "" {
		logger.Fatal("DB_ADDR is required")
	}

	conn, err := sql.Open("postgres", addr)
	if err != nil {
		logger.Fatalw("open database", "error", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		logger.Fatalw("ping database", "error", err)
	}

	applied, err := db.Migrate(ctx, conn)
	if err != nil {
		logger.Fatalw("migrate", "applied", applied, "error", err)
	}
	if len(applied) == 0 {
		logger.Info("schema is up to date")
		return
	}
	logger.Infow("migrations applied", "versions", applied)
}
