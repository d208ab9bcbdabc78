package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"sitefeed/internal/db"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("db", os.Getenv("DB_ADDR"), "postgres connection string")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: migrate [-db addr] up|down|status\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger := zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(os.Stdout), zapcore.InfoLevel)).Sugar()
	defer logger.Sync()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := db.OpenSQL(ctx, *addr)
	if err != nil {
		logger.Fatal(err)
	}
	defer conn.Close()

	provider, err := db.NewMigrator(conn)
	if err != nil {
		logger.Fatal(err)
	}

	switch cmd {
	case "up":
		results, err := provider.Up(ctx)
		for _, r := range results {
			logger.Infow("migration applied", "source", r.Source.Path, "duration", r.Duration)
		}
		if err != nil {
			logger.Fatal(err)
		}
	case "down":
		r, err := provider.Down(ctx)
		if err != nil {
			logger.Fatal(err)
		}
		logger.Infow("migration rolled back", "source", r.Source.Path)
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			logger.Fatal(err)
		}
		for _, s := range statuses {
			logger.Infow("migration", "source", s.Source.Path, "state", s.State, "applied_at", s.AppliedAt)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}
