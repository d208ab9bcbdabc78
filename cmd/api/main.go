package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"sitefeed/internal/auth"
	"sitefeed/internal/db"
	"sitefeed/internal/domain/storage"
	"sitefeed/internal/notifications"
	"sitefeed/internal/ratelimiter"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables.
// Unparsable values fall back to the defaults; the returned error lists them so
// the caller can log it once the logger exists.
func LoadRateLimiterConfig() (ratelimiter.Config, error) {
	defaultRequests := 200
	defaultEnabled := false

	var errs []error

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			errs = append(errs, fmt.Errorf("invalid RATELIMITER_REQUESTS_COUNT %q, defaulting to %d", val, defaultRequests))
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			errs = append(errs, fmt.Errorf("invalid RATE_LIMITER_ENABLED %q, defaulting to %t", val, defaultEnabled))
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}, errors.Join(errs...)
}

// NewLogger creates a new zap logger with color.
func NewLogger(level zapcore.Level) *zap.SugaredLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level)

	return zap.New(core).Sugar()
}

var version = "0.4.0"

//	@title			Sitefeed API
//	@description	Construction updates and review threads per project section.

//	@BasePath					/
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	maxConns, err := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "25"))
	if err != nil {
		log.Fatalf("Invalid value for DB_MAX_OPEN_CONNS: %v", err)
	}

	rateLimiterCfg, rateLimiterErr := LoadRateLimiterConfig()

	cfg := config{
		addr:   getEnv("ADDR", ":8080"),
		env:    getEnv("ENV", "development"),
		apiURL: getEnv("EXTERNAL_URL", "localhost:8080"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(maxConns),
			maxIdleTime: getEnv("DB_MAX_IDLE_TIME", "15m"),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret: os.Getenv("AUTH_TOKEN_SECRET"),
				iss:    getEnv("AUTH_TOKEN_ISS", "sitefeed"),
			},
		},
		expoAccessToken: os.Getenv("EXPO_ACCESS_TOKEN"),
		rateLimiter:     rateLimiterCfg,
	}

	level := zapcore.InfoLevel
	if cfg.env == "development" {
		level = zapcore.DebugLevel
	}
	logger := NewLogger(level)
	defer logger.Sync()

	if rateLimiterErr != nil {
		logger.Warnw("rate limiter config", "error", rateLimiterErr)
	}

	if cfg.auth.token.secret == "" {
		logger.Fatal("AUTH_TOKEN_SECRET is required")
	}

	pool, err := db.New(db.Config{
		Addr:        cfg.db.addr,
		MaxConns:    cfg.db.maxConns,
		MaxIdleTime: cfg.db.maxIdleTime,
	})
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	app := &application{
		config: cfg,
		logger: logger,
		store:  storage.NewContainer(pool),
		authenticator: auth.NewJWTAuthenticator(
			cfg.auth.token.secret,
			cfg.auth.token.iss,
			cfg.auth.token.iss,
		),
		rateLimiter: ratelimiter.NewFixedWindowLimiter(
			cfg.rateLimiter.RequestsPerTimeFrame,
			cfg.rateLimiter.TimeFrame,
		),
		push: notifications.NewExpoAdapter(cfg.expoAccessToken),
	}

	// Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		return pool.Stat()
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	app.pruneStaleTokensDaily(bgCtx)

	mux := app.mount()

	logger.Fatal(app.run(mux))
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
