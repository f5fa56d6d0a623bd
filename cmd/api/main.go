package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"storeadmin/internal/auth"
	"storeadmin/internal/cache"
	"storeadmin/internal/db"
	"storeadmin/internal/domain/orders"
	"storeadmin/internal/domain/storage"
	"storeadmin/internal/events"
	"storeadmin/internal/mailer"
	"storeadmin/internal/media"
	"storeadmin/internal/payments"
	"storeadmin/internal/ratelimiter"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	defaultRequests := 200
	defaultEnabled := false

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil && parsedVal > 0 {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder // This adds color to log levels (INFO, WARN, ERROR)

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	level := zapcore.InfoLevel

	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	logger := zap.New(core)

	return logger.Sugar(), nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return d
}

var version = "0.3.0"

//	@title			Store Admin API
//	@description	Back office API for store owners: catalog, orders and storefront checkout.

//	@contact.name	API Support
//	@contact.url	http://www.swagger.io/support
//	@contact.email	support@swagger.io

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@BasePath					/v1
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config{
		addr:        getEnv("ADDR", ":8080"),
		env:         getEnv("ENV", "development"),
		frontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		apiURL:      getEnv("EXTERNAL_URL", "localhost:8080"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(getEnvInt("DB_MAX_CONNS", 30)),
			maxIdleTime: getEnv("DB_MAX_IDLE_TIME", "15m"),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret: os.Getenv("AUTH_TOKEN_SECRET"),
				aud:    os.Getenv("AUTH_TOKEN_AUD"),
				iss:    os.Getenv("AUTH_TOKEN_ISS"),
			},
		},
		redis: redisConfig{
			addr:     os.Getenv("REDIS_ADDR"),
			password: os.Getenv("REDIS_PASSWORD"),
			db:       getEnvInt("REDIS_DB", 0),
			ttl:      getEnvDuration("CACHE_TTL", 5*time.Minute),
		},
		natsURL: os.Getenv("NATS_URL"),
		payments: paymentsConfig{
			stripeSecret:  os.Getenv("STRIPE_SECRET_KEY"),
			webhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			currency:      getEnv("CURRENCY", "usd"),
		},
		mail: mailConfig{
			host:      os.Getenv("SMTP_HOST"),
			port:      getEnvInt("SMTP_PORT", 587),
			username:  os.Getenv("SMTP_USER"),
			password:  os.Getenv("SMTP_PASS"),
			fromEmail: getEnv("SMTP_FROM", "orders@localhost"),
		},
		orderSalt:   getEnv("ORDER_CODE_SALT", "storeadmin"),
		rateLimiter: LoadRateLimiterConfig(),
	}

	// Logger
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	if cfg.auth.token.secret == "" {
		logger.Fatal("AUTH_TOKEN_SECRET is required")
	}

	// Database
	pool, err := db.New(
		cfg.db.addr,
		cfg.db.maxConns,
		cfg.db.maxIdleTime,
	)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	codes, err := orders.NewCodeGenerator(cfg.orderSalt)
	if err != nil {
		logger.Fatal(err)
	}

	store := storage.NewContainer(pool, codes)

	// Cloudinary
	cld, err := media.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		logger.Fatal(err)
	}

	// Cache degrades to no-op when Redis is unreachable.
	rdb, err := cache.New(cfg.redis.addr, cfg.redis.password, cfg.redis.db, cfg.redis.ttl)
	if err != nil {
		logger.Warnw("redis unavailable, caching disabled", "error", err)
	}
	defer rdb.Close()

	publisher, err := events.Connect(cfg.natsURL, "storeadmin-api", logger)
	if err != nil {
		logger.Fatal(err)
	}
	defer publisher.Close()

	paymentManager := payments.NewPaymentManager()
	if cfg.payments.stripeSecret != "" {
		paymentManager.RegisterGateway(payments.Stripe,
			payments.NewStripeAdapter(cfg.payments.stripeSecret, cfg.payments.webhookSecret))
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, checkout is disabled")
	}

	// Order confirmations are only sent when SMTP is configured.
	var mail mailer.Client
	if cfg.mail.host != "" {
		mail = mailer.NewSMTP(cfg.mail.host, cfg.mail.port, cfg.mail.username, cfg.mail.password, cfg.mail.fromEmail)
	} else {
		logger.Warn("SMTP_HOST not set, order confirmation emails are disabled")
	}

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	// Authenticator
	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.aud,
		cfg.auth.token.iss,
	)

	app := &application{
		config:        cfg,
		logger:        logger,
		store:         store,
		media:         cld,
		cache:         rdb,
		events:        publisher,
		payments:      paymentManager,
		mailer:        mail,
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		s := pool.Stat()
		return map[string]any{
			"total_conns":    s.TotalConns(),
			"idle_conns":     s.IdleConns(),
			"acquired_conns": s.AcquiredConns(),
			"max_conns":      s.MaxConns(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	expvar.Publish("cache_enabled", expvar.Func(func() any {
		return rdb.Enabled()
	}))

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if paymentManager.Has(payments.Stripe) {
		// Sessions expire after payments.SessionTTL; 24h leaves room for late webhooks.
		app.sweepAbandonedCheckouts(sweepCtx, 30*time.Minute, 24*time.Hour)
	}

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
