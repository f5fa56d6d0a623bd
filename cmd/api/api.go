package main

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storeadmin/docs" //this is required to generate swagger docs
	"storeadmin/internal/auth"
	"storeadmin/internal/cache"
	"storeadmin/internal/domain/storage"
	"storeadmin/internal/events"
	"storeadmin/internal/mailer"
	"storeadmin/internal/media"
	"storeadmin/internal/payments"
	"storeadmin/internal/ratelimiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         *storage.Container
	logger        *zap.SugaredLogger
	media         media.Storage
	cache         *cache.Cache
	events        events.Publisher
	payments      *payments.PaymentManager
	mailer        mailer.Client
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	frontendURL string
	auth        authConfig
	redis       redisConfig
	natsURL     string
	payments    paymentsConfig
	mail        mailConfig
	orderSalt   string
	rateLimiter ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret string
	aud    string
	iss    string
}

type basicConfig struct {
	user string
	pass string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

type redisConfig struct {
	addr     string
	password string
	db       int
	ttl      time.Duration
}

type mailConfig struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
}

type paymentsConfig struct {
	stripeSecret  string
	webhookSecret string
	currency      string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.config.frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Use(app.RateLimiterMiddleware)

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/v1/swagger/doc.json")))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Post("/webhooks/stripe", app.stripeWebhookHandler)

		r.Route("/stores", func(r chi.Router) {
			r.With(app.AuthTokenMiddleware).Get("/", app.listMyStoresHandler)
			r.With(app.AuthTokenMiddleware).Post("/", app.createStoreHandler)

			r.Route("/{storeID}", func(r chi.Router) {
				// Storefront reads, no authentication.
				r.Get("/billboards", app.listBillboardsHandler)
				r.Get("/billboards/{billboardID}", app.getBillboardHandler)
				r.Get("/categories", app.listCategoriesHandler)
				r.Get("/categories/{categoryID}", app.getCategoryHandler)
				r.Get("/sizes", app.listSizesHandler)
				r.Get("/sizes/{sizeID}", app.getSizeHandler)
				r.Get("/colors", app.listColorsHandler)
				r.Get("/colors/{colorID}", app.getColorHandler)
				r.Get("/products", app.listProductsHandler)
				r.Get("/products/{productID}", app.getProductHandler)
				r.Post("/checkout", app.checkoutHandler)

				// Store owner.
				r.Group(func(r chi.Router) {
					r.Use(app.AuthTokenMiddleware)
					r.Use(app.StoreOwnerMiddleware)

					r.Get("/", app.getStoreHandler)
					r.Patch("/", app.updateStoreHandler)
					r.Delete("/", app.deleteStoreHandler)

					r.Post("/billboards", app.createBillboardHandler)
					r.Patch("/billboards/{billboardID}", app.updateBillboardHandler)
					r.Delete("/billboards/{billboardID}", app.deleteBillboardHandler)

					r.Post("/categories", app.createCategoryHandler)
					r.Patch("/categories/{categoryID}", app.updateCategoryHandler)
					r.Delete("/categories/{categoryID}", app.deleteCategoryHandler)

					r.Post("/sizes", app.createSizeHandler)
					r.Patch("/sizes/{sizeID}", app.updateSizeHandler)
					r.Delete("/sizes/{sizeID}", app.deleteSizeHandler)

					r.Post("/colors", app.createColorHandler)
					r.Patch("/colors/{colorID}", app.updateColorHandler)
					r.Delete("/colors/{colorID}", app.deleteColorHandler)

					r.Post("/products", app.createProductHandler)
					r.Patch("/products/{productID}", app.updateProductHandler)
					r.Delete("/products/{productID}", app.deleteProductHandler)

					r.Get("/orders", app.listOrdersHandler)
					r.Get("/orders/{orderID}", app.getOrderHandler)
					r.Patch("/orders/{orderID}/delivered", app.setOrderDeliveredHandler)

					r.Get("/overview", app.overviewHandler)
					r.Post("/uploads", app.uploadImageHandler)
				})
			})
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
