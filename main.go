package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"rose-booking/internal/analytics"
	analytics_api "rose-booking/internal/analytics/api"
	"rose-booking/internal/auth"
	"rose-booking/internal/cart"
	cart_api "rose-booking/internal/cart/api"
	"rose-booking/internal/catalog"
	catalog_api "rose-booking/internal/catalog/api"
	catalog_db "rose-booking/internal/catalog/db"
	"rose-booking/internal/config"
	"rose-booking/internal/database"
	"rose-booking/internal/database/migrations"
	"rose-booking/internal/kafka"
	"rose-booking/internal/logger"
	"rose-booking/internal/order"
	order_api "rose-booking/internal/order/api"
	"rose-booking/internal/reservation"
	reservation_api "rose-booking/internal/reservation/api"
	slotlock "rose-booking/internal/reservation/redis"
	"rose-booking/internal/session"
	"rose-booking/internal/sse"
	"rose-booking/internal/tracking"
	"rose-booking/internal/utils"
)

// requestLogger reports every request through the category logger.
func requestLogger(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.LogAPI(r.Method, r.URL.Path, fmt.Sprintf("%d", ww.Status()), time.Since(start).String())
		})
	}
}

func connectRedis(ctx context.Context, cfg config.RedisConfig, logger *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, DB: cfg.DB})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection error: %w", err)
	}
	logger.Info("REDIS", fmt.Sprintf("✅ Redis connection successful to %s (DB: %d)", cfg.Addr, cfg.DB))
	return client, nil
}

// adminVerifier prefers the OIDC provider when one is configured.
func adminVerifier(ctx context.Context, cfg config.AuthConfig) (auth.Verifier, error) {
	if cfg.OIDCIssuer != "" {
		return auth.NewOIDCVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET or OIDC_ISSUER must be set when admin auth is enabled")
	}
	return auth.NewHMACVerifier(cfg.JWTSecret, cfg.JWTIssuer), nil
}

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	logger := logger.NewLogger("rose-booking", cfg.Log.Dir, cfg.Log.Level)
	defer logger.Close()

	logger.Info("APP", "Starting rose-booking initialization")
	if envErr != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	ctx := context.Background()

	bunDB, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	if cfg.Database.AutoMigrate {
		if err := migrations.Apply(ctx, bunDB, cfg.Database.Driver, logger); err != nil {
			logger.Fatal("MIGRATE", err.Error())
		}
	}

	var locker reservation.SlotLocker = reservation.NewLocalLocker()
	if cfg.Redis.Enabled {
		redisClient, err := connectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("REDIS", err.Error())
		}
		defer redisClient.Close()
		locker = slotlock.NewRedis(redisClient, cfg.Redis.SlotLockTTL, logger)
	} else {
		logger.Warn("REDIS", "Redis disabled, using in-process slot locks (single instance only)")
	}

	var publisher kafka.Publisher = kafka.NopPublisher{}
	if cfg.Kafka.Enabled {
		if err := kafka.EnsureTopicsExist(ctx, cfg.Kafka.Brokers, cfg.Kafka.AllTopics(), logger); err != nil {
			logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
		producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
		defer producer.Close()
		publisher = producer
		logger.Info("KAFKA", "Kafka producer initialized successfully")
	} else {
		logger.Info("KAFKA", "Kafka disabled, domain events are not published")
	}

	broker := sse.NewBroker()
	publisher = &sse.Tee{Next: publisher, Broker: broker}

	qr := tracking.NewQRGenerator(cfg.Server.PublicBaseURL)

	catalogService := catalog.NewService(catalog_db.New(bunDB), logger)
	reservationService := reservation.NewService(bunDB, locker, publisher, qr, cfg, logger)
	cartService := cart.NewService(bunDB, logger)
	orderService := order.NewOrderService(bunDB, publisher, qr, cfg, logger)
	analyticsService := analytics.NewService(bunDB, cfg.Reservation.Location(), logger)

	catalogHandler := &catalog_api.Handler{CatalogService: catalogService, Logger: logger}
	reservationHandler := &reservation_api.Handler{ReservationService: reservationService, Logger: logger}
	cartHandler := &cart_api.Handler{CartService: cartService, Logger: logger}
	orderHandler := &order_api.Handler{OrderService: orderService, Logger: logger}
	analyticsHandler := analytics_api.NewHandler(analyticsService, logger)
	liveHandler := sse.NewHandler(broker, logger)

	var adminGuard func(http.Handler) http.Handler
	if cfg.Auth.Enabled {
		verifier, err := adminVerifier(ctx, cfg.Auth)
		if err != nil {
			logger.Fatal("AUTH", err.Error())
		}
		adminGuard = auth.RequireRole(verifier, cfg.Auth.AdminRole, logger)
		logger.Info("AUTH", fmt.Sprintf("Admin routes require role %q", cfg.Auth.AdminRole))
	} else {
		logger.Warn("AUTH", "Admin auth disabled, /api/admin is open")
	}

	logger.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", session.Header},
		ExposedHeaders:   []string{session.Header},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := bunDB.PingContext(r.Context()); err != nil {
			utils.WriteJSON(w, http.StatusServiceUnavailable, utils.ErrorResponse("database unavailable", err.Error()))
			return
		}
		utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ok", nil))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", catalogHandler.ListRestaurants)
			r.Get("/{restaurantId}/tables", catalogHandler.ListTables)
			r.Get("/{restaurantId}/menu", catalogHandler.GetMenu)
		})
		logger.Info("ROUTER", "Catalog routes registered under /api/restaurants")

		r.Route("/reservations", func(r chi.Router) {
			r.Get("/available", reservationHandler.GetAvailableTables)
			r.Post("/create", reservationHandler.CreateReservation)
			r.Get("/track/{code}", reservationHandler.GetByTrackingCode)
			r.Get("/track/{code}/qr", reservationHandler.TrackingQR)
		})
		logger.Info("ROUTER", "Reservation routes registered under /api/reservations")

		r.Route("/cart", func(r chi.Router) {
			r.Use(session.Middleware)
			r.Post("/add", cartHandler.AddItem)
			r.Post("/add-multiple", cartHandler.AddMultiple)
			r.Get("/", cartHandler.GetCart)
			r.Delete("/remove/{id}", cartHandler.RemoveItem)
			r.Delete("/clear", cartHandler.ClearCart)
		})
		logger.Info("ROUTER", "Cart routes registered under /api/cart")

		r.Route("/orders", func(r chi.Router) {
			r.With(session.Middleware).Post("/place", orderHandler.PlaceOrder)
			r.Get("/", orderHandler.ListByPhone)
			r.Get("/track/{code}", orderHandler.GetByTrackingCode)
			r.Get("/track/{code}/qr", orderHandler.TrackingQR)
		})
		logger.Info("ROUTER", "Order routes registered under /api/orders")

		r.Route("/admin", func(r chi.Router) {
			if adminGuard != nil {
				r.Use(adminGuard)
			}
			r.Get("/stats/dashboard", analyticsHandler.Dashboard)
			r.Get("/stats/sales", analyticsHandler.Sales)
			r.Get("/stats/live", liveHandler.Stream)
			r.Route("/reservations", func(r chi.Router) {
				r.Get("/", reservationHandler.ListReservations)
				r.Get("/{id}", reservationHandler.GetReservation)
				r.Patch("/{id}", reservationHandler.UpdateReservation)
				r.Delete("/{id}", reservationHandler.DeleteReservation)
			})
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orderHandler.ListOrders)
				r.Get("/{id}", orderHandler.GetOrder)
				r.Delete("/{id}", orderHandler.DeleteOrder)
			})
			r.Route("/restaurants", func(r chi.Router) {
				r.Post("/", catalogHandler.CreateRestaurant)
				r.Delete("/{restaurantId}", catalogHandler.DeleteRestaurant)
				r.Post("/{restaurantId}/tables", catalogHandler.CreateTable)
				r.Post("/{restaurantId}/categories", catalogHandler.CreateCategory)
			})
			r.Post("/menu-items", catalogHandler.CreateMenuItem)
			r.Patch("/menu-items/{id}", catalogHandler.UpdateMenuItem)
		})
		logger.Info("ROUTER", "Admin routes registered under /api/admin")
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 rose-booking running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "✅ rose-booking shutdown complete")
	}
}
