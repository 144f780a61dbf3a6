package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"identity-hub/internal/adapter/gateway"
	adapterhandler "identity-hub/internal/adapter/handler"
	"identity-hub/internal/infrastructure/credential"
	"identity-hub/internal/infrastructure/postgres"
	"identity-hub/internal/infrastructure/secret"
	"identity-hub/internal/infrastructure/sessionstore"
	infratoken "identity-hub/internal/infrastructure/token"
	"identity-hub/internal/usecase"

	"identity-hub/config"
	appmiddleware "identity-hub/middleware"
	"identity-hub/utils/logger"
	"identity-hub/utils/otel"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Handle healthcheck subcommand (for Docker healthcheck in distroless image)
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Local development convenience; absent .env is fine
	_ = godotenv.Load()

	// Initialize OpenTelemetry
	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		slog.Warn("failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		otelCfg.Enabled = false
	}

	// Initialize structured logger
	logger.Init(otelCfg.Enabled)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "configuration loaded",
		"port", cfg.Port,
		"access_ttl", cfg.AccessTTL,
		"refresh_ttl", cfg.RefreshTTL)

	// Session store settings come from the key manager; failure here is fatal
	// because the service cannot honor single-live-session without it.
	secrets := secret.NewKeyManagerClient(cfg.SecretInfoURL, cfg.SecretPasswordURL, 5*time.Second)
	cacheSettings, err := secrets.CacheSettings(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to retrieve session store settings", "error", err)
		os.Exit(1)
	}

	redisClient := sessionstore.NewClient(cacheSettings)
	sessions := sessionstore.NewRedisStore(redisClient)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, slog.Default())
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to account store", "error", err)
		os.Exit(1)
	}
	accounts := postgres.NewAccountRepository(pool, slog.Default())

	codec := infratoken.NewCodec(infratoken.Config{
		Secret:     cfg.TokenSecret,
		Issuer:     cfg.TokenIssuer,
		Audience:   cfg.TokenAudience,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	})
	verifier := credential.NewBcryptVerifier(0)
	googleGateway := gateway.NewGoogleGateway(gateway.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Timeout:      5 * time.Second,
	})

	// Usecases
	loginUC := usecase.NewLogin(accounts, verifier, codec, sessions, slog.Default())
	logoutUC := usecase.NewLogout(sessions, slog.Default())
	refreshUC := usecase.NewRefresh(accounts, codec, sessions, slog.Default())
	signupUC := usecase.NewSignup(accounts, verifier, slog.Default())
	updateUC := usecase.NewUpdateAccount(accounts, verifier, codec, sessions, slog.Default())
	withdrawUC := usecase.NewWithdrawAccount(accounts, sessions, slog.Default())
	memberInfoUC := usecase.NewMemberInfo(accounts, slog.Default())
	federatedUC := usecase.NewFederatedLogin(googleGateway, accounts, codec, sessions, slog.Default())

	// Handlers
	authHandler := adapterhandler.NewAuthHandler(loginUC, logoutUC, refreshUC)
	accountHandler := adapterhandler.NewAccountHandler(signupUC, updateUC, withdrawUC, memberInfoUC)
	federationHandler := adapterhandler.NewFederationHandler(federatedUC)
	healthHandler := adapterhandler.NewHealthHandler()

	// Setup Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(appmiddleware.SecurityHeaders())

	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
		e.Use(appmiddleware.OTelStatusMiddleware())
	}

	// Request logging
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())

	// Rate limiters per endpoint group
	credentialRL := appmiddleware.NewRateLimiter(30.0/60.0, 5) // login, signup: 30 req/min
	refreshRL := appmiddleware.NewRateLimiter(100.0/60.0, 10)  // refresh: 100 req/min
	internalRL := appmiddleware.NewRateLimiter(100.0/60.0, 10) // sibling services: 100 req/min

	bearer := appmiddleware.BearerAuth(codec)

	// Public routes
	e.POST("/members/signup", accountHandler.HandleSignup, credentialRL.Middleware())
	e.POST("/members/check/email", accountHandler.HandleCheckEmail, credentialRL.Middleware())
	e.POST("/members/login", authHandler.HandleLogin, credentialRL.Middleware())
	e.POST("/members/login/google", federationHandler.HandleGoogleLogin, credentialRL.Middleware())
	e.POST("/auth/refresh", authHandler.HandleRefresh, refreshRL.Middleware())
	e.GET("/health", healthHandler.Handle)

	// Routes requiring a verified bearer token
	e.POST("/auth/logout", authHandler.HandleLogout, bearer)
	e.PUT("/auth/info", accountHandler.HandleUpdate, bearer)
	e.DELETE("/auth/info", accountHandler.HandleWithdraw, bearer)

	// Internal routes (protected by shared secret)
	internalGroup := e.Group("/internal", internalRL.Middleware())
	if cfg.InternalSharedSecret != "" {
		internalGroup.Use(appmiddleware.InternalAuth(cfg.InternalSharedSecret))
	}
	internalGroup.GET("/members/:uuid", accountHandler.HandleMemberInfo)

	// Start server with errgroup for graceful shutdown
	address := fmt.Sprintf(":%s", cfg.Port)
	slog.InfoContext(ctx, "starting identity-hub server", "address", address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := e.Shutdown(shutdownCtx)
		pool.Close()
		if cerr := redisClient.Close(); cerr != nil && err == nil {
			err = cerr
		}
		return err
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited properly")
}

// runHealthcheck performs a health check against the local server.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8888"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
