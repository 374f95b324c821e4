package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ai-coder/infra/cache"
	"ai-coder/infra/registry"
	"ai-coder/services/coder-service/internal/application"
	"ai-coder/services/coder-service/internal/handler"
	"ai-coder/services/coder-service/internal/infrastructure/executor"
	"ai-coder/services/coder-service/internal/infrastructure/formatter"
	"ai-coder/services/coder-service/internal/infrastructure/llm"
	"ai-coder/services/coder-service/internal/infrastructure/persistence/repository"
	"ai-coder/services/coder-service/internal/infrastructure/security"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	return cmd
}

// registration advertises the HTTP API in Consul with an HTTP health check.
func (a *app) registration() (*registry.ServiceManager, error) {
	localIP, err := registry.GetLocalIP()
	if err != nil {
		return nil, fmt.Errorf("resolve local ip: %w", err)
	}
	serviceCfg := &registry.ServiceConfig{
		ID:      registry.GenerateServiceID(a.cfg.ServerName, localIP, a.cfg.Port),
		Name:    a.cfg.ServerName,
		Tags:    []string{a.cfg.ServerName, "api", "v1"},
		Address: localIP,
		Port:    a.cfg.Port,
		HealthCheck: &registry.HealthCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", localIP, a.cfg.Port),
			Interval:                       10 * time.Second,
			Timeout:                        3 * time.Second,
			DeregisterCriticalServiceAfter: time.Minute,
		},
	}
	return registry.NewServiceManager(&a.cfg.Consul, serviceCfg)
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	logger := a.logger

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var redisClient *redis.Client
	if cache.Enabled(&cfg.Redis) {
		if redisClient, err = cache.NewRedisClient(ctx, &cfg.Redis); err != nil {
			logger.Warn("redis unavailable, rate limiting disabled", "addr", cache.Addr(&cfg.Redis), "err", err)
		} else {
			defer redisClient.Close()
		}
	}

	var svcMgr *registry.ServiceManager
	var discovery llm.Discoverer
	if cfg.Consul.Address != "" {
		if svcMgr, err = a.registration(); err != nil {
			logger.Warn("consul unavailable, running unregistered", "err", err)
		} else {
			discovery = svcMgr
		}
	}

	model, err := llm.NewModelClient(cfg.LLM, discovery)
	if err != nil {
		return err
	}
	codeFormatter := formatter.New(cfg.Formatter)
	if !codeFormatter.Available() {
		logger.Warn("code formatter not available", "black_path", cfg.Formatter.BlackPath)
	}
	if cfg.UsesDefaultJWTSecret() {
		logger.Warn("auth.jwt_secret is the built-in default, set a private secret for production")
	}
	tokens := security.NewJWTService(cfg.Auth)

	sessions := repository.NewSessionRepository(db.DB)
	interactions := repository.NewInteractionRepository(db.DB)
	users := repository.NewUserRepository(db.DB)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.Dependencies{
		ServiceName:  cfg.ServerName,
		Logger:       logger,
		Tokens:       tokens,
		Redis:        redisClient,
		RateLimitQPS: cfg.Redis.RateLimitQPS,
		Auth: application.NewAuthService(users, tokens, security.NewBcryptService(),
			time.Duration(cfg.Auth.Expire_Remember_H)*time.Hour),
		Sessions:     application.NewSessionService(sessions, interactions, cfg.Coder),
		Interactions: application.NewInteractionService(sessions, interactions, model, codeFormatter, cfg.LLM, cfg.Coder),
		Code:         application.NewCodeService(executor.NewPython(cfg.Executor.PythonPath, cfg.Executor.Timeout, cfg.Executor.MaxOutput), codeFormatter),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "port", cfg.Port, "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if svcMgr != nil {
		if err := svcMgr.Start(); err != nil {
			logger.Warn("service registration failed", "err", err)
		} else {
			defer svcMgr.Stop()
		}
	}

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "drain", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
