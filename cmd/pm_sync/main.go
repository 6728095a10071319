// Command pm_sync runs a headless dashboard session: it signs in with a
// session token, loads everything the user may see and logs notifications as
// they arrive until interrupted.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/pm_dashboard_app/internal/adapters/database/pgsql"
	"github.com/SscSPs/pm_dashboard_app/internal/adapters/provisioning"
	"github.com/SscSPs/pm_dashboard_app/internal/adapters/realtime/pgnotify"
	"github.com/SscSPs/pm_dashboard_app/internal/adapters/realtime/redisfeed"
	"github.com/SscSPs/pm_dashboard_app/internal/adapters/storage/s3"
	"github.com/SscSPs/pm_dashboard_app/internal/core/ports/gateway"
	"github.com/SscSPs/pm_dashboard_app/internal/core/services"
	"github.com/SscSPs/pm_dashboard_app/internal/core/store"
	"github.com/SscSPs/pm_dashboard_app/internal/middleware"
	"github.com/SscSPs/pm_dashboard_app/internal/platform/config"
	pgsqlrepo "github.com/SscSPs/pm_dashboard_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/pm_dashboard_app/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"
)

func main() {
	token := pflag.String("token", os.Getenv("PM_SESSION_TOKEN"), "session token (defaults to $PM_SESSION_TOKEN)")
	email := pflag.String("email", "", "log in with email and password instead of a token")
	password := pflag.String("password", os.Getenv("PM_PASSWORD"), "password for --email (defaults to $PM_PASSWORD)")
	poll := pflag.Duration("status-interval", 30*time.Second, "how often to log a session summary")
	debug := pflag.Bool("debug", false, "enable debug logging")
	pflag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(logger, *token, *email, *password, *poll); err != nil {
		logger.Error("Session failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, token, email, password string, poll time.Duration) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = middleware.WithLogger(ctx, logger)

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(pool)

	svc := services.NewServiceContainer(cfg, pgsqlrepo.NewRepositoryProvider(pool, cfg.GatewayTimeout))
	if token == "" {
		if email == "" {
			return fmt.Errorf("either --token or --email is required")
		}
		user, err := svc.Member.Authenticate(ctx, email, password)
		if err != nil {
			return err
		}
		if token, _, err = svc.Token.GenerateAccessToken(ctx, user); err != nil {
			return err
		}
	}
	userID, err := svc.Token.VerifyAccessToken(ctx, token)
	if err != nil {
		return err
	}
	ctx = middleware.WithUserID(middleware.WithLogger(ctx, logger.With(slog.String("user_id", userID))), userID)

	gw := pgsql.NewGateway(pool, cfg.GatewayTimeout)
	gw.UseSession(gateway.Session{Token: token, UserID: userID})
	defer gw.ClearSession()

	deps := store.Dependencies{
		Gateway:     gw,
		Provisioner: provisioning.NewClient(cfg.ProvisioningURL, cfg.ProvisioningTimeout),
	}
	if deps.Feed, err = openFeed(ctx, cfg, pool); err != nil {
		return err
	}
	if cfg.StorageEnabled() {
		storage, err := s3.New(ctx, s3.Options{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			return err
		}
		deps.Storage = storage
	}

	st := store.New(deps, store.Options{MinPasswordLength: cfg.MinPasswordLength})
	if err := st.SignIn(ctx); err != nil {
		if st.State() != store.StateReady {
			return err
		}
		logger.Warn("Signed in with a partial load", slog.String("error", err.Error()))
	}
	defer st.SignOut(context.WithoutCancel(ctx))

	watch(ctx, logger, st, poll)
	return nil
}

func openFeed(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (gateway.Feed, error) {
	if cfg.RealtimeDriver == config.RealtimeRedis {
		client, err := redisfeed.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		go func() {
			<-ctx.Done()
			client.Close()
		}()
		return redisfeed.NewFeed(client), nil
	}
	return pgnotify.NewFeed(pool), nil
}

// watch logs store feedback, new notifications and a periodic summary until
// ctx is done.
func watch(ctx context.Context, logger *slog.Logger, st *store.Store, poll time.Duration) {
	summary := func() {
		snap := st.Snapshot()
		logger.Info("Session summary",
			slog.String("state", st.State().String()),
			slog.Int("projects", len(st.VisibleProjects())),
			slog.Int("users", len(st.VisibleUsers())),
			slog.Int("companies", len(st.VisibleCompanies())),
			slog.Int("tasks", len(snap.Tasks)),
			slog.Int("unread", st.UnreadNotifications()))
	}
	summary()

	seen := make(map[string]struct{})
	for _, n := range st.Snapshot().Notifications {
		seen[n.ID] = struct{}{}
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	check := time.NewTicker(time.Second)
	defer check.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case fb := <-st.Feedback():
			logger.Info("Feedback", slog.String("level", string(fb.Level)), slog.String("message", fb.Message))
		case <-check.C:
			for _, n := range st.Snapshot().Notifications {
				if _, ok := seen[n.ID]; ok {
					continue
				}
				seen[n.ID] = struct{}{}
				logger.Info("Notification",
					slog.String("id", n.ID), slog.String("type", string(n.Type)),
					slog.String("title", n.Title), slog.String("message", n.Message))
			}
		case <-ticker.C:
			summary()
		}
	}
}
