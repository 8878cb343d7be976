package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weddinvite/src-server/auth"
	"weddinvite/src-server/metric"
	"weddinvite/src-server/model"
	"weddinvite/src-server/route"
	"weddinvite/src-server/utils"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

// seedAdmin makes sure the configured bootstrap admin exists so a fresh
// deployment can log in. An existing row with the same username is left
// alone, password changes go through the API.
func seedAdmin(ctx context.Context, as *utils.AppState) error {
	exists, err := as.BunDB.
		NewSelect().
		Model((*model.AdminUser)(nil)).
		Where("username = ?", as.Config.GetAdminUsername()).
		Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	passwordHash, err := auth.HashPassword(as.Config.GetAdminPassword())
	if err != nil {
		return err
	}
	adminModel := model.AdminUser{
		ID:           uuid.NewString(),
		Username:     as.Config.GetAdminUsername(),
		PasswordHash: passwordHash,
		Role:         model.ADMIN_ROLE_SUPER_ADMIN,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := as.BunDB.
		NewInsert().
		Model(&adminModel).
		Exec(ctx); err != nil {
		return err
	}
	slog.Info("bootstrap admin created", "username", adminModel.Username)
	return nil
}

func main() {
	as := utils.NewAppState()

	if err := model.CreateSchema(as.BunDB); err != nil {
		slog.Error("can't create database schema", "error", err)
		os.Exit(1)
	}
	if err := seedAdmin(context.Background(), as); err != nil {
		slog.Error("can't seed bootstrap admin", "error", err)
		os.Exit(1)
	}

	go metric.Init(as)

	go func() {
		muxer := http.NewServeMux()
		muxer.Handle("GET /metrics", promhttp.Handler())
		muxer.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
			if err := as.RawDB.PingContext(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("database unreachable"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})
		route.Invitation(muxer, as)
		route.AdminAuth(muxer, as)
		route.AdminGroups(muxer, as)
		route.AdminRsvps(muxer, as)
		route.AdminWedding(muxer, as)
		route.SPA(muxer, as)
		if err := http.ListenAndServe(":"+as.Config.GetPort(), muxer); err != nil {
			slog.Error("cannot start HTTP server", "error", err)
			as.AppCloseSignalChan <- syscall.SIGTERM
		}
	}()

	slog.Info("app is now running, press Ctrl+C to exit", "port", as.Config.GetPort())

	signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-as.AppCloseSignalChan
	as.GracefulShutdown()

	slog.Info("Gracefully shutting down...")
}
