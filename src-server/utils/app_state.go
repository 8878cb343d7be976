package utils

import (
	"database/sql"
	"log/slog"
	"os"
	"sync"

	"weddinvite/src-server/auth"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type AppState struct {
	Config *Config
	RawDB  *sql.DB
	BunDB  *bun.DB
	JWT    *auth.JWTManager

	MetricChans *Metric

	AppCloseSignalChan chan os.Signal

	gracefulShutdownChans   []*chan struct{}
	gracefulShutdownChansMu sync.Mutex
}

func NewAppState() *AppState {
	as := &AppState{}

	as.MetricChans = NewMetric()
	as.AppCloseSignalChan = make(chan os.Signal, 1)

	// env
	as.Config = NewConfig()

	as.JWT = auth.NewJWTManager(as.Config.GetJWTSecret(), as.Config.GetJWTExpire())

	// database
	var err error
	as.RawDB, err = sql.Open(sqliteshim.ShimName, as.Config.GetDatabasePath()+"?mode=rwc")
	if err != nil {
		slog.Error("cannot open sqlite database", "error", err)
		os.Exit(1)
	}
	as.RawDB.SetMaxIdleConns(8)

	as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
	as.BunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(as.Config.GetDev()),
		bundebug.FromEnv("BUNDEBUG"),
	))

	return as
}

// CreateGracefulShutdownChan hands out a channel that gets closed when
// the app is shutting down; long-lived goroutines select on it.
func (as *AppState) CreateGracefulShutdownChan() *chan struct{} {
	as.gracefulShutdownChansMu.Lock()
	defer as.gracefulShutdownChansMu.Unlock()

	ch := make(chan struct{})
	as.gracefulShutdownChans = append(as.gracefulShutdownChans, &ch)
	return &ch
}

func (as *AppState) GracefulShutdown() {
	as.gracefulShutdownChansMu.Lock()
	defer as.gracefulShutdownChansMu.Unlock()

	for _, ch := range as.gracefulShutdownChans {
		close(*ch)
	}
	as.gracefulShutdownChans = nil

	if err := as.BunDB.Close(); err != nil {
		slog.Warn("can't close database", "error", err)
	}
}
