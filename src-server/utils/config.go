package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	port string

	jwtSecret string
	jwtExpire time.Duration

	databasePath string

	adminUsername string
	adminPassword string

	location           *time.Location
	staticWebClientDir string
	dev                bool
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		jwtSecret: func() string {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				slog.Error("JWT_SECRET is not set")
				os.Exit(1)
			}
			return secret
		}(),
		jwtExpire: func() time.Duration {
			jwtExpire := os.Getenv("JWT_EXPIRE")
			if jwtExpire == "" {
				slog.Warn("JWT_EXPIRE is not set")
				jwtExpire = "168h" // 1 week
			}
			duration, err := time.ParseDuration(jwtExpire)
			if err != nil {
				slog.Error("invalid JWT_EXPIRE", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "JWT_EXPIRE", jwtExpire, "duration", duration)
			return duration
		}(),

		databasePath: func() string {
			databasePath := os.Getenv("DATABASE_PATH")
			if databasePath == "" {
				databasePath = "./sqlite.db"
			}
			slog.Debug("env", "DATABASE_PATH", databasePath)
			return databasePath
		}(),

		adminUsername: func() string {
			adminUsername := os.Getenv("ADMIN_USERNAME")
			if adminUsername == "" {
				slog.Error("ADMIN_USERNAME is not set")
				os.Exit(1)
			}
			slog.Debug("env", "ADMIN_USERNAME", adminUsername)
			return adminUsername
		}(),
		adminPassword: func() string {
			adminPassword := os.Getenv("ADMIN_PASSWORD")
			if adminPassword == "" {
				slog.Error("ADMIN_PASSWORD is not set")
				os.Exit(1)
			}
			slog.Debug("env", "ADMIN_PASSWORD", adminPassword[0:1]+"...")
			return adminPassword
		}(),

		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			var loc *time.Location
			var err error
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				loc = time.Local
			case "UTC":
				loc = time.UTC
			default:
				loc, err = time.LoadLocation(timezoneStr)
				if err != nil {
					slog.Error("invalid timezone", "timezone", timezoneStr, "error", err)
					os.Exit(1)
				}
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),

		staticWebClientDir: func() string {
			staticWebClientDir := os.Getenv("STATIC_WEB_CLIENT_DIR")
			if staticWebClientDir == "" {
				slog.Warn("STATIC_WEB_CLIENT_DIR is not set, not serving a web client")
				return ""
			}
			info, err := os.Stat(staticWebClientDir)
			if err != nil {
				slog.Error("can't get info of STATIC_WEB_CLIENT_DIR", "error", err)
				os.Exit(1)
			}
			if !info.IsDir() {
				slog.Error("STATIC_WEB_CLIENT_DIR is not a directory")
				os.Exit(1)
			}

			slog.Debug("env", "STATIC_WEB_CLIENT_DIR", staticWebClientDir)
			return filepath.Clean(staticWebClientDir)
		}(),
		dev: func() bool {
			dev := os.Getenv("DEV") != ""
			slog.Debug("env", "DEV", dev)
			return dev
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get JWT_SECRET env
func (c *Config) GetJWTSecret() string {
	return c.jwtSecret
}

// Get JWT_EXPIRE env
func (c *Config) GetJWTExpire() time.Duration {
	return c.jwtExpire
}

// Get DATABASE_PATH env
func (c *Config) GetDatabasePath() string {
	return c.databasePath
}

// Get ADMIN_USERNAME env
func (c *Config) GetAdminUsername() string {
	return c.adminUsername
}

// Get ADMIN_PASSWORD env
func (c *Config) GetAdminPassword() string {
	return c.adminPassword
}

// Get TIMEZONE env
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get STATIC_WEB_CLIENT_DIR env, empty when unset
func (c *Config) GetStaticWebClientDir() string {
	return c.staticWebClientDir
}

// Get DEV env
func (c *Config) GetDev() bool {
	return c.dev
}
