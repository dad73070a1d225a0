package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"geomarket/database"

	"go.uber.org/zap"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverMySQL  = database.DriverMySQL
	DriverSQLite = database.DriverSQLite
	DriverRedis  = "redis"
)

// Options selects and configures a Store implementation.
type Options struct {
	Driver   string
	DSN      string
	DataDir  string
	RedisURL string
}

// Open builds the Store named by opts.Driver.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (Store, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverFile, "":
		return NewFileStore(opts.DataDir)
	case DriverMySQL, DriverSQLite:
		dsn := opts.DSN
		if dsn == "" && opts.Driver == DriverSQLite {
			if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
			dsn = filepath.Join(opts.DataDir, "geomarket.db")
		}
		db, err := database.ConnectDatabase(opts.Driver, dsn, logger)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db)
	case DriverRedis:
		client, err := DialRedis(ctx, opts.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, "geomarket"), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
