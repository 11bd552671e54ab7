// Package kv is the single persistent key-value store shared by every
// tracker component. Values are JSON documents replaced whole on write.
package kv

import (
	"context"
	"encoding/json"
	"fmt"

	"tasktrack/internal/platform/tx"
)

const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Store reads and writes whole JSON values by key. Get reports false for an
// unset key and leaves dst untouched.
type Store interface {
	tx.Manager
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the backend named by driver, persisted at path.
func Open(driver, path string) (Store, error) {
	switch driver {
	case DriverBolt:
		return NewBolt(path)
	case DriverSQLite:
		return NewSQLite(path)
	case DriverFile:
		return NewFile(path)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
}

func encode(key string, value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	return raw, nil
}

func decode(key string, raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
