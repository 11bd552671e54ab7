package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"tasktrack/internal/platform/tx"
)

const boltBucket = "storage"

// Bolt opens the database per operation so that a long-running watcher and
// short CLI invocations can share the file; bbolt holds an exclusive lock
// while open.
type Bolt struct {
	path    string
	timeout time.Duration
}

func NewBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	b := &Bolt{path: path, timeout: 2 * time.Second}
	if err := b.update(context.Background(), func(*bbolt.Tx) error { return nil }); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bolt) Get(ctx context.Context, key string, dst any) (bool, error) {
	var raw []byte
	err := b.view(ctx, func(btx *bbolt.Tx) error {
		bucket := btx.Bucket([]byte(boltBucket))
		if bucket == nil {
			return nil
		}
		if v := bucket.Get([]byte(key)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	return true, decode(key, raw, dst)
}

func (b *Bolt) Set(ctx context.Context, key string, value any) error {
	raw, err := encode(key, value)
	if err != nil {
		return err
	}
	return b.update(ctx, func(btx *bbolt.Tx) error {
		bucket, err := btx.CreateBucketIfNotExists([]byte(boltBucket))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		if err := bucket.Put([]byte(key), raw); err != nil {
			return fmt.Errorf("put %s: %w", key, err)
		}
		return nil
	})
}

func (b *Bolt) Delete(ctx context.Context, key string) error {
	return b.update(ctx, func(btx *bbolt.Tx) error {
		bucket := btx.Bucket([]byte(boltBucket))
		if bucket == nil {
			return nil
		}
		if err := bucket.Delete([]byte(key)); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
		return nil
	})
}

func (b *Bolt) Within(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := tx.Current[*bbolt.Tx](ctx); ok {
		return fn(ctx)
	}
	return b.update(ctx, func(btx *bbolt.Tx) error {
		return fn(tx.Attach(ctx, btx))
	})
}

func (b *Bolt) Close() error {
	return nil
}

func (b *Bolt) view(ctx context.Context, fn func(*bbolt.Tx) error) error {
	if btx, ok := tx.Current[*bbolt.Tx](ctx); ok {
		return fn(btx)
	}
	db, err := b.open()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return db.View(fn)
}

func (b *Bolt) update(ctx context.Context, fn func(*bbolt.Tx) error) error {
	if btx, ok := tx.Current[*bbolt.Tx](ctx); ok {
		return fn(btx)
	}
	db, err := b.open()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return db.Update(fn)
}

func (b *Bolt) open() (*bbolt.DB, error) {
	db, err := bbolt.Open(b.path, 0o600, &bbolt.Options{Timeout: b.timeout})
	if err != nil {
		return nil, fmt.Errorf("open bolt store %s: %w", b.path, err)
	}
	return db, nil
}
