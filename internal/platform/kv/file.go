package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"tasktrack/internal/platform/tx"
)

type fileTx struct {
	doc   map[string]json.RawMessage
	dirty bool
}

// File keeps every key in one JSON document. Writes are serialised within
// the process and land atomically via rename.
type File struct {
	mu   sync.Mutex
	path string
}

func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &File{path: path}, nil
}

func (f *File) Get(ctx context.Context, key string, dst any) (bool, error) {
	var raw json.RawMessage
	err := f.apply(ctx, func(t *fileTx) error {
		raw = t.doc[key]
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

func (f *File) Set(ctx context.Context, key string, value any) error {
	raw, err := encode(key, value)
	if err != nil {
		return err
	}
	return f.apply(ctx, func(t *fileTx) error {
		t.doc[key] = raw
		t.dirty = true
		return nil
	})
}

func (f *File) Delete(ctx context.Context, key string) error {
	return f.apply(ctx, func(t *fileTx) error {
		if _, ok := t.doc[key]; ok {
			delete(t.doc, key)
			t.dirty = true
		}
		return nil
	})
}

func (f *File) Within(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := tx.Current[*fileTx](ctx); ok {
		return fn(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, err := f.load()
	if err != nil {
		return err
	}
	if err := fn(tx.Attach(ctx, t)); err != nil {
		return err
	}
	return f.flush(t)
}

func (f *File) Close() error {
	return nil
}

func (f *File) apply(ctx context.Context, fn func(*fileTx) error) error {
	if t, ok := tx.Current[*fileTx](ctx); ok {
		return fn(t)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, err := f.load()
	if err != nil {
		return err
	}
	if err := fn(t); err != nil {
		return err
	}
	return f.flush(t)
}

func (f *File) load() (*fileTx, error) {
	t := &fileTx{doc: map[string]json.RawMessage{}}
	payload, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}
	if len(payload) == 0 {
		return t, nil
	}
	if err := json.Unmarshal(payload, &t.doc); err != nil {
		return nil, fmt.Errorf("decode store %s: %w", f.path, err)
	}
	return t, nil
}

func (f *File) flush(t *fileTx) error {
	if !t.dirty {
		return nil
	}
	payload, err := json.MarshalIndent(t.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	t.dirty = false
	return nil
}
