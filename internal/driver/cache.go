package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"sysmlkit/internal/hir"
	"sysmlkit/internal/source"
)

// Increment when the payload format changes; stale entries then miss.
const cacheSchemaVersion uint16 = 1

// Cache stores extracted symbols per content digest on disk, so unchanged
// files skip scanning on the next run. Thread-safe.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema  uint16
	Path    string
	Symbols []hir.Symbol
}

// OpenCache initializes a disk cache at the standard user cache location.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// OpenCacheAt initializes a disk cache rooted at dir.
func OpenCacheAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key source.Digest) string {
	return filepath.Join(c.dir, "symbols", hex.EncodeToString(key[:])+".mp")
}

// PutSymbols writes one file's extracted symbols under its content digest.
// The write lands via a temp file plus rename so readers never observe a
// partial entry.
func (c *Cache) PutSymbols(key source.Digest, path string, symbols []hir.Symbol) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&cachePayload{
		Schema:  cacheSchemaVersion,
		Path:    path,
		Symbols: symbols,
	}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// GetSymbols reads a file's symbols by content digest. A missing entry or a
// schema mismatch is a plain miss, not an error.
func (c *Cache) GetSymbols(key source.Digest) ([]hir.Symbol, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return payload.Symbols, true, nil
}

// DropAll invalidates the whole cache.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
