package shadercache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gogpu/beans/ir"
)

// Current schema version - increment when diskEntry changes.
const diskSchemaVersion uint16 = 1

// Key identifies a compiled binary by the source and limits it was
// compiled with.
type Key [sha256.Size]byte

// String returns the key in hex.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// KeyFor hashes source together with the limits that bound its compile,
// since a tighter limit can turn a successful compile into a failure.
func KeyFor(source []byte, limits ir.Limits) Key {
	h := sha256.New()
	l := limits.WithDefaults()
	fmt.Fprintf(h, "beans/%d/%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d\n", diskSchemaVersion,
		l.Types, l.Procedures, l.EntryPoints, l.Globals, l.Locals, l.Expressions,
		l.Constants, l.Interfaces, l.Words, l.ScopeDepth, l.RecordMembers, l.VectorElements)
	h.Write(source)
	var k Key
	h.Sum(k[:0])
	return k
}

// DiskCache stores compiled SPIR-V on disk between runs.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type diskEntry struct {
	Schema uint16
	Code   []byte
}

// OpenDiskCache opens a disk cache rooted at dir, creating it if needed.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string {
	return c.dir
}

func (c *DiskCache) pathFor(key Key) string {
	return filepath.Join(c.dir, "spv", key.String()+".mp")
}

// Put writes code under key. The file is replaced atomically.
func (c *DiskCache) Put(key Key, code []byte) error {
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
	tmp := f.Name()

	if err := msgpack.NewEncoder(f).Encode(&diskEntry{Schema: diskSchemaVersion, Code: code}); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Get returns the code stored under key. Entries written by another
// schema version are reported as missing.
func (c *DiskCache) Get(key Key) ([]byte, bool, error) {
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

	var entry diskEntry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return nil, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if entry.Schema != diskSchemaVersion {
		return nil, false, nil
	}
	return entry.Code, true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "spv"))
}
