package shadercache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/beans"
	"github.com/gogpu/beans/bsl"
)

// Handle is a driver shader module created by a Device.
type Handle uint64

// Device creates and destroys driver shader modules.
type Device interface {
	CreateShaderModule(code []byte) (Handle, error)
	DestroyShaderModule(h Handle)
}

// Module is a compiled shader and its driver object.
type Module struct {
	Path   string
	Code   []byte
	Handle Handle
}

// Cache maps shader source paths to driver modules, compiling each path
// once. Safe for concurrent use.
type Cache struct {
	device Device
	opts   beans.Options
	disk   *DiskCache
	log    *slog.Logger
	jobs   int

	mu      sync.Mutex
	modules map[string]*Module
}

// Option configures a Cache.
type Option func(*Cache)

// WithOptions sets the compile options used for every shader.
func WithOptions(opts beans.Options) Option {
	return func(c *Cache) { c.opts = opts }
}

// WithDiskCache persists compiled binaries in disk.
func WithDiskCache(disk *DiskCache) Option {
	return func(c *Cache) { c.disk = disk }
}

// WithLogger sets the logger that receives load and compile failures.
func WithLogger(log *slog.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// WithJobs bounds the number of shaders LoadAll compiles at once.
func WithJobs(n int) Option {
	return func(c *Cache) { c.jobs = n }
}

// New creates an empty cache on device.
func New(device Device, opts ...Option) *Cache {
	c := &Cache{
		device:  device,
		opts:    beans.DefaultOptions(),
		log:     slog.Default(),
		modules: make(map[string]*Module),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.jobs <= 0 {
		c.jobs = runtime.GOMAXPROCS(0)
	}
	return c
}

// key normalizes path so that equivalent spellings share one entry.
func key(path string) string {
	return norm.NFC.String(filepath.Clean(path))
}

// Load returns the module for path, compiling it on first use.
func (c *Cache) Load(path string) (Module, error) {
	k := key(path)

	c.mu.Lock()
	if m, ok := c.modules[k]; ok {
		c.mu.Unlock()
		return *m, nil
	}
	c.mu.Unlock()

	code, handle, err := c.build(path)
	if err != nil {
		return Module{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.modules[k]; ok {
		// Another goroutine loaded the same path first.
		c.device.DestroyShaderModule(handle)
		return *m, nil
	}
	m := &Module{Path: path, Code: code, Handle: handle}
	c.modules[k] = m
	c.log.Debug("shader loaded", "path", path, "bytes", len(code))
	return *m, nil
}

// Lookup returns the module for path if it has been loaded.
func (c *Cache) Lookup(path string) (Module, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.modules[key(path)]
	if !ok {
		return Module{}, false
	}
	return *m, true
}

// Reload recompiles a loaded shader and replaces its driver module.
// On failure the previous module stays in place.
func (c *Cache) Reload(path string) error {
	k := key(path)
	c.mu.Lock()
	_, ok := c.modules[k]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("shader %q is not loaded", path)
	}

	code, handle, err := c.build(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.modules[k]
	if !ok {
		c.device.DestroyShaderModule(handle)
		return fmt.Errorf("shader %q was closed during reload", path)
	}
	c.device.DestroyShaderModule(m.Handle)
	m.Code = code
	m.Handle = handle
	c.log.Info("shader reloaded", "path", path)
	return nil
}

// LoadAll loads every path in parallel. It returns the first failure;
// paths that compiled stay loaded.
func (c *Cache) LoadAll(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(c.jobs, len(paths)))
	for _, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			_, err := c.Load(path)
			return err
		})
	}
	return g.Wait()
}

// Len returns the number of loaded shaders.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.modules)
}

// Close destroys every driver module and empties the cache.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, m := range c.modules {
		c.device.DestroyShaderModule(m.Handle)
		delete(c.modules, k)
	}
}

// build compiles path and creates its driver module.
func (c *Cache) build(path string) ([]byte, Handle, error) {
	code, err := c.compile(path)
	if err != nil {
		return nil, 0, err
	}
	handle, err := c.device.CreateShaderModule(code)
	if err != nil {
		c.log.Error("failed to create shader module", "path", path, "error", err)
		return nil, 0, fmt.Errorf("create shader module for %s: %w", path, err)
	}
	return code, handle, nil
}

func (c *Cache) compile(path string) ([]byte, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		c.log.Error("failed to open shader file", "path", path, "error", err)
		return nil, err
	}

	var k Key
	if c.disk != nil {
		k = KeyFor(source, c.opts.Limits)
		code, ok, err := c.disk.Get(k)
		if err != nil {
			c.log.Warn("disk cache read failed", "path", path, "error", err)
		}
		if ok {
			return code, nil
		}
	}

	code, err := beans.Compile(source, c.opts)
	if err != nil {
		var se *bsl.SourceError
		if errors.As(err, &se) {
			c.log.Error("failed to compile shader file",
				"path", path, "line", se.Pos.Line, "column", se.Pos.Column, "error", se.Message)
		} else {
			c.log.Error("failed to compile shader file", "path", path, "error", err)
		}
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}

	if c.disk != nil {
		if err := c.disk.Put(k, code); err != nil {
			c.log.Warn("disk cache write failed", "path", path, "error", err)
		}
	}
	return code, nil
}
