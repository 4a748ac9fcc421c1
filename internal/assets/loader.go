package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/roomview/internal/logger"
)

func log() *zap.Logger {
	return logger.Named("assets")
}

// Loader decodes scene files on background goroutines and reports progress
// to a shared Tracker. Requests are cached by locator until invalidated.
type Loader struct {
	tracker *Tracker
	cache   *Cache
}

// NewLoader creates a loader reporting to tracker. A nil tracker gets a
// private one.
func NewLoader(tracker *Tracker) *Loader {
	if tracker == nil {
		tracker = NewTracker()
	}
	return &Loader{tracker: tracker, cache: NewCache()}
}

// Tracker returns the progress tracker.
func (l *Loader) Tracker() *Tracker {
	return l.tracker
}

// Cache returns the request cache.
func (l *Loader) Cache() *Cache {
	return l.cache
}

// Invalidate drops the cached request for locator so the next request
// decodes the file again.
func (l *Loader) Invalidate(locator string) {
	l.cache.Delete(locator)
}

// Load decodes locator synchronously, bypassing the cache.
func (l *Loader) Load(ctx context.Context, locator string) (*SceneAsset, error) {
	l.tracker.Begin(locator)
	start := time.Now()

	asset, err := l.load(ctx, locator)
	l.tracker.Done(locator, err)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", locator, err)
	}

	verts, tris := asset.Stats()
	log().Info("asset loaded",
		zap.String("locator", locator),
		zap.Int("meshes", len(asset.Meshes)),
		zap.Int("vertices", verts),
		zap.Int("triangles", tris),
		zap.Strings("clips", asset.ClipNames()),
		zap.Duration("elapsed", time.Since(start)))
	return asset, nil
}

func (l *Loader) load(ctx context.Context, locator string) (*SceneAsset, error) {
	ext := strings.ToLower(filepath.Ext(locator))
	if ext != ".glb" && ext != ".gltf" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	data, err := l.read(ctx, locator, func(f float32) { l.tracker.Report(locator, 0.4*f) })
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := parse(locator, ext, data)
	if err != nil {
		return nil, err
	}
	l.tracker.Report(locator, 0.5)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := newDecoder(doc, filepath.Dir(locator))
	return d.build(ctx, locator, func(f float32) { l.tracker.Report(locator, 0.5+0.5*f) })
}

func parse(locator, ext string, data []byte) (*gltf.Document, error) {
	if ext == ".gltf" {
		// Text documents may reference sibling .bin and image files.
		doc, err := gltf.Open(locator)
		if err != nil {
			return nil, fmt.Errorf("decoding gltf: %w", err)
		}
		return doc, nil
	}
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding glb: %w", err)
	}
	return doc, nil
}

// read loads the whole file, reporting the fraction of bytes read.
func (l *Loader) read(ctx context.Context, path string, progress func(float32)) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()

	buf := bytes.NewBuffer(make([]byte, 0, size))
	chunk := make([]byte, 256*1024)
	var read int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := f.Read(chunk)
		buf.Write(chunk[:n])
		read += int64(n)
		if size > 0 {
			progress(float32(read) / float32(size))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	progress(1)
	return buf.Bytes(), nil
}

// Batch starts loads that belong together. The first failure cancels the
// context passed to its siblings. A batch is not reusable after Wait.
type Batch struct {
	loader *Loader
	group  *errgroup.Group
	ctx    context.Context
}

// Batch creates a batch bound to ctx.
func (l *Loader) Batch(ctx context.Context) *Batch {
	g, gctx := errgroup.WithContext(ctx)
	return &Batch{loader: l, group: g, ctx: gctx}
}

// Request returns the pending load for locator, starting it if it is not
// cached yet.
func (b *Batch) Request(locator string) *Request {
	req, created := b.loader.cache.getOrCreate(locator)
	if !created {
		return req
	}
	b.loader.tracker.Begin(locator)
	b.group.Go(func() error {
		asset, err := b.loader.Load(b.ctx, locator)
		req.resolve(asset, err)
		if err != nil {
			// A failed request must not satisfy later requests.
			b.loader.cache.deleteIf(locator, req)
		}
		return err
	})
	return req
}

// Wait blocks until every request in the batch resolves and returns the
// first error.
func (b *Batch) Wait() error {
	return b.group.Wait()
}

// Request is a load that resolves exactly once.
type Request struct {
	Locator string

	done  chan struct{}
	asset *SceneAsset
	err   error
}

func newRequest(locator string) *Request {
	return &Request{Locator: locator, done: make(chan struct{})}
}

func (r *Request) resolve(asset *SceneAsset, err error) {
	r.asset, r.err = asset, err
	close(r.done)
}

// Done is closed when the request resolves.
func (r *Request) Done() <-chan struct{} {
	return r.done
}

// Ready reports whether the request has resolved, without blocking.
func (r *Request) Ready() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Result returns the resolved asset. It must only be called once Ready.
func (r *Request) Result() (*SceneAsset, error) {
	if !r.Ready() {
		return nil, fmt.Errorf("request for %s still pending", r.Locator)
	}
	return r.asset, r.err
}

// Wait blocks until the request resolves or ctx is done.
func (r *Request) Wait(ctx context.Context) (*SceneAsset, error) {
	select {
	case <-r.done:
		return r.asset, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cache holds requests keyed by locator.
type Cache struct {
	data map[string]*Request
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{data: make(map[string]*Request)}
}

// Get returns the cached request for locator.
func (c *Cache) Get(locator string) (*Request, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.data[locator]
	return r, ok
}

func (c *Cache) getOrCreate(locator string) (*Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.data[locator]; ok {
		c.hits++
		return r, false
	}
	c.misses++
	r := newRequest(locator)
	c.data[locator] = r
	return r, true
}

// Delete removes locator from the cache.
func (c *Cache) Delete(locator string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, locator)
}

func (c *Cache) deleteIf(locator string, r *Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data[locator] == r {
		delete(c.data, locator)
	}
}

// Clear empties the cache and resets stats.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*Request)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
