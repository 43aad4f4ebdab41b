package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/spynter/hub360/common"
	"github.com/spynter/hub360/logging"
	"github.com/spynter/hub360/tour"
)

// DefaultFetchTimeout bounds a single panorama download.
const DefaultFetchTimeout = 30 * time.Second

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	client  *http.Client
	timeout time.Duration

	textureCache map[string]common.TextureStagingData

	prefetchPool    worker.DynamicWorkerPool
	prefetchWorkers int
	taskID          int
}

// Loader fetches panorama images over HTTP, decodes them to RGBA staging
// data and caches the result by URL. Decoded panoramas are large, so callers
// that know the tour graph should Prefetch the neighbors of the current
// scene and Evict what they leave behind.
type Loader interface {
	// Fetch returns the decoded panorama for the given URL, downloading it
	// if it is not cached.
	//
	// Parameters:
	//   - ctx: context bounding the download, layered under the fetch timeout
	//   - url: absolute image URL
	//
	// Returns:
	//   - common.TextureStagingData: the decoded RGBA pixels
	//   - error: a *tour.ResourceLoadError if the download or decode fails
	Fetch(ctx context.Context, url string) (common.TextureStagingData, error)

	// Prefetch warms the cache for the given URLs in the background. Failed
	// prefetches are logged and retried on the next Fetch.
	//
	// Parameters:
	//   - urls: absolute image URLs to warm
	Prefetch(urls []string)

	// Cached reports whether a decoded panorama is already in the cache.
	//
	// Parameters:
	//   - url: absolute image URL
	//
	// Returns:
	//   - bool: true when Fetch would return without a download
	Cached(url string) bool

	// Evict removes one entry from the cache.
	//
	// Parameters:
	//   - url: absolute image URL
	Evict(url string)

	// Clear empties the cache.
	Clear()
}

var _ Loader = &loader{}

// NewLoader creates a texture loader with the given options applied.
//
// Parameters:
//   - opts: optional loader settings
//
// Returns:
//   - Loader: the configured loader
func NewLoader(opts ...LoaderBuilderOption) Loader {
	l := &loader{
		client:          &http.Client{},
		timeout:         DefaultFetchTimeout,
		textureCache:    make(map[string]common.TextureStagingData),
		prefetchWorkers: max(runtime.NumCPU()/2, 1),
	}

	for _, opt := range opts {
		opt(l)
	}

	// Queue size of 32 covers the neighbor set of any realistic scene.
	l.prefetchPool = worker.NewDynamicWorkerPool(l.prefetchWorkers, 32, 5*time.Second)
	return l
}

func (l *loader) Fetch(ctx context.Context, url string) (common.TextureStagingData, error) {
	l.mu.RLock()
	cached, ok := l.textureCache[url]
	l.mu.RUnlock()
	if ok {
		return cached, nil
	}

	data, err := l.download(ctx, url)
	if err != nil {
		return common.TextureStagingData{}, err
	}

	l.mu.Lock()
	l.textureCache[url] = data
	l.mu.Unlock()
	return data, nil
}

func (l *loader) Prefetch(urls []string) {
	l.mu.Lock()
	pending := make([]string, 0, len(urls))
	for _, url := range urls {
		if url == "" {
			continue
		}
		if _, ok := l.textureCache[url]; ok {
			continue
		}
		pending = append(pending, url)
	}
	pool := l.prefetchPool
	l.mu.Unlock()

	for _, url := range pending {
		l.mu.Lock()
		id := l.taskID
		l.taskID++
		l.mu.Unlock()

		urlCap := url // capture for closure
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				if _, err := l.Fetch(context.Background(), urlCap); err != nil {
					logging.Warn().Err(err).Str("url", urlCap).Msg("panorama prefetch failed")
				}
				return nil, nil
			},
		})
	}
}

func (l *loader) Cached(url string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.textureCache[url]
	return ok
}

func (l *loader) Evict(url string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.textureCache, url)
}

func (l *loader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.textureCache = make(map[string]common.TextureStagingData)
}

func (l *loader) download(ctx context.Context, url string) (common.TextureStagingData, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return common.TextureStagingData{}, &tour.ResourceLoadError{URL: url, Err: err}
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return common.TextureStagingData{}, &tour.ResourceLoadError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return common.TextureStagingData{}, &tour.ResourceLoadError{
			URL: url,
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return common.TextureStagingData{}, &tour.ResourceLoadError{URL: url, Err: err}
	}

	data, err := common.DecodeRGBA(raw)
	if err != nil {
		return common.TextureStagingData{}, &tour.ResourceLoadError{URL: url, Err: err}
	}

	logging.Debug().
		Str("url", url).
		Uint32("width", data.Width).
		Uint32("height", data.Height).
		Msg("panorama decoded")
	return data, nil
}
