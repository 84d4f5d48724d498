package lazyload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"
)

// Default retry configuration values.
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 1000 * time.Millisecond

	fetchTimeout = 30 * time.Second
)

// FetchHandlers receives the outcome of one logical load operation. All
// handlers are invoked on the dispatch loop.
type FetchHandlers struct {
	// OnProgress reports cumulative transfer progress as a percent in
	// [0, 100]. It is reset to 0 at the start of each attempt, never
	// decreases within an attempt, and is forced to 100 on success. When
	// the total size is unknown no intermediate progress is reported.
	OnProgress func(percent int)
	// OnSuccess delivers the fetched bytes. On a cache hit the bytes come
	// from the store, or are nil when no store is configured.
	OnSuccess func(data []byte)
	// OnError fires once, after all retries are exhausted.
	OnError func(err error)
}

func (h *FetchHandlers) setDefault() {
	if h.OnProgress == nil {
		h.OnProgress = func(int) {}
	}
	if h.OnSuccess == nil {
		h.OnSuccess = func([]byte) {}
	}
	if h.OnError == nil {
		h.OnError = func(error) {}
	}
}

// Store persists fetched asset bytes keyed by resource identifier.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(id string) ([]byte, bool)
	Put(id string, data []byte) error
}

// FetcherOptions configures retry behavior and the HTTP client.
type FetcherOptions struct {
	MaxRetries int           // attempts after the first failure; <0 means none
	BaseDelay  time.Duration // delay before the first retry
	Client     *http.Client
}

// Fetcher performs asset fetches with exponential-backoff retries. Failures
// of individual attempts are recovered locally; only retry exhaustion is
// reported to the caller, through the error handler rather than a fault.
type Fetcher struct {
	loop   *Loop
	cache  *LoadCache
	store  Store // optional
	client *http.Client
	logger *slog.Logger

	maxRetries int
	baseDelay  time.Duration
}

// NewFetcher creates a fetcher sharing cache across all its fetches.
// store may be nil when fetched bytes should not be persisted.
func NewFetcher(loop *Loop, cache *LoadCache, store Store, opts FetcherOptions, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = DefaultMaxRetries
	} else if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: fetchTimeout}
	}
	return &Fetcher{
		loop:       loop,
		cache:      cache,
		store:      store,
		client:     opts.Client,
		logger:     logger,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
	}
}

// Fetch is one logical load operation. It may issue several sequential
// network attempts; attempts never run concurrently for the same fetch.
type Fetch struct {
	f        *Fetcher
	id       string
	handlers FetchHandlers

	// Loop-confined state.
	attempts int // failures so far; reset only by starting a new Fetch
	gen      int // current attempt generation, guards stale callbacks
	lastPct  int
	canceled bool
	timer    *Timer
	cancelFn context.CancelFunc
}

// Start begins one logical load operation for id. If the cache already has
// id the success handler is invoked without any network call, with progress
// forced to 100. The returned Fetch can be cancelled at any point.
func (f *Fetcher) Start(id string, h FetchHandlers) *Fetch {
	h.setDefault()
	fetch := &Fetch{f: f, id: id, handlers: h}
	f.loop.Post(fetch.begin)
	return fetch
}

// Cancel abandons the fetch: any pending retry timer is stopped, the
// in-flight request is cancelled, and no further handler is invoked.
func (fe *Fetch) Cancel() {
	fe.f.loop.Post(func() {
		fe.canceled = true
		fe.gen++
		if fe.timer != nil {
			fe.timer.Stop()
			fe.timer = nil
		}
		if fe.cancelFn != nil {
			fe.cancelFn()
			fe.cancelFn = nil
		}
	})
}

func (fe *Fetch) begin() {
	if fe.canceled {
		return
	}
	if fe.f.cache.Has(fe.id) {
		var data []byte
		if fe.f.store != nil {
			data, _ = fe.f.store.Get(fe.id)
		}
		fe.f.logger.Debug("load cache hit", "id", fe.id)
		fe.handlers.OnProgress(100)
		fe.handlers.OnSuccess(data)
		return
	}
	fe.attempt()
}

// attempt issues one network attempt. Runs on the loop; the transfer itself
// happens on its own goroutine and posts progress and completion back.
func (fe *Fetch) attempt() {
	if fe.canceled {
		return
	}
	fe.timer = nil
	fe.gen++
	gen := fe.gen
	fe.lastPct = -1
	fe.reportProgress(gen, 0)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	fe.cancelFn = cancel

	go func() {
		data, err := fe.f.do(ctx, fe.id, func(pct int) {
			fe.f.loop.Post(func() { fe.reportProgress(gen, pct) })
		})
		cancel()
		fe.f.loop.Post(func() { fe.complete(gen, data, err) })
	}()
}

// reportProgress forwards pct when it belongs to the current attempt and
// does not move backwards.
func (fe *Fetch) reportProgress(gen, pct int) {
	if fe.canceled || gen != fe.gen || pct <= fe.lastPct {
		return
	}
	fe.lastPct = pct
	fe.handlers.OnProgress(pct)
}

func (fe *Fetch) complete(gen int, data []byte, err error) {
	if fe.canceled || gen != fe.gen {
		return
	}
	fe.cancelFn = nil

	if err == nil {
		if fe.f.store != nil {
			if perr := fe.f.store.Put(fe.id, data); perr != nil {
				fe.f.logger.Warn("failed to persist asset", "id", fe.id, "error", perr)
			}
		}
		fe.f.cache.MarkLoaded(fe.id)
		fe.reportProgress(gen, 100)
		fe.handlers.OnSuccess(data)
		return
	}

	if fe.attempts < fe.f.maxRetries {
		// Exponential backoff: baseDelay * 2^attempts, attempts zero-indexed
		// at the first retry.
		delay := fe.f.baseDelay * (1 << fe.attempts)
		fe.attempts++
		fe.f.logger.Debug("scheduling retry", "id", fe.id, "attempt", fe.attempts, "delay", delay, "error", err)
		fe.timer = fe.f.loop.After(delay, fe.attempt)
		return
	}

	fe.f.logger.Error("fetch failed after retries", "id", fe.id, "attempts", fe.attempts, "error", err)
	fe.handlers.OnError(err)
}

// do performs a single HTTP transfer, reporting cumulative progress while
// bytes arrive. Progress is skipped entirely when the total size is unknown,
// rather than fabricating values.
func (f *Fetcher) do(ctx context.Context, url string, onProgress func(pct int)) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	total := resp.ContentLength
	var body io.Reader = resp.Body
	if total > 0 {
		body = &progressReader{r: resp.Body, total: total, report: onProgress}
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return data, nil
}

// progressReader counts bytes and reports round(loaded/total*100).
type progressReader struct {
	r      io.Reader
	total  int64
	loaded int64
	report func(pct int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.loaded += int64(n)
		p.report(int(math.Round(float64(p.loaded) / float64(p.total) * 100)))
	}
	return n, err
}
