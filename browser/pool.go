// Package browser provides browser automation functionality
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"intrinsicpe/metrics"
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("browser pool is closed")

// Options configures a Pool.
type Options struct {
	MinSize     int // browsers started eagerly on first use
	MaxSize     int
	Headless    bool
	UserAgent   string
	Timeout     time.Duration // per Fetch
	SettleDelay time.Duration // wait after navigation before reading the page
}

// Pool hands out browser sessions. Each session is a separate browser started
// from one shared allocator. Sessions must be released after use.
type Pool struct {
	opts Options
	log  *zap.Logger

	// launch starts a browser and reset returns it to a blank state. Both
	// are swapped out in tests.
	launch func(allocCtx context.Context) (context.Context, context.CancelFunc, error)
	reset  func(ctx context.Context) error

	// slots holds one token per live browser; idle holds the released ones.
	slots chan struct{}
	idle  chan *Session

	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc
	started     bool
	closed      bool
}

// Session is one browser checked out of a Pool.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
	pool   *Pool
}

// New creates a pool. No browser is started until the first Acquire.
func New(opts Options, log *zap.Logger) (*Pool, error) {
	if opts.MaxSize < 1 {
		return nil, fmt.Errorf("max size must be at least 1, got %d", opts.MaxSize)
	}
	if opts.MinSize < 0 || opts.MinSize > opts.MaxSize {
		return nil, fmt.Errorf("min size must be between 0 and %d, got %d", opts.MaxSize, opts.MinSize)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	p := &Pool{
		opts:  opts,
		log:   log,
		slots: make(chan struct{}, opts.MaxSize),
		idle:  make(chan *Session, opts.MaxSize),
	}
	p.launch = p.launchBrowser
	p.reset = resetBrowser
	return p, nil
}

// ensureStarted creates the allocator on first use and warms MinSize
// browsers. Browsers are launched without holding p.mu.
func (p *Pool) ensureStarted() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	if p.started {
		p.mu.Unlock()
		return nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", p.opts.Headless),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.WindowSize(1920, 1080),
	)
	if p.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(p.opts.UserAgent))
	}
	p.allocCtx, p.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	p.started = true
	p.mu.Unlock()

	for i := 0; i < p.opts.MinSize; i++ {
		select {
		case p.slots <- struct{}{}:
		default:
			// concurrent Acquires already filled the pool
			continue
		}
		s, err := p.newSession()
		if err != nil {
			p.log.Warn("failed to start browser", zap.Error(err))
			continue
		}
		p.put(s)
	}

	p.log.Info("browser pool started",
		zap.Int("browsers", len(p.slots)),
		zap.Int("min", p.opts.MinSize),
		zap.Int("max", p.opts.MaxSize))
	return nil
}

// launchBrowser starts one chromedp browser under allocCtx.
func (p *Pool) launchBrowser(allocCtx context.Context) (context.Context, context.CancelFunc, error) {
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(p.log.Sugar().Debugf))

	initCtx, initCancel := context.WithTimeout(ctx, 10*time.Second)
	defer initCancel()
	if err := chromedp.Run(initCtx, chromedp.Navigate("about:blank")); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to create new browser instance: %w", err)
	}
	return ctx, cancel, nil
}

func resetBrowser(ctx context.Context) error {
	refreshCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return chromedp.Run(refreshCtx,
		network.ClearBrowserCookies(),
		chromedp.Navigate("about:blank"),
	)
}

// newSession launches a browser for a slot the caller already holds. On
// failure the slot is given back.
func (p *Pool) newSession() (*Session, error) {
	p.mu.Lock()
	allocCtx := p.allocCtx
	p.mu.Unlock()

	ctx, cancel, err := p.launch(allocCtx)
	if err != nil {
		p.freeSlot()
		return nil, err
	}
	metrics.BrowserSessions.Set(float64(len(p.slots)))
	return &Session{ctx: ctx, cancel: cancel, pool: p}, nil
}

// put returns s to the idle set, or shuts it down when the pool is closed.
func (p *Pool) put(s *Session) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		s.cancel()
		p.freeSlot()
		return
	}
	// never blocks: idle sessions never outnumber slots
	p.idle <- s
}

func (p *Pool) freeSlot() {
	<-p.slots
	metrics.BrowserSessions.Set(float64(len(p.slots)))
}

// Acquire returns an idle session, starts a new one while below MaxSize, or
// waits until a session is released or discarded, or ctx is done.
func (p *Pool) Acquire(ctx context.Context) (*Session, error) {
	if err := p.ensureStarted(); err != nil {
		return nil, err
	}

	// Prefer a warm browser over launching a new one.
	select {
	case s, ok := <-p.idle:
		if !ok {
			return nil, ErrPoolClosed
		}
		return s, nil
	default:
	}

	select {
	case s, ok := <-p.idle:
		if !ok {
			return nil, ErrPoolClosed
		}
		return s, nil
	case p.slots <- struct{}{}:
		p.mu.Lock()
		closed := p.closed
		p.mu.Unlock()
		if closed {
			p.freeSlot()
			return nil, ErrPoolClosed
		}
		return p.newSession()
	case <-ctx.Done():
		return nil, fmt.Errorf("timeout getting browser context from pool: %w", ctx.Err())
	}
}

// Context is the chromedp context of the session.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Release clears cookies, navigates to a blank page and returns the session
// to its pool. A session that cannot be reset is shut down instead, which
// frees its slot for a waiting Acquire.
func (s *Session) Release() {
	p := s.pool
	if err := p.reset(s.ctx); err != nil {
		p.log.Warn("discarding browser that failed to reset", zap.Error(err))
		s.cancel()
		p.freeSlot()
		return
	}
	p.put(s)
}

// Fetch navigates a pooled browser to url and returns the rendered HTML.
func (p *Pool) Fetch(ctx context.Context, url string) (string, error) {
	s, err := p.Acquire(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get browser context: %w", err)
	}
	defer s.Release()

	timeoutCtx, cancel := context.WithTimeout(s.Context(), p.opts.Timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var htmlContent string
	err = chromedp.Run(timeoutCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(p.opts.SettleDelay),
		chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL content: %w", err)
	}

	return htmlContent, nil
}

// Close shuts down every idle browser and the allocator. Sessions still
// checked out are shut down when released. Waiting Acquires return
// ErrPoolClosed.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true

drain:
	for {
		select {
		case s := <-p.idle:
			s.cancel()
			p.freeSlot()
		default:
			break drain
		}
	}
	close(p.idle)

	if p.allocCancel != nil {
		p.allocCancel()
	}
	p.log.Info("browser pool shut down")
}
