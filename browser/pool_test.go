package browser

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"zero max", Options{MinSize: 0, MaxSize: 0}, true},
		{"negative min", Options{MinSize: -1, MaxSize: 2}, true},
		{"min above max", Options{MinSize: 3, MaxSize: 2}, true},
		{"lazy pool", Options{MinSize: 0, MaxSize: 1}, false},
		{"warm pool", Options{MinSize: 2, MaxSize: 4}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.opts, zap.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.opts.MaxSize, cap(p.idle))
		})
	}
}

func TestNew_DefaultTimeout(t *testing.T) {
	p, err := New(Options{MaxSize: 1}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, p.opts.Timeout)
}

func TestClose_BeforeStart(t *testing.T) {
	p, err := New(Options{MinSize: 1, MaxSize: 2}, zap.NewNop())
	require.NoError(t, err)

	p.Close()
	p.Close()

	assert.False(t, p.started)
	_, err = p.Acquire(context.Background())
	assert.True(t, errors.Is(err, ErrPoolClosed))

	_, err = p.Fetch(context.Background(), "about:blank")
	assert.ErrorIs(t, err, ErrPoolClosed)
}

// fakeBrowsers replaces browser launch and reset with in-memory contexts.
type fakeBrowsers struct {
	mu        sync.Mutex
	launched  int
	launchErr error
	resetErr  error
}

func (f *fakeBrowsers) install(p *Pool) {
	p.launch = func(context.Context) (context.Context, context.CancelFunc, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.launchErr != nil {
			return nil, nil, f.launchErr
		}
		f.launched++
		ctx, cancel := context.WithCancel(context.Background())
		return ctx, cancel, nil
	}
	p.reset = func(ctx context.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return f.resetErr
	}
}

func (f *fakeBrowsers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.launched
}

func (f *fakeBrowsers) set(launchErr, resetErr error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.launchErr = launchErr
	f.resetErr = resetErr
}

func newFakePool(t *testing.T, minSize, maxSize int) (*Pool, *fakeBrowsers) {
	t.Helper()
	p, err := New(Options{MinSize: minSize, MaxSize: maxSize}, zaptest.NewLogger(t))
	require.NoError(t, err)
	f := &fakeBrowsers{}
	f.install(p)
	t.Cleanup(p.Close)
	return p, f
}

// acquireAsync runs Acquire in the background and delivers its outcome.
func acquireAsync(ctx context.Context, p *Pool) (<-chan *Session, <-chan error) {
	sessions := make(chan *Session, 1)
	errs := make(chan error, 1)
	go func() {
		s, err := p.Acquire(ctx)
		if err != nil {
			errs <- err
			return
		}
		sessions <- s
	}()
	return sessions, errs
}

func TestAcquire_ReusesReleasedSession(t *testing.T) {
	p, f := newFakePool(t, 0, 1)

	first, err := p.Acquire(context.Background())
	require.NoError(t, err)
	first.Release()

	second, err := p.Acquire(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, f.count())
	assert.Len(t, p.slots, 1)
}

func TestAcquire_WarmsMinSize(t *testing.T) {
	p, f := newFakePool(t, 2, 4)

	s, err := p.Acquire(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, f.count())
	assert.Len(t, p.idle, 1)
	s.Release()
	assert.Len(t, p.idle, 2)
}

func TestAcquire_GrowsUpToMaxSize(t *testing.T) {
	p, f := newFakePool(t, 0, 2)
	ctx := context.Background()

	a, err := p.Acquire(ctx)
	require.NoError(t, err)
	b, err := p.Acquire(ctx)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, f.count())

	timeoutCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = p.Acquire(timeoutCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, f.count())
}

func TestAcquire_WaiterGetsReleasedSession(t *testing.T) {
	p, _ := newFakePool(t, 0, 1)

	held, err := p.Acquire(context.Background())
	require.NoError(t, err)

	sessions, errs := acquireAsync(context.Background(), p)
	held.Release()

	select {
	case s := <-sessions:
		assert.Same(t, held, s)
	case err := <-errs:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("waiter was not woken by Release")
	}
}

func TestAcquire_WaiterWokenWhenSessionDiscarded(t *testing.T) {
	p, f := newFakePool(t, 0, 1)

	held, err := p.Acquire(context.Background())
	require.NoError(t, err)

	sessions, errs := acquireAsync(context.Background(), p)
	f.set(nil, errors.New("reset failed"))
	held.Release()

	select {
	case s := <-sessions:
		assert.NotSame(t, held, s)
		assert.Error(t, held.Context().Err())
		assert.NoError(t, s.Context().Err())
	case err := <-errs:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("waiter was not woken after the session was discarded")
	}
	assert.Equal(t, 2, f.count())
	assert.Len(t, p.slots, 1)
}

func TestAcquire_LaunchFailureFreesSlot(t *testing.T) {
	p, f := newFakePool(t, 0, 1)

	f.set(errors.New("no chrome"), nil)
	_, err := p.Acquire(context.Background())
	assert.EqualError(t, err, "no chrome")
	assert.Len(t, p.slots, 0)

	f.set(nil, nil)
	s, err := p.Acquire(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestClose_WakesWaiter(t *testing.T) {
	p, _ := newFakePool(t, 0, 1)

	_, err := p.Acquire(context.Background())
	require.NoError(t, err)

	_, errs := acquireAsync(context.Background(), p)
	p.Close()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrPoolClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("waiter was not woken by Close")
	}
}

func TestRelease_AfterClose(t *testing.T) {
	p, _ := newFakePool(t, 0, 2)

	idle, err := p.Acquire(context.Background())
	require.NoError(t, err)
	held, err := p.Acquire(context.Background())
	require.NoError(t, err)
	idle.Release()

	p.Close()
	assert.Error(t, idle.Context().Err())
	assert.NoError(t, held.Context().Err())

	held.Release()
	assert.Error(t, held.Context().Err())
	assert.Len(t, p.slots, 0)
}
