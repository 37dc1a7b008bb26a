package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/ftcscope/internal/adapters/cache"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// countingFetcher returns body and counts calls.
type countingFetcher struct {
	calls atomic.Int64
	body  []byte
	err   error
	delay time.Duration
}

func (f *countingFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

// gatedFetcher blocks every fetch until release is closed or the fetch
// context ends.
type gatedFetcher struct {
	calls   atomic.Int64
	started chan struct{}
	release chan struct{}
	once    sync.Once
	body    []byte
}

func newGatedFetcher(body string) *gatedFetcher {
	return &gatedFetcher{started: make(chan struct{}), release: make(chan struct{}), body: []byte(body)}
}

func (f *gatedFetcher) Fetch(ctx context.Context, _ string) ([]byte, error) {
	f.calls.Add(1)
	f.once.Do(func() { close(f.started) })
	select {
	case <-f.release:
		return f.body, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestCache_Get(t *testing.T) {
	Convey("Given a cache with a fake clock", t, func() {
		ctx := context.Background()
		clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		fetcher := &countingFetcher{body: []byte(`{"number":12345}`)}
		c := cache.New(fetcher, cache.WithClock(clock.Now))
		url := "https://example.test/teams/12345"

		Convey("When getting the same URL twice within the TTL", func() {
			first, err1 := c.Get(ctx, url, time.Minute)
			clock.Advance(30 * time.Second)
			second, err2 := c.Get(ctx, url, time.Minute)

			Convey("Then exactly one network request is made", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(fetcher.calls.Load(), ShouldEqual, 1)
				So(string(first), ShouldEqual, `{"number":12345}`)
				So(string(second), ShouldEqual, string(first))
			})
		})

		Convey("When the entry is older than the TTL", func() {
			_, _ = c.Get(ctx, url, time.Minute)
			clock.Advance(time.Minute)
			fetcher.body = []byte(`{"number":54321}`)
			data, err := c.Get(ctx, url, time.Minute)

			Convey("Then it refetches and replaces the entry", func() {
				So(err, ShouldBeNil)
				So(fetcher.calls.Load(), ShouldEqual, 2)
				So(string(data), ShouldEqual, `{"number":54321}`)
				So(c.Len(), ShouldEqual, 1)
			})
		})

		Convey("When a shorter TTL is passed for an existing entry", func() {
			_, _ = c.Get(ctx, url, time.Hour)
			clock.Advance(10 * time.Second)
			_, err := c.Get(ctx, url, 5*time.Second)

			Convey("Then staleness is judged against the caller's TTL", func() {
				So(err, ShouldBeNil)
				So(fetcher.calls.Load(), ShouldEqual, 2)
			})
		})

		Convey("When different URLs are requested", func() {
			_, _ = c.Get(ctx, url, time.Minute)
			_, _ = c.Get(ctx, url+"/events/2024", time.Minute)

			Convey("Then each URL has its own entry", func() {
				So(fetcher.calls.Load(), ShouldEqual, 2)
				So(c.Len(), ShouldEqual, 2)
			})
		})

		Convey("When the ttl is not positive", func() {
			_, _ = c.Get(ctx, url, 0)
			clock.Advance(cache.DefaultTTL - time.Second)
			_, _ = c.Get(ctx, url, 0)

			Convey("Then the default TTL applies", func() {
				So(fetcher.calls.Load(), ShouldEqual, 1)
			})
		})

		Convey("When cleared", func() {
			_, _ = c.Get(ctx, url, time.Minute)
			c.Clear()
			_, _ = c.Get(ctx, url, time.Minute)

			Convey("Then the next get goes to the network", func() {
				So(fetcher.calls.Load(), ShouldEqual, 2)
			})
		})
	})
}

func TestCache_Failures(t *testing.T) {
	Convey("Given a cache whose fetcher fails", t, func() {
		ctx := context.Background()
		boom := errors.New("connection refused")
		fetcher := &countingFetcher{err: boom}
		c := cache.New(fetcher)

		Convey("When getting a URL", func() {
			data, err := c.Get(ctx, "https://example.test/x", time.Minute)

			Convey("Then the error propagates and nothing is cached", func() {
				So(data, ShouldBeNil)
				So(errors.Is(err, boom), ShouldBeTrue)
				So(c.Len(), ShouldEqual, 0)
			})

			Convey("And a retry goes back to the network", func() {
				_, _ = c.Get(ctx, "https://example.test/x", time.Minute)
				So(fetcher.calls.Load(), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a cache whose fetcher returns malformed JSON", t, func() {
		fetcher := &countingFetcher{body: []byte(`<html>oops`)}
		c := cache.New(fetcher)

		Convey("When getting a URL", func() {
			_, err := c.Get(context.Background(), "https://example.test/x", time.Minute)

			Convey("Then a malformed error is returned and nothing is cached", func() {
				So(errors.Is(err, cache.ErrMalformed), ShouldBeTrue)
				So(c.Len(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a cache without a fetcher", t, func() {
		c := cache.New(nil)

		Convey("Then a miss reports the missing fetcher", func() {
			_, err := c.Get(context.Background(), "https://example.test/x", time.Minute)
			So(errors.Is(err, cache.ErrNoFetcher), ShouldBeTrue)
		})
	})
}

func TestCache_ConcurrentMisses(t *testing.T) {
	Convey("Given many goroutines missing on the same URL", t, func() {
		fetcher := &countingFetcher{body: []byte(`[]`), delay: 20 * time.Millisecond}
		c := cache.New(fetcher)

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = c.Get(context.Background(), "https://example.test/events", time.Minute)
			}()
		}
		wg.Wait()

		Convey("Then they share one upstream request", func() {
			So(fetcher.calls.Load(), ShouldEqual, 1)
			So(c.Len(), ShouldEqual, 1)
		})
	})
}

func TestCache_CallerCancellation(t *testing.T) {
	Convey("Given two callers sharing an in-flight fetch", t, func() {
		const url = "https://example.test/teams/12345"
		fetcher := newGatedFetcher(`{"number":12345}`)
		c := cache.New(fetcher)

		ctxA, cancelA := context.WithCancel(context.Background())
		errA := make(chan error, 1)
		go func() {
			_, err := c.Get(ctxA, url, time.Minute)
			errA <- err
		}()
		<-fetcher.started

		type result struct {
			data []byte
			err  error
		}
		resB := make(chan result, 1)
		go func() {
			data, err := c.Get(context.Background(), url, time.Minute)
			resB <- result{data: data, err: err}
		}()

		Convey("When the first caller cancels", func() {
			cancelA()
			So(<-errA, ShouldEqual, context.Canceled)

			close(fetcher.release)
			b := <-resB

			Convey("Then the second caller still gets the data", func() {
				So(b.err, ShouldBeNil)
				So(string(b.data), ShouldEqual, `{"number":12345}`)
				So(fetcher.calls.Load(), ShouldEqual, 1)
				So(c.Len(), ShouldEqual, 1)
			})
		})
	})
}

func TestCache_CallerDeadline(t *testing.T) {
	Convey("Given a fetch that outlives the caller's deadline", t, func() {
		fetcher := newGatedFetcher(`[]`)
		c := cache.New(fetcher)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := c.Get(ctx, "https://example.test/events", time.Minute)
		close(fetcher.release)

		Convey("Then the caller returns its own context error", func() {
			So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
		})
	})
}
