package redissink

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vnykmshr/livetime/internal/testutil"
	gferrors "github.com/vnykmshr/livetime/pkg/common/errors"
)

type published struct {
	channel string
	payload []byte
}

type fakeClient struct {
	mu       sync.Mutex
	sent     []published
	err      error
	deadline bool

	// block, when set, holds every Publish until it is closed.
	block chan struct{}
}

func (f *fakeClient) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.sent = append(f.sent, published{channel: channel, payload: message.([]byte)})
	return redis.NewIntResult(1, nil)
}

func (f *fakeClient) messages() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.sent...)
}

func newTestPublisher(t *testing.T, cfg Config) *Publisher {
	t.Helper()
	if cfg.Session == "" {
		cfg.Session = "abc"
	}
	p, err := New(cfg)
	testutil.AssertNoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Session: "s"}); !gferrors.IsValidationError(err) {
		t.Errorf("missing client: error = %v, want ValidationError", err)
	}
	if _, err := New(Config{Client: &fakeClient{}}); !gferrors.IsValidationError(err) {
		t.Errorf("missing session: error = %v, want ValidationError", err)
	}
}

func TestPublisher_Channels(t *testing.T) {
	p := newTestPublisher(t, Config{Client: &fakeClient{}})
	testutil.AssertEqual(t, p.Channel("clock"), "livetime:abc:clock")
	testutil.AssertEqual(t, p.Pattern(), "livetime:abc:*")

	p = newTestPublisher(t, Config{Client: &fakeClient{}, Prefix: "dash"})
	testutil.AssertEqual(t, p.Channel("clock"), "dash:abc:clock")
}

func TestPublisher_Callback(t *testing.T) {
	fc := &fakeClient{}
	at := time.Date(2024, 3, 15, 12, 0, 1, 0, time.UTC)
	p := newTestPublisher(t, Config{Client: fc, Clock: testutil.NewMockClock(at)})

	testutil.AssertNoError(t, p.Callback("deadline").OnUpdate("00:04:59"))
	testutil.AssertNoError(t, p.Close())

	sent := fc.messages()
	testutil.AssertEqual(t, len(sent), 1)
	testutil.AssertEqual(t, sent[0].channel, "livetime:abc:deadline")
	if !fc.deadline {
		t.Error("publish should carry a timeout")
	}

	var msg Message
	testutil.AssertNoError(t, json.Unmarshal(sent[0].payload, &msg))
	testutil.AssertEqual(t, msg.Widget, "deadline")
	testutil.AssertEqual(t, msg.Value, "00:04:59")
	testutil.AssertEqual(t, msg.Session, "abc")
	if !msg.At.Equal(at) {
		t.Errorf("at = %v, want %v", msg.At, at)
	}
}

func TestPublisher_CallbackDoesNotWaitForRedis(t *testing.T) {
	fc := &fakeClient{block: make(chan struct{})}
	p := newTestPublisher(t, Config{Client: fc, Buffer: 2})
	cb := p.Callback("clock")

	start := time.Now()
	// The worker takes the first value and blocks on it; two more fill the queue.
	testutil.AssertNoError(t, cb.OnUpdate("1"))
	testutil.Eventually(t, func() bool { return len(p.queue) == 0 }, time.Second, time.Millisecond)
	testutil.AssertNoError(t, cb.OnUpdate("2"))
	testutil.AssertNoError(t, cb.OnUpdate("3"))

	err := cb.OnUpdate("4")
	testutil.AssertErrorIs(t, err, ErrQueueFull)
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("callbacks blocked for %v while Redis was stalled", elapsed)
	}

	close(fc.block)
	testutil.AssertNoError(t, p.Close())
	testutil.AssertEqual(t, len(fc.messages()), 3)
}

func TestPublisher_Closed(t *testing.T) {
	p := newTestPublisher(t, Config{Client: &fakeClient{}})
	testutil.AssertNoError(t, p.Close())
	testutil.AssertNoError(t, p.Close())

	err := p.Callback("clock").OnUpdate("late")
	testutil.AssertErrorIs(t, err, gferrors.ErrClosed)
}

func TestPublisher_QueuedErrorsReachOnError(t *testing.T) {
	refused := errors.New("connection refused")

	var (
		mu     sync.Mutex
		failed []string
	)
	p := newTestPublisher(t, Config{
		Client: &fakeClient{err: refused},
		OnError: func(widget string, err error) {
			if errors.Is(err, refused) {
				mu.Lock()
				failed = append(failed, widget)
				mu.Unlock()
			}
		},
	})

	testutil.AssertNoError(t, p.Callback("clock").OnUpdate("12:00"))
	testutil.AssertNoError(t, p.Close())

	mu.Lock()
	defer mu.Unlock()
	testutil.AssertEqual(t, len(failed), 1)
	testutil.AssertEqual(t, failed[0], "clock")
}

func TestPublisher_PublishError(t *testing.T) {
	fc := &fakeClient{err: errors.New("connection refused")}
	p := newTestPublisher(t, Config{Client: fc})

	err := p.Publish(context.Background(), "clock", "12:00")

	var opErr *gferrors.OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("error = %v, want *OperationError", err)
	}
	testutil.AssertEqual(t, opErr.Operation, "Publish")
	for _, part := range []string{"livetime:abc:clock", "connection refused"} {
		if !strings.Contains(err.Error(), part) {
			t.Errorf("error %q does not mention %q", err, part)
		}
	}
}
