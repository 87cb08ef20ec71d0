// Package redissink publishes live values to Redis pub/sub channels so other
// processes can render the same widgets.
//
// Each value is sent as a JSON message on "<prefix>:<session>:<widget>":
//
//	{"widget":"deadline","value":"00:04:59","session":"6f1c...","at":"2024-03-15T12:00:01Z"}
//
// Subscribers can PSUBSCRIBE to "<prefix>:<session>:*" to follow one scheduler.
//
// Callbacks returned by Publisher.Callback only enqueue the value; a
// background worker performs the PUBLISH. A slow or unreachable Redis
// therefore never holds up the scheduler tick. When the queue is full the
// value is dropped and the callback reports ErrQueueFull.
package redissink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vnykmshr/livetime/pkg/clock"
	gferrors "github.com/vnykmshr/livetime/pkg/common/errors"
	"github.com/vnykmshr/livetime/pkg/common/validation"
	"github.com/vnykmshr/livetime/pkg/scheduling/scheduler"
)

// ErrQueueFull is returned by a callback when the publish queue has no room.
var ErrQueueFull = errors.New("redissink: publish queue full")

// Client is the subset of redis.UniversalClient the publisher needs.
type Client interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Config holds publisher configuration.
type Config struct {
	// Client is the Redis connection, usually a redis.UniversalClient.
	Client Client

	// Prefix starts every channel name (default: "livetime").
	Prefix string

	// Session namespaces channels, normally the scheduler's session id.
	Session string

	// Timeout bounds each PUBLISH (default: 500ms).
	Timeout time.Duration

	// Buffer is the number of values queued for the worker (default: 64).
	Buffer int

	// OnError receives failures of queued publishes. Optional.
	OnError func(widget string, err error)

	// Clock stamps messages (default: system clock).
	Clock clock.Clock
}

// Message is the JSON payload of a published value.
type Message struct {
	Widget  string    `json:"widget"`
	Value   string    `json:"value"`
	Session string    `json:"session"`
	At      time.Time `json:"at"`
}

type queued struct {
	widget string
	msg    Message
}

// Publisher sends values to Redis.
type Publisher struct {
	client  Client
	prefix  string
	session string
	timeout time.Duration
	clock   clock.Clock
	onError func(string, error)

	mu     sync.RWMutex
	closed bool
	queue  chan queued
	done   chan struct{}
}

// New creates a Publisher and starts its worker. Call Close to stop it.
func New(cfg Config) (*Publisher, error) {
	if err := validation.ValidateNotNil("redissink", "client", cfg.Client); err != nil {
		return nil, err
	}
	if err := validation.ValidateNotEmpty("redissink", "session", cfg.Session); err != nil {
		return nil, err
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "livetime"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = 64
	}
	c := cfg.Clock
	if c == nil {
		c = clock.SystemClock{}
	}

	p := &Publisher{
		client:  cfg.Client,
		prefix:  prefix,
		session: cfg.Session,
		timeout: timeout,
		clock:   c,
		onError: cfg.OnError,
		queue:   make(chan queued, buffer),
		done:    make(chan struct{}),
	}
	go p.run()
	return p, nil
}

// Channel returns the channel values for widget are published on.
func (p *Publisher) Channel(widget string) string {
	return fmt.Sprintf("%s:%s:%s", p.prefix, p.session, widget)
}

// Pattern returns a PSUBSCRIBE pattern matching every widget of the session.
func (p *Publisher) Pattern() string {
	return fmt.Sprintf("%s:%s:*", p.prefix, p.session)
}

// Publish sends one value and waits for Redis.
func (p *Publisher) Publish(ctx context.Context, widget, value string) error {
	return p.send(ctx, widget, p.message(widget, value))
}

// Callback returns a scheduler callback that queues values for widget.
func (p *Publisher) Callback(widget string) scheduler.Callback {
	return scheduler.CallbackFunc(func(value string) error {
		return p.enqueue(widget, value)
	})
}

// Close stops accepting values, publishes what is already queued and waits
// for the worker to exit. It is safe to call more than once.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	<-p.done
	return nil
}

func (p *Publisher) enqueue(widget, value string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return gferrors.NewOperationError("redissink", "Publish", gferrors.ErrClosed)
	}
	select {
	case p.queue <- queued{widget: widget, msg: p.message(widget, value)}:
		return nil
	default:
		return gferrors.NewOperationError("redissink", "Publish", ErrQueueFull).
			WithContext("channel " + p.Channel(widget))
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for q := range p.queue {
		if err := p.send(context.Background(), q.widget, q.msg); err != nil && p.onError != nil {
			p.onError(q.widget, err)
		}
	}
}

func (p *Publisher) message(widget, value string) Message {
	return Message{
		Widget:  widget,
		Value:   value,
		Session: p.session,
		At:      p.clock.Now().UTC(),
	}
}

func (p *Publisher) send(ctx context.Context, widget string, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return gferrors.NewOperationError("redissink", "Publish", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.client.Publish(ctx, p.Channel(widget), payload).Err(); err != nil {
		return gferrors.NewOperationError("redissink", "Publish", err).
			WithContext("channel " + p.Channel(widget))
	}
	return nil
}
