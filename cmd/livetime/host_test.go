package main

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"

	"github.com/vnykmshr/livetime/internal/config"
	"github.com/vnykmshr/livetime/internal/testutil"
	"github.com/vnykmshr/livetime/pkg/dateprovider"
	"github.com/vnykmshr/livetime/pkg/logx"
	"github.com/vnykmshr/livetime/pkg/metrics"
	"github.com/vnykmshr/livetime/pkg/scheduling/scheduler"
	"github.com/vnykmshr/livetime/pkg/sink/redissink"
)

type fakeRedis struct {
	mu       sync.Mutex
	channels []string
}

func (f *fakeRedis) Publish(_ context.Context, channel string, _ interface{}) *redis.IntCmd {
	f.mu.Lock()
	f.channels = append(f.channels, channel)
	f.mu.Unlock()
	return redis.NewIntResult(1, nil)
}

func (f *fakeRedis) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.channels)
}

func newTestHost(t *testing.T, render config.RenderConfig, pub *redissink.Publisher) (*host, *testutil.MockClock, *testutil.MockWriter, *metrics.Registry) {
	t.Helper()
	clk := testutil.NewMockClockMillis(0)
	reg := metrics.NewRegistry(prometheus.NewRegistry())
	sched := scheduler.NewWithConfig(scheduler.Config{
		Provider: dateprovider.NewNative(dateprovider.Options{Timezone: true, Duration: true, Clock: clk}),
		Clock:    clk,
		Metrics:  reg,
	})
	t.Cleanup(func() { _ = sched.Close() })

	out := testutil.NewMockWriter()
	h := newHost(hostOptions{
		Log:       logx.Nop(),
		Scheduler: sched,
		Metrics:   reg,
		Out:       out,
		Redis:     pub,
		Render:    render,
	})
	t.Cleanup(h.close)
	return h, clk, out, reg
}

func widgets(ws ...config.WidgetConfig) *config.Config {
	return &config.Config{Widgets: ws}
}

func TestHost_LinesMode(t *testing.T) {
	h, clk, out, reg := newTestHost(t, config.RenderConfig{}, nil)

	err := h.apply(widgets(config.WidgetConfig{Name: "clock", Format: "%H:%M:%S", Interval: "1s"}))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, out.String(), "clock 00:00:00\n")

	clk.Advance(time.Second)
	testutil.AssertEqual(t, out.String(), "clock 00:00:00\nclock 00:00:01\n")

	delivered := promtest.ToFloat64(reg.SinkMessages.WithLabelValues("stdout", metrics.OutcomeDelivered))
	testutil.AssertEqual(t, delivered, float64(2))
}

func TestHost_ApplyReplacesWidgets(t *testing.T) {
	h, clk, out, _ := newTestHost(t, config.RenderConfig{}, nil)

	testutil.AssertNoError(t, h.apply(widgets(
		config.WidgetConfig{Name: "a", Format: "%S", Interval: "1s"},
		config.WidgetConfig{Name: "b", Format: "%S", Interval: "1s"},
	)))
	testutil.AssertEqual(t, h.sched.Len(), 2)
	first := h.widgetIDs()

	testutil.AssertNoError(t, h.apply(widgets(
		config.WidgetConfig{Name: "c", Format: "%M", Interval: "1m"},
	)))
	testutil.AssertEqual(t, h.sched.Len(), 1)
	testutil.AssertEqual(t, h.sched.BaseInterval(), time.Minute)

	for _, id := range first {
		if _, ok := h.sched.Get(id); ok {
			t.Errorf("subscription %d survived reload", id)
		}
	}

	before := out.WriteCount()
	clk.Advance(time.Second)
	testutil.AssertEqual(t, out.WriteCount(), before)
}

func TestHost_RejectedWidgetDoesNotStopOthers(t *testing.T) {
	h, _, out, _ := newTestHost(t, config.RenderConfig{}, nil)

	err := h.apply(widgets(
		config.WidgetConfig{Name: "mars", Format: "%H", Timezone: "Mars/Olympus_Mons"},
		config.WidgetConfig{Name: "earth", Format: "%H", Timezone: "UTC"},
	))
	testutil.AssertError(t, err)
	testutil.AssertEqual(t, h.sched.Len(), 1)
	testutil.AssertEqual(t, out.String(), "earth 00\n")

	if _, ok := h.widgetIDs()["mars"]; ok {
		t.Error("rejected widget should not be tracked")
	}
}

func TestHost_BoardMode(t *testing.T) {
	h, clk, out, _ := newTestHost(t, config.RenderConfig{Mode: config.RenderBoard, Interval: "1s"}, nil)

	testutil.AssertNoError(t, h.apply(widgets(
		config.WidgetConfig{Name: "clock", Format: "%H:%M:%S", Interval: "1s"},
	)))
	testutil.AssertEqual(t, h.renders.Load(), int64(1))
	testutil.AssertEqual(t, out.String(), "livetime 00:00:00  (1 widgets, tick 1s)\n\nclock  00:00:00\n")

	clk.Advance(time.Second)
	testutil.AssertEqual(t, h.renders.Load(), int64(2))
	if got := out.String(); !strings.HasSuffix(got, "clock  00:00:01\n") {
		t.Errorf("board not refreshed:\n%s", got)
	}

	// A reload keeps the single redraw subscription.
	testutil.AssertNoError(t, h.apply(widgets(
		config.WidgetConfig{Name: "clock", Format: "%H:%M", Interval: "1s"},
	)))
	testutil.AssertEqual(t, h.sched.Len(), 2)
}

func TestHost_PublishesToRedis(t *testing.T) {
	fake := &fakeRedis{}
	pub, err := redissink.New(redissink.Config{Client: fake, Session: "s1"})
	testutil.AssertNoError(t, err)
	t.Cleanup(func() { _ = pub.Close() })

	h, clk, out, reg := newTestHost(t, config.RenderConfig{}, pub)
	testutil.AssertNoError(t, h.apply(widgets(
		config.WidgetConfig{Name: "clock", Format: "%S", Interval: "1s"},
	)))
	clk.Advance(time.Second)
	testutil.AssertNoError(t, pub.Close())

	testutil.AssertEqual(t, fake.count(), 2)
	testutil.AssertEqual(t, fake.channels[0], "livetime:s1:clock")
	testutil.AssertEqual(t, out.WriteCount(), 2)
	testutil.AssertEqual(t, promtest.ToFloat64(reg.SinkMessages.WithLabelValues("redis", metrics.OutcomeDelivered)), float64(2))
}

func TestHost_CloseUnsubscribesEverything(t *testing.T) {
	h, _, _, _ := newTestHost(t, config.RenderConfig{Mode: config.RenderBoard}, nil)
	testutil.AssertNoError(t, h.apply(widgets(
		config.WidgetConfig{Name: "a", Format: "%S"},
		config.WidgetConfig{Name: "b", Format: "%S"},
	)))
	testutil.AssertEqual(t, h.sched.Len(), 3)

	h.close()
	testutil.AssertEqual(t, h.sched.Len(), 0)
	testutil.AssertEqual(t, h.sched.Running(), false)
}
