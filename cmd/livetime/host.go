package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vnykmshr/livetime/internal/config"
	"github.com/vnykmshr/livetime/pkg/logx"
	"github.com/vnykmshr/livetime/pkg/metrics"
	"github.com/vnykmshr/livetime/pkg/scheduling/scheduler"
	"github.com/vnykmshr/livetime/pkg/sink"
	"github.com/vnykmshr/livetime/pkg/sink/redissink"
)

// ansiClear moves the cursor home and clears the terminal.
const ansiClear = "\033[H\033[2J"

// host keeps one subscription per configured widget and renders the values.
type host struct {
	log     logx.Logger
	sched   scheduler.Scheduler
	metrics *metrics.Registry
	out     io.Writer
	redis   *redissink.Publisher
	mode    string

	board       *sink.Board
	boardEvery  time.Duration
	clearScreen bool

	mu      sync.Mutex
	widgets map[string]scheduler.ID
	cfg     *config.Config
	redraw  scheduler.ID
	hasDraw bool

	renders atomic.Int64
}

type hostOptions struct {
	Log         logx.Logger
	Scheduler   scheduler.Scheduler
	Metrics     *metrics.Registry
	Out         io.Writer
	Redis       *redissink.Publisher
	Render      config.RenderConfig
	ClearScreen bool
}

func newHost(opts hostOptions) *host {
	mode := opts.Render.Mode
	if mode == "" {
		mode = config.RenderLines
	}
	h := &host{
		log:         opts.Log,
		sched:       opts.Scheduler,
		metrics:     opts.Metrics,
		out:         opts.Out,
		redis:       opts.Redis,
		mode:        mode,
		boardEvery:  opts.Render.RenderInterval(),
		clearScreen: opts.ClearScreen,
		widgets:     make(map[string]scheduler.ID),
	}
	if mode == config.RenderBoard {
		h.board = sink.NewBoard()
	}
	return h
}

// apply replaces every widget subscription with the ones in cfg. Widgets that
// fail to subscribe are logged and skipped.
func (h *host) apply(cfg *config.Config) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if changes := config.DiffWidgets(h.cfg, cfg); !changes.Empty() {
		h.log.Info("widgets changed",
			logx.String("added", strings.Join(changes.Added, ",")),
			logx.String("removed", strings.Join(changes.Removed, ",")),
			logx.String("changed", strings.Join(changes.Changed, ",")),
		)
	}
	if cfg.Render.Mode != "" && cfg.Render.Mode != h.mode {
		h.log.Warn("render mode change ignored until restart",
			logx.String("current", h.mode), logx.String("requested", cfg.Render.Mode))
	}

	for name, id := range h.widgets {
		h.sched.Unsubscribe(id)
		delete(h.widgets, name)
	}
	if h.board != nil {
		h.board.Reset()
	}

	var failed int
	for _, w := range cfg.Widgets {
		req, err := w.Request(h.callback(w.Name))
		if err == nil {
			var id scheduler.ID
			id, err = h.sched.Subscribe(req)
			if err == nil {
				h.widgets[w.Name] = id
				h.log.Debug("widget subscribed",
					logx.String("widget", w.Name),
					logx.Uint64("id", uint64(id)),
					logx.Duration("interval", req.Interval))
				continue
			}
		}
		failed++
		h.log.Error("widget rejected", logx.String("widget", w.Name), logx.Err(err))
	}
	h.cfg = cfg

	if h.board != nil && !h.hasDraw {
		id, err := h.sched.SubscribeNow("%H:%M:%S", "", h.boardEvery, scheduler.CallbackFunc(h.draw))
		if err != nil {
			return fmt.Errorf("board redraw: %w", err)
		}
		h.redraw, h.hasDraw = id, true
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d widgets rejected", failed, len(cfg.Widgets))
	}
	return nil
}

func (h *host) callback(name string) scheduler.Callback {
	var cbs []scheduler.Callback
	if h.board != nil {
		cbs = append(cbs, sink.Counted(h.metrics, "board", h.board.Callback(name)))
	} else {
		cbs = append(cbs, sink.Counted(h.metrics, "stdout", sink.NewWriter(h.out, name)))
	}
	if h.redis != nil {
		cbs = append(cbs, sink.Counted(h.metrics, "redis", h.redis.Callback(name)))
	}
	if len(cbs) == 1 {
		return cbs[0]
	}
	return sink.Fanout(cbs...)
}

// draw redraws the whole board; now is the current local time. It runs as a
// scheduler callback, possibly from inside apply, so it must not take h.mu.
func (h *host) draw(now string) error {
	var sb strings.Builder
	if h.clearScreen {
		sb.WriteString(ansiClear)
	}
	fmt.Fprintf(&sb, "livetime %s  (%d widgets, tick %s)\n\n", now, h.sched.Len()-1, h.sched.BaseInterval())
	if err := h.board.Render(&sb); err != nil {
		return err
	}
	h.renders.Add(1)
	_, err := io.WriteString(h.out, sb.String())
	return err
}

// close drops every subscription the host owns.
func (h *host) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for name, id := range h.widgets {
		h.sched.Unsubscribe(id)
		delete(h.widgets, name)
	}
	if h.hasDraw {
		h.sched.Unsubscribe(h.redraw)
		h.hasDraw = false
	}
}

func (h *host) widgetIDs() map[string]scheduler.ID {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]scheduler.ID, len(h.widgets))
	for k, v := range h.widgets {
		out[k] = v
	}
	return out
}
