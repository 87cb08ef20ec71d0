package config

import (
	"fmt"
	"strings"
	"time"

	gferrors "github.com/vnykmshr/livetime/pkg/common/errors"
	"github.com/vnykmshr/livetime/pkg/interval"
	"github.com/vnykmshr/livetime/pkg/scheduling/scheduler"
)

// SchedulerKind maps the configured kind name to a scheduler.Kind.
func (w WidgetConfig) SchedulerKind() (scheduler.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(w.Kind)) {
	case "now", "":
		return scheduler.KindNow, nil
	case "relative", "fromnow", "from_now":
		return scheduler.KindRelative, nil
	case "until", "countdown":
		return scheduler.KindUntil, nil
	default:
		return 0, gferrors.NewValidationError("config", "widgets."+w.Name+".kind", w.Kind, "unknown widget kind").
			WithHint("use now, relative or until")
	}
}

// IntervalOrDefault parses Interval, falling back to interval.Default.
func (w WidgetConfig) IntervalOrDefault() time.Duration {
	return interval.ParseOrDefault(w.Interval, interval.Default)
}

// Request builds the scheduler request for this widget.
func (w WidgetConfig) Request(cb scheduler.Callback) (scheduler.Request, error) {
	kind, err := w.SchedulerKind()
	if err != nil {
		return scheduler.Request{}, err
	}

	req := scheduler.Request{
		Kind:          kind,
		Format:        w.Format,
		Timezone:      strings.TrimSpace(w.Timezone),
		WithoutSuffix: w.WithoutSuffix,
		ClampToZero:   w.ClampToZero == nil || *w.ClampToZero,
		Interval:      w.IntervalOrDefault(),
		Callback:      cb,
	}

	if kind != scheduler.KindNow {
		anchor, err := time.Parse(time.RFC3339, strings.TrimSpace(w.Anchor))
		if err != nil {
			return scheduler.Request{}, gferrors.NewValidationError("config", "widgets."+w.Name+".anchor", w.Anchor, "not an RFC 3339 timestamp").
				WithHint("e.g. 2024-12-31T23:59:59Z")
		}
		req.Anchor = anchor
	}
	return req, nil
}

// Validate checks the widget list and render settings.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Widgets))
	for i, w := range c.Widgets {
		name := strings.TrimSpace(w.Name)
		if name == "" {
			return gferrors.NewValidationError("config", fmt.Sprintf("widgets[%d].name", i), w.Name, "cannot be empty")
		}
		if seen[name] {
			return gferrors.NewValidationError("config", fmt.Sprintf("widgets[%d].name", i), w.Name, "duplicate widget name")
		}
		seen[name] = true

		kind, err := w.SchedulerKind()
		if err != nil {
			return err
		}
		if kind != scheduler.KindRelative && strings.TrimSpace(w.Format) == "" {
			return gferrors.NewValidationError("config", "widgets."+name+".format", w.Format, "cannot be empty").
				WithHint("use strftime directives such as %H:%M:%S")
		}
		if _, err := w.Request(scheduler.CallbackFunc(func(string) error { return nil })); err != nil {
			return err
		}
	}

	switch c.Render.Mode {
	case "", RenderLines, RenderBoard:
	default:
		return gferrors.NewValidationError("config", "render.mode", c.Render.Mode, "unknown render mode").
			WithHint("use lines or board")
	}
	return nil
}

// RenderInterval returns the board redraw cadence.
func (r RenderConfig) RenderInterval() time.Duration {
	return interval.ParseOrDefault(r.Interval, interval.Default)
}

// RedisTimeout returns the publish timeout with its default applied.
func (r RedisConfig) RedisTimeout() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(r.Timeout))
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}
