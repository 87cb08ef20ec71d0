// Command livetime renders live time widgets described in a config file.
//
// Each widget is a clock, a relative time ("3 minutes ago") or a countdown.
// Values are printed as lines or as a redrawn board, optionally published to
// Redis, and the scheduler is instrumented with Prometheus metrics. Editing
// the config file resubscribes the widgets without a restart.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/vnykmshr/livetime/internal/config"
	"github.com/vnykmshr/livetime/pkg/dateprovider"
	"github.com/vnykmshr/livetime/pkg/logx"
	"github.com/vnykmshr/livetime/pkg/metrics"
	"github.com/vnykmshr/livetime/pkg/scheduling/scheduler"
	"github.com/vnykmshr/livetime/pkg/sink/redissink"
	"github.com/vnykmshr/livetime/pkg/visibility"
)

func main() {
	configPath := flag.String("config", "livetime.yaml", "path to the YAML or JSON config file")
	watch := flag.Bool("watch", true, "reload the config file when it changes")
	flag.Parse()

	boot := logx.NewConsole("info")
	if err := run(*configPath, *watch); err != nil {
		boot.Error("livetime stopped", logx.Err(err))
		os.Exit(1)
	}
}

func run(configPath string, watch bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := config.NewManager(configPath)
	cfg, err := manager.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logSvc, log := logx.New(cfg.Logging)
	defer logSvc.Close()
	manager.SetLogger(log.With(logx.String("component", "config")))

	provider := dateprovider.NewNative(dateprovider.Options{
		Timezone: cfg.Provider.TimezoneEnabled(),
		Duration: cfg.Provider.DurationEnabled(),
	})

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry(prometheus.DefaultRegisterer)
	}

	var source visibility.Source
	if cfg.Render.Visibility {
		source = visibility.NewSignal()
	}

	sched := scheduler.NewWithConfig(scheduler.Config{
		Provider:   provider,
		Visibility: source,
		Logger:     log.With(logx.String("component", "scheduler")),
		Metrics:    reg,
		Name:       "livetime",
	})
	defer sched.Close()

	var publisher *redissink.Publisher
	if cfg.Redis != nil {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(ctx, cfg.Redis.RedisTimeout())
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unreachable; publishing will keep failing until it is up",
				logx.String("addr", cfg.Redis.Addr), logx.Err(err))
		}
		cancel()

		publisher, err = redissink.New(redissink.Config{
			Client:  client,
			Prefix:  cfg.Redis.Prefix,
			Session: sched.SessionID(),
			Timeout: cfg.Redis.RedisTimeout(),
			OnError: func(widget string, err error) {
				log.Warn("redis publish failed", logx.String("widget", widget), logx.Err(err))
			},
		})
		if err != nil {
			return fmt.Errorf("redis publisher: %w", err)
		}
		defer publisher.Close()
		log.Info("publishing to redis", logx.String("pattern", publisher.Pattern()))
	}

	h := newHost(hostOptions{
		Log:         log.With(logx.String("component", "host")),
		Scheduler:   sched,
		Metrics:     reg,
		Out:         os.Stdout,
		Redis:       publisher,
		Render:      cfg.Render,
		ClearScreen: true,
	})
	defer h.close()

	if err := h.apply(cfg); err != nil {
		log.Warn("some widgets were not started", logx.Err(err))
	}

	var srv *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.MetricsPath(), promhttp.Handler())
		srv = &http.Server{
			Addr:              cfg.Metrics.MetricsAddr(),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info("metrics server listening",
				logx.String("addr", srv.Addr), logx.String("path", cfg.Metrics.MetricsPath()))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", logx.Err(err))
			}
		}()
	}

	if watch {
		updates := manager.Subscribe(1)
		defer manager.Unsubscribe(updates)

		go func() {
			if err := manager.Watch(ctx); err != nil {
				log.Error("config watch stopped", logx.Err(err))
			}
		}()
		go func() {
			for next := range updates {
				logSvc.Apply(next.Logging)
				if err := h.apply(next); err != nil {
					log.Warn("some widgets were not restarted", logx.Err(err))
				}
			}
		}()
	}

	log.Info("livetime running",
		logx.String("config", configPath),
		logx.String("session", sched.SessionID()),
		logx.Int("widgets", len(cfg.Widgets)))

	<-ctx.Done()
	log.Info("shutting down")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics server shutdown", logx.Err(err))
		}
	}
	return nil
}
