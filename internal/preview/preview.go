// Package preview serves a locally built site and rebuilds it when the
// source tree changes. It is a writing aid, not a production server.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
)

// debounceDelay batches rapid editor save bursts into one rebuild.
const debounceDelay = 300 * time.Millisecond

// Options configures a preview session.
type Options struct {
	Port int

	// RebuildInterval triggers a periodic rebuild regardless of filesystem
	// events. Zero disables it. Useful when sources live on mounts where
	// fsnotify events are unreliable.
	RebuildInterval time.Duration
}

// buildStatus tracks the current build state for the health endpoint.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastBuild    time.Time
	hasGoodBuild bool
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	bs.lastBuild = time.Now()
}

func (bs *buildStatus) setSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.lastBuild = time.Now()
	bs.hasGoodBuild = true
}

func (bs *buildStatus) snapshot() (err error, lastBuild time.Time, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError, bs.lastBuild, bs.hasGoodBuild
}

// Run builds the site, serves it on localhost and rebuilds on changes. It
// blocks until ctx is canceled.
func Run(ctx context.Context, cfg *config.Config, outputDir string, opts Options) error {
	srcDirs, err := watchRoots(cfg)
	if err != nil {
		return err
	}

	recorder := metrics.NewPrometheusRecorder(nil)
	status := &buildStatus{}

	rebuild := func(ctx context.Context) {
		// Preview never runs in production mode: analytics stay out.
		g := site.NewGenerator(cfg, outputDir, false).SetRecorder(recorder)
		if _, err := g.Build(ctx); err != nil {
			slog.Warn("Rebuild failed", logfields.Error(err))
			status.setError(err)
			return
		}
		status.setSuccess()
	}
	rebuild(ctx)

	server := newServer(outputDir, opts.Port, status, recorder)
	if err := server.start(); err != nil {
		return err
	}
	slog.Info("Preview server listening", slog.Int("port", opts.Port),
		slog.String("url", fmt.Sprintf("http://localhost:%d", opts.Port)))

	watcher, err := newSourceWatcher(srcDirs)
	if err != nil {
		server.stop(context.Background())
		return err
	}
	defer func() { _ = watcher.Close() }()

	rebuildReq, trigger := newDebouncer()
	startRebuildWorker(ctx, rebuild, rebuildReq)

	scheduler, err := startPeriodicRebuilds(opts.RebuildInterval, rebuildReq)
	if err != nil {
		server.stop(context.Background())
		return err
	}

	return runEventLoop(ctx, watcher, trigger, func() error {
		slog.Info("Shutting down preview server")
		if scheduler != nil {
			if err := scheduler.Shutdown(); err != nil {
				slog.Warn("Scheduler shutdown error", logfields.Error(err))
			}
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.stop(shutdownCtx); err != nil {
			slog.Warn("HTTP server shutdown error", logfields.Error(err))
		}
		// The rebuild channel is never closed: a debounce timer or the
		// scheduler may still fire a send after shutdown. The worker exits
		// through ctx instead.
		return nil
	})
}

// watchRoots returns the existing source directories the watcher should cover.
func watchRoots(cfg *config.Config) ([]string, error) {
	candidates := []string{
		cfg.Content.PostsDir,
		cfg.Content.TemplatesDir,
		cfg.Content.PublicDir,
		filepath.Dir(cfg.Content.Stylesheet),
	}

	var roots []string
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolve watch dir %s: %w", dir, err)
		}
		if st, err := os.Stat(abs); err == nil && st.IsDir() {
			roots = append(roots, abs)
		}
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("no source directories to watch (posts dir %s missing?)", cfg.Content.PostsDir)
	}
	return roots, nil
}

// newDebouncer returns the rebuild request channel and a trigger that delays
// and coalesces requests.
func newDebouncer() (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceDelay, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

// startRebuildWorker serializes rebuilds: a request arriving mid-build marks
// a pending rebuild instead of running concurrently.
func startRebuildWorker(ctx context.Context, rebuild func(context.Context), rebuildReq chan struct{}) {
	var mu sync.Mutex
	running := false
	pending := false

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-rebuildReq:
				if !ok {
					return
				}
				mu.Lock()
				if running {
					pending = true
					mu.Unlock()
					continue
				}
				running = true
				mu.Unlock()

				slog.Info("Change detected; rebuilding site")
				rebuild(ctx)

				mu.Lock()
				running = false
				if pending {
					pending = false
					mu.Unlock()
					select {
					case rebuildReq <- struct{}{}:
					default:
					}
				} else {
					mu.Unlock()
				}
			}
		}
	}()
}

// startPeriodicRebuilds schedules interval rebuilds through the shared
// request channel so they go through the same serialization as watcher
// events. Returns nil when interval is zero.
func startPeriodicRebuilds(interval time.Duration, rebuildReq chan struct{}) (gocron.Scheduler, error) {
	if interval <= 0 {
		return nil, nil
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule periodic rebuild: %w", err)
	}
	scheduler.Start()
	slog.Info("Periodic rebuild enabled", slog.Duration("interval", interval))
	return scheduler, nil
}

// runEventLoop dispatches filesystem events until ctx is canceled.
func runEventLoop(ctx context.Context, watcher *fsnotify.Watcher, trigger func(), shutdown func() error) error {
	for {
		select {
		case <-ctx.Done():
			return shutdown()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleFileEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}
