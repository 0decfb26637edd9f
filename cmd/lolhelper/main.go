package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Dragon-GCS/lolhelper/internal/app"
	"github.com/Dragon-GCS/lolhelper/internal/config"
	"github.com/Dragon-GCS/lolhelper/internal/engine"
	"github.com/Dragon-GCS/lolhelper/internal/lcu"
	"github.com/Dragon-GCS/lolhelper/internal/logging"
	"github.com/Dragon-GCS/lolhelper/internal/mock"
	"github.com/Dragon-GCS/lolhelper/internal/prefs"
	"github.com/Dragon-GCS/lolhelper/internal/state"
	"github.com/Dragon-GCS/lolhelper/internal/status"
)

const poolWait = 5 * time.Second

// nameList collects a repeatable string flag.
type nameList []string

func (n *nameList) String() string { return strings.Join(*n, ",") }

func (n *nameList) Set(v string) error {
	*n = append(*n, v)
	return nil
}

func main() {
	var (
		configPath string
		accept     int
		send       bool
		picks      nameList
		logLevel   string
		tui        bool
		statusAddr string
		version    bool
		mockMode   bool
	)
	flag.StringVar(&configPath, "config", "config.yaml", "Path to config file")
	flag.IntVar(&accept, "accept", 3, "Seconds to wait before accepting a ready check (0..15)")
	flag.IntVar(&accept, "a", 3, "Shorthand for -accept")
	flag.BoolVar(&send, "send-analytics", false, "Post teammate analysis to the lobby chat")
	flag.BoolVar(&send, "s", false, "Shorthand for -send-analytics")
	flag.Var(&picks, "pick", "Champion to auto-pick, by name (repeatable, in priority order)")
	flag.Var(&picks, "p", "Shorthand for -pick")
	flag.StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flag.StringVar(&logLevel, "l", "", "Shorthand for -log-level")
	flag.BoolVar(&tui, "tui", false, "Run the terminal UI")
	flag.StringVar(&statusAddr, "status-addr", "", "Serve the status API on this address")
	flag.BoolVar(&mockMode, "mock", false, "Play a scripted game instead of connecting to the client")
	flag.BoolVar(&version, "version", false, "Print the version and exit")
	flag.Parse()

	if version {
		fmt.Println("lolhelper", lcu.Version)
		return
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if set["accept"] || set["a"] {
		cfg.Accept.Delay = time.Duration(accept) * time.Second
	}
	if send {
		cfg.Analysis.Enabled = true
	}
	if len(picks) > 0 {
		cfg.Pick.Champions = picks
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if statusAddr != "" {
		cfg.Status.Addr = statusAddr
	}
	if accept < 0 {
		fmt.Fprintln(os.Stderr, "-accept must not be negative")
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid options: %v\n", err)
		os.Exit(2)
	}

	log, err := logging.Setup(cfg.Log.Level, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid options: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, set, tui, mockMode, log); err != nil {
		log.WithError(err).Error("exiting")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, set map[string]bool, tui, mockMode bool, log *logrus.Logger) error {
	prefStore := prefs.NewStore(cfg.Prefs.Dir)
	p, ok, err := prefStore.Load()
	if err != nil {
		log.WithError(err).Warn("ignoring saved preferences")
	}
	if !ok || err != nil {
		p = state.Preferences{
			AcceptDelaySeconds: cfg.AcceptDelaySeconds(),
			AutoSendAnalysis:   cfg.Analysis.Enabled,
		}
	}
	// Explicit flags win over saved preferences.
	if set["accept"] || set["a"] {
		p.AcceptDelaySeconds = cfg.AcceptDelaySeconds()
	}
	if set["send-analytics"] || set["s"] {
		p.AutoSendAnalysis = cfg.Analysis.Enabled
	}
	store := state.NewStore(p)

	save := func(p state.Preferences) error {
		if err := prefStore.Save(p); err != nil {
			return err
		}
		log.WithField("path", prefStore.Path()).Debug("preferences saved")
		return nil
	}

	topics := lcu.Topics
	if cfg.Discovery.DebugEvents {
		topics = nil
	}
	connect := engine.ConnectLCU(topics)
	if mockMode {
		log.Info("starting in mock mode")
		connect = mock.Connect(time.Second)
	}
	listener := &engine.Listener{
		Store: store,
		Log:   log.WithField("component", "engine"),
		Options: engine.Options{
			MaxMatches:   cfg.Analysis.MaxMatches,
			PostInterval: cfg.Analysis.PostInterval,
			Concurrency:  cfg.Analysis.Concurrency,
		},
		Connect: connect,
	}
	serve := func(ctx context.Context) error {
		return listener.Serve(ctx, cfg.Discovery.RetryInterval)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Status.Addr != "" {
		statusLog := log.WithField("component", "status")
		b := status.NewBroadcaster(store, cfg.Status.SnapshotInterval, statusLog)
		srv := status.NewServer(store, b, save, statusLog)
		g.Go(func() error {
			b.Run(gctx)
			return nil
		})
		g.Go(func() error {
			if err := status.ListenAndServe(gctx, cfg.Status.Addr, srv, statusLog); err != nil {
				return fmt.Errorf("status server: %w", err)
			}
			return nil
		})
	}

	if len(cfg.Pick.Champions) > 0 {
		g.Go(func() error {
			applyPicks(gctx, store, cfg.Pick.Champions, save, log)
			return nil
		})
	}

	if tui {
		g.Go(func() error {
			// Quitting the UI ends the process.
			defer cancel()
			return runTUI(gctx, store, serve, save, log)
		})
	} else {
		log.WithField("version", lcu.Version).Info("waiting for the client")
		g.Go(func() error { return serve(gctx) })
	}

	return g.Wait()
}

// applyPicks waits for the owned pool to load, then moves the named
// champions to the priority list and enables auto-pick.
func applyPicks(ctx context.Context, store *state.Store, names []string, save func(state.Preferences) error, log logrus.FieldLogger) {
	if !waitForPool(ctx, store, poolWait) {
		if ctx.Err() == nil {
			log.Warn("owned champions not loaded in time, ignoring pick list")
		}
		return
	}

	var missing []string
	cfg := store.UpdateAutoPick(func(c *state.AutoPickConfig) {
		missing = c.SelectByName(names)
		c.Enabled = len(c.Selected) > 0
	})
	for _, name := range missing {
		log.WithField("name", name).Warn("no owned champion matches")
	}
	log.WithField("priority", len(cfg.Selected)).Info("pick list applied")
	if err := save(store.Preferences()); err != nil {
		log.WithError(err).Warn("saving preferences failed")
	}
}

func waitForPool(ctx context.Context, store *state.Store, limit time.Duration) bool {
	hasPool := func() bool {
		c := store.AutoPick()
		return len(c.Selected)+len(c.Unselected) > 0
	}
	deadline := time.NewTimer(limit)
	defer deadline.Stop()
	poll := time.NewTicker(100 * time.Millisecond)
	defer poll.Stop()

	for !hasPool() {
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return hasPool()
		case <-poll.C:
		}
	}
	return true
}

func runTUI(ctx context.Context, store *state.Store, serve func(context.Context) error, save func(state.Preferences) error, log *logrus.Logger) error {
	logs := make(chan logging.Entry, 256)
	log.SetOutput(io.Discard)
	log.AddHook(logging.NewHook(log.GetLevel(), func(e logging.Entry) {
		select {
		case logs <- e:
		default:
		}
	}))

	m := app.New(app.Options{
		Store:     store,
		Listen:    serve,
		Save:      save,
		Logs:      logs,
		AutoStart: true,
		Log:       log.WithField("component", "tui"),
	})
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
