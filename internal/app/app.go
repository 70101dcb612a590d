package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"golang.org/x/time/rate"

	"xmastree/internal/checker"
	"xmastree/internal/core/config"
	xerrors "xmastree/internal/core/errors"
	"xmastree/internal/data/history"
	"xmastree/internal/report"
	"xmastree/internal/shared/observability"
	"xmastree/internal/watcher"
)

// StdinName is the report name used when checking the standard input.
const StdinName = "input"

// Result is the outcome of checking one input.
type Result struct {
	Name       string
	Violations []checker.Violation
	IsDiff     bool
}

// App wires the checker core to config, reporting, history and watch
// mode. One App serves a whole invocation; each input gets its own
// scanner.
type App struct {
	cfg      *config.Config
	keywords *checker.KeywordSet
	render   report.Renderer
	out      io.Writer

	history *history.Store
	watcher *watcher.Watcher
	limiter *rate.Limiter
	obs     *observability.Server
}

func New(cfg *config.Config, out io.Writer) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if out == nil {
		out = os.Stdout
	}

	a := &App{
		cfg:      cfg,
		keywords: checker.NewKeywordSet(cfg.ExtraKeywords()...),
		render:   selectRenderer(cfg.Output.Color, out),
		out:      out,
		limiter:  rate.NewLimiter(rate.Limit(cfg.Watch.RechecksPerSec), cfg.Watch.RecheckBurst),
	}

	if cfg.DB.Enabled {
		store, err := history.Open(cfg.DB.Path)
		if err != nil {
			return nil, xerrors.AddContext(
				xerrors.Wrap(err, xerrors.CodeStorage, "open history store"),
				xerrors.CtxPath, cfg.DB.Path)
		}
		a.history = store
	}

	return a, nil
}

func selectRenderer(mode string, out io.Writer) report.Renderer {
	switch mode {
	case "always":
		return report.Styled
	case "never":
		return report.Plain
	default:
		if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			return report.Styled
		}
		return report.Plain
	}
}

// Run checks the named files in order, or the standard input when no
// names are given. The first unopenable file aborts the run without
// touching the remaining names.
func (a *App) Run(paths []string) error {
	if len(paths) == 0 {
		_, err := a.CheckStdin(os.Stdin)
		return err
	}
	for _, path := range paths {
		if _, err := a.CheckFile(path); err != nil {
			return err
		}
	}
	return nil
}

// CheckStdin scans r as the standard input stream.
func (a *App) CheckStdin(r io.Reader) (*Result, error) {
	return a.check(StdinName, r, observability.KindStdin)
}

// CheckFile opens and scans one file, reporting under its base name.
func (a *App) CheckFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.AddContext(
			xerrors.Wrap(err, xerrors.CodeIO, "open input file"),
			xerrors.CtxPath, path)
	}
	defer f.Close()

	return a.check(filepath.Base(path), f, observability.KindFile)
}

func (a *App) check(name string, r io.Reader, kind string) (*Result, error) {
	start := time.Now()

	sc := checker.NewScanner(a.keywords)
	viols, err := sc.Scan(r)
	if err != nil {
		return nil, xerrors.AddContext(
			xerrors.Wrap(err, xerrors.CodeIO, "read input"),
			xerrors.CtxInput, name)
	}

	fmt.Fprint(a.out, a.render(name, viols))

	observability.ChecksTotal.WithLabelValues(kind).Inc()
	observability.ViolationsTotal.Add(float64(len(viols)))
	observability.CheckDuration.Observe(time.Since(start).Seconds())

	if a.history != nil {
		run := history.Run{
			ID:             uuid.NewString(),
			Input:          name,
			ViolationCount: len(viols),
			IsDiff:         sc.IsDiff(),
		}
		if err := a.history.SaveRun(run); err != nil {
			// History is best-effort; a failed insert must not fail
			// the check itself.
			slog.Warn("failed to record run", "input", name, "error", err)
		}
	}

	return &Result{Name: name, Violations: viols, IsDiff: sc.IsDiff()}, nil
}

// History returns recorded runs for one input name, oldest first.
func (a *App) History(input string, since time.Time) ([]history.Run, error) {
	if a.history == nil {
		return nil, xerrors.New(xerrors.CodeStorage, "history store is disabled")
	}
	return a.history.LoadRuns(input, since)
}

// StartWatch begins re-checking changed files under the given paths.
// A path naming a file watches its directory.
func (a *App) StartWatch(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	dirs := make([]string, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, path := range paths {
		dir := path
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			dir = filepath.Dir(path)
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	w, err := watcher.NewWatcher(
		a.cfg.Watch.Debounce,
		a.cfg.Watch.Extensions,
		a.cfg.Exclude.Dirs,
		a.cfg.Exclude.Files,
		a.onChanged,
	)
	if err != nil {
		return xerrors.Wrap(err, xerrors.CodeWatch, "create watcher")
	}
	if err := w.Watch(dirs); err != nil {
		_ = w.Close()
		return xerrors.Wrap(err, xerrors.CodeWatch, "watch paths")
	}
	a.watcher = w

	if a.cfg.Observability.Enabled {
		a.obs = observability.NewServer(a.cfg.Observability.Address, a.healthStatus)
		if err := a.obs.Start(ctx); err != nil {
			return xerrors.Wrap(err, xerrors.CodeWatch, "start observability server")
		}
	}

	slog.Info("watching for changes", "dirs", dirs, "debounce", a.cfg.Watch.Debounce)
	return nil
}

func (a *App) healthStatus(context.Context) observability.HealthStatus {
	st := observability.HealthStatus{Status: "up"}
	if a.history != nil {
		st.HistoryPath = a.history.Path()
	}
	return st
}

// onChanged re-checks each debounced path, in stable order, under the
// recheck rate limit.
func (a *App) onChanged(paths []string) {
	sort.Strings(paths)
	for _, path := range paths {
		if !a.limiter.Allow() {
			observability.RechecksThrottledTotal.Inc()
			slog.Debug("recheck throttled", "path", path)
			continue
		}

		f, err := os.Open(path)
		if err != nil {
			// The file may have been removed between the event and
			// the debounce flush.
			slog.Warn("skipping changed file", "path", path, "error", err)
			continue
		}
		if _, err := a.check(filepath.Base(path), f, observability.KindRecheck); err != nil {
			slog.Warn("recheck failed", "path", path, "error", err)
		}
		_ = f.Close()
	}
}

func (a *App) Close() error {
	var firstErr error
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			firstErr = err
		}
	}
	if a.obs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := a.obs.Stop(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		cancel()
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
