package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"highpitch/internal/config"
	"highpitch/internal/inbox"
	"highpitch/internal/logging"
	"highpitch/internal/onboarding"
	"highpitch/internal/store"
	"highpitch/internal/ux"
)

// appEnv bundles what every command needs: the workspace, its config, the
// preferences file and the session store.
type appEnv struct {
	ws    string
	cfg   *config.Config
	prefs *ux.PreferencesManager
	store *store.Store

	// firstRun is set when the workspace had no .highpitch directory.
	firstRun bool
}

func resolveWorkspace() (string, error) {
	ws := workspace
	if ws == "" {
		var err error
		if ws, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("failed to resolve workspace: %w", err)
		}
	}
	return filepath.Abs(ws)
}

// openEnv loads config, migrates preferences and opens the store.
func openEnv(ctx context.Context) (*appEnv, error) {
	ws, err := resolveWorkspace()
	if err != nil {
		return nil, err
	}
	firstRun := ux.IsFirstRun(ws)

	path := configPath
	if path == "" {
		path = config.DefaultPath(ws)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if err := logging.Initialize(ws); err != nil {
		logger.Warn("file logging disabled", zap.Error(err))
	}
	if cfg.Logging.DebugMode {
		logging.SetDebugMode(true)
	}

	res, err := ux.MigratePreferences(ws)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare preferences: %w", err)
	}
	if res.WasMigrated {
		logger.Info("preferences migrated",
			zap.String("from", res.FromVersion),
			zap.String("to", res.ToVersion),
			zap.Strings("preserved", res.PreservedData))
	}

	prefs := ux.NewPreferencesManager(ws)
	if err := prefs.Load(); err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	dbPath := config.ResolvePath(ws, cfg.Store.Path)
	st, err := store.Open(ctx, cfg.Store.Driver, dbPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("store opened", zap.String("driver", st.Driver()), zap.String("path", st.Path()))

	if firstRun {
		logger.Info("first run in workspace", zap.String("workspace", ws))
	}
	return &appEnv{ws: ws, cfg: cfg, prefs: prefs, store: st, firstRun: firstRun}, nil
}

func (e *appEnv) Close() {
	if err := e.store.Close(); err != nil {
		logger.Warn("failed to close store", zap.Error(err))
	}
}

// inboxDir is where the transcriber drops session files.
func (e *appEnv) inboxDir() string {
	return config.ResolvePath(e.ws, e.cfg.Inbox.Dir)
}

// initialPace is the pace the tour starts with: the latest measured session
// pace, else the stored average.
func (e *appEnv) initialPace(ctx context.Context) float64 {
	spm, ok, err := e.store.LatestPace(ctx)
	if err != nil {
		logger.Warn("failed to read latest pace", zap.Error(err))
	}
	if ok {
		return spm
	}
	return e.prefs.SPMAverage()
}

// sessionByArg resolves an optional session id argument, defaulting to the
// most recent session.
func (e *appEnv) sessionByArg(ctx context.Context, args []string) (*store.Session, error) {
	if len(args) > 0 {
		return e.store.GetSession(ctx, args[0])
	}
	sess, err := e.store.LatestSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("no session given and %w", err)
	}
	return sess, nil
}

// resumeStep is where an unfinished tour picks up again.
func (e *appEnv) resumeStep() onboarding.Step {
	if e.prefs.PassOnboarding() {
		return onboarding.FirstStep
	}
	return onboarding.ResumeStep(e.prefs.Get().UserJourney.StepsSeen)
}

// recordPace attaches a pace entered during the tour to the latest session.
// Without sessions only the stored average keeps it.
func (e *appEnv) recordPace(ctx context.Context, spm float64) error {
	sess, err := e.store.LatestSession(ctx)
	if errors.Is(err, store.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return e.store.RecordPace(ctx, sess.ID, spm)
}

// backfillInbox imports the files already waiting in the inbox on the first
// run; the watcher only sees files that arrive later.
func (e *appEnv) backfillInbox(ctx context.Context) int {
	if !e.firstRun {
		return 0
	}
	dir := e.inboxDir()
	if _, err := os.Stat(dir); err != nil {
		return 0
	}
	results, err := inbox.NewImporter(e.store).ImportDir(ctx, dir)
	if err != nil {
		logger.Warn("inbox backfill failed", zap.Error(err))
		return 0
	}
	imported := 0
	for _, r := range results {
		if r.Err != nil {
			logger.Warn("inbox backfill skipped file", zap.String("path", r.Path), zap.Error(r.Err))
			continue
		}
		e.countImport()
		imported++
	}
	if imported > 0 {
		logger.Info("imported waiting inbox files", zap.Int("count", imported))
	}
	return imported
}
