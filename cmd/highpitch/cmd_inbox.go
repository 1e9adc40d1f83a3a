package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"highpitch/internal/inbox"
)

// importCmd imports session files
var importCmd = &cobra.Command{
	Use:   "import <file|dir>",
	Short: "Import practice session files (.json, .yaml)",
	Long: `Parses session files written by the transcriber and stores them.
A directory is imported concurrently. Re-importing the same file replaces
the earlier import.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// watchCmd watches the inbox directory
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the inbox directory and import new session files",
	RunE:  runWatch,
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	target := args[0]
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", target, err)
	}

	im := inbox.NewImporter(env.store)
	out := cmd.OutOrStdout()

	if !info.IsDir() {
		sess, err := im.ImportFile(ctx, target)
		if err != nil {
			return err
		}
		env.countImport()
		fmt.Fprintf(out, "Imported %s: %s (%d filler words)\n", target, sess.ID, sess.TotalFillers)
		return nil
	}

	results, err := im.ImportDir(ctx, target)
	if err != nil {
		return err
	}
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(out, "FAILED %s: %v\n", r.Path, r.Err)
			continue
		}
		env.countImport()
		fmt.Fprintf(out, "Imported %s: %s (%d filler words)\n", r.Path, r.Session.ID, r.Session.TotalFillers)
	}
	fmt.Fprintf(out, "%d imported, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, len(results))
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	w, err := inbox.NewWatcher(env.inboxDir(), inbox.NewImporter(env.store), env.cfg.GetInboxDebounce())
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return fmt.Errorf("failed to watch %s: %w", env.inboxDir(), err)
	}
	defer w.Stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", w.Dir())
	for {
		select {
		case <-ctx.Done():
			stats := w.Stats()
			fmt.Fprintf(out, "Stopped: %d imported, %d failed\n", stats.Imported, stats.Failed)
			return nil
		case r := <-w.Events():
			if r.Err != nil {
				logger.Warn("import failed", zap.String("path", r.Path), zap.Error(r.Err))
				fmt.Fprintf(out, "FAILED %s: %v\n", r.Path, r.Err)
				continue
			}
			env.countImport()
			fmt.Fprintf(out, "Imported %s: %s\n", r.Path, r.Session.Title)
		}
	}
}

func (e *appEnv) countImport() {
	if err := e.prefs.IncrementMetric("sessions_imported"); err != nil {
		logger.Warn("failed to record import", zap.Error(err))
	}
}
