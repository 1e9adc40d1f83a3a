package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"highpitch/cmd/highpitch/ui"
	"highpitch/internal/filler"
	"highpitch/internal/inbox"
	"highpitch/internal/ux"
)

var (
	onboardReset bool
	chartText    bool
)

// onboardCmd runs the onboarding tour
var onboardCmd = &cobra.Command{
	Use:         "onboard",
	Short:       "Run the onboarding tour",
	Annotations: map[string]string{interactiveAnnotation: "true"},
	RunE:        runOnboard,
}

// chartCmd shows the filler word chart of one session
var chartCmd = &cobra.Command{
	Use:   "chart [session-id]",
	Short: "Show the filler word chart of a session (default: latest)",
	Long: `Opens the filler word donut for one practice session. The four most used
words get their own slice; the rest are grouped as 기타.

With --text the chart is summarized on one line instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChart,
}

func runHome(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	start := ui.PageSessions
	if ux.ShouldShowOnboarding(env.ws) {
		start = ui.PageOnboarding
	}
	return runProgram(ctx, env, ui.AppOptions{Start: start}, true)
}

func runOnboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	if onboardReset {
		if err := env.prefs.SetPassOnboarding(false); err != nil {
			return fmt.Errorf("failed to reset onboarding: %w", err)
		}
	}
	return runProgram(ctx, env, ui.AppOptions{Start: ui.PageOnboarding, Standalone: true}, false)
}

func runChart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	sess, err := env.sessionByArg(ctx, args)
	if err != nil {
		return err
	}

	if chartText {
		c := filler.NewChart(env.cfg.Chart.Layout())
		c.SetSnapshot(sess.Words, sess.TotalFillers)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", sess.Title, filler.Summary(c.View()))
		return nil
	}

	return runProgram(ctx, env, ui.AppOptions{
		Start:      ui.PageChart,
		SessionID:  sess.ID,
		Standalone: true,
	}, true)
}

// runProgram fills in the shared app options and runs the bubbletea program.
// withInbox starts the inbox watcher so new sessions show up live.
func runProgram(ctx context.Context, env *appEnv, opts ui.AppOptions, withInbox bool) error {
	styles := ui.NewStyles(ui.ThemeByName(env.cfg.UI.Theme))

	opts.Sessions = env.store
	opts.Layout = env.cfg.Chart.Layout()
	opts.Styles = styles
	opts.Resize = env.cfg.GetResizeDebounce()
	opts.Onboarding = ui.OnboardingOptions{
		Store:       env.prefs,
		Journal:     env.prefs,
		BaselineSPM: env.cfg.Onboarding.BaselineSPM,
		InitialPace: env.initialPace(ctx),
		StartStep:   env.resumeStep(),
		OnPaceMeasured: func(spm float64) error {
			return env.recordPace(ctx, spm)
		},
	}
	opts.OnSessionOpened = func(id string) {
		if err := env.prefs.RecordSessionView(id); err != nil {
			logger.Warn("failed to record session view", zap.Error(err))
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if withInbox {
		env.backfillInbox(ctx)
		w, err := inbox.NewWatcher(env.inboxDir(), inbox.NewImporter(env.store), env.cfg.GetInboxDebounce())
		if err != nil {
			logger.Warn("inbox watcher unavailable", zap.Error(err))
		} else if err := w.Start(ctx); err != nil {
			logger.Warn("inbox watcher failed to start", zap.Error(err))
			w.Stop()
		} else {
			defer w.Stop()
			opts.Imports = w.Events()
		}
	}

	p := tea.NewProgram(ui.NewAppModel(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
