package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"highpitch/internal/config"
	"highpitch/internal/onboarding"
)

var sessionsLimit int

// sessionsCmd lists stored practice sessions
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored practice sessions",
	RunE:  runSessionsList,
}

// sessionsDeleteCmd deletes a session
var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a practice session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

// statusCmd shows workspace status
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show highpitch workspace status",
	RunE:  showStatus,
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	sessions, err := env.store.ListSessions(ctx, sessionsLimit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No practice sessions yet. Import one with `highpitch import`.")
		return nil
	}

	fmt.Fprintf(out, "%-36s  %-16s  %6s  %5s  %s\n", "ID", "STARTED", "FILLER", "TYPES", "TITLE")
	for _, s := range sessions {
		fmt.Fprintf(out, "%-36s  %-16s  %6d  %5d  %s\n",
			s.ID, s.StartedAt.Local().Format("2006-01-02 15:04"), s.TotalFillers, s.WordTypes, s.Title)
	}
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.store.DeleteSession(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	count, err := env.store.CountSessions(ctx)
	if err != nil {
		return err
	}
	prefs := env.prefs.Get()

	var sb strings.Builder
	sb.WriteString("highpitch status\n")
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	fmt.Fprintf(&sb, "Workspace:   %s\n", env.ws)
	cfgPath := configPath
	if cfgPath == "" {
		cfgPath = config.DefaultPath(env.ws)
	}
	fmt.Fprintf(&sb, "Config:      %s\n", cfgPath)
	fmt.Fprintf(&sb, "Store:       %s (%s)\n", env.store.Path(), env.store.Driver())
	fmt.Fprintf(&sb, "Inbox:       %s\n", env.inboxDir())
	fmt.Fprintf(&sb, "Sessions:    %d\n", count)

	onboard := "not finished"
	if prefs.IsPassOnboarding {
		onboard = "finished"
		if prefs.UserJourney.OnboardingCompletedAt != "" {
			onboard += " at " + prefs.UserJourney.OnboardingCompletedAt
		}
	}
	fmt.Fprintf(&sb, "Onboarding:  %s\n", onboard)

	switch {
	case prefs.SPMAverage <= 0:
		sb.WriteString("Pace:        not measured\n")
	case prefs.SPMAverage == env.cfg.Onboarding.BaselineSPM || prefs.SPMAverage == onboarding.BaselineSPM:
		fmt.Fprintf(&sb, "Pace:        %.1f SPM (baseline)\n", prefs.SPMAverage)
	default:
		fmt.Fprintf(&sb, "Pace:        %.1f SPM\n", prefs.SPMAverage)
	}
	if spm, ok, err := env.store.LatestPace(ctx); err == nil && ok {
		fmt.Fprintf(&sb, "Last pace:   %.1f SPM\n", spm)
	}

	m := prefs.Metrics
	fmt.Fprintf(&sb, "Activity:    %d viewed, %d imported, %d exported\n",
		m.SessionsViewed, m.SessionsImported, m.ChartsExported)

	fmt.Fprint(cmd.OutOrStdout(), sb.String())
	return nil
}
