package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"highpitch/internal/chartexport"
	"highpitch/internal/filler"
)

var (
	exportOutput string
	exportFormat string
	exportSize   int
)

// exportCmd writes the chart of a session to an image
var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export the filler word chart of a session as PNG or SVG",
	Long: `Renders the donut chart with its labels to an image file.

Korean labels need a font with Hangul glyphs; set chart.font_path in the
config to a TTF file.

Example:
  highpitch export -o chart.svg
  highpitch export 3f2a... -o chart.png --size 1024`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	format := chartexport.FormatFromPath(exportOutput)
	if exportFormat != "" {
		f, err := chartexport.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		format = f
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

	opts := chartexport.DefaultOptions()
	opts.Size = env.cfg.Chart.ExportSize
	if exportSize > 0 {
		opts.Size = exportSize
	}
	opts.InnerRatio = env.cfg.Chart.InnerRatio
	opts.OuterRatio = env.cfg.Chart.OuterRatio
	opts.LabelRatio = env.cfg.Chart.NarrowRatio
	opts.FontPath = env.cfg.Chart.FontPath

	exp, err := chartexport.New(opts)
	if err != nil {
		return err
	}

	c := filler.NewChart(env.cfg.Chart.Layout())
	c.SetSnapshot(sess.Words, sess.TotalFillers)

	if err := exp.WriteFile(exportOutput, format, c.View()); err != nil {
		return err
	}
	if err := env.prefs.IncrementMetric("charts_exported"); err != nil {
		logger.Warn("failed to record export", zap.Error(err))
	}

	logger.Info("chart exported", zap.String("session", sess.ID), zap.String("path", exportOutput))
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%s) to %s\n", sess.Title, format, exportOutput)
	return nil
}
