package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gogpu/sobel"
	"github.com/gogpu/sobel/internal/metrics"
	"github.com/gogpu/sobel/internal/report"
)

const (
	disciplineFlag      = "discipline"
	lockGranularityFlag = "lock-granularity"
	channelFlag         = "channel"
	logLevelFlag        = "log-level"
	metricsFileFlag     = "metrics-file"
	langFlag            = "lang"
)

type flagValues struct {
	discipline      string
	lockGranularity string
	channel         string
	logLevel        string
	metricsFile     string
	lang            string
}

// NewRootCommand returns the sobel command. Errors are returned, not
// printed; the caller decides the exit code.
func NewRootCommand() *cobra.Command {
	var fv flagValues

	cmd := &cobra.Command{
		Use:   "sobel <input_path> <output_path> <thread_count>",
		Short: "Compute a Sobel edge map of an image in parallel",
		Long: `Compute a Sobel edge map of an image in parallel.

The input may be PNG, JPEG, GIF, BMP, TIFF or WebP. The output is an 8-bit
grayscale image; its format follows the output extension (.png, .jpg, .bmp,
.tiff) and defaults to PNG. Interior rows are striped across thread_count
workers (at most 4096). Border pixels are always 0.`,
		Args:          exactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, fv)
		},
	}

	bindFlags(cmd.Flags(), &fv)

	return cmd
}

func bindFlags(flags *pflag.FlagSet, fv *flagValues) {
	flags.StringVar(&fv.discipline, disciplineFlag, sobel.DisciplineDisjoint.String(), "output discipline: disjoint or locked")
	flags.StringVar(&fv.lockGranularity, lockGranularityFlag, sobel.LockRow.String(), "lock granularity for the locked discipline: row or pixel")
	flags.StringVar(&fv.channel, channelFlag, sobel.ChannelRed.String(), "input channel the gradient is computed on: r, g or b")
	flags.StringVar(&fv.logLevel, logLevelFlag, "warn", "log level: debug, info, warn or error")
	flags.StringVar(&fv.metricsFile, metricsFileFlag, "", "write Prometheus metrics to this file after the run")
	flags.StringVar(&fv.lang, langFlag, "en", "language of the summary line: en or ru")
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%w: expected <input_path> <output_path> <thread_count>, got %d argument(s)", sobel.ErrArgument, len(args))
		}
		return nil
	}
}

func run(ctx context.Context, stdout, stderr io.Writer, args []string, fv flagValues) error {
	workers, err := parseWorkers(args[2])
	if err != nil {
		return err
	}
	discipline, err := sobel.ParseDiscipline(fv.discipline)
	if err != nil {
		return err
	}
	granularity, err := sobel.ParseLockGranularity(fv.lockGranularity)
	if err != nil {
		return err
	}
	channel, err := sobel.ParseChannel(fv.channel)
	if err != nil {
		return err
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(fv.logLevel)); err != nil {
		return fmt.Errorf("%w: --%s: %w", sobel.ErrArgument, logLevelFlag, err)
	}
	lang, err := report.ParseLanguage(fv.lang)
	if err != nil {
		return fmt.Errorf("%w: --%s: %w", sobel.ErrArgument, langFlag, err)
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	sobel.SetLogger(logger)

	opts := []sobel.Option{
		sobel.WithDiscipline(discipline),
		sobel.WithLockGranularity(granularity),
		sobel.WithChannel(channel),
	}
	var rec *metrics.Recorder
	if fv.metricsFile != "" {
		rec = metrics.New()
		opts = append(opts, sobel.WithMetrics(rec))
	}

	r, err := sobel.NewRunner(sobel.Config{
		InputPath:  args[0],
		OutputPath: args[1],
		Workers:    workers,
	}, opts...)
	if err != nil {
		return err
	}

	res, runErr := r.Run(ctx)

	// Metrics are written for failed runs too.
	if rec != nil {
		if err := rec.WriteTextfile(fv.metricsFile); err != nil {
			logger.Warn("could not write metrics file", "path", fv.metricsFile, "err", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	logger.Debug("run finished", "run_id", res.RunID, "checksum", strconv.FormatUint(res.Checksum, 16))
	return report.Fprint(stdout, lang, report.Summary{
		Width:   res.Width,
		Height:  res.Height,
		Workers: res.Workers,
		Elapsed: res.Elapsed,
	})
}

func parseWorkers(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: thread_count %q is not an integer", sobel.ErrArgument, s)
	}
	if n < 1 || n > sobel.MaxWorkers {
		return 0, fmt.Errorf("%w: thread_count must be in [1, %d], got %d", sobel.ErrArgument, sobel.MaxWorkers, n)
	}
	return n, nil
}
