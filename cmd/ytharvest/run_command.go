package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ytharvest/internal/batch"
	"ytharvest/internal/config"
	"ytharvest/internal/deps"
	"ytharvest/internal/gate"
	"ytharvest/internal/harvest"
	"ytharvest/internal/logging"
	"ytharvest/internal/preflight"
	"ytharvest/internal/runlock"
	"ytharvest/internal/services"
	"ytharvest/internal/services/ytdlp"
	"ytharvest/internal/urlsource"
)

type runOverrides struct {
	input      string
	output     string
	gate       string
	noCooldown bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var overrides runOverrides

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Download audio, subtitles, and metadata for every link in the input sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			runCfg := *cfg
			if err := applyRunOverrides(&runCfg, overrides); err != nil {
				return err
			}
			return executeRun(cmd, &runCfg)
		},
	}

	cmd.Flags().StringVarP(&overrides.input, "input", "i", "", "CSV file with one video link per row (overrides paths.input_csv)")
	cmd.Flags().StringVarP(&overrides.output, "output", "o", "", "Output directory (overrides paths.output_dir)")
	cmd.Flags().StringVar(&overrides.gate, "gate", "", "Gate policy: subtitle_language_presence or strict_license")
	cmd.Flags().BoolVar(&overrides.noCooldown, "no-cooldown", false, "Disable the pause between videos")
	return cmd
}

func applyRunOverrides(cfg *config.Config, o runOverrides) error {
	if input := strings.TrimSpace(o.input); input != "" {
		expanded, err := config.ExpandPath(input)
		if err != nil {
			return fmt.Errorf("resolve input path: %w", err)
		}
		cfg.Paths.InputCSV = expanded
	}
	if output := strings.TrimSpace(o.output); output != "" {
		expanded, err := config.ExpandPath(output)
		if err != nil {
			return fmt.Errorf("resolve output path: %w", err)
		}
		cfg.Paths.OutputDir = expanded
	}
	if policy := strings.TrimSpace(o.gate); policy != "" {
		cfg.Gate.Policy = strings.ToLower(policy)
	}
	if o.noCooldown {
		cfg.Cooldown.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return services.Wrap(services.ErrConfiguration, "cli", "run", "invalid overrides", err)
	}
	return nil
}

func executeRun(cmd *cobra.Command, cfg *config.Config) error {
	if err := cfg.RequireInput(); err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	sessionID := uuid.NewString()
	baseLogger, err := logging.NewFromConfig(cfg, sessionID)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger := logging.NewComponentLogger(baseLogger, "cli")

	if failed := preflight.Failures(preflight.RunAll(cfg)); len(failed) > 0 {
		return services.Wrap(services.ErrConfiguration, "cli", "preflight", preflight.Summary(failed), nil)
	}
	if missing := deps.MissingRequired(preflight.CheckSystemDeps(cfg)); len(missing) > 0 {
		return services.Wrap(services.ErrConfiguration, "cli", "preflight",
			"missing dependencies: "+strings.Join(missing, ", "), nil)
	}

	lock, err := runlock.Acquire(cfg.Paths.OutputDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	urls, err := urlsource.LoadCSV(cfg.Paths.InputCSV, cfg.Input.LinkColumn)
	if err != nil {
		return err
	}

	driver, err := buildDriver(cfg, baseLogger, sessionID)
	if err != nil {
		return err
	}

	logger.Info("run started",
		logging.String("input", cfg.Paths.InputCSV),
		logging.String("output", cfg.Paths.OutputDir),
		logging.String("gate", cfg.Gate.Policy),
		logging.Int("urls", len(urls)),
		logging.String("lock", lock.Path()),
	)

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report := driver.Run(runCtx, urls)
	fmt.Fprint(cmd.OutOrStdout(), renderReport(report))

	if report.Interrupted {
		return context.Canceled
	}
	return nil
}

func buildDriver(cfg *config.Config, logger *slog.Logger, sessionID string) (*batch.Driver, error) {
	g, err := gate.New(cfg.Gate, cfg.Subtitles.Languages, cfg.Subtitles.IncludeAutomatic)
	if err != nil {
		return nil, err
	}
	client, err := ytdlp.New(cfg.Download.YtDLPBinary,
		ytdlp.WithCookieFile(cfg.Paths.CookieFile),
		ytdlp.WithFFmpegLocation(cfg.Download.FFmpegLocation),
		ytdlp.WithLogger(logger),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "run", "build yt-dlp client", err)
	}
	fetcher := ytdlp.NewHTTPFetcher(cfg.Subtitles.FetchRequestsPerSecond)

	orchestrator, err := harvest.New(cfg, client, g, fetcher, logger)
	if err != nil {
		return nil, err
	}
	return batch.NewDriver(
		orchestrator,
		batch.HostFilter{Hosts: cfg.Input.AllowedHosts},
		batch.NewPacer(cfg.Cooldown),
		logger,
		batch.WithSessionID(sessionID),
	), nil
}
