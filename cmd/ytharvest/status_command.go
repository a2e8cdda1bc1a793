package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ytharvest/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show dependency, path, and configuration readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			configDetail := ctx.configPath
			if !ctx.configExists {
				configDetail += " (not found; using defaults)"
			}
			lines = append(lines, renderStatusLine("Config", statusInfo, configDetail, colorize))
			lines = append(lines, renderStatusLine("Gate", statusInfo, cfg.Gate.Policy, colorize))
			lines = append(lines, renderStatusLine("Languages", statusInfo, strings.Join(cfg.Subtitles.Languages, ", "), colorize))
			cooldown := "disabled"
			if cfg.Cooldown.Enabled {
				cooldown = fmt.Sprintf("%d-%ds", cfg.Cooldown.MinSeconds, cfg.Cooldown.MaxSeconds)
			}
			lines = append(lines, renderStatusLine("Cooldown", statusInfo, cooldown, colorize))
			lines = append(lines, renderStatusLine("Cookies", statusInfo, yesNo(cfg.Paths.CookieFile != ""), colorize))

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			statuses := preflight.CheckSystemDeps(cfg)
			versions := make(map[string]string)
			for _, status := range statuses {
				if status.Available && status.Name == "yt-dlp" {
					versions[status.Name] = preflight.ProbeVersion(cmd.Context(), status.Command).Detail()
				}
			}
			lines = append(lines, dependencyLines(statuses, versions, colorize)...)

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Paths", colorize)...)
			lines = append(lines, preflightLines(preflight.RunAll(cfg), colorize)...)

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}
