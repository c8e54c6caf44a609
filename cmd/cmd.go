// submodule cmd contains command definitions
package main

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/formatter"
	"github.com/desertthunder/spx/internal/repositories"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/desertthunder/spx/internal/tasks"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

// rootCommand extracts a playlist and optionally downloads it. Its flags are inherited by subcommands,
// so "spx --config x history" and "spx history --config x" are equivalent.
func rootCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "spx",
		Usage:     "Extract Spotify playlist tracks and download them with spotDL",
		UsageText: "spx [options] <playlist_url>",
		Version:   "0.1.0",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "playlist",
				UsageText: "Spotify playlist URL, URI or ID",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a .env file with SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET",
				Value: ".env",
			},
			&cli.BoolFlag{
				Name:    "download",
				Aliases: []string{"d"},
				Usage:   "Download every track with the external downloader",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Directory for downloaded files (default: downloads.output_dir or the current directory)",
			},
			&cli.IntFlag{
				Name:  "timeout",
				Usage: "Per-track download timeout in seconds",
				Value: int(tasks.DefaultTimeout.Seconds()),
			},
			&cli.StringFlag{
				Name:  "overwrite",
				Usage: "What to do with existing files: " + policyNames(),
				Value: string(tasks.PolicySkip),
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: " + formatter.ModeNames(),
				Value:   string(formatter.ModeURLs),
			},
			&cli.BoolFlag{
				Name:  "info",
				Usage: "Log playlist metadata before extracting",
			},
			&cli.StringFlag{
				Name:  "added-after",
				Usage: "Only keep tracks added after this date (" + tasks.DateLayout + ")",
			},
			&cli.BoolFlag{
				Name:  "urls-only",
				Usage: "Print the track list even when --download is set, without downloading",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not record download outcomes in the history database",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(r.logger, log.DebugLevel)
			}
			return ctx, nil
		},
		Action:   r.Extract,
		Commands: r.register(),
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the configuration file",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write an example config file to --config",
				Action: r.ConfigInit,
			},
		},
	}
}

// historyCommand lists recorded download outcomes
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recently recorded downloads",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of records to show",
				Value:   repositories.DefaultHistoryLimit,
			},
			&cli.StringFlag{
				Name:  "run",
				Usage: "Show every record of one run ID instead of the most recent ones",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}

func policyNames() string {
	return strings.Join(lo.Map(tasks.Policies, func(p tasks.Policy, _ int) string { return string(p) }), "|")
}
