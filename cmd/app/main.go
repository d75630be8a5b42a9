package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/hallgrim/skald/internal"
	pkgconfig "github.com/hallgrim/skald/pkg/config"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runCollect(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunCollect(ctx, internal.WithConfig(cfg))
}

func runSummarize(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunSummarize(ctx, cmd.String("day"), internal.WithConfig(cfg))
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg))
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("SKALD_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "skald",
		Usage: "Chat-log archivist: collects daily channel transcripts and renders rule-based summaries",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the scheduler, archive watcher, and HTTP API",
				Action: runServe,
			},
			{
				Name:   "collect",
				Usage:  "Fetch yesterday's messages and write transcripts, then exit",
				Action: runCollect,
			},
			{
				Name:  "summarize",
				Usage: "Render summaries for one archived day, then exit",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "day",
						Usage: "Day to summarize (YYYY-MM-DD, default today)",
					},
				},
				Action: runSummarize,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the archive over MCP on stdin/stdout",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
