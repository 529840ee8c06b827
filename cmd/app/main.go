package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	_ "github.com/joho/godotenv/autoload"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/starford/raido/internal"
	"github.com/starford/raido/internal/models"
	pkgconfig "github.com/starford/raido/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
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

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.RunMCP(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}

	return nil
}

func runSearch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	args := cmd.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("usage: raido search <folder> <prompt...>")
	}
	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve folder: %w", err)
	}
	searchPrompt := strings.Join(args[1:], " ")

	// One-shot runs keep stdout for results; warnings go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	engine, err := internal.NewEngine(cfg, logger)
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}
	defer engine.Close()

	results, err := engine.Search(ctx, models.Query{
		Root:       root,
		Prompt:     searchPrompt,
		MaxResults: int(cmd.Int("max")),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if results == nil {
			results = []models.Result{}
		}
		return json.NewEncoder(os.Stdout).Encode(results)
	}

	printResults(results)
	return nil
}

func printResults(results []models.Result) {
	color.NoColor = color.NoColor || !isatty.IsTerminal(os.Stdout.Fd())

	if len(results) == 0 {
		fmt.Println("no matching files")
		return
	}

	rank := color.New(color.FgCyan, color.Bold)
	score := color.New(color.FgYellow)
	for i, res := range results {
		rank.Printf("%2d. ", i+1)
		fmt.Printf("%s ", res.RelPath)
		score.Printf("[%d]", res.Score)
		fmt.Printf("\n    %s\n", res.Details)
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "raido",
		Usage: "Natural-language file search over local directories",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "Run the MCP server on stdio",
				Action: runMCP,
			},
			{
				Name:      "search",
				Usage:     "Run a one-shot search and print ranked results",
				ArgsUsage: "<folder> <prompt...>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max",
						Usage: "Maximum number of results",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print results as JSON",
					},
				},
				Action: runSearch,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
