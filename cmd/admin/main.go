// Command admin is the Statline operations CLI.
//
// Usage:
//
//	statline-admin week show
//	statline-admin week set 9
//	statline-admin status
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/statlinehq/statline/internal/config"
	"github.com/statlinehq/statline/internal/db"
	"github.com/statlinehq/statline/internal/ollama"
	"github.com/statlinehq/statline/internal/week"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "statline-admin",
		Short: "Statline operations CLI",
	}

	root.AddCommand(weekCmd())
	root.AddCommand(statusCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// week command
// --------------------------------------------------------------------------

func weekCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show or set the current NFL week",
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "config/current-week.json", "Week configuration file")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current week configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			src := week.NewFileSource(configPath, config.CurrentSeason)
			cfg, err := src.Read()
			if err != nil {
				return err
			}
			fmt.Printf("current week: %d\n", cfg.CurrentWeek)
			if cfg.Season != "" {
				fmt.Printf("season:       %s\n", cfg.Season)
			}
			if cfg.LastUpdated != "" {
				fmt.Printf("last updated: %s\n", cfg.LastUpdated)
			}
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set N",
		Short: "Set the current week (1-18)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("week must be an integer, got %q", args[0])
			}
			src := week.NewFileSource(configPath, config.CurrentSeason)
			cfg, err := src.Set(n)
			if err != nil {
				return err
			}
			logger.Info("Week updated", "week", cfg.CurrentWeek, "path", configPath)
			return nil
		},
	}

	cmd.AddCommand(show)
	cmd.AddCommand(set)
	return cmd
}

// --------------------------------------------------------------------------
// status command
// --------------------------------------------------------------------------

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check database and Ollama connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			pool, err := db.New(ctx, cfg)
			if err != nil {
				fmt.Println("database: unreachable")
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()
			fmt.Println("database: connected")

			model := ollama.New(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.OllamaTimeout)
			if !model.Healthy(ctx) {
				fmt.Println("ollama:   offline (chat will use canned responses)")
				return nil
			}
			fmt.Println("ollama:   online")
			if models, err := model.Models(ctx); err == nil {
				for _, m := range models {
					marker := " "
					if m == cfg.OllamaModel {
						marker = "*"
					}
					fmt.Printf("  %s %s\n", marker, m)
				}
			}
			return nil
		},
	}
}
