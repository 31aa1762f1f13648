package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"taskmanager-api/internal/config"
	"taskmanager-api/internal/logging"
	"taskmanager-api/internal/storage"

	"github.com/spf13/cobra"
)

var Version = "dev"

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "storectl",
		Short:         "Manage the task manager storage backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_FILE"), "path to a TOML config file")

	rootCmd.AddCommand(initCmd(&configPath))
	rootCmd.AddCommand(pingCmd(&configPath))
	rootCmd.AddCommand(statsCmd(&configPath))

	return rootCmd
}

func initCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the tables or indexes the configured backend needs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, *configPath, func(ctx context.Context, store storage.Store) error {
				if err := store.Init(ctx); err != nil {
					return fmt.Errorf("init failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s storage initialized\n", store.Driver())
				return nil
			})
		},
	}
}

func pingCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured backend is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, *configPath, func(ctx context.Context, store storage.Store) error {
				start := time.Now()
				if err := store.Ping(ctx); err != nil {
					return fmt.Errorf("ping failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s storage reachable (%s)\n", store.Driver(), time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
}

func statsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print list and task counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, *configPath, func(ctx context.Context, store storage.Store) error {
				lists, err := store.GetAllLists(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				total := 0
				for _, list := range lists {
					tasks, err := store.GetTasksByList(ctx, list.ID)
					if err != nil {
						return err
					}
					total += len(tasks)
					fmt.Fprintf(out, "%s\t%d\t%s\n", list.ID, len(tasks), list.Title)
				}
				fmt.Fprintf(out, "%d lists, %d tasks\n", len(lists), total)
				return nil
			})
		},
	}
}

// withStore loads the configuration, opens the store for the duration of fn
// and closes it afterwards
func withStore(cmd *cobra.Command, configPath string, fn func(context.Context, storage.Store) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logging.InitLogger(cfg.Log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := storage.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Store.Driver, err)
	}
	defer store.Close()

	return fn(ctx, store)
}
