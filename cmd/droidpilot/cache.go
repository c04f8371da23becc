package main

import (
	"fmt"

	cachesqlite "github.com/droidpilot-ai/droidpilot/pkg/cache/sqlite"
	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the persistent response cache",
	}

	openCache := func() (*cachesqlite.Cache, error) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return nil, err
		}
		if cfg.Cache.DBPath == "" {
			return nil, fmt.Errorf("cache.db_path is not configured; the in-memory cache has nothing to manage")
		}
		return cachesqlite.New(cfg.Cache.DBPath)
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			stats, err := c.Stats()
			if err != nil {
				return err
			}
			fmt.Printf("Entries: %d\nHits:    %d\nMisses:  %d\n", stats.Entries, stats.Hits, stats.Misses)
			return nil
		},
	}

	var expiredOnly bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			if expiredOnly {
				if err := c.Purge(); err != nil {
					return err
				}
				fmt.Println("Expired cache entries cleared.")
				return nil
			}
			if err := c.Clear(); err != nil {
				return err
			}
			fmt.Println("Cache cleared.")
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&expiredOnly, "expired", false, "remove only expired entries")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}
