package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/funvibe/vela/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the module signature cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show signature cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Stats()
		if err != nil {
			return err
		}
		fmt.Printf("cached signatures: %d\n", n)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached signature",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("signature cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func openStore() (*cache.Store, error) {
	opts, err := loadOptions()
	if err != nil {
		return nil, err
	}
	return cache.Open(opts.Cache.Dir)
}
