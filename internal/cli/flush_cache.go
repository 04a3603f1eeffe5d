package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Waito3007/aRefactor/internal/core/config"
	redisclient "github.com/Waito3007/aRefactor/internal/infra/redis"
)

var flushCacheCmd = &cobra.Command{
	Use:   "flush-cache",
	Short: "Drop every cached product so reads fall through to the database",
	Run:   runFlushCache,
}

func init() {
	rootCmd.AddCommand(flushCacheCmd)
}

func runFlushCache(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Redis.URL == "" {
		fmt.Println("No redis url configured, nothing to flush")
		return
	}

	client, err := redisclient.NewClient(cfg.Redis)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = client.Close()
	}()

	removed, err := client.FlushProducts(context.Background())
	if err != nil {
		slog.Error("Failed to flush product cache", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully removed %d cached products\n", removed)
}
