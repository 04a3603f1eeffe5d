package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Waito3007/aRefactor/internal/core/config"
	"github.com/Waito3007/aRefactor/internal/infra/storage/postgres"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog row counts straight from the database",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	var visible, trashed, categories int
	if err := db.GetContext(ctx, &visible, "SELECT COUNT(*) FROM products WHERE deleted_at IS NULL"); err != nil {
		slog.Error("Failed to count products", "error", err)
		os.Exit(1)
	}
	if err := db.GetContext(ctx, &trashed, "SELECT COUNT(*) FROM products WHERE deleted_at IS NOT NULL"); err != nil {
		slog.Error("Failed to count trashed products", "error", err)
		os.Exit(1)
	}
	if err := db.GetContext(ctx, &categories, "SELECT COUNT(*) FROM categories"); err != nil {
		slog.Error("Failed to count categories", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "TABLE\tROWS")
	_, _ = fmt.Fprintf(w, "products\t%d\n", visible)
	_, _ = fmt.Fprintf(w, "products (trash)\t%d\n", trashed)
	_, _ = fmt.Fprintf(w, "categories\t%d\n", categories)
	_ = w.Flush()
}
