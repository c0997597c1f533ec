package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hazardkit/assetinv/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "assetinv",
	Short: "Geospatial asset inventory conversion toolkit",
	Long:  "Ingests building and bridge inventories from CSV, XLSX, and shapefile sources, exports GeoJSON and row-indexed data frames for downstream statistical tooling.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
