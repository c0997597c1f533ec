package main

import (
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hazardkit/assetinv/internal/inventory"
)

var infoCmd = &cobra.Command{
	Use:   "info [csv]",
	Short: "Summarize an inventory: asset count and feature key union",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv := inventory.NewAssetInventory()
		if err := inv.ReadFromCSV(args[0], false, cfg.Ingest.TypeLabel, cfg.Ingest.IDColumn); err != nil {
			return err
		}

		keys := map[string]bool{}
		for _, id := range inv.AssetIDs() {
			features, _ := inv.AssetFeatures(id)
			for k := range features {
				keys[k] = true
			}
		}
		union := make([]string, 0, len(keys))
		for k := range keys {
			union = append(union, k)
		}
		sort.Strings(union)

		zap.L().Info("inventory summary",
			zap.String("input", args[0]),
			zap.Int("assets", inv.Len()),
			zap.Strings("features", union),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
