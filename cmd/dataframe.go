package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hazardkit/assetinv/internal/inventory"
)

var (
	dfWorlds      int
	dfPropsOut    string
	dfGeometryOut string
)

var dataframeCmd = &cobra.Command{
	Use:   "dataframe [csv]",
	Short: "Flatten an inventory into properties and geometry CSV frames",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv := inventory.NewAssetInventory()
		if err := inv.ReadFromCSV(args[0], false, cfg.Ingest.TypeLabel, cfg.Ingest.IDColumn); err != nil {
			return err
		}

		props, geometry, n, err := inv.DataFrame(inventory.DataFrameOptions{PossibleWorlds: dfWorlds})
		if err != nil {
			return err
		}

		if err := props.WriteCSV(dfPropsOut); err != nil {
			return err
		}
		if err := geometry.WriteCSV(dfGeometryOut); err != nil {
			return err
		}

		zap.L().Info("wrote data frames",
			zap.Int("assets", n),
			zap.Int("worlds", dfWorlds),
			zap.String("properties", dfPropsOut),
			zap.String("geometry", dfGeometryOut),
		)
		return nil
	},
}

func init() {
	dataframeCmd.Flags().IntVar(&dfWorlds, "worlds", 1, "number of possible worlds for uncertain features")
	dataframeCmd.Flags().StringVar(&dfPropsOut, "properties", "properties.csv", "properties frame output path")
	dataframeCmd.Flags().StringVar(&dfGeometryOut, "geometry", "geometry.csv", "geometry frame output path")
	rootCmd.AddCommand(dataframeCmd)
}
