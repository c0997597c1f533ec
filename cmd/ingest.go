package main

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hazardkit/assetinv/internal/inventory"
)

var (
	ingestOutDir    string
	ingestTypeLabel string
	ingestIDColumn  string
	ingestSheet     string
	ingestIDField   string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Convert CSV, XLSX, or shapefile inventories to GeoJSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typeLabel := ingestTypeLabel
		if typeLabel == "" {
			typeLabel = cfg.Ingest.TypeLabel
		}
		idColumn := ingestIDColumn
		if idColumn == "" {
			idColumn = cfg.Ingest.IDColumn
		}

		g, _ := errgroup.WithContext(cmd.Context())
		g.SetLimit(cfg.Ingest.Concurrency)

		for _, path := range args {
			path := path
			g.Go(func() error {
				out, err := convertFile(path, typeLabel, idColumn)
				if err != nil {
					return err
				}
				zap.L().Info("converted inventory",
					zap.String("input", path),
					zap.String("output", out),
				)
				return nil
			})
		}

		return g.Wait()
	},
}

// convertFile ingests one source file into a fresh inventory and writes the
// GeoJSON rendering next to it (or under --out-dir).
func convertFile(path, typeLabel, idColumn string) (string, error) {
	inv := inventory.NewAssetInventory()

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		err = inv.ReadFromCSV(path, false, typeLabel, idColumn)
	case ".xlsx":
		err = inv.ReadFromXLSX(path, false, typeLabel, idColumn, ingestSheet)
	case ".shp":
		err = inv.ReadFromShapefile(path, false, typeLabel, ingestIDField)
	default:
		return "", eris.Errorf("unsupported input format %q", filepath.Ext(path))
	}
	if err != nil {
		return "", err
	}

	out := outputPath(path, ingestOutDir)
	if _, err := inv.WriteGeoJSON(out); err != nil {
		return "", err
	}
	return out, nil
}

// outputPath swaps the input extension for .geojson, optionally rehoming
// the file under outDir.
func outputPath(input, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".geojson"
	if outDir == "" {
		return filepath.Join(filepath.Dir(input), base)
	}
	return filepath.Join(outDir, base)
}

func init() {
	ingestCmd.Flags().StringVar(&ingestOutDir, "out-dir", "", "directory for GeoJSON outputs (default: next to each input)")
	ingestCmd.Flags().StringVar(&ingestTypeLabel, "type", "", "type label for rows without one (building or bridge)")
	ingestCmd.Flags().StringVar(&ingestIDColumn, "id-column", "", "column holding asset ids (default: autoincrement)")
	ingestCmd.Flags().StringVar(&ingestSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	ingestCmd.Flags().StringVar(&ingestIDField, "id-field", "", "shapefile attribute holding asset ids")
	rootCmd.AddCommand(ingestCmd)
}
