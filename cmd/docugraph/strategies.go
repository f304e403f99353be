package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soundprediction/docugraph/pkg/strategy"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "Work with strategy presets",
}

var strategiesExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write a strategy preset to a YAML file",
	Long: `Write a built-in strategy preset to a YAML file. The exported file can
be edited and fed back to the server with --strategy-file, so a tuned
pair can be carried between environments.`,
	Args: cobra.ExactArgs(1),
	RunE: runStrategiesExport,
}

var exportPreset string

func init() {
	rootCmd.AddCommand(strategiesCmd)
	strategiesCmd.AddCommand(strategiesExportCmd)

	strategiesExportCmd.Flags().StringVar(&exportPreset, "preset", strategy.DefaultPreset, "preset to export")
}

func runStrategiesExport(cmd *cobra.Command, args []string) error {
	snap, err := strategy.Preset(exportPreset)
	if err != nil {
		return err
	}
	if err := strategy.SaveFile(args[0], snap); err != nil {
		return err
	}
	fmt.Printf("wrote %s preset to %s\n", exportPreset, args[0])
	return nil
}
