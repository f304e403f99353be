package main

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "docugraph",
		Short: "Docugraph: document knowledge graph engine",
		Long: `Docugraph stores pre-extracted document structure, entities, and
relationships as a property graph and answers questions over it with
multi-signal retrieval.`,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}
