package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/docugraph"
	"github.com/soundprediction/docugraph/pkg/config"
	"github.com/soundprediction/docugraph/pkg/driver"
	"github.com/soundprediction/docugraph/pkg/llm"
	"github.com/soundprediction/docugraph/pkg/logger"
	"github.com/soundprediction/docugraph/pkg/schema"
	"github.com/soundprediction/docugraph/pkg/server"
	"github.com/soundprediction/docugraph/pkg/strategy"
	"github.com/soundprediction/docugraph/pkg/telemetry"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the docugraph HTTP server",
	Long: `Start the docugraph HTTP server providing REST access to document
ingestion, graph-backed retrieval, and runtime strategy administration.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().String("host", "", "server host")
	serverCmd.Flags().Int("port", 0, "server port")
	serverCmd.Flags().String("mode", "", "gin mode (debug, release, test)")
	serverCmd.Flags().String("neo4j-uri", "", "Neo4j bolt URI")
	serverCmd.Flags().String("neo4j-user", "", "Neo4j username")
	serverCmd.Flags().String("neo4j-password", "", "Neo4j password")
	serverCmd.Flags().String("neo4j-database", "", "Neo4j database name")
	serverCmd.Flags().String("preset", "", "initial strategy preset")
	serverCmd.Flags().String("schema", "", "schema descriptor file")
	serverCmd.Flags().String("strategy-store", "", "badger directory persisting strategy updates")
	serverCmd.Flags().String("strategy-file", "", "YAML strategy export to seed the live pair from")
	serverCmd.Flags().String("telemetry-parquet-path", "", "directory for parquet error capture")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	overrideConfigWithFlags(cmd, cfg)

	log, telemetryHandler, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	if telemetryHandler != nil {
		defer telemetryHandler.Close()
	}

	client, closeClient, err := buildClient(cfg, log)
	if err != nil {
		return err
	}
	defer closeClient()

	srv := server.New(cfg, client)
	srv.Setup()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("server listening", slog.String("addr", cfg.Server.Addr()))
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		log.Info("shutting down", slog.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	}
}

// buildLogger assembles the process logger, wrapping it with parquet
// error capture when configured.
func buildLogger(cfg *config.Config) (*slog.Logger, *telemetry.ParquetHandler, error) {
	level := logger.ParseLevel(cfg.LogLevel)
	base := logger.NewDefaultLogger(level)
	if cfg.Telemetry.ParquetPath == "" {
		return base, nil, nil
	}

	handler, err := telemetry.NewParquetHandler(base.Handler(), cfg.Telemetry.ParquetPath)
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry: %w", err)
	}
	return logger.NewLogger(handler), handler, nil
}

// buildClient wires the graph store, schema, strategies, and the
// optional LLM into the engine client.
func buildClient(cfg *config.Config, log *slog.Logger) (*docugraph.Client, func(), error) {
	desc, err := schema.Load(cfg.Schema.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("load schema: %w", err)
	}

	var opts []strategy.Option
	var persister *strategy.BadgerPersister
	if cfg.Strategy.StorePath != "" {
		persister, err = strategy.OpenBadgerPersister(cfg.Strategy.StorePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open strategy store: %w", err)
		}
		opts = append(opts, strategy.WithPersister(persister))
	}
	strategies, err := strategy.NewStore(cfg.Strategy.Preset, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("strategy store: %w", err)
	}
	if cfg.Strategy.File != "" {
		snap, err := strategy.LoadFile(cfg.Strategy.File)
		if err != nil {
			return nil, nil, fmt.Errorf("load strategy file: %w", err)
		}
		if _, err := strategies.Replace(snap); err != nil {
			return nil, nil, fmt.Errorf("apply strategy file: %w", err)
		}
		log.Info("seeded strategies from file", slog.String("path", cfg.Strategy.File))
	}

	store, err := driver.NewNeo4jStore(cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect neo4j: %w", err)
	}

	clientCfg := &docugraph.ClientConfig{Logger: log}
	if cfg.LLM.APIKey != "" {
		clientCfg.LLM = llm.NewOpenAIClient(llm.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
	} else {
		log.Info("no LLM api key configured, intent analysis runs on heuristics")
	}

	client, err := docugraph.NewClient(store, strategies, desc, clientCfg)
	if err != nil {
		store.Close(context.Background())
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := client.EnsureIndexes(ctx); err != nil {
		log.Warn("index creation failed", slog.String("error", err.Error()))
	}

	closeFn := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Close(shutdownCtx); err != nil {
			log.Warn("close graph store", slog.String("error", err.Error()))
		}
		if persister != nil {
			if err := persister.Close(); err != nil {
				log.Warn("close strategy store", slog.String("error", err.Error()))
			}
		}
	}
	return client, closeFn, nil
}

// overrideConfigWithFlags applies explicitly set command-line flags
// over file and environment configuration.
func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode, _ = cmd.Flags().GetString("mode")
	}
	if cmd.Flags().Changed("neo4j-uri") {
		cfg.Neo4j.URI, _ = cmd.Flags().GetString("neo4j-uri")
	}
	if cmd.Flags().Changed("neo4j-user") {
		cfg.Neo4j.Username, _ = cmd.Flags().GetString("neo4j-user")
	}
	if cmd.Flags().Changed("neo4j-password") {
		cfg.Neo4j.Password, _ = cmd.Flags().GetString("neo4j-password")
	}
	if cmd.Flags().Changed("neo4j-database") {
		cfg.Neo4j.Database, _ = cmd.Flags().GetString("neo4j-database")
	}
	if cmd.Flags().Changed("preset") {
		cfg.Strategy.Preset, _ = cmd.Flags().GetString("preset")
	}
	if cmd.Flags().Changed("schema") {
		cfg.Schema.Path, _ = cmd.Flags().GetString("schema")
	}
	if cmd.Flags().Changed("strategy-store") {
		cfg.Strategy.StorePath, _ = cmd.Flags().GetString("strategy-store")
	}
	if cmd.Flags().Changed("strategy-file") {
		cfg.Strategy.File, _ = cmd.Flags().GetString("strategy-file")
	}
	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}
