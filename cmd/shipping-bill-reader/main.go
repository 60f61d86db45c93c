package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/a3tai/shipping-bill-reader/internal/config"
	"github.com/a3tai/shipping-bill-reader/internal/export"
	"github.com/a3tai/shipping-bill-reader/internal/mcp"
	"github.com/a3tai/shipping-bill-reader/internal/processor"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "shipping-bill-reader",
		Short:        "Extract line items from customs shipping-bill PDFs into a table",
		SilenceUsage: true,
	}

	root.AddCommand(newExtractCommand(), newServeCommand(), newVersionCommand())
	return root
}

func newExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Process every PDF in --dir and write the table to --out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			return runExtract(cmd.Context(), cmd.OutOrStdout(), cfg, logger)
		},
	}

	config.RegisterFlags(cmd.Flags())
	return cmd
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction tools over MCP standard I/O",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			// stdout carries the MCP protocol; logs only reach stderr in debug mode.
			out := io.Discard
			if cfg.IsDebug() {
				out = cmd.ErrOrStderr()
			}
			logger := newLogger(out, cfg.LogLevel)
			logger.Debug("starting with configuration", "config", cfg.String())

			proc := processor.New(cfg.ProcessorOptions(), logger)
			server, err := mcp.NewServer(cfg, proc, logger)
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			return server.Run(cmd.Context())
		},
	}

	config.RegisterFlags(cmd.Flags())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}
	return cfg, nil
}

// newLogger builds a text logger at the configured level
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// runExtract processes the input directory, writes every configured format
// and prints the batch summary to out
func runExtract(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) error {
	formats, err := cfg.OutputFormats()
	if err != nil {
		return err
	}

	proc := processor.New(cfg.ProcessorOptions(), logger)
	batch, err := proc.ProcessDirectory(ctx, cfg.InputDir)
	if errors.Is(err, processor.ErrNoPDFs) {
		fmt.Fprintf(out, "No PDF files found in %s\n", cfg.InputDir)
		return err
	}
	if err != nil {
		return err
	}

	paths, err := export.NewService(cfg.OutputDir, cfg.OutputPrefix, logger).Export(batch.Table, formats)
	if err != nil {
		return err
	}

	logger.Info("done", "batch", batch)
	printSummary(out, batch, paths)
	return nil
}

func printSummary(out io.Writer, batch *processor.BatchResult, paths []string) {
	fmt.Fprintf(out, "Files processed: %d\n", batch.FilesProcessed())
	fmt.Fprintf(out, "Rows extracted: %d\n", len(batch.Table))
	fmt.Fprintf(out, "Failures: %d\n", len(batch.Failures))
	for _, failure := range batch.Failures {
		fmt.Fprintf(out, "  %s: %s\n", failure.Name, failure.Reason)
	}
	for _, path := range paths {
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
}

// printVersion prints version information
func printVersion(out io.Writer) {
	fmt.Fprintf(out, "Shipping Bill Reader\n")
	fmt.Fprintf(out, "Version: %s\n", version)
	fmt.Fprintf(out, "Build Time: %s\n", buildTime)
	fmt.Fprintf(out, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(out, "Built with: %s\n", runtime.Version())
}
