package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-verifier/internal/logging"
	"github.com/jonathan/resume-verifier/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes REST endpoints for resume analysis,
offline scoring, stored candidate reports, and the chat assistant.

DATABASE_URL, GEMINI_API_KEY, and JWT_SECRET are read from the environment;
each is optional and its feature degrades gracefully when unset.`,
	RunE: runServe,
}

var (
	serveConfigPath string
	servePort       int
	serveLogJSON    bool
	serveVerbose    bool
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().BoolVar(&serveLogJSON, "log-json", false, "Emit JSON-encoded logs")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Debug-level logging")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(serveConfigPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("log-json") {
		cfg.LogJSON = serveLogJSON
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = serveVerbose
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogJSON, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	srv, err := server.New(&cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
