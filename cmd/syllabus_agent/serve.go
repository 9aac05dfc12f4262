package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/syllabus-auditor/internal/server"
)

var (
	servePort   int
	serveConfig string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for grading syllabi, managing saved audits, and generating guidance.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(serveConfig)
	if err != nil {
		return err
	}
	if cfg.Port != 0 && !cmd.Flags().Changed("port") {
		servePort = cfg.Port
	}

	store, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	o, closeOracle, err := newOracle(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer closeOracle()

	srv, err := server.New(server.Config{Port: servePort}, store, o)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
