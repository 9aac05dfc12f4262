package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/syllabus-auditor/internal/config"
	"github.com/jonathan/syllabus-auditor/internal/kv"
	"github.com/jonathan/syllabus-auditor/internal/llm"
	"github.com/jonathan/syllabus-auditor/internal/oracle"
)

// resolveConfig merges an optional config file with environment fallbacks.
// Explicit flags are applied by the callers on top of the result.
func resolveConfig(configPath string) (config.Config, error) {
	cfg := config.Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		StorePath:   os.Getenv("STORE_PATH"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}

	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openStore picks the storage medium from configuration: Postgres when a
// database URL is set, a JSON file when a store path is set, memory
// otherwise. The returned func releases the medium.
func openStore(ctx context.Context, cfg config.Config) (kv.Store, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		store, err := kv.ConnectPG(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return store, store.Close, nil
	case cfg.StorePath != "":
		store, err := kv.NewFileStore(cfg.StorePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open store file: %w", err)
		}
		return store, func() {}, nil
	default:
		return kv.NewMemoryStore(), func() {}, nil
	}
}

// newOracle builds the Gemini-backed oracle. The returned func closes the
// underlying client.
func newOracle(ctx context.Context, cfg config.Config) (oracle.Oracle, func(), error) {
	if cfg.APIKey == "" {
		return nil, nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return oracle.NewGeminiOracle(client), func() { _ = client.Close() }, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
