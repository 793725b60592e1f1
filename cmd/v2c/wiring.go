package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/v2c/internal/app"
	"github.com/rpggio/v2c/internal/config"
	"github.com/rpggio/v2c/internal/gateway/ai"
	"github.com/rpggio/v2c/internal/gateway/speech"
	"github.com/rpggio/v2c/internal/gateway/translate"
	"github.com/rpggio/v2c/internal/mcp"
)

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}

func buildApp(cfg config.Config, logger *slog.Logger) (*app.App, error) {
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("failed to prepare database path: %w", err)
	}

	gw := app.Gateways{
		AI: ai.NewClient(ai.Config{
			APIKey:            cfg.AI.APIKey,
			Model:             cfg.AI.Model,
			BaseURL:           cfg.AI.BaseURL,
			Timeout:           cfg.AI.Timeout,
			RequestsPerMinute: cfg.AI.RequestsPerMinute,
		}),
		Speech: speech.NewClient(speech.Config{
			APIKey:  cfg.Speech.APIKey,
			BaseURL: cfg.Speech.BaseURL,
			Timeout: cfg.Speech.Timeout,
		}),
	}
	// Without a key every request would fail detection; skip translation.
	if cfg.Translate.APIKey != "" {
		gw.Translator = translate.NewClient(translate.Config{
			APIKey:  cfg.Translate.APIKey,
			BaseURL: cfg.Translate.BaseURL,
			Timeout: cfg.Translate.Timeout,
		})
	}
	if cfg.AI.APIKey == "" {
		logger.Warn("no AI API key configured; code generation requests will fail")
	}

	return app.New(cfg.DB.Path, gw, logger)
}

func buildMCPServer(cfg config.Config, a *app.App, logger *slog.Logger) *sdkmcp.Server {
	return mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: a.Projects,
			History:  a.History,
			Code:     a.Code,
		},
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})
}

func ensureDBDir(path string) error {
	path = strings.TrimSpace(path)
	if path == "" || path == app.MemoryDB || path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
