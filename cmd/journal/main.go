package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/voicejournal/internal/config"
	"github.com/nickpending/voicejournal/internal/drafts"
	"github.com/nickpending/voicejournal/internal/logging"
	"github.com/nickpending/voicejournal/internal/ui"
)

func main() {
	// Parse CLI flags
	configPath := flag.String("config", "", "Config file (default $XDG_CONFIG_HOME/voicejournal/config.toml)")
	host := flag.String("host", "", "Backend host, e.g. localhost:8080 (overrides config for this session)")
	pageSize := flag.Int("page-size", 0, "Entries per page (overrides config for this session)")
	logFile := flag.String("log-file", "", "Log file (default under $XDG_STATE_HOME/voicejournal)")
	flag.Parse()

	if err := run(*configPath, *host, *pageSize, *logFile); err != nil {
		fmt.Fprintln(os.Stderr, "journal:", err)
		os.Exit(1)
	}
}

func run(configPath, host string, pageSize int, logFile string) error {
	if configPath == "" {
		p, err := config.Path()
		if err != nil {
			return err
		}
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if host != "" {
		if err := cfg.SetHost(host); err != nil {
			return fmt.Errorf("invalid --host: %w", err)
		}
	}
	if pageSize > 0 {
		cfg.Feed.PageSize = pageSize
	}

	if logFile == "" {
		logFile = cfg.Log.File
	}
	logger, closer, err := logging.Init(logFile, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := ui.Options{
		Context:    ctx,
		Config:     cfg,
		ConfigPath: configPath,
		Dial:       ui.ClientDialer(logger),
		Logger:     logger,
		Location:   time.Local,
	}

	// Drafts are optional; the editor works without them
	if path, err := drafts.DefaultPath(); err != nil {
		logger.Warn("drafts disabled", "err", err)
	} else if store, err := drafts.Open(path); err != nil {
		logger.Warn("drafts disabled", "path", path, "err", err)
	} else {
		defer store.Close()
		opts.Drafts = store
	}

	logger.Info("starting", "backend", cfg.BaseURL(), "page_size", cfg.Feed.PageSize)

	p := tea.NewProgram(
		ui.NewModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
