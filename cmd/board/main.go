// Command board is the terminal Kanban board for the initiatives API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Itish41/InnovationTracker/client"
	"github.com/Itish41/InnovationTracker/initializers"
	"github.com/Itish41/InnovationTracker/tui"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	apiURL := flag.String("api", "", "API base URL (overrides config and API_URL)")
	logFile := flag.String("log", "", "write debug logs to this file")
	flag.Parse()

	if err := run(*configPath, *apiURL, *logFile); err != nil {
		fmt.Fprintln(os.Stderr, "board:", err)
		os.Exit(1)
	}
}

func run(configPath, apiURL, logFile string) error {
	if err := initializers.LoadEnv(); err != nil {
		return err
	}
	cfg, err := initializers.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.Client.APIURL = apiURL
	}

	// The terminal belongs to bubbletea, so logs only go to a file.
	logger := zap.NewNop()
	if logFile != "" {
		zcfg := zap.NewDevelopmentConfig()
		zcfg.OutputPaths = []string{logFile}
		zcfg.ErrorOutputPaths = []string{logFile}
		if logger, err = zcfg.Build(); err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer logger.Sync()
	}

	api := client.New(cfg.Client.APIURL,
		client.WithTimeout(cfg.Client.Timeout),
		client.WithUserID(cfg.Client.UserID),
		client.WithLogger(logger),
	)
	logger.Info("starting board", zap.String("api_url", cfg.Client.APIURL))

	model := tui.New(api, tui.WithRequestTimeout(cfg.Client.Timeout))
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run board: %w", err)
	}
	return nil
}
