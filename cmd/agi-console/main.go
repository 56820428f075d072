package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"agi-console/internal/assistant"
	"agi-console/internal/config"
	"agi-console/internal/console"
	"agi-console/internal/gauge"
	"agi-console/internal/state"
	"agi-console/internal/web"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// version is set at build time via -ldflags "-X main.version=v1.0.0"
var version = "dev"

// Flags shared by every command. Empty means "not set on the command line".
var (
	configPath string
	logLevel   string
	endpoint   string
	webPort    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "agi-console",
		Short: "Web console for a remote assistant endpoint",
		Long: `agi-console serves a single-page console: a prompt box that sends prompts
to a remote assistant endpoint and shows the reply, a task list with a
completion gauge, and a decorative knowledge-graph panel.

Configuration is read from defaults, an optional YAML file (--config or
CONFIG_FILE), environment variables and flags, later sources winning.

Examples:
  agi-console                               # serve on :8080
  agi-console serve --port 9000
  agi-console ask "summarise today's tasks"
  echo "hello" | agi-console ask -`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: DEBUG, INFO, WARN, ERROR")
	root.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Assistant endpoint URL")
	root.Flags().StringVar(&webPort, "port", "", "Web UI port")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web console (default)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serve.Flags().StringVar(&webPort, "port", "", "Web UI port")

	ask := &cobra.Command{
		Use:   "ask PROMPT...",
		Short: "Send one prompt and print the reply",
		Long: `ask sends a single prompt through the same path as the web console and
prints the resulting output text, including the fixed fallback messages.
Use "-" to read the prompt from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	root.AddCommand(serve, ask)
	return root
}

// loadConfig layers command-line flags over config.Load.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.LogLevel = f.Value.String()
		case "endpoint":
			cfg.Endpoint = f.Value.String()
		case "port":
			cfg.WebPort = f.Value.String()
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging installs the default slog logger, mirroring records into
// the diagnostics buffer.
func setupLogging(cfg *config.Config, w io.Writer) *state.AppState {
	appState := state.New(cfg.MaxLogs, cfg.Endpoint, version)
	slog.SetDefault(slog.New(state.NewLogHandler(
		slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}),
		appState,
	)))
	return appState
}

func newAssistant(cfg *config.Config) *assistant.Client {
	return assistant.New(assistant.Options{
		Endpoint:  cfg.Endpoint,
		MaxTokens: cfg.MaxTokens,
		Tag:       cfg.Tag,
		Timeout:   cfg.RequestTimeout,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	appState := setupLogging(cfg, os.Stdout)

	logInfo("Starting AGI Console", "version", version)
	logInfo("Assistant endpoint", "endpoint", cfg.Endpoint, "max_tokens", cfg.MaxTokens, "tag", cfg.Tag)
	logInfo("Request timeout", "timeout", cfg.RequestTimeout.String())

	server := web.New(web.Options{
		Port:     cfg.WebPort,
		Version:  version,
		Asker:    newAssistant(cfg),
		AppState: appState,
		Charts:   gauge.NewRegistry(gauge.DefaultWidth, gauge.DefaultHeight),
	})
	server.Start()

	// Set up graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logInfo("Shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logError("Shutdown incomplete", "error", err)
		return err
	}
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// stdout carries the reply; logs go to stderr.
	appState := setupLogging(cfg, cmd.ErrOrStderr())

	prompt := strings.Join(args, " ")
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading prompt: %w", err)
		}
		prompt = string(data)
	}

	coord := console.NewCoordinator(newAssistant(cfg))
	done, ok := coord.Submit(cmd.Context(), prompt)
	if !ok {
		return errors.New("prompt is empty")
	}
	<-done
	appState.AddSubmissions(coord.Submissions())

	fmt.Fprintln(cmd.OutOrStdout(), coord.Output())
	return nil
}

func logInfo(msg string, attrs ...any) {
	slog.Info(msg, append([]any{"component", "Main"}, attrs...)...)
}

func logError(msg string, attrs ...any) {
	slog.Error(msg, append([]any{"component", "Main"}, attrs...)...)
}

// parseLogLevel converts a string log level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
