// Package cli provides the command-line interface for prompt-lab.
//
// SYSTEM ARCHITECTURE ROLE:
// This module is the terminal entry point. It builds the cobra command tree,
// loads configuration, configures slog and constructs the service before any
// subcommand runs. With no subcommand it launches the interactive TUI.
//
// KEY RESPONSIBILITIES:
// - Parse flags and arguments into command parameter maps
// - Run operations through the CommandExecutor shared with the HTTP API
// - Format results as text, tables, JSON or bare ids
// - Start the HTTP server with graceful shutdown on SIGINT/SIGTERM
//
// INTEGRATION POINTS:
// - internal/commands/types.go: App.executor runs every operation
// - internal/config/config.go: --config selects the YAML file Load() reads
// - internal/api/server.go: `serve` starts the APIServer
// - internal/ui/model.go: the root command runs the TUI through App.runTUI
// - main.go: Execute() runs the root command and formats errors
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ooti/prompt-lab/internal/commands"
	"github.com/ooti/prompt-lab/internal/config"
	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/service"
	"github.com/ooti/prompt-lab/internal/ui"
)

const appName = "prompt-lab"

// App is the state shared by every subcommand once PersistentPreRunE has run
type App struct {
	cfg      *config.Config
	service  *service.Service
	executor *commands.CommandExecutor
	logger   *slog.Logger

	configPath string
	logLevel   string

	serviceOptions []service.Option
	runTUI         func(svc *service.Service) error
}

// Option customises the App before the command tree is built
type Option func(*App)

// WithServiceOptions passes options through to service.NewService
func WithServiceOptions(opts ...service.Option) Option {
	return func(a *App) { a.serviceOptions = append(a.serviceOptions, opts...) }
}

// WithTUI replaces the interactive program started by the root command
func WithTUI(run func(svc *service.Service) error) Option {
	return func(a *App) { a.runTUI = run }
}

// NewRootCommand builds the prompt-lab command tree
func NewRootCommand(opts ...Option) *cobra.Command {
	app := &App{runTUI: ui.Run}
	for _, opt := range opts {
		opt(app)
	}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Build structured LLM prompts from proven frameworks",
		Long: `prompt-lab builds structured prompts from named frameworks such as
R-T-F, S-O-L-V-E and R-I-S-E.

It provides:
- An interactive TUI for filling framework fields and previewing the result
- Intake classification that recommends a framework for a free-text goal
- Model-specific style snippets ("vibes")
- Markdown export and a local HTTP API

Run without a subcommand to start the TUI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runTUI(app.service)
		},
	}

	cmd.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", "Config file path (YAML, default ~/.prompt-lab/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		app.frameworksCommand(),
		app.renderCommand(),
		app.exportCommand(),
		app.classifyCommand(),
		app.vibeCommand(),
		app.serveCommand(),
		app.tuiCommand(),
		versionCommand(),
	)

	return cmd
}

// Execute runs the root command with os.Args
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// setup loads config, configures logging and builds the service
func (a *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	opts := append([]service.Option{service.WithLogger(a.logger)}, a.serviceOptions...)
	svc, err := service.NewService(cfg, opts...)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to initialize service")
	}

	a.cfg = cfg
	a.service = svc
	a.executor = commands.NewCommandExecutor(svc)
	a.logger.Debug("configuration loaded", "path", cfg.Path(), "default_framework", cfg.DefaultFramework)
	return nil
}

// run executes a command and returns its data, or the command's error
func (a *App) run(ctx context.Context, name string, params map[string]interface{}) (*commands.CommandResult, error) {
	result, err := a.executor.Execute(ctx, name, params)
	if err != nil {
		return nil, err
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// copy puts text on the clipboard and reports the outcome on stderr
func (a *App) copy(cmd *cobra.Command, text string) error {
	msg, err := a.service.Copy(cmd.Context(), text)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), msg)
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to encode JSON")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// parseAssignments parses repeated key=value flags into a map
func parseAssignments(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.ValidationError(fmt.Sprintf("invalid --set %q, expected key=value", pair))
		}
		values[key] = value
	}
	return values, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// ExitCode maps an error to a process exit code: 2 for invalid input, 1
// otherwise
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.GetAppError(err).Category == errors.CategoryValidation {
		return 2
	}
	return 1
}
