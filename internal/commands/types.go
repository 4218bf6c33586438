// Package commands implements the unified command execution system for prompt-lab.
//
// SYSTEM ARCHITECTURE ROLE:
// This module is the coordination layer between the user interfaces (CLI, HTTP,
// TUI) and the service layer. Every operation is a named command that takes a
// parameter map, is validated against a schema, and returns a CommandResult,
// so each interface gets the same checks and the same error codes.
//
// KEY RESPONSIBILITIES:
// - Define the command interface and execution flow
// - Validate parameters with the validation package before execution
// - Convert parameter maps into service requests
// - Standardize results and error information across interfaces
//
// INTEGRATION POINTS:
// - internal/cli: subcommands build parameter maps and call Execute()
// - internal/api/server.go: every endpoint runs through Execute()
// - internal/service/service.go: commands delegate through ServiceAwareCommand
// - internal/validation/validator.go: schema lookup in getValidationSchema()
// - internal/commands/framework_commands.go: catalog, render, classify, vibe, export
// - internal/commands/session_commands.go: session lifecycle
// - internal/commands/utility_commands.go: health and command listing
//
// COMMAND FLOW:
// 1. Interface converts input to a parameter map
// 2. CommandExecutor validates the map against the command's schema
// 3. A fresh command instance receives the service and validated parameters
// 4. The command calls the service and returns a CommandResult
// 5. Failures become CommandResult.Error with the AppError code preserved
package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/service"
	"github.com/ooti/prompt-lab/internal/validation"
)

// CommandResult represents the result of executing a command
type CommandResult struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Success bool        `json:"success"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo provides structured error information
type ErrorInfo struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Details  string `json:"details,omitempty"`
	Category string `json:"category,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// AppError rebuilds the AppError the info was made from
func (e *ErrorInfo) AppError() *errors.AppError {
	appErr := errors.NewAppError(errors.ErrorCode(e.Code), e.Message)
	appErr.Details = e.Details
	if e.Category != "" {
		appErr.Category = errors.ErrorCategory(e.Category)
	}
	if e.Severity != "" {
		appErr.Severity = errors.ErrorSeverity(e.Severity)
	}
	return appErr
}

// Err returns the result's failure as an error, or nil on success
func (r *CommandResult) Err() error {
	if r.Success {
		return nil
	}
	if r.Error == nil {
		return errors.NewAppError(errors.ErrCodeCommandFailed, "Command failed")
	}
	return r.Error.AppError()
}

func errorInfo(appErr *errors.AppError) *ErrorInfo {
	return &ErrorInfo{
		Code:     string(appErr.Code),
		Message:  appErr.Message,
		Details:  appErr.Details,
		Category: string(appErr.Category),
		Severity: string(appErr.Severity),
	}
}

func failed(err error) *CommandResult {
	return &CommandResult{Success: false, Error: errorInfo(errors.GetAppError(err))}
}

// Command represents a unified command interface
type Command interface {
	Execute(ctx context.Context) (*CommandResult, error)
	Validate() error
	GetName() string
	GetDescription() string
}

// ParameterizedCommand interface for commands that accept parameters
type ParameterizedCommand interface {
	SetParameters(params map[string]interface{}) error
}

// ServiceAwareCommand interface for commands that need service access
type ServiceAwareCommand interface {
	SetService(svc *service.Service)
}

// serviceCommand carries the service for commands embedding it
type serviceCommand struct {
	service *service.Service
}

func (c *serviceCommand) SetService(svc *service.Service) {
	c.service = svc
}

func (c *serviceCommand) Validate() error {
	if c.service == nil {
		return fmt.Errorf("service not set")
	}
	return nil
}

// CommandRegistry manages available commands
type CommandRegistry struct {
	commands map[string]func() Command
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[string]func() Command),
	}
}

// Register adds a command factory to the registry
func (r *CommandRegistry) Register(name string, factory func() Command) {
	r.commands[name] = factory
}

// Get retrieves a command factory by name
func (r *CommandRegistry) Get(name string) (func() Command, bool) {
	factory, exists := r.commands[name]
	return factory, exists
}

// List returns all available command names, sorted
func (r *CommandRegistry) List() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CommandExecutor provides a unified way to execute commands
type CommandExecutor struct {
	service   *service.Service
	registry  *CommandRegistry
	validator *validation.Validator
}

// NewCommandExecutor creates a new command executor
func NewCommandExecutor(svc *service.Service) *CommandExecutor {
	executor := &CommandExecutor{
		service:   svc,
		registry:  NewCommandRegistry(),
		validator: validation.NewValidator(),
	}

	executor.registerCommands()

	return executor
}

// Registry returns the command registry
func (e *CommandExecutor) Registry() *CommandRegistry {
	return e.registry
}

// Execute runs a command by name with the given parameters. Command failures
// are reported in the result; the error return is reserved for callers that
// need to distinguish a broken executor.
func (e *CommandExecutor) Execute(ctx context.Context, commandName string, params map[string]interface{}) (*CommandResult, error) {
	factory, exists := e.registry.Get(commandName)
	if !exists {
		return failed(errors.CommandNotFoundError(commandName)), nil
	}

	if params == nil {
		params = make(map[string]interface{})
	}

	if validationSchema := e.getValidationSchema(commandName); validationSchema != "" {
		validationResult := e.validator.Validate(validationSchema, params)
		if !validationResult.Valid {
			return failed(validationResult.ToAppError()), nil
		}

		validated := validationResult.GetValidatedData()
		// Identifiers outside the schema (session ids from the path) pass through
		for key, value := range params {
			if _, ok := validated[key]; !ok {
				validated[key] = value
			}
		}
		params = validated
	}

	cmd := factory()

	if serviceAware, ok := cmd.(ServiceAwareCommand); ok {
		serviceAware.SetService(e.service)
	}

	if parameterized, ok := cmd.(ParameterizedCommand); ok {
		if err := parameterized.SetParameters(params); err != nil {
			return failed(errors.ValidationError(err.Error())), nil
		}
	}

	if err := cmd.Validate(); err != nil {
		return failed(errors.ValidationError(err.Error())), nil
	}

	result, err := cmd.Execute(ctx)
	if err != nil {
		return failed(err), nil
	}

	return result, nil
}

// getValidationSchema returns the validation schema name for a command
func (e *CommandExecutor) getValidationSchema(commandName string) string {
	switch commandName {
	case "list-frameworks":
		return "list_frameworks"
	case "get-framework":
		return "get_framework"
	case "search-frameworks":
		return "search_frameworks"
	case "render":
		return "render"
	case "classify":
		return "classify"
	case "vibe":
		return "vibe"
	case "export":
		return "export"
	case "create-session":
		return "session_create"
	case "set-session-fields":
		return "session_fields"
	case "set-session-extras":
		return "session_extras"
	case "session-intake":
		return "session_intake"
	default:
		return ""
	}
}

// registerCommands registers all available commands
func (e *CommandExecutor) registerCommands() {
	factories := []func() Command{
		func() Command { return &ListFrameworksCommand{} },
		func() Command { return &GetFrameworkCommand{} },
		func() Command { return &SearchFrameworksCommand{} },
		func() Command { return &RenderCommand{} },
		func() Command { return &ClassifyCommand{} },
		func() Command { return &VibeCommand{} },
		func() Command { return &ListVibesCommand{} },
		func() Command { return &ExportCommand{} },
		func() Command { return &CreateSessionCommand{} },
		func() Command { return &GetSessionCommand{} },
		func() Command { return &ListSessionsCommand{} },
		func() Command { return &DeleteSessionCommand{} },
		func() Command { return &SetSessionFieldsCommand{} },
		func() Command { return &SetSessionExtrasCommand{} },
		func() Command { return &ResetSessionCommand{} },
		func() Command { return &SessionIntakeCommand{} },
		func() Command { return &SessionOutputCommand{} },
		func() Command { return &HealthCheckCommand{} },
		func() Command { return &ListCommandsCommand{registry: e.registry} },
	}

	for _, factory := range factories {
		e.registry.Register(factory().GetName(), factory)
	}
}
