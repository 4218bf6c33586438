// Package commands/utility_commands implements system utility and metadata commands.
//
// KEY RESPONSIBILITIES:
// - Report service health for monitoring and the /api/v1/health endpoint
// - List the registered commands for introspection
//
// COMMAND IMPLEMENTATIONS:
// - HealthCheckCommand: catalog size, open sessions and classification cache stats
// - ListCommandsCommand: every registered command with its description
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/ooti/prompt-lab/internal/config"
)

// HealthStatus is the data of a health check result
type HealthStatus struct {
	Status     string     `json:"status"`
	Service    string     `json:"service"`
	Version    string     `json:"version"`
	Frameworks int        `json:"frameworks"`
	Sessions   int        `json:"sessions"`
	Cache      CacheStats `json:"cache"`
	Timestamp  time.Time  `json:"timestamp"`
}

// CacheStats reports the classification cache
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// HealthCheckCommand performs a system health check
type HealthCheckCommand struct {
	serviceCommand
}

func (c *HealthCheckCommand) GetName() string {
	return "health"
}

func (c *HealthCheckCommand) GetDescription() string {
	return "Check system health status"
}

func (c *HealthCheckCommand) Execute(ctx context.Context) (*CommandResult, error) {
	frameworks := c.service.ListFrameworks()
	if len(frameworks) == 0 {
		return &CommandResult{
			Success: false,
			Error: &ErrorInfo{
				Code:    "HEALTH_CHECK_FAILED",
				Message: "Service health check failed: framework catalog is empty",
			},
		}, nil
	}

	hits, misses, size := c.service.CacheStats()
	return &CommandResult{
		Success: true,
		Data: HealthStatus{
			Status:     "healthy",
			Service:    "prompt-lab",
			Version:    config.Version,
			Frameworks: len(frameworks),
			Sessions:   c.service.Sessions().Len(),
			Cache:      CacheStats{Hits: hits, Misses: misses, Size: size},
			Timestamp:  time.Now().UTC(),
		},
		Message: "Service is healthy",
	}, nil
}

// CommandInfo describes a registered command
type CommandInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListCommandsCommand lists every registered command
type ListCommandsCommand struct {
	registry *CommandRegistry
}

func (c *ListCommandsCommand) Validate() error {
	if c.registry == nil {
		return fmt.Errorf("registry not set")
	}
	return nil
}

func (c *ListCommandsCommand) GetName() string {
	return "list-commands"
}

func (c *ListCommandsCommand) GetDescription() string {
	return "List available commands"
}

func (c *ListCommandsCommand) Execute(ctx context.Context) (*CommandResult, error) {
	names := c.registry.List()
	infos := make([]CommandInfo, 0, len(names))
	for _, name := range names {
		factory, _ := c.registry.Get(name)
		infos = append(infos, CommandInfo{Name: name, Description: factory().GetDescription()})
	}
	return &CommandResult{
		Success: true,
		Data:    infos,
		Message: fmt.Sprintf("%d commands available", len(infos)),
	}, nil
}
