// Package main provides the prompt-lab binary entry point.
// prompt-lab builds structured LLM prompts from named frameworks through a
// TUI, a CLI and a local HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/ooti/prompt-lab/internal/cli"
	"github.com/ooti/prompt-lab/internal/config"
	"github.com/ooti/prompt-lab/internal/errors"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := cli.Execute(context.Background()); err != nil {
		verbose := strings.EqualFold(os.Getenv(config.EnvLogLevel), "debug")
		fmt.Fprintln(os.Stderr, errors.NewCLIErrorHandler(verbose).HandleError(err))
		os.Exit(cli.ExitCode(err))
	}
}
