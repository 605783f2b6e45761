package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"clearcue-backend/internal/services"
)

const usage = `clearcue - YouTube content compliance checks from the terminal

Usage:
  clearcue analyze [flags]           Analyze a video and save the session
  clearcue sessions                  List saved sessions (newest first)
  clearcue sessions delete <id>      Delete a saved session
  clearcue config show               Print the effective API configuration
  clearcue config set [flags]        Update the API configuration

Run "clearcue <command> -h" for command flags.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stdout, usage)
		return 0
	}

	cmd, rest := args[0], args[1:]

	var err error
	switch cmd {
	case "analyze":
		err = runAnalyze(ctx, rest, stdout)
	case "sessions":
		err = runSessions(ctx, rest, stdout)
	case "config":
		err = runConfig(ctx, rest, stdout)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "clearcue: unknown command %q\n\n", cmd)
		fmt.Fprint(stderr, usage)
		return 2
	}

	if err != nil {
		fmt.Fprintf(stderr, "clearcue %s: %v\n", cmd, err)
		var validation *services.ValidationError
		if errors.As(err, &validation) {
			fields := make([]string, 0, len(validation.Fields))
			for field := range validation.Fields {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			for _, field := range fields {
				fmt.Fprintf(stderr, "  %s: %s\n", field, validation.Fields[field])
			}
		}
		return 1
	}
	return 0
}
