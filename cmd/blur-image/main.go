package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go-blur/pkg/cli"
)

func main() {
	// Minimal logger until the flags pick the real one.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitFailure)
	}
}

// run parses args and executes the blur pipeline. It never exits the process.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	inv, exit, err := cli.Parse(args, stdout)
	if err != nil || exit {
		return err
	}

	logger := cli.NewLogger(stderr, inv.LogLevel, inv.LogFormat)
	slog.SetDefault(logger)

	return cli.Run(ctx, inv, stdout, logger)
}
