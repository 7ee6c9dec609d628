package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/WendelHime/napcheck/internal/logic"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := logic.DefaultConfig()
	var logPath string
	var logLevel string
	var progress bool
	flag.StringVar(&cfg.Username, "user", "", "Account name to register, random when empty")
	flag.StringVar(&cfg.Metaserver, "metaserver", cfg.Metaserver, "Metaserver address")
	flag.StringVar(&cfg.Server, "server", "", "Server address, skips the metaserver when set")
	flag.StringVar(&cfg.ExpectedServer, "expect-server", cfg.ExpectedServer, "Server address the metaserver must answer, empty to accept any")
	flag.StringVar(&cfg.TargetUser, "target-user", cfg.TargetUser, "User sharing the target file")
	flag.StringVar(&cfg.TargetPath, "target-file", cfg.TargetPath, "Path of the target file in the user's share")
	flag.StringVar(&cfg.ExpectedMD5, "md5", cfg.ExpectedMD5, "Expected MD5 of the target file")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Deadline for the whole check")
	flag.DurationVar(&cfg.IOTimeout, "io-timeout", cfg.IOTimeout, "Deadline for each network step")
	flag.StringVar(&logPath, "log", "", "Write logs to this file instead of stderr")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flag.BoolVar(&progress, "progress", false, "Show a download progress bar on stderr")
	flag.Parse()

	var logOut io.Writer = os.Stderr
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer f.Close()
		logOut = f
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: level}))

	if progress {
		cfg.Progress = os.Stderr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result := logic.NewChecker(cfg, logger).Check(ctx)
	if line := result.PublicLine(); line != "" {
		fmt.Println(line)
	}
	return result.ExitCode()
}
