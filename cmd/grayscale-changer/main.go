package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"grayscale-changer/internal/app"
	"grayscale-changer/internal/config"
	"grayscale-changer/internal/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandling(cancel)

	err := run(ctx, os.Args[1:], os.Getenv, os.Stdin, os.Stdout, os.Stderr)
	switch {
	case errors.Is(err, flag.ErrHelp):
		config.Usage(os.Stdout)
	case err != nil:
		cancel()
		log.Fatalf("Application failed: %v", err)
	}
}

// run executes one filter run. stdout only ever receives the image, when
// the output path is "-"; questions and logs go to stderr.
func run(ctx context.Context, args []string, getenv func(string) string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load(args, getenv, stdin, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			config.Usage(stderr)
		}
		return err
	}

	application := app.NewApplication(cfg, logger.NewConsoleLogger(stderr, logger.ParseLevel(cfg.LogLevel)))
	application.SetStdio(stdin, stdout)
	return application.Run(ctx)
}

func setupSignalHandling(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Signal received, shutting down...")
		cancel()
	}()
}
