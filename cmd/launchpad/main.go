// Package main provides the launchpad CLI. It resolves a browser launch
// configuration from a profile file and flags, prints it, and can write
// the profile preferences or launch the browser.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/launchpad/pkg/browser"
	"github.com/entrhq/launchpad/pkg/config"
	"github.com/entrhq/launchpad/pkg/logging"
	"github.com/entrhq/launchpad/pkg/platform"
)

const version = "0.1.0"

func main() {
	cli, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if cli.ShowVersion {
		fmt.Printf("launchpad v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := run(ctx, cli, os.Stdout); err != nil {
		cancel()
		log.Printf("launchpad: %v", err)
		os.Exit(1)
	}
	cancel()
}

func run(ctx context.Context, cli *CLIConfig, out io.Writer) error {
	// On error the logger falls back to stderr and stays usable
	logger, _ := logging.NewLogger("launchpad")
	defer logger.Close()

	opts, err := loadOptions(cli)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	opts.Platform = platform.Current()
	opts.Logger = logger.With("config")

	cfg, err := config.New(opts)
	if err != nil {
		return fmt.Errorf("failed to build configuration: %w", err)
	}

	executable, err := cfg.ExecutablePath()
	if err != nil {
		return err
	}

	p := &printer{w: out, plain: cli.NoColor}

	if cli.Launch {
		return launch(ctx, cfg, logger, p)
	}

	// Render applies preferences too; applying first exposes the outcome
	result := cfg.ApplyPreferences(ctx)
	rendered := cfg.Render(ctx)

	p.header("launchpad")
	if len(cfg.Preferences()) > 0 {
		p.field("preferences", result)
		if result == config.ApplyFailed {
			p.field("error", cfg.LastApplyError())
		}
	}
	p.field("executable", executable)
	p.field("user data dir", cfg.UserDataDir())
	p.field("language", cfg.Language())
	p.field("sandbox", cfg.SandboxEnabled())
	if logPath := logger.LogPath(); logPath != "" {
		p.field("log", logPath)
	}
	p.args(rendered)

	if cli.ShowPrefs {
		data, err := os.ReadFile(cfg.PreferencesPath())
		switch {
		case err == nil:
			p.header("Default/Preferences")
			p.json(string(data))
		case errors.Is(err, os.ErrNotExist):
			p.field("preferences", "none written")
		default:
			return fmt.Errorf("failed to read preferences: %w", err)
		}
	}

	if cli.Copy {
		if err := clipboardWriteAll(commandLine(executable, rendered)); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		p.field("clipboard", "command line copied")
	}

	return nil
}

// launch starts the browser and blocks until ctx is canceled.
func launch(ctx context.Context, cfg *config.Config, logger *logging.Logger, p *printer) error {
	manager := browser.NewSessionManager(logger.With("browser"))
	if err := manager.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := manager.Shutdown(); err != nil {
			logger.Warnf("shutdown: %v", err)
		}
	}()

	session, err := manager.StartSession(ctx, "main", cfg, browser.SessionOptions{})
	if err != nil {
		return err
	}

	p.header("launchpad")
	p.field("executable", session.ExecutablePath)
	p.field("user data dir", session.UserDataDir)
	p.args(session.Args)
	p.field("status", "running, press Ctrl+C to stop")

	<-ctx.Done()
	return nil
}
