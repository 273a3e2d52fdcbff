// Package main is the entry point for the runa file browser.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	apppkg "github.com/kk-code-lab/runa/internal/app"
	"github.com/kk-code-lab/runa/internal/config"
	"github.com/kk-code-lab/runa/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type options struct {
	configPath string
	init       bool
	initFull   bool
	configHelp bool
	version    bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "runa [path]",
		Short:         "Terminal file browser with preview and fuzzy find",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), out, opts, args)
		},
	}
	cmd.SetOut(out)

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	flags.BoolVar(&opts.init, "init", false, "write a minimal starter config and exit")
	flags.BoolVar(&opts.initFull, "init-full", false, "write a config listing every option and exit")
	flags.BoolVar(&opts.configHelp, "config-help", false, "describe the config file and exit")
	flags.BoolVarP(&opts.version, "version", "v", false, "print the version and exit")
	cmd.MarkFlagsMutuallyExclusive("init", "init-full")
	return cmd
}

func run(ctx context.Context, out io.Writer, opts options, args []string) error {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}

	switch {
	case opts.version:
		_, err := fmt.Fprintf(out, "runa %s\n", version)
		return err
	case opts.configHelp:
		_, err := fmt.Fprintln(out, config.Help())
		return err
	case opts.init || opts.initFull:
		if err := config.GenerateDefault(path, opts.init); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "wrote %s\n", path)
		return err
	}

	logger, closer := logging.Open()
	defer func() {
		_ = closer.Close()
	}()

	cfg, err := config.LoadFrom(path, logger)
	if err != nil {
		return err
	}

	dir := ""
	if len(args) == 1 {
		dir = args[0]
		info, err := os.Stat(dir)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
	}

	app, err := apppkg.NewApplication(apppkg.Options{Dir: dir, Config: cfg, Logger: logger})
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	logger.Info("started", "version", version, "dir", app.CurrentDir())

	runErr := app.Run(ctx)
	if err := app.Close(); err != nil {
		logger.Warn("shutdown", "error", err)
	}
	if runErr != nil && ctx.Err() == nil {
		return runErr
	}
	return nil
}

func main() {
	// UTF-8 fallback keeps non-ASCII names readable on minimal locales.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "runa: %v\n", err)
		stop()
		os.Exit(1)
	}
}
