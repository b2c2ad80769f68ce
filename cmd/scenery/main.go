package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/scenery/config"
	"github.com/lixenwraith/scenery/ctxlog"
	"github.com/lixenwraith/scenery/game"
	"github.com/lixenwraith/scenery/render"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}

	// An empty log file disables logging
	logger := ctxlog.Discard()
	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			return 1
		}
		defer logFile.Close()
		logger = ctxlog.New(cfg.LogLevel, cfg.LogFormat, logFile)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = ctxlog.WithLogger(ctx, logger)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		return 1
	}

	// Restore the terminal before printing a crash
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\nSCENERY CRASHED: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			code = 1
		}
	}()

	win := render.NewTerminalWindow(screen)
	g, err := game.Load(ctx, game.Options{
		Paths:     cfg.Paths(),
		StackPath: cfg.SceneStackPath(),
	}, win)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "load: %v\n", err)
		return 1
	}

	if ctrl := g.Audio(); ctrl != nil {
		ctrl.SetMuted(cfg.Mute)
		if !cfg.Mute {
			if err := ctrl.Start(); err != nil {
				logger.Warn("audio start failed, continuing without audio", "error", err)
			} else {
				defer ctrl.Stop()
			}
		}
	}

	err = g.Run(ctx, win, cfg.FrameInterval())
	screen.Fini()
	logger.Info("run finished", g.Status.Attrs()...)
	if err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		return 1
	}
	return 0
}
