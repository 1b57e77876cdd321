package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dmitrijs2005/assetvault/internal/client/app"
	"github.com/dmitrijs2005/assetvault/internal/client/config"
	"github.com/dmitrijs2005/assetvault/internal/flagx"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.LoadConfig()
	paths := flagx.Positional(os.Args[1:], config.FlagNames)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.NewApp(ctx, cfg, os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}
	defer a.Close()

	if _, err := a.Run(ctx, paths); err != nil {
		if !errors.Is(err, app.ErrFilesFailed) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		return 1
	}
	return 0
}
