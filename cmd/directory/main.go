// Command directory is a terminal advocate directory. Each line read from
// stdin replaces the search term; ":clear" empties it and ":quit" exits.
// At end of input it exits once the last search has been displayed.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/solace-advocates/advocate-directory-api/internal/directory"
	platformclock "github.com/solace-advocates/advocate-directory-api/internal/platform/clock"
	"github.com/solace-advocates/advocate-directory-api/internal/platform/config"
	"github.com/solace-advocates/advocate-directory-api/internal/platform/logging"
	"github.com/solace-advocates/advocate-directory-api/internal/search"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Stdin, os.Stdout); err != nil {
		logger.Error("directory exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, in io.Reader, out io.Writer) error {
	strategy, err := directory.ParseStrategy(cfg.Directory.Strategy)
	if err != nil {
		return err
	}
	src, err := directory.NewRemoteSource(cfg.Directory.APIURL, nil)
	if err != nil {
		return err
	}

	policy := search.DefaultPolicy()
	if strategy == directory.StrategyClient {
		p, err := src.Policy(ctx)
		if err != nil {
			logger.Warn("could not read server search policy; filtering with the default fields", "error", err)
		} else {
			policy = p
		}
	}

	view, err := directory.New(directory.Config{
		Source:     src,
		Clock:      platformclock.NewSystemClock(),
		Debounce:   cfg.Directory.Debounce,
		MinLoading: cfg.Directory.MinLoading,
		Strategy:   strategy,
		Policy:     policy,
	})
	if err != nil {
		return err
	}
	defer view.Close()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	view.Mount(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-view.Changes():
			fmt.Fprint(out, "\n")
			snap := view.Snapshot()
			if err := directory.RenderSnapshot(out, snap); err != nil {
				return err
			}
			if lines == nil && settled(snap) {
				return nil
			}
		case line, ok := <-lines:
			if !ok {
				lines = nil
				if settled(view.Snapshot()) {
					return nil
				}
				continue
			}
			switch strings.TrimSpace(line) {
			case ":quit":
				return nil
			case ":clear":
				view.Clear()
			default:
				view.SetSearchTerm(line)
			}
		}
	}
}

// settled reports whether the displayed results belong to the current term.
func settled(s directory.Snapshot) bool {
	return s.State != directory.StateIdle && s.State != directory.StateLoading && s.Term == s.Query
}
