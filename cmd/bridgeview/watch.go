package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/scriptbind/scriptbind/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <package-dir>",
	Short: "Watch a package directory and hot-reload on changes",
	Long: `Watch a package directory for definition-file changes. On every
change the loaded script types are dropped, their descriptors are
invalidated and the package is reloaded from disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	world, registry, err := openRegistry(dir)
	if err != nil {
		return err
	}

	w, err := watch.New()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = w.WatchDir(ctx, dir, func(_ context.Context, event fsnotify.Event) error {
		dropped := world.InvalidateAll()
		registry.Invalidate(dropped...)
		if err := world.LoadAll(); err != nil {
			return err
		}
		fmt.Fprintf(output, "reloaded after %s (%d type(s) dropped)\n", event.Op.String(), len(dropped))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	fmt.Fprintf(output, "watching %s, Ctrl-C to stop\n", dir)
	<-ctx.Done()
	return nil
}
