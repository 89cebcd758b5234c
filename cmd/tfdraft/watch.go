package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// newWatchCmd creates the "watch" subcommand for auto-replanning on file changes.
func newWatchCmd() *cobra.Command {
	var (
		debounce     time.Duration
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "watch <resources.json>",
		Short: "Auto-replan on resource file changes",
		Long: `Watch monitors a resource description file and recomputes the plan
on every change.

The watch command:
- Monitors the file for write and create events
- Recomputes the dependency-ordered plan on each change
- Debounces rapid changes to avoid excessive replans

Examples:
    tfdraft watch resources.json
    tfdraft watch resources.json -o plan.json
    tfdraft watch resources.json --debounce 1s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args[0], watchOptions{
				debounce:     debounce,
				outputFormat: outputFormat,
				outputFile:   outputFile,
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: json, yaml or text")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

type watchOptions struct {
	debounce     time.Duration
	outputFormat string
	outputFile   string
}

// runWatch monitors the resource file and replans on changes.
func runWatch(path string, opts watchOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	// Watch the directory rather than the file itself: editors replace
	// files on save, which invalidates a file-level watch.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}
	fmt.Printf("Watching: %s\n", absPath)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Initial plan
	fmt.Println("Running initial plan...")
	replan(absPath, opts)

	// Debounce timer
	var debounceTimer *time.Timer
	replanChan := make(chan struct{}, 1)

	fmt.Println("\nWatching for changes... (Ctrl+C to stop)")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != absPath {
				continue
			}

			// Only process write/create events
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// Debounce: reset timer on each change
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(opts.debounce, func() {
				select {
				case replanChan <- struct{}{}:
				default:
				}
			})

		case <-replanChan:
			fmt.Printf("\n[%s] Change detected, replanning...\n", time.Now().Format("15:04:05"))
			replan(absPath, opts)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)

		case <-sigChan:
			fmt.Println("\nStopping watch...")
			return nil
		}
	}
}

// replan recomputes and prints the plan, reporting errors without exiting.
func replan(path string, opts watchOptions) {
	if err := runPlan(path, opts.outputFormat, opts.outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Plan error: %v\n", err)
		return
	}
	if opts.outputFile != "" {
		fmt.Printf("Plan successful, wrote %s\n", opts.outputFile)
	}
}
