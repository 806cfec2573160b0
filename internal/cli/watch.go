package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/omnibridge/omnibridge/internal/archive"
	"github.com/omnibridge/omnibridge/internal/connector"
)

func newWatchCmd() *cobra.Command {
	var debounceMs int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch connector directories and re-run cycles on change",
		Long: `Start a long-running watcher that monitors the configured evidence,
document, and transcript directories and runs an ingestion cycle whenever
files change.

Changes are debounced so that rapid edits (e.g. dropping a batch of files)
are batched into a single cycle.

Press Ctrl-C to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}
			dbPath, err := ensureInitialized(root)
			if err != nil {
				return err
			}

			core, gcfg, err := buildCore(root)
			if err != nil {
				return err
			}

			roots := []string{
				resolveDir(root, gcfg.Connectors.EvidenceDir),
				resolveDir(root, gcfg.Connectors.DocumentsDir),
				resolveDir(root, gcfg.Connectors.TranscriptsDir),
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			ignore := connector.NewIgnoreMatcher(root)

			watched := 0
			for _, dir := range roots {
				if dir == "" {
					continue
				}
				if err := addWatchDirs(watcher, dir, ignore); err != nil {
					return fmt.Errorf("add watch directories: %w", err)
				}
				watched++
			}
			if watched == 0 {
				return fmt.Errorf("no connector directories configured; nothing to watch")
			}

			database, err := archive.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()
			store := archive.NewStore(database)

			if debounceMs == 0 {
				debounceMs = gcfg.Watch.DebounceMs
			}
			debounce := time.Duration(debounceMs) * time.Millisecond

			fmt.Printf("Watching %d director%s for changes (debounce %s). Press Ctrl-C to stop.\n",
				watched, pluralY(watched), debounce)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			// Handle Ctrl-C gracefully.
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			pending := 0
			timer := time.NewTimer(debounce)
			timer.Stop() // Don't fire immediately.

			for {
				select {
				case <-sigCh:
					fmt.Println("\nStopping watcher.")
					return nil

				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}

					if shouldIgnoreEvent(root, event.Name, ignore) {
						continue
					}

					// If a new directory was created, start watching it.
					if event.Has(fsnotify.Create) {
						if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
							if !connector.HardIgnore(filepath.Base(event.Name)) {
								_ = watcher.Add(event.Name)
							}
							continue
						}
					}

					pending++
					timer.Reset(debounce)

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					fmt.Fprintf(os.Stderr, "  watch error: %v\n", err)

				case <-timer.C:
					if pending == 0 {
						continue
					}
					changed := pending
					pending = 0

					report, err := core.RunCycle(ctx)
					if err != nil {
						fmt.Fprintf(os.Stderr, "  cycle failed: %v\n", err)
						continue
					}
					if err := store.SaveReport(report); err != nil {
						fmt.Fprintf(os.Stderr, "  archive failed: %v\n", err)
					}
					archived := 0
					for _, entries := range core.LayerSnapshot() {
						if n, err := store.SaveEntries(entries); err == nil {
							archived += n
						}
					}
					fmt.Printf("[%s] %d change(s) -> cycle %s: %d new entr%s, %d alert(s)\n",
						time.Now().Format("15:04:05"), changed, report.ID,
						archived, pluralY(archived), report.AlertCount())

				case <-ctx.Done():
					return nil
				}
			}
		},
	}

	cmd.Flags().IntVar(&debounceMs, "debounce", 0, "debounce interval in milliseconds (defaults to config)")

	return cmd
}

// addWatchDirs recursively adds directories to the watcher, skipping ignored ones.
func addWatchDirs(watcher *fsnotify.Watcher, root string, ignore *connector.IgnoreMatcher) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if connector.HardIgnore(d.Name()) {
			return filepath.SkipDir
		}
		rel, _ := filepath.Rel(root, path)
		if rel != "." && ignore.Match(rel) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// shouldIgnoreEvent checks whether an event path should be ignored by the watcher.
func shouldIgnoreEvent(root, path string, ignore *connector.IgnoreMatcher) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return true
	}
	parts := strings.Split(rel, string(filepath.Separator))
	for _, p := range parts {
		if connector.HardIgnore(p) {
			return true
		}
	}
	return ignore.Match(rel)
}
