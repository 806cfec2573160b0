package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/omnibridge/omnibridge/internal/archive"
	"github.com/omnibridge/omnibridge/internal/config"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current OmniBridge state for the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}
			dbPath, err := ensureInitialized(root)
			if err != nil {
				return err
			}

			database, err := archive.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			store := archive.NewStore(database)

			gcfg, _ := config.Load(root)
			wcfg, _ := config.LoadWorkspace(root)

			name := wcfg.Workspace.Name
			if name == "" {
				name = root
			}

			cycles, err := store.CountCycles()
			if err != nil {
				return err
			}
			counts, err := store.CountEntriesByLayer()
			if err != nil {
				return err
			}

			var dbSize int64
			if fi, err := os.Stat(dbPath); err == nil {
				dbSize = fi.Size()
			}

			color := gcfg.Output.Color && term.IsTerminal(int(os.Stdout.Fd()))
			fmt.Printf("\nWorkspace: %s\n", colorize(name, color))
			fmt.Printf("Advisor:   %s\n", gcfg.DefaultAdvisor)
			fmt.Printf("Cycles:    %d archived\n", cycles)

			total := 0
			for _, n := range counts {
				total += n
			}
			fmt.Printf("Entries:   %d total\n", total)
			for _, layer := range sortedKeys(counts) {
				fmt.Printf("  %-22s %d\n", layer, counts[layer])
			}

			if recs, err := store.LatestReports(3); err == nil && len(recs) > 0 {
				fmt.Println("Recent cycles:")
				for _, rec := range recs {
					fmt.Printf("  %s  %s  propagated %d, alerts %d, conflicts %d\n",
						rec.StartedAt.Format("2006-01-02 15:04"), rec.ID,
						rec.Propagated, rec.AlertCount, rec.ConflictCount)
				}
			}

			fmt.Printf("Database:  %s\n\n", humanBytes(dbSize))
			return nil
		},
	}
}

func humanBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
