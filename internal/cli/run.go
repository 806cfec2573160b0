package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/omnibridge/omnibridge/internal/archive"
	"github.com/omnibridge/omnibridge/internal/operator"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one ingestion and fusion cycle",
		Long: `Execute every configured connector, file the produced entries into their
memory layers, converge registered nodes, and archive the audit report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}
			dbPath, err := ensureInitialized(root)
			if err != nil {
				return err
			}

			var bar *progressbar.ProgressBar
			if term.IsTerminal(int(os.Stderr.Fd())) {
				bar = progressbar.NewOptions(-1,
					progressbar.OptionSetDescription("  Running connectors"),
					progressbar.OptionSpinnerType(14),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionClearOnFinish(),
				)
			}

			core, gcfg, err := buildCore(root, operator.WithProgress(func(name string) {
				if bar != nil {
					bar.Describe("  " + name)
				}
			}))
			if err != nil {
				return err
			}

			report, err := core.RunCycle(context.Background())
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return err
			}

			database, err := archive.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			store := archive.NewStore(database)
			if err := store.SaveReport(report); err != nil {
				return err
			}
			archived := 0
			for _, entries := range core.LayerSnapshot() {
				n, err := store.SaveEntries(entries)
				if err != nil {
					return err
				}
				archived += n
			}

			color := gcfg.Output.Color && term.IsTerminal(int(os.Stdout.Fd()))
			fmt.Printf("Cycle %s complete.\n", colorize(report.ID, color))
			for _, ca := range report.Connectors {
				if ca.Failed {
					fmt.Printf("  %-20s failed: %s\n", ca.Name, ca.Error)
				} else {
					fmt.Printf("  %-20s produced %d, inserted %d\n", ca.Name, ca.Produced, ca.Inserted)
				}
			}
			if gcfg.Output.Verbose {
				fmt.Println("Memory layers:")
				for _, ls := range report.Layers {
					if ls.Fill.Bounded {
						fmt.Printf("  %-20s %d/%d (%.0f%%)\n", ls.Name, ls.Fill.Count, ls.Fill.Capacity, ls.Fill.Ratio*100)
					} else {
						fmt.Printf("  %-20s %d entries\n", ls.Name, ls.Fill.Count)
					}
				}
			}
			if n := report.AlertCount(); n > 0 {
				fmt.Printf("%d ingestion alert(s) recorded.\n", n)
			}
			fmt.Printf("Archived %d new entr%s.\n", archived, pluralY(archived))
			for _, rec := range report.Recommendations {
				fmt.Printf("  * %s\n", rec)
			}
			return nil
		},
	}
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
