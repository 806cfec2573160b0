package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omnibridge/omnibridge/internal/archive"
)

func newLayersCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "layers [name]",
		Short: "List archived memory layers or dump one layer's entries",
		Args:  cobra.MaximumNArgs(1),
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

			if len(args) == 0 {
				counts, err := store.CountEntriesByLayer()
				if err != nil {
					return err
				}
				if len(counts) == 0 {
					fmt.Println("No entries archived yet. Run `omnibridge run` first.")
					return nil
				}
				for _, layer := range sortedKeys(counts) {
					fmt.Printf("%-22s %d entries\n", layer, counts[layer])
				}
				return nil
			}

			entries, err := store.EntriesForLayer(args[0])
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Printf("Layer %q has no archived entries.\n", args[0])
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}
			for _, e := range entries {
				fmt.Printf("[%s] %s\n  id: %s", e.Source, e.Content, e.ID)
				if e.Category != "" {
					fmt.Printf(" | category: %s", e.Category)
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "show only the newest N entries (0 = all)")

	return cmd
}
