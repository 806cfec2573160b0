package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omnibridge/omnibridge/internal/archive"
	mcpserver "github.com/omnibridge/omnibridge/internal/mcp"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the bridge over the Model Context Protocol on stdio",
		Long: `Expose fetch_layer, run_cycle, system_status, and describe_catalog as MCP
tools so agent clients can drive ingestion and read memory layers directly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}
			dbPath, err := ensureInitialized(root)
			if err != nil {
				return err
			}

			core, _, err := buildCore(root)
			if err != nil {
				return err
			}

			database, err := archive.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			srv := mcpserver.NewServer(core, archive.NewStore(database), root)
			return srv.Serve(version)
		},
	}
}
