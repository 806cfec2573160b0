package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/omnibridge/omnibridge/internal/archive"
	"github.com/omnibridge/omnibridge/internal/config"
)

func newInitCmd() *cobra.Command {
	var (
		workspaceRoot  string
		evidenceDir    string
		documentsDir   string
		transcriptsDir string
		advisorName    string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize an OmniBridge workspace",
		Long: `Set up the .omnibridge/ directory with a SQLite archive and a workspace
config pointing the connectors at their data directories.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := workspaceRoot
			if root == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}
				root = cwd
			}
			root, _ = filepath.Abs(root)

			wcfg, err := config.LoadWorkspace(root)
			if err != nil {
				return err
			}
			if wcfg.Workspace.Name == "" {
				wcfg.Workspace.Name = filepath.Base(root)
			}
			if evidenceDir != "" {
				wcfg.Connectors.EvidenceDir = evidenceDir
			}
			if documentsDir != "" {
				wcfg.Connectors.DocumentsDir = documentsDir
			}
			if transcriptsDir != "" {
				wcfg.Connectors.TranscriptsDir = transcriptsDir
			}
			if advisorName != "" {
				wcfg.DefaultAdvisor = advisorName
			}

			if err := config.SaveWorkspace(root, wcfg); err != nil {
				return err
			}

			// Create the archive database so later commands find the schema.
			database, err := archive.Open(config.WorkspaceDBPath(root))
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			fmt.Printf("Initialized OmniBridge workspace %q in %s\n", wcfg.Workspace.Name, config.WorkspaceDirPath(root))
			if wcfg.Connectors.EvidenceDir == "" && wcfg.Connectors.DocumentsDir == "" && wcfg.Connectors.TranscriptsDir == "" {
				fmt.Println("No connector directories configured yet. Edit .omnibridge/config.toml or re-run init with --evidence/--documents/--transcripts.")
			}
			fmt.Println("Run `omnibridge run` to execute the first ingestion cycle.")
			return nil
		},
	}

	cmd.Flags().StringVar(&workspaceRoot, "root", "", "workspace root (defaults to current directory)")
	cmd.Flags().StringVar(&evidenceDir, "evidence", "", "directory scanned by the file connector")
	cmd.Flags().StringVar(&documentsDir, "documents", "", "directory scanned by the PDF connector")
	cmd.Flags().StringVar(&transcriptsDir, "transcripts", "", "directory scanned by the transcript connector")
	cmd.Flags().StringVar(&advisorName, "advisor", "", "advisor provider: heuristic, claude, or openai")

	return cmd
}
